package cache

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/stretchr/testify/require"
)

// fakeMemcache keeps items in a map with memcached's Add/Increment rules.
type fakeMemcache struct {
	items map[string]*memcache.Item
}

func newFakeMemcache() *fakeMemcache {
	return &fakeMemcache{items: map[string]*memcache.Item{}}
}

func (f *fakeMemcache) Get(key string) (*memcache.Item, error) {
	item, ok := f.items[key]
	if !ok {
		return nil, memcache.ErrCacheMiss
	}
	return item, nil
}

func (f *fakeMemcache) Set(item *memcache.Item) error {
	f.items[item.Key] = item
	return nil
}

func (f *fakeMemcache) Add(item *memcache.Item) error {
	if _, ok := f.items[item.Key]; ok {
		return memcache.ErrNotStored
	}
	f.items[item.Key] = item
	return nil
}

func (f *fakeMemcache) Increment(key string, delta uint64) (uint64, error) {
	item, ok := f.items[key]
	if !ok {
		return 0, memcache.ErrCacheMiss
	}
	n, err := strconv.ParseUint(string(item.Value), 10, 64)
	if err != nil {
		return 0, err
	}
	n += delta
	item.Value = []byte(strconv.FormatUint(n, 10))
	return n, nil
}

func newTestMemcachedCache(client MemcacheClient, ttl time.Duration, clock time.Time) *MemcachedQueryCache {
	c := NewMemcachedQueryCache(client, ttl)
	c.now = func() time.Time { return clock }
	return c
}

func TestMemcachedQueryCacheSetGet(t *testing.T) {
	ctx := context.Background()
	mc := newFakeMemcache()
	c := newTestMemcachedCache(mc, time.Minute, time.Unix(100, 0))

	_, ok := c.Get(ctx, "ShowAllCandidates", []string{"e1"})
	require.False(t, ok)

	c.Set(ctx, "ShowAllCandidates", []string{"e1"}, []byte(`[]`))
	value, ok := c.Get(ctx, "ShowAllCandidates", []string{"e1"})
	require.True(t, ok)
	require.Equal(t, `[]`, string(value))

	key := Key("ShowAllCandidates", []string{"e1"}) + ":" + strconv.FormatInt(time.Unix(100, 0).UnixNano(), 10)
	require.Contains(t, mc.items, key)
	require.Equal(t, int32(60), mc.items[key].Expiration)
}

func TestMemcachedQueryCacheFlushBumpsGeneration(t *testing.T) {
	ctx := context.Background()
	mc := newFakeMemcache()
	a := newTestMemcachedCache(mc, time.Minute, time.Unix(100, 0))
	b := newTestMemcachedCache(mc, time.Minute, time.Unix(200, 0))

	a.Set(ctx, "CalculateResult", []string{"e1"}, []byte(`old`))
	_, ok := b.Get(ctx, "CalculateResult", []string{"e1"})
	require.True(t, ok, "replicas share the generation")

	b.Flush(ctx)

	_, ok = a.Get(ctx, "CalculateResult", []string{"e1"})
	require.False(t, ok)
}

func TestMemcachedQueryCacheEvictedGenerationIsNotReused(t *testing.T) {
	ctx := context.Background()
	mc := newFakeMemcache()
	clock := time.Unix(100, 0)
	c := NewMemcachedQueryCache(mc, time.Minute)
	c.now = func() time.Time { return clock }

	c.Set(ctx, "CalculateResult", []string{"e1"}, []byte(`old`))
	first := string(mc.items[generationKey].Value)

	delete(mc.items, generationKey)
	clock = clock.Add(time.Second)
	c.Flush(ctx)

	second := string(mc.items[generationKey].Value)
	require.NotEqual(t, first, second)

	_, ok := c.Get(ctx, "CalculateResult", []string{"e1"})
	require.False(t, ok)
}

func TestMemcachedExpirationIsClamped(t *testing.T) {
	require.Equal(t, int32(1), expiration(200*time.Millisecond))
	require.Equal(t, int32(90), expiration(90*time.Second))
	require.Equal(t, int32(30*24*60*60), expiration(365*24*time.Hour))
}
