package cache

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/bradfitz/gomemcache/memcache"

	"github.com/fabvote/fabvote-gateway/internal/usecase"
)

const (
	generationKey = "fv:q:generation"

	minExpiration = time.Second
	// memcached reads larger relative expirations as unix timestamps
	maxExpiration = 30 * 24 * time.Hour
)

// MemcacheClient is the part of *memcache.Client the cache uses.
type MemcacheClient interface {
	Get(key string) (*memcache.Item, error)
	Set(item *memcache.Item) error
	Add(item *memcache.Item) error
	Increment(key string, delta uint64) (uint64, error)
}

// MemcachedQueryCache shares evaluate results between gateway replicas.
// Flush bumps a generation counter stored in memcached instead of wiping
// the server, so other tenants of the same memcached are left alone.
type MemcachedQueryCache struct {
	client MemcacheClient
	ttl    time.Duration
	now    func() time.Time
}

func NewMemcachedQueryCache(client MemcacheClient, ttl time.Duration) *MemcachedQueryCache {
	return &MemcachedQueryCache{client: client, ttl: ttl, now: time.Now}
}

func expiration(ttl time.Duration) int32 {
	ttl = min(max(ttl, minExpiration), maxExpiration)
	return int32(ttl / time.Second)
}

// currentGeneration reads the shared generation. A missing counter is
// seeded from the clock, so a counter lost to eviction never comes back
// with a value an earlier generation already used.
func (c *MemcachedQueryCache) currentGeneration() (string, error) {
	item, err := c.client.Get(generationKey)
	if err == nil {
		return string(item.Value), nil
	}
	if !errors.Is(err, memcache.ErrCacheMiss) {
		return "", err
	}

	seed := []byte(strconv.FormatInt(c.now().UnixNano(), 10))
	err = c.client.Add(&memcache.Item{Key: generationKey, Value: seed})
	if err == nil {
		return string(seed), nil
	}
	if !errors.Is(err, memcache.ErrNotStored) {
		return "", err
	}

	// another replica seeded it first
	item, err = c.client.Get(generationKey)
	if err != nil {
		return "", err
	}
	return string(item.Value), nil
}

func (c *MemcachedQueryCache) key(name string, args []string) (string, error) {
	generation, err := c.currentGeneration()
	if err != nil {
		return "", err
	}
	return Key(name, args) + ":" + generation, nil
}

func (c *MemcachedQueryCache) Get(ctx context.Context, name string, args []string) ([]byte, bool) {
	key, err := c.key(name, args)
	if err != nil {
		slog.WarnContext(ctx, "memcached generation lookup failed", slog.String("error", err.Error()), slog.String("module", "cache"))
		return nil, false
	}

	item, err := c.client.Get(key)
	if err != nil {
		if !errors.Is(err, memcache.ErrCacheMiss) {
			slog.WarnContext(ctx, "memcached get failed", slog.String("error", err.Error()), slog.String("module", "cache"))
		}
		return nil, false
	}
	return item.Value, true
}

func (c *MemcachedQueryCache) Set(ctx context.Context, name string, args []string, value []byte) {
	key, err := c.key(name, args)
	if err != nil {
		slog.WarnContext(ctx, "memcached generation lookup failed", slog.String("error", err.Error()), slog.String("module", "cache"))
		return
	}

	err = c.client.Set(&memcache.Item{
		Key:        key,
		Value:      value,
		Expiration: expiration(c.ttl),
	})
	if err != nil {
		slog.WarnContext(ctx, "memcached set failed", slog.String("error", err.Error()), slog.String("module", "cache"))
	}
}

func (c *MemcachedQueryCache) Flush(ctx context.Context) {
	_, err := c.client.Increment(generationKey, 1)
	if errors.Is(err, memcache.ErrCacheMiss) {
		// nothing cached under a readable generation; seeding starts a fresh one
		_, err = c.currentGeneration()
	}
	if err != nil {
		slog.WarnContext(ctx, "memcached flush failed", slog.String("error", err.Error()), slog.String("module", "cache"))
	}
}

var _ usecase.QueryCache = (*MemcachedQueryCache)(nil)
