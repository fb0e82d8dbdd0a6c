package cache

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/fabvote/fabvote-gateway/internal/usecase"
)

type MemoryQueryCache struct {
	cache *cache.Cache
}

func NewMemoryQueryCache(ttl time.Duration) *MemoryQueryCache {
	return &MemoryQueryCache{
		cache: cache.New(ttl, 2*ttl),
	}
}

func (c *MemoryQueryCache) Get(ctx context.Context, name string, args []string) ([]byte, bool) {
	x, found := c.cache.Get(Key(name, args))
	if !found {
		return nil, false
	}
	return x.([]byte), true
}

func (c *MemoryQueryCache) Set(ctx context.Context, name string, args []string, value []byte) {
	c.cache.Set(Key(name, args), value, cache.DefaultExpiration)
}

func (c *MemoryQueryCache) Flush(ctx context.Context) {
	c.cache.Flush()
}

var _ usecase.QueryCache = (*MemoryQueryCache)(nil)
