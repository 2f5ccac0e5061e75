package memory

import (
	"context"
	"time"

	"subtracker-be/internal/repository/contract"

	"github.com/patrickmn/go-cache"
)

type CatalogCache struct {
	cache *cache.Cache
}

func NewCatalogCache(defaultTTL time.Duration) contract.CatalogCache {
	// Expired entries are purged on the same cadence as their lifetime
	c := cache.New(defaultTTL, defaultTTL)
	return &CatalogCache{
		cache: c,
	}
}

func (c *CatalogCache) Get(ctx context.Context, key string) ([]byte, bool) {
	if x, found := c.cache.Get(key); found {
		return x.([]byte), true
	}
	return nil, false
}

func (c *CatalogCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if ttl <= 0 {
		ttl = cache.DefaultExpiration
	}
	c.cache.Set(key, value, ttl)
}

func (c *CatalogCache) Invalidate(ctx context.Context) error {
	c.cache.Flush()
	return nil
}
