package implementation

import (
	"context"
	"time"

	"subtracker-be/internal/repository/contract"

	"github.com/redis/go-redis/v9"
)

const catalogCachePrefix = "catalog:"

type RedisCatalogCache struct {
	client *redis.Client
}

func NewRedisCatalogCache(client *redis.Client) contract.CatalogCache {
	return &RedisCatalogCache{client: client}
}

func (c *RedisCatalogCache) Get(ctx context.Context, key string) ([]byte, bool) {
	value, err := c.client.Get(ctx, catalogCachePrefix+key).Bytes()
	if err != nil {
		return nil, false
	}
	return value, true
}

func (c *RedisCatalogCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	c.client.Set(ctx, catalogCachePrefix+key, value, ttl)
}

func (c *RedisCatalogCache) Invalidate(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, catalogCachePrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}
