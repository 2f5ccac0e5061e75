package contract

import (
	"context"
	"time"
)

// CatalogCache holds serialized public catalog reads.
type CatalogCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	Invalidate(ctx context.Context) error
}
