package repository

import (
	"context"
	"time"
)

// CacheRepository is a string key/value store with expiry. A ttl of zero
// keeps the value until it is overwritten or deleted.
type CacheRepository interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
