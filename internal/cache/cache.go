// Package cache provides the key-value stores with per-key expiry used for
// lookup results.
package cache

import (
	"context"
	"time"
)

// Cache is a key-value store with per-key time-to-live.
// Get never returns an entry past its expiry.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
