package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"clickform/internal/logger"
)

// RedisClient is the subset of the go-redis client the cache needs.
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// Redis is a Cache shared between processes through Redis.
type Redis struct {
	client RedisClient
	prefix string
}

// NewRedis creates a Redis cache. Keys are stored under prefix.
func NewRedis(client RedisClient, prefix string) *Redis {
	return &Redis{client: client, prefix: prefix}
}

// Get implements Cache. Redis errors are treated as misses.
func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.FromContext(ctx).Warn("cache read failed", "key", key, "error", err)
		}
		return nil, false
	}
	return val, true
}

// Set implements Cache.
func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return r.client.Set(ctx, r.prefix+key, value, ttl).Err()
}

// Delete implements Cache.
func (r *Redis) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.prefix+key).Err()
}
