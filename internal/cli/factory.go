package cli

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"clickform/internal/backend/clickup"
	"clickform/internal/cache"
	"clickform/internal/config"
	"clickform/internal/credential"
	"clickform/internal/service"
)

// ClickUpFactory builds the ClickUp backend from cfg: the token file in the
// config directory and the configured lookup cache.
func ClickUpFactory(ctx context.Context, cfg *config.Config) (service.Service, error) {
	store, err := newCache(ctx, cfg.Settings.Cache)
	if err != nil {
		return nil, err
	}
	creds := credential.NewProvider(credential.NewFileStore(cfg.TokenPath()))
	return clickup.New(creds, store,
		clickup.WithBaseURL(cfg.Settings.API.BaseURL),
		clickup.WithTimeout(cfg.Settings.API.Timeout),
	), nil
}

func newCache(ctx context.Context, s config.CacheSettings) (cache.Cache, error) {
	switch s.Backend {
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: s.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("failed to connect to redis at %s: %w", s.RedisAddr, err)
		}
		return cache.NewRedis(client, s.Prefix), nil
	default:
		m, err := cache.NewMemory(0)
		if err != nil {
			return nil, fmt.Errorf("failed to create memory cache: %w", err)
		}
		return m, nil
	}
}
