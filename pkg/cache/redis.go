package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/andrino-academy/andrino-api/pkg/config"
)

const dialTimeout = 2 * time.Second

// NewRedis connects to redis and verifies it answers. Callers treat an error
// as "run without cache".
func NewRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  dialTimeout,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", client.Options().Addr, err)
	}

	return client, nil
}

// Readiness returns a health probe for client. A nil client means caching is
// off, which is not a failure.
func Readiness(client *redis.Client) func(context.Context) error {
	return func(ctx context.Context) error {
		if client == nil {
			return nil
		}
		return client.Ping(ctx).Err()
	}
}
