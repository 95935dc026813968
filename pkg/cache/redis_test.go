package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/andrino-academy/andrino-api/pkg/config"
)

func TestReadinessWithoutClient(t *testing.T) {
	assert.NoError(t, Readiness(nil)(context.Background()))
}

func TestNewRedisUnreachable(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client, err := NewRedis(ctx, config.RedisConfig{Host: "127.0.0.1", Port: 1})
	assert.Error(t, err)
	assert.Nil(t, client)
}
