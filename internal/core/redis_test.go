// AngelaMos | 2026
// redis_test.go

package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/souk-api/internal/config"
)

func TestNewRedisDisabledWithoutURL(t *testing.T) {
	r, err := NewRedis(context.Background(), config.RedisConfig{PoolSize: 10})
	require.NoError(t, err)
	assert.Nil(t, r)

	assert.Nil(t, r.Client())
	assert.Nil(t, r.Stats())
	assert.NoError(t, r.Close())
	assert.ErrorIs(t, r.Ping(context.Background()), errRedisDisabled)
}

func TestNewRedisRejectsBadURL(t *testing.T) {
	_, err := NewRedis(context.Background(), config.RedisConfig{URL: "http://not-redis"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse redis url")
}
