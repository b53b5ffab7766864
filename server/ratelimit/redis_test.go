package ratelimit

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Redis-backed tests run only against a real instance, pointed at by
// REDIS_TEST_ADDR (e.g. localhost:6379).
func newTestRedisLimiter(t *testing.T, config Config) *RedisLimiter {
	t.Helper()

	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() {
		_ = client.Close()
	})
	return NewRedisLimiter(client, config)
}

func TestRedisLimiterAdmit(t *testing.T) {
	ctx := context.Background()
	l := newTestRedisLimiter(t, Config{Limit: 3, Window: 2 * time.Second})

	userID := "redis-test-" + time.Now().Format("150405.000000000")
	for i := 0; i < 3; i++ {
		admitted, err := l.Admit(ctx, userID)
		require.NoError(t, err)
		assert.True(t, admitted)
	}

	admitted, err := l.Admit(ctx, userID)
	require.NoError(t, err)
	assert.False(t, admitted)

	time.Sleep(2100 * time.Millisecond)
	admitted, err = l.Admit(ctx, userID)
	require.NoError(t, err)
	assert.True(t, admitted)
}

func TestRedisLimiterConfigNormalized(t *testing.T) {
	l := NewRedisLimiter(redis.NewClient(&redis.Options{}), Config{})
	assert.Equal(t, DefaultLimit, l.config.Limit)
	assert.Equal(t, DefaultWindow, l.config.Window)
}
