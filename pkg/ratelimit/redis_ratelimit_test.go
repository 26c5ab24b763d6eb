package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(t *testing.T) *RedisRateLimiter {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewRedisRateLimiter(client, RedisRateLimiterConfig{KeyPrefix: "test:"})
}

func TestRedisRateLimiter_EnforcesLimit(t *testing.T) {
	limiter := newTestLimiter(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, err := limiter.Allow(ctx, "alice", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed, "request %d should be allowed", i+1)
	}

	allowed, err := limiter.Allow(ctx, "alice", 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestRedisRateLimiter_KeysAreIndependent(t *testing.T) {
	limiter := newTestLimiter(t)
	ctx := context.Background()

	allowed, err := limiter.Allow(ctx, "alice", 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = limiter.Allow(ctx, "alice", 1, time.Minute)
	require.NoError(t, err)
	assert.False(t, allowed)

	allowed, err = limiter.Allow(ctx, "bob", 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestRedisRateLimiter_ResetRestoresBudget(t *testing.T) {
	limiter := newTestLimiter(t)
	ctx := context.Background()

	allowed, err := limiter.Allow(ctx, "alice", 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = limiter.Allow(ctx, "alice", 1, time.Minute)
	require.NoError(t, err)
	assert.False(t, allowed)

	require.NoError(t, limiter.Reset(ctx, "alice"))

	allowed, err = limiter.Allow(ctx, "alice", 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestRedisRateLimiter_Ping(t *testing.T) {
	limiter := newTestLimiter(t)
	assert.NoError(t, limiter.Ping(context.Background()))
}
