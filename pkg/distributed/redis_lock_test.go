package distributed

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) *RedisLockManager {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewRedisLockManager(client)
}

func TestAcquireLock_MutualExclusion(t *testing.T) {
	manager := newTestManager(t)
	ctx := context.Background()

	lock, err := manager.AcquireLock(ctx, "scheduler", "instance-1", time.Minute)
	require.NoError(t, err)
	require.NotNil(t, lock)

	_, err = manager.AcquireLock(ctx, "scheduler", "instance-2", time.Minute)
	assert.ErrorIs(t, err, ErrLockNotAcquired)

	require.NoError(t, lock.Release(ctx))

	lock2, err := manager.AcquireLock(ctx, "scheduler", "instance-2", time.Minute)
	require.NoError(t, err)
	require.NotNil(t, lock2)
}

func TestRelease_OnlyHolderCanRelease(t *testing.T) {
	manager := newTestManager(t)
	ctx := context.Background()

	lock, err := manager.AcquireLock(ctx, "scheduler", "instance-1", time.Minute)
	require.NoError(t, err)

	require.NoError(t, lock.Release(ctx))
	assert.ErrorIs(t, lock.Release(ctx), ErrLockNotHeld)
}

func TestExtend(t *testing.T) {
	manager := newTestManager(t)
	ctx := context.Background()

	lock, err := manager.AcquireLock(ctx, "scheduler", "instance-1", time.Minute)
	require.NoError(t, err)

	assert.NoError(t, lock.Extend(ctx, 2*time.Minute))

	require.NoError(t, lock.Release(ctx))
	assert.ErrorIs(t, lock.Extend(ctx, time.Minute), ErrLockNotHeld)
}

func TestIsHeld(t *testing.T) {
	manager := newTestManager(t)
	ctx := context.Background()

	lock, err := manager.AcquireLock(ctx, "scheduler", "instance-1", time.Minute)
	require.NoError(t, err)

	held, err := lock.IsHeld(ctx)
	require.NoError(t, err)
	assert.True(t, held)

	require.NoError(t, lock.Release(ctx))

	held, err = lock.IsHeld(ctx)
	require.NoError(t, err)
	assert.False(t, held)
}

func TestTryLockWithRetry(t *testing.T) {
	manager := newTestManager(t)
	ctx := context.Background()

	lock, err := manager.AcquireLock(ctx, "scheduler", "instance-1", time.Minute)
	require.NoError(t, err)

	_, err = manager.TryLockWithRetry(ctx, "scheduler", "instance-2", time.Minute, 2, 10*time.Millisecond)
	assert.ErrorIs(t, err, ErrLockNotAcquired)

	require.NoError(t, lock.Release(ctx))

	lock2, err := manager.TryLockWithRetry(ctx, "scheduler", "instance-2", time.Minute, 2, 10*time.Millisecond)
	require.NoError(t, err)
	require.NotNil(t, lock2)
}
