package service

import (
	"context"
	"os"
	"testing"
	"time"

	"rmf-policy-be/internal/pkg/logger"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set")
	}
	opt, err := redis.ParseURL(url)
	require.NoError(t, err)
	rdb := redis.NewClient(opt)
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TestRedisLock_ExcludesOtherInstances(t *testing.T) {
	rdb := newTestRedis(t)
	userID := "lock-it-" + time.Now().Format("150405.000000")

	// Two locks on one client stand in for two server instances.
	first := NewRedisLock(rdb, time.Minute, logger.NewNopLogger())
	second := NewRedisLock(rdb, time.Minute, logger.NewNopLogger())

	unlock, err := first.Lock(context.Background(), userID)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	_, err = second.Lock(ctx, userID)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	unlock()

	unlock, err = second.Lock(context.Background(), userID)
	require.NoError(t, err)
	unlock()

	exists, err := rdb.Exists(context.Background(), lockKey(userID)).Result()
	require.NoError(t, err)
	assert.Zero(t, exists)
}

func TestRedisLock_ReleaseKeepsForeignToken(t *testing.T) {
	rdb := newTestRedis(t)
	userID := "lock-it-foreign-" + time.Now().Format("150405.000000")
	ctx := context.Background()

	l := NewRedisLock(rdb, time.Minute, logger.NewNopLogger())
	unlock, err := l.Lock(ctx, userID)
	require.NoError(t, err)

	// Simulates the lock expiring and another instance taking it.
	require.NoError(t, rdb.Set(ctx, lockKey(userID), "other-instance", time.Minute).Err())
	unlock()

	got, err := rdb.Get(ctx, lockKey(userID)).Result()
	require.NoError(t, err)
	assert.Equal(t, "other-instance", got)
	require.NoError(t, rdb.Del(ctx, lockKey(userID)).Err())
}

func TestLockKey(t *testing.T) {
	assert.Equal(t, "rmf:lock:u1", lockKey("u1"))
}
