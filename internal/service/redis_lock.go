package service

import (
	"context"
	"fmt"
	"time"

	"rmf-policy-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	lockKeyPrefix = "rmf:lock:"

	// Must outlast the slowest message, a retried policy generation.
	defaultLockTTL   = 3 * time.Minute
	lockPollInterval = 50 * time.Millisecond
)

// Deletes the key only while it still holds our token, so an expired lock
// taken over by another instance is left alone.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

// RedisLock serializes a user's messages across every instance sharing
// the redis session store. Waiters in the same process queue on a local
// stripe first so only one of them polls redis.
type RedisLock struct {
	rdb    *redis.Client
	ttl    time.Duration
	local  stripedLock
	logger logger.ILogger
}

func NewRedisLock(rdb *redis.Client, ttl time.Duration, log logger.ILogger) *RedisLock {
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	return &RedisLock{rdb: rdb, ttl: ttl, logger: log}
}

func lockKey(userID string) string {
	return lockKeyPrefix + userID
}

func (l *RedisLock) Lock(ctx context.Context, userID string) (func(), error) {
	unlockLocal, _ := l.local.Lock(ctx, userID)

	key := lockKey(userID)
	token := uuid.NewString()

	ticker := time.NewTicker(lockPollInterval)
	defer ticker.Stop()

	for {
		ok, err := l.rdb.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			unlockLocal()
			return nil, fmt.Errorf("acquire session lock: %w", err)
		}
		if ok {
			break
		}

		select {
		case <-ctx.Done():
			unlockLocal()
			return nil, fmt.Errorf("acquire session lock: %w", ctx.Err())
		case <-ticker.C:
		}
	}

	return func() {
		defer unlockLocal()

		releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := releaseScript.Run(releaseCtx, l.rdb, []string{key}, token).Err(); err != nil {
			l.logger.Warn("SessionLock", "Failed to release lock, it will expire", map[string]interface{}{
				"user_id": userID,
				"error":   err.Error(),
			})
		}
	}, nil
}
