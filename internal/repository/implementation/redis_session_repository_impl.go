package implementation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"rmf-policy-be/internal/repository/contract"
	"rmf-policy-be/pkg/store"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "rmf:session:"

type RedisSessionRepositoryImpl struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisSessionRepository stores each session as a JSON document whose
// TTL is refreshed on every save.
func NewRedisSessionRepository(rdb *redis.Client, ttl time.Duration) contract.SessionRepository {
	return &RedisSessionRepositoryImpl{rdb: rdb, ttl: ttl}
}

func sessionKey(userID string) string {
	return sessionKeyPrefix + userID
}

func (r *RedisSessionRepositoryImpl) Get(ctx context.Context, userID string) (*store.Session, bool, error) {
	raw, err := r.rdb.Get(ctx, sessionKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get session %s: %w", userID, err)
	}

	var s store.Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, false, fmt.Errorf("decode session %s: %w", userID, err)
	}
	return &s, true, nil
}

func (r *RedisSessionRepositoryImpl) Save(ctx context.Context, session *store.Session) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", session.UserID, err)
	}
	return r.rdb.Set(ctx, sessionKey(session.UserID), raw, r.ttl).Err()
}

func (r *RedisSessionRepositoryImpl) Delete(ctx context.Context, userID string) error {
	return r.rdb.Del(ctx, sessionKey(userID)).Err()
}
