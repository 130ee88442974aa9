package memory

import (
	"context"
	"time"

	"rmf-policy-be/internal/repository/contract"
	"rmf-policy-be/pkg/store"

	"github.com/patrickmn/go-cache"
)

type SessionRepository struct {
	cache *cache.Cache
}

// NewSessionRepository keeps sessions in process memory. Idle sessions
// expire after ttl and are purged every ttl/6.
func NewSessionRepository(ttl time.Duration) contract.SessionRepository {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &SessionRepository{
		cache: cache.New(ttl, ttl/6),
	}
}

func (r *SessionRepository) Get(_ context.Context, userID string) (*store.Session, bool, error) {
	if x, found := r.cache.Get(userID); found {
		return x.(*store.Session).Clone(), true, nil
	}
	return nil, false, nil
}

func (r *SessionRepository) Save(_ context.Context, session *store.Session) error {
	r.cache.Set(session.UserID, session.Clone(), cache.DefaultExpiration)
	return nil
}

func (r *SessionRepository) Delete(_ context.Context, userID string) error {
	r.cache.Delete(userID)
	return nil
}
