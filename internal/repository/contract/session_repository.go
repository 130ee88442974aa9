package contract

import (
	"context"

	"rmf-policy-be/pkg/store"
)

// SessionRepository persists per-user conversation state. Implementations
// store copies, so callers never share a *store.Session with the backend.
type SessionRepository interface {
	// Get returns (nil, false, nil) when the user has no session yet.
	Get(ctx context.Context, userID string) (*store.Session, bool, error)
	Save(ctx context.Context, session *store.Session) error
	Delete(ctx context.Context, userID string) error
}
