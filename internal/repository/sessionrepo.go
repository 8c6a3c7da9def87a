package repository

import (
	"context"

	"github.com/gofrs/uuid/v5"
)

// SessionRepository maps session tokens to user identities.
// At most one live token exists per user.
type SessionRepository interface {
	// Issue stores token for userID, atomically replacing any existing
	// token for that user. A new login invalidates prior sessions.
	Issue(ctx context.Context, userID uuid.UUID, token string) error
	// Resolve returns the user ID for an exact token match, or
	// errs.ErrNotFound. Callers must grammar-check the token first;
	// Resolve itself does not.
	Resolve(ctx context.Context, token string) (uuid.UUID, error)
}
