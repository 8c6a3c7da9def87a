package postgres

import (
	"context"
	"errors"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"

	"github.com/olmmcc/union/internal/errs"
)

// SessionRepo implements SessionRepository using PostgreSQL.
type SessionRepo struct{ db *DB }

// NewSessionRepo constructs a session repository.
func NewSessionRepo(db *DB) *SessionRepo { return &SessionRepo{db: db} }

// Issue stores the token for a user, replacing any prior token in a single
// atomic statement. Concurrent logins for the same user are last-writer-wins.
func (r *SessionRepo) Issue(ctx context.Context, userID uuid.UUID, token string) error {
	const q = `
INSERT INTO sessions (user_id, token) VALUES ($1, $2)
ON CONFLICT (user_id) DO UPDATE SET token=EXCLUDED.token, issued_at=now()`
	_, err := r.db.Pool.Exec(ctx, q, userID, token)
	return err
}

// Resolve returns the user ID for an exact token match.
func (r *SessionRepo) Resolve(ctx context.Context, token string) (uuid.UUID, error) {
	const q = `SELECT user_id FROM sessions WHERE token=$1`
	var id uuid.UUID
	if err := r.db.Pool.QueryRow(ctx, q, token).Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, errs.ErrNotFound
		}
		return uuid.Nil, err
	}
	return id, nil
}
