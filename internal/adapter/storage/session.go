package storage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var _ SessionStore = (*SessionRepository)(nil)

// SessionRepository stores hashed session tokens in Postgres so logout
// can revoke a token before its JWT expiry.
type SessionRepository struct {
	db *pgxpool.Pool
}

func NewSessionRepository(db *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Create(ctx context.Context, tokenHash string, accountID uuid.UUID, expiresAt time.Time) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO sessions (token_hash, account_id, expires_at)
		VALUES ($1, $2, $3)`, tokenHash, accountID, expiresAt)
	return err
}

// Find returns the account owning a live session, or ErrNotFound for
// unknown, revoked, or expired tokens.
func (r *SessionRepository) Find(ctx context.Context, tokenHash string) (uuid.UUID, error) {
	var accountID uuid.UUID
	err := r.db.QueryRow(ctx, `
		SELECT account_id FROM sessions
		WHERE token_hash = $1 AND expires_at > NOW()`, tokenHash).Scan(&accountID)
	if errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, ErrNotFound
	}
	if err != nil {
		return uuid.Nil, err
	}
	return accountID, nil
}

func (r *SessionRepository) Delete(ctx context.Context, tokenHash string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM sessions WHERE token_hash = $1`, tokenHash)
	return err
}

// DeleteExpired removes stale sessions and reports how many went away.
func (r *SessionRepository) DeleteExpired(ctx context.Context) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM sessions WHERE expires_at <= NOW()`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
