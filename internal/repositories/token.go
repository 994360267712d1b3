package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// TokenKey is the well-known key the access token is stored under.
const TokenKey = "access_token"

// TokenRepository persists the access token in the tokens table.
//
// The value is stored as-is; validity is decided by the backend.
type TokenRepository struct {
	db  *sql.DB
	key string
}

// NewTokenRepository creates a new [TokenRepository] storing under [TokenKey].
func NewTokenRepository(db *sql.DB) *TokenRepository {
	return &TokenRepository{db: db, key: TokenKey}
}

// Get returns the stored token and whether one is present.
func (r *TokenRepository) Get(ctx context.Context) (string, bool, error) {
	var value string
	err := r.db.QueryRowContext(ctx, "SELECT value FROM tokens WHERE key = ?", r.key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to query token: %w", err)
	}
	return value, true, nil
}

// Set overwrites the stored token.
func (r *TokenRepository) Set(ctx context.Context, token string) error {
	query := `
		INSERT INTO tokens (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	if _, err := r.db.ExecContext(ctx, query, r.key, token, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}
	return nil
}

// Clear removes the stored token. Clearing an empty store is not an error.
func (r *TokenRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM tokens WHERE key = ?", r.key); err != nil {
		return fmt.Errorf("failed to clear token: %w", err)
	}
	return nil
}

// UpdatedAt returns when the token was last written, or the zero time if none is stored.
func (r *TokenRepository) UpdatedAt(ctx context.Context) (time.Time, error) {
	var at time.Time
	err := r.db.QueryRowContext(ctx, "SELECT updated_at FROM tokens WHERE key = ?", r.key).Scan(&at)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to query token: %w", err)
	}
	return at, nil
}
