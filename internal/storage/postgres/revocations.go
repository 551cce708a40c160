package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// Revoke records a signed-out token id. Expired rows are pruned on the way.
func (s *Store) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM revoked_tokens WHERE expires_at < NOW();`); err != nil {
		return fmt.Errorf("prune revoked tokens: %w", err)
	}
	const query = `
		INSERT INTO revoked_tokens (token_id, expires_at)
		VALUES ($1, $2)
		ON CONFLICT (token_id) DO NOTHING;
	`
	if _, err := s.pool.Exec(ctx, query, tokenID, expiresAt); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// IsRevoked reports whether a token id was signed out.
func (s *Store) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	var one int
	err := s.pool.QueryRow(ctx, `SELECT 1 FROM revoked_tokens WHERE token_id = $1;`, tokenID).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check revoked token: %w", err)
	}
	return true, nil
}
