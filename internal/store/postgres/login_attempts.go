package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// LoginAttemptsStore records sign-in attempts by hashed IP. Separate from the
// general rate-limit ledger so login throttling survives churn in that table.
type LoginAttemptsStore struct {
	pool *pgxpool.Pool
}

func NewLoginAttemptsStore(pool *pgxpool.Pool) *LoginAttemptsStore {
	return &LoginAttemptsStore{pool: pool}
}

func (s *LoginAttemptsStore) CountSince(ctx context.Context, ipHash string, windowStart time.Time) (int, error) {
	const q = `
		SELECT COUNT(*)
		FROM login_attempts
		WHERE ip_hash = $1 AND created_at >= $2
	`

	var count int
	if err := s.pool.QueryRow(ctx, q, ipHash, windowStart).Scan(&count); err != nil {
		return 0, fmt.Errorf("count login attempts: %w", err)
	}
	return count, nil
}

func (s *LoginAttemptsStore) Prune(ctx context.Context, before time.Time) error {
	const q = `DELETE FROM login_attempts WHERE created_at < $1`

	if _, err := s.pool.Exec(ctx, q, before); err != nil {
		return fmt.Errorf("prune login attempts: %w", err)
	}
	return nil
}

func (s *LoginAttemptsStore) Record(ctx context.Context, ipHash string) error {
	const q = `INSERT INTO login_attempts (ip_hash) VALUES ($1)`

	if _, err := s.pool.Exec(ctx, q, ipHash); err != nil {
		return fmt.Errorf("record login attempt: %w", err)
	}
	return nil
}
