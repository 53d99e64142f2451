package postgres

import (
	"context"
	"fmt"
	"time"

	"empowerorphansweb/internal/ratelimit"

	"github.com/jackc/pgx/v5/pgxpool"
)

// RateLimitLogStore is the append-only ledger behind the rate limiter. Rows
// are inserted on every checked action and deleted only by pruning; nothing
// is ever updated.
type RateLimitLogStore struct {
	pool *pgxpool.Pool
}

func NewRateLimitLogStore(pool *pgxpool.Pool) *RateLimitLogStore {
	return &RateLimitLogStore{pool: pool}
}

func (s *RateLimitLogStore) CountSince(ctx context.Context, identifier string, action ratelimit.Action, windowStart time.Time) (int, error) {
	const q = `
		SELECT COUNT(*)
		FROM rate_limit_log
		WHERE identifier = $1 AND action = $2 AND created_at >= $3
	`

	var count int
	if err := s.pool.QueryRow(ctx, q, identifier, string(action), windowStart).Scan(&count); err != nil {
		return 0, fmt.Errorf("count rate limit entries: %w", err)
	}
	return count, nil
}

func (s *RateLimitLogStore) Prune(ctx context.Context, before time.Time) error {
	const q = `DELETE FROM rate_limit_log WHERE created_at < $1`

	if _, err := s.pool.Exec(ctx, q, before); err != nil {
		return fmt.Errorf("prune rate limit entries: %w", err)
	}
	return nil
}

func (s *RateLimitLogStore) Record(ctx context.Context, identifier string, action ratelimit.Action, ipHash string) error {
	const q = `
		INSERT INTO rate_limit_log (identifier, action, ip_hash)
		VALUES ($1, $2, $3)
	`

	if _, err := s.pool.Exec(ctx, q, identifier, string(action), ipHash); err != nil {
		return fmt.Errorf("record rate limit entry: %w", err)
	}
	return nil
}
