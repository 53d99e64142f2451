package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"empowerorphansweb/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type DonationProgressStore struct {
	pool *pgxpool.Pool
}

func NewDonationProgressStore(pool *pgxpool.Pool) *DonationProgressStore {
	return &DonationProgressStore{pool: pool}
}

// GetLatest returns the newest progress row. domain.ErrNotFound means no
// amount has ever been set; callers treat that as zero.
func (s *DonationProgressStore) GetLatest(ctx context.Context) (domain.DonationProgress, error) {
	const q = `
		SELECT id, amount, updated_at
		FROM donation_progress
		ORDER BY updated_at DESC
		LIMIT 1
	`

	var (
		p      domain.DonationProgress
		idUUID pgtype.UUID
	)
	err := s.pool.QueryRow(ctx, q).Scan(&idUUID, &p.Amount, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.DonationProgress{}, domain.ErrNotFound
		}
		return domain.DonationProgress{}, fmt.Errorf("get donation progress: %w", err)
	}

	p.ID = uuidOrEmpty(idUUID)
	return p, nil
}

// SetAmount upserts the single progress row, inserting on first use.
func (s *DonationProgressStore) SetAmount(ctx context.Context, amount int, when time.Time) error {
	const q = `
		WITH updated AS (
			UPDATE donation_progress
			SET amount = $1, updated_at = $2
			WHERE id = (SELECT id FROM donation_progress ORDER BY updated_at DESC LIMIT 1)
			RETURNING id
		)
		INSERT INTO donation_progress (amount, updated_at)
		SELECT $1, $2
		WHERE NOT EXISTS (SELECT 1 FROM updated)
	`

	if _, err := s.pool.Exec(ctx, q, amount, when); err != nil {
		return fmt.Errorf("set donation progress: %w", err)
	}
	return nil
}
