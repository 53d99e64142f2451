package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// AdminUsersStore is the admin role table: a user is an admin exactly when a
// row with their ID exists.
type AdminUsersStore struct {
	pool *pgxpool.Pool
}

func NewAdminUsersStore(pool *pgxpool.Pool) *AdminUsersStore {
	return &AdminUsersStore{pool: pool}
}

func (s *AdminUsersStore) IsAdmin(ctx context.Context, userID string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM admin_users WHERE user_id = $1)`

	var isAdmin bool
	if err := s.pool.QueryRow(ctx, q, userID).Scan(&isAdmin); err != nil {
		return false, fmt.Errorf("check admin role: %w", err)
	}
	return isAdmin, nil
}

func (s *AdminUsersStore) GrantAdmin(ctx context.Context, userID string) error {
	const q = `
		INSERT INTO admin_users (user_id)
		VALUES ($1)
		ON CONFLICT (user_id) DO NOTHING
	`

	if _, err := s.pool.Exec(ctx, q, userID); err != nil {
		return fmt.Errorf("grant admin role: %w", err)
	}
	return nil
}
