package postgres

import (
	"context"
	"errors"
	"fmt"

	"empowerorphansweb/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type HeroSlidesStore struct {
	pool *pgxpool.Pool
}

func NewHeroSlidesStore(pool *pgxpool.Pool) *HeroSlidesStore {
	return &HeroSlidesStore{pool: pool}
}

func (s *HeroSlidesStore) ListSlides(ctx context.Context) ([]domain.HeroSlide, error) {
	const q = `
		SELECT id, url, alt, "order", position, created_at
		FROM hero_slides
		ORDER BY "order" ASC
	`

	rows, err := s.pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list hero slides: %w", err)
	}
	defer rows.Close()

	var out []domain.HeroSlide
	for rows.Next() {
		var (
			slide    domain.HeroSlide
			idUUID   pgtype.UUID
			altText  pgtype.Text
			position pgtype.Int4
		)
		if err := rows.Scan(&idUUID, &slide.URL, &altText, &slide.Order, &position, &slide.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan hero slide: %w", err)
		}
		slide.ID = uuidOrEmpty(idUUID)
		slide.Alt = textOrEmpty(altText)
		slide.Position = int4Ptr(position)
		out = append(out, slide)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list hero slides: %w", err)
	}

	return out, nil
}

// NextOrder returns one past the highest order value, so a new slide lands at
// the end of the carousel.
func (s *HeroSlidesStore) NextOrder(ctx context.Context) (int, error) {
	const q = `SELECT COALESCE(MAX("order"), -1) + 1 FROM hero_slides`

	var next int
	if err := s.pool.QueryRow(ctx, q).Scan(&next); err != nil {
		return 0, fmt.Errorf("next hero slide order: %w", err)
	}
	return next, nil
}

func (s *HeroSlidesStore) CreateSlide(ctx context.Context, url, alt string, order int) (domain.HeroSlide, error) {
	const q = `
		INSERT INTO hero_slides (url, alt, "order")
		VALUES ($1, $2, $3)
		RETURNING id, url, alt, "order", position, created_at
	`

	var (
		slide    domain.HeroSlide
		idUUID   pgtype.UUID
		altText  pgtype.Text
		position pgtype.Int4
	)
	err := s.pool.QueryRow(ctx, q, url, nullIfEmpty(alt), order).Scan(
		&idUUID,
		&slide.URL,
		&altText,
		&slide.Order,
		&position,
		&slide.CreatedAt,
	)
	if err != nil {
		return domain.HeroSlide{}, fmt.Errorf("create hero slide: %w", err)
	}

	slide.ID = uuidOrEmpty(idUUID)
	slide.Alt = textOrEmpty(altText)
	slide.Position = int4Ptr(position)
	return slide, nil
}

func (s *HeroSlidesStore) GetSlide(ctx context.Context, id string) (domain.HeroSlide, error) {
	const q = `
		SELECT id, url, alt, "order", position, created_at
		FROM hero_slides
		WHERE id = $1
	`

	var (
		slide    domain.HeroSlide
		idUUID   pgtype.UUID
		altText  pgtype.Text
		position pgtype.Int4
	)
	err := s.pool.QueryRow(ctx, q, id).Scan(&idUUID, &slide.URL, &altText, &slide.Order, &position, &slide.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.HeroSlide{}, domain.ErrNotFound
		}
		return domain.HeroSlide{}, fmt.Errorf("get hero slide: %w", err)
	}

	slide.ID = uuidOrEmpty(idUUID)
	slide.Alt = textOrEmpty(altText)
	slide.Position = int4Ptr(position)
	return slide, nil
}

func (s *HeroSlidesStore) DeleteSlide(ctx context.Context, id string) error {
	const q = `DELETE FROM hero_slides WHERE id = $1`

	tag, err := s.pool.Exec(ctx, q, id)
	if err != nil {
		return fmt.Errorf("delete hero slide: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *HeroSlidesStore) SetSlideOrder(ctx context.Context, id string, order int) error {
	const q = `UPDATE hero_slides SET "order" = $2 WHERE id = $1`

	tag, err := s.pool.Exec(ctx, q, id, order)
	if err != nil {
		return fmt.Errorf("set hero slide order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SetSlidePosition updates the crop position; nil resets to centered.
func (s *HeroSlidesStore) SetSlidePosition(ctx context.Context, id string, position *int) error {
	const q = `UPDATE hero_slides SET position = $2 WHERE id = $1`

	tag, err := s.pool.Exec(ctx, q, id, position)
	if err != nil {
		return fmt.Errorf("set hero slide position: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
