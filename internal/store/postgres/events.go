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

type EventsStore struct {
	pool *pgxpool.Pool
}

func NewEventsStore(pool *pgxpool.Pool) *EventsStore {
	return &EventsStore{pool: pool}
}

func (s *EventsStore) ListEvents(ctx context.Context) ([]domain.Event, error) {
	const q = `
		SELECT id, title, description, date, location, link, chapter, created_at
		FROM events
		ORDER BY date DESC
	`

	rows, err := s.pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var out []domain.Event
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	return out, nil
}

func (s *EventsStore) CreateEvent(ctx context.Context, ev domain.Event) (domain.Event, error) {
	const q = `
		INSERT INTO events (title, description, date, location, link, chapter)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, title, description, date, location, link, chapter, created_at
	`

	row := s.pool.QueryRow(ctx, q,
		ev.Title,
		nullIfEmpty(ev.Description),
		ev.Date,
		nullIfEmpty(ev.Location),
		nullIfEmpty(ev.Link),
		string(ev.Chapter),
	)
	created, err := scanEvent(row)
	if err != nil {
		return domain.Event{}, fmt.Errorf("create event: %w", err)
	}
	return created, nil
}

func (s *EventsStore) UpdateEvent(ctx context.Context, ev domain.Event) (domain.Event, error) {
	const q = `
		UPDATE events
		SET title = $2, description = $3, date = $4, location = $5, link = $6, chapter = $7
		WHERE id = $1
		RETURNING id, title, description, date, location, link, chapter, created_at
	`

	row := s.pool.QueryRow(ctx, q,
		ev.ID,
		ev.Title,
		nullIfEmpty(ev.Description),
		ev.Date,
		nullIfEmpty(ev.Location),
		nullIfEmpty(ev.Link),
		string(ev.Chapter),
	)
	updated, err := scanEvent(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Event{}, domain.ErrNotFound
		}
		return domain.Event{}, fmt.Errorf("update event: %w", err)
	}
	return updated, nil
}

func (s *EventsStore) DeleteEvent(ctx context.Context, id string) error {
	const q = `DELETE FROM events WHERE id = $1`

	tag, err := s.pool.Exec(ctx, q, id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanEvent(row pgx.Row) (domain.Event, error) {
	var (
		ev          domain.Event
		idUUID      pgtype.UUID
		description pgtype.Text
		location    pgtype.Text
		link        pgtype.Text
		chapterText string
	)
	err := row.Scan(
		&idUUID,
		&ev.Title,
		&description,
		&ev.Date,
		&location,
		&link,
		&chapterText,
		&ev.CreatedAt,
	)
	if err != nil {
		return domain.Event{}, err
	}

	ev.ID = uuidOrEmpty(idUUID)
	ev.Description = textOrEmpty(description)
	ev.Location = textOrEmpty(location)
	ev.Link = textOrEmpty(link)
	ev.Chapter = domain.Chapter(chapterText)
	return ev, nil
}
