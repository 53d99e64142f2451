package service

import (
	"context"
	"strings"
	"time"

	"empowerorphansweb/internal/domain"
	"empowerorphansweb/internal/ratelimit"
)

type EventsStore interface {
	ListEvents(ctx context.Context) ([]domain.Event, error)
	CreateEvent(ctx context.Context, ev domain.Event) (domain.Event, error)
	UpdateEvent(ctx context.Context, ev domain.Event) (domain.Event, error)
	DeleteEvent(ctx context.Context, id string) error
}

type EventsService struct {
	Roles  RolesStore
	Events EventsStore
	Limits RateLimiter
	Cache  Invalidator
}

type EventInput struct {
	Title       string
	Description string
	Date        time.Time
	Location    string
	Link        string
	Chapter     domain.Chapter
}

func (in EventInput) validate() error {
	fields := map[string]string{}
	if strings.TrimSpace(in.Title) == "" {
		fields["title"] = "required"
	}
	if in.Date.IsZero() {
		fields["date"] = "required"
	}
	if in.Chapter != "" && !domain.ValidChapter(in.Chapter) {
		fields["chapter"] = "must be carleton, uottawa, or both"
	}
	if len(fields) > 0 {
		return domain.NewValidationError(fields)
	}
	return nil
}

func (in EventInput) toEvent(id string) domain.Event {
	chapter := in.Chapter
	if chapter == "" {
		chapter = domain.ChapterBoth
	}
	return domain.Event{
		ID:          id,
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Date:        in.Date,
		Location:    strings.TrimSpace(in.Location),
		Link:        strings.TrimSpace(in.Link),
		Chapter:     chapter,
	}
}

// PublicList is the ungated read used by the public events page.
func (s *EventsService) PublicList(ctx context.Context) ([]domain.Event, error) {
	return s.Events.ListEvents(ctx)
}

func (s *EventsService) List(ctx context.Context, caller Caller) ([]domain.Event, error) {
	if err := gate(ctx, s.Roles, s.Limits, caller, ratelimit.ActionRead); err != nil {
		return nil, err
	}
	return s.Events.ListEvents(ctx)
}

func (s *EventsService) Create(ctx context.Context, caller Caller, in EventInput) (domain.Event, error) {
	if err := gate(ctx, s.Roles, s.Limits, caller, ratelimit.ActionWrite); err != nil {
		return domain.Event{}, err
	}
	if err := in.validate(); err != nil {
		return domain.Event{}, err
	}

	ev, err := s.Events.CreateEvent(ctx, in.toEvent(""))
	if err != nil {
		return domain.Event{}, err
	}

	s.invalidate()
	return ev, nil
}

func (s *EventsService) Update(ctx context.Context, caller Caller, id string, in EventInput) (domain.Event, error) {
	if err := gate(ctx, s.Roles, s.Limits, caller, ratelimit.ActionWrite); err != nil {
		return domain.Event{}, err
	}
	if strings.TrimSpace(id) == "" {
		return domain.Event{}, domain.NewValidationError(map[string]string{"id": "required"})
	}
	if err := in.validate(); err != nil {
		return domain.Event{}, err
	}

	ev, err := s.Events.UpdateEvent(ctx, in.toEvent(id))
	if err != nil {
		return domain.Event{}, err
	}

	s.invalidate()
	return ev, nil
}

func (s *EventsService) Delete(ctx context.Context, caller Caller, id string) error {
	if err := gate(ctx, s.Roles, s.Limits, caller, ratelimit.ActionWrite); err != nil {
		return err
	}
	if strings.TrimSpace(id) == "" {
		return domain.NewValidationError(map[string]string{"id": "required"})
	}

	if err := s.Events.DeleteEvent(ctx, id); err != nil {
		return err
	}

	s.invalidate()
	return nil
}

func (s *EventsService) invalidate() {
	if s.Cache != nil {
		s.Cache.Invalidate("/", "/events", "/admin")
	}
}
