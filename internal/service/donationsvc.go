package service

import (
	"context"
	"errors"
	"time"

	"empowerorphansweb/internal/domain"
	"empowerorphansweb/internal/ratelimit"
)

type DonationStore interface {
	GetLatest(ctx context.Context) (domain.DonationProgress, error)
	SetAmount(ctx context.Context, amount int, when time.Time) error
}

// Progress pairs the stored amount with the configured campaign goal.
type Progress struct {
	Amount    int       `json:"amount"`
	Goal      int       `json:"goal"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type DonationService struct {
	Roles     RolesStore
	Donations DonationStore
	Limits    RateLimiter
	Cache     Invalidator
	Goal      int
	Now       func() time.Time
}

// Progress is the ungated read used by public pages. A missing row means
// nothing has been recorded yet, which reads as zero raised.
func (s *DonationService) Progress(ctx context.Context) (Progress, error) {
	p, err := s.Donations.GetLatest(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		return Progress{Goal: s.Goal}, nil
	}
	if err != nil {
		return Progress{}, err
	}
	return Progress{Amount: p.Amount, Goal: s.Goal, UpdatedAt: p.UpdatedAt}, nil
}

func (s *DonationService) Get(ctx context.Context, caller Caller) (Progress, error) {
	if err := gate(ctx, s.Roles, s.Limits, caller, ratelimit.ActionRead); err != nil {
		return Progress{}, err
	}
	return s.Progress(ctx)
}

func (s *DonationService) Update(ctx context.Context, caller Caller, amount int) (Progress, error) {
	if err := gate(ctx, s.Roles, s.Limits, caller, ratelimit.ActionWrite); err != nil {
		return Progress{}, err
	}
	if amount < 0 {
		return Progress{}, domain.NewValidationError(map[string]string{"amount": "must not be negative"})
	}

	now := s.now()
	if err := s.Donations.SetAmount(ctx, amount, now); err != nil {
		return Progress{}, err
	}

	if s.Cache != nil {
		s.Cache.Invalidate("/", "/donate", "/admin")
	}
	return Progress{Amount: amount, Goal: s.Goal, UpdatedAt: now}, nil
}

func (s *DonationService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}
