package service

import (
	"context"
	"io"
	"sync"
	"time"

	"empowerorphansweb/internal/domain"
	"empowerorphansweb/internal/ratelimit"
)

type stubRoles struct {
	isAdminFn func(ctx context.Context, userID string) (bool, error)
	calls     int
}

func (s *stubRoles) IsAdmin(ctx context.Context, userID string) (bool, error) {
	s.calls++
	if s.isAdminFn != nil {
		return s.isAdminFn(ctx, userID)
	}
	return true, nil
}

type limiterCall struct {
	action ratelimit.Action
	userID string
	ip     string
}

type stubLimiter struct {
	decision ratelimit.Decision
	calls    []limiterCall
}

func (s *stubLimiter) Check(ctx context.Context, action ratelimit.Action, userID, ip string) ratelimit.Decision {
	s.calls = append(s.calls, limiterCall{action: action, userID: userID, ip: ip})
	return s.decision
}

type stubInvalidator struct {
	paths [][]string
}

func (s *stubInvalidator) Invalidate(paths ...string) {
	s.paths = append(s.paths, paths)
}

func (s *stubInvalidator) all() []string {
	var out []string
	for _, batch := range s.paths {
		out = append(out, batch...)
	}
	return out
}

type stubSlides struct {
	listFn        func(ctx context.Context) ([]domain.HeroSlide, error)
	nextFn        func(ctx context.Context) (int, error)
	createFn      func(ctx context.Context, url, alt string, order int) (domain.HeroSlide, error)
	getFn         func(ctx context.Context, id string) (domain.HeroSlide, error)
	deleteFn      func(ctx context.Context, id string) error
	setOrderFn    func(ctx context.Context, id string, order int) error
	setPositionFn func(ctx context.Context, id string, position *int) error
}

func (s *stubSlides) ListSlides(ctx context.Context) ([]domain.HeroSlide, error) {
	return s.listFn(ctx)
}

func (s *stubSlides) NextOrder(ctx context.Context) (int, error) {
	if s.nextFn != nil {
		return s.nextFn(ctx)
	}
	return 1, nil
}

func (s *stubSlides) CreateSlide(ctx context.Context, url, alt string, order int) (domain.HeroSlide, error) {
	return s.createFn(ctx, url, alt, order)
}

func (s *stubSlides) GetSlide(ctx context.Context, id string) (domain.HeroSlide, error) {
	return s.getFn(ctx, id)
}

func (s *stubSlides) DeleteSlide(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}

func (s *stubSlides) SetSlideOrder(ctx context.Context, id string, order int) error {
	return s.setOrderFn(ctx, id, order)
}

func (s *stubSlides) SetSlidePosition(ctx context.Context, id string, position *int) error {
	if s.setPositionFn != nil {
		return s.setPositionFn(ctx, id, position)
	}
	return nil
}

// stubMedia records saves and removals; Save drains the reader like a real
// backend would.
type stubMedia struct {
	mu        sync.Mutex
	saveErr   error
	removeErr error
	saved     []string
	removed   []string
}

func (s *stubMedia) Save(ctx context.Context, objectPath string, r io.Reader) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	_, _ = io.Copy(io.Discard, r)
	s.saved = append(s.saved, objectPath)
	return nil
}

func (s *stubMedia) Remove(ctx context.Context, objectPath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removed = append(s.removed, objectPath)
	return s.removeErr
}

func (s *stubMedia) PublicURL(objectPath string) string {
	return "/media/" + objectPath
}

type stubEvents struct {
	listFn   func(ctx context.Context) ([]domain.Event, error)
	createFn func(ctx context.Context, ev domain.Event) (domain.Event, error)
	updateFn func(ctx context.Context, ev domain.Event) (domain.Event, error)
	deleteFn func(ctx context.Context, id string) error
}

func (s *stubEvents) ListEvents(ctx context.Context) ([]domain.Event, error) {
	return s.listFn(ctx)
}

func (s *stubEvents) CreateEvent(ctx context.Context, ev domain.Event) (domain.Event, error) {
	return s.createFn(ctx, ev)
}

func (s *stubEvents) UpdateEvent(ctx context.Context, ev domain.Event) (domain.Event, error) {
	return s.updateFn(ctx, ev)
}

func (s *stubEvents) DeleteEvent(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}

type stubDonations struct {
	getFn func(ctx context.Context) (domain.DonationProgress, error)
	setFn func(ctx context.Context, amount int, when time.Time) error
}

func (s *stubDonations) GetLatest(ctx context.Context) (domain.DonationProgress, error) {
	return s.getFn(ctx)
}

func (s *stubDonations) SetAmount(ctx context.Context, amount int, when time.Time) error {
	return s.setFn(ctx, amount, when)
}

type stubUsers struct {
	byIDFn      func(ctx context.Context, id string) (domain.User, error)
	byEmailFn   func(ctx context.Context, email string) (domain.UserWithPassword, error)
	lastLogins  []string
	lastLoginAt time.Time
}

func (s *stubUsers) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	return s.byIDFn(ctx, id)
}

func (s *stubUsers) GetUserByEmail(ctx context.Context, email string) (domain.UserWithPassword, error) {
	return s.byEmailFn(ctx, email)
}

func (s *stubUsers) SetLastLogin(ctx context.Context, userID string, when time.Time) error {
	s.lastLogins = append(s.lastLogins, userID)
	s.lastLoginAt = when
	return nil
}

type stubSessions struct {
	createFn func(ctx context.Context, userID string, expiresAt time.Time, ip, userAgent string) (string, error)
	getFn    func(ctx context.Context, sessionID string) (domain.Session, error)
	revoked  []string
}

func (s *stubSessions) CreateSession(ctx context.Context, userID string, expiresAt time.Time, ip, userAgent string) (string, error) {
	return s.createFn(ctx, userID, expiresAt, ip, userAgent)
}

func (s *stubSessions) GetSession(ctx context.Context, sessionID string) (domain.Session, error) {
	return s.getFn(ctx, sessionID)
}

func (s *stubSessions) RevokeSession(ctx context.Context, sessionID string, when time.Time) error {
	s.revoked = append(s.revoked, sessionID)
	return nil
}
