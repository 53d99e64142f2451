package adminui

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"empowerorphansweb/internal/auth"
	"empowerorphansweb/internal/domain"
	"empowerorphansweb/internal/httpapi"
	"empowerorphansweb/internal/ratelimit"
	"empowerorphansweb/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	adminEmail    = "admin@empowerorphans.org"
	memberEmail   = "member@empowerorphans.org"
	validPassword = "correct horse battery"
)

type fakeUsers struct {
	byEmail map[string]domain.UserWithPassword
}

func (f *fakeUsers) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	for _, u := range f.byEmail {
		if u.ID == id {
			return u.User, nil
		}
	}
	return domain.User{}, domain.ErrNotFound
}

func (f *fakeUsers) GetUserByEmail(ctx context.Context, email string) (domain.UserWithPassword, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return domain.UserWithPassword{}, domain.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) SetLastLogin(ctx context.Context, userID string, when time.Time) error {
	return nil
}

type fakeSessions struct {
	sessions map[string]domain.Session
	n        int
	revoked  []string
}

func (f *fakeSessions) CreateSession(ctx context.Context, userID string, expiresAt time.Time, ip, userAgent string) (string, error) {
	f.n++
	id := fmt.Sprintf("sess-%d", f.n)
	f.sessions[id] = domain.Session{ID: id, UserID: userID, ExpiresAt: expiresAt}
	return id, nil
}

func (f *fakeSessions) GetSession(ctx context.Context, sessionID string) (domain.Session, error) {
	s, ok := f.sessions[sessionID]
	if !ok {
		return domain.Session{}, domain.ErrNotFound
	}
	return s, nil
}

func (f *fakeSessions) RevokeSession(ctx context.Context, sessionID string, when time.Time) error {
	f.revoked = append(f.revoked, sessionID)
	delete(f.sessions, sessionID)
	return nil
}

type fakeRoles struct {
	admins map[string]bool
	err    error
}

func (f *fakeRoles) IsAdmin(ctx context.Context, userID string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.admins[userID], nil
}

type fakeAttempts struct {
	count    int
	recorded int
}

func (f *fakeAttempts) CountSince(ctx context.Context, ipHash string, windowStart time.Time) (int, error) {
	return f.count, nil
}

func (f *fakeAttempts) Prune(ctx context.Context, before time.Time) error { return nil }

func (f *fakeAttempts) Record(ctx context.Context, ipHash string) error {
	f.recorded++
	return nil
}

type fakeSlides struct {
	slides []domain.HeroSlide
}

func (f *fakeSlides) ListSlides(ctx context.Context) ([]domain.HeroSlide, error) {
	return f.slides, nil
}

func (f *fakeSlides) NextOrder(ctx context.Context) (int, error) { return len(f.slides) + 1, nil }

func (f *fakeSlides) CreateSlide(ctx context.Context, url, alt string, order int) (domain.HeroSlide, error) {
	s := domain.HeroSlide{ID: fmt.Sprintf("slide-%d", order), URL: url, Alt: alt, Order: order}
	f.slides = append(f.slides, s)
	return s, nil
}

func (f *fakeSlides) GetSlide(ctx context.Context, id string) (domain.HeroSlide, error) {
	for _, s := range f.slides {
		if s.ID == id {
			return s, nil
		}
	}
	return domain.HeroSlide{}, domain.ErrNotFound
}

func (f *fakeSlides) DeleteSlide(ctx context.Context, id string) error {
	for i, s := range f.slides {
		if s.ID == id {
			f.slides = append(f.slides[:i], f.slides[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeSlides) SetSlideOrder(ctx context.Context, id string, order int) error { return nil }

func (f *fakeSlides) SetSlidePosition(ctx context.Context, id string, position *int) error {
	for i := range f.slides {
		if f.slides[i].ID == id {
			f.slides[i].Position = position
			return nil
		}
	}
	return domain.ErrNotFound
}

type fakeEvents struct{}

func (f *fakeEvents) ListEvents(ctx context.Context) ([]domain.Event, error) { return nil, nil }

func (f *fakeEvents) CreateEvent(ctx context.Context, ev domain.Event) (domain.Event, error) {
	ev.ID = "ev-1"
	return ev, nil
}

func (f *fakeEvents) UpdateEvent(ctx context.Context, ev domain.Event) (domain.Event, error) {
	return ev, nil
}

func (f *fakeEvents) DeleteEvent(ctx context.Context, id string) error { return nil }

type fakeDonations struct {
	amount int
}

func (f *fakeDonations) GetLatest(ctx context.Context) (domain.DonationProgress, error) {
	return domain.DonationProgress{ID: "dp-1", Amount: f.amount}, nil
}

func (f *fakeDonations) SetAmount(ctx context.Context, amount int, when time.Time) error {
	f.amount = amount
	return nil
}

type fixture struct {
	handler  http.Handler
	codec    auth.CookieCodec
	users    *fakeUsers
	sessions *fakeSessions
	roles    *fakeRoles
	attempts *fakeAttempts
}

func newAdmin(t *testing.T) *fixture {
	t.Helper()

	hash, err := auth.HashPassword(validPassword)
	require.NoError(t, err)

	f := &fixture{
		codec: auth.NewCookieCodec([]byte("test-secret-test-secret-test-sec")),
		users: &fakeUsers{byEmail: map[string]domain.UserWithPassword{
			adminEmail: {
				User:         domain.User{ID: "admin-1", Email: adminEmail, Status: domain.UserStatusActive},
				PasswordHash: hash,
			},
			memberEmail: {
				User:         domain.User{ID: "member-1", Email: memberEmail, Status: domain.UserStatusActive},
				PasswordHash: hash,
			},
		}},
		sessions: &fakeSessions{sessions: map[string]domain.Session{}},
		roles:    &fakeRoles{admins: map[string]bool{"admin-1": true}},
		attempts: &fakeAttempts{},
	}

	logger := slog.New(slog.DiscardHandler)
	authSvc := &service.AuthService{Users: f.users, Sessions: f.sessions, SessionTTL: time.Hour}
	f.handler = New(Opts{
		Logger:      logger,
		Auth:        authSvc,
		Roles:       f.roles,
		Carousel:    &service.CarouselService{Roles: f.roles, Slides: &fakeSlides{}, Logger: logger},
		Events:      &service.EventsService{Roles: f.roles, Events: &fakeEvents{}},
		Donations:   &service.DonationService{Roles: f.roles, Donations: &fakeDonations{amount: 12500}, Goal: 50000},
		Guard:       &ratelimit.LoginGuard{Attempts: f.attempts, Logger: logger},
		CookieCodec: f.codec,
		SessionTTL:  time.Hour,
	})
	return f
}

func (f *fixture) sessionCookie(t *testing.T, userID string) *http.Cookie {
	t.Helper()
	id, err := f.sessions.CreateSession(context.Background(), userID, time.Now().Add(time.Hour), "", "")
	require.NoError(t, err)
	return &http.Cookie{Name: auth.SessionCookieName, Value: f.codec.EncodeSessionID(id)}
}

func (f *fixture) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func TestDashboardRedirectsAnonymousToLogin(t *testing.T) {
	f := newAdmin(t)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/admin/", nil))
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/admin/login?redirectTo="+url.QueryEscape("/admin/"), rec.Header().Get("Location"))
}

func TestLoginPageIsNeverRedirected(t *testing.T) {
	f := newAdmin(t)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/admin/login?redirectTo=%2Fadmin%2F", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Admin Login")
	assert.Contains(t, body, `value="/admin/"`, "redirectTo is carried into the form")
}

func TestDashboardRejectsTamperedCookie(t *testing.T) {
	f := newAdmin(t)

	req := httptest.NewRequest(http.MethodGet, "/admin/", nil)
	req.AddCookie(&http.Cookie{Name: auth.SessionCookieName, Value: "sess-1.forgedsignature"})

	rec := f.do(req)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Contains(t, rec.Header().Get("Location"), "/admin/login")
}

func TestDashboardIs404ForNonAdmins(t *testing.T) {
	f := newAdmin(t)

	req := httptest.NewRequest(http.MethodGet, "/admin/", nil)
	req.AddCookie(f.sessionCookie(t, "member-1"))

	rec := f.do(req)
	assert.Equal(t, http.StatusNotFound, rec.Code, "non-admins must not learn the dashboard exists")
}

func TestDashboardRendersForAdmins(t *testing.T) {
	f := newAdmin(t)

	req := httptest.NewRequest(http.MethodGet, "/admin/", nil)
	req.AddCookie(f.sessionCookie(t, "admin-1"))

	rec := f.do(req)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Admin Dashboard")
	assert.Contains(t, body, "$12500")
}

func loginForm(email, password, redirectTo string) *http.Request {
	form := url.Values{}
	form.Set("email", email)
	form.Set("password", password)
	if redirectTo != "" {
		form.Set("redirectTo", redirectTo)
	}
	req := httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestLoginSetsSessionCookieAndFollowsRedirect(t *testing.T) {
	f := newAdmin(t)

	rec := f.do(loginForm(adminEmail, validPassword, "/admin/"))
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/admin/", rec.Header().Get("Location"))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, auth.SessionCookieName, cookies[0].Name)
	_, ok := f.codec.DecodeSessionID(cookies[0].Value)
	assert.True(t, ok, "cookie value must be a signed session id")
}

func TestLoginIgnoresOffsiteRedirects(t *testing.T) {
	f := newAdmin(t)

	rec := f.do(loginForm(adminEmail, validPassword, "https://example.com/phish"))
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/admin/", rec.Header().Get("Location"))
}

func TestLoginFailureStaysGeneric(t *testing.T) {
	f := newAdmin(t)

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{name: "wrong password", email: adminEmail, password: "nope"},
		{name: "unknown email", email: "ghost@empowerorphans.org", password: validPassword},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(loginForm(tt.email, tt.password, ""))
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, rec.Body.String(), "Invalid email or password")
		})
	}
}

func TestLoginBlockedAfterTooManyAttempts(t *testing.T) {
	f := newAdmin(t)
	f.attempts.count = 5

	rec := f.do(loginForm(adminEmail, validPassword, ""))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), ratelimit.LoginMessage)
	assert.Empty(t, rec.Result().Cookies(), "blocked attempts must not open a session")
	assert.Zero(t, f.attempts.recorded, "blocked attempts are not recorded again")
}

func TestLoginRecordsAttemptBeforeVerification(t *testing.T) {
	f := newAdmin(t)

	f.do(loginForm(adminEmail, "wrong password", ""))
	assert.Equal(t, 1, f.attempts.recorded)
}

func TestLogoutRevokesSessionAndClearsCookie(t *testing.T) {
	f := newAdmin(t)

	req := httptest.NewRequest(http.MethodPost, "/admin/logout", nil)
	req.AddCookie(f.sessionCookie(t, "admin-1"))

	rec := f.do(req)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/admin/login", rec.Header().Get("Location"))
	assert.Len(t, f.sessions.revoked, 1)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, -1, cookies[0].MaxAge)
}

func TestAPIRequiresSession(t *testing.T) {
	f := newAdmin(t)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/admin/api/carousel", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	var res httpapi.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.False(t, res.Success)
	assert.Equal(t, "Unauthorized", res.Error)
}

func TestAPIRejectsNonAdmins(t *testing.T) {
	f := newAdmin(t)

	req := httptest.NewRequest(http.MethodGet, "/admin/api/donations", nil)
	req.AddCookie(f.sessionCookie(t, "member-1"))

	rec := f.do(req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestDonationUpdateRoundTrip(t *testing.T) {
	f := newAdmin(t)

	req := httptest.NewRequest(http.MethodPut, "/admin/api/donations", strings.NewReader(`{"amount": 20000}`))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(f.sessionCookie(t, "admin-1"))

	rec := f.do(req)
	require.Equal(t, http.StatusOK, rec.Code)

	var res struct {
		Success bool `json:"success"`
		Data    struct {
			Amount int `json:"amount"`
			Goal   int `json:"goal"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.True(t, res.Success)
	assert.Equal(t, 20000, res.Data.Amount)
	assert.Equal(t, 50000, res.Data.Goal)
}

func TestEventCreateValidatesBody(t *testing.T) {
	f := newAdmin(t)

	req := httptest.NewRequest(http.MethodPost, "/admin/api/events", strings.NewReader(`{"title":"","date":"not-a-date"}`))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(f.sessionCookie(t, "admin-1"))

	rec := f.do(req)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var res httpapi.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "date")
}

func TestEventCreateAcceptsDateOnly(t *testing.T) {
	f := newAdmin(t)

	body := `{"title":"Bake Sale","date":"2026-10-03","chapter":"carleton"}`
	req := httptest.NewRequest(http.MethodPost, "/admin/api/events", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(f.sessionCookie(t, "admin-1"))

	rec := f.do(req)
	require.Equal(t, http.StatusOK, rec.Code)

	var res struct {
		Success bool `json:"success"`
		Data    struct {
			Title   string `json:"title"`
			Chapter string `json:"chapter"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.True(t, res.Success)
	assert.Equal(t, "Bake Sale", res.Data.Title)
	assert.Equal(t, "carleton", res.Data.Chapter)
}
