package service

import (
	"context"
	"testing"
	"time"

	"empowerorphansweb/internal/auth"
	"empowerorphansweb/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func activeUser(t *testing.T, email, password string) domain.UserWithPassword {
	t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	return domain.UserWithPassword{
		User: domain.User{
			ID:     "user-1",
			Email:  email,
			Status: domain.UserStatusActive,
		},
		PasswordHash: hash,
	}
}

func TestLoginSucceedsAndOpensSession(t *testing.T) {
	now := time.Date(2026, time.May, 10, 8, 0, 0, 0, time.UTC)
	u := activeUser(t, "admin@empowerorphans.org", "correct horse")

	var lookedUp string
	users := &stubUsers{
		byEmailFn: func(ctx context.Context, email string) (domain.UserWithPassword, error) {
			lookedUp = email
			return u, nil
		},
	}
	var sessUser string
	var sessExpires time.Time
	sessions := &stubSessions{
		createFn: func(ctx context.Context, userID string, expiresAt time.Time, ip, userAgent string) (string, error) {
			sessUser, sessExpires = userID, expiresAt
			return "sess-1", nil
		},
	}
	svc := &AuthService{
		Users:      users,
		Sessions:   sessions,
		SessionTTL: 24 * time.Hour,
		Now:        func() time.Time { return now },
	}

	got, sessID, err := svc.Login(context.Background(), "  Admin@EmpowerOrphans.org ", "correct horse", "203.0.113.9", "test-agent")
	require.NoError(t, err)
	assert.Equal(t, "admin@empowerorphans.org", lookedUp, "email is normalized before lookup")
	assert.Equal(t, "sess-1", sessID)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, u.ID, sessUser)
	assert.Equal(t, now.Add(24*time.Hour), sessExpires)
	assert.Equal(t, []string{u.ID}, users.lastLogins)
}

func TestLoginHidesWhichPartFailed(t *testing.T) {
	u := activeUser(t, "admin@empowerorphans.org", "correct horse")

	tests := []struct {
		name    string
		byEmail func(ctx context.Context, email string) (domain.UserWithPassword, error)
		pass    string
	}{
		{
			name: "unknown email",
			byEmail: func(ctx context.Context, email string) (domain.UserWithPassword, error) {
				return domain.UserWithPassword{}, domain.ErrNotFound
			},
			pass: "correct horse",
		},
		{
			name: "wrong password",
			byEmail: func(ctx context.Context, email string) (domain.UserWithPassword, error) {
				return u, nil
			},
			pass: "battery staple",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &AuthService{Users: &stubUsers{byEmailFn: tt.byEmail}}
			_, _, err := svc.Login(context.Background(), "admin@empowerorphans.org", tt.pass, "", "")
			assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
		})
	}
}

func TestLoginRejectsDisabledUsers(t *testing.T) {
	u := activeUser(t, "admin@empowerorphans.org", "correct horse")
	u.Status = domain.UserStatusDisabled

	svc := &AuthService{Users: &stubUsers{
		byEmailFn: func(ctx context.Context, email string) (domain.UserWithPassword, error) {
			return u, nil
		},
	}}

	_, _, err := svc.Login(context.Background(), u.Email, "correct horse", "", "")
	assert.ErrorIs(t, err, domain.ErrUserDisabled)
}

func TestGetUserForSessionMapsMissingToUnauthorized(t *testing.T) {
	svc := &AuthService{Sessions: &stubSessions{
		getFn: func(ctx context.Context, sessionID string) (domain.Session, error) {
			return domain.Session{}, domain.ErrNotFound
		},
	}}

	_, err := svc.GetUserForSession(context.Background(), "stale")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestGetUserForSessionRejectsDisabledUsers(t *testing.T) {
	sessions := &stubSessions{
		getFn: func(ctx context.Context, sessionID string) (domain.Session, error) {
			return domain.Session{ID: sessionID, UserID: "user-1"}, nil
		},
	}
	users := &stubUsers{
		byIDFn: func(ctx context.Context, id string) (domain.User, error) {
			return domain.User{ID: id, Status: domain.UserStatusDisabled}, nil
		},
	}
	svc := &AuthService{Users: users, Sessions: sessions}

	_, err := svc.GetUserForSession(context.Background(), "sess-1")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestLogoutRevokesSession(t *testing.T) {
	sessions := &stubSessions{}
	svc := &AuthService{Sessions: sessions}

	require.NoError(t, svc.Logout(context.Background(), "sess-1"))
	assert.Equal(t, []string{"sess-1"}, sessions.revoked)
}
