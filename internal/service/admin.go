package service

import (
	"context"

	"empowerorphansweb/internal/domain"
	"empowerorphansweb/internal/ratelimit"
)

// RolesStore answers whether a user holds the admin role.
type RolesStore interface {
	IsAdmin(ctx context.Context, userID string) (bool, error)
}

// RateLimiter is the slice of ratelimit.Limiter the admin services need.
type RateLimiter interface {
	Check(ctx context.Context, action ratelimit.Action, userID, ip string) ratelimit.Decision
}

// Invalidator drops cached public pages after an admin mutation so visitors
// see the change immediately.
type Invalidator interface {
	Invalidate(paths ...string)
}

// Caller identifies who is invoking an admin action: the authenticated user
// plus the client address the rate limiter falls back to.
type Caller struct {
	UserID string
	IP     string
}

// gate runs the shared front half of every admin action: role verification,
// then the rate-limit check for the action's category. The role lookup comes
// first so non-admins never consume rate-limit quota.
func gate(ctx context.Context, roles RolesStore, limits RateLimiter, caller Caller, action ratelimit.Action) error {
	if caller.UserID == "" {
		return domain.ErrUnauthorized
	}
	isAdmin, err := roles.IsAdmin(ctx, caller.UserID)
	if err != nil {
		return err
	}
	if !isAdmin {
		return domain.ErrUnauthorized
	}

	if limits != nil {
		if d := limits.Check(ctx, action, caller.UserID, caller.IP); d.Limited {
			return &domain.RateLimitedError{Message: d.Message}
		}
	}
	return nil
}
