package ratelimit

import (
	"context"
	"log/slog"
	"time"
)

const (
	loginMaxAttempts = 5
	loginWindow      = 10 * time.Minute
)

// LoginMessage is the fixed rejection shown for throttled sign-in attempts.
const LoginMessage = "Too many login attempts. Please try again in 10 minutes."

// AttemptLog is the ledger of sign-in attempts, keyed by hashed IP only —
// there is no user identity before credentials are verified.
type AttemptLog interface {
	CountSince(ctx context.Context, ipHash string, windowStart time.Time) (int, error)
	Prune(ctx context.Context, before time.Time) error
	Record(ctx context.Context, ipHash string) error
}

// LoginGuard throttles login submissions to 5 per 10 minutes per hashed IP.
// It runs before credential verification so a brute-force run never reaches
// the password check.
type LoginGuard struct {
	Attempts AttemptLog
	Logger   *slog.Logger
	Now      func() time.Time
}

// Allow reports whether this sign-in attempt may proceed. An allowed attempt
// is recorded immediately, before the outcome of verification is known.
func (g *LoginGuard) Allow(ctx context.Context, ip string) bool {
	logger := g.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := time.Now()
	if g.Now != nil {
		now = g.Now()
	}

	ipHash := HashIP(ip)
	windowStart := now.Add(-loginWindow)

	if err := g.Attempts.Prune(ctx, windowStart); err != nil {
		logger.Warn("login attempt prune failed", "err", err)
	}

	count, err := g.Attempts.CountSince(ctx, ipHash, windowStart)
	if err != nil {
		logger.Error("login attempt count failed, allowing attempt", "err", err)
		count = 0
	}

	if count >= loginMaxAttempts {
		logger.Warn("login rate limit exceeded", "ip_hash_prefix", prefix8(ipHash), "count", count)
		return false
	}

	if err := g.Attempts.Record(ctx, ipHash); err != nil {
		logger.Error("record login attempt failed", "err", err)
	}
	return true
}
