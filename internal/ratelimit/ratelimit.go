// Package ratelimit throttles admin actions and login attempts against a
// shared append-only ledger. Counting over a trailing window is the sole
// correctness mechanism; pruning (inline or via the Sweeper) only bounds
// table growth. Ledger failures are treated as fail-open: an unreachable
// ledger never blocks the site, it disables throttling and logs loudly.
package ratelimit

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

type Action string

const (
	ActionWrite  Action = "write"
	ActionRead   Action = "read"
	ActionUpload Action = "upload"
)

type limit struct {
	maxAttempts int
	window      time.Duration
}

var limits = map[Action]limit{
	ActionWrite:  {maxAttempts: 30, window: 10 * time.Minute},
	ActionRead:   {maxAttempts: 100, window: 10 * time.Minute},
	ActionUpload: {maxAttempts: 10, window: 10 * time.Minute},
}

// Ledger is the remote log of rate-limit entries. Implementations must count
// only rows with created_at >= windowStart regardless of whether Prune ran.
type Ledger interface {
	CountSince(ctx context.Context, identifier string, action Action, windowStart time.Time) (int, error)
	Prune(ctx context.Context, before time.Time) error
	Record(ctx context.Context, identifier string, action Action, ipHash string) error
}

type Decision struct {
	Limited bool
	Message string
}

type Limiter struct {
	Ledger Ledger
	Logger *slog.Logger
	Now    func() time.Time
}

// Check decides whether one more occurrence of action is allowed. The
// identifier is the authenticated user ID when available, otherwise the
// hashed client IP. Under the threshold the attempt is recorded whether or
// not the caller's operation later succeeds.
func (l *Limiter) Check(ctx context.Context, action Action, userID, ip string) Decision {
	logger := l.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := time.Now()
	if l.Now != nil {
		now = l.Now()
	}

	cfg, ok := limits[action]
	if !ok {
		logger.Error("rate limit check for unknown action", "action", string(action))
		return Decision{}
	}

	ipHash := HashIP(ip)
	identifier := userID
	if identifier == "" {
		identifier = ipHash
	}

	windowStart := now.Add(-cfg.window)

	if err := l.Ledger.Prune(ctx, windowStart); err != nil {
		logger.Warn("rate limit prune failed", "action", string(action), "err", err)
	}

	count, err := l.Ledger.CountSince(ctx, identifier, action, windowStart)
	if err != nil {
		// Fail open: availability over strict enforcement.
		logger.Error("rate limit count failed, allowing request", "action", string(action), "err", err)
		return Decision{}
	}

	if count >= cfg.maxAttempts {
		logger.Warn("rate limit exceeded",
			"action", string(action),
			"identifier_prefix", prefix8(identifier),
			"count", count,
		)
		return Decision{
			Limited: true,
			Message: fmt.Sprintf("Too many %s requests. Please try again in %d minutes.", action, int(cfg.window.Minutes())),
		}
	}

	if err := l.Ledger.Record(ctx, identifier, action, ipHash); err != nil {
		logger.Error("rate limit record failed", "action", string(action), "err", err)
	}

	return Decision{}
}

// Retention is the longest trailing window any check consults. Rows older
// than this are garbage for every action category.
func Retention() time.Duration {
	longest := time.Duration(0)
	for _, cfg := range limits {
		if cfg.window > longest {
			longest = cfg.window
		}
	}
	return longest
}

func prefix8(s string) string {
	if len(s) <= 8 {
		return s
	}
	return s[:8]
}
