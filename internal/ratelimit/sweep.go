package ratelimit

import (
	"context"
	"log/slog"
	"time"
)

// Pruner deletes ledger rows older than a cutoff. Both attempt tables
// implement it.
type Pruner interface {
	Prune(ctx context.Context, before time.Time) error
}

type SweeperOption func(*Sweeper)

func WithLogger(logger *slog.Logger) SweeperOption {
	return func(s *Sweeper) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithInterval(interval time.Duration) SweeperOption {
	return func(s *Sweeper) {
		if interval > 0 {
			s.interval = interval
		}
	}
}

// Sweeper periodically prunes expired rows from the rate-limit ledgers so
// cleanup is not coupled to the request path. Checks stay correct without it;
// the windowed count query ignores expired rows either way.
type Sweeper struct {
	pruners  []Pruner
	logger   *slog.Logger
	interval time.Duration
	now      func() time.Time
}

func NewSweeper(pruners []Pruner, opts ...SweeperOption) *Sweeper {
	s := &Sweeper{
		pruners:  pruners,
		logger:   slog.Default(),
		interval: 15 * time.Minute,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start runs the sweep loop until ctx is cancelled.
func (s *Sweeper) Start(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			start := s.now()
			pruned, failed := s.RunOnce(ctx)
			s.logger.Info("rate limit sweep completed",
				"pruned", pruned,
				"failed", failed,
				"duration_ms", time.Since(start).Milliseconds(),
			)
		case <-ctx.Done():
			s.logger.Info("rate limit sweeper stopping", "reason", ctx.Err())
			return ctx.Err()
		}
	}
}

// RunOnce prunes every ledger once. A failing ledger is logged and skipped;
// the sweep is advisory and never aborts on error.
func (s *Sweeper) RunOnce(ctx context.Context) (pruned, failed int) {
	cutoff := s.now().Add(-Retention())
	for _, p := range s.pruners {
		if err := p.Prune(ctx, cutoff); err != nil {
			s.logger.Error("rate limit sweep prune failed", "err", err)
			failed++
			continue
		}
		pruned++
	}
	return pruned, failed
}
