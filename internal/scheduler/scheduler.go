// Package scheduler runs the periodic due-subscription processor.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	portssvc "github.com/finbook/finbook_backend/internal/core/ports/services"
	"github.com/finbook/finbook_backend/internal/middleware"
)

// Scheduler periodically materializes due subscriptions across all users.
type Scheduler struct {
	subscriptions portssvc.SubscriptionSvcFacade
	interval      time.Duration
	logger        *slog.Logger

	// Guards against overlapping runs when processing outlasts the
	// interval.
	running sync.Mutex
}

// New creates a scheduler that processes due subscriptions every interval.
func New(subscriptions portssvc.SubscriptionSvcFacade, interval time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		subscriptions: subscriptions,
		interval:      interval,
		logger:        logger.With(slog.String("component", "scheduler")),
	}
}

// Run processes once immediately, then on every tick until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info("Subscription scheduler started", slog.Duration("interval", s.interval))

	s.process(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Subscription scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
			s.process(ctx)
		}
	}
}

func (s *Scheduler) process(ctx context.Context) {
	if !s.running.TryLock() {
		s.logger.Warn("Skipping subscription run, previous run still in progress")
		return
	}
	defer s.running.Unlock()

	runCtx := middleware.WithLogger(ctx, s.logger)
	result, err := s.subscriptions.ProcessDueSubscriptions(runCtx, nil, time.Now())
	if err != nil {
		s.logger.Error("Subscription run failed", slog.String("error", err.Error()))
		return
	}

	if result.ProcessedCount > 0 || len(result.Errors) > 0 {
		s.logger.Info("Subscription run finished",
			slog.Int("processed", result.ProcessedCount),
			slog.Int("failed", len(result.Errors)))
	}
}
