package scheduler

import (
	"context"
	"sync"
	"time"

	billingUsecases "sokofiti/internal/application/billing/usecases"
	"sokofiti/internal/shared/logger"
)

// SubscriptionScheduler periodically flips date-expired subscriptions to
// expired in storage. Read paths already apply expiry lazily; the sweep keeps
// stored rows consistent for reporting.
type SubscriptionScheduler struct {
	expireSubscriptionsUC *billingUsecases.ExpireSubscriptionsUseCase
	logger                logger.Interface
	stopChan              chan struct{}
	stopOnce              sync.Once
	wg                    sync.WaitGroup
	interval              time.Duration
}

// NewSubscriptionScheduler creates a new SubscriptionScheduler.
func NewSubscriptionScheduler(
	expireSubscriptionsUC *billingUsecases.ExpireSubscriptionsUseCase,
	logger logger.Interface,
) *SubscriptionScheduler {
	return &SubscriptionScheduler{
		expireSubscriptionsUC: expireSubscriptionsUC,
		logger:                logger,
		stopChan:              make(chan struct{}),
		interval:              time.Hour,
	}
}

// Start starts the scheduler.
func (s *SubscriptionScheduler) Start(ctx context.Context) {
	s.logger.Infow("starting subscription scheduler", "interval", s.interval)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.runLoop(ctx)
	}()
}

// Stop stops the scheduler gracefully.
func (s *SubscriptionScheduler) Stop() {
	s.stopOnce.Do(func() {
		s.logger.Infow("stopping subscription scheduler")
		close(s.stopChan)
		s.wg.Wait()
		s.logger.Infow("subscription scheduler stopped")
	})
}

func (s *SubscriptionScheduler) runLoop(ctx context.Context) {
	// Clear any backlog left from downtime before the first tick.
	s.sweepExpired(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Infow("subscription scheduler stopped due to context cancellation")
			return
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.sweepExpired(ctx)
		}
	}
}

func (s *SubscriptionScheduler) sweepExpired(ctx context.Context) {
	startTime := time.Now()

	expiredCount, err := s.expireSubscriptionsUC.Execute(ctx)
	if err != nil {
		s.logger.Errorw("failed to sweep expired subscriptions",
			"error", err,
			"duration", time.Since(startTime),
		)
		return
	}

	if expiredCount > 0 {
		s.logger.Infow("expired subscriptions swept",
			"count", expiredCount,
			"duration", time.Since(startTime),
		)
	} else {
		s.logger.Debugw("no expired subscriptions to sweep",
			"duration", time.Since(startTime),
		)
	}
}
