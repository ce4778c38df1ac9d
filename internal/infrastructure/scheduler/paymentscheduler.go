package scheduler

import (
	"context"
	"sync"
	"time"

	paymentUsecases "sokofiti/internal/application/payment/usecases"
	"sokofiti/internal/shared/logger"
)

// PaymentScheduler periodically reconciles pending M-Pesa transactions whose
// callback never arrived by querying the gateway directly.
type PaymentScheduler struct {
	reconcileUC *paymentUsecases.ReconcilePendingPaymentsUseCase
	logger      logger.Interface
	stopChan    chan struct{}
	stopOnce    sync.Once
	wg          sync.WaitGroup
	interval    time.Duration
}

// NewPaymentScheduler creates a new PaymentScheduler.
func NewPaymentScheduler(
	reconcileUC *paymentUsecases.ReconcilePendingPaymentsUseCase,
	logger logger.Interface,
) *PaymentScheduler {
	return &PaymentScheduler{
		reconcileUC: reconcileUC,
		logger:      logger,
		stopChan:    make(chan struct{}),
		interval:    5 * time.Minute,
	}
}

// Start starts the scheduler.
func (s *PaymentScheduler) Start(ctx context.Context) {
	s.logger.Infow("starting payment reconciliation scheduler", "interval", s.interval)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.runLoop(ctx)
	}()
}

// Stop stops the scheduler gracefully.
func (s *PaymentScheduler) Stop() {
	s.stopOnce.Do(func() {
		s.logger.Infow("stopping payment reconciliation scheduler")
		close(s.stopChan)
		s.wg.Wait()
		s.logger.Infow("payment reconciliation scheduler stopped")
	})
}

func (s *PaymentScheduler) runLoop(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Infow("payment reconciliation scheduler stopped due to context cancellation")
			return
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.reconcilePending(ctx)
		}
	}
}

func (s *PaymentScheduler) reconcilePending(ctx context.Context) {
	startTime := time.Now()

	finalized, err := s.reconcileUC.Execute(ctx)
	if err != nil {
		s.logger.Errorw("failed to reconcile pending payments",
			"error", err,
			"duration", time.Since(startTime),
		)
		return
	}

	if finalized > 0 {
		s.logger.Infow("pending payments reconciled",
			"finalized", finalized,
			"duration", time.Since(startTime),
		)
	} else {
		s.logger.Debugw("no pending payments to reconcile",
			"duration", time.Since(startTime),
		)
	}
}
