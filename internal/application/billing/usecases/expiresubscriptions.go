package usecases

import (
	"context"
	"time"

	"sokofiti/internal/domain/billing"
	"sokofiti/internal/shared/logger"
)

const expireBatchSize = 200

// ExpireSubscriptionsUseCase is the background sweep that marks date-expired
// active subscriptions as expired. It is best-effort hygiene: read paths
// never depend on it because they compute effective status themselves.
type ExpireSubscriptionsUseCase struct {
	subscriptionRepo billing.SubscriptionRepository
	logger           logger.Interface
}

func NewExpireSubscriptionsUseCase(
	subscriptionRepo billing.SubscriptionRepository,
	logger logger.Interface,
) *ExpireSubscriptionsUseCase {
	return &ExpireSubscriptionsUseCase{
		subscriptionRepo: subscriptionRepo,
		logger:           logger,
	}
}

// Execute sweeps one pass and returns how many subscriptions were expired.
// Individual update failures are logged and skipped so one bad row cannot
// stall the sweep.
func (uc *ExpireSubscriptionsUseCase) Execute(ctx context.Context) (int, error) {
	now := time.Now().UTC()

	subs, err := uc.subscriptionRepo.FindDateExpired(ctx, now, expireBatchSize)
	if err != nil {
		uc.logger.Errorw("failed to list date-expired subscriptions", "error", err)
		return 0, err
	}

	expired := 0
	for _, sub := range subs {
		sub.Expire()
		if err := uc.subscriptionRepo.Update(ctx, sub); err != nil {
			uc.logger.Warnw("failed to expire subscription",
				"subscription_id", sub.ID(),
				"error", err,
			)
			continue
		}
		expired++
	}

	if expired > 0 {
		uc.logger.Infow("expired subscriptions", "count", expired)
	}
	return expired, nil
}
