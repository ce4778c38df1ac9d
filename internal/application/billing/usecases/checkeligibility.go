package usecases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sokofiti/internal/domain/billing"
	"sokofiti/internal/shared/logger"
)

type CheckEligibilityCommand struct {
	UserID uint
}

type CheckEligibilityResult struct {
	CanCreate        bool
	Reason           string
	CreditsRemaining int
	PlanID           string
	PlanName         string
	Status           string
	EndDate          *time.Time
}

// CheckEligibilityUseCase answers "may this user create a listing right now".
// It is a read path, but applies lazy expiry: a subscription whose end date
// has passed is flipped to expired on the spot so storage catches up with
// EffectiveStatus.
type CheckEligibilityUseCase struct {
	subscriptionRepo billing.SubscriptionRepository
	planRepo         billing.PlanRepository
	logger           logger.Interface
}

func NewCheckEligibilityUseCase(
	subscriptionRepo billing.SubscriptionRepository,
	planRepo billing.PlanRepository,
	logger logger.Interface,
) *CheckEligibilityUseCase {
	return &CheckEligibilityUseCase{
		subscriptionRepo: subscriptionRepo,
		planRepo:         planRepo,
		logger:           logger,
	}
}

func (uc *CheckEligibilityUseCase) Execute(ctx context.Context, cmd CheckEligibilityCommand) (*CheckEligibilityResult, error) {
	if cmd.UserID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}

	sub, err := uc.subscriptionRepo.FindActiveByUserID(ctx, cmd.UserID)
	if errors.Is(err, billing.ErrNoActiveSubscription) {
		return &CheckEligibilityResult{
			CanCreate: false,
			Reason:    "no active subscription",
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load subscription: %w", err)
	}

	now := time.Now().UTC()
	if sub.IsDateExpired(now) {
		sub.Expire()
		if err := uc.subscriptionRepo.Update(ctx, sub); err != nil {
			// The flip is opportunistic; the answer is correct either way.
			uc.logger.Warnw("failed to persist lazy expiry",
				"subscription_id", sub.ID(),
				"error", err,
			)
		}
		return &CheckEligibilityResult{
			CanCreate: false,
			Reason:    "subscription expired",
			Status:    sub.Status().String(),
			PlanID:    sub.PlanID(),
			EndDate:   sub.EndDate(),
		}, nil
	}

	result := &CheckEligibilityResult{
		CreditsRemaining: sub.CreditsRemaining(),
		PlanID:           sub.PlanID(),
		Status:           sub.Status().String(),
		EndDate:          sub.EndDate(),
	}
	if plan, err := uc.planRepo.FindByID(ctx, sub.PlanID()); err == nil {
		result.PlanName = plan.Name()
	}

	if sub.CreditsRemaining() > 0 {
		result.CanCreate = true
	} else {
		result.Reason = "no credits remaining"
	}
	return result, nil
}
