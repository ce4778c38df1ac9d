package usecases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sokofiti/internal/domain/billing"
	vo "sokofiti/internal/domain/billing/valueobjects"
	sharederrors "sokofiti/internal/shared/errors"
	"sokofiti/internal/shared/logger"
)

type ActivateFreePlanCommand struct {
	UserID uint
}

type ActivateFreePlanResult struct {
	SubscriptionID   uint
	PlanID           string
	CreditsRemaining int
	Status           string
}

type ActivateFreePlanUseCase struct {
	planRepo           billing.PlanRepository
	subscriptionRepo   billing.SubscriptionRepository
	ledgerRepo         billing.CreditLedgerRepository
	txMgr              TransactionRunner
	defaultFreeCredits int
	logger             logger.Interface
}

func NewActivateFreePlanUseCase(
	planRepo billing.PlanRepository,
	subscriptionRepo billing.SubscriptionRepository,
	ledgerRepo billing.CreditLedgerRepository,
	txMgr TransactionRunner,
	defaultFreeCredits int,
	logger logger.Interface,
) *ActivateFreePlanUseCase {
	return &ActivateFreePlanUseCase{
		planRepo:           planRepo,
		subscriptionRepo:   subscriptionRepo,
		ledgerRepo:         ledgerRepo,
		txMgr:              txMgr,
		defaultFreeCredits: defaultFreeCredits,
		logger:             logger,
	}
}

func (uc *ActivateFreePlanUseCase) Execute(ctx context.Context, cmd ActivateFreePlanCommand) (*ActivateFreePlanResult, error) {
	if cmd.UserID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}

	plan, err := uc.planRepo.FindByID(ctx, billing.FreePlanID)
	if err != nil {
		uc.logger.Errorw("failed to load free plan", "error", err)
		return nil, billing.ErrPlanNotFound
	}

	credits := plan.CreditGrant(uc.defaultFreeCredits)
	now := time.Now().UTC()

	var sub *billing.Subscription
	err = uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		current, err := uc.subscriptionRepo.FindActiveByUserID(txCtx, cmd.UserID)
		switch {
		case err == nil:
			if current.PlanID() == billing.FreePlanID && current.EffectiveStatus(now) == vo.StatusActive {
				return billing.ErrFreePlanAlreadyActive
			}
			// Paid or date-expired subscription: supersede it so at
			// most one active row exists per user.
			current.Expire()
			if err := uc.subscriptionRepo.Update(txCtx, current); err != nil {
				return fmt.Errorf("failed to expire current subscription: %w", err)
			}
		case errors.Is(err, billing.ErrNoActiveSubscription):
		default:
			return fmt.Errorf("failed to load current subscription: %w", err)
		}

		sub, err = billing.NewSubscription(cmd.UserID, plan.ID(), nil, now, nil, credits)
		if err != nil {
			return err
		}
		if err := uc.subscriptionRepo.Create(txCtx, sub); err != nil {
			if sharederrors.IsDuplicateError(err) {
				// Lost the unique active-subscription index to a
				// concurrent activation for the same user.
				return billing.ErrSubscriptionConflict
			}
			return fmt.Errorf("failed to create subscription: %w", err)
		}

		if credits > 0 {
			entry, err := billing.NewGrantEntry(cmd.UserID, sub.ID(), credits, vo.ActionPlanActivation, "Free plan activation", nil)
			if err != nil {
				return err
			}
			if err := uc.ledgerRepo.Create(txCtx, entry); err != nil {
				return fmt.Errorf("failed to record credit grant: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Infow("free plan activated",
		"user_id", cmd.UserID,
		"subscription_id", sub.ID(),
		"credits", credits,
	)

	return &ActivateFreePlanResult{
		SubscriptionID:   sub.ID(),
		PlanID:           plan.ID(),
		CreditsRemaining: sub.CreditsRemaining(),
		Status:           sub.Status().String(),
	}, nil
}
