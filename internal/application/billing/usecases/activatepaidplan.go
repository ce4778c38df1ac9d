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

type ActivatePaidPlanCommand struct {
	UserID        uint
	PlanID        string
	TransactionID string
	Amount        int64
}

type ActivatePaidPlanResult struct {
	SubscriptionID   uint
	PlanID           string
	CreditsRemaining int
	StartDate        time.Time
	EndDate          *time.Time
	Status           string
}

// ActivatePaidPlanUseCase activates a paid plan after a confirmed payment.
// It is driven by the payment callback path, never directly by clients.
type ActivatePaidPlanUseCase struct {
	planRepo          billing.PlanRepository
	subscriptionRepo  billing.SubscriptionRepository
	ledgerRepo        billing.CreditLedgerRepository
	txMgr             TransactionRunner
	strictAmountCheck bool
	logger            logger.Interface
}

func NewActivatePaidPlanUseCase(
	planRepo billing.PlanRepository,
	subscriptionRepo billing.SubscriptionRepository,
	ledgerRepo billing.CreditLedgerRepository,
	txMgr TransactionRunner,
	strictAmountCheck bool,
	logger logger.Interface,
) *ActivatePaidPlanUseCase {
	return &ActivatePaidPlanUseCase{
		planRepo:          planRepo,
		subscriptionRepo:  subscriptionRepo,
		ledgerRepo:        ledgerRepo,
		txMgr:             txMgr,
		strictAmountCheck: strictAmountCheck,
		logger:            logger,
	}
}

func (uc *ActivatePaidPlanUseCase) Execute(ctx context.Context, cmd ActivatePaidPlanCommand) (*ActivatePaidPlanResult, error) {
	if cmd.UserID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if cmd.PlanID == "" {
		return nil, fmt.Errorf("plan ID is required")
	}

	plan, err := uc.planRepo.FindByID(ctx, cmd.PlanID)
	if err != nil || !plan.IsActive() || plan.IsFree() {
		uc.logger.Warnw("paid activation for unknown or inactive plan",
			"plan_id", cmd.PlanID,
			"user_id", cmd.UserID,
		)
		return nil, billing.ErrPlanNotFound
	}

	if cmd.Amount != plan.Price() {
		// Lenient mode keeps the historical behavior: the payment was
		// already confirmed by the gateway, so a mismatch is logged and
		// activation proceeds on the plan's own terms.
		if uc.strictAmountCheck {
			return nil, billing.AmountMismatchError(plan.Price(), cmd.Amount)
		}
		uc.logger.Warnw("payment amount does not match plan price",
			"plan_id", plan.ID(),
			"expected", plan.Price(),
			"received", cmd.Amount,
		)
	}

	now := time.Now().UTC()
	credits := plan.CreditGrant(0)
	endDate := plan.Period().EndDateFrom(now)

	var sub *billing.Subscription
	err = uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		current, err := uc.subscriptionRepo.FindActiveByUserID(txCtx, cmd.UserID)
		switch {
		case err == nil:
			current.Expire()
			if err := uc.subscriptionRepo.Update(txCtx, current); err != nil {
				return fmt.Errorf("failed to expire current subscription: %w", err)
			}
		case errors.Is(err, billing.ErrNoActiveSubscription):
		default:
			return fmt.Errorf("failed to load current subscription: %w", err)
		}

		txID := cmd.TransactionID
		sub, err = billing.NewSubscription(cmd.UserID, plan.ID(), &txID, now, endDate, credits)
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
			entry, err := billing.NewGrantEntry(cmd.UserID, sub.ID(), credits, vo.ActionPlanActivation,
				fmt.Sprintf("%s plan activation", plan.Name()), &txID)
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

	uc.logger.Infow("paid plan activated",
		"user_id", cmd.UserID,
		"plan_id", plan.ID(),
		"subscription_id", sub.ID(),
		"credits", credits,
		"transaction_id", cmd.TransactionID,
	)

	return &ActivatePaidPlanResult{
		SubscriptionID:   sub.ID(),
		PlanID:           plan.ID(),
		CreditsRemaining: sub.CreditsRemaining(),
		StartDate:        sub.StartDate(),
		EndDate:          sub.EndDate(),
		Status:           sub.Status().String(),
	}, nil
}
