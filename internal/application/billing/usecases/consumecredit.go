package usecases

import (
	"context"
	"fmt"
	"time"

	"sokofiti/internal/domain/billing"
	vo "sokofiti/internal/domain/billing/valueobjects"
	sharederrors "sokofiti/internal/shared/errors"
	"sokofiti/internal/shared/logger"
)

type ConsumeCreditCommand struct {
	UserID    uint
	ListingID uint
}

type ConsumeCreditResult struct {
	CreditsRemaining int
	SubscriptionID   uint
}

// ConsumeCreditUseCase debits exactly one credit for a listing. The debit is
// idempotent per (user, listing): repeats fail with ErrCreditAlreadyConsumed
// both through a ledger pre-check and through the database unique index,
// which also closes the race between concurrent requests.
type ConsumeCreditUseCase struct {
	subscriptionRepo billing.SubscriptionRepository
	ledgerRepo       billing.CreditLedgerRepository
	txMgr            TransactionRunner
	logger           logger.Interface
}

func NewConsumeCreditUseCase(
	subscriptionRepo billing.SubscriptionRepository,
	ledgerRepo billing.CreditLedgerRepository,
	txMgr TransactionRunner,
	logger logger.Interface,
) *ConsumeCreditUseCase {
	return &ConsumeCreditUseCase{
		subscriptionRepo: subscriptionRepo,
		ledgerRepo:       ledgerRepo,
		txMgr:            txMgr,
		logger:           logger,
	}
}

func (uc *ConsumeCreditUseCase) Execute(ctx context.Context, cmd ConsumeCreditCommand) (*ConsumeCreditResult, error) {
	if cmd.UserID == 0 || cmd.ListingID == 0 {
		return nil, fmt.Errorf("user ID and listing ID are required")
	}

	now := time.Now().UTC()

	var result *ConsumeCreditResult
	err := uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		sub, err := uc.subscriptionRepo.FindActiveByUserID(txCtx, cmd.UserID)
		if err != nil {
			return err
		}

		// An empty balance is reported before date expiry, so a drained
		// subscription always reads as out of credits.
		if sub.CreditsRemaining() <= 0 {
			return billing.ErrNoCreditsRemaining
		}

		if sub.IsDateExpired(now) {
			// Lazy expiry: persist what EffectiveStatus already reports.
			sub.Expire()
			if err := uc.subscriptionRepo.Update(txCtx, sub); err != nil {
				return fmt.Errorf("failed to expire subscription: %w", err)
			}
			return billing.ErrSubscriptionExpired
		}

		consumed, err := uc.ledgerRepo.ExistsConsumption(txCtx, cmd.UserID, cmd.ListingID, vo.ActionListingCreation)
		if err != nil {
			return fmt.Errorf("failed to check credit history: %w", err)
		}
		if consumed {
			return billing.ErrCreditAlreadyConsumed
		}

		if err := sub.ConsumeCredit(); err != nil {
			return err
		}
		if err := uc.subscriptionRepo.Update(txCtx, sub); err != nil {
			return fmt.Errorf("failed to update subscription: %w", err)
		}

		entry, err := billing.NewConsumptionEntry(cmd.UserID, sub.ID(), cmd.ListingID, "Listing creation")
		if err != nil {
			return err
		}
		if err := uc.ledgerRepo.Create(txCtx, entry); err != nil {
			if sharederrors.IsDuplicateError(err) {
				return billing.ErrCreditAlreadyConsumed
			}
			return fmt.Errorf("failed to record credit consumption: %w", err)
		}

		result = &ConsumeCreditResult{
			CreditsRemaining: sub.CreditsRemaining(),
			SubscriptionID:   sub.ID(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Infow("credit consumed",
		"user_id", cmd.UserID,
		"listing_id", cmd.ListingID,
		"credits_remaining", result.CreditsRemaining,
	)
	return result, nil
}
