package usecases

import (
	"context"
	"fmt"
	"time"

	"sokofiti/internal/domain/billing"
	vo "sokofiti/internal/domain/billing/valueobjects"
	"sokofiti/internal/shared/logger"
)

type PurchaseCreditsCommand struct {
	UserID        uint
	PackageKey    string
	TransactionID string
	Amount        int64
	PhoneNumber   string
	ReceiptNumber string
}

type PurchaseCreditsResult struct {
	PackageKey       string
	CreditsAdded     int
	CreditsRemaining int
	SubscriptionID   uint
}

// PurchaseCreditsUseCase tops up an active subscription with a fixed credit
// package after a confirmed payment.
type PurchaseCreditsUseCase struct {
	subscriptionRepo billing.SubscriptionRepository
	ledgerRepo       billing.CreditLedgerRepository
	paymentRepo      billing.PaymentRecordRepository
	txMgr            TransactionRunner
	logger           logger.Interface
}

func NewPurchaseCreditsUseCase(
	subscriptionRepo billing.SubscriptionRepository,
	ledgerRepo billing.CreditLedgerRepository,
	paymentRepo billing.PaymentRecordRepository,
	txMgr TransactionRunner,
	logger logger.Interface,
) *PurchaseCreditsUseCase {
	return &PurchaseCreditsUseCase{
		subscriptionRepo: subscriptionRepo,
		ledgerRepo:       ledgerRepo,
		paymentRepo:      paymentRepo,
		txMgr:            txMgr,
		logger:           logger,
	}
}

func (uc *PurchaseCreditsUseCase) Execute(ctx context.Context, cmd PurchaseCreditsCommand) (*PurchaseCreditsResult, error) {
	if cmd.UserID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}

	pkg, ok := vo.LookupCreditPackage(cmd.PackageKey)
	if !ok {
		return nil, billing.ErrInvalidCreditPackage
	}
	if cmd.Amount != pkg.Price {
		return nil, billing.AmountMismatchError(pkg.Price, cmd.Amount)
	}

	now := time.Now().UTC()

	var result *PurchaseCreditsResult
	err := uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		sub, err := uc.subscriptionRepo.FindActiveByUserID(txCtx, cmd.UserID)
		if err != nil {
			return err
		}
		if sub.IsDateExpired(now) {
			sub.Expire()
			if err := uc.subscriptionRepo.Update(txCtx, sub); err != nil {
				return fmt.Errorf("failed to expire subscription: %w", err)
			}
			return billing.ErrNoActiveSubscription
		}

		if err := sub.AddCredits(pkg.Credits); err != nil {
			return err
		}
		if err := uc.subscriptionRepo.Update(txCtx, sub); err != nil {
			return fmt.Errorf("failed to update subscription: %w", err)
		}

		txID := cmd.TransactionID
		entry, err := billing.NewGrantEntry(cmd.UserID, sub.ID(), pkg.Credits, vo.ActionCreditPurchase,
			fmt.Sprintf("Credit purchase (%s package)", pkg.Key), &txID)
		if err != nil {
			return err
		}
		if err := uc.ledgerRepo.Create(txCtx, entry); err != nil {
			return fmt.Errorf("failed to record credit grant: %w", err)
		}

		subID := sub.ID()
		record, err := billing.NewPaymentRecord(cmd.UserID, &subID, cmd.TransactionID, cmd.ReceiptNumber, cmd.PhoneNumber, cmd.Amount, billing.PurposeCreditPurchase)
		if err != nil {
			return err
		}
		if err := uc.paymentRepo.Create(txCtx, record); err != nil {
			return fmt.Errorf("failed to record payment: %w", err)
		}

		result = &PurchaseCreditsResult{
			PackageKey:       pkg.Key,
			CreditsAdded:     pkg.Credits,
			CreditsRemaining: sub.CreditsRemaining(),
			SubscriptionID:   sub.ID(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Infow("credits purchased",
		"user_id", cmd.UserID,
		"package", pkg.Key,
		"credits_added", pkg.Credits,
		"credits_total", result.CreditsRemaining,
	)
	return result, nil
}
