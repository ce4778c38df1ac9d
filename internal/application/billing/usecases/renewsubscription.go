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

// Renewal types reported to callers.
const (
	RenewalTypeExtension = "extension"
	RenewalTypeRenewal   = "renewal"
)

type RenewSubscriptionCommand struct {
	UserID        uint
	PlanID        string
	TransactionID string
	Amount        int64
	PhoneNumber   string
	ReceiptNumber string
}

type RenewSubscriptionResult struct {
	SubscriptionID   uint
	PlanID           string
	RenewalType      string
	CreditsAdded     int
	CreditsRemaining int
	StartDate        time.Time
	EndDate          *time.Time
}

// RenewSubscriptionUseCase renews a paid subscription. A renewal while the
// current subscription still has time left extends it: the new period starts
// where the old one ends and unused credits carry over. A renewal after
// expiry starts fresh from now with only the plan's credits.
type RenewSubscriptionUseCase struct {
	planRepo         billing.PlanRepository
	subscriptionRepo billing.SubscriptionRepository
	ledgerRepo       billing.CreditLedgerRepository
	paymentRepo      billing.PaymentRecordRepository
	txMgr            TransactionRunner
	logger           logger.Interface
}

func NewRenewSubscriptionUseCase(
	planRepo billing.PlanRepository,
	subscriptionRepo billing.SubscriptionRepository,
	ledgerRepo billing.CreditLedgerRepository,
	paymentRepo billing.PaymentRecordRepository,
	txMgr TransactionRunner,
	logger logger.Interface,
) *RenewSubscriptionUseCase {
	return &RenewSubscriptionUseCase{
		planRepo:         planRepo,
		subscriptionRepo: subscriptionRepo,
		ledgerRepo:       ledgerRepo,
		paymentRepo:      paymentRepo,
		txMgr:            txMgr,
		logger:           logger,
	}
}

func (uc *RenewSubscriptionUseCase) Execute(ctx context.Context, cmd RenewSubscriptionCommand) (*RenewSubscriptionResult, error) {
	if cmd.UserID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}

	plan, err := uc.planRepo.FindByID(ctx, cmd.PlanID)
	if err != nil || !plan.IsActive() || plan.IsFree() {
		return nil, billing.ErrPlanNotFound
	}
	if cmd.Amount != plan.Price() {
		return nil, billing.AmountMismatchError(plan.Price(), cmd.Amount)
	}

	now := time.Now().UTC()
	grant := plan.CreditGrant(0)

	var (
		sub         *billing.Subscription
		renewalType string
	)
	err = uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		current, err := uc.subscriptionRepo.FindActiveByUserID(txCtx, cmd.UserID)
		switch {
		case err == nil && !current.IsDateExpired(now) && current.EndDate() != nil:
			// Extension: the new period starts when the current one
			// ends and unused credits carry over.
			renewalType = RenewalTypeExtension
			start := *current.EndDate()
			txID := cmd.TransactionID
			sub, err = billing.NewSubscription(cmd.UserID, plan.ID(), &txID, start, plan.Period().EndDateFrom(start), grant+current.CreditsRemaining())
			if err != nil {
				return err
			}
			if err := current.MarkRenewed(); err != nil {
				return err
			}
			if err := uc.subscriptionRepo.Update(txCtx, current); err != nil {
				return fmt.Errorf("failed to mark current subscription renewed: %w", err)
			}
		case err == nil:
			// Active row but date-expired or open-ended: start fresh.
			renewalType = RenewalTypeRenewal
			current.Expire()
			if err := uc.subscriptionRepo.Update(txCtx, current); err != nil {
				return fmt.Errorf("failed to expire current subscription: %w", err)
			}
			txID := cmd.TransactionID
			sub, err = billing.NewSubscription(cmd.UserID, plan.ID(), &txID, now, plan.Period().EndDateFrom(now), grant)
			if err != nil {
				return err
			}
		case errors.Is(err, billing.ErrNoActiveSubscription):
			renewalType = RenewalTypeRenewal
			txID := cmd.TransactionID
			sub, err = billing.NewSubscription(cmd.UserID, plan.ID(), &txID, now, plan.Period().EndDateFrom(now), grant)
			if err != nil {
				return err
			}
		default:
			return fmt.Errorf("failed to load current subscription: %w", err)
		}

		if err := uc.subscriptionRepo.Create(txCtx, sub); err != nil {
			if sharederrors.IsDuplicateError(err) {
				// Lost the unique active-subscription index to a
				// concurrent activation for the same user.
				return billing.ErrSubscriptionConflict
			}
			return fmt.Errorf("failed to create subscription: %w", err)
		}

		txID := cmd.TransactionID
		entry, err := billing.NewGrantEntry(cmd.UserID, sub.ID(), grant, vo.ActionSubscriptionRenewal,
			fmt.Sprintf("%s plan renewal (%s)", plan.Name(), renewalType), &txID)
		if err != nil {
			return err
		}
		if err := uc.ledgerRepo.Create(txCtx, entry); err != nil {
			return fmt.Errorf("failed to record credit grant: %w", err)
		}

		subID := sub.ID()
		record, err := billing.NewPaymentRecord(cmd.UserID, &subID, cmd.TransactionID, cmd.ReceiptNumber, cmd.PhoneNumber, cmd.Amount, billing.PurposeRenewal)
		if err != nil {
			return err
		}
		if err := uc.paymentRepo.Create(txCtx, record); err != nil {
			return fmt.Errorf("failed to record payment: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Infow("subscription renewed",
		"user_id", cmd.UserID,
		"plan_id", plan.ID(),
		"renewal_type", renewalType,
		"credits_added", grant,
		"credits_total", sub.CreditsRemaining(),
	)

	return &RenewSubscriptionResult{
		SubscriptionID:   sub.ID(),
		PlanID:           plan.ID(),
		RenewalType:      renewalType,
		CreditsAdded:     grant,
		CreditsRemaining: sub.CreditsRemaining(),
		StartDate:        sub.StartDate(),
		EndDate:          sub.EndDate(),
	}, nil
}
