package usecases

import (
	"context"
	"fmt"

	billingusecases "sokofiti/internal/application/billing/usecases"
	"sokofiti/internal/domain/payment"
	"sokofiti/internal/shared/logger"
)

// Fulfiller routes a completed payment to the billing action it paid for.
// It is shared by the callback handler, the status query, and the
// reconciliation sweep so every path fulfills identically.
type Fulfiller struct {
	activator PlanActivator
	renewer   SubscriptionRenewer
	purchaser CreditPurchaser
	logger    logger.Interface
}

func NewFulfiller(
	activator PlanActivator,
	renewer SubscriptionRenewer,
	purchaser CreditPurchaser,
	logger logger.Interface,
) *Fulfiller {
	return &Fulfiller{
		activator: activator,
		renewer:   renewer,
		purchaser: purchaser,
		logger:    logger,
	}
}

// Fulfill applies the billing side effect of a completed transaction.
func (f *Fulfiller) Fulfill(ctx context.Context, tx *payment.Transaction) error {
	switch tx.Purpose() {
	case payment.PurposePlanActivation:
		planID := tx.AccountReference()
		if tx.PlanID() != nil {
			planID = *tx.PlanID()
		}
		_, err := f.activator.Execute(ctx, billingusecases.ActivatePaidPlanCommand{
			UserID:        tx.UserID(),
			PlanID:        planID,
			TransactionID: tx.CheckoutRequestID(),
			Amount:        tx.Amount(),
		})
		return err

	case payment.PurposeRenewal:
		planID := tx.AccountReference()
		if tx.PlanID() != nil {
			planID = *tx.PlanID()
		}
		_, err := f.renewer.Execute(ctx, billingusecases.RenewSubscriptionCommand{
			UserID:        tx.UserID(),
			PlanID:        planID,
			TransactionID: tx.CheckoutRequestID(),
			Amount:        tx.Amount(),
			PhoneNumber:   tx.PhoneNumber().String(),
			ReceiptNumber: tx.ReceiptNumber(),
		})
		return err

	case payment.PurposeCreditPurchase:
		_, err := f.purchaser.Execute(ctx, billingusecases.PurchaseCreditsCommand{
			UserID:        tx.UserID(),
			PackageKey:    tx.AccountReference(),
			TransactionID: tx.CheckoutRequestID(),
			Amount:        tx.Amount(),
			PhoneNumber:   tx.PhoneNumber().String(),
			ReceiptNumber: tx.ReceiptNumber(),
		})
		return err

	default:
		return fmt.Errorf("unknown transaction purpose: %s", tx.Purpose())
	}
}
