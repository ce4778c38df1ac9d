package usecases

import (
	"context"

	billingusecases "sokofiti/internal/application/billing/usecases"
)

// PlanActivator activates a paid plan once its payment is confirmed.
// Satisfied by billing's ActivatePaidPlanUseCase.
type PlanActivator interface {
	Execute(ctx context.Context, cmd billingusecases.ActivatePaidPlanCommand) (*billingusecases.ActivatePaidPlanResult, error)
}

// SubscriptionRenewer renews a subscription once its payment is confirmed.
// Satisfied by billing's RenewSubscriptionUseCase.
type SubscriptionRenewer interface {
	Execute(ctx context.Context, cmd billingusecases.RenewSubscriptionCommand) (*billingusecases.RenewSubscriptionResult, error)
}

// CreditPurchaser fulfills a credit package purchase once its payment is
// confirmed. Satisfied by billing's PurchaseCreditsUseCase.
type CreditPurchaser interface {
	Execute(ctx context.Context, cmd billingusecases.PurchaseCreditsCommand) (*billingusecases.PurchaseCreditsResult, error)
}

// PaymentNotification carries the details of a finalized payment.
type PaymentNotification struct {
	UserID        uint
	Amount        int64
	ReceiptNumber string
	PhoneNumber   string
	Purpose       string
	Succeeded     bool
}

// PaymentNotifier delivers best-effort payment notifications. Failures are
// logged and never affect payment processing.
type PaymentNotifier interface {
	NotifyPaymentResult(ctx context.Context, n PaymentNotification) error
}
