package billing

import (
	"errors"
	"fmt"
)

var (
	ErrPlanNotFound          = errors.New("plan not found or inactive")
	ErrFreePlanAlreadyActive = errors.New("user already has an active free plan")
	ErrNoActiveSubscription  = errors.New("no active subscription found")
	ErrNoCreditsRemaining    = errors.New("no credits remaining")
	ErrSubscriptionExpired   = errors.New("subscription has expired")
	ErrCreditAlreadyConsumed = errors.New("credit already consumed for this listing")
	ErrInvalidCreditPackage  = errors.New("invalid credit package")
	ErrAmountMismatch        = errors.New("payment amount mismatch")
	ErrSubscriptionNotFound  = errors.New("subscription not found")
	ErrSubscriptionConflict  = errors.New("concurrent subscription change, retry")
	ErrPaymentRecordNotFound = errors.New("payment record not found")
)

// AmountMismatchError wraps ErrAmountMismatch with the expected and received
// amounts for the caller-facing message.
func AmountMismatchError(expected, received int64) error {
	return fmt.Errorf("%w: expected %d, received %d", ErrAmountMismatch, expected, received)
}
