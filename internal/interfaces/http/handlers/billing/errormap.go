package billing

import (
	"errors"

	domainBilling "sokofiti/internal/domain/billing"
	sharederrors "sokofiti/internal/shared/errors"
)

// mapDomainError translates billing domain failures into AppErrors so the
// response layer can pick the right HTTP status. Unknown errors pass through
// and are reported as opaque internal errors.
func mapDomainError(err error) error {
	switch {
	case errors.Is(err, domainBilling.ErrPlanNotFound):
		return sharederrors.NewNotFoundError("plan not found or inactive")
	case errors.Is(err, domainBilling.ErrNoActiveSubscription):
		return sharederrors.NewNotFoundError("no active subscription found")
	case errors.Is(err, domainBilling.ErrSubscriptionNotFound):
		return sharederrors.NewNotFoundError("subscription not found")
	case errors.Is(err, domainBilling.ErrFreePlanAlreadyActive):
		return sharederrors.NewConflictError("free plan is already active")
	case errors.Is(err, domainBilling.ErrSubscriptionConflict):
		return sharederrors.NewConflictError("concurrent subscription change, retry")
	case errors.Is(err, domainBilling.ErrCreditAlreadyConsumed):
		return sharederrors.NewConflictError("credit already consumed for this listing")
	case errors.Is(err, domainBilling.ErrNoCreditsRemaining):
		return sharederrors.NewDomainRuleError("no credits remaining")
	case errors.Is(err, domainBilling.ErrSubscriptionExpired):
		return sharederrors.NewDomainRuleError("subscription has expired")
	case errors.Is(err, domainBilling.ErrAmountMismatch):
		return sharederrors.NewDomainRuleError("payment amount does not match", err.Error())
	case errors.Is(err, domainBilling.ErrInvalidCreditPackage):
		return sharederrors.NewValidationError("invalid credit package")
	default:
		return err
	}
}
