package valueobjects

// CreditAction classifies a credit history entry.
type CreditAction string

const (
	ActionPlanActivation      CreditAction = "plan_activation"
	ActionListingCreation     CreditAction = "listing_creation"
	ActionSubscriptionRenewal CreditAction = "subscription_renewal"
	ActionCreditPurchase      CreditAction = "credit_purchase"
	ActionManualAdjustment    CreditAction = "manual_adjustment"
	ActionRefund              CreditAction = "refund"
)

// ValidCreditActions enumerates the accepted ledger actions.
var ValidCreditActions = map[CreditAction]bool{
	ActionPlanActivation:      true,
	ActionListingCreation:     true,
	ActionSubscriptionRenewal: true,
	ActionCreditPurchase:      true,
	ActionManualAdjustment:    true,
	ActionRefund:              true,
}

func (a CreditAction) String() string {
	return string(a)
}
