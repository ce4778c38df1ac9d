package valueobjects

// SubscriptionStatus represents the lifecycle state of a subscription.
type SubscriptionStatus string

const (
	// StatusActive is the one subscription per user that grants credits.
	StatusActive SubscriptionStatus = "active"
	// StatusExpired marks a subscription that ran out of period or was
	// superseded by a new activation.
	StatusExpired SubscriptionStatus = "expired"
	// StatusCancelled marks a subscription terminated by support action.
	StatusCancelled SubscriptionStatus = "cancelled"
	// StatusRenewed marks a subscription superseded by an extension. Kept
	// distinct from expired to preserve the renewal audit trail.
	StatusRenewed SubscriptionStatus = "renewed"
)

// ValidStatuses enumerates the accepted persisted statuses.
var ValidStatuses = map[SubscriptionStatus]bool{
	StatusActive:    true,
	StatusExpired:   true,
	StatusCancelled: true,
	StatusRenewed:   true,
}

func (s SubscriptionStatus) String() string {
	return string(s)
}

// IsActive reports whether the stored status is active. Callers that care
// about date expiry should use Subscription.EffectiveStatus instead.
func (s SubscriptionStatus) IsActive() bool {
	return s == StatusActive
}
