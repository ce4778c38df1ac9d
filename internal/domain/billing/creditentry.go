package billing

import (
	"fmt"
	"time"

	vo "sokofiti/internal/domain/billing/valueobjects"
)

// CreditEntry is one immutable row of the credit ledger. The ledger is
// append-only and is the source of truth for credit auditing; balances on the
// subscription row are a denormalized view of it.
type CreditEntry struct {
	id             uint
	userID         uint
	subscriptionID uint
	listingID      *uint
	creditsAdded   int
	creditsUsed    int
	action         vo.CreditAction
	description    string
	transactionID  *string
	createdAt      time.Time
}

// NewGrantEntry records credits added to a subscription.
func NewGrantEntry(userID, subscriptionID uint, credits int, action vo.CreditAction, description string, transactionID *string) (*CreditEntry, error) {
	if credits <= 0 {
		return nil, fmt.Errorf("grant amount must be positive")
	}
	if !vo.ValidCreditActions[action] {
		return nil, fmt.Errorf("invalid credit action: %s", action)
	}
	return &CreditEntry{
		userID:         userID,
		subscriptionID: subscriptionID,
		creditsAdded:   credits,
		action:         action,
		description:    description,
		transactionID:  transactionID,
		createdAt:      time.Now().UTC(),
	}, nil
}

// NewConsumptionEntry records the single-credit debit tied to a listing. The
// (user, listing, action) triple is unique in storage, which makes credit
// consumption at-most-once per listing even under concurrent requests.
func NewConsumptionEntry(userID, subscriptionID, listingID uint, description string) (*CreditEntry, error) {
	if listingID == 0 {
		return nil, fmt.Errorf("listing ID is required")
	}
	return &CreditEntry{
		userID:         userID,
		subscriptionID: subscriptionID,
		listingID:      &listingID,
		creditsUsed:    1,
		action:         vo.ActionListingCreation,
		description:    description,
		createdAt:      time.Now().UTC(),
	}, nil
}

// ReconstructCreditEntry rebuilds a ledger entry from persistence.
func ReconstructCreditEntry(
	id, userID, subscriptionID uint,
	listingID *uint,
	creditsAdded, creditsUsed int,
	action vo.CreditAction,
	description string,
	transactionID *string,
	createdAt time.Time,
) *CreditEntry {
	return &CreditEntry{
		id:             id,
		userID:         userID,
		subscriptionID: subscriptionID,
		listingID:      listingID,
		creditsAdded:   creditsAdded,
		creditsUsed:    creditsUsed,
		action:         action,
		description:    description,
		transactionID:  transactionID,
		createdAt:      createdAt,
	}
}

func (e *CreditEntry) ID() uint                 { return e.id }
func (e *CreditEntry) UserID() uint             { return e.userID }
func (e *CreditEntry) SubscriptionID() uint     { return e.subscriptionID }
func (e *CreditEntry) ListingID() *uint         { return e.listingID }
func (e *CreditEntry) CreditsAdded() int        { return e.creditsAdded }
func (e *CreditEntry) CreditsUsed() int         { return e.creditsUsed }
func (e *CreditEntry) Action() vo.CreditAction  { return e.action }
func (e *CreditEntry) Description() string      { return e.description }
func (e *CreditEntry) TransactionID() *string   { return e.transactionID }
func (e *CreditEntry) CreatedAt() time.Time     { return e.createdAt }

// SetID sets the entry ID after insertion. Persistence layer use only.
func (e *CreditEntry) SetID(id uint) error {
	if e.id != 0 {
		return fmt.Errorf("credit entry ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("credit entry ID cannot be zero")
	}
	e.id = id
	return nil
}
