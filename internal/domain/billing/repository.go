package billing

import (
	"context"
	"time"

	vo "sokofiti/internal/domain/billing/valueobjects"
)

// PlanRepository manages subscription plan persistence.
type PlanRepository interface {
	Create(ctx context.Context, plan *Plan) error
	Update(ctx context.Context, plan *Plan) error
	FindByID(ctx context.Context, id string) (*Plan, error)
	FindActive(ctx context.Context) ([]*Plan, error)
	FindAll(ctx context.Context) ([]*Plan, error)
}

// SubscriptionRepository manages subscription persistence.
type SubscriptionRepository interface {
	Create(ctx context.Context, sub *Subscription) error
	Update(ctx context.Context, sub *Subscription) error
	FindByID(ctx context.Context, id uint) (*Subscription, error)
	// FindActiveByUserID returns the user's subscription with status
	// "active", or ErrNoActiveSubscription when there is none. Date
	// expiry is not applied here; callers check EffectiveStatus.
	FindActiveByUserID(ctx context.Context, userID uint) (*Subscription, error)
	FindByUserID(ctx context.Context, userID uint) ([]*Subscription, error)
	// FindDateExpired returns active subscriptions whose end date has
	// passed as of now, up to limit rows.
	FindDateExpired(ctx context.Context, now time.Time, limit int) ([]*Subscription, error)
}

// CreditLedgerRepository manages the append-only credit ledger.
type CreditLedgerRepository interface {
	// Create inserts a ledger entry. A duplicate (user, listing, action)
	// triple fails the unique index; callers translate that into
	// ErrCreditAlreadyConsumed.
	Create(ctx context.Context, entry *CreditEntry) error
	FindByUserID(ctx context.Context, userID uint, limit, offset int) ([]*CreditEntry, error)
	FindBySubscriptionID(ctx context.Context, subscriptionID uint) ([]*CreditEntry, error)
	ExistsConsumption(ctx context.Context, userID, listingID uint, action vo.CreditAction) (bool, error)
}

// PaymentRecordRepository manages billing-side payment audit rows.
type PaymentRecordRepository interface {
	Create(ctx context.Context, record *PaymentRecord) error
	FindByUserID(ctx context.Context, userID uint) ([]*PaymentRecord, error)
	FindByTransactionID(ctx context.Context, transactionID string) (*PaymentRecord, error)
}
