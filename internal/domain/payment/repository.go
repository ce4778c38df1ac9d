package payment

import (
	"context"
	"time"
)

// TransactionRepository manages M-Pesa transaction persistence.
type TransactionRepository interface {
	Create(ctx context.Context, tx *Transaction) error
	Update(ctx context.Context, tx *Transaction) error
	// FinalizeFromPending persists tx's final state only while the stored
	// row is still pending. It returns false when a concurrent delivery of
	// the same result already claimed the transition; callers must skip
	// fulfillment in that case.
	FinalizeFromPending(ctx context.Context, tx *Transaction) (bool, error)
	FindByID(ctx context.Context, id uint) (*Transaction, error)
	FindByCheckoutRequestID(ctx context.Context, checkoutRequestID string) (*Transaction, error)
	FindByMerchantRequestID(ctx context.Context, merchantRequestID string) (*Transaction, error)
	FindByUserID(ctx context.Context, userID uint, limit, offset int) ([]*Transaction, error)
	// FindPendingOlderThan returns pending transactions created at or
	// before cutoff, up to limit rows. Used by reconciliation.
	FindPendingOlderThan(ctx context.Context, cutoff time.Time, limit int) ([]*Transaction, error)
}
