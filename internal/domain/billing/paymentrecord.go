package billing

import (
	"fmt"
	"time"
)

// PaymentRecord is the billing-side audit row written when a payment is
// applied to a subscription. It is separate from the gateway transaction: the
// transaction tracks the STK push lifecycle, the record tracks what billing
// did with the money.
type PaymentRecord struct {
	id             uint
	userID         uint
	subscriptionID *uint
	transactionID  string
	receiptNumber  string
	phoneNumber    string
	amount         int64
	purpose        string
	createdAt      time.Time
}

// Payment purposes recorded on audit rows.
const (
	PurposePlanActivation = "plan_activation"
	PurposeRenewal        = "subscription_renewal"
	PurposeCreditPurchase = "credit_purchase"
)

// NewPaymentRecord creates an audit row for an applied payment.
func NewPaymentRecord(userID uint, subscriptionID *uint, transactionID, receiptNumber, phoneNumber string, amount int64, purpose string) (*PaymentRecord, error) {
	if transactionID == "" {
		return nil, fmt.Errorf("transaction ID is required")
	}
	if amount <= 0 {
		return nil, fmt.Errorf("amount must be positive")
	}
	switch purpose {
	case PurposePlanActivation, PurposeRenewal, PurposeCreditPurchase:
	default:
		return nil, fmt.Errorf("invalid payment purpose: %s", purpose)
	}
	return &PaymentRecord{
		userID:         userID,
		subscriptionID: subscriptionID,
		transactionID:  transactionID,
		receiptNumber:  receiptNumber,
		phoneNumber:    phoneNumber,
		amount:         amount,
		purpose:        purpose,
		createdAt:      time.Now().UTC(),
	}, nil
}

// ReconstructPaymentRecord rebuilds a record from persistence.
func ReconstructPaymentRecord(
	id, userID uint,
	subscriptionID *uint,
	transactionID, receiptNumber, phoneNumber string,
	amount int64,
	purpose string,
	createdAt time.Time,
) *PaymentRecord {
	return &PaymentRecord{
		id:             id,
		userID:         userID,
		subscriptionID: subscriptionID,
		transactionID:  transactionID,
		receiptNumber:  receiptNumber,
		phoneNumber:    phoneNumber,
		amount:         amount,
		purpose:        purpose,
		createdAt:      createdAt,
	}
}

func (r *PaymentRecord) ID() uint              { return r.id }
func (r *PaymentRecord) UserID() uint          { return r.userID }
func (r *PaymentRecord) SubscriptionID() *uint { return r.subscriptionID }
func (r *PaymentRecord) TransactionID() string { return r.transactionID }
func (r *PaymentRecord) ReceiptNumber() string { return r.receiptNumber }
func (r *PaymentRecord) PhoneNumber() string   { return r.phoneNumber }
func (r *PaymentRecord) Amount() int64         { return r.amount }
func (r *PaymentRecord) Purpose() string       { return r.purpose }
func (r *PaymentRecord) CreatedAt() time.Time  { return r.createdAt }

// SetID sets the record ID after insertion. Persistence layer use only.
func (r *PaymentRecord) SetID(id uint) error {
	if r.id != 0 {
		return fmt.Errorf("payment record ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("payment record ID cannot be zero")
	}
	r.id = id
	return nil
}
