package payment

import (
	"fmt"
	"time"

	vo "sokofiti/internal/domain/payment/valueobjects"
)

// Transaction purposes.
const (
	PurposePlanActivation = "plan_activation"
	PurposeRenewal        = "subscription_renewal"
	PurposeCreditPurchase = "credit_purchase"
)

// Transaction is an M-Pesa STK push transaction. It is created pending when
// the push is accepted by the gateway and finalized exactly once, either by
// the asynchronous callback or by the reconciliation sweep.
type Transaction struct {
	id                uint
	userID            uint
	planID            *string
	merchantRequestID string
	checkoutRequestID string
	phoneNumber       vo.PhoneNumber
	amount            int64
	accountReference  string
	description       string
	purpose           string
	status            vo.PaymentStatus
	resultCode        *int
	resultDesc        string
	receiptNumber     string
	transactionDate   *time.Time
	createdAt         time.Time
	updatedAt         time.Time
}

// CreateTransactionParams carries the inputs for NewTransaction.
type CreateTransactionParams struct {
	UserID            uint
	PlanID            *string
	MerchantRequestID string
	CheckoutRequestID string
	PhoneNumber       vo.PhoneNumber
	Amount            int64
	AccountReference  string
	Description       string
	Purpose           string
}

// NewTransaction creates a pending transaction from an accepted STK push.
// PlanID is nil for credit purchases.
func NewTransaction(p CreateTransactionParams) (*Transaction, error) {
	if p.UserID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if p.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if p.CheckoutRequestID == "" {
		return nil, fmt.Errorf("checkout request ID is required")
	}
	switch p.Purpose {
	case PurposePlanActivation, PurposeRenewal, PurposeCreditPurchase:
	default:
		return nil, fmt.Errorf("invalid transaction purpose: %s", p.Purpose)
	}

	now := time.Now().UTC()
	return &Transaction{
		userID:            p.UserID,
		planID:            p.PlanID,
		merchantRequestID: p.MerchantRequestID,
		checkoutRequestID: p.CheckoutRequestID,
		phoneNumber:       p.PhoneNumber,
		amount:            p.Amount,
		accountReference:  p.AccountReference,
		description:       p.Description,
		purpose:           p.Purpose,
		status:            vo.StatusPending,
		createdAt:         now,
		updatedAt:         now,
	}, nil
}

// TransactionReconstructParams carries persisted state for reconstruction.
type TransactionReconstructParams struct {
	ID                uint
	UserID            uint
	PlanID            *string
	MerchantRequestID string
	CheckoutRequestID string
	PhoneNumber       vo.PhoneNumber
	Amount            int64
	AccountReference  string
	Description       string
	Purpose           string
	Status            vo.PaymentStatus
	ResultCode        *int
	ResultDesc        string
	ReceiptNumber     string
	TransactionDate   *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// ReconstructTransaction rebuilds a transaction from persistence.
func ReconstructTransaction(p TransactionReconstructParams) (*Transaction, error) {
	if p.ID == 0 {
		return nil, fmt.Errorf("transaction ID cannot be zero")
	}
	if !vo.ValidPaymentStatuses[p.Status] {
		return nil, fmt.Errorf("invalid payment status: %s", p.Status)
	}
	return &Transaction{
		id:                p.ID,
		userID:            p.UserID,
		planID:            p.PlanID,
		merchantRequestID: p.MerchantRequestID,
		checkoutRequestID: p.CheckoutRequestID,
		phoneNumber:       p.PhoneNumber,
		amount:            p.Amount,
		accountReference:  p.AccountReference,
		description:       p.Description,
		purpose:           p.Purpose,
		status:            p.Status,
		resultCode:        p.ResultCode,
		resultDesc:        p.ResultDesc,
		receiptNumber:     p.ReceiptNumber,
		transactionDate:   p.TransactionDate,
		createdAt:         p.CreatedAt,
		updatedAt:         p.UpdatedAt,
	}, nil
}

func (t *Transaction) ID() uint                    { return t.id }
func (t *Transaction) UserID() uint                { return t.userID }
func (t *Transaction) PlanID() *string             { return t.planID }
func (t *Transaction) MerchantRequestID() string   { return t.merchantRequestID }
func (t *Transaction) CheckoutRequestID() string   { return t.checkoutRequestID }
func (t *Transaction) PhoneNumber() vo.PhoneNumber { return t.phoneNumber }
func (t *Transaction) Amount() int64               { return t.amount }
func (t *Transaction) AccountReference() string    { return t.accountReference }
func (t *Transaction) Description() string         { return t.description }
func (t *Transaction) Purpose() string             { return t.purpose }
func (t *Transaction) Status() vo.PaymentStatus    { return t.status }
func (t *Transaction) ResultCode() *int            { return t.resultCode }
func (t *Transaction) ResultDesc() string          { return t.resultDesc }
func (t *Transaction) ReceiptNumber() string       { return t.receiptNumber }
func (t *Transaction) TransactionDate() *time.Time { return t.transactionDate }
func (t *Transaction) CreatedAt() time.Time        { return t.createdAt }
func (t *Transaction) UpdatedAt() time.Time        { return t.updatedAt }

// IsFinal reports whether the transaction reached a terminal status.
func (t *Transaction) IsFinal() bool {
	return t.status.IsFinal()
}

// ApplyResult records a gateway result on a pending transaction. A 1037
// result leaves the transaction pending so a later callback or the
// reconciliation sweep can still resolve it. Applying a result to an
// already-final transaction returns ErrAlreadyFinalized.
func (t *Transaction) ApplyResult(resultCode int, resultDesc, receiptNumber string, transactionDate *time.Time) error {
	if t.IsFinal() {
		return ErrAlreadyFinalized
	}
	t.resultCode = &resultCode
	t.resultDesc = resultDesc
	t.status = vo.StatusFromResultCode(resultCode)
	if t.status == vo.StatusCompleted {
		t.receiptNumber = receiptNumber
		t.transactionDate = transactionDate
	}
	t.updatedAt = time.Now().UTC()
	return nil
}

// MarkFailed finalizes the transaction as failed with a reason. Used by the
// reconciliation sweep when a status query says the push never completed.
func (t *Transaction) MarkFailed(reason string) error {
	if t.IsFinal() {
		return ErrAlreadyFinalized
	}
	t.status = vo.StatusFailed
	t.resultDesc = reason
	t.updatedAt = time.Now().UTC()
	return nil
}

// PendingLongerThan reports whether the transaction has been pending for at
// least d as of now.
func (t *Transaction) PendingLongerThan(d time.Duration, now time.Time) bool {
	return t.status == vo.StatusPending && now.Sub(t.createdAt) >= d
}

// SetID sets the transaction ID after insertion. Persistence layer use only.
func (t *Transaction) SetID(id uint) error {
	if t.id != 0 {
		return fmt.Errorf("transaction ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("transaction ID cannot be zero")
	}
	t.id = id
	return nil
}
