package models

import "time"

// MpesaTransactionModel is the persistence model for STK push transactions.
// CheckoutRequestID is the gateway's key for the payment attempt and is the
// primary lookup for callbacks and status queries.
type MpesaTransactionModel struct {
	ID                uint    `gorm:"primarykey"`
	UserID            uint    `gorm:"not null;index:idx_mpesa_user"`
	PlanID            *string `gorm:"size:50"`
	MerchantRequestID string  `gorm:"not null;size:100;index:idx_merchant_request"`
	CheckoutRequestID string  `gorm:"not null;size:100;uniqueIndex:uq_checkout_request"`
	PhoneNumber       string  `gorm:"not null;size:15"`
	Amount            int64   `gorm:"not null"`
	AccountReference  string  `gorm:"size:100"`
	Description       string  `gorm:"size:255"`
	Purpose           string  `gorm:"not null;size:30"`
	Status            string  `gorm:"not null;size:20;index:idx_mpesa_status"`
	ResultCode        *int
	ResultDesc        string `gorm:"size:255"`
	ReceiptNumber     string `gorm:"size:50;index:idx_mpesa_receipt"`
	TransactionDate   *time.Time
	CreatedAt         time.Time `gorm:"index:idx_mpesa_created"`
	UpdatedAt         time.Time
}

func (MpesaTransactionModel) TableName() string {
	return "mpesa_transactions"
}
