package models

import "time"

// PaymentTransactionModel is the billing-side audit row for applied payments.
type PaymentTransactionModel struct {
	ID             uint   `gorm:"primarykey"`
	UserID         uint   `gorm:"not null;index:idx_payment_user"`
	SubscriptionID *uint
	TransactionID  string `gorm:"not null;size:100;index:idx_payment_transaction"`
	ReceiptNumber  string `gorm:"size:50"`
	PhoneNumber    string `gorm:"size:15"`
	Amount         int64  `gorm:"not null"`
	Purpose        string `gorm:"not null;size:30"`
	CreatedAt      time.Time
}

func (PaymentTransactionModel) TableName() string {
	return "payment_transactions"
}
