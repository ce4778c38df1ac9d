package models

import "time"

// CreditHistoryModel is the persistence model for the append-only credit
// ledger. The composite unique index over (user_id, listing_id, action) makes
// credit consumption at-most-once per listing; MySQL and SQLite both permit
// repeated NULL listing_ids, so grant rows are unaffected.
type CreditHistoryModel struct {
	ID             uint   `gorm:"primarykey"`
	UserID         uint   `gorm:"not null;uniqueIndex:uq_credit_consumption,priority:1;index:idx_credit_user"`
	SubscriptionID uint   `gorm:"not null;index:idx_credit_subscription"`
	ListingID      *uint  `gorm:"uniqueIndex:uq_credit_consumption,priority:2"`
	CreditsAdded   int    `gorm:"not null;default:0"`
	CreditsUsed    int    `gorm:"not null;default:0"`
	Action         string `gorm:"not null;size:30;uniqueIndex:uq_credit_consumption,priority:3"`
	Description    string `gorm:"size:255"`
	TransactionID  *string `gorm:"size:100"`
	CreatedAt      time.Time
}

func (CreditHistoryModel) TableName() string {
	return "credit_history"
}
