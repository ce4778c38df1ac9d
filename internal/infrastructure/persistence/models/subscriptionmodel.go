package models

import "time"

// SubscriptionModel is the persistence model for user subscriptions. A NULL
// end date means the subscription never expires by date.
type SubscriptionModel struct {
	ID               uint   `gorm:"primarykey"`
	UserID           uint   `gorm:"not null;index:idx_user_status,priority:1"`
	PlanID           string `gorm:"not null;size:50;index"`
	TransactionID    *string `gorm:"size:100"`
	StartDate        time.Time `gorm:"not null"`
	EndDate          *time.Time `gorm:"index:idx_end_date"`
	Status           string `gorm:"not null;size:20;index:idx_user_status,priority:2"`
	CreditsRemaining int    `gorm:"not null;default:0"`
	AutoRenew        bool   `gorm:"not null;default:false"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (SubscriptionModel) TableName() string {
	return "user_subscriptions"
}
