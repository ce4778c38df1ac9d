package models

import (
	"time"

	"gorm.io/datatypes"
)

// PlanModel is the persistence model for subscription plans. Plan IDs are
// human-readable slugs ("free", "premium") referenced directly by clients.
type PlanModel struct {
	ID             string `gorm:"primarykey;size:50"`
	Name           string `gorm:"not null;size:100"`
	Price          int64  `gorm:"not null;comment:price in whole KES"`
	Period         string `gorm:"not null;size:10;default:none"`
	Features       datatypes.JSON
	CreditsGranted int    `gorm:"not null;default:0"`
	// No default tag: gorm skips zero-valued fields that carry one on
	// insert, which would silently store deactivated plans as active.
	Active         bool   `gorm:"not null;index:idx_plan_active"`
	SortOrder      int    `gorm:"not null;default:0"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (PlanModel) TableName() string {
	return "subscription_plans"
}
