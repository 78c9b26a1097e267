package models

import (
	"time"

	"gorm.io/datatypes"
)

// CheckinRecord is one credited check-in. Rows are append-only and
// (clerk_user_id, checkin_date) is unique.
type CheckinRecord struct {
	ID          int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	ClerkUserID string         `gorm:"column:clerk_user_id;type:text;not null;uniqueIndex:idx_app_checkins_user_date,priority:1" json:"clerk_user_id"`
	CheckinDate datatypes.Date `gorm:"not null;uniqueIndex:idx_app_checkins_user_date,priority:2" json:"checkin_date"`
	CreatedAt   time.Time      `gorm:"type:timestamptz;not null;default:now()" json:"created_at"`
	User        User           `gorm:"foreignKey:ClerkUserID;references:ClerkUserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (CheckinRecord) TableName() string {
	return "app_checkins"
}

// LedgerSnapshot is a user's ledger state as seen for one calendar day.
type LedgerSnapshot struct {
	CheckedInToday bool
	TotalDays      int64
	Points         int64
}

// CheckinResult is the outcome of one check-in attempt.
type CheckinResult struct {
	Inserted bool
	LedgerSnapshot
}
