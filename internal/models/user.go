package models

import (
	"time"
)

// User mirrors one verified identity from the identity provider.
// Points only ever grow, and only as a side effect of a new CheckinRecord.
type User struct {
	ClerkUserID string    `gorm:"column:clerk_user_id;primaryKey;type:text" json:"clerk_user_id"`
	Email       *string   `gorm:"type:text" json:"email"`
	FullName    *string   `gorm:"type:text" json:"full_name"`
	AvatarURL   *string   `gorm:"type:text" json:"avatar_url"`
	Points      int       `gorm:"not null;default:0;check:chk_app_users_points_non_negative,points >= 0" json:"points"`
	CreatedAt   time.Time `gorm:"type:timestamptz;not null;default:now()" json:"created_at"`
	LastSeenAt  time.Time `gorm:"type:timestamptz;not null;default:now()" json:"last_seen_at"`
}

func (User) TableName() string {
	return "app_users"
}

// Profile is the advisory profile data fetched from the identity provider.
type Profile struct {
	Email     *string
	FullName  *string
	AvatarURL *string
}
