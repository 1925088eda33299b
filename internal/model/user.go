package model

import "time"

// User represents an account profile.
type User struct {
	ID          int64  `gorm:"primaryKey"`
	Handle      string `gorm:"uniqueIndex;size:64;not null"`
	DisplayName string `gorm:"size:128"`
	AvatarURL   string `gorm:"size:512"`
	Timezone    string `gorm:"size:64"` // IANA identifier; empty means UTC
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
