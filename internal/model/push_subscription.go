package model

import "time"

// PushSubscription holds one browser/device push registration for a user.
// Active is flipped off when the push service reports the endpoint gone;
// it only comes back via a fresh PUT from the client.
type PushSubscription struct {
	ID        int64  `gorm:"primaryKey"`
	UserID    int64  `gorm:"index;not null"`
	Endpoint  string `gorm:"uniqueIndex;size:512;not null"`
	P256DH    string `gorm:"column:p256dh;not null"`
	Auth      string `gorm:"not null"`
	Active    bool   `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
