package model

import "time"

// Check-in review states.
const (
	CheckInPending  = "pending"
	CheckInApproved = "approved"
	CheckInRejected = "rejected"
)

// CheckIn is a member's submitted proof of attendance for one room-day.
type CheckIn struct {
	ID     int64  `gorm:"primaryKey"`
	RoomID int64  `gorm:"not null;uniqueIndex:idx_checkin_room_user_date"`
	UserID int64  `gorm:"not null;uniqueIndex:idx_checkin_room_user_date"`
	Date   string `gorm:"size:10;not null;uniqueIndex:idx_checkin_room_user_date"` // "2006-01-02"

	ProofURL string `gorm:"size:512;not null"`
	Note     string `gorm:"size:512"`
	Status   string `gorm:"size:16;not null"`

	ReviewedBy *int64
	ReviewedAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
