package model

import "time"

// Room represents a daily accountability room users check into.
type Room struct {
	ID          int64  `gorm:"primaryKey"`
	Name        string `gorm:"size:128;not null"`
	Emoji       string `gorm:"size:16"`
	Description string `gorm:"size:512"`
	InviteCode  string `gorm:"uniqueIndex;size:64;not null"`
	AdminID     int64  `gorm:"index;not null"`
	// Daily opening/closing wall-clock times as "HH:MM" or "HH:MM:SS".
	// A nil TimeStart means the room has no schedule yet and is never
	// eligible for reminders.
	TimeStart *string `gorm:"size:8"`
	TimeEnd   *string `gorm:"size:8"`
	CreatedAt time.Time
	UpdatedAt time.Time

	// Associations
	Members []RoomMember `gorm:"foreignKey:RoomID"`
}

// RoomMember links a user to a room.
type RoomMember struct {
	RoomID   int64  `gorm:"primaryKey;autoIncrement:false"`
	UserID   int64  `gorm:"primaryKey;autoIncrement:false"`
	Role     string `gorm:"size:16;not null"` // "admin" or "member"
	JoinedAt time.Time
}
