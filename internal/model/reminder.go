package model

import "time"

// Reminder is a user's request to be notified some minutes before a room opens.
// The composite unique index keeps at most one config per (user, room, offset);
// the scheduler only has to deduplicate firings, never configs.
type Reminder struct {
	ID            int64  `gorm:"primaryKey"`
	UserID        int64  `gorm:"not null;uniqueIndex:idx_reminder_user_room_offset"`
	RoomID        int64  `gorm:"not null;uniqueIndex:idx_reminder_user_room_offset"`
	MinutesBefore int    `gorm:"not null;uniqueIndex:idx_reminder_user_room_offset"`
	Enabled       bool   `gorm:"not null"`
	Timezone      string `gorm:"size:64"` // IANA identifier; empty means UTC
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
