package model

import "time"

// NotificationTypeRoomOpening tags in-app records mirroring a room-opening push.
const NotificationTypeRoomOpening = "room_opening"

// Notification is the in-app history record written after a push was
// delivered to at least one endpoint. Never mutated after creation.
type Notification struct {
	ID        int64  `gorm:"primaryKey"`
	UserID    int64  `gorm:"index;not null"`
	RoomID    int64  `gorm:"index"`
	Type      string `gorm:"size:32;not null"`
	Title     string `gorm:"size:256;not null"`
	Body      string `gorm:"size:512"`
	CreatedAt time.Time
}
