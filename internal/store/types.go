package store

// ReminderEntry is one enabled reminder joined with its room's schedule,
// flattened to exactly what the scheduler needs per tick.
type ReminderEntry struct {
	ReminderID    int64
	UserID        int64
	RoomID        int64
	MinutesBefore int
	Timezone      string  // IANA identifier from the reminder; empty means UTC
	RoomName      string
	RoomEmoji     string
	TimeStart     *string // "HH:MM[:SS]"; nil when the room has no schedule
}

// LeaderboardRow is one member's approved check-in count for a room.
type LeaderboardRow struct {
	UserID        int64 `json:"user_id"`
	ApprovedCount int64 `json:"approved_count"`
}
