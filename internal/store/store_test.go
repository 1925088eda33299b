package store

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"habitroom-backend/internal/db"
	"habitroom-backend/internal/model"
)

// newTestStore opens a fresh in-memory SQLite database with migrations run.
func newTestStore(t *testing.T) Store {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	gormDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gormDB))
	return NewGormStore(gormDB)
}

func seedRoom(t *testing.T, s Store, id int64, timeStart *string) {
	room := model.Room{
		ID:         id,
		Name:       fmt.Sprintf("Room %d", id),
		Emoji:      "🔥",
		AdminID:    1,
		InviteCode: fmt.Sprintf("invite-%d", id),
		TimeStart:  timeStart,
	}
	require.NoError(t, s.DB().Create(&room).Error)
}

func TestListEnabledReminders(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	opens := "09:00"
	seedRoom(t, s, 1, &opens)
	seedRoom(t, s, 2, nil)

	reminders := []model.Reminder{
		{UserID: 10, RoomID: 1, MinutesBefore: 15, Enabled: true, Timezone: "Europe/Berlin"},
		{UserID: 10, RoomID: 1, MinutesBefore: 30, Enabled: false},
		{UserID: 11, RoomID: 2, MinutesBefore: 5, Enabled: true},
	}
	require.NoError(t, s.DB().Create(&reminders).Error)

	entries, err := s.ListEnabledReminders(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2, "disabled reminders must be filtered out")

	byUser := make(map[int64]ReminderEntry, len(entries))
	for _, e := range entries {
		byUser[e.UserID] = e
	}

	scheduled := byUser[10]
	assert.Equal(t, int64(1), scheduled.RoomID)
	assert.Equal(t, 15, scheduled.MinutesBefore)
	assert.Equal(t, "Europe/Berlin", scheduled.Timezone)
	assert.Equal(t, "Room 1", scheduled.RoomName)
	require.NotNil(t, scheduled.TimeStart)
	assert.Equal(t, "09:00", *scheduled.TimeStart)

	// Rooms without a schedule still come back; the matcher skips them.
	unscheduled := byUser[11]
	assert.Nil(t, unscheduled.TimeStart)
}

func TestActiveEndpointLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	subs := []model.PushSubscription{
		{UserID: 10, Endpoint: "https://push.example/a", P256DH: "k", Auth: "a", Active: true},
		{UserID: 10, Endpoint: "https://push.example/b", P256DH: "k", Auth: "a", Active: true},
		{UserID: 11, Endpoint: "https://push.example/c", P256DH: "k", Auth: "a", Active: true},
	}
	require.NoError(t, s.DB().Create(&subs).Error)

	active, err := s.ListActiveEndpoints(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, active, 2, "another user's endpoints must not leak in")

	require.NoError(t, s.DeactivateEndpoint(ctx, subs[0].ID))

	active, err = s.ListActiveEndpoints(ctx, 10)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "https://push.example/b", active[0].Endpoint)
}

func TestInsertNotification(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	rec := &model.Notification{
		UserID: 10,
		RoomID: 1,
		Type:   model.NotificationTypeRoomOpening,
		Title:  "🔥 Room 1",
		Body:   "Room 1 opens in 15 minutes",
	}
	require.NoError(t, s.InsertNotification(ctx, rec))
	assert.NotZero(t, rec.ID)

	var stored model.Notification
	require.NoError(t, s.DB().First(&stored, rec.ID).Error)
	assert.Equal(t, model.NotificationTypeRoomOpening, stored.Type)
	assert.Equal(t, int64(10), stored.UserID)
}
