package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"habitroom-backend/internal/model"
)

// Store is the durable-store interface the reminder engine consumes.
// Handlers that need richer queries go through DB() directly.
type Store interface {
	DB() *gorm.DB
	ListEnabledReminders(ctx context.Context) ([]ReminderEntry, error)
	ListActiveEndpoints(ctx context.Context, userID int64) ([]model.PushSubscription, error)
	DeactivateEndpoint(ctx context.Context, id int64) error
	InsertNotification(ctx context.Context, n *model.Notification) error
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

// DB exposes the underlying gorm handle for the thin CRUD handlers.
func (s *gormStore) DB() *gorm.DB {
	return s.db
}

// ListEnabledReminders returns every enabled reminder joined with its room.
// Rooms without an opening time are included; the matcher skips them.
func (s *gormStore) ListEnabledReminders(ctx context.Context) ([]ReminderEntry, error) {
	var entries []ReminderEntry
	err := s.db.WithContext(ctx).
		Model(&model.Reminder{}).
		Select("reminders.id AS reminder_id, reminders.user_id, reminders.room_id, " +
			"reminders.minutes_before, reminders.timezone, " +
			"rooms.name AS room_name, rooms.emoji AS room_emoji, rooms.time_start").
		Joins("JOIN rooms ON rooms.id = reminders.room_id").
		Where("reminders.enabled = ?", true).
		Scan(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list enabled reminders: %w", err)
	}
	return entries, nil
}

// ListActiveEndpoints returns the active push subscriptions for a user.
func (s *gormStore) ListActiveEndpoints(ctx context.Context, userID int64) ([]model.PushSubscription, error) {
	var subs []model.PushSubscription
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND active = ?", userID, true).
		Find(&subs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list active endpoints for user %d: %w", userID, err)
	}
	return subs, nil
}

// DeactivateEndpoint marks a push subscription inactive. One-way: the flag
// only comes back through a fresh subscription from the client.
func (s *gormStore) DeactivateEndpoint(ctx context.Context, id int64) error {
	err := s.db.WithContext(ctx).
		Model(&model.PushSubscription{}).
		Where("id = ?", id).
		Update("active", false).Error
	if err != nil {
		return fmt.Errorf("failed to deactivate endpoint %d: %w", id, err)
	}
	return nil
}

// InsertNotification writes one in-app notification record.
func (s *gormStore) InsertNotification(ctx context.Context, n *model.Notification) error {
	if err := s.db.WithContext(ctx).Create(n).Error; err != nil {
		return fmt.Errorf("failed to insert notification for user %d: %w", n.UserID, err)
	}
	return nil
}
