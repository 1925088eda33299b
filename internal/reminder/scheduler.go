package reminder

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"habitroom-backend/internal/model"
	"habitroom-backend/internal/notification"
	"habitroom-backend/internal/store"
)

// Dispatcher is the slice of the push layer the scheduler needs.
type Dispatcher interface {
	SendToUser(ctx context.Context, userID int64, payload notification.Payload) (sent, failed int)
}

// Scheduler drives the once-per-minute reminder loop. It owns the dedup
// ledger; the store and dispatcher are injected.
type Scheduler struct {
	store      store.Store
	dispatcher Dispatcher
	ledger     *Ledger
	log        *zap.Logger
	interval   time.Duration
	batchSize  int
}

// NewScheduler creates a scheduler with a fresh ledger.
func NewScheduler(s store.Store, d Dispatcher, log *zap.Logger, interval time.Duration, batchSize int) *Scheduler {
	if interval <= 0 {
		interval = time.Minute
	}
	if batchSize <= 0 {
		batchSize = 20
	}
	return &Scheduler{
		store:      s,
		dispatcher: d,
		ledger:     NewLedger(),
		log:        log,
		interval:   interval,
		batchSize:  batchSize,
	}
}

// Run ticks until ctx is canceled. The daily ledger reset runs on its own
// timer and may race an in-flight tick; at worst one firing is attempted
// twice, never lost.
func (s *Scheduler) Run(ctx context.Context) {
	s.log.Info("reminder scheduler starting", zap.Duration("interval", s.interval))

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	reset := time.NewTimer(untilNextMidnight(time.Now()))
	defer reset.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("reminder scheduler stopping")
			return
		case now := <-ticker.C:
			s.tick(ctx, now)
		case <-reset.C:
			s.ledger.Reset()
			reset.Reset(untilNextMidnight(time.Now()))
			s.log.Info("dedup ledger reset for new day")
		}
	}
}

// untilNextMidnight returns the duration to the next server-local midnight.
func untilNextMidnight(now time.Time) time.Duration {
	y, m, d := now.Date()
	next := time.Date(y, m, d, 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
	return next.Sub(now)
}

// tick performs one scheduling cycle: fetch, match, dedup, dispatch, record.
// Nothing in here is fatal; a failed read abandons the cycle and the next
// tick retries independently. Due firings are processed concurrently in
// fixed-size batches.
func (s *Scheduler) tick(ctx context.Context, now time.Time) {
	entries, err := s.store.ListEnabledReminders(ctx)
	if err != nil {
		s.log.Error("reminder fetch failed, abandoning tick", zap.Error(err))
		return
	}

	due := FindDue(entries, now)
	if len(due) == 0 {
		return
	}

	day := now.Format(dayLayout)
	for i := 0; i < len(due); i += s.batchSize {
		end := i + s.batchSize
		if end > len(due) {
			end = len(due)
		}

		var wg sync.WaitGroup
		for _, f := range due[i:end] {
			wg.Add(1)
			go func(f DueFiring) {
				defer wg.Done()
				s.fire(ctx, f, day)
			}(f)
		}
		wg.Wait()
	}
}

// fire processes a single due firing. Errors are logged, never propagated,
// so one bad firing cannot starve its siblings in the same tick.
func (s *Scheduler) fire(ctx context.Context, f DueFiring, day string) {
	key := FiringKey{
		UserID:        f.Entry.UserID,
		RoomID:        f.Entry.RoomID,
		MinutesBefore: f.Entry.MinutesBefore,
		Day:           day,
	}
	if s.ledger.AlreadyFired(key) {
		return
	}

	if f.TimezoneFallback {
		s.log.Warn("unknown reminder time zone, interpreted room time as server-local",
			zap.String("timezone", f.Entry.Timezone),
			zap.Int64("user_id", f.Entry.UserID),
			zap.Int64("room_id", f.Entry.RoomID))
	}

	payload := notification.RoomOpeningPayload(f.Entry.RoomID, f.Entry.RoomName, f.Entry.RoomEmoji, f.Entry.MinutesBefore)
	sent, failed := s.dispatcher.SendToUser(ctx, f.Entry.UserID, payload)

	// Marked even when every endpoint failed: one attempt per day, so a
	// broken endpoint set cannot turn the due window into a retry storm.
	s.ledger.MarkFired(key)

	if sent > 0 {
		rec := &model.Notification{
			UserID: f.Entry.UserID,
			RoomID: f.Entry.RoomID,
			Type:   model.NotificationTypeRoomOpening,
			Title:  payload.Title,
			Body:   payload.Body,
		}
		if err := s.store.InsertNotification(ctx, rec); err != nil {
			s.log.Error("notification record write failed", zap.Error(err),
				zap.Int64("user_id", f.Entry.UserID),
				zap.Int64("room_id", f.Entry.RoomID))
		}
	}

	s.log.Debug("reminder fired",
		zap.Int64("user_id", f.Entry.UserID),
		zap.Int64("room_id", f.Entry.RoomID),
		zap.Int("minutes_before", f.Entry.MinutesBefore),
		zap.Int("sent", sent),
		zap.Int("failed", failed))
}
