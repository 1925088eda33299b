package reminder

import "sync"

// dayLayout is the calendar-date frame firings are deduplicated in.
const dayLayout = "2006-01-02"

// FiringKey identifies one day's instance of a reminder becoming due.
type FiringKey struct {
	UserID        int64
	RoomID        int64
	MinutesBefore int
	Day           string // server-local date, dayLayout
}

// Ledger tracks which firings already happened today. It is the only shared
// mutable state in the engine and is safe for concurrent use. Not persisted:
// a restart inside a firing's one-minute window may re-deliver that one
// reminder.
type Ledger struct {
	mu    sync.Mutex
	fired map[FiringKey]struct{}
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{fired: make(map[FiringKey]struct{})}
}

// AlreadyFired reports whether the key was marked since the last reset.
func (l *Ledger) AlreadyFired(key FiringKey) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.fired[key]
	return ok
}

// MarkFired records the key. Called after every delivery attempt, successful
// or not, so a failing reminder cannot retry every minute of its window.
func (l *Ledger) MarkFired(key FiringKey) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.fired[key] = struct{}{}
}

// Reset atomically replaces the set with an empty one. Runs once per
// server-local midnight.
func (l *Ledger) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.fired = make(map[FiringKey]struct{})
}
