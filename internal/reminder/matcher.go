package reminder

import (
	"time"

	"habitroom-backend/internal/store"
)

// fireWindow is the half-open interval after the target instant within which
// a tick claims a firing. With one tick per minute and no skipped ticks,
// [0, fireWindow) puts every target in exactly one tick.
const fireWindow = time.Minute

// DueFiring is one reminder that must be delivered on the current tick.
type DueFiring struct {
	Entry   store.ReminderEntry
	OpensAt time.Time
	// TimezoneFallback reports that the reminder's zone was unrecognized and
	// the opening time was interpreted in the server's local zone instead.
	TimezoneFallback bool
}

// FindDue filters the joined reminder set down to the firings due at now.
// Rooms without an opening time and unparseable opening times are skipped;
// neither is an error. Pure computation, result ordering unspecified.
func FindDue(entries []store.ReminderEntry, now time.Time) []DueFiring {
	var due []DueFiring
	for _, e := range entries {
		if e.TimeStart == nil || *e.TimeStart == "" {
			continue
		}
		tod, err := ParseTimeOfDay(*e.TimeStart)
		if err != nil {
			continue
		}

		opensAt, fellBack := Resolve(tod, e.Timezone, now)
		target := opensAt.Add(-time.Duration(e.MinutesBefore) * time.Minute)

		since := now.Sub(target)
		if since >= 0 && since < fireWindow {
			due = append(due, DueFiring{Entry: e, OpensAt: opensAt, TimezoneFallback: fellBack})
		}
	}
	return due
}
