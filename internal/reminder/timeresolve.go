package reminder

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TimeOfDay is a wall-clock time with no date attached.
type TimeOfDay struct {
	Hour   int
	Minute int
	Second int
}

// ParseTimeOfDay parses "HH:MM" or "HH:MM:SS".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return TimeOfDay{}, fmt.Errorf("invalid time of day %q", s)
	}

	nums := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return TimeOfDay{}, fmt.Errorf("invalid time of day %q: %w", s, err)
		}
		nums[i] = n
	}

	tod := TimeOfDay{Hour: nums[0], Minute: nums[1]}
	if len(nums) == 3 {
		tod.Second = nums[2]
	}
	if tod.Hour < 0 || tod.Hour > 23 || tod.Minute < 0 || tod.Minute > 59 || tod.Second < 0 || tod.Second > 59 {
		return TimeOfDay{}, fmt.Errorf("time of day %q out of range", s)
	}
	return tod, nil
}

// Resolve converts a wall-clock time of day in the given IANA zone into an
// absolute instant on "today", where today is the zone's civil date at ref.
// The zone database supplies the UTC offset for that specific date, so days
// around a DST transition resolve correctly.
//
// An empty zone means UTC. An unrecognized zone falls back to the server's
// local zone; the second return reports that substitution so the caller can
// surface it. Pure function of its inputs.
func Resolve(tod TimeOfDay, tz string, ref time.Time) (time.Time, bool) {
	var loc *time.Location
	fellBack := false

	if tz == "" {
		loc = time.UTC
	} else if l, err := time.LoadLocation(tz); err == nil {
		loc = l
	} else {
		loc = time.Local
		fellBack = true
	}

	y, m, d := ref.In(loc).Date()
	return time.Date(y, m, d, tod.Hour, tod.Minute, tod.Second, 0, loc), fellBack
}
