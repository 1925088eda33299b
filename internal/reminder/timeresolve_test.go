package reminder

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeOfDay(t *testing.T) {
	testCases := []struct {
		input    string
		expected TimeOfDay
		wantErr  bool
	}{
		{"09:00", TimeOfDay{Hour: 9}, false},
		{"23:59", TimeOfDay{Hour: 23, Minute: 59}, false},
		{"06:30:15", TimeOfDay{Hour: 6, Minute: 30, Second: 15}, false},
		{"00:00", TimeOfDay{}, false},
		{"24:00", TimeOfDay{}, true},
		{"09:60", TimeOfDay{}, true},
		{"9", TimeOfDay{}, true},
		{"", TimeOfDay{}, true},
		{"nine:thirty", TimeOfDay{}, true},
		{"09:00:00:00", TimeOfDay{}, true},
	}

	for _, tc := range testCases {
		tod, err := ParseTimeOfDay(tc.input)
		if tc.wantErr {
			assert.Error(t, err, "input %q", tc.input)
		} else {
			require.NoError(t, err, "input %q", tc.input)
			assert.Equal(t, tc.expected, tod, "input %q", tc.input)
		}
	}
}

func TestResolve_UTC(t *testing.T) {
	ref := time.Date(2026, 5, 12, 12, 0, 0, 0, time.UTC)

	at, fellBack := Resolve(TimeOfDay{Hour: 9}, "", ref)
	assert.False(t, fellBack)
	assert.Equal(t, time.Date(2026, 5, 12, 9, 0, 0, 0, time.UTC), at)
}

func TestResolve_DSTOffsets(t *testing.T) {
	// New York is UTC-5 in January and UTC-4 in July. The offset must come
	// from the zone database for the reference date, never from a cached
	// value computed on another day.
	tod := TimeOfDay{Hour: 9}

	winter, fellBack := Resolve(tod, "America/New_York", time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC))
	require.False(t, fellBack)
	assert.Equal(t, time.Date(2026, 1, 15, 14, 0, 0, 0, time.UTC), winter.UTC())

	summer, fellBack := Resolve(tod, "America/New_York", time.Date(2026, 7, 15, 12, 0, 0, 0, time.UTC))
	require.False(t, fellBack)
	assert.Equal(t, time.Date(2026, 7, 15, 13, 0, 0, 0, time.UTC), summer.UTC())
}

func TestResolve_CivilDateComesFromTargetZone(t *testing.T) {
	// At 20:00 UTC Tokyo is already on the next calendar day; "today" must
	// be picked in the target zone, not the server's.
	ref := time.Date(2026, 3, 10, 20, 0, 0, 0, time.UTC)

	at, fellBack := Resolve(TimeOfDay{Hour: 9}, "Asia/Tokyo", ref)
	require.False(t, fellBack)
	assert.Equal(t, time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC), at.UTC())
}

func TestResolve_UnknownZoneFallsBackToServerLocal(t *testing.T) {
	ref := time.Date(2026, 5, 12, 12, 0, 0, 0, time.UTC)

	at, fellBack := Resolve(TimeOfDay{Hour: 9, Minute: 30}, "Nowhere/Place", ref)
	assert.True(t, fellBack)

	y, m, d := ref.In(time.Local).Date()
	assert.Equal(t, time.Date(y, m, d, 9, 30, 0, 0, time.Local), at)
}

func TestResolve_Idempotent(t *testing.T) {
	ref := time.Date(2026, 11, 1, 12, 0, 0, 0, time.UTC)
	tod := TimeOfDay{Hour: 7, Minute: 45}

	first, _ := Resolve(tod, "Europe/Berlin", ref)
	second, _ := Resolve(tod, "Europe/Berlin", ref)
	assert.True(t, first.Equal(second))
}
