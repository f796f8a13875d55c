package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNormalizeWeekStart(t *testing.T) {
	monday := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		in   time.Time
	}{
		{"monday itself", monday},
		{"monday afternoon", time.Date(2026, 1, 5, 16, 30, 0, 0, time.UTC)},
		{"midweek", time.Date(2026, 1, 7, 9, 0, 0, 0, time.UTC)},
		{"sunday", time.Date(2026, 1, 11, 23, 59, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, monday, NormalizeWeekStart(tc.in))
		})
	}
}

func TestNormalizeWeekStartConvertsToUTC(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	// 01:00 Monday in UTC+3 is still Sunday in UTC.
	in := time.Date(2026, 1, 5, 1, 0, 0, 0, loc)
	require.Equal(t, time.Date(2025, 12, 29, 0, 0, 0, 0, time.UTC), NormalizeWeekStart(in))
}

func TestNextWeekStart(t *testing.T) {
	in := time.Date(2026, 1, 7, 9, 0, 0, 0, time.UTC)
	require.Equal(t, time.Date(2026, 1, 12, 0, 0, 0, 0, time.UTC), NextWeekStart(in))
}
