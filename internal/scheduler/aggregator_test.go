package scheduler

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/training-session-scheduler/internal/model"
)

func TestAggregatorGroupsBySlotAndFiltersThinBuckets(t *testing.T) {
	agg := &Aggregator{MinBucketSize: 3, Log: zerolog.Nop()}

	prefs := []model.Preference{
		pref(1, 10, 0, "18:00", "19:00", model.TierPreferred, nil),
		pref(2, 11, 0, "18:00", "19:00", model.TierAvailable, nil),
		pref(3, 12, 0, "18:00", "19:00", model.TierPreferred, nil),
		// Two members only: below the threshold.
		pref(4, 10, 2, "07:00", "08:00", model.TierAvailable, nil),
		pref(5, 13, 2, "07:00", "08:00", model.TierAvailable, nil),
	}

	buckets := agg.Buckets(prefs)
	require.Len(t, buckets, 1)
	require.Equal(t, Slot{Day: 0, Start: "18:00", End: "19:00"}, buckets[0].Slot)
	require.Len(t, buckets[0].Members, 3)
}

func TestAggregatorExcludesNotAvailable(t *testing.T) {
	agg := &Aggregator{MinBucketSize: 2, Log: zerolog.Nop()}

	prefs := []model.Preference{
		pref(1, 10, 1, "18:00", "19:00", model.TierPreferred, nil),
		pref(2, 11, 1, "18:00", "19:00", model.TierNotAvailable, nil),
		pref(3, 12, 1, "18:00", "19:00", model.TierAvailable, nil),
	}

	buckets := agg.Buckets(prefs)
	require.Len(t, buckets, 1)
	require.Len(t, buckets[0].Members, 2)
	for _, c := range buckets[0].Members {
		require.NotEqual(t, model.TierNotAvailable, c.Tier)
	}
}

func TestAggregatorDeduplicatesMemberPerSlot(t *testing.T) {
	agg := &Aggregator{MinBucketSize: 1, Log: zerolog.Nop()}

	prefs := []model.Preference{
		pref(1, 10, 0, "18:00", "19:00", model.TierPreferred, trainerRef(1)),
		pref(2, 10, 0, "18:00", "19:00", model.TierAvailable, trainerRef(1)), // duplicate claim
		pref(3, 11, 0, "18:00", "19:00", model.TierAvailable, nil),
	}

	buckets := agg.Buckets(prefs)
	require.Len(t, buckets, 1)
	require.Len(t, buckets[0].Members, 2)
	// The duplicate's trainer request must not be tallied twice.
	require.Equal(t, 1, buckets[0].TrainerTally[1])
}

func TestAggregatorSkipsMalformedPreferences(t *testing.T) {
	agg := &Aggregator{MinBucketSize: 1, Log: zerolog.Nop()}

	prefs := []model.Preference{
		pref(1, 0, 0, "18:00", "19:00", model.TierPreferred, nil),  // missing member
		pref(2, 10, 7, "18:00", "19:00", model.TierPreferred, nil), // day out of range
		pref(3, 11, 0, "1800", "19:00", model.TierPreferred, nil),  // malformed clock
		pref(4, 12, 0, "19:00", "18:00", model.TierPreferred, nil), // start after end
		pref(5, 13, 0, "18:00", "18:00", model.TierPreferred, nil), // zero-length slot
		pref(6, 14, 0, "18:00", "19:00", "MAYBE", nil),             // unknown tier
		pref(7, 15, 0, "18:00", "19:00", model.TierPreferred, nil), // valid
	}

	buckets := agg.Buckets(prefs)
	require.Len(t, buckets, 1)
	require.Len(t, buckets[0].Members, 1)
	require.Equal(t, uint64(15), buckets[0].Members[0].MemberID)
}

func TestAggregatorOrdersByDemandThenSlot(t *testing.T) {
	agg := &Aggregator{MinBucketSize: 1, Log: zerolog.Nop()}

	prefs := []model.Preference{
		// Wednesday 07:00, two members.
		pref(1, 10, 2, "07:00", "08:00", model.TierAvailable, nil),
		pref(2, 11, 2, "07:00", "08:00", model.TierAvailable, nil),
		// Monday 18:00, three members: highest demand, first.
		pref(3, 10, 0, "18:00", "19:00", model.TierPreferred, nil),
		pref(4, 11, 0, "18:00", "19:00", model.TierPreferred, nil),
		pref(5, 12, 0, "18:00", "19:00", model.TierPreferred, nil),
		// Monday 06:00, two members: ties with Wednesday, earlier slot wins.
		pref(6, 12, 0, "06:00", "07:00", model.TierAvailable, nil),
		pref(7, 13, 0, "06:00", "07:00", model.TierAvailable, nil),
	}

	buckets := agg.Buckets(prefs)
	require.Len(t, buckets, 3)
	require.Equal(t, Slot{Day: 0, Start: "18:00", End: "19:00"}, buckets[0].Slot)
	require.Equal(t, Slot{Day: 0, Start: "06:00", End: "07:00"}, buckets[1].Slot)
	require.Equal(t, Slot{Day: 2, Start: "07:00", End: "08:00"}, buckets[2].Slot)
}

func TestValidClock(t *testing.T) {
	for _, ok := range []string{"00:00", "09:30", "23:59"} {
		require.True(t, validClock(ok), ok)
	}
	for _, bad := range []string{"24:00", "12:60", "9:30", "09-30", "ab:cd", ""} {
		require.False(t, validClock(bad), bad)
	}
}
