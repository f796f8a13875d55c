package scheduler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iliyamo/training-session-scheduler/internal/model"
)

// adjustFixture builds a week with one scheduled session (capacity 5) that
// already holds members 10, 11 and 12, plus preferences from everyone who
// wanted the slot.
func adjustFixture(t *testing.T) (*Orchestrator, *memSessions, *memAssignments, uint64) {
	t.Helper()
	prefs := []model.Preference{
		pref(1, 10, 0, "18:00", "19:00", model.TierPreferred, nil),
		pref(2, 11, 0, "18:00", "19:00", model.TierPreferred, nil),
		pref(3, 12, 0, "18:00", "19:00", model.TierAvailable, nil),
		// Leftover demand: two members who joined after the initial pass.
		pref(4, 13, 0, "18:00", "19:00", model.TierPreferred, nil),
		pref(5, 14, 0, "18:00", "19:00", model.TierAvailable, nil),
	}
	halls := []model.Hall{{ID: 1, Capacity: 5, IsActive: true}}
	trainers := []model.Trainer{{ID: 1, IsActive: true}}

	o, sessions, assignments := newTestOrchestrator(prefs, halls, trainers, 3, 3, stubRand{})

	ses := &model.Session{
		WeekStart: testWeek, DayOfWeek: 0, StartTime: "18:00", EndTime: "19:00",
		HallID: 1, TrainerID: 1, Capacity: 5,
	}
	require.NoError(t, sessions.Create(context.Background(), ses))
	for _, m := range []uint64{10, 11, 12} {
		require.NoError(t, assignments.Assign(context.Background(), ses.ID, m))
	}
	return o, sessions, assignments, ses.ID
}

func TestAdjustBackfillsFreeCapacity(t *testing.T) {
	o, _, assignments, sesID := adjustFixture(t)

	summary, err := o.Adjust(context.Background(), testWeek)
	require.NoError(t, err)

	require.Equal(t, 1, summary.SessionsExamined)
	require.Equal(t, 1, summary.SessionsBackfilled)
	require.Equal(t, 2, summary.AssignmentsAdded)
	require.Equal(t, 0, summary.CandidatesLeft)
	require.ElementsMatch(t, []uint64{10, 11, 12, 13, 14}, assignments.activeMembers(sesID))
}

func TestAdjustIsIdempotent(t *testing.T) {
	o, _, assignments, sesID := adjustFixture(t)

	_, err := o.Adjust(context.Background(), testWeek)
	require.NoError(t, err)
	before := assignments.activeMembers(sesID)

	second, err := o.Adjust(context.Background(), testWeek)
	require.NoError(t, err)
	require.Equal(t, 0, second.SessionsBackfilled)
	require.Equal(t, 0, second.AssignmentsAdded)
	require.Equal(t, before, assignments.activeMembers(sesID))
}

func TestAdjustStopsAtCapacity(t *testing.T) {
	o, sessions, assignments, sesID := adjustFixture(t)
	// Shrink the session so only one seat remains.
	sessions.items[sesID].Capacity = 4

	summary, err := o.Adjust(context.Background(), testWeek)
	require.NoError(t, err)

	require.Equal(t, 1, summary.AssignmentsAdded)
	require.Equal(t, 1, summary.CandidatesLeft)
	require.Len(t, assignments.activeMembers(sesID), 4)
	// The Preferred leftover wins the last seat over the Available one.
	require.Contains(t, assignments.activeMembers(sesID), uint64(13))
}

func TestAdjustSkipsFullSessions(t *testing.T) {
	o, sessions, assignments, sesID := adjustFixture(t)
	sessions.items[sesID].Capacity = 3 // already full

	summary, err := o.Adjust(context.Background(), testWeek)
	require.NoError(t, err)

	require.Equal(t, 1, summary.SessionsExamined)
	require.Equal(t, 0, summary.SessionsBackfilled)
	require.Equal(t, 0, summary.AssignmentsAdded)
	require.Equal(t, 2, summary.CandidatesLeft)
	require.Len(t, assignments.activeMembers(sesID), 3)
}

func TestAdjustNeverReassignsResources(t *testing.T) {
	o, sessions, _, sesID := adjustFixture(t)

	_, err := o.Adjust(context.Background(), testWeek)
	require.NoError(t, err)

	ses := sessions.items[sesID]
	require.Equal(t, uint64(1), ses.HallID)
	require.Equal(t, uint64(1), ses.TrainerID)
	require.Len(t, sessions.items, 1) // no new sessions appear
}

func TestAdjustIgnoresSlotsWithoutSessions(t *testing.T) {
	// Demand exists for a Tuesday slot nobody scheduled; the pass must not
	// create a session for it.
	prefs := []model.Preference{
		pref(1, 10, 1, "07:00", "08:00", model.TierPreferred, nil),
	}
	o, sessions, _ := newTestOrchestrator(prefs, nil, nil, 3, 3, stubRand{})

	summary, err := o.Adjust(context.Background(), testWeek)
	require.NoError(t, err)
	require.Equal(t, 0, summary.SessionsExamined)
	require.Equal(t, 1, summary.CandidatesLeft)
	require.Empty(t, sessions.items)
}

func TestAdjustRespectsMemberSlotClaims(t *testing.T) {
	// Member 13 already holds a seat in another session at the same slot;
	// backfill must not seat them twice.
	o, sessions, assignments, sesID := adjustFixture(t)

	other := &model.Session{
		WeekStart: testWeek, DayOfWeek: 0, StartTime: "18:00", EndTime: "19:00",
		HallID: 2, TrainerID: 2, Capacity: 5,
	}
	require.NoError(t, sessions.Create(context.Background(), other))
	require.NoError(t, assignments.Assign(context.Background(), other.ID, 13))

	summary, err := o.Adjust(context.Background(), testWeek)
	require.NoError(t, err)

	require.NotContains(t, assignments.activeMembers(sesID), uint64(13))
	require.Equal(t, []uint64{13}, assignments.activeMembers(other.ID))
	// 14 still lands in the original session.
	require.Contains(t, assignments.activeMembers(sesID), uint64(14))
	require.Equal(t, 0, summary.CandidatesLeft)
}
