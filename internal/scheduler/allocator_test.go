package scheduler

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/training-session-scheduler/internal/model"
)

// fillFixture seeds one SCHEDULED session with the given capacity and
// returns the stores and the session.
func fillFixture(t *testing.T, capacity uint32) (*memSessions, *memAssignments, *model.Session) {
	t.Helper()
	sessions := newMemSessions()
	assignments := newMemAssignments(sessions)
	ses := &model.Session{
		WeekStart: testWeek,
		DayOfWeek: 0,
		StartTime: "18:00",
		EndTime:   "19:00",
		HallID:    1,
		TrainerID: 1,
		Capacity:  capacity,
	}
	require.NoError(t, sessions.Create(context.Background(), ses))
	return sessions, assignments, ses
}

func candidates(tier string, ids ...uint64) []Candidate {
	out := make([]Candidate, 0, len(ids))
	for _, id := range ids {
		out = append(out, Candidate{MemberID: id, Tier: tier})
	}
	return out
}

func TestFillPlacesPreferredBeforeAvailable(t *testing.T) {
	_, assignments, ses := fillFixture(t, 2)
	b := &Bucket{Slot: Slot{Day: 0, Start: "18:00", End: "19:00"}}
	b.Members = append(b.Members, candidates(model.TierAvailable, 30, 31)...)
	b.Members = append(b.Members, candidates(model.TierPreferred, 10, 11)...)

	alloc := &Allocator{Rand: stubRand{}, Log: zerolog.Nop()}
	assigned, unplaced, err := alloc.Fill(context.Background(), assignments, ses, b, NewLedger())
	require.NoError(t, err)

	// Both seats go to the Preferred tier despite its later position.
	require.ElementsMatch(t, []uint64{10, 11}, assigned)
	require.ElementsMatch(t, []uint64{30, 31}, unplaced)
	require.Equal(t, []uint64{10, 11}, assignments.activeMembers(ses.ID))
}

func TestFillSkipsMembersClaimedElsewhere(t *testing.T) {
	_, assignments, ses := fillFixture(t, 5)
	b := &Bucket{Slot: Slot{Day: 0, Start: "18:00", End: "19:00"}}
	b.Members = candidates(model.TierPreferred, 10, 11)

	led := NewLedger()
	led.ClaimMember(b.Slot, 10) // already booked in another session at this slot

	alloc := &Allocator{Rand: stubRand{}, Log: zerolog.Nop()}
	assigned, unplaced, err := alloc.Fill(context.Background(), assignments, ses, b, led)
	require.NoError(t, err)
	require.Equal(t, []uint64{11}, assigned)
	require.Equal(t, []uint64{10}, unplaced)
}

func TestFillTreatsConflictAsSatisfied(t *testing.T) {
	_, assignments, ses := fillFixture(t, 3)
	// Member 10 already holds an assignment in this very session.
	require.NoError(t, assignments.Assign(context.Background(), ses.ID, 10))

	b := &Bucket{Slot: Slot{Day: 0, Start: "18:00", End: "19:00"}}
	b.Members = candidates(model.TierPreferred, 10, 11)

	alloc := &Allocator{Rand: stubRand{}, Log: zerolog.Nop()}
	assigned, unplaced, err := alloc.Fill(context.Background(), assignments, ses, b, NewLedger())
	require.NoError(t, err)
	require.Equal(t, []uint64{11}, assigned)
	require.Empty(t, unplaced)
	// The conflicted member now holds a ledger claim either way.
	require.Equal(t, []uint64{10, 11}, assignments.activeMembers(ses.ID))
}

func TestFillStopsOnConcurrentCapacityExhaustion(t *testing.T) {
	sessions, assignments, ses := fillFixture(t, 5)
	// The store sees a full session even though the local capacity says 5.
	full := sessions.items[ses.ID]
	full.Capacity = 0

	b := &Bucket{Slot: Slot{Day: 0, Start: "18:00", End: "19:00"}}
	b.Members = candidates(model.TierPreferred, 10, 11)

	alloc := &Allocator{Rand: stubRand{}, Log: zerolog.Nop()}
	assigned, unplaced, err := alloc.Fill(context.Background(), assignments, ses, b, NewLedger())
	require.NoError(t, err)
	require.Empty(t, assigned)
	require.ElementsMatch(t, []uint64{10, 11}, unplaced)
}

func TestFillAbortsOnStoreFailure(t *testing.T) {
	_, assignments, ses := fillFixture(t, 5)
	boom := errors.New("connection lost")
	assignments.assignErr = boom

	b := &Bucket{Slot: Slot{Day: 0, Start: "18:00", End: "19:00"}}
	b.Members = candidates(model.TierPreferred, 10)

	alloc := &Allocator{Rand: stubRand{}, Log: zerolog.Nop()}
	_, _, err := alloc.Fill(context.Background(), assignments, ses, b, NewLedger())
	require.ErrorIs(t, err, boom)
}
