package scheduler

import (
	"context"
	"time"

	"github.com/iliyamo/training-session-scheduler/internal/model"
	"github.com/iliyamo/training-session-scheduler/internal/repository"
)

// Slot identifies a weekly time slot: a day of week (0=Monday) and a
// start/end time in "HH:MM".  Slots compare by value, so they serve as map
// keys in the ledger and the bucket index.
type Slot struct {
	Day   uint8
	Start string
	End   string
}

// before orders slots by day then start then end time.  "HH:MM" strings
// order correctly under lexicographic comparison.
func (s Slot) before(o Slot) bool {
	if s.Day != o.Day {
		return s.Day < o.Day
	}
	if s.Start != o.Start {
		return s.Start < o.Start
	}
	return s.End < o.End
}

// Candidate is one member's claim on a bucket: the member, their desire
// tier and the trainer they asked for, if any.
type Candidate struct {
	MemberID           uint64
	Tier               string
	PreferredTrainerID *uint64
}

// Bucket is the aggregated demand for one slot: the distinct members who
// want it (Preferred or Available) and a tally of how often each trainer
// was requested.
type Bucket struct {
	Slot         Slot
	Members      []Candidate
	TrainerTally map[uint64]int
}

// PreferenceSource supplies the member preferences of a target week.
type PreferenceSource interface {
	ListByWeek(ctx context.Context, weekStart time.Time) ([]model.Preference, error)
}

// HallCatalog supplies the active halls, ordered by capacity then id.
type HallCatalog interface {
	ListActive(ctx context.Context) ([]model.Hall, error)
}

// TrainerCatalog supplies the active trainers, ordered by id.
type TrainerCatalog interface {
	ListActive(ctx context.Context) ([]model.Trainer, error)
}

// SessionStore persists generated sessions and answers which resources are
// already claimed for the week.
type SessionStore interface {
	SlotClaims(ctx context.Context, weekStart time.Time) ([]repository.SlotClaim, error)
	ListActive(ctx context.Context, weekStart time.Time) ([]model.Session, error)
	Create(ctx context.Context, s *model.Session) error
	CancelScheduled(ctx context.Context, weekStart time.Time) (int64, error)
}

// AssignmentStore persists member assignments under the capacity and
// uniqueness invariants enforced by the repository layer.
type AssignmentStore interface {
	Assign(ctx context.Context, sessionID, memberID uint64) error
	ActiveCount(ctx context.Context, sessionID uint64) (int, error)
	ActiveMemberSlots(ctx context.Context, weekStart time.Time) ([]repository.MemberSlot, error)
}
