package scheduler

import "github.com/iliyamo/training-session-scheduler/internal/repository"

// resourceKey identifies one hall or trainer claim at one slot.
type resourceKey struct {
	slot Slot
	id   uint64
}

// memberKey identifies one member claim at one slot.
type memberKey struct {
	slot   Slot
	member uint64
}

// Ledger is the transient reservation record threaded through a scheduling
// pass.  It tracks which halls and trainers are claimed per slot and which
// members already hold an assignment per slot, covering both resources
// committed in earlier runs (seeded from the store) and resources claimed
// earlier in the current run.  It is a plain value with no locking: the
// initial pass is strictly sequential per week, and the explicit-value
// contract leaves room for a lock-based variant later.
type Ledger struct {
	halls    map[resourceKey]struct{}
	trainers map[resourceKey]struct{}
	members  map[memberKey]struct{}
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{
		halls:    make(map[resourceKey]struct{}),
		trainers: make(map[resourceKey]struct{}),
		members:  make(map[memberKey]struct{}),
	}
}

// SeedClaims records hall and trainer claims from already persisted
// non-cancelled sessions so the current pass cannot double-book them.
func (l *Ledger) SeedClaims(claims []repository.SlotClaim) {
	for _, c := range claims {
		slot := Slot{Day: c.DayOfWeek, Start: c.StartTime, End: c.EndTime}
		l.ClaimHall(slot, c.HallID)
		l.ClaimTrainer(slot, c.TrainerID)
	}
}

// SeedMembers records member-slot claims from already persisted active
// assignments.
func (l *Ledger) SeedMembers(slots []repository.MemberSlot) {
	for _, m := range slots {
		l.ClaimMember(Slot{Day: m.DayOfWeek, Start: m.StartTime, End: m.EndTime}, m.MemberID)
	}
}

// ClaimHall marks a hall as taken for the slot.
func (l *Ledger) ClaimHall(slot Slot, hallID uint64) {
	l.halls[resourceKey{slot: slot, id: hallID}] = struct{}{}
}

// HallFree reports whether the hall is unclaimed for the slot.
func (l *Ledger) HallFree(slot Slot, hallID uint64) bool {
	_, taken := l.halls[resourceKey{slot: slot, id: hallID}]
	return !taken
}

// ClaimTrainer marks a trainer as taken for the slot.
func (l *Ledger) ClaimTrainer(slot Slot, trainerID uint64) {
	l.trainers[resourceKey{slot: slot, id: trainerID}] = struct{}{}
}

// TrainerFree reports whether the trainer is unclaimed for the slot.
func (l *Ledger) TrainerFree(slot Slot, trainerID uint64) bool {
	_, taken := l.trainers[resourceKey{slot: slot, id: trainerID}]
	return !taken
}

// ClaimMember marks a member as booked for the slot.
func (l *Ledger) ClaimMember(slot Slot, memberID uint64) {
	l.members[memberKey{slot: slot, member: memberID}] = struct{}{}
}

// MemberFree reports whether the member holds no assignment at the slot.
func (l *Ledger) MemberFree(slot Slot, memberID uint64) bool {
	_, taken := l.members[memberKey{slot: slot, member: memberID}]
	return !taken
}
