// Package queue defines message payloads exchanged over the message broker.
package queue

// Run kinds carried in ScheduleRunCompletedEvent.Kind.
const (
	RunKindInitial    = "initial"
	RunKindAdjustment = "adjustment"
)

// ScheduleRunCompletedEvent is published after a scheduling pass finishes.
// It carries the headline counters of the run so downstream consumers can
// log, notify, or trigger analytics without querying the primary database.
// For adjustment runs the counters are reused: SlotsScheduled holds the
// number of backfilled sessions, MembersAssigned the assignments added and
// MembersUnassigned the candidates still waiting.
type ScheduleRunCompletedEvent struct {
	Kind              string `json:"kind"`
	WeekStart         string `json:"week_start"`
	ActorID           uint64 `json:"actor_id"`
	SlotsScheduled    int    `json:"slots_scheduled"`
	SlotsSkipped      int    `json:"slots_skipped"`
	MembersAssigned   int    `json:"members_assigned"`
	MembersUnassigned int    `json:"members_unassigned"`
	CompletedAt       string `json:"completed_at"`
}
