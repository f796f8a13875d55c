package model

import "time"

// Assignment status values.  An assignment moves ASSIGNED → CONFIRMED →
// {ATTENDED, NO_SHOW}; any pre-terminal state may move to CANCELLED.
const (
	AssignmentAssigned  = "ASSIGNED"
	AssignmentConfirmed = "CONFIRMED"
	AssignmentCancelled = "CANCELLED"
	AssignmentAttended  = "ATTENDED"
	AssignmentNoShow    = "NO_SHOW"
)

// assignmentTransitions encodes the allowed assignment state machine.
var assignmentTransitions = map[string]map[string]bool{
	AssignmentAssigned:  {AssignmentConfirmed: true, AssignmentCancelled: true},
	AssignmentConfirmed: {AssignmentAttended: true, AssignmentNoShow: true, AssignmentCancelled: true},
}

// CanTransitionAssignment reports whether an assignment status change from
// "from" to "to" is legal.
func CanTransitionAssignment(from, to string) bool {
	return assignmentTransitions[from][to]
}

// ActiveAssignmentStatus reports whether the status counts against a
// session's capacity and against the one-active-assignment-per-slot rule.
// ATTENDED and NO_SHOW are terminal bookkeeping states recorded after the
// session happened; only ASSIGNED and CONFIRMED hold a seat.
func ActiveAssignmentStatus(status string) bool {
	return status == AssignmentAssigned || status == AssignmentConfirmed
}

// Assignment links a member to a session.  Unique per (session, member).
//
// Fields:
//
//	ID        – primary key identifier.
//	SessionID – session the member is placed in.
//	MemberID  – placed member.
//	Status    – assignment state (see constants above).
//	CreatedAt – creation timestamp.
//	UpdatedAt – last update timestamp.
type Assignment struct {
	ID        uint64    // assignments.id
	SessionID uint64    // assignments.session_id
	MemberID  uint64    // assignments.member_id
	Status    string    // assignments.status
	CreatedAt time.Time // assignments.created_at
	UpdatedAt time.Time // assignments.updated_at
}
