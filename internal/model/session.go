package model

import "time"

// Session status values.  A session moves SCHEDULED → IN_PROGRESS →
// COMPLETED; SCHEDULED and IN_PROGRESS may also move to CANCELLED.
const (
	SessionScheduled  = "SCHEDULED"
	SessionInProgress = "IN_PROGRESS"
	SessionCompleted  = "COMPLETED"
	SessionCancelled  = "CANCELLED"
)

// sessionTransitions encodes the allowed session state machine.
var sessionTransitions = map[string]map[string]bool{
	SessionScheduled:  {SessionInProgress: true, SessionCancelled: true},
	SessionInProgress: {SessionCompleted: true, SessionCancelled: true},
}

// CanTransitionSession reports whether a session status change from "from"
// to "to" is legal.  Terminal states (COMPLETED, CANCELLED) allow no
// further transitions.
func CanTransitionSession(from, to string) bool {
	return sessionTransitions[from][to]
}

// Session is a concrete weekly training session produced by the matcher:
// one hall, one trainer, one slot, a capacity taken from the hall, and the
// member assignments filled in by the allocator and the adjustment pass.
//
// Fields:
//
//	ID          – primary key identifier.
//	WeekStart   – Monday of the week the session belongs to.
//	DayOfWeek   – 0=Monday … 6=Sunday.
//	StartTime   – session start in "HH:MM".
//	EndTime     – session end in "HH:MM".
//	HallID      – hall the session is held in.
//	TrainerID   – trainer leading the session.
//	Capacity    – maximum number of active assignments.
//	Status      – session state (see constants above).
//	CreatedBy   – actor that triggered the creating run.
//	CreatedAt   – creation timestamp.
//	UpdatedAt   – last update timestamp.
type Session struct {
	ID        uint64    // sessions.id
	WeekStart time.Time // sessions.week_start
	DayOfWeek uint8     // sessions.day_of_week
	StartTime string    // sessions.start_time (TIME)
	EndTime   string    // sessions.end_time (TIME)
	HallID    uint64    // sessions.hall_id
	TrainerID uint64    // sessions.trainer_id
	Capacity  uint32    // sessions.capacity
	Status    string    // sessions.status
	CreatedBy uint64    // sessions.created_by
	CreatedAt time.Time // sessions.created_at
	UpdatedAt time.Time // sessions.updated_at
}

// StartsAt combines WeekStart, DayOfWeek and StartTime into the concrete
// session start instant in UTC.  A malformed StartTime yields the day's
// midnight, which is still usable for "has it started yet" checks.
func (s *Session) StartsAt() time.Time {
	day := s.WeekStart.AddDate(0, 0, int(s.DayOfWeek))
	t, err := time.Parse("15:04", s.StartTime)
	if err != nil {
		return day
	}
	return day.Add(time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute)
}
