package scheduler

// SkippedSlot records one demand bucket the matcher could not serve and
// why.  Skips are reported, never fatal.
type SkippedSlot struct {
	DayOfWeek uint8  `json:"day_of_week"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Demand    int    `json:"demand"`
	Reason    string `json:"reason"`
}

// RunSummary is the structured result of an initial scheduling pass.  It
// is the only thing exposed at the administrative boundary; internal
// errors never cross it.
type RunSummary struct {
	WeekStart         string        `json:"week_start"`
	ActorID           uint64        `json:"actor_id"`
	SessionsRetracted int64         `json:"sessions_retracted"`
	SlotsAttempted    int           `json:"slots_attempted"`
	SlotsScheduled    int           `json:"slots_scheduled"`
	SlotsSkipped      []SkippedSlot `json:"slots_skipped"`
	MembersAssigned   int           `json:"members_assigned"`
	MembersUnassigned int           `json:"members_unassigned"`
}

// AdjustSummary is the structured result of an adjustment pass.
type AdjustSummary struct {
	WeekStart          string `json:"week_start"`
	SessionsExamined   int    `json:"sessions_examined"`
	SessionsBackfilled int    `json:"sessions_backfilled"`
	AssignmentsAdded   int    `json:"assignments_added"`
	CandidatesLeft     int    `json:"candidates_left"`
}
