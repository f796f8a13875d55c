package model

import "time"

// Desire tiers rank how strongly a member wants a slot.  Preferred members
// are always placed before Available members; NotAvailable records are kept
// for auditing but never scheduled.
const (
	TierPreferred    = "PREFERRED"     // member actively wants this slot
	TierAvailable    = "AVAILABLE"     // member can attend if placed
	TierNotAvailable = "NOT_AVAILABLE" // member has ruled the slot out
)

// ValidTier reports whether s is one of the known desire tiers.
func ValidTier(s string) bool {
	return s == TierPreferred || s == TierAvailable || s == TierNotAvailable
}

// Preference records a member's wish for a weekly time slot.  Preferences
// are written by the membership service during the submission window and
// are read-only input for the scheduling engine afterwards.  They are
// unique per (member, week, day, start, end).
//
// Fields:
//
//	ID                 – primary key identifier.
//	MemberID           – member who submitted the preference.
//	WeekStart          – Monday of the target week (midnight UTC).
//	DayOfWeek          – 0=Monday … 6=Sunday.
//	StartTime          – slot start in "HH:MM" (24h).
//	EndTime            – slot end in "HH:MM", after StartTime.
//	Tier               – desire tier (PREFERRED, AVAILABLE, NOT_AVAILABLE).
//	PreferredTrainerID – trainer the member would like, if any.
//	CreatedAt          – creation timestamp.
type Preference struct {
	ID                 uint64    // preferences.id
	MemberID           uint64    // preferences.member_id
	WeekStart          time.Time // preferences.week_start
	DayOfWeek          uint8     // preferences.day_of_week
	StartTime          string    // preferences.start_time (TIME)
	EndTime            string    // preferences.end_time (TIME)
	Tier               string    // preferences.tier
	PreferredTrainerID *uint64   // preferences.preferred_trainer_id (nullable)
	CreatedAt          time.Time // preferences.created_at
}
