package model

import "time"

// Trainer represents a staff member who can lead a training session.  A
// trainer's availability is never stored directly; it is derived from the
// absence of an overlapping non-cancelled session.
//
// Fields:
//
//	ID        – primary key identifier.
//	Name      – trainer display name.
//	IsActive  – whether the trainer may be matched to new sessions.
//	CreatedAt – creation timestamp.
type Trainer struct {
	ID        uint64    // trainers.id
	Name      string    // trainers.name
	IsActive  bool      // trainers.is_active
	CreatedAt time.Time // trainers.created_at
}
