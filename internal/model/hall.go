package model

import "time"

// Hall represents a training room that sessions can be placed in.  The
// hall catalog is maintained by an external admin surface; the scheduler
// only reads it.  Capacity bounds how many members a session held in the
// hall may take.
//
// Fields:
//
//	ID        – primary key identifier.
//	Name      – human readable label for the hall.
//	Capacity  – number of members the hall can take; always positive.
//	IsActive  – whether the hall may receive new sessions.
//	CreatedAt – creation timestamp.
//	UpdatedAt – last update timestamp.
type Hall struct {
	ID        uint64    // halls.id
	Name      string    // halls.name
	Capacity  uint32    // halls.capacity
	IsActive  bool      // halls.is_active
	CreatedAt time.Time // halls.created_at
	UpdatedAt time.Time // halls.updated_at
}
