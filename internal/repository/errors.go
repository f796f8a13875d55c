// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as the
// scheduler and handlers to distinguish between different failure
// scenarios without inspecting driver errors. ErrConflict and
// ErrCapacityExceeded in particular are load-bearing for the scheduling
// passes: both are recoverable per candidate and must never abort a run.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own, such as cancelling another member's
// assignment. Handlers should translate this into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when an insert or update collides with existing
// state: a duplicate (session, member) assignment, a hall or trainer
// already booked for the slot, or an illegal status transition. The
// scheduling passes treat it as "already satisfied" and move on.
var ErrConflict = errors.New("conflict")

// ErrCapacityExceeded is returned when an assignment would push a session
// past its capacity. The allocator rejects the candidate locally and
// tries the next one.
var ErrCapacityExceeded = errors.New("capacity exceeded")

// ErrSessionNotFound is returned when a session lookup fails.
var ErrSessionNotFound = errors.New("session not found")

// ErrAssignmentNotFound is returned when an assignment lookup fails.
var ErrAssignmentNotFound = errors.New("assignment not found")

// ErrHallNotFound is returned when a hall lookup fails.
var ErrHallNotFound = errors.New("hall not found")

// isDuplicateKey reports whether err is the MySQL duplicate-entry error
// (1062), which signals a violated unique constraint.
func isDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}
