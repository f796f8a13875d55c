package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/training-session-scheduler/internal/model"
)

// AssignmentRepo provides persistence for member assignments.  The insert
// path is the capacity-critical read-check-write of the whole engine: the
// allocator, the adjustment pass and member self-service cancellation can
// all race on the same session's counter, so every mutation locks the
// session row first.
type AssignmentRepo struct {
	db *sql.DB // db is the underlying database connection
}

// NewAssignmentRepo constructs an AssignmentRepo with the given DB handle.
func NewAssignmentRepo(db *sql.DB) *AssignmentRepo { return &AssignmentRepo{db: db} }

// MemberSlot is a projection of an active assignment used to seed the
// scheduler's member-slot claims: which member is already booked at which
// slot this week, across all sessions.
type MemberSlot struct {
	MemberID  uint64
	DayOfWeek uint8
	StartTime string
	EndTime   string
}

// Assign places a member into a session with status ASSIGNED.  It runs in
// a transaction that locks the session row, so the capacity check and the
// insert are atomic against concurrent writers:
//
//	ErrSessionNotFound  – the session does not exist.
//	ErrConflict         – the session is cancelled, or the member already
//	                      holds an assignment for this session.
//	ErrCapacityExceeded – the session is full.
func (r *AssignmentRepo) Assign(ctx context.Context, sessionID, memberID uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var capacity uint32
	var status string
	err = tx.QueryRowContext(ctx,
		`SELECT capacity, status FROM sessions WHERE id = ? FOR UPDATE`, sessionID).
		Scan(&capacity, &status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrSessionNotFound
		}
		return err
	}
	if status == model.SessionCancelled {
		return ErrConflict
	}

	var active uint32
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM assignments WHERE session_id = ? AND status IN (?, ?)`,
		sessionID, model.AssignmentAssigned, model.AssignmentConfirmed).
		Scan(&active)
	if err != nil {
		return err
	}
	if active >= capacity {
		return ErrCapacityExceeded
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO assignments (session_id, member_id, status) VALUES (?, ?, ?)`,
		sessionID, memberID, model.AssignmentAssigned)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrConflict
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// ActiveCount returns the number of active assignments for a session.
func (r *AssignmentRepo) ActiveCount(ctx context.Context, sessionID uint64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM assignments WHERE session_id = ? AND status IN (?, ?)`,
		sessionID, model.AssignmentAssigned, model.AssignmentConfirmed).
		Scan(&n)
	return n, err
}

// ActiveMemberSlots returns the (member, slot) pairs held by active
// assignments in non-cancelled sessions of the week.  The scheduler seeds
// its member claims from this so no member is ever double-booked at the
// same slot across runs.
func (r *AssignmentRepo) ActiveMemberSlots(ctx context.Context, weekStart time.Time) ([]MemberSlot, error) {
	const q = `SELECT a.member_id, s.day_of_week,
	                  TIME_FORMAT(s.start_time, '%H:%i'), TIME_FORMAT(s.end_time, '%H:%i')
	           FROM assignments a
	           JOIN sessions s ON s.id = a.session_id
	           WHERE s.week_start = ? AND s.status <> ? AND a.status IN (?, ?)`
	rows, err := r.db.QueryContext(ctx, q,
		weekStart.UTC().Format("2006-01-02"), model.SessionCancelled,
		model.AssignmentAssigned, model.AssignmentConfirmed)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []MemberSlot
	for rows.Next() {
		var m MemberSlot
		if err := rows.Scan(&m.MemberID, &m.DayOfWeek, &m.StartTime, &m.EndTime); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// CancelForMember cancels an assignment on behalf of its member.  The
// session must not have started yet; freed capacity is picked up by the
// next adjustment pass.  Errors:
//
//	ErrAssignmentNotFound – no such assignment.
//	ErrForbidden          – the assignment belongs to a different member.
//	ErrConflict           – the assignment is already terminal, or the
//	                        session has started.
func (r *AssignmentRepo) CancelForMember(ctx context.Context, assignmentID, memberID uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var owner uint64
	var status string
	var ses model.Session
	const q = `SELECT a.member_id, a.status,
	                  s.week_start, s.day_of_week, TIME_FORMAT(s.start_time, '%H:%i')
	           FROM assignments a
	           JOIN sessions s ON s.id = a.session_id
	           WHERE a.id = ?
	           FOR UPDATE`
	err = tx.QueryRowContext(ctx, q, assignmentID).
		Scan(&owner, &status, &ses.WeekStart, &ses.DayOfWeek, &ses.StartTime)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrAssignmentNotFound
		}
		return err
	}
	if owner != memberID {
		return ErrForbidden
	}
	if !model.CanTransitionAssignment(status, model.AssignmentCancelled) {
		return ErrConflict
	}
	if !ses.StartsAt().After(time.Now().UTC()) {
		return ErrConflict
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE assignments SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		model.AssignmentCancelled, assignmentID); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// UpdateStatus moves an assignment through its state machine (confirm,
// attend, no-show) on behalf of administrative tooling.  It returns
// ErrAssignmentNotFound or ErrConflict analogous to session updates.
func (r *AssignmentRepo) UpdateStatus(ctx context.Context, assignmentID uint64, to string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var current string
	err = tx.QueryRowContext(ctx,
		`SELECT status FROM assignments WHERE id = ? FOR UPDATE`, assignmentID).Scan(&current)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrAssignmentNotFound
		}
		return err
	}
	if !model.CanTransitionAssignment(current, to) {
		return ErrConflict
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE assignments SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		to, assignmentID); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}
