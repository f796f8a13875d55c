package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/training-session-scheduler/internal/model"
)

// SessionRepo provides persistence for generated sessions.  Sessions are
// created only by the scheduling pass; later mutation is limited to status
// changes and to the assignments hanging off them.
type SessionRepo struct {
	db *sql.DB // db is the underlying database connection
}

// NewSessionRepo constructs a SessionRepo with the given DB handle.
func NewSessionRepo(db *sql.DB) *SessionRepo { return &SessionRepo{db: db} }

// DB exposes the underlying handle so callers can open transactions that
// span repositories, mirroring how handlers drive multi-step mutations.
func (r *SessionRepo) DB() *sql.DB { return r.db }

// SlotClaim is a projection of a non-cancelled session used to seed the
// scheduler's reservation ledger: which hall and trainer are already taken
// for which slot.  Times use the "HH:MM" representation shared with
// model.Preference.
type SlotClaim struct {
	SessionID uint64
	HallID    uint64
	TrainerID uint64
	DayOfWeek uint8
	StartTime string
	EndTime   string
	Status    string
	Capacity  uint32
}

// Create inserts a new session and reads the row back so database-assigned
// defaults (id, timestamps, status) are populated on the passed struct.
// A duplicate hall or trainer claim for the slot surfaces as ErrConflict
// via the unique indexes on (hall_id, week_start, day_of_week, start_time)
// and (trainer_id, week_start, day_of_week, start_time).
func (r *SessionRepo) Create(ctx context.Context, s *model.Session) error {
	const qInsert = `INSERT INTO sessions
	                 (week_start, day_of_week, start_time, end_time, hall_id, trainer_id, capacity, status, created_by)
	                 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, qInsert,
		s.WeekStart.UTC().Format("2006-01-02"), s.DayOfWeek, s.StartTime, s.EndTime,
		s.HallID, s.TrainerID, s.Capacity, model.SessionScheduled, s.CreatedBy)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrConflict
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)

	const qSelect = `SELECT id, week_start, day_of_week,
	                        TIME_FORMAT(start_time, '%H:%i'), TIME_FORMAT(end_time, '%H:%i'),
	                        hall_id, trainer_id, capacity, status, created_by, created_at, updated_at
	                 FROM sessions WHERE id = ?`
	return r.db.QueryRowContext(ctx, qSelect, s.ID).Scan(
		&s.ID, &s.WeekStart, &s.DayOfWeek, &s.StartTime, &s.EndTime,
		&s.HallID, &s.TrainerID, &s.Capacity, &s.Status, &s.CreatedBy, &s.CreatedAt, &s.UpdatedAt)
}

// SlotClaims returns hall/trainer claims from every non-cancelled session
// of the week.  The scheduler seeds its reservation ledger from this list
// so a re-run can never double-book a resource already committed.
func (r *SessionRepo) SlotClaims(ctx context.Context, weekStart time.Time) ([]SlotClaim, error) {
	const q = `SELECT id, hall_id, trainer_id, day_of_week,
	                  TIME_FORMAT(start_time, '%H:%i'), TIME_FORMAT(end_time, '%H:%i'),
	                  status, capacity
	           FROM sessions
	           WHERE week_start = ? AND status <> ?
	           ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, weekStart.UTC().Format("2006-01-02"), model.SessionCancelled)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SlotClaim
	for rows.Next() {
		var c SlotClaim
		if err := rows.Scan(&c.SessionID, &c.HallID, &c.TrainerID, &c.DayOfWeek,
			&c.StartTime, &c.EndTime, &c.Status, &c.Capacity); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListActive returns all non-cancelled sessions of the week, ordered by
// slot then id.  The adjustment pass walks this list looking for free
// capacity.
func (r *SessionRepo) ListActive(ctx context.Context, weekStart time.Time) ([]model.Session, error) {
	const q = `SELECT id, week_start, day_of_week,
	                  TIME_FORMAT(start_time, '%H:%i'), TIME_FORMAT(end_time, '%H:%i'),
	                  hall_id, trainer_id, capacity, status, created_by, created_at, updated_at
	           FROM sessions
	           WHERE week_start = ? AND status <> ?
	           ORDER BY day_of_week, start_time, id`
	rows, err := r.db.QueryContext(ctx, q, weekStart.UTC().Format("2006-01-02"), model.SessionCancelled)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Session
	for rows.Next() {
		var s model.Session
		if err := rows.Scan(&s.ID, &s.WeekStart, &s.DayOfWeek, &s.StartTime, &s.EndTime,
			&s.HallID, &s.TrainerID, &s.Capacity, &s.Status, &s.CreatedBy, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// CancelScheduled retracts every session of the week still in SCHEDULED
// status, cascading cancellation to their active assignments.  Sessions
// already IN_PROGRESS or COMPLETED are never touched.  It returns the
// number of sessions cancelled.  The whole retraction is one transaction
// so a re-run never observes a half-retracted week.
func (r *SessionRepo) CancelScheduled(ctx context.Context, weekStart time.Time) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	week := weekStart.UTC().Format("2006-01-02")
	// Cancel assignments first so the capacity invariant never observes an
	// assignment pointing at a cancelled session.
	const qAssign = `UPDATE assignments a
	                 JOIN sessions s ON s.id = a.session_id
	                 SET a.status = ?, a.updated_at = CURRENT_TIMESTAMP
	                 WHERE s.week_start = ? AND s.status = ? AND a.status IN (?, ?)`
	if _, err := tx.ExecContext(ctx, qAssign,
		model.AssignmentCancelled, week, model.SessionScheduled,
		model.AssignmentAssigned, model.AssignmentConfirmed); err != nil {
		return 0, err
	}

	const qSess = `UPDATE sessions
	               SET status = ?, updated_at = CURRENT_TIMESTAMP
	               WHERE week_start = ? AND status = ?`
	res, err := tx.ExecContext(ctx, qSess, model.SessionCancelled, week, model.SessionScheduled)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	committed = true
	return n, nil
}

// UpdateStatus moves a session to a new state, enforcing the session state
// machine.  Cancelling a session cascades cancellation to its active
// assignments.  It returns ErrSessionNotFound when the session does not
// exist and ErrConflict when the transition is illegal.
func (r *SessionRepo) UpdateStatus(ctx context.Context, sessionID uint64, to string) error {
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
	err = tx.QueryRowContext(ctx, `SELECT status FROM sessions WHERE id = ? FOR UPDATE`, sessionID).Scan(&current)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrSessionNotFound
		}
		return err
	}
	if !model.CanTransitionSession(current, to) {
		return ErrConflict
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE sessions SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, to, sessionID); err != nil {
		return err
	}
	if to == model.SessionCancelled {
		const qCascade = `UPDATE assignments SET status = ?, updated_at = CURRENT_TIMESTAMP
		                  WHERE session_id = ? AND status IN (?, ?)`
		if _, err := tx.ExecContext(ctx, qCascade,
			model.AssignmentCancelled, sessionID,
			model.AssignmentAssigned, model.AssignmentConfirmed); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// SessionDetail is the read model returned to the public week browse
// endpoint: one generated session with hall and trainer names and the
// current active assignment count.
type SessionDetail struct {
	ID            uint64 `json:"id"`
	WeekStart     string `json:"week_start"`
	DayOfWeek     uint8  `json:"day_of_week"`
	StartTime     string `json:"start_time"`
	EndTime       string `json:"end_time"`
	HallID        uint64 `json:"hall_id"`
	HallName      string `json:"hall_name"`
	TrainerID     uint64 `json:"trainer_id"`
	TrainerName   string `json:"trainer_name"`
	Capacity      uint32 `json:"capacity"`
	AssignedCount uint32 `json:"assigned_count"`
	Status        string `json:"status"`
}

// ListWeekDetails returns the generated schedule of a week for display:
// non-cancelled sessions joined with hall and trainer names plus the
// active assignment count, ordered by day and start time.
func (r *SessionRepo) ListWeekDetails(ctx context.Context, weekStart time.Time) ([]SessionDetail, error) {
	const q = `SELECT s.id, s.week_start, s.day_of_week,
	                  TIME_FORMAT(s.start_time, '%H:%i'), TIME_FORMAT(s.end_time, '%H:%i'),
	                  h.id, h.name, t.id, t.name, s.capacity, s.status,
	                  (SELECT COUNT(*) FROM assignments a
	                   WHERE a.session_id = s.id AND a.status IN (?, ?))
	           FROM sessions s
	           JOIN halls h ON h.id = s.hall_id
	           JOIN trainers t ON t.id = s.trainer_id
	           WHERE s.week_start = ? AND s.status <> ?
	           ORDER BY s.day_of_week, s.start_time, s.id`
	rows, err := r.db.QueryContext(ctx, q,
		model.AssignmentAssigned, model.AssignmentConfirmed,
		weekStart.UTC().Format("2006-01-02"), model.SessionCancelled)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	details := make([]SessionDetail, 0)
	for rows.Next() {
		var d SessionDetail
		var week time.Time
		if err := rows.Scan(&d.ID, &week, &d.DayOfWeek, &d.StartTime, &d.EndTime,
			&d.HallID, &d.HallName, &d.TrainerID, &d.TrainerName,
			&d.Capacity, &d.Status, &d.AssignedCount); err != nil {
			return nil, err
		}
		d.WeekStart = week.UTC().Format("2006-01-02")
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return details, nil
}
