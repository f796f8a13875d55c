package repository // repository holds data access logic for domain entities

import (
	"context"      // context is used to manage deadlines and cancellation
	"database/sql" // sql provides DB primitives
	"time"         // time carries the week-start parameter

	"github.com/iliyamo/training-session-scheduler/internal/model"
)

// PreferenceRepo reads member slot preferences for a target week.  The
// preference table is written by the membership service during the
// submission window; this repository is strictly read-only, matching the
// scheduler's contract that preferences are immutable once the window
// closes.
type PreferenceRepo struct {
	db *sql.DB // db is the underlying database connection
}

// NewPreferenceRepo constructs a PreferenceRepo with the given DB handle.
func NewPreferenceRepo(db *sql.DB) *PreferenceRepo {
	return &PreferenceRepo{db: db}
}

// ListByWeek returns every preference recorded for the given week start,
// ordered deterministically so repeated runs see identical input.  TIME
// columns are formatted as "HH:MM" to match the slot representation used
// throughout the scheduler.
func (r *PreferenceRepo) ListByWeek(ctx context.Context, weekStart time.Time) ([]model.Preference, error) {
	const q = `SELECT id, member_id, week_start, day_of_week,
	                  TIME_FORMAT(start_time, '%H:%i'), TIME_FORMAT(end_time, '%H:%i'),
	                  tier, preferred_trainer_id, created_at
	           FROM preferences
	           WHERE week_start = ?
	           ORDER BY day_of_week, start_time, member_id`
	rows, err := r.db.QueryContext(ctx, q, weekStart.UTC().Format("2006-01-02"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Preference
	for rows.Next() {
		var p model.Preference
		var trainerID sql.NullInt64
		if err := rows.Scan(&p.ID, &p.MemberID, &p.WeekStart, &p.DayOfWeek,
			&p.StartTime, &p.EndTime, &p.Tier, &trainerID, &p.CreatedAt); err != nil {
			return nil, err
		}
		if trainerID.Valid {
			tid := uint64(trainerID.Int64)
			p.PreferredTrainerID = &tid
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
