package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/training-session-scheduler/internal/model"
)

// TrainerRepo provides read access to the trainer catalog.  Availability is
// not stored here; it is derived from sessions, so the repository only
// answers "who exists and is active".
type TrainerRepo struct {
	db *sql.DB // db is the underlying database connection
}

// NewTrainerRepo constructs a TrainerRepo with the given DB handle.
func NewTrainerRepo(db *sql.DB) *TrainerRepo {
	return &TrainerRepo{db: db}
}

// ListActive returns all active trainers ordered by id for deterministic
// iteration.
func (r *TrainerRepo) ListActive(ctx context.Context) ([]model.Trainer, error) {
	const q = `SELECT id, name, is_active, created_at
	           FROM trainers
	           WHERE is_active = 1
	           ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Trainer
	for rows.Next() {
		var t model.Trainer
		if err := rows.Scan(&t.ID, &t.Name, &t.IsActive, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
