package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/training-session-scheduler/internal/model"
)

// HallRepo provides read access to the hall catalog.  Hall CRUD lives in an
// external admin surface; the scheduler only needs to know which halls are
// active and how many members they take.
type HallRepo struct {
	db *sql.DB // db is the underlying database connection
}

// NewHallRepo constructs a HallRepo with the given DB handle.
func NewHallRepo(db *sql.DB) *HallRepo {
	return &HallRepo{db: db}
}

// ListActive returns all active halls ordered by capacity then id.  The
// matcher relies on this ordering to pick the smallest viable hall
// deterministically, so it must not change.
func (r *HallRepo) ListActive(ctx context.Context) ([]model.Hall, error) {
	const q = `SELECT id, name, capacity, is_active, created_at, updated_at
	           FROM halls
	           WHERE is_active = 1
	           ORDER BY capacity, id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Hall
	for rows.Next() {
		var h model.Hall
		if err := rows.Scan(&h.ID, &h.Name, &h.Capacity, &h.IsActive, &h.CreatedAt, &h.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID retrieves a single hall.  It returns ErrHallNotFound when no row
// is found.
func (r *HallRepo) GetByID(ctx context.Context, id uint64) (*model.Hall, error) {
	const q = `SELECT id, name, capacity, is_active, created_at, updated_at FROM halls WHERE id = ?`
	var h model.Hall
	err := r.db.QueryRowContext(ctx, q, id).Scan(&h.ID, &h.Name, &h.Capacity, &h.IsActive, &h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrHallNotFound
		}
		return nil, err
	}
	return &h, nil
}
