package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/childcare-cover-api/internal/models"
)

// TimeOffRepository reads approved time-off shifts for conflict detection.
type TimeOffRepository struct {
	db *sqlx.DB
}

// NewTimeOffRepository constructs the repository.
func NewTimeOffRepository(db *sqlx.DB) *TimeOffRepository {
	return &TimeOffRepository{db: db}
}

// ListApprovedShifts returns a staff member's own approved time-off shifts
// within [from, to].
func (r *TimeOffRepository) ListApprovedShifts(ctx context.Context, staffID string, from, to time.Time) ([]models.TimeOffShift, error) {
	const query = `SELECT ts.id, ts.staff_id, ts.date, ts.time_slot_id, ts.status
FROM time_off_shifts ts
WHERE ts.staff_id = $1 AND ts.status = 'approved' AND ts.date BETWEEN $2 AND $3`
	var shifts []models.TimeOffShift
	if err := r.db.SelectContext(ctx, &shifts, query, staffID, from, to); err != nil {
		return nil, fmt.Errorf("list approved time off shifts: %w", err)
	}
	return shifts, nil
}
