package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/childcare-cover-api/internal/models"
)

// AvailabilityRepository reads recurring availability and dated exceptions.
type AvailabilityRepository struct {
	db *sqlx.DB
}

// NewAvailabilityRepository constructs the repository.
func NewAvailabilityRepository(db *sqlx.DB) *AvailabilityRepository {
	return &AvailabilityRepository{db: db}
}

// ListWeekly returns a staff member's recurring weekly availability records.
func (r *AvailabilityRepository) ListWeekly(ctx context.Context, staffID string) ([]models.WeeklyAvailability, error) {
	const query = `SELECT id, staff_id, day_of_week_id, time_slot_id, available
FROM weekly_availability WHERE staff_id = $1`
	var records []models.WeeklyAvailability
	if err := r.db.SelectContext(ctx, &records, query, staffID); err != nil {
		return nil, fmt.Errorf("list weekly availability: %w", err)
	}
	return records, nil
}

// ListExceptions returns a staff member's dated availability exceptions
// within [from, to].
func (r *AvailabilityRepository) ListExceptions(ctx context.Context, staffID string, from, to time.Time) ([]models.AvailabilityException, error) {
	const query = `SELECT id, staff_id, date, time_slot_id, available
FROM availability_exceptions
WHERE staff_id = $1 AND date BETWEEN $2 AND $3`
	var records []models.AvailabilityException
	if err := r.db.SelectContext(ctx, &records, query, staffID, from, to); err != nil {
		return nil, fmt.Errorf("list availability exceptions: %w", err)
	}
	return records, nil
}
