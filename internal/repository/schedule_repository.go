package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/childcare-cover-api/internal/models"
)

// ScheduleRepository reads recurring teaching schedules. The matcher uses it
// for conflict detection; the assignment transactor uses it to infer a
// classroom from the absent teacher's own schedule.
type ScheduleRepository struct {
	db *sqlx.DB
}

// NewScheduleRepository constructs the repository.
func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// ListTeachingSlots returns a staff member's recurring teaching slots.
func (r *ScheduleRepository) ListTeachingSlots(ctx context.Context, staffID string) ([]models.TeachingSlot, error) {
	const query = `SELECT id, staff_id, day_of_week_id, time_slot_id, classroom_id, class_group_id
FROM teaching_slots WHERE staff_id = $1`
	var slots []models.TeachingSlot
	if err := r.db.SelectContext(ctx, &slots, query, staffID); err != nil {
		return nil, fmt.Errorf("list teaching slots: %w", err)
	}
	return slots, nil
}

// FindClassroomForSlot resolves the classroom a teacher normally occupies in
// a weekly slot. Returns nil without error when the slot has no classroom.
func (r *ScheduleRepository) FindClassroomForSlot(ctx context.Context, teacherID, dayOfWeekID, timeSlotID string) (*string, error) {
	const query = `SELECT classroom_id FROM teaching_slots
WHERE staff_id = $1 AND day_of_week_id = $2 AND time_slot_id = $3
LIMIT 1`
	var classroomID *string
	if err := r.db.GetContext(ctx, &classroomID, query, teacherID, dayOfWeekID, timeSlotID); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("find classroom for slot: %w", err)
	}
	return classroomID, nil
}
