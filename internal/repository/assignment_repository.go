package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/childcare-cover-api/internal/models"
)

// AssignmentRepository persists substitute assignments. The collision query
// and the partial unique index on (sub_id, date, time_slot_id) for active
// rows together enforce the double-booking invariant.
type AssignmentRepository struct {
	db *sqlx.DB
}

// NewAssignmentRepository constructs the repository.
func NewAssignmentRepository(db *sqlx.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// ListActiveBySubBetween returns a substitute's active assignments with dates
// inside [from, to], across all coverage requests.
func (r *AssignmentRepository) ListActiveBySubBetween(ctx context.Context, subID string, from, to time.Time) ([]models.SubAssignment, error) {
	const query = `SELECT id, school_id, coverage_request_id, coverage_request_shift_id, sub_id, teacher_id, date, time_slot_id, classroom_id, assignment_type, partial, status, created_at
FROM sub_assignments
WHERE sub_id = $1 AND status = $2 AND date BETWEEN $3 AND $4
ORDER BY date ASC, time_slot_id ASC`
	var assignments []models.SubAssignment
	if err := r.db.SelectContext(ctx, &assignments, query, subID, models.AssignmentActive, from, to); err != nil {
		return nil, fmt.Errorf("list active assignments by sub: %w", err)
	}
	return assignments, nil
}

// ListCollisions returns the substitute's active assignments occupying any of
// the given slots, across all coverage requests.
func (r *AssignmentRepository) ListCollisions(ctx context.Context, subID string, keys []models.ShiftKey) ([]models.SubAssignment, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	query := `SELECT id, school_id, coverage_request_id, coverage_request_shift_id, sub_id, teacher_id, date, time_slot_id, classroom_id, assignment_type, partial, status, created_at
FROM sub_assignments
WHERE sub_id = $1 AND status = $2 AND (`
	args := []interface{}{subID, models.AssignmentActive}
	for i, key := range keys {
		if i > 0 {
			query += " OR "
		}
		query += fmt.Sprintf("(date = $%d AND time_slot_id = $%d)", len(args)+1, len(args)+2)
		args = append(args, key.Date, key.TimeSlotID)
	}
	query += ")"

	var assignments []models.SubAssignment
	if err := r.db.SelectContext(ctx, &assignments, query, args...); err != nil {
		return nil, fmt.Errorf("list colliding assignments: %w", err)
	}
	return assignments, nil
}

// ListActiveByRequest returns active assignments for one coverage request
// enriched with the substitute's name.
func (r *AssignmentRepository) ListActiveByRequest(ctx context.Context, requestID string) ([]models.AssignmentDetail, error) {
	const query = `SELECT sa.id, sa.school_id, sa.coverage_request_id, sa.coverage_request_shift_id, sa.sub_id, sa.teacher_id, sa.date, sa.time_slot_id, sa.classroom_id, sa.assignment_type, sa.partial, sa.status, sa.created_at,
       sm.full_name AS sub_name
FROM sub_assignments sa
JOIN staff_members sm ON sm.id = sa.sub_id
WHERE sa.coverage_request_id = $1 AND sa.status = $2
ORDER BY sa.date ASC, sa.time_slot_id ASC`
	var assignments []models.AssignmentDetail
	if err := r.db.SelectContext(ctx, &assignments, query, requestID, models.AssignmentActive); err != nil {
		return nil, fmt.Errorf("list assignments by request: %w", err)
	}
	return assignments, nil
}

// BulkCreateWithTx inserts all assignment rows inside an existing
// transaction. Either every row lands or the transaction rolls back.
func (r *AssignmentRepository) BulkCreateWithTx(ctx context.Context, tx *sqlx.Tx, assignments []models.SubAssignment) error {
	if tx == nil {
		return fmt.Errorf("nil transaction provided")
	}
	now := time.Now().UTC()
	for i := range assignments {
		payload := assignments[i]
		if payload.ID == "" {
			payload.ID = uuid.NewString()
		}
		if payload.CreatedAt.IsZero() {
			payload.CreatedAt = now
		}
		if payload.Status == "" {
			payload.Status = models.AssignmentActive
		}

		if _, err := tx.NamedExecContext(ctx, `INSERT INTO sub_assignments (id, school_id, coverage_request_id, coverage_request_shift_id, sub_id, teacher_id, date, time_slot_id, classroom_id, assignment_type, partial, status, created_at)
VALUES (:id, :school_id, :coverage_request_id, :coverage_request_shift_id, :sub_id, :teacher_id, :date, :time_slot_id, :classroom_id, :assignment_type, :partial, :status, :created_at)`, &payload); err != nil {
			return fmt.Errorf("bulk insert assignment: %w", err)
		}
		assignments[i] = payload
	}
	return nil
}

// IsUniqueViolation reports whether err is a Postgres unique constraint
// violation, the storage-level backstop against double-booking.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}
