package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/childcare-cover-api/internal/models"
)

// CoverageRepository reads absences and coverage requests and transitions
// their shifts.
type CoverageRepository struct {
	db *sqlx.DB
}

// NewCoverageRepository constructs the repository.
func NewCoverageRepository(db *sqlx.DB) *CoverageRepository {
	return &CoverageRepository{db: db}
}

// FindAbsence returns one absence by id.
func (r *CoverageRepository) FindAbsence(ctx context.Context, id string) (*models.Absence, error) {
	const query = `SELECT id, school_id, teacher_id, start_date, end_date, status, coverage_request_id, created_at
FROM absences WHERE id = $1`
	var absence models.Absence
	if err := r.db.GetContext(ctx, &absence, query, id); err != nil {
		return nil, err
	}
	return &absence, nil
}

// FindRequest returns one coverage request by id.
func (r *CoverageRepository) FindRequest(ctx context.Context, id string) (*models.CoverageRequest, error) {
	const query = `SELECT id, school_id, absence_id, teacher_id, status, created_at, updated_at
FROM coverage_requests WHERE id = $1`
	var request models.CoverageRequest
	if err := r.db.GetContext(ctx, &request, query, id); err != nil {
		return nil, err
	}
	return &request, nil
}

// FindRequestByAbsence returns the coverage request grouping an absence's shifts.
func (r *CoverageRepository) FindRequestByAbsence(ctx context.Context, absenceID string) (*models.CoverageRequest, error) {
	const query = `SELECT id, school_id, absence_id, teacher_id, status, created_at, updated_at
FROM coverage_requests WHERE absence_id = $1`
	var request models.CoverageRequest
	if err := r.db.GetContext(ctx, &request, query, absenceID); err != nil {
		return nil, err
	}
	return &request, nil
}

// ListShifts returns every shift of a coverage request in calendar order.
func (r *CoverageRepository) ListShifts(ctx context.Context, requestID string) ([]models.CoverageRequestShift, error) {
	const query = `SELECT id, coverage_request_id, date, day_of_week_id, time_slot_id, class_group_id, classroom_id, status, created_at
FROM coverage_request_shifts
WHERE coverage_request_id = $1
ORDER BY date ASC, time_slot_id ASC`
	var shifts []models.CoverageRequestShift
	if err := r.db.SelectContext(ctx, &shifts, query, requestID); err != nil {
		return nil, fmt.Errorf("list coverage request shifts: %w", err)
	}
	return shifts, nil
}

// ListActiveShifts returns shifts still needing coverage.
func (r *CoverageRepository) ListActiveShifts(ctx context.Context, requestID string) ([]models.CoverageRequestShift, error) {
	const query = `SELECT id, coverage_request_id, date, day_of_week_id, time_slot_id, class_group_id, classroom_id, status, created_at
FROM coverage_request_shifts
WHERE coverage_request_id = $1 AND status = $2
ORDER BY date ASC, time_slot_id ASC`
	var shifts []models.CoverageRequestShift
	if err := r.db.SelectContext(ctx, &shifts, query, requestID, models.ShiftUnassigned); err != nil {
		return nil, fmt.Errorf("list active coverage request shifts: %w", err)
	}
	return shifts, nil
}

// MarkShiftsAssignedWithTx transitions the given shifts to assigned within an
// existing transaction.
func (r *CoverageRepository) MarkShiftsAssignedWithTx(ctx context.Context, tx *sqlx.Tx, shiftIDs []string) error {
	if tx == nil {
		return fmt.Errorf("nil transaction provided")
	}
	query, args, err := sqlx.In(`UPDATE coverage_request_shifts SET status = ? WHERE id IN (?)`, models.ShiftAssigned, shiftIDs)
	if err != nil {
		return fmt.Errorf("build mark shifts assigned: %w", err)
	}
	if _, err := tx.ExecContext(ctx, tx.Rebind(query), args...); err != nil {
		return fmt.Errorf("mark shifts assigned: %w", err)
	}
	return nil
}

// MarkRequestCoveredWithTx flips the request to covered once no unassigned
// shifts remain. Returns true when the transition happened.
func (r *CoverageRepository) MarkRequestCoveredWithTx(ctx context.Context, tx *sqlx.Tx, requestID string) (bool, error) {
	if tx == nil {
		return false, fmt.Errorf("nil transaction provided")
	}
	const query = `UPDATE coverage_requests SET status = $1, updated_at = NOW()
WHERE id = $2
  AND NOT EXISTS (
    SELECT 1 FROM coverage_request_shifts
    WHERE coverage_request_id = $2 AND status = $3
  )`
	result, err := tx.ExecContext(ctx, query, models.CoverageRequestCovered, requestID, models.ShiftUnassigned)
	if err != nil {
		return false, fmt.Errorf("mark coverage request covered: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("check covered request rows: %w", err)
	}
	return affected > 0, nil
}
