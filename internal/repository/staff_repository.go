package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/childcare-cover-api/internal/models"
)

// StaffRepository reads the staff roster and qualification sets.
type StaffRepository struct {
	db *sqlx.DB
}

// NewStaffRepository constructs the repository.
func NewStaffRepository(db *sqlx.DB) *StaffRepository {
	return &StaffRepository{db: db}
}

// FindByID returns one staff member.
func (r *StaffRepository) FindByID(ctx context.Context, id string) (*models.StaffMember, error) {
	const query = `SELECT id, school_id, full_name, email, phone, is_substitute, is_flexible, active, created_at, updated_at
FROM staff_members WHERE id = $1`
	var staff models.StaffMember
	if err := r.db.GetContext(ctx, &staff, query, id); err != nil {
		return nil, err
	}
	return &staff, nil
}

// ListCandidates returns the active roster members eligible to substitute.
// Dedicated substitutes always qualify; flexible staff only when requested.
func (r *StaffRepository) ListCandidates(ctx context.Context, schoolID string, includeFlexible bool) ([]models.StaffMember, error) {
	const query = `SELECT id, school_id, full_name, email, phone, is_substitute, is_flexible, active, created_at, updated_at
FROM staff_members
WHERE school_id = $1 AND active = TRUE AND (is_substitute = TRUE OR (is_flexible = TRUE AND $2))
ORDER BY full_name ASC`
	var staff []models.StaffMember
	if err := r.db.SelectContext(ctx, &staff, query, schoolID, includeFlexible); err != nil {
		return nil, fmt.Errorf("list substitute candidates: %w", err)
	}
	return staff, nil
}

// QualifiedClassGroups returns the class group ids a staff member may cover.
func (r *StaffRepository) QualifiedClassGroups(ctx context.Context, staffID string) ([]string, error) {
	const query = `SELECT class_group_id FROM staff_qualifications WHERE staff_id = $1`
	var groups []string
	if err := r.db.SelectContext(ctx, &groups, query, staffID); err != nil {
		return nil, fmt.Errorf("list staff qualifications: %w", err)
	}
	return groups, nil
}
