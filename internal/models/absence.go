package models

import "time"

// Absence is a staff time-off request whose shifts need substitute coverage.
type Absence struct {
	ID                string    `db:"id" json:"id"`
	SchoolID          string    `db:"school_id" json:"school_id"`
	TeacherID         string    `db:"teacher_id" json:"teacher_id"`
	StartDate         time.Time `db:"start_date" json:"start_date"`
	EndDate           time.Time `db:"end_date" json:"end_date"`
	Status            string    `db:"status" json:"status"`
	CoverageRequestID *string   `db:"coverage_request_id" json:"coverage_request_id,omitempty"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
}

// Coverage request lifecycle states.
const (
	CoverageRequestOpen    = "open"
	CoverageRequestCovered = "covered"
	CoverageRequestClosed  = "closed"
)

// CoverageRequest groups all shifts needing substitutes for one absence.
type CoverageRequest struct {
	ID        string    `db:"id" json:"id"`
	SchoolID  string    `db:"school_id" json:"school_id"`
	AbsenceID string    `db:"absence_id" json:"absence_id"`
	TeacherID string    `db:"teacher_id" json:"teacher_id"`
	Status    string    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Per-shift coverage states.
const (
	ShiftUnassigned = "unassigned"
	ShiftAssigned   = "assigned"
	ShiftReassigned = "reassigned"
	ShiftCancelled  = "cancelled"
)

// CoverageRequestShift is one (date, time slot, classroom) unit of coverage need.
type CoverageRequestShift struct {
	ID                string    `db:"id" json:"id"`
	CoverageRequestID string    `db:"coverage_request_id" json:"coverage_request_id"`
	Date              time.Time `db:"date" json:"date"`
	DayOfWeekID       string    `db:"day_of_week_id" json:"day_of_week_id"`
	TimeSlotID        string    `db:"time_slot_id" json:"time_slot_id"`
	ClassGroupID      *string   `db:"class_group_id" json:"class_group_id,omitempty"`
	ClassroomID       *string   `db:"classroom_id" json:"classroom_id,omitempty"`
	Status            string    `db:"status" json:"status"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
}

// Key returns the shift's composite identity within an absence.
func (s CoverageRequestShift) Key() ShiftKey {
	return NewShiftKey(s.Date, s.TimeSlotID)
}

// Active reports whether the shift still needs coverage.
func (s CoverageRequestShift) Active() bool {
	return s.Status == ShiftUnassigned
}
