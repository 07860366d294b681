package models

import "time"

// Assignment lifecycle states. An assignment is never mutated in place:
// reassignment or cancellation transitions it out of the active state.
const (
	AssignmentActive     = "assigned"
	AssignmentReassigned = "reassigned"
	AssignmentCancelled  = "cancelled"
)

// AssignmentTypeSubstitute marks assignments produced by the sub finder.
const AssignmentTypeSubstitute = "substitute"

// SubAssignment is the durable record of a substitute covering one shift.
// At most one active assignment may exist per (sub_id, date, time_slot_id);
// the partial unique index subs_active_slot_uniq is the storage-level guard.
type SubAssignment struct {
	ID                     string    `db:"id" json:"id"`
	SchoolID               string    `db:"school_id" json:"school_id"`
	CoverageRequestID      string    `db:"coverage_request_id" json:"coverage_request_id"`
	CoverageRequestShiftID *string   `db:"coverage_request_shift_id" json:"coverage_request_shift_id,omitempty"`
	SubID                  string    `db:"sub_id" json:"sub_id"`
	TeacherID              string    `db:"teacher_id" json:"teacher_id"`
	Date                   time.Time `db:"date" json:"date"`
	TimeSlotID             string    `db:"time_slot_id" json:"time_slot_id"`
	ClassroomID            string    `db:"classroom_id" json:"classroom_id"`
	AssignmentType         string    `db:"assignment_type" json:"assignment_type"`
	Partial                bool      `db:"partial" json:"partial"`
	Status                 string    `db:"status" json:"status"`
	CreatedAt              time.Time `db:"created_at" json:"created_at"`
}

// Key returns the slot identity used for double-booking checks.
func (a SubAssignment) Key() ShiftKey {
	return NewShiftKey(a.Date, a.TimeSlotID)
}

// AssignmentDetail enriches an assignment with descriptive fields.
type AssignmentDetail struct {
	SubAssignment
	SubName     string  `db:"sub_name" json:"sub_name"`
	TeacherName *string `db:"teacher_name" json:"teacher_name,omitempty"`
}
