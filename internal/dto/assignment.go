package dto

// AssignShiftsRequest is the payload committing a substitute to shifts.
type AssignShiftsRequest struct {
	CoverageRequestID string   `json:"-" validate:"required"`
	SubID             string   `json:"sub_id" validate:"required"`
	ShiftIDs          []string `json:"shift_ids" validate:"required,min=1,dive,required"`
}

// AssignedShift describes one shift committed to the substitute.
type AssignedShift struct {
	AssignmentID string  `json:"assignment_id"`
	ShiftID      string  `json:"shift_id"`
	Date         string  `json:"date"`
	TimeSlotID   string  `json:"time_slot_id"`
	ClassroomID  string  `json:"classroom_id"`
	ClassGroupID *string `json:"class_group_id,omitempty"`
}

// AssignShiftsResponse confirms a committed assignment set.
type AssignShiftsResponse struct {
	AssignmentsCreated bool            `json:"assignments_created"`
	AssignedCount      int             `json:"assigned_count"`
	AssignedShifts     []AssignedShift `json:"assigned_shifts"`
	RequestCovered     bool            `json:"request_covered"`
}
