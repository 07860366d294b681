package models

import "time"

// DateLayout is the wire format for shift dates.
const DateLayout = "2006-01-02"

// ShiftKey identifies a shift by date and time slot. Two shifts with equal
// keys occupy the same wall-clock span, so one person can hold at most one
// of them.
type ShiftKey struct {
	Date       string `json:"date"`
	TimeSlotID string `json:"time_slot_id"`
}

// NewShiftKey builds a ShiftKey from a date and time slot.
func NewShiftKey(date time.Time, timeSlotID string) ShiftKey {
	return ShiftKey{Date: date.Format(DateLayout), TimeSlotID: timeSlotID}
}

// SlotKey identifies a recurring weekly slot.
type SlotKey struct {
	DayOfWeekID string `json:"day_of_week_id"`
	TimeSlotID  string `json:"time_slot_id"`
}

// Reasons a candidate cannot cover a shift, in evaluation precedence order.
const (
	ReasonUnavailable      = "unavailable"
	ReasonScheduledToTeach = "scheduled_to_teach"
	ReasonHasTimeOff       = "has_time_off"
	ReasonNotQualified     = "not_qualified"
)

// ShiftVerdict describes one shift from a single candidate's perspective.
type ShiftVerdict struct {
	ShiftID      string  `json:"shift_id"`
	Date         string  `json:"date"`
	DayOfWeekID  string  `json:"day_of_week_id"`
	TimeSlotID   string  `json:"time_slot_id"`
	ClassGroupID *string `json:"class_group_id,omitempty"`
	ClassroomID  *string `json:"classroom_id,omitempty"`
	Reason       string  `json:"reason,omitempty"`
}

// SubMatch aggregates one candidate's coverage picture for an absence.
type SubMatch struct {
	StaffID              string         `json:"staff_id"`
	FullName             string         `json:"full_name"`
	Email                string         `json:"email"`
	Phone                *string        `json:"phone,omitempty"`
	IsFlexible           bool           `json:"is_flexible"`
	CoveragePercent      int            `json:"coverage_percent"`
	ShiftsCovered        int            `json:"shifts_covered"`
	TotalShifts          int            `json:"total_shifts"`
	CanCover             []ShiftVerdict `json:"can_cover"`
	CannotCover          []ShiftVerdict `json:"cannot_cover"`
	AssignedShifts       []ShiftVerdict `json:"assigned_shifts"`
	QualificationMatches int            `json:"qualification_matches"`
	QualificationTotal   int            `json:"qualification_total"`
}

// CombinationMember pairs a candidate with the shifts the combination
// allocates to them.
type CombinationMember struct {
	StaffID         string   `json:"staff_id"`
	FullName        string   `json:"full_name"`
	CoveragePercent int      `json:"coverage_percent"`
	ShiftIDs        []string `json:"shift_ids"`
}

// Combination is a ranked set of candidates jointly covering an absence.
// Combinations are computed per request and never persisted.
type Combination struct {
	Members         []CombinationMember `json:"members"`
	ShiftsCovered   int                 `json:"shifts_covered"`
	TotalShifts     int                 `json:"total_shifts"`
	CoveragePercent int                 `json:"coverage_percent"`
}
