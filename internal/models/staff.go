package models

import "time"

// StaffMember represents a roster entry: a teacher, a dedicated substitute,
// or flexible staff who may cover shifts when not otherwise teaching.
type StaffMember struct {
	ID           string    `db:"id" json:"id"`
	SchoolID     string    `db:"school_id" json:"school_id"`
	FullName     string    `db:"full_name" json:"full_name"`
	Email        string    `db:"email" json:"email"`
	Phone        *string   `db:"phone" json:"phone,omitempty"`
	IsSubstitute bool      `db:"is_substitute" json:"is_substitute"`
	IsFlexible   bool      `db:"is_flexible" json:"is_flexible"`
	Active       bool      `db:"active" json:"active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// WeeklyAvailability is a recurring availability record for one weekly slot.
type WeeklyAvailability struct {
	ID          string `db:"id" json:"id"`
	StaffID     string `db:"staff_id" json:"staff_id"`
	DayOfWeekID string `db:"day_of_week_id" json:"day_of_week_id"`
	TimeSlotID  string `db:"time_slot_id" json:"time_slot_id"`
	Available   bool   `db:"available" json:"available"`
}

// AvailabilityException overrides the weekly record for one exact date and
// time slot.
type AvailabilityException struct {
	ID         string    `db:"id" json:"id"`
	StaffID    string    `db:"staff_id" json:"staff_id"`
	Date       time.Time `db:"date" json:"date"`
	TimeSlotID string    `db:"time_slot_id" json:"time_slot_id"`
	Available  bool      `db:"available" json:"available"`
}

// TeachingSlot is one recurring slot in a staff member's own teaching
// schedule.
type TeachingSlot struct {
	ID           string  `db:"id" json:"id"`
	StaffID      string  `db:"staff_id" json:"staff_id"`
	DayOfWeekID  string  `db:"day_of_week_id" json:"day_of_week_id"`
	TimeSlotID   string  `db:"time_slot_id" json:"time_slot_id"`
	ClassroomID  *string `db:"classroom_id" json:"classroom_id,omitempty"`
	ClassGroupID *string `db:"class_group_id" json:"class_group_id,omitempty"`
}

// TimeOffShift is one approved time-off slot owned by a staff member.
type TimeOffShift struct {
	ID         string    `db:"id" json:"id"`
	StaffID    string    `db:"staff_id" json:"staff_id"`
	Date       time.Time `db:"date" json:"date"`
	TimeSlotID string    `db:"time_slot_id" json:"time_slot_id"`
	Status     string    `db:"status" json:"status"`
}
