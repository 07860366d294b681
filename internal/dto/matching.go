package dto

import "github.com/noah-isme/childcare-cover-api/internal/models"

// FindSubsRequest captures the validated inputs of a sub search.
type FindSubsRequest struct {
	AbsenceID            string `json:"absence_id" validate:"required"`
	IncludeFlexibleStaff bool   `json:"include_flexible_staff"`
	IncludePastShifts    bool   `json:"include_past_shifts"`
}

// FindSubsResponse is the full matching result for one absence.
type FindSubsResponse struct {
	AbsenceID               string                `json:"absence_id"`
	CoverageRequestID       string                `json:"coverage_request_id"`
	TeacherID               string                `json:"teacher_id"`
	TotalShifts             int                   `json:"total_shifts"`
	Shifts                  []models.ShiftVerdict `json:"shifts"`
	Subs                    []models.SubMatch     `json:"subs"`
	RecommendedCombination  *models.Combination   `json:"recommended_combination,omitempty"`
	RecommendedCombinations []models.Combination  `json:"recommended_combinations"`
	SkippedCandidates       []SkippedCandidate    `json:"skipped_candidates,omitempty"`
}

// SkippedCandidate reports a candidate whose evaluation failed and was
// degraded out of the result instead of failing the whole search.
type SkippedCandidate struct {
	StaffID string `json:"staff_id"`
	Reason  string `json:"reason"`
}
