package service

import (
	"context"
	"database/sql"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/childcare-cover-api/internal/dto"
	"github.com/noah-isme/childcare-cover-api/internal/models"
	appErrors "github.com/noah-isme/childcare-cover-api/pkg/errors"
)

type coverageReader interface {
	FindAbsence(ctx context.Context, id string) (*models.Absence, error)
	FindRequestByAbsence(ctx context.Context, absenceID string) (*models.CoverageRequest, error)
	ListShifts(ctx context.Context, requestID string) ([]models.CoverageRequestShift, error)
}

type rosterReader interface {
	ListCandidates(ctx context.Context, schoolID string, includeFlexible bool) ([]models.StaffMember, error)
	QualifiedClassGroups(ctx context.Context, staffID string) ([]string, error)
}

type availabilityReader interface {
	ListWeekly(ctx context.Context, staffID string) ([]models.WeeklyAvailability, error)
	ListExceptions(ctx context.Context, staffID string, from, to time.Time) ([]models.AvailabilityException, error)
}

type teachingReader interface {
	ListTeachingSlots(ctx context.Context, staffID string) ([]models.TeachingSlot, error)
}

type timeOffReader interface {
	ListApprovedShifts(ctx context.Context, staffID string, from, to time.Time) ([]models.TimeOffShift, error)
}

type subAssignmentReader interface {
	ListActiveBySubBetween(ctx context.Context, subID string, from, to time.Time) ([]models.SubAssignment, error)
}

type matchObserver interface {
	ObserveMatch(duration time.Duration, candidates, combinations int)
}

// MatcherConfig bounds the matching fan-out and the combination search.
type MatcherConfig struct {
	CandidatePool      int
	MaxCombinationSize int
	TopCombinations    int
	WorkerConcurrency  int
}

// MatcherService finds eligible substitutes for an absence and ranks
// candidate combinations by coverage. Every call recomputes from storage;
// nothing is cached between requests.
type MatcherService struct {
	coverage     coverageReader
	roster       rosterReader
	availability availabilityReader
	teaching     teachingReader
	timeOff      timeOffReader
	assignments  subAssignmentReader
	metrics      matchObserver
	validator    *validator.Validate
	logger       *zap.Logger
	cfg          MatcherConfig
	now          func() time.Time
}

// NewMatcherService wires matcher dependencies.
func NewMatcherService(
	coverage coverageReader,
	roster rosterReader,
	availability availabilityReader,
	teaching teachingReader,
	timeOff timeOffReader,
	assignments subAssignmentReader,
	metrics matchObserver,
	validate *validator.Validate,
	logger *zap.Logger,
	cfg MatcherConfig,
) *MatcherService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.CandidatePool <= 0 {
		cfg.CandidatePool = 15
	}
	if cfg.MaxCombinationSize <= 0 {
		cfg.MaxCombinationSize = 3
	}
	if cfg.TopCombinations <= 0 {
		cfg.TopCombinations = 5
	}
	if cfg.WorkerConcurrency <= 0 {
		cfg.WorkerConcurrency = 8
	}
	return &MatcherService{
		coverage:     coverage,
		roster:       roster,
		availability: availability,
		teaching:     teaching,
		timeOff:      timeOff,
		assignments:  assignments,
		metrics:      metrics,
		validator:    validate,
		logger:       logger,
		cfg:          cfg,
		now:          time.Now,
	}
}

// FindSubs scores every eligible roster member against the absence's shifts
// and returns ranked candidates plus recommended combinations.
func (s *MatcherService) FindSubs(ctx context.Context, req dto.FindSubsRequest) (*dto.FindSubsResponse, error) {
	start := s.now()

	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid find subs payload")
	}

	absence, err := s.coverage.FindAbsence(ctx, req.AbsenceID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "absence not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load absence")
	}

	request, err := s.coverage.FindRequestByAbsence(ctx, absence.ID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "coverage request not found for absence")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load coverage request")
	}

	rawShifts, err := s.coverage.ListShifts(ctx, request.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load coverage request shifts")
	}

	shifts := s.normalizeShifts(rawShifts, absence.StartDate, absence.EndDate, req.IncludePastShifts)

	candidates, err := s.roster.ListCandidates(ctx, absence.SchoolID, req.IncludeFlexibleStaff)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load substitute roster")
	}

	matches, skipped := s.evaluateCandidates(ctx, candidates, absence, shifts)

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].CoveragePercent != matches[j].CoveragePercent {
			return matches[i].CoveragePercent > matches[j].CoveragePercent
		}
		if matches[i].ShiftsCovered != matches[j].ShiftsCovered {
			return matches[i].ShiftsCovered > matches[j].ShiftsCovered
		}
		return matches[i].FullName < matches[j].FullName
	})

	remaining := make([]models.CoverageRequestShift, 0, len(shifts))
	for _, shift := range shifts {
		if shift.Active() {
			remaining = append(remaining, shift)
		}
	}

	combinations := bestCombinations(matches, remaining, s.cfg.CandidatePool, s.cfg.MaxCombinationSize, s.cfg.TopCombinations)

	resp := &dto.FindSubsResponse{
		AbsenceID:               absence.ID,
		CoverageRequestID:       request.ID,
		TeacherID:               absence.TeacherID,
		TotalShifts:             len(shifts),
		Shifts:                  shiftDescriptors(shifts),
		Subs:                    matches,
		RecommendedCombinations: combinations,
		SkippedCandidates:       skipped,
	}
	if len(combinations) > 0 {
		resp.RecommendedCombination = &combinations[0]
	}

	if s.metrics != nil {
		s.metrics.ObserveMatch(s.now().Sub(start), len(candidates), len(combinations))
	}
	return resp, nil
}

// normalizeShifts builds the canonical shift list for one absence: cancelled
// rows are dropped, the absence's date window is enforced, past shifts are
// excluded unless requested, and duplicate (date, slot, classroom) rows
// collapse to the first occurrence.
func (s *MatcherService) normalizeShifts(raw []models.CoverageRequestShift, from, to time.Time, includePast bool) []models.CoverageRequestShift {
	today := s.now().Format(models.DateLayout)

	type identity struct {
		key       models.ShiftKey
		classroom string
	}
	seen := make(map[identity]struct{}, len(raw))

	shifts := make([]models.CoverageRequestShift, 0, len(raw))
	for _, shift := range raw {
		if shift.Status == models.ShiftCancelled {
			continue
		}
		if shift.Date.Before(truncateToDay(from)) || shift.Date.After(endOfDay(to)) {
			continue
		}
		if !includePast && shift.Date.Format(models.DateLayout) < today {
			continue
		}
		id := identity{key: shift.Key()}
		if shift.ClassroomID != nil {
			id.classroom = *shift.ClassroomID
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		shifts = append(shifts, shift)
	}
	return shifts
}

// evaluateCandidates fans candidate scoring out over a bounded worker pool.
// A single candidate's failure degrades that candidate, never the search.
func (s *MatcherService) evaluateCandidates(ctx context.Context, candidates []models.StaffMember, absence *models.Absence, shifts []models.CoverageRequestShift) ([]models.SubMatch, []dto.SkippedCandidate) {
	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		matches = make([]models.SubMatch, 0, len(candidates))
		skipped []dto.SkippedCandidate
	)

	sem := make(chan struct{}, s.cfg.WorkerConcurrency)
	for _, candidate := range candidates {
		if candidate.ID == absence.TeacherID {
			continue
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(cand models.StaffMember) {
			defer wg.Done()
			defer func() { <-sem }()

			match, err := s.evaluateCandidate(ctx, cand, absence, shifts)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				s.logger.Warn("candidate evaluation skipped",
					zap.String("staff_id", cand.ID),
					zap.Error(err),
				)
				skipped = append(skipped, dto.SkippedCandidate{StaffID: cand.ID, Reason: "evaluation failed"})
				return
			}
			matches = append(matches, *match)
		}(candidate)
	}
	wg.Wait()

	sort.SliceStable(skipped, func(i, j int) bool { return skipped[i].StaffID < skipped[j].StaffID })
	return matches, skipped
}

// evaluateCandidate resolves one candidate against every shift. Per shift the
// checks run in fixed precedence and stop at the first failure:
// unavailable, then scheduled_to_teach, then has_time_off, then not_qualified.
func (s *MatcherService) evaluateCandidate(ctx context.Context, cand models.StaffMember, absence *models.Absence, shifts []models.CoverageRequestShift) (*models.SubMatch, error) {
	weekly, err := s.availability.ListWeekly(ctx, cand.ID)
	if err != nil {
		return nil, err
	}
	exceptions, err := s.availability.ListExceptions(ctx, cand.ID, absence.StartDate, absence.EndDate)
	if err != nil {
		return nil, err
	}
	teachingSlots, err := s.teaching.ListTeachingSlots(ctx, cand.ID)
	if err != nil {
		return nil, err
	}
	timeOffShifts, err := s.timeOff.ListApprovedShifts(ctx, cand.ID, absence.StartDate, absence.EndDate)
	if err != nil {
		return nil, err
	}
	qualifications, err := s.roster.QualifiedClassGroups(ctx, cand.ID)
	if err != nil {
		return nil, err
	}
	existing, err := s.assignments.ListActiveBySubBetween(ctx, cand.ID, absence.StartDate, absence.EndDate)
	if err != nil {
		return nil, err
	}

	weeklyByDaySlot := make(map[models.SlotKey]bool, len(weekly))
	for _, record := range weekly {
		weeklyByDaySlot[models.SlotKey{DayOfWeekID: record.DayOfWeekID, TimeSlotID: record.TimeSlotID}] = record.Available
	}
	exceptionByKey := make(map[models.ShiftKey]bool, len(exceptions))
	for _, record := range exceptions {
		exceptionByKey[models.NewShiftKey(record.Date, record.TimeSlotID)] = record.Available
	}
	teachingByDaySlot := make(map[models.SlotKey]struct{}, len(teachingSlots))
	for _, slot := range teachingSlots {
		teachingByDaySlot[models.SlotKey{DayOfWeekID: slot.DayOfWeekID, TimeSlotID: slot.TimeSlotID}] = struct{}{}
	}
	timeOffByKey := make(map[models.ShiftKey]struct{}, len(timeOffShifts))
	for _, shift := range timeOffShifts {
		timeOffByKey[models.NewShiftKey(shift.Date, shift.TimeSlotID)] = struct{}{}
	}
	qualified := make(map[string]struct{}, len(qualifications))
	for _, group := range qualifications {
		qualified[group] = struct{}{}
	}
	assignedByKey := make(map[models.ShiftKey]struct{}, len(existing))
	for _, assignment := range existing {
		assignedByKey[assignment.Key()] = struct{}{}
	}

	match := &models.SubMatch{
		StaffID:     cand.ID,
		FullName:    cand.FullName,
		Email:       cand.Email,
		Phone:       cand.Phone,
		IsFlexible:  cand.IsFlexible && !cand.IsSubstitute,
		TotalShifts: len(shifts),
	}

	covered := 0
	for _, shift := range shifts {
		verdict := newVerdict(shift)
		key := shift.Key()
		slot := models.SlotKey{DayOfWeekID: shift.DayOfWeekID, TimeSlotID: shift.TimeSlotID}

		isQualified := true
		if shift.ClassGroupID != nil {
			match.QualificationTotal++
			if _, ok := qualified[*shift.ClassGroupID]; ok {
				match.QualificationMatches++
			} else {
				isQualified = false
			}
		}

		if _, alreadyAssigned := assignedByKey[key]; alreadyAssigned {
			match.AssignedShifts = append(match.AssignedShifts, verdict)
			covered++
			continue
		}

		switch {
		case !resolveAvailability(weeklyByDaySlot, exceptionByKey, slot, key):
			verdict.Reason = models.ReasonUnavailable
		case hasSlot(teachingByDaySlot, slot):
			verdict.Reason = models.ReasonScheduledToTeach
		case hasKey(timeOffByKey, key):
			verdict.Reason = models.ReasonHasTimeOff
		case !isQualified:
			verdict.Reason = models.ReasonNotQualified
		}

		if verdict.Reason != "" {
			match.CannotCover = append(match.CannotCover, verdict)
			continue
		}
		match.CanCover = append(match.CanCover, verdict)
		covered++
	}

	match.ShiftsCovered = covered
	match.CoveragePercent = coveragePercent(covered, len(shifts))
	return match, nil
}

// resolveAvailability merges the weekly record with any dated exception; an
// exception for the exact (date, slot) always wins. No record means
// unavailable.
func resolveAvailability(weekly map[models.SlotKey]bool, exceptions map[models.ShiftKey]bool, slot models.SlotKey, key models.ShiftKey) bool {
	if available, ok := exceptions[key]; ok {
		return available
	}
	if available, ok := weekly[slot]; ok {
		return available
	}
	return false
}

func hasSlot(set map[models.SlotKey]struct{}, slot models.SlotKey) bool {
	_, ok := set[slot]
	return ok
}

func hasKey(set map[models.ShiftKey]struct{}, key models.ShiftKey) bool {
	_, ok := set[key]
	return ok
}

// coveragePercent rounds to the nearest whole percent; zero shifts yields
// zero, never NaN.
func coveragePercent(covered, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(covered) / float64(total)))
}

func newVerdict(shift models.CoverageRequestShift) models.ShiftVerdict {
	return models.ShiftVerdict{
		ShiftID:      shift.ID,
		Date:         shift.Date.Format(models.DateLayout),
		DayOfWeekID:  shift.DayOfWeekID,
		TimeSlotID:   shift.TimeSlotID,
		ClassGroupID: shift.ClassGroupID,
		ClassroomID:  shift.ClassroomID,
	}
}

func shiftDescriptors(shifts []models.CoverageRequestShift) []models.ShiftVerdict {
	descriptors := make([]models.ShiftVerdict, 0, len(shifts))
	for _, shift := range shifts {
		descriptors = append(descriptors, newVerdict(shift))
	}
	return descriptors
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}
