package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/childcare-cover-api/internal/dto"
	"github.com/noah-isme/childcare-cover-api/internal/models"
	"github.com/noah-isme/childcare-cover-api/internal/repository"
	appErrors "github.com/noah-isme/childcare-cover-api/pkg/errors"
)

type coverageTxRepo interface {
	FindRequest(ctx context.Context, id string) (*models.CoverageRequest, error)
	ListActiveShifts(ctx context.Context, requestID string) ([]models.CoverageRequestShift, error)
	MarkShiftsAssignedWithTx(ctx context.Context, tx *sqlx.Tx, shiftIDs []string) error
	MarkRequestCoveredWithTx(ctx context.Context, tx *sqlx.Tx, requestID string) (bool, error)
}

type staffReader interface {
	FindByID(ctx context.Context, id string) (*models.StaffMember, error)
}

type classroomResolver interface {
	FindClassroomForSlot(ctx context.Context, teacherID, dayOfWeekID, timeSlotID string) (*string, error)
}

type assignmentWriter interface {
	ListCollisions(ctx context.Context, subID string, keys []models.ShiftKey) ([]models.SubAssignment, error)
	BulkCreateWithTx(ctx context.Context, tx *sqlx.Tx, assignments []models.SubAssignment) error
}

type auditWriter interface {
	CreateAuditLog(ctx context.Context, entry *models.AuditLog) error
}

type txBeginner interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

type slotLocker interface {
	Acquire(ctx context.Context, subID string, keys []models.ShiftKey) (func(), error)
}

type assignObserver interface {
	AddAssignments(n int)
	IncDoubleBooking()
}

// AssignmentService commits a substitute to shifts of a coverage request.
// Steps before the transaction are pure validation and freely retryable; the
// batch insert plus shift transition is the only mutating phase and is atomic
// at the request level.
type AssignmentService struct {
	coverage    coverageTxRepo
	staff       staffReader
	schedules   classroomResolver
	assignments assignmentWriter
	audits      auditWriter
	tx          txBeginner
	locks       slotLocker
	metrics     assignObserver
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewAssignmentService wires assignment dependencies. locks may be nil; the
// storage unique index remains the final double-booking backstop.
func NewAssignmentService(
	coverage coverageTxRepo,
	staff staffReader,
	schedules classroomResolver,
	assignments assignmentWriter,
	audits auditWriter,
	tx txBeginner,
	locks slotLocker,
	metrics assignObserver,
	validate *validator.Validate,
	logger *zap.Logger,
) *AssignmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssignmentService{
		coverage:    coverage,
		staff:       staff,
		schedules:   schedules,
		assignments: assignments,
		audits:      audits,
		tx:          tx,
		locks:       locks,
		metrics:     metrics,
		validator:   validate,
		logger:      logger,
	}
}

// AssignShifts validates the selection, rejects double-bookings, and inserts
// one assignment row per selected shift in a single transaction.
func (s *AssignmentService) AssignShifts(ctx context.Context, req dto.AssignShiftsRequest, actor *models.JWTClaims) (*dto.AssignShiftsResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment payload")
	}

	request, err := s.coverage.FindRequest(ctx, req.CoverageRequestID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "coverage request not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load coverage request")
	}

	sub, err := s.staff.FindByID(ctx, req.SubID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "substitute not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load substitute")
	}
	if !sub.Active {
		return nil, appErrors.Clone(appErrors.ErrValidation, "substitute is not active")
	}

	activeShifts, err := s.coverage.ListActiveShifts(ctx, request.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load coverage request shifts")
	}

	selected := intersectShifts(activeShifts, req.ShiftIDs)
	if len(selected) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNoValidShifts, "")
	}

	classrooms, err := s.resolveClassrooms(ctx, request.TeacherID, selected)
	if err != nil {
		return nil, err
	}

	keys := make([]models.ShiftKey, 0, len(selected))
	for _, shift := range selected {
		keys = append(keys, shift.Key())
	}

	collisions, err := s.assignments.ListCollisions(ctx, req.SubID, keys)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check existing assignments")
	}
	if len(collisions) > 0 {
		if s.metrics != nil {
			s.metrics.IncDoubleBooking()
		}
		first := collisions[0].Key()
		return nil, appErrors.Clone(appErrors.ErrDoubleBooked,
			fmt.Sprintf("%s is already assigned on %s (time slot %s)", sub.FullName, first.Date, first.TimeSlotID))
	}

	if s.locks != nil {
		release, err := s.locks.Acquire(ctx, req.SubID, keys)
		if err != nil {
			if s.metrics != nil {
				s.metrics.IncDoubleBooking()
			}
			return nil, appErrors.Clone(appErrors.ErrDoubleBooked, "a concurrent assignment for this substitute is in progress")
		}
		defer release()
	}

	rows := make([]models.SubAssignment, 0, len(selected))
	partial := len(selected) < len(activeShifts)
	for i, shift := range selected {
		shiftID := shift.ID
		rows = append(rows, models.SubAssignment{
			SchoolID:               request.SchoolID,
			CoverageRequestID:      request.ID,
			CoverageRequestShiftID: &shiftID,
			SubID:                  req.SubID,
			TeacherID:              request.TeacherID,
			Date:                   shift.Date,
			TimeSlotID:             shift.TimeSlotID,
			ClassroomID:            classrooms[i],
			AssignmentType:         models.AssignmentTypeSubstitute,
			Partial:                partial,
			Status:                 models.AssignmentActive,
		})
	}

	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to begin assignment transaction")
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := s.assignments.BulkCreateWithTx(ctx, tx, rows); err != nil {
		if repository.IsUniqueViolation(err) {
			if s.metrics != nil {
				s.metrics.IncDoubleBooking()
			}
			return nil, appErrors.Wrap(err, appErrors.ErrDoubleBooked.Code, appErrors.ErrDoubleBooked.Status, appErrors.ErrDoubleBooked.Message)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create assignments")
	}

	shiftIDs := make([]string, 0, len(selected))
	for _, shift := range selected {
		shiftIDs = append(shiftIDs, shift.ID)
	}
	if err := s.coverage.MarkShiftsAssignedWithTx(ctx, tx, shiftIDs); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to mark shifts covered")
	}
	requestCovered, err := s.coverage.MarkRequestCoveredWithTx(ctx, tx, request.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update coverage request")
	}

	if err := tx.Commit(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit assignments")
	}
	committed = true

	s.writeAudit(ctx, actor, request, req.SubID, shiftIDs)
	if s.metrics != nil {
		s.metrics.AddAssignments(len(rows))
	}

	resp := &dto.AssignShiftsResponse{
		AssignmentsCreated: true,
		AssignedCount:      len(rows),
		RequestCovered:     requestCovered,
	}
	for i, row := range rows {
		resp.AssignedShifts = append(resp.AssignedShifts, dto.AssignedShift{
			AssignmentID: row.ID,
			ShiftID:      selected[i].ID,
			Date:         row.Date.Format(models.DateLayout),
			TimeSlotID:   row.TimeSlotID,
			ClassroomID:  row.ClassroomID,
			ClassGroupID: selected[i].ClassGroupID,
		})
	}
	return resp, nil
}

// resolveClassrooms returns one classroom per selected shift, falling back to
// the absent teacher's own recurring schedule when the shift has none.
func (s *AssignmentService) resolveClassrooms(ctx context.Context, teacherID string, selected []models.CoverageRequestShift) ([]string, error) {
	classrooms := make([]string, len(selected))
	for i, shift := range selected {
		if shift.ClassroomID != nil && *shift.ClassroomID != "" {
			classrooms[i] = *shift.ClassroomID
			continue
		}
		fallback, err := s.schedules.FindClassroomForSlot(ctx, teacherID, shift.DayOfWeekID, shift.TimeSlotID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve classroom")
		}
		if fallback == nil || *fallback == "" {
			return nil, appErrors.Clone(appErrors.ErrClassroomUnresolved,
				fmt.Sprintf("no classroom could be resolved for shift on %s (time slot %s)", shift.Date.Format(models.DateLayout), shift.TimeSlotID))
		}
		classrooms[i] = *fallback
	}
	return classrooms, nil
}

func (s *AssignmentService) writeAudit(ctx context.Context, actor *models.JWTClaims, request *models.CoverageRequest, subID string, shiftIDs []string) {
	if s.audits == nil {
		return
	}
	detail, _ := json.Marshal(map[string]interface{}{
		"coverage_request_id": request.ID,
		"sub_id":              subID,
		"shift_ids":           shiftIDs,
	})
	entry := &models.AuditLog{
		Action:   "ASSIGN_SUBSTITUTE",
		Resource: "coverage_request",
		Detail:   detail,
	}
	requestID := request.ID
	entry.ResourceID = &requestID
	if actor != nil {
		actorID := actor.UserID
		entry.ActorID = &actorID
	}
	if err := s.audits.CreateAuditLog(ctx, entry); err != nil {
		s.logger.Warn("audit log write failed",
			zap.String("coverage_request_id", request.ID),
			zap.Error(err),
		)
	}
}

// intersectShifts keeps the request's active shifts whose ids were selected,
// preserving calendar order.
func intersectShifts(active []models.CoverageRequestShift, shiftIDs []string) []models.CoverageRequestShift {
	wanted := make(map[string]struct{}, len(shiftIDs))
	for _, id := range shiftIDs {
		wanted[id] = struct{}{}
	}
	selected := make([]models.CoverageRequestShift, 0, len(shiftIDs))
	for _, shift := range active {
		if _, ok := wanted[shift.ID]; ok {
			selected = append(selected, shift)
		}
	}
	return selected
}
