package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/childcare-cover-api/internal/models"
	appErrors "github.com/noah-isme/childcare-cover-api/pkg/errors"
	"github.com/noah-isme/childcare-cover-api/pkg/export"
)

type requestAssignmentReader interface {
	ListActiveByRequest(ctx context.Context, requestID string) ([]models.AssignmentDetail, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportResult carries a rendered coverage sheet.
type ExportResult struct {
	Bytes       []byte
	ContentType string
	Filename    string
}

// ExportService renders printable coverage sheets for an absence: every
// shift, its state, and the substitute holding it.
type ExportService struct {
	coverage    coverageReader
	assignments requestAssignmentReader
	csv         csvRenderer
	pdf         pdfRenderer
	logger      *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(coverage coverageReader, assignments requestAssignmentReader, csv csvRenderer, pdf pdfRenderer, logger *zap.Logger) *ExportService {
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		coverage:    coverage,
		assignments: assignments,
		csv:         csv,
		pdf:         pdf,
		logger:      logger,
	}
}

var coverageSheetHeaders = []string{"Date", "Day", "Time Slot", "Classroom", "Class Group", "Status", "Substitute"}

// CoverageSheet renders the absence's shift grid in the requested format
// ("csv" or "pdf").
func (s *ExportService) CoverageSheet(ctx context.Context, absenceID, format string) (*ExportResult, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = "pdf"
	}
	if format != "pdf" && format != "csv" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be pdf or csv")
	}

	absence, err := s.coverage.FindAbsence(ctx, absenceID)
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
	shifts, err := s.coverage.ListShifts(ctx, request.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load coverage request shifts")
	}
	assignments, err := s.assignments.ListActiveByRequest(ctx, request.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignments")
	}

	subByShiftID := make(map[string]string, len(assignments))
	subByKey := make(map[models.ShiftKey]string, len(assignments))
	for _, assignment := range assignments {
		if assignment.CoverageRequestShiftID != nil {
			subByShiftID[*assignment.CoverageRequestShiftID] = assignment.SubName
		}
		subByKey[assignment.Key()] = assignment.SubName
	}

	dataset := export.Dataset{Headers: coverageSheetHeaders}
	for _, shift := range shifts {
		if shift.Status == models.ShiftCancelled {
			continue
		}
		subName := subByShiftID[shift.ID]
		if subName == "" {
			subName = subByKey[shift.Key()]
		}
		row := map[string]string{
			"Date":        shift.Date.Format(models.DateLayout),
			"Day":         shift.DayOfWeekID,
			"Time Slot":   shift.TimeSlotID,
			"Classroom":   deref(shift.ClassroomID),
			"Class Group": deref(shift.ClassGroupID),
			"Status":      shift.Status,
			"Substitute":  subName,
		}
		dataset.Rows = append(dataset.Rows, row)
	}

	title := fmt.Sprintf("Coverage sheet %s to %s", absence.StartDate.Format(models.DateLayout), absence.EndDate.Format(models.DateLayout))
	filename := fmt.Sprintf("coverage-%s.%s", absence.ID, format)

	var rendered []byte
	var contentType string
	switch format {
	case "csv":
		rendered, err = s.csv.Render(dataset)
		contentType = "text/csv"
	default:
		rendered, err = s.pdf.Render(dataset, title)
		contentType = "application/pdf"
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render coverage sheet")
	}

	return &ExportResult{Bytes: rendered, ContentType: contentType, Filename: filename}, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
