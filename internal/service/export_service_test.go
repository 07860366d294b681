package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/childcare-cover-api/internal/models"
	appErrors "github.com/noah-isme/childcare-cover-api/pkg/errors"
	"github.com/noah-isme/childcare-cover-api/pkg/export"
)

type requestAssignmentReaderStub struct {
	details []models.AssignmentDetail
	err     error
}

func (s requestAssignmentReaderStub) ListActiveByRequest(ctx context.Context, requestID string) ([]models.AssignmentDetail, error) {
	return s.details, s.err
}

type renderCapture struct {
	dataset export.Dataset
	title   string
}

func (r *renderCapture) Render(data export.Dataset, extra ...string) ([]byte, error) {
	r.dataset = data
	if len(extra) > 0 {
		r.title = extra[0]
	}
	return []byte("rendered"), nil
}

type csvRendererStub struct{ capture *renderCapture }

func (s csvRendererStub) Render(data export.Dataset) ([]byte, error) {
	return s.capture.Render(data)
}

type pdfRendererStub struct{ capture *renderCapture }

func (s pdfRendererStub) Render(data export.Dataset, title string) ([]byte, error) {
	return s.capture.Render(data, title)
}

func TestExportServiceCoverageSheetCSV(t *testing.T) {
	shiftDetail := "s2"
	coverage := coverageReaderStub{
		absence: twoDayAbsence(),
		request: &models.CoverageRequest{ID: "req-1"},
		shifts: []models.CoverageRequestShift{
			mondayShift("s1"),
			func() models.CoverageRequestShift {
				s := tuesdayShift("s2")
				s.Status = models.ShiftAssigned
				return s
			}(),
		},
	}
	assignments := requestAssignmentReaderStub{details: []models.AssignmentDetail{{
		SubAssignment: models.SubAssignment{
			CoverageRequestShiftID: &shiftDetail,
			SubID:                  "sub-alice",
			Date:                   time.Date(2026, 9, 8, 0, 0, 0, 0, time.UTC),
			TimeSlotID:             "slot-1",
		},
		SubName: "Alice",
	}}}
	capture := &renderCapture{}

	svc := NewExportService(coverage, assignments, csvRendererStub{capture}, pdfRendererStub{capture}, nil)

	result, err := svc.CoverageSheet(context.Background(), "abs-1", "csv")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", result.ContentType)
	assert.Equal(t, "coverage-abs-1.csv", result.Filename)
	assert.Equal(t, []byte("rendered"), result.Bytes)

	require.Len(t, capture.dataset.Rows, 2)
	assert.Equal(t, "", capture.dataset.Rows[0]["Substitute"])
	assert.Equal(t, "Alice", capture.dataset.Rows[1]["Substitute"])
	assert.Equal(t, models.ShiftAssigned, capture.dataset.Rows[1]["Status"])
}

func TestExportServiceCoverageSheetDefaultsToPDF(t *testing.T) {
	coverage := coverageReaderStub{
		absence: twoDayAbsence(),
		request: &models.CoverageRequest{ID: "req-1"},
		shifts:  []models.CoverageRequestShift{mondayShift("s1")},
	}
	capture := &renderCapture{}

	svc := NewExportService(coverage, requestAssignmentReaderStub{}, csvRendererStub{capture}, pdfRendererStub{capture}, nil)

	result, err := svc.CoverageSheet(context.Background(), "abs-1", "")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", result.ContentType)
	assert.Contains(t, capture.title, "2026-09-07")
}

func TestExportServiceCoverageSheetSkipsCancelled(t *testing.T) {
	cancelled := mondayShift("s1")
	cancelled.Status = models.ShiftCancelled
	coverage := coverageReaderStub{
		absence: twoDayAbsence(),
		request: &models.CoverageRequest{ID: "req-1"},
		shifts:  []models.CoverageRequestShift{cancelled, tuesdayShift("s2")},
	}
	capture := &renderCapture{}

	svc := NewExportService(coverage, requestAssignmentReaderStub{}, csvRendererStub{capture}, pdfRendererStub{capture}, nil)

	_, err := svc.CoverageSheet(context.Background(), "abs-1", "csv")
	require.NoError(t, err)
	require.Len(t, capture.dataset.Rows, 1)
	assert.Equal(t, "2026-09-08", capture.dataset.Rows[0]["Date"])
}

func TestExportServiceCoverageSheetRejectsUnknownFormat(t *testing.T) {
	svc := NewExportService(coverageReaderStub{}, requestAssignmentReaderStub{}, nil, nil, nil)

	_, err := svc.CoverageSheet(context.Background(), "abs-1", "xlsx")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestExportServiceCoverageSheetAbsenceNotFound(t *testing.T) {
	svc := NewExportService(coverageReaderStub{absenceErr: sql.ErrNoRows}, requestAssignmentReaderStub{}, nil, nil, nil)

	_, err := svc.CoverageSheet(context.Background(), "missing", "csv")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
