package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/childcare-cover-api/internal/service"
	appErrors "github.com/noah-isme/childcare-cover-api/pkg/errors"
	"github.com/noah-isme/childcare-cover-api/pkg/response"
)

type coverageExporter interface {
	CoverageSheet(ctx context.Context, absenceID, format string) (*service.ExportResult, error)
}

// ExportHandler serves printable coverage sheets.
type ExportHandler struct {
	service coverageExporter
}

// NewExportHandler constructs the handler.
func NewExportHandler(svc coverageExporter) *ExportHandler {
	return &ExportHandler{service: svc}
}

// CoverageSheet godoc
// @Summary Download the coverage sheet for an absence
// @Tags Coverage
// @Produce application/pdf
// @Param id path string true "Absence ID"
// @Param format query string false "pdf or csv" default(pdf)
// @Success 200 {file} binary
// @Router /absences/{id}/coverage-sheet [get]
func (h *ExportHandler) CoverageSheet(c *gin.Context) {
	absenceID := c.Param("id")
	if absenceID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "absence id is required"))
		return
	}

	result, err := h.service.CoverageSheet(c.Request.Context(), absenceID, c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Data(http.StatusOK, result.ContentType, result.Bytes)
}
