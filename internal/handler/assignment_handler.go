package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/childcare-cover-api/internal/dto"
	"github.com/noah-isme/childcare-cover-api/internal/models"
	appErrors "github.com/noah-isme/childcare-cover-api/pkg/errors"
	"github.com/noah-isme/childcare-cover-api/pkg/response"
)

type shiftAssigner interface {
	AssignShifts(ctx context.Context, req dto.AssignShiftsRequest, actor *models.JWTClaims) (*dto.AssignShiftsResponse, error)
}

// AssignmentHandler exposes the assignment commit endpoint.
type AssignmentHandler struct {
	service shiftAssigner
}

// NewAssignmentHandler constructs the handler.
func NewAssignmentHandler(svc shiftAssigner) *AssignmentHandler {
	return &AssignmentHandler{service: svc}
}

// Assign godoc
// @Summary Assign a substitute to coverage request shifts
// @Description Commits the substitute to the selected shifts. The whole selection lands or none of it does; double-bookings are rejected with a conflict.
// @Tags Coverage
// @Accept json
// @Produce json
// @Param id path string true "Coverage request ID"
// @Param payload body dto.AssignShiftsRequest true "Assignment payload"
// @Success 201 {object} response.Envelope
// @Router /coverage-requests/{id}/assignments [post]
func (h *AssignmentHandler) Assign(c *gin.Context) {
	var req dto.AssignShiftsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid assignment payload"))
		return
	}
	req.CoverageRequestID = c.Param("id")

	result, err := h.service.AssignShifts(c.Request.Context(), req, currentClaims(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}
