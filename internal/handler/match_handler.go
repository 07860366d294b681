package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/childcare-cover-api/internal/dto"
	appErrors "github.com/noah-isme/childcare-cover-api/pkg/errors"
	"github.com/noah-isme/childcare-cover-api/pkg/response"
)

type subMatcher interface {
	FindSubs(ctx context.Context, req dto.FindSubsRequest) (*dto.FindSubsResponse, error)
}

// MatchHandler exposes the substitute matching endpoint.
type MatchHandler struct {
	service subMatcher
}

// NewMatchHandler constructs the handler.
func NewMatchHandler(svc subMatcher) *MatchHandler {
	return &MatchHandler{service: svc}
}

// FindSubs godoc
// @Summary Find eligible substitutes for an absence
// @Description Scores every eligible roster member against the absence's shifts and returns ranked candidates plus recommended combinations.
// @Tags Coverage
// @Produce json
// @Param id path string true "Absence ID"
// @Param includeFlexible query boolean false "Include flexible staff"
// @Param includePast query boolean false "Include shifts whose date has passed"
// @Success 200 {object} response.Envelope
// @Router /absences/{id}/subs [get]
func (h *MatchHandler) FindSubs(c *gin.Context) {
	req := dto.FindSubsRequest{
		AbsenceID:            c.Param("id"),
		IncludeFlexibleStaff: parseBool(c.Query("includeFlexible")),
		IncludePastShifts:    parseBool(c.Query("includePast")),
	}
	if req.AbsenceID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "absence id is required"))
		return
	}

	result, err := h.service.FindSubs(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

func parseBool(raw string) bool {
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false
	}
	return value
}
