package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/childcare-cover-api/internal/dto"
	"github.com/noah-isme/childcare-cover-api/internal/middleware"
	"github.com/noah-isme/childcare-cover-api/internal/models"
	appErrors "github.com/noah-isme/childcare-cover-api/pkg/errors"
)

type assignmentServiceMock struct {
	resp      *dto.AssignShiftsResponse
	err       error
	lastReq   dto.AssignShiftsRequest
	lastActor *models.JWTClaims
}

func (m *assignmentServiceMock) AssignShifts(ctx context.Context, req dto.AssignShiftsRequest, actor *models.JWTClaims) (*dto.AssignShiftsResponse, error) {
	m.lastReq = req
	m.lastActor = actor
	if m.err != nil {
		return nil, m.err
	}
	return m.resp, nil
}

func TestAssignmentHandlerAssign(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := &assignmentServiceMock{resp: &dto.AssignShiftsResponse{
		AssignmentsCreated: true,
		AssignedCount:      2,
		RequestCovered:     true,
	}}
	handler := NewAssignmentHandler(mock)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body, _ := json.Marshal(map[string]interface{}{
		"sub_id":    "sub-alice",
		"shift_ids": []string{"s1", "s2"},
	})
	req, _ := http.NewRequest(http.MethodPost, "/coverage-requests/req-1/assignments", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "req-1"}}
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "coordinator-1", Role: models.RoleCoordinator})

	handler.Assign(c)
	require.Equal(t, http.StatusCreated, w.Code)

	assert.Equal(t, "req-1", mock.lastReq.CoverageRequestID)
	assert.Equal(t, "sub-alice", mock.lastReq.SubID)
	assert.Equal(t, []string{"s1", "s2"}, mock.lastReq.ShiftIDs)
	require.NotNil(t, mock.lastActor)
	assert.Equal(t, "coordinator-1", mock.lastActor.UserID)

	var envelope struct {
		Data dto.AssignShiftsResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.True(t, envelope.Data.AssignmentsCreated)
	assert.Equal(t, 2, envelope.Data.AssignedCount)
}

func TestAssignmentHandlerAssignInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewAssignmentHandler(&assignmentServiceMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/coverage-requests/req-1/assignments", bytes.NewReader([]byte(`not-json`)))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "req-1"}}

	handler.Assign(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAssignmentHandlerAssignConflict(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewAssignmentHandler(&assignmentServiceMock{err: appErrors.Clone(appErrors.ErrDoubleBooked, "Alice is already assigned on 2026-09-07 (time slot slot-1)")})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body, _ := json.Marshal(map[string]interface{}{
		"sub_id":    "sub-alice",
		"shift_ids": []string{"s1"},
	})
	req, _ := http.NewRequest(http.MethodPost, "/coverage-requests/req-1/assignments", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "req-1"}}

	handler.Assign(c)
	require.Equal(t, http.StatusConflict, w.Code)

	var envelope struct {
		Error *appErrors.Error `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Error)
	assert.Equal(t, appErrors.ErrDoubleBooked.Code, envelope.Error.Code)
}
