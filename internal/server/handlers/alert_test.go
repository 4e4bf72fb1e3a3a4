package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/Varshinibhargav-17/ExampulseAI/internal/database"
	"github.com/Varshinibhargav-17/ExampulseAI/internal/database/models"
	"github.com/Varshinibhargav-17/ExampulseAI/pkg/auth"
)

func TestListAlertsBySession(t *testing.T) {
	alerts := new(MockAlertStore)
	handler := NewAlertHandler(alerts, nil)
	helper := NewHTTPTestHelper(t)

	sessionID := uuid.New()
	alerts.On("ListBySession", mock.Anything, sessionID).Return([]models.Alert{
		{ID: uuid.New(), SessionID: sessionID, AlertType: "high_risk_behavior", Severity: models.SeverityHigh, RiskScore: 0.8},
	}, nil)

	req := helper.CreateAuthenticatedRequest(http.MethodGet, "/api/v1/alerts?session_id="+sessionID.String(), nil, uuid.New(), auth.RoleProctor)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	body := helper.AssertJSONResponse(rr, http.StatusOK)
	assert.Equal(t, true, body["success"])
}

func TestListAlertsDefaultsToUnresolved(t *testing.T) {
	alerts := new(MockAlertStore)
	handler := NewAlertHandler(alerts, nil)
	helper := NewHTTPTestHelper(t)

	alerts.On("ListUnresolved", mock.Anything, 100).Return([]models.Alert{}, nil)

	req := helper.CreateAuthenticatedRequest(http.MethodGet, "/api/v1/alerts", nil, uuid.New(), auth.RoleProctor)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	helper.AssertJSONResponse(rr, http.StatusOK)
	alerts.AssertExpectations(t)
}

func TestResolveAlert(t *testing.T) {
	alerts := new(MockAlertStore)
	handler := NewAlertHandler(alerts, nil)
	helper := NewHTTPTestHelper(t)

	proctorID := uuid.New()
	alertID := uuid.New()
	now := time.Now().UTC()
	resolved := &models.Alert{
		ID:         alertID,
		SessionID:  uuid.New(),
		AlertType:  "high_risk_behavior",
		Severity:   models.SeverityHigh,
		RiskScore:  0.8,
		Resolved:   true,
		ResolvedBy: &proctorID,
		ResolvedAt: &now,
	}
	alerts.On("Resolve", mock.Anything, alertID, proctorID).Return(resolved, nil)

	req := helper.CreateAuthenticatedRequest(http.MethodPost, "/api/v1/alerts/"+alertID.String()+"/resolve", nil, proctorID, auth.RoleProctor)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	var envelope struct {
		Success bool         `json:"success"`
		Data    models.Alert `json:"data"`
	}
	helper.AssertTypedJSONResponse(rr, http.StatusOK, &envelope)
	assert.True(t, envelope.Data.Resolved)
}

func TestResolveUnknownAlert(t *testing.T) {
	alerts := new(MockAlertStore)
	handler := NewAlertHandler(alerts, nil)
	helper := NewHTTPTestHelper(t)

	alertID := uuid.New()
	proctorID := uuid.New()
	alerts.On("Resolve", mock.Anything, alertID, proctorID).Return(nil, database.ErrNotFound)

	req := helper.CreateAuthenticatedRequest(http.MethodPost, "/api/v1/alerts/"+alertID.String()+"/resolve", nil, proctorID, auth.RoleProctor)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	helper.AssertJSONResponse(rr, http.StatusNotFound)
}
