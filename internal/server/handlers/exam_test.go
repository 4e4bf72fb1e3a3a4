package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Varshinibhargav-17/ExampulseAI/internal/database"
	"github.com/Varshinibhargav-17/ExampulseAI/internal/database/models"
	"github.com/Varshinibhargav-17/ExampulseAI/pkg/auth"
	"github.com/Varshinibhargav-17/ExampulseAI/pkg/risk"
)

func TestCreateExamProctorOnly(t *testing.T) {
	exams := new(MockExamStore)
	handler := NewExamHandler(exams, new(MockSessionStore), new(MockEventStore), nil)
	helper := NewHTTPTestHelper(t)

	body := CreateExamRequest{Name: "Algorithms Midterm", DurationMinutes: 90, TotalQuestions: 30}

	req := helper.CreateAuthenticatedRequest(http.MethodPost, "/api/v1/exams", body, uuid.New(), auth.RoleStudent)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	helper.AssertJSONResponse(rr, http.StatusForbidden)

	exams.On("Create", mock.Anything, mock.MatchedBy(func(e *models.Exam) bool {
		return e.Name == "Algorithms Midterm" && e.MonitoringSensitivity == "medium"
	})).Return(nil)

	req = helper.CreateAuthenticatedRequest(http.MethodPost, "/api/v1/exams", body, uuid.New(), auth.RoleProctor)
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	helper.AssertJSONResponse(rr, http.StatusCreated)
	exams.AssertExpectations(t)
}

func TestStartExamIsIdempotent(t *testing.T) {
	exams := new(MockExamStore)
	sessions := new(MockSessionStore)
	handler := NewExamHandler(exams, sessions, new(MockEventStore), nil)
	helper := NewHTTPTestHelper(t)
	factory := NewTestDataFactory()

	userID := uuid.New()
	exam := factory.CreateExam(uuid.New())
	session := factory.CreateSession(exam.ID, userID)

	exams.On("GetByID", mock.Anything, exam.ID).Return(exam, nil)

	// First start creates the session.
	sessions.On("Start", mock.Anything, exam.ID, userID).Return(session, true, nil).Once()
	req := helper.CreateAuthenticatedRequest(http.MethodPost, "/api/v1/exams/"+exam.ID.String()+"/start", nil, userID, auth.RoleStudent)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	helper.AssertJSONResponse(rr, http.StatusCreated)

	// Second start returns the same session with 200.
	sessions.On("Start", mock.Anything, exam.ID, userID).Return(session, false, nil).Once()
	req = helper.CreateAuthenticatedRequest(http.MethodPost, "/api/v1/exams/"+exam.ID.String()+"/start", nil, userID, auth.RoleStudent)
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	helper.AssertJSONResponse(rr, http.StatusOK)
}

func TestStartUnknownExam(t *testing.T) {
	exams := new(MockExamStore)
	handler := NewExamHandler(exams, new(MockSessionStore), new(MockEventStore), nil)
	helper := NewHTTPTestHelper(t)

	examID := uuid.New()
	exams.On("GetByID", mock.Anything, examID).Return(nil, database.ErrNotFound)

	req := helper.CreateAuthenticatedRequest(http.MethodPost, "/api/v1/exams/"+examID.String()+"/start", nil, uuid.New(), auth.RoleStudent)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	helper.AssertJSONResponse(rr, http.StatusNotFound)
}

func TestSubmitExamEvaluatesIntegrity(t *testing.T) {
	exams := new(MockExamStore)
	sessions := new(MockSessionStore)
	events := new(MockEventStore)
	handler := NewExamHandler(exams, sessions, events, nil)
	helper := NewHTTPTestHelper(t)
	factory := NewTestDataFactory()

	userID := uuid.New()
	exam := factory.CreateExam(uuid.New())
	session := factory.CreateSession(exam.ID, userID)

	sessions.On("GetActive", mock.Anything, exam.ID, userID).Return(session, nil)

	// Three high severity events out of ten: integrity floors the penalty
	// at 1.0 - 0.3 - 0.2 = 0.5.
	sessionEvents := make([]models.Event, 0, 10)
	for i := 0; i < 3; i++ {
		sessionEvents = append(sessionEvents, *factory.CreateEvent(session.ID, risk.EventTypeCopyPaste, models.SeverityHigh))
	}
	for i := 0; i < 7; i++ {
		sessionEvents = append(sessionEvents, *factory.CreateEvent(session.ID, risk.EventTypeTabSwitch, models.SeverityMedium))
	}
	events.On("ListBySession", mock.Anything, session.ID).Return(sessionEvents, nil)

	submitted := *session
	submitted.Status = models.SessionStatusSubmitted
	sessions.On("Submit", mock.Anything, session.ID, mock.MatchedBy(func(sub database.Submission) bool {
		return sub.IntegrityScore == 0.5 && sub.RiskScore == 0.5
	})).Return(&submitted, nil)

	req := helper.CreateAuthenticatedRequest(http.MethodPost, "/api/v1/exams/"+exam.ID.String()+"/submit",
		SubmitExamRequest{}, userID, auth.RoleStudent)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	var envelope struct {
		Success bool               `json:"success"`
		Data    SubmitExamResponse `json:"data"`
	}
	helper.AssertTypedJSONResponse(rr, http.StatusOK, &envelope)
	require.True(t, envelope.Success)
	assert.InDelta(t, 0.5, envelope.Data.Integrity.IntegrityScore, 1e-9)
	assert.Equal(t, 10, envelope.Data.Integrity.EventsCount)
	assert.Equal(t, 3, envelope.Data.Integrity.HighSeverityEvents)
	sessions.AssertExpectations(t)
}

func TestSubmitExamWithoutActiveSession(t *testing.T) {
	exams := new(MockExamStore)
	sessions := new(MockSessionStore)
	handler := NewExamHandler(exams, sessions, new(MockEventStore), nil)
	helper := NewHTTPTestHelper(t)

	userID := uuid.New()
	examID := uuid.New()
	sessions.On("GetActive", mock.Anything, examID, userID).Return(nil, database.ErrNotFound)

	req := helper.CreateAuthenticatedRequest(http.MethodPost, "/api/v1/exams/"+examID.String()+"/submit",
		SubmitExamRequest{}, userID, auth.RoleStudent)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	helper.AssertJSONResponse(rr, http.StatusConflict)
}
