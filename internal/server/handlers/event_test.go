package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Varshinibhargav-17/ExampulseAI/internal/database/models"
	"github.com/Varshinibhargav-17/ExampulseAI/pkg/auth"
	"github.com/Varshinibhargav-17/ExampulseAI/pkg/risk"
)

func TestIngestClassifiesEvents(t *testing.T) {
	sessions := new(MockSessionStore)
	events := new(MockEventStore)
	handler := NewEventHandler(sessions, events, nil, nil)
	helper := NewHTTPTestHelper(t)
	factory := NewTestDataFactory()

	userID := uuid.New()
	session := factory.CreateSession(uuid.New(), userID)
	sessions.On("GetByID", mock.Anything, session.ID).Return(session, nil)

	var stored []*models.Event
	events.On("Create", mock.Anything, mock.AnythingOfType("*models.Event")).
		Run(func(args mock.Arguments) {
			stored = append(stored, args.Get(1).(*models.Event))
		}).Return(nil)

	req := helper.CreateAuthenticatedRequest(http.MethodPost,
		"/api/v1/sessions/"+session.ID.String()+"/events", IngestRequest{
			Events: []EventRequest{
				{EventType: risk.EventTypeCopyPaste},
				{EventType: risk.EventTypeTabSwitch},
				{EventType: risk.EventTypeWindowBlur, EventData: map[string]interface{}{"duration": 90.0}},
				{EventType: "mystery_signal"},
			},
		}, userID, auth.RoleStudent)
	rr := httptest.NewRecorder()
	handler.Ingest(rr, req, session.ID.String())

	helper.AssertJSONResponse(rr, http.StatusCreated)
	require.Len(t, stored, 4)
	assert.Equal(t, models.SeverityHigh, stored[0].Severity)
	assert.Equal(t, models.SeverityMedium, stored[1].Severity)
	assert.Equal(t, models.SeverityHigh, stored[2].Severity) // long blur
	assert.Equal(t, models.SeverityLow, stored[3].Severity)  // unknown type
}

func TestIngestRejectsOtherUsersSession(t *testing.T) {
	sessions := new(MockSessionStore)
	events := new(MockEventStore)
	handler := NewEventHandler(sessions, events, nil, nil)
	helper := NewHTTPTestHelper(t)
	factory := NewTestDataFactory()

	owner := uuid.New()
	intruder := uuid.New()
	session := factory.CreateSession(uuid.New(), owner)
	sessions.On("GetByID", mock.Anything, session.ID).Return(session, nil)

	req := helper.CreateAuthenticatedRequest(http.MethodPost,
		"/api/v1/sessions/"+session.ID.String()+"/events", IngestRequest{
			Events: []EventRequest{{EventType: risk.EventTypeTabSwitch}},
		}, intruder, auth.RoleStudent)
	rr := httptest.NewRecorder()
	handler.Ingest(rr, req, session.ID.String())

	helper.AssertJSONResponse(rr, http.StatusForbidden)
	events.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestIngestRejectsSubmittedSession(t *testing.T) {
	sessions := new(MockSessionStore)
	events := new(MockEventStore)
	handler := NewEventHandler(sessions, events, nil, nil)
	helper := NewHTTPTestHelper(t)
	factory := NewTestDataFactory()

	userID := uuid.New()
	session := factory.CreateSession(uuid.New(), userID)
	session.Status = models.SessionStatusSubmitted
	sessions.On("GetByID", mock.Anything, session.ID).Return(session, nil)

	req := helper.CreateAuthenticatedRequest(http.MethodPost,
		"/api/v1/sessions/"+session.ID.String()+"/events", IngestRequest{
			Events: []EventRequest{{EventType: risk.EventTypeTabSwitch}},
		}, userID, auth.RoleStudent)
	rr := httptest.NewRecorder()
	handler.Ingest(rr, req, session.ID.String())

	helper.AssertJSONResponse(rr, http.StatusConflict)
}

func TestIngestRejectsEmptyBatch(t *testing.T) {
	handler := NewEventHandler(new(MockSessionStore), new(MockEventStore), nil, nil)
	helper := NewHTTPTestHelper(t)

	sessionID := uuid.New()
	req := helper.CreateAuthenticatedRequest(http.MethodPost,
		"/api/v1/sessions/"+sessionID.String()+"/events", IngestRequest{}, uuid.New(), auth.RoleStudent)
	rr := httptest.NewRecorder()
	handler.Ingest(rr, req, sessionID.String())

	helper.AssertJSONResponse(rr, http.StatusBadRequest)
}

func TestListEventsForOwnSession(t *testing.T) {
	sessions := new(MockSessionStore)
	events := new(MockEventStore)
	handler := NewEventHandler(sessions, events, nil, nil)
	helper := NewHTTPTestHelper(t)
	factory := NewTestDataFactory()

	userID := uuid.New()
	session := factory.CreateSession(uuid.New(), userID)
	sessions.On("GetByID", mock.Anything, session.ID).Return(session, nil)
	events.On("ListBySession", mock.Anything, session.ID).Return([]models.Event{
		*factory.CreateEvent(session.ID, risk.EventTypeTabSwitch, models.SeverityMedium),
	}, nil)

	req := helper.CreateAuthenticatedRequest(http.MethodGet,
		"/api/v1/sessions/"+session.ID.String()+"/events", nil, userID, auth.RoleStudent)
	rr := httptest.NewRecorder()
	handler.List(rr, req, session.ID.String())

	body := helper.AssertJSONResponse(rr, http.StatusOK)
	assert.Equal(t, true, body["success"])
}
