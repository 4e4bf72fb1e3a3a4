package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"

	"github.com/Varshinibhargav-17/ExampulseAI/internal/database/models"
	"github.com/Varshinibhargav-17/ExampulseAI/pkg/auth"
)

// TestDataFactory builds model records with realistic defaults.
type TestDataFactory struct {
	faker *gofakeit.Faker
}

// NewTestDataFactory creates a seeded factory so test data is reproducible.
func NewTestDataFactory() *TestDataFactory {
	return &TestDataFactory{faker: gofakeit.New(42)}
}

// CreateUser builds a test user with the given role.
func (f *TestDataFactory) CreateUser(role string) *models.User {
	return &models.User{
		ID:           uuid.New(),
		Name:         f.faker.Name(),
		Email:        f.faker.Email(),
		PasswordHash: "$2a$10$" + f.faker.LetterN(53),
		Role:         role,
		RollNumber:   f.faker.DigitN(8),
		Department:   f.faker.RandomString([]string{"CSE", "ECE", "MECH", "CIVIL"}),
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}
}

// CreateExam builds a scheduled test exam created by creatorID.
func (f *TestDataFactory) CreateExam(creatorID uuid.UUID) *models.Exam {
	return &models.Exam{
		ID:                    uuid.New(),
		Name:                  f.faker.Sentence(3),
		Description:           f.faker.Sentence(8),
		DurationMinutes:       60,
		TotalQuestions:        20,
		CreatedBy:             creatorID,
		MonitoringSensitivity: "medium",
		Status:                models.ExamStatusScheduled,
		CreatedAt:             time.Now().UTC(),
		UpdatedAt:             time.Now().UTC(),
	}
}

// CreateSession builds an in-progress session for the given exam and user.
func (f *TestDataFactory) CreateSession(examID, userID uuid.UUID) *models.ExamSession {
	return &models.ExamSession{
		ID:             uuid.New(),
		ExamID:         examID,
		UserID:         userID,
		StartedAt:      time.Now().UTC().Add(-10 * time.Minute),
		Status:         models.SessionStatusInProgress,
		IntegrityScore: 1.0,
	}
}

// CreateEvent builds a monitoring event for the session.
func (f *TestDataFactory) CreateEvent(sessionID uuid.UUID, eventType, severity string) *models.Event {
	return &models.Event{
		ID:        uuid.New(),
		SessionID: sessionID,
		EventType: eventType,
		Timestamp: time.Now().UTC(),
		Severity:  severity,
	}
}

// CreateBaseline builds a baseline for a user with typical metric values.
func (f *TestDataFactory) CreateBaseline(userID uuid.UUID) *models.Baseline {
	typing := 50.0
	mouse := 420.0
	question := 95.0
	tabRate := 0.01
	return &models.Baseline{
		ID:     uuid.New(),
		UserID: userID,
		Features: models.FeatureMap{
			"typing_speed_wpm":      typing,
			"mouse_speed_pxs":       mouse,
			"avg_question_time_sec": question,
			"tab_switch_rate":       tabRate,
		},
		TypingSpeedWPM:     &typing,
		MouseSpeedPXS:      &mouse,
		AvgQuestionTimeSec: &question,
		TabSwitchRate:      &tabRate,
		SampleCount:        3,
		CreatedAt:          time.Now().UTC(),
		UpdatedAt:          time.Now().UTC(),
	}
}

// HTTPTestHelper provides utilities for HTTP handler testing.
type HTTPTestHelper struct {
	t *testing.T
}

// NewHTTPTestHelper creates a new HTTP test helper.
func NewHTTPTestHelper(t *testing.T) *HTTPTestHelper {
	return &HTTPTestHelper{t: t}
}

// CreateRequest creates an HTTP request with a JSON body.
func (h *HTTPTestHelper) CreateRequest(method, url string, body interface{}) *http.Request {
	var bodyReader *bytes.Buffer
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			h.t.Fatalf("Failed to marshal request body: %v", err)
		}
		bodyReader = bytes.NewBuffer(jsonBody)
	} else {
		bodyReader = bytes.NewBuffer([]byte{})
	}

	req := httptest.NewRequest(method, url, bodyReader)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// CreateAuthenticatedRequest creates a request carrying claims for userID.
func (h *HTTPTestHelper) CreateAuthenticatedRequest(method, url string, body interface{}, userID uuid.UUID, role auth.Role) *http.Request {
	req := h.CreateRequest(method, url, body)
	claims := &auth.Claims{
		UserID:    userID,
		Role:      role,
		TokenType: auth.TokenTypeAccess,
	}
	return req.WithContext(auth.ContextWithClaims(req.Context(), claims))
}

// AssertJSONResponse checks status and content type and returns the parsed
// envelope.
func (h *HTTPTestHelper) AssertJSONResponse(rr *httptest.ResponseRecorder, expectedStatus int) map[string]interface{} {
	if rr.Code != expectedStatus {
		h.t.Errorf("Expected status %d, got %d. Body: %s", expectedStatus, rr.Code, rr.Body.String())
	}

	var parsed map[string]interface{}
	if err := json.Unmarshal(rr.Body.Bytes(), &parsed); err != nil {
		h.t.Fatalf("Failed to parse JSON response: %v. Body: %s", err, rr.Body.String())
	}
	return parsed
}

// AssertTypedJSONResponse parses the response body into target.
func (h *HTTPTestHelper) AssertTypedJSONResponse(rr *httptest.ResponseRecorder, expectedStatus int, target interface{}) {
	if rr.Code != expectedStatus {
		h.t.Errorf("Expected status %d, got %d. Body: %s", expectedStatus, rr.Code, rr.Body.String())
	}
	if err := json.Unmarshal(rr.Body.Bytes(), target); err != nil {
		h.t.Fatalf("Failed to parse JSON response: %v. Body: %s", err, rr.Body.String())
	}
}
