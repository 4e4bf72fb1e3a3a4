// Package handlers implements the HTTP handlers for the ExamPulse API.
// Each handler depends on narrow store interfaces so that tests can run
// against mocks instead of a live database.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/Varshinibhargav-17/ExampulseAI/internal/database"
	"github.com/Varshinibhargav-17/ExampulseAI/internal/database/models"
	"github.com/Varshinibhargav-17/ExampulseAI/internal/server/response"
	"github.com/Varshinibhargav-17/ExampulseAI/pkg/logger"
	"github.com/Varshinibhargav-17/ExampulseAI/pkg/risk"
)

// UserStore is the subset of the user store used by handlers.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}

// ExamStore is the subset of the exam store used by handlers.
type ExamStore interface {
	Create(ctx context.Context, exam *models.Exam) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Exam, error)
	List(ctx context.Context, filter database.ExamFilter) ([]models.Exam, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
}

// SessionStore is the subset of the session store used by handlers.
type SessionStore interface {
	Start(ctx context.Context, examID, userID uuid.UUID) (*models.ExamSession, bool, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.ExamSession, error)
	GetActive(ctx context.Context, examID, userID uuid.UUID) (*models.ExamSession, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.ExamSession, error)
	Submit(ctx context.Context, id uuid.UUID, sub database.Submission) (*models.ExamSession, error)
	UpdateRisk(ctx context.Context, id uuid.UUID, riskScore float64, alertRaised bool) error
}

// EventStore is the subset of the event store used by handlers.
type EventStore interface {
	Create(ctx context.Context, event *models.Event) error
	ListBySession(ctx context.Context, sessionID uuid.UUID) ([]models.Event, error)
	CountBySession(ctx context.Context, sessionID uuid.UUID) (total, highSeverity int64, err error)
}

// AlertStore is the subset of the alert store used by handlers.
type AlertStore interface {
	Create(ctx context.Context, alert *models.Alert) error
	ListBySession(ctx context.Context, sessionID uuid.UUID) ([]models.Alert, error)
	ListUnresolved(ctx context.Context, limit int) ([]models.Alert, error)
	Resolve(ctx context.Context, id, resolvedBy uuid.UUID) (*models.Alert, error)
}

// BaselineStore is the subset of the baseline store used by handlers.
type BaselineStore interface {
	GetByUser(ctx context.Context, userID uuid.UUID) (*models.Baseline, error)
	MergeSample(ctx context.Context, userID uuid.UUID, sample risk.Sample) (*models.Baseline, bool, error)
}

// AlertNotifier pushes newly raised alerts to connected proctor clients.
type AlertNotifier interface {
	BroadcastAlert(alert *models.Alert)
}

// requestID extracts the request ID placed in the context by the logging
// middleware.
func requestID(ctx context.Context) string {
	return logger.RequestIDFromContext(ctx)
}

// decodeJSON decodes a request body into dst, writing a 400 on failure.
// Returns false when the response has already been written.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		rw := response.NewResponseWriter(w, requestID(r.Context()))
		rw.BadRequest("Invalid request body", err.Error())
		return false
	}
	return true
}

// pathSegments splits a URL path below the API prefix into its segments.
// "/api/v1/sessions/{id}/events" yields ["sessions", "{id}", "events"].
func pathSegments(path, prefix string) []string {
	trimmed := strings.TrimPrefix(path, prefix)
	trimmed = strings.Trim(trimmed, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

// parseUUID parses a path segment as a UUID, writing a 400 on failure.
func parseUUID(w http.ResponseWriter, r *http.Request, segment string) (uuid.UUID, bool) {
	id, err := uuid.Parse(segment)
	if err != nil {
		rw := response.NewResponseWriter(w, requestID(r.Context()))
		rw.BadRequest("Invalid ID in path", segment)
		return uuid.Nil, false
	}
	return id, true
}

// writeStoreError maps database sentinel errors onto the response envelope.
func writeStoreError(w http.ResponseWriter, r *http.Request, err error, notFoundCode, notFoundMessage string) {
	rw := response.NewResponseWriter(w, requestID(r.Context()))
	switch {
	case errors.Is(err, database.ErrNotFound):
		rw.Error(http.StatusNotFound, notFoundCode, notFoundMessage, nil)
	case errors.Is(err, database.ErrConflict):
		rw.Conflict("Resource is in a conflicting state", nil)
	default:
		rw.InternalServerError("Unexpected error", nil)
	}
}

// methodNotAllowed writes a 405 response.
func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	rw := response.NewResponseWriter(w, requestID(r.Context()))
	rw.Error(http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
}
