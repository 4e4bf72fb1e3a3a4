package handlers

import (
	"net/http"
	"time"

	"github.com/Varshinibhargav-17/ExampulseAI/internal/database/models"
	"github.com/Varshinibhargav-17/ExampulseAI/internal/server/response"
	"github.com/Varshinibhargav-17/ExampulseAI/pkg/auth"
	"github.com/Varshinibhargav-17/ExampulseAI/pkg/logger"
	"github.com/Varshinibhargav-17/ExampulseAI/pkg/risk"
)

// EventHandler serves monitoring event ingestion and listing.
type EventHandler struct {
	sessions   SessionStore
	events     EventStore
	classifier *risk.Classifier
	log        *logger.Logger
}

// NewEventHandler creates an event handler.
func NewEventHandler(sessions SessionStore, events EventStore, classifier *risk.Classifier, log *logger.Logger) *EventHandler {
	if classifier == nil {
		classifier = risk.NewClassifier()
	}
	if log == nil {
		log = logger.Default()
	}
	return &EventHandler{sessions: sessions, events: events, classifier: classifier, log: log}
}

// EventRequest is one monitoring event in an ingestion batch.
type EventRequest struct {
	EventType string                 `json:"event_type"`
	EventData map[string]interface{} `json:"event_data,omitempty"`
	Timestamp *time.Time             `json:"timestamp,omitempty"`
}

// IngestRequest is the body of POST /sessions/{id}/events.
type IngestRequest struct {
	Events []EventRequest `json:"events"`
}

// Ingest handles POST /sessions/{id}/events. Events are classified on the
// way in; unknown event types are stored with low severity.
func (h *EventHandler) Ingest(w http.ResponseWriter, r *http.Request, segment string) {
	rw := response.NewResponseWriter(w, requestID(r.Context()))

	claims := auth.ClaimsFromContext(r.Context())
	if claims == nil {
		rw.Unauthorized("Authentication required")
		return
	}

	sessionID, ok := parseUUID(w, r, segment)
	if !ok {
		return
	}

	var req IngestRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if len(req.Events) == 0 {
		rw.BadRequest("At least one event is required", nil)
		return
	}
	for i, event := range req.Events {
		if event.EventType == "" {
			rw.ValidationError(map[string]interface{}{"events": i, "error": "event_type is required"})
			return
		}
	}

	session, err := h.sessions.GetByID(r.Context(), sessionID)
	if err != nil {
		writeStoreError(w, r, err, response.ErrorCodeSessionNotFound, "Session not found")
		return
	}
	if session.UserID != claims.UserID && !claims.Role.CanProctor() {
		rw.Forbidden("Events may only be reported for your own session")
		return
	}
	if session.Status != models.SessionStatusInProgress {
		rw.Error(http.StatusConflict, response.ErrorCodeSessionNotActive, "Session is not in progress", nil)
		return
	}

	stored := make([]models.Event, 0, len(req.Events))
	for _, event := range req.Events {
		timestamp := time.Now().UTC()
		if event.Timestamp != nil {
			timestamp = event.Timestamp.UTC()
		}

		severity := h.classifier.Classify(event.EventType, event.EventData)

		record := models.Event{
			SessionID: sessionID,
			EventType: event.EventType,
			EventData: models.JSONMap(event.EventData),
			Timestamp: timestamp,
			Severity:  string(severity),
		}
		if err := h.events.Create(r.Context(), &record); err != nil {
			h.log.WithContext(r.Context()).WithError(err).Error("failed to store event")
			rw.InternalServerError("Failed to store events", nil)
			return
		}
		stored = append(stored, record)
	}

	h.log.WithContext(r.Context()).WithFields(map[string]interface{}{
		"session_id": sessionID.String(),
		"count":      len(stored),
	}).Debug("monitoring events ingested")

	rw.Created(stored)
}

// List handles GET /sessions/{id}/events.
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request, segment string) {
	rw := response.NewResponseWriter(w, requestID(r.Context()))

	claims := auth.ClaimsFromContext(r.Context())
	if claims == nil {
		rw.Unauthorized("Authentication required")
		return
	}

	sessionID, ok := parseUUID(w, r, segment)
	if !ok {
		return
	}

	session, err := h.sessions.GetByID(r.Context(), sessionID)
	if err != nil {
		writeStoreError(w, r, err, response.ErrorCodeSessionNotFound, "Session not found")
		return
	}
	if session.UserID != claims.UserID && !claims.Role.CanProctor() {
		rw.Forbidden("Only proctors may view other users' events")
		return
	}

	events, err := h.events.ListBySession(r.Context(), sessionID)
	if err != nil {
		rw.InternalServerError("Failed to list events", nil)
		return
	}
	count := int64(len(events))
	rw.Success(events, &response.Meta{Count: &count})
}
