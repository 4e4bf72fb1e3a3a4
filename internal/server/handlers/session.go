package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/Varshinibhargav-17/ExampulseAI/internal/database/models"
	"github.com/Varshinibhargav-17/ExampulseAI/internal/server/response"
	"github.com/Varshinibhargav-17/ExampulseAI/pkg/auth"
	"github.com/Varshinibhargav-17/ExampulseAI/pkg/logger"
)

// SessionHandler serves session listing and detail views.
type SessionHandler struct {
	sessions SessionStore
	events   EventStore
	alerts   AlertStore
	log      *logger.Logger
}

// NewSessionHandler creates a session handler.
func NewSessionHandler(sessions SessionStore, events EventStore, alerts AlertStore, log *logger.Logger) *SessionHandler {
	if log == nil {
		log = logger.Default()
	}
	return &SessionHandler{sessions: sessions, events: events, alerts: alerts, log: log}
}

// SessionDetail is a session with its events and alerts inlined.
type SessionDetail struct {
	Session *models.ExamSession `json:"session"`
	Events  []models.Event      `json:"events"`
	Alerts  []models.Alert      `json:"alerts"`
}

// List handles GET /sessions. Students see their own sessions; proctors may
// pass ?user_id= to inspect another user's history.
func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r)
		return
	}

	rw := response.NewResponseWriter(w, requestID(r.Context()))

	claims := auth.ClaimsFromContext(r.Context())
	if claims == nil {
		rw.Unauthorized("Authentication required")
		return
	}

	userID := claims.UserID
	if query := r.URL.Query().Get("user_id"); query != "" {
		id, err := uuid.Parse(query)
		if err != nil {
			rw.BadRequest("Invalid user_id filter", query)
			return
		}
		if id != claims.UserID && !claims.Role.CanProctor() {
			rw.Forbidden("Only proctors may view other users' sessions")
			return
		}
		userID = id
	}

	sessions, err := h.sessions.ListByUser(r.Context(), userID)
	if err != nil {
		rw.InternalServerError("Failed to list sessions", nil)
		return
	}
	count := int64(len(sessions))
	rw.Success(sessions, &response.Meta{Count: &count})
}

// Get handles GET /sessions/{id}, returning the session together with its
// events and alerts.
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request, segment string) {
	rw := response.NewResponseWriter(w, requestID(r.Context()))

	claims := auth.ClaimsFromContext(r.Context())
	if claims == nil {
		rw.Unauthorized("Authentication required")
		return
	}

	id, ok := parseUUID(w, r, segment)
	if !ok {
		return
	}

	session, err := h.sessions.GetByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, r, err, response.ErrorCodeSessionNotFound, "Session not found")
		return
	}
	if session.UserID != claims.UserID && !claims.Role.CanProctor() {
		rw.Forbidden("Only proctors may view other users' sessions")
		return
	}

	events, err := h.events.ListBySession(r.Context(), session.ID)
	if err != nil {
		rw.InternalServerError("Failed to load session events", nil)
		return
	}
	alerts, err := h.alerts.ListBySession(r.Context(), session.ID)
	if err != nil {
		rw.InternalServerError("Failed to load session alerts", nil)
		return
	}

	rw.Success(SessionDetail{Session: session, Events: events, Alerts: alerts}, nil)
}
