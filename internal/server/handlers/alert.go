package handlers

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/Varshinibhargav-17/ExampulseAI/internal/server/response"
	"github.com/Varshinibhargav-17/ExampulseAI/pkg/auth"
	"github.com/Varshinibhargav-17/ExampulseAI/pkg/logger"
)

// AlertHandler serves alert listing and resolution. All alert routes are
// proctor-only.
type AlertHandler struct {
	alerts AlertStore
	log    *logger.Logger
}

// NewAlertHandler creates an alert handler.
func NewAlertHandler(alerts AlertStore, log *logger.Logger) *AlertHandler {
	if log == nil {
		log = logger.Default()
	}
	return &AlertHandler{alerts: alerts, log: log}
}

// ServeHTTP routes /alerts and /alerts/{id}/resolve.
func (h *AlertHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	segments := pathSegments(r.URL.Path, "/api/v1")
	// segments[0] == "alerts"
	switch {
	case len(segments) == 1 && r.Method == http.MethodGet:
		h.List(w, r)
	case len(segments) == 3 && segments[2] == "resolve" && r.Method == http.MethodPost:
		h.Resolve(w, r, segments[1])
	default:
		methodNotAllowed(w, r)
	}
}

// List handles GET /alerts. With ?session_id= it returns that session's
// alerts; otherwise it returns unresolved alerts across all sessions.
func (h *AlertHandler) List(w http.ResponseWriter, r *http.Request) {
	rw := response.NewResponseWriter(w, requestID(r.Context()))

	if sessionQuery := r.URL.Query().Get("session_id"); sessionQuery != "" {
		sessionID, err := uuid.Parse(sessionQuery)
		if err != nil {
			rw.BadRequest("Invalid session_id filter", sessionQuery)
			return
		}
		alerts, err := h.alerts.ListBySession(r.Context(), sessionID)
		if err != nil {
			rw.InternalServerError("Failed to list alerts", nil)
			return
		}
		count := int64(len(alerts))
		rw.Success(alerts, &response.Meta{Count: &count})
		return
	}

	limit := 100
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 && parsed <= 500 {
			limit = parsed
		}
	}

	alerts, err := h.alerts.ListUnresolved(r.Context(), limit)
	if err != nil {
		rw.InternalServerError("Failed to list alerts", nil)
		return
	}
	count := int64(len(alerts))
	rw.Success(alerts, &response.Meta{Count: &count})
}

// Resolve handles POST /alerts/{id}/resolve. Resolution is idempotent: a
// second resolve by the same proctor returns the already-resolved alert.
func (h *AlertHandler) Resolve(w http.ResponseWriter, r *http.Request, segment string) {
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

	alert, err := h.alerts.Resolve(r.Context(), id, claims.UserID)
	if err != nil {
		writeStoreError(w, r, err, response.ErrorCodeAlertNotFound, "Alert not found")
		return
	}

	h.log.WithContext(r.Context()).WithFields(map[string]interface{}{
		"alert_id":    alert.ID.String(),
		"resolved_by": claims.UserID.String(),
	}).Info("alert resolved")

	rw.Success(alert, nil)
}
