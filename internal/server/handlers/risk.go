package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/Varshinibhargav-17/ExampulseAI/internal/database"
	"github.com/Varshinibhargav-17/ExampulseAI/internal/database/models"
	"github.com/Varshinibhargav-17/ExampulseAI/internal/server/response"
	"github.com/Varshinibhargav-17/ExampulseAI/pkg/auth"
	"github.com/Varshinibhargav-17/ExampulseAI/pkg/logger"
	"github.com/Varshinibhargav-17/ExampulseAI/pkg/risk"
)

// RiskHandler serves on-demand risk evaluation for a session.
type RiskHandler struct {
	sessions  SessionStore
	events    EventStore
	baselines BaselineStore
	alerts    AlertStore
	scorer    *risk.Scorer
	generator *risk.Generator
	notifier  AlertNotifier
	log       *logger.Logger
}

// NewRiskHandler creates a risk evaluation handler. notifier may be nil.
func NewRiskHandler(
	sessions SessionStore,
	events EventStore,
	baselines BaselineStore,
	alerts AlertStore,
	scorer *risk.Scorer,
	generator *risk.Generator,
	notifier AlertNotifier,
	log *logger.Logger,
) *RiskHandler {
	if log == nil {
		log = logger.Default()
	}
	return &RiskHandler{
		sessions:  sessions,
		events:    events,
		baselines: baselines,
		alerts:    alerts,
		scorer:    scorer,
		generator: generator,
		notifier:  notifier,
		log:       log,
	}
}

// EvaluateRequest is the body of POST /sessions/{id}/risk: the current
// behavior snapshot captured by the monitoring client.
type EvaluateRequest struct {
	Metrics map[string]float64 `json:"metrics"`
}

// EvaluateResponse is the result of one risk evaluation.
type EvaluateResponse struct {
	SessionID   string             `json:"session_id"`
	Evaluation  risk.Evaluation    `json:"evaluation"`
	Decision    risk.AlertDecision `json:"decision"`
	Alert       *models.Alert      `json:"alert,omitempty"`
	EvaluatedAt time.Time          `json:"evaluated_at"`
}

// Evaluate handles POST /sessions/{id}/risk. It scores the snapshot
// against the user's baseline and recent events, persists the score on the
// session, and raises an alert when the policy says so.
func (h *RiskHandler) Evaluate(w http.ResponseWriter, r *http.Request, segment string) {
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

	var req EvaluateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	session, err := h.sessions.GetByID(r.Context(), sessionID)
	if err != nil {
		writeStoreError(w, r, err, response.ErrorCodeSessionNotFound, "Session not found")
		return
	}
	if session.UserID != claims.UserID && !claims.Role.CanProctor() {
		rw.Forbidden("Risk may only be evaluated for your own session")
		return
	}
	if session.Status != models.SessionStatusInProgress {
		rw.Error(http.StatusConflict, response.ErrorCodeSessionNotActive, "Session is not in progress", nil)
		return
	}

	var baseline *risk.Baseline
	record, err := h.baselines.GetByUser(r.Context(), session.UserID)
	switch {
	case err == nil:
		baseline = record.ToRisk()
	case errorsIsNotFound(err):
		// First exam without a baseline: scorer falls back to cohort defaults.
	default:
		rw.InternalServerError("Failed to load baseline", nil)
		return
	}

	eventRecords, err := h.events.ListBySession(r.Context(), sessionID)
	if err != nil {
		rw.InternalServerError("Failed to load session events", nil)
		return
	}
	events := models.EventsToRisk(eventRecords)

	evaluation := h.scorer.Score(risk.Snapshot(req.Metrics), baseline, events)

	now := time.Now().UTC()
	decision, err := h.generator.Decide(sessionID, evaluation.Score, now)
	if err != nil {
		rw.Error(http.StatusUnprocessableEntity, response.ErrorCodeScoreOutOfRange, "Score outside valid range", nil)
		return
	}

	var alert *models.Alert
	if decision.Raise {
		alert = &models.Alert{
			SessionID: sessionID,
			AlertType: decision.AlertType,
			Message:   decision.Message,
			RiskScore: decision.RiskScore,
			Severity:  string(decision.Severity),
		}
		if err := h.alerts.Create(r.Context(), alert); err != nil {
			h.log.WithContext(r.Context()).WithError(err).Error("failed to persist alert")
			rw.InternalServerError("Failed to persist alert", nil)
			return
		}
		if h.notifier != nil {
			h.notifier.BroadcastAlert(alert)
		}
	}

	if err := h.sessions.UpdateRisk(r.Context(), sessionID, evaluation.Score, decision.Raise); err != nil {
		h.log.WithContext(r.Context()).WithError(err).Error("failed to persist risk score")
		rw.InternalServerError("Failed to persist risk score", nil)
		return
	}

	h.log.WithContext(r.Context()).WithFields(map[string]interface{}{
		"session_id": sessionID.String(),
		"score":      evaluation.Score,
		"level":      string(evaluation.Level),
		"alert":      decision.Raise,
		"fail_open":  evaluation.FailOpen,
	}).Info("risk evaluated")

	rw.Success(EvaluateResponse{
		SessionID:   sessionID.String(),
		Evaluation:  evaluation,
		Decision:    decision,
		Alert:       alert,
		EvaluatedAt: now,
	}, nil)
}

func errorsIsNotFound(err error) bool {
	return errors.Is(err, database.ErrNotFound)
}
