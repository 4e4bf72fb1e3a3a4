package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/Varshinibhargav-17/ExampulseAI/internal/database"
	"github.com/Varshinibhargav-17/ExampulseAI/internal/database/models"
	"github.com/Varshinibhargav-17/ExampulseAI/internal/server/response"
	"github.com/Varshinibhargav-17/ExampulseAI/pkg/auth"
	"github.com/Varshinibhargav-17/ExampulseAI/pkg/logger"
	"github.com/Varshinibhargav-17/ExampulseAI/pkg/risk"
)

// ExamHandler serves exam management plus session start and submission.
type ExamHandler struct {
	exams    ExamStore
	sessions SessionStore
	events   EventStore
	log      *logger.Logger
}

// NewExamHandler creates an exam handler.
func NewExamHandler(exams ExamStore, sessions SessionStore, events EventStore, log *logger.Logger) *ExamHandler {
	if log == nil {
		log = logger.Default()
	}
	return &ExamHandler{exams: exams, sessions: sessions, events: events, log: log}
}

// CreateExamRequest is the body of POST /exams.
type CreateExamRequest struct {
	Name                  string              `json:"name"`
	Description           string              `json:"description,omitempty"`
	DurationMinutes       int                 `json:"duration_minutes"`
	TotalQuestions        int                 `json:"total_questions"`
	ScheduledDate         *time.Time          `json:"scheduled_date,omitempty"`
	Instructions          string              `json:"instructions,omitempty"`
	MonitoringSensitivity string              `json:"monitoring_sensitivity,omitempty"`
	AllowTabSwitch        bool                `json:"allow_tab_switch,omitempty"`
	AllowCopyPaste        bool                `json:"allow_copy_paste,omitempty"`
	Questions             models.QuestionList `json:"questions,omitempty"`
}

// SubmitExamRequest is the body of POST /exams/{id}/submit.
type SubmitExamRequest struct {
	Answers          models.JSONMap `json:"answers,omitempty"`
	Score            *float64       `json:"score,omitempty"`
	TimeTakenSeconds *int           `json:"time_taken_seconds,omitempty"`
}

// SubmitExamResponse is the body returned by exam submission.
type SubmitExamResponse struct {
	Session   *models.ExamSession  `json:"session"`
	Integrity risk.IntegrityResult `json:"integrity"`
}

// ServeHTTP routes /exams, /exams/{id}, /exams/{id}/start, /exams/{id}/submit.
func (h *ExamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	segments := pathSegments(r.URL.Path, "/api/v1")
	// segments[0] == "exams"
	switch {
	case len(segments) == 1 && r.Method == http.MethodGet:
		h.List(w, r)
	case len(segments) == 1 && r.Method == http.MethodPost:
		h.Create(w, r)
	case len(segments) == 2 && r.Method == http.MethodGet:
		h.Get(w, r, segments[1])
	case len(segments) == 3 && segments[2] == "start" && r.Method == http.MethodPost:
		h.Start(w, r, segments[1])
	case len(segments) == 3 && segments[2] == "submit" && r.Method == http.MethodPost:
		h.Submit(w, r, segments[1])
	default:
		methodNotAllowed(w, r)
	}
}

// Create handles POST /exams. Proctor only.
func (h *ExamHandler) Create(w http.ResponseWriter, r *http.Request) {
	rw := response.NewResponseWriter(w, requestID(r.Context()))

	claims := auth.ClaimsFromContext(r.Context())
	if claims == nil {
		rw.Unauthorized("Authentication required")
		return
	}
	if !claims.Role.CanProctor() {
		rw.Forbidden("Only proctors may create exams")
		return
	}

	var req CreateExamRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	fieldErrors := map[string]string{}
	if req.Name == "" {
		fieldErrors["name"] = "name is required"
	}
	if req.DurationMinutes <= 0 {
		fieldErrors["duration_minutes"] = "duration must be positive"
	}
	if req.TotalQuestions <= 0 {
		fieldErrors["total_questions"] = "total questions must be positive"
	}
	sensitivity := req.MonitoringSensitivity
	if sensitivity == "" {
		sensitivity = "medium"
	}
	switch sensitivity {
	case "low", "medium", "high":
	default:
		fieldErrors["monitoring_sensitivity"] = "must be low, medium, or high"
	}
	if len(fieldErrors) > 0 {
		rw.ValidationError(fieldErrors)
		return
	}

	exam := &models.Exam{
		Name:                  req.Name,
		Description:           req.Description,
		DurationMinutes:       req.DurationMinutes,
		TotalQuestions:        req.TotalQuestions,
		ScheduledDate:         req.ScheduledDate,
		CreatedBy:             claims.UserID,
		Instructions:          req.Instructions,
		MonitoringSensitivity: sensitivity,
		AllowTabSwitch:        req.AllowTabSwitch,
		AllowCopyPaste:        req.AllowCopyPaste,
		Questions:             req.Questions,
		Status:                models.ExamStatusScheduled,
	}
	if err := h.exams.Create(r.Context(), exam); err != nil {
		h.log.WithContext(r.Context()).WithError(err).Error("failed to create exam")
		rw.InternalServerError("Failed to create exam", nil)
		return
	}

	rw.Created(exam)
}

// List handles GET /exams.
func (h *ExamHandler) List(w http.ResponseWriter, r *http.Request) {
	rw := response.NewResponseWriter(w, requestID(r.Context()))

	filter := database.ExamFilter{
		Status: r.URL.Query().Get("status"),
		Limit:  50,
	}
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 && limit <= 200 {
			filter.Limit = limit
		}
	}
	if createdBy := r.URL.Query().Get("created_by"); createdBy != "" {
		id, err := uuid.Parse(createdBy)
		if err != nil {
			rw.BadRequest("Invalid created_by filter", createdBy)
			return
		}
		filter.CreatedBy = &id
	}

	exams, err := h.exams.List(r.Context(), filter)
	if err != nil {
		rw.InternalServerError("Failed to list exams", nil)
		return
	}
	count := int64(len(exams))
	rw.Success(exams, &response.Meta{Count: &count})
}

// Get handles GET /exams/{id}.
func (h *ExamHandler) Get(w http.ResponseWriter, r *http.Request, segment string) {
	id, ok := parseUUID(w, r, segment)
	if !ok {
		return
	}

	exam, err := h.exams.GetByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, r, err, response.ErrorCodeExamNotFound, "Exam not found")
		return
	}
	response.NewResponseWriter(w, requestID(r.Context())).Success(exam, nil)
}

// Start handles POST /exams/{id}/start. Starting an exam twice returns the
// caller's existing in-progress session rather than creating a duplicate.
func (h *ExamHandler) Start(w http.ResponseWriter, r *http.Request, segment string) {
	rw := response.NewResponseWriter(w, requestID(r.Context()))

	claims := auth.ClaimsFromContext(r.Context())
	if claims == nil {
		rw.Unauthorized("Authentication required")
		return
	}

	examID, ok := parseUUID(w, r, segment)
	if !ok {
		return
	}

	if _, err := h.exams.GetByID(r.Context(), examID); err != nil {
		writeStoreError(w, r, err, response.ErrorCodeExamNotFound, "Exam not found")
		return
	}

	session, created, err := h.sessions.Start(r.Context(), examID, claims.UserID)
	if err != nil {
		h.log.WithContext(r.Context()).WithError(err).Error("failed to start session")
		rw.InternalServerError("Failed to start session", nil)
		return
	}

	if created {
		h.log.WithContext(r.Context()).WithFields(map[string]interface{}{
			"exam_id":    examID.String(),
			"session_id": session.ID.String(),
		}).Info("exam session started")
		rw.Created(session)
		return
	}
	rw.Success(session, nil)
}

// Submit handles POST /exams/{id}/submit. It evaluates the integrity of the
// caller's active session from its accumulated events and transitions the
// session to submitted.
func (h *ExamHandler) Submit(w http.ResponseWriter, r *http.Request, segment string) {
	rw := response.NewResponseWriter(w, requestID(r.Context()))

	claims := auth.ClaimsFromContext(r.Context())
	if claims == nil {
		rw.Unauthorized("Authentication required")
		return
	}

	examID, ok := parseUUID(w, r, segment)
	if !ok {
		return
	}

	var req SubmitExamRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	session, err := h.sessions.GetActive(r.Context(), examID, claims.UserID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			rw.Error(http.StatusConflict, response.ErrorCodeSessionNotActive, "No active session for this exam", nil)
			return
		}
		rw.InternalServerError("Failed to look up session", nil)
		return
	}

	events, err := h.events.ListBySession(r.Context(), session.ID)
	if err != nil {
		rw.InternalServerError("Failed to load session events", nil)
		return
	}

	integrity := risk.EvaluateIntegrity(models.EventsToRisk(events))

	now := time.Now().UTC()
	timeTaken := req.TimeTakenSeconds
	if timeTaken == nil {
		seconds := int(now.Sub(session.StartedAt).Seconds())
		timeTaken = &seconds
	}

	submitted, err := h.sessions.Submit(r.Context(), session.ID, database.Submission{
		SubmittedAt:      now,
		TimeTakenSeconds: timeTaken,
		Answers:          req.Answers,
		Score:            req.Score,
		IntegrityScore:   integrity.IntegrityScore,
		RiskScore:        integrity.RiskScore,
	})
	if err != nil {
		if errors.Is(err, database.ErrConflict) {
			rw.Error(http.StatusConflict, response.ErrorCodeSessionNotActive, "Session is no longer active", nil)
			return
		}
		h.log.WithContext(r.Context()).WithError(err).Error("failed to submit session")
		rw.InternalServerError("Failed to submit session", nil)
		return
	}

	h.log.WithContext(r.Context()).WithFields(map[string]interface{}{
		"session_id":      submitted.ID.String(),
		"integrity_score": integrity.IntegrityScore,
		"events_count":    integrity.EventsCount,
	}).Info("exam session submitted")

	rw.Success(SubmitExamResponse{Session: submitted, Integrity: integrity}, nil)
}
