package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/Varshinibhargav-17/ExampulseAI/internal/server/response"
	"github.com/Varshinibhargav-17/ExampulseAI/pkg/auth"
	"github.com/Varshinibhargav-17/ExampulseAI/pkg/logger"
	"github.com/Varshinibhargav-17/ExampulseAI/pkg/risk"
)

// BaselineHandler serves baseline sample submission and retrieval.
type BaselineHandler struct {
	baselines BaselineStore
	log       *logger.Logger
}

// NewBaselineHandler creates a baseline handler.
func NewBaselineHandler(baselines BaselineStore, log *logger.Logger) *BaselineHandler {
	if log == nil {
		log = logger.Default()
	}
	return &BaselineHandler{baselines: baselines, log: log}
}

// SampleRequest is the body of POST /baselines. Metric fields are pointers
// so that an omitted metric is distinguishable from an explicit zero.
type SampleRequest struct {
	Features           map[string]float64 `json:"features,omitempty"`
	TypingSpeedWPM     *float64           `json:"typing_speed_wpm,omitempty"`
	MouseSpeedPXS      *float64           `json:"mouse_speed_pxs,omitempty"`
	AvgQuestionTimeSec *float64           `json:"avg_question_time_sec,omitempty"`
	TabSwitchRate      *float64           `json:"tab_switch_rate,omitempty"`
}

// ServeHTTP routes /baselines and /baselines/{user_id}.
func (h *BaselineHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	segments := pathSegments(r.URL.Path, "/api/v1")
	// segments[0] == "baselines"
	switch {
	case len(segments) == 1 && r.Method == http.MethodPost:
		h.SubmitSample(w, r)
	case len(segments) == 1 && r.Method == http.MethodGet:
		h.GetOwn(w, r)
	case len(segments) == 2 && r.Method == http.MethodGet:
		h.GetByUser(w, r, segments[1])
	default:
		methodNotAllowed(w, r)
	}
}

// SubmitSample handles POST /baselines: it merges one behavior sample into
// the caller's baseline and returns the updated profile.
func (h *BaselineHandler) SubmitSample(w http.ResponseWriter, r *http.Request) {
	rw := response.NewResponseWriter(w, requestID(r.Context()))

	claims := auth.ClaimsFromContext(r.Context())
	if claims == nil {
		rw.Unauthorized("Authentication required")
		return
	}

	var req SampleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Features == nil && req.TypingSpeedWPM == nil && req.MouseSpeedPXS == nil &&
		req.AvgQuestionTimeSec == nil && req.TabSwitchRate == nil {
		rw.BadRequest("Sample must contain at least one metric", nil)
		return
	}
	for name, value := range req.Features {
		if value < 0 {
			rw.ValidationError(map[string]string{name: "metric values must be non-negative"})
			return
		}
	}

	sample := risk.Sample{
		Features:           req.Features,
		TypingSpeedWPM:     req.TypingSpeedWPM,
		MouseSpeedPXS:      req.MouseSpeedPXS,
		AvgQuestionTimeSec: req.AvgQuestionTimeSec,
		TabSwitchRate:      req.TabSwitchRate,
	}

	baseline, created, err := h.baselines.MergeSample(r.Context(), claims.UserID, sample)
	if err != nil {
		h.log.WithContext(r.Context()).WithError(err).Error("failed to merge baseline sample")
		rw.InternalServerError("Failed to merge baseline sample", nil)
		return
	}

	if created {
		rw.Created(baseline)
		return
	}
	rw.Success(baseline, nil)
}

// GetOwn handles GET /baselines: the caller's own baseline.
func (h *BaselineHandler) GetOwn(w http.ResponseWriter, r *http.Request) {
	rw := response.NewResponseWriter(w, requestID(r.Context()))

	claims := auth.ClaimsFromContext(r.Context())
	if claims == nil {
		rw.Unauthorized("Authentication required")
		return
	}

	h.writeBaseline(w, r, claims.UserID)
}

// GetByUser handles GET /baselines/{user_id}. Only proctors may read
// another user's baseline.
func (h *BaselineHandler) GetByUser(w http.ResponseWriter, r *http.Request, segment string) {
	rw := response.NewResponseWriter(w, requestID(r.Context()))

	claims := auth.ClaimsFromContext(r.Context())
	if claims == nil {
		rw.Unauthorized("Authentication required")
		return
	}

	userID, ok := parseUUID(w, r, segment)
	if !ok {
		return
	}

	if userID != claims.UserID && !claims.Role.CanProctor() {
		rw.Forbidden("Only proctors may view other users' baselines")
		return
	}

	h.writeBaseline(w, r, userID)
}

func (h *BaselineHandler) writeBaseline(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	baseline, err := h.baselines.GetByUser(r.Context(), userID)
	if err != nil {
		writeStoreError(w, r, err, response.ErrorCodeBaselineNotFound, "No baseline recorded for user")
		return
	}
	response.NewResponseWriter(w, requestID(r.Context())).Success(baseline, nil)
}
