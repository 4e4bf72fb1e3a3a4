// Package response implements the JSON envelope used by every ExamPulse
// API endpoint.
package response

import (
	"encoding/json"
	"net/http"
	"time"
)

// APIResponse is the standard response envelope.
type APIResponse struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Error     *APIError   `json:"error,omitempty"`
	Meta      *Meta       `json:"meta,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	RequestID string      `json:"request_id,omitempty"`
}

// APIError carries a machine-readable code alongside the message.
type APIError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// Meta is response metadata.
type Meta struct {
	Pagination *Pagination `json:"pagination,omitempty"`
	Count      *int64      `json:"count,omitempty"`
}

// Pagination describes the page window for list endpoints.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
	TotalCount int64 `json:"total_count"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// ResponseWriter writes enveloped API responses.
type ResponseWriter struct {
	w         http.ResponseWriter
	requestID string
}

// NewResponseWriter creates a response writer bound to a request ID.
func NewResponseWriter(w http.ResponseWriter, requestID string) *ResponseWriter {
	return &ResponseWriter{w: w, requestID: requestID}
}

// Success writes a 200 response.
func (rw *ResponseWriter) Success(data interface{}, meta *Meta) {
	rw.writeJSON(http.StatusOK, APIResponse{
		Success:   true,
		Data:      data,
		Meta:      meta,
		Timestamp: time.Now(),
		RequestID: rw.requestID,
	})
}

// Created writes a 201 response.
func (rw *ResponseWriter) Created(data interface{}) {
	rw.writeJSON(http.StatusCreated, APIResponse{
		Success:   true,
		Data:      data,
		Timestamp: time.Now(),
		RequestID: rw.requestID,
	})
}

// NoContent writes a 204 response.
func (rw *ResponseWriter) NoContent() {
	rw.w.WriteHeader(http.StatusNoContent)
}

// Error writes an error response with the given status and code.
func (rw *ResponseWriter) Error(statusCode int, code, message string, details interface{}) {
	rw.writeJSON(statusCode, APIResponse{
		Success: false,
		Error: &APIError{
			Code:    code,
			Message: message,
			Details: details,
		},
		Timestamp: time.Now(),
		RequestID: rw.requestID,
	})
}

// BadRequest writes a 400 error.
func (rw *ResponseWriter) BadRequest(message string, details interface{}) {
	rw.Error(http.StatusBadRequest, ErrorCodeBadRequest, message, details)
}

// Unauthorized writes a 401 error.
func (rw *ResponseWriter) Unauthorized(message string) {
	rw.Error(http.StatusUnauthorized, ErrorCodeUnauthorized, message, nil)
}

// Forbidden writes a 403 error.
func (rw *ResponseWriter) Forbidden(message string) {
	rw.Error(http.StatusForbidden, ErrorCodeForbidden, message, nil)
}

// NotFound writes a 404 error.
func (rw *ResponseWriter) NotFound(message string) {
	rw.Error(http.StatusNotFound, ErrorCodeNotFound, message, nil)
}

// Conflict writes a 409 error.
func (rw *ResponseWriter) Conflict(message string, details interface{}) {
	rw.Error(http.StatusConflict, ErrorCodeConflict, message, details)
}

// TooManyRequests writes a 429 error.
func (rw *ResponseWriter) TooManyRequests(message string) {
	rw.Error(http.StatusTooManyRequests, ErrorCodeTooManyRequests, message, nil)
}

// InternalServerError writes a 500 error.
func (rw *ResponseWriter) InternalServerError(message string, details interface{}) {
	rw.Error(http.StatusInternalServerError, ErrorCodeInternalError, message, details)
}

// ServiceUnavailable writes a 503 error.
func (rw *ResponseWriter) ServiceUnavailable(message string) {
	rw.Error(http.StatusServiceUnavailable, ErrorCodeServiceUnavailable, message, nil)
}

// ValidationError writes a 400 response listing field errors.
func (rw *ResponseWriter) ValidationError(errors interface{}) {
	rw.Error(http.StatusBadRequest, ErrorCodeValidationError, "Validation failed", errors)
}

// Paginated writes a 200 response with pagination metadata.
func (rw *ResponseWriter) Paginated(data interface{}, page, pageSize int, totalCount int64) {
	totalPages := int((totalCount + int64(pageSize) - 1) / int64(pageSize))

	rw.Success(data, &Meta{
		Pagination: &Pagination{
			Page:       page,
			PageSize:   pageSize,
			TotalPages: totalPages,
			TotalCount: totalCount,
			HasNext:    page < totalPages,
			HasPrev:    page > 1,
		},
		Count: &totalCount,
	})
}

func (rw *ResponseWriter) writeJSON(statusCode int, data interface{}) {
	rw.w.Header().Set("Content-Type", "application/json")
	rw.w.WriteHeader(statusCode)

	if err := json.NewEncoder(rw.w).Encode(data); err != nil {
		http.Error(rw.w, "Internal server error", http.StatusInternalServerError)
	}
}

// HealthResponse is the body of the health endpoint.
type HealthResponse struct {
	Status    string            `json:"status"`
	Version   string            `json:"version"`
	Timestamp time.Time         `json:"timestamp"`
	Checks    map[string]string `json:"checks"`
}

// WriteHealthCheck writes a health check response; anything other than
// "healthy" returns 503.
func WriteHealthCheck(w http.ResponseWriter, status string, version string, checks map[string]string) {
	statusCode := http.StatusOK
	if status != "healthy" {
		statusCode = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(HealthResponse{
		Status:    status,
		Version:   version,
		Timestamp: time.Now(),
		Checks:    checks,
	})
}

// ErrorCode constants
const (
	ErrorCodeBadRequest         = "BAD_REQUEST"
	ErrorCodeUnauthorized       = "UNAUTHORIZED"
	ErrorCodeForbidden          = "FORBIDDEN"
	ErrorCodeNotFound           = "NOT_FOUND"
	ErrorCodeConflict           = "CONFLICT"
	ErrorCodeValidationError    = "VALIDATION_ERROR"
	ErrorCodeInternalError      = "INTERNAL_SERVER_ERROR"
	ErrorCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	ErrorCodeTooManyRequests    = "TOO_MANY_REQUESTS"

	// Business logic error codes
	ErrorCodeEmailTaken           = "EMAIL_TAKEN"
	ErrorCodeInvalidCredentials   = "INVALID_CREDENTIALS"
	ErrorCodeUserNotFound         = "USER_NOT_FOUND"
	ErrorCodeExamNotFound         = "EXAM_NOT_FOUND"
	ErrorCodeSessionNotFound      = "SESSION_NOT_FOUND"
	ErrorCodeAlertNotFound        = "ALERT_NOT_FOUND"
	ErrorCodeBaselineNotFound     = "BASELINE_NOT_FOUND"
	ErrorCodeSessionNotActive     = "SESSION_NOT_ACTIVE"
	ErrorCodeActiveSessionExists  = "ACTIVE_SESSION_EXISTS"
	ErrorCodeScoreOutOfRange      = "SCORE_OUT_OF_RANGE"
	ErrorCodeAlertAlreadyResolved = "ALERT_ALREADY_RESOLVED"
)
