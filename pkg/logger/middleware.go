package logger

import (
	"net/http"
	"time"

	"github.com/google/uuid"
)

// statusRecorder captures the response status code for access logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	n, err := r.ResponseWriter.Write(b)
	r.bytes += n
	return n, err
}

// HTTPLogger logs one entry per request with method, path, status, and
// duration. It also assigns a request ID when the client did not send one
// and exposes it in the X-Request-ID response header and the request
// context.
type HTTPLogger struct {
	logger *Logger
}

// NewHTTPLogger creates an HTTPLogger writing through l.
func NewHTTPLogger(l *Logger) *HTTPLogger {
	if l == nil {
		l = Default()
	}
	return &HTTPLogger{logger: l}
}

// Middleware wraps next with request logging.
func (h *HTTPLogger) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		w.Header().Set("X-Request-ID", requestID)

		ctx := ContextWithRequestID(r.Context(), requestID)
		r = r.WithContext(ctx)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)

		h.logger.WithContext(ctx).WithFields(map[string]interface{}{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      rec.status,
			"bytes":       rec.bytes,
			"duration_ms": time.Since(start).Milliseconds(),
			"remote_addr": r.RemoteAddr,
		}).Info("http request")
	})
}
