// Package logger provides structured JSON logging for the ExamPulse services.
package logger

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"
)

// LogLevel represents the severity of a log entry.
type LogLevel int

const (
	DebugLevel LogLevel = iota
	InfoLevel
	WarnLevel
	ErrorLevel
	FatalLevel
)

func (l LogLevel) String() string {
	switch l {
	case DebugLevel:
		return "debug"
	case InfoLevel:
		return "info"
	case WarnLevel:
		return "warn"
	case ErrorLevel:
		return "error"
	case FatalLevel:
		return "fatal"
	default:
		return "unknown"
	}
}

// ParseLevel converts a level name into a LogLevel, defaulting to info.
func ParseLevel(s string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return DebugLevel
	case "info":
		return InfoLevel
	case "warn", "warning":
		return WarnLevel
	case "error":
		return ErrorLevel
	case "fatal":
		return FatalLevel
	default:
		return InfoLevel
	}
}

// LogFormat controls the output encoding.
type LogFormat int

const (
	JSONFormat LogFormat = iota
	TextFormat
)

// Config configures a Logger.
type Config struct {
	Level      LogLevel
	Format     LogFormat
	Output     io.Writer
	Service    string
	Version    string
	AddCaller  bool
	TimeFormat string
}

// DefaultConfig returns the configuration used by the server binary.
func DefaultConfig() Config {
	return Config{
		Level:      InfoLevel,
		Format:     JSONFormat,
		Output:     os.Stdout,
		Service:    "exampulse",
		AddCaller:  false,
		TimeFormat: time.RFC3339Nano,
	}
}

// LogEntry is a single structured log record.
type LogEntry struct {
	Timestamp string                 `json:"timestamp"`
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	Service   string                 `json:"service,omitempty"`
	Version   string                 `json:"version,omitempty"`
	Caller    string                 `json:"caller,omitempty"`
	RequestID string                 `json:"request_id,omitempty"`
	UserID    string                 `json:"user_id,omitempty"`
	SessionID string                 `json:"session_id,omitempty"`
	Error     string                 `json:"error,omitempty"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
}

// Logger writes structured log entries. Loggers returned by the With*
// methods share the underlying writer and are safe for concurrent use.
type Logger struct {
	config Config
	fields map[string]interface{}
	err    error
	mu     *sync.Mutex
}

// NewLogger creates a Logger from the given configuration.
func NewLogger(config Config) *Logger {
	if config.Output == nil {
		config.Output = os.Stdout
	}
	if config.TimeFormat == "" {
		config.TimeFormat = time.RFC3339Nano
	}
	return &Logger{
		config: config,
		fields: make(map[string]interface{}),
		mu:     &sync.Mutex{},
	}
}

// NewDefaultLogger creates a Logger with the default configuration.
func NewDefaultLogger() *Logger {
	return NewLogger(DefaultConfig())
}

func (l *Logger) clone() *Logger {
	fields := make(map[string]interface{}, len(l.fields)+1)
	for k, v := range l.fields {
		fields[k] = v
	}
	return &Logger{config: l.config, fields: fields, err: l.err, mu: l.mu}
}

// WithField returns a logger that includes the given field on every entry.
func (l *Logger) WithField(key string, value interface{}) *Logger {
	c := l.clone()
	c.fields[key] = value
	return c
}

// WithFields returns a logger that includes all given fields on every entry.
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	c := l.clone()
	for k, v := range fields {
		c.fields[k] = v
	}
	return c
}

// WithError returns a logger that attaches err to every entry.
func (l *Logger) WithError(err error) *Logger {
	c := l.clone()
	c.err = err
	return c
}

type contextKey string

const (
	requestIDKey contextKey = "request_id"
	userIDKey    contextKey = "user_id"
	sessionIDKey contextKey = "session_id"
)

// ContextWithRequestID stores a request ID for extraction by WithContext.
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// ContextWithUserID stores a user ID for extraction by WithContext.
func ContextWithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// ContextWithSessionID stores an exam session ID for extraction by WithContext.
func ContextWithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionIDKey, sessionID)
}

// RequestIDFromContext returns the request ID set by ContextWithRequestID.
func RequestIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}

// WithContext returns a logger carrying the request, user, and session IDs
// found in ctx.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	c := l.clone()
	if v, ok := ctx.Value(requestIDKey).(string); ok && v != "" {
		c.fields[string(requestIDKey)] = v
	}
	if v, ok := ctx.Value(userIDKey).(string); ok && v != "" {
		c.fields[string(userIDKey)] = v
	}
	if v, ok := ctx.Value(sessionIDKey).(string); ok && v != "" {
		c.fields[string(sessionIDKey)] = v
	}
	return c
}

func (l *Logger) log(level LogLevel, msg string) {
	if level < l.config.Level {
		return
	}

	entry := LogEntry{
		Timestamp: time.Now().UTC().Format(l.config.TimeFormat),
		Level:     level.String(),
		Message:   msg,
		Service:   l.config.Service,
		Version:   l.config.Version,
	}

	if l.err != nil {
		entry.Error = l.err.Error()
	}

	if l.config.AddCaller {
		if _, file, line, ok := runtime.Caller(2); ok {
			if idx := strings.LastIndex(file, "/"); idx >= 0 {
				file = file[idx+1:]
			}
			entry.Caller = fmt.Sprintf("%s:%d", file, line)
		}
	}

	if len(l.fields) > 0 {
		fields := make(map[string]interface{}, len(l.fields))
		for k, v := range l.fields {
			switch k {
			case string(requestIDKey):
				entry.RequestID = fmt.Sprint(v)
			case string(userIDKey):
				entry.UserID = fmt.Sprint(v)
			case string(sessionIDKey):
				entry.SessionID = fmt.Sprint(v)
			default:
				fields[k] = v
			}
		}
		if len(fields) > 0 {
			entry.Fields = fields
		}
	}

	l.write(entry)

	if level == FatalLevel {
		os.Exit(1)
	}
}

func (l *Logger) write(entry LogEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.config.Format == TextFormat {
		fmt.Fprintf(l.config.Output, "%s [%s] %s", entry.Timestamp, strings.ToUpper(entry.Level), entry.Message)
		if entry.Error != "" {
			fmt.Fprintf(l.config.Output, " error=%q", entry.Error)
		}
		for k, v := range entry.Fields {
			fmt.Fprintf(l.config.Output, " %s=%v", k, v)
		}
		fmt.Fprintln(l.config.Output)
		return
	}

	data, err := json.Marshal(entry)
	if err != nil {
		fmt.Fprintf(l.config.Output, `{"level":"error","message":"failed to marshal log entry: %v"}`+"\n", err)
		return
	}
	l.config.Output.Write(append(data, '\n'))
}

// Debug logs a message at debug level.
func (l *Logger) Debug(msg string) { l.log(DebugLevel, msg) }

// Debugf logs a formatted message at debug level.
func (l *Logger) Debugf(format string, args ...interface{}) {
	l.log(DebugLevel, fmt.Sprintf(format, args...))
}

// Info logs a message at info level.
func (l *Logger) Info(msg string) { l.log(InfoLevel, msg) }

// Infof logs a formatted message at info level.
func (l *Logger) Infof(format string, args ...interface{}) {
	l.log(InfoLevel, fmt.Sprintf(format, args...))
}

// Warn logs a message at warn level.
func (l *Logger) Warn(msg string) { l.log(WarnLevel, msg) }

// Warnf logs a formatted message at warn level.
func (l *Logger) Warnf(format string, args ...interface{}) {
	l.log(WarnLevel, fmt.Sprintf(format, args...))
}

// Error logs a message at error level.
func (l *Logger) Error(msg string) { l.log(ErrorLevel, msg) }

// Errorf logs a formatted message at error level.
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.log(ErrorLevel, fmt.Sprintf(format, args...))
}

// Fatal logs a message at fatal level and exits the process.
func (l *Logger) Fatal(msg string) { l.log(FatalLevel, msg) }

// Fatalf logs a formatted message at fatal level and exits the process.
func (l *Logger) Fatalf(format string, args ...interface{}) {
	l.log(FatalLevel, fmt.Sprintf(format, args...))
}

var (
	defaultLogger *Logger
	defaultOnce   sync.Once
)

// Default returns the process-wide logger.
func Default() *Logger {
	defaultOnce.Do(func() {
		if defaultLogger == nil {
			defaultLogger = NewDefaultLogger()
		}
	})
	return defaultLogger
}

// SetDefault replaces the process-wide logger.
func SetDefault(l *Logger) {
	defaultOnce.Do(func() {})
	defaultLogger = l
}
