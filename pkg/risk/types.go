// Package risk implements the behavioral baseline and risk-scoring engine
// for exam session monitoring. It accumulates a per-user profile of normal
// behavior, converts live behavior snapshots plus monitoring events into a
// bounded risk score, and derives session-level integrity at submission.
//
// The engine performs no I/O and holds no locks. Callers must serialize
// baseline merges per user; all scoring calls are pure computations and may
// run with unlimited parallelism across sessions.
package risk

import (
	"time"

	"github.com/google/uuid"
)

// Severity classifies events and alerts.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// RiskLevel classifies a composite risk score.
type RiskLevel string

const (
	RiskLevelLow    RiskLevel = "low"
	RiskLevelMedium RiskLevel = "medium"
	RiskLevelHigh   RiskLevel = "high"
)

// Well-known monitoring event types. The set is open; unknown types are
// accepted and classified with default severity.
const (
	EventTypeTabSwitch      = "tab_switch"
	EventTypeWindowBlur     = "window_blur"
	EventTypeWindowFocus    = "window_focus"
	EventTypeCopyPaste      = "copy_paste"
	EventTypeRightClick     = "right_click"
	EventTypeDevToolsOpen   = "devtools_open"
	EventTypeFullscreenExit = "fullscreen_exit"
	EventTypeIdle           = "idle"
)

// Behavioral metric names used in baseline feature maps and snapshots.
const (
	MetricTypingSpeedWPM     = "typing_speed_wpm"
	MetricMouseSpeedPXS      = "mouse_speed_pxs"
	MetricAvgQuestionTimeSec = "avg_question_time_sec"
	MetricTabSwitchRate      = "tab_switch_rate"
)

// Event is the engine's read-only view of a discrete monitoring signal
// inside a session. Events are immutable and ordered by timestamp.
type Event struct {
	SessionID uuid.UUID              `json:"session_id"`
	Type      string                 `json:"event_type"`
	Data      map[string]interface{} `json:"event_data"`
	Timestamp time.Time              `json:"timestamp"`
	Severity  Severity               `json:"severity"`
}

// Sample is a single behavior snapshot submitted for baseline merging.
// Named metrics are pointers so that "absent" and "zero" stay distinct.
type Sample struct {
	Features           map[string]float64 `json:"features"`
	TypingSpeedWPM     *float64           `json:"typing_speed_wpm,omitempty"`
	MouseSpeedPXS      *float64           `json:"mouse_speed_pxs,omitempty"`
	AvgQuestionTimeSec *float64           `json:"avg_question_time_sec,omitempty"`
	TabSwitchRate      *float64           `json:"tab_switch_rate,omitempty"`
}

// Baseline is a user's accumulated normal-behavior profile. Once created it
// is only ever mutated through MergeSample; SampleCount is monotonically
// non-decreasing and never below 1.
type Baseline struct {
	UserID             uuid.UUID          `json:"user_id"`
	Features           map[string]float64 `json:"features"`
	TypingSpeedWPM     *float64           `json:"typing_speed_wpm,omitempty"`
	MouseSpeedPXS      *float64           `json:"mouse_speed_pxs,omitempty"`
	AvgQuestionTimeSec *float64           `json:"avg_question_time_sec,omitempty"`
	TabSwitchRate      *float64           `json:"tab_switch_rate,omitempty"`
	SampleCount        int                `json:"sample_count"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

// Snapshot is the current-behavior input to composite scoring: a free-form
// map of metric name to value, as produced by the capture layer.
type Snapshot map[string]float64

// Evaluation is the result of one composite scoring pass.
type Evaluation struct {
	Score     float64            `json:"score"`
	Level     RiskLevel          `json:"level"`
	SubScores map[string]float64 `json:"sub_scores"`
	FailOpen  bool               `json:"fail_open"`
}

// IntegrityResult is the submission-time session aggregate.
type IntegrityResult struct {
	IntegrityScore     float64 `json:"integrity_score"`
	RiskScore          float64 `json:"risk_score"`
	EventsCount        int     `json:"events_count"`
	HighSeverityEvents int     `json:"high_severity_events"`
}

// Float64 returns a pointer to v. Convenience for building samples.
func Float64(v float64) *float64 {
	return &v
}
