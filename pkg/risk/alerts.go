package risk

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrScoreOutOfRange is returned when a caller hands the generator a risk
// score outside [0, 1]. Out-of-range scores are a caller contract violation
// and never produce an alert.
var ErrScoreOutOfRange = errors.New("risk score outside [0, 1]")

// AlertPolicy configures when the generator materializes an alert record.
// Thresholds and cooldown are deployment decisions; the defaults raise on
// medium risk with a two-minute per-session cooldown.
type AlertPolicy struct {
	Threshold float64       `json:"threshold"`
	Cooldown  time.Duration `json:"cooldown"`
}

// DefaultAlertPolicy returns the default alerting policy.
func DefaultAlertPolicy() AlertPolicy {
	return AlertPolicy{
		Threshold: 0.5,
		Cooldown:  2 * time.Minute,
	}
}

// AlertDecision is the generator's verdict for one risk evaluation.
type AlertDecision struct {
	Raise     bool      `json:"raise"`
	AlertType string    `json:"alert_type,omitempty"`
	Message   string    `json:"message,omitempty"`
	RiskScore float64   `json:"risk_score"`
	Severity  Severity  `json:"severity"`
	Level     RiskLevel `json:"level"`
}

// Generator decides whether a composite risk score should surface as a
// durable alert. It tracks the last alert time per session to enforce the
// cooldown; everything else is stateless.
type Generator struct {
	policy  AlertPolicy
	metrics *Metrics

	mu        sync.Mutex
	lastAlert map[uuid.UUID]time.Time
}

// NewGenerator creates an alert generator with the given policy.
func NewGenerator(policy AlertPolicy) *Generator {
	return &Generator{
		policy:    policy,
		lastAlert: make(map[uuid.UUID]time.Time),
	}
}

// WithMetrics attaches a metrics collector to the generator.
func (g *Generator) WithMetrics(m *Metrics) *Generator {
	g.metrics = m
	return g
}

// Decide classifies the score and returns whether an alert should be raised
// for the session. Scores outside [0, 1] are rejected; the generator never
// raises an alert for a score it cannot classify.
func (g *Generator) Decide(sessionID uuid.UUID, score float64, now time.Time) (AlertDecision, error) {
	if score < 0.0 || score > 1.0 {
		return AlertDecision{}, fmt.Errorf("%w: %v", ErrScoreOutOfRange, score)
	}

	decision := AlertDecision{
		RiskScore: score,
		Severity:  ClassifySeverity(score),
		Level:     ClassifyRisk(score),
	}

	if score < g.policy.Threshold {
		return decision, nil
	}

	g.mu.Lock()
	last, seen := g.lastAlert[sessionID]
	if seen && now.Sub(last) < g.policy.Cooldown {
		g.mu.Unlock()
		return decision, nil
	}
	g.lastAlert[sessionID] = now
	g.mu.Unlock()

	decision.Raise = true
	decision.AlertType = alertTypeFor(decision.Level)
	decision.Message = fmt.Sprintf("Behavioral risk score %.2f (%s) exceeded alert threshold %.2f",
		score, decision.Level, g.policy.Threshold)

	if g.metrics != nil {
		g.metrics.AlertsRaised.WithLabelValues(string(decision.Severity)).Inc()
	}

	return decision, nil
}

// Forget drops the cooldown state for a session. Called when a session
// reaches a terminal status so the map does not grow without bound.
func (g *Generator) Forget(sessionID uuid.UUID) {
	g.mu.Lock()
	delete(g.lastAlert, sessionID)
	g.mu.Unlock()
}

func alertTypeFor(level RiskLevel) string {
	switch level {
	case RiskLevelHigh:
		return "high_risk_behavior"
	default:
		return "elevated_risk_behavior"
	}
}
