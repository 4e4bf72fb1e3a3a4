package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func severityEvents(high, other int) []Event {
	var events []Event
	for i := 0; i < high; i++ {
		events = append(events, Event{Type: EventTypeCopyPaste, Severity: SeverityHigh})
	}
	for i := 0; i < other; i++ {
		events = append(events, Event{Type: EventTypeTabSwitch, Severity: SeverityLow})
	}
	return events
}

func TestEvaluateIntegrity_NoEvents(t *testing.T) {
	result := EvaluateIntegrity(nil)

	assert.Equal(t, 1.0, result.IntegrityScore)
	assert.Equal(t, 0.0, result.RiskScore)
	assert.Equal(t, 0, result.EventsCount)
}

func TestEvaluateIntegrity_CountBasedPenalty(t *testing.T) {
	// 3 high-severity events among 10 total: 1.0 - 0.3 - 0.2 = 0.5.
	result := EvaluateIntegrity(severityEvents(3, 7))

	assert.Equal(t, 0.5, result.IntegrityScore)
	assert.Equal(t, 0.5, result.RiskScore)
	assert.Equal(t, 10, result.EventsCount)
	assert.Equal(t, 3, result.HighSeverityEvents)
}

func TestEvaluateIntegrity_Floor(t *testing.T) {
	// Integrity can never fall below 0.5 from this formula alone.
	result := EvaluateIntegrity(severityEvents(20, 80))

	assert.Equal(t, 0.5, result.IntegrityScore)
	assert.Equal(t, 0.5, result.RiskScore)
}

func TestEvaluateIntegrity_RiskIsComplement(t *testing.T) {
	cases := [][]Event{
		nil,
		severityEvents(0, 1),
		severityEvents(1, 4),
		severityEvents(2, 10),
		severityEvents(5, 50),
	}
	for _, events := range cases {
		result := EvaluateIntegrity(events)
		assert.InDelta(t, 1.0, result.IntegrityScore+result.RiskScore, 1e-12)
		assert.GreaterOrEqual(t, result.IntegrityScore, 0.5)
		assert.LessOrEqual(t, result.IntegrityScore, 1.0)
	}
}

func TestEvaluateIntegrity_MildSession(t *testing.T) {
	// One low-severity event: 1.0 - 0.02 = 0.98.
	result := EvaluateIntegrity(severityEvents(0, 1))

	assert.InDelta(t, 0.98, result.IntegrityScore, 1e-12)
	assert.InDelta(t, 0.02, result.RiskScore, 1e-12)
}
