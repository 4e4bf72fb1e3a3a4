package risk

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func tabSwitchEvents(n int) []Event {
	sessionID := uuid.New()
	events := make([]Event, n)
	for i := range events {
		events[i] = Event{
			SessionID: sessionID,
			Type:      EventTypeTabSwitch,
			Timestamp: time.Now().Add(time.Duration(i) * time.Second),
			Severity:  SeverityMedium,
		}
	}
	return events
}

func blurEvents(durations ...float64) []Event {
	sessionID := uuid.New()
	events := make([]Event, len(durations))
	for i, d := range durations {
		events[i] = Event{
			SessionID: sessionID,
			Type:      EventTypeWindowBlur,
			Data:      map[string]interface{}{"duration": d},
			Timestamp: time.Now().Add(time.Duration(i) * time.Second),
		}
	}
	return events
}

func TestTypingScore(t *testing.T) {
	s := NewScorer()

	tests := []struct {
		name     string
		current  float64
		baseline float64
		want     float64
	}{
		{"zero baseline", 60, 0, 0.0},
		{"within 30 percent", 50, 45, 0.1},
		{"over 30 percent", 60, 45, 0.3},
		{"over 50 percent", 70, 45, 0.6},
		{"over 100 percent deviation", 90, 40, 0.9},
		{"slow typing counts too", 10, 45, 0.6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.TypingScore(tt.current, tt.baseline))
		})
	}
}

func TestTabSwitchScore(t *testing.T) {
	s := NewScorer()

	tests := []struct {
		switches int
		want     float64
	}{
		{0, 0.0},
		{1, 0.2},
		{2, 0.2},
		{3, 0.5},
		{6, 0.8},
		{10, 0.8},
		{11, 1.0},
		{12, 1.0},
	}
	for _, tt := range tests {
		got := s.TabSwitchScore(tabSwitchEvents(tt.switches), DefaultTabSwitchRate)
		assert.Equal(t, tt.want, got, "switches=%d", tt.switches)
	}
}

func TestMouseScore(t *testing.T) {
	s := NewScorer()

	assert.Equal(t, 0.0, s.MouseScore(100, 0))
	assert.Equal(t, 0.7, s.MouseScore(100, 500), "unusually slow movement")
	assert.Equal(t, 0.4, s.MouseScore(800, 500), "large deviation")
	assert.Equal(t, 0.1, s.MouseScore(520, 500))
}

func TestAnswerSpeedScore(t *testing.T) {
	s := NewScorer()

	assert.Equal(t, 0.0, s.AnswerSpeedScore(100, 0))
	assert.Equal(t, 0.8, s.AnswerSpeedScore(30, 150), "too fast, pre-fetched answer")
	assert.Equal(t, 0.6, s.AnswerSpeedScore(500, 150), "too slow, external lookup")
	assert.Equal(t, 0.1, s.AnswerSpeedScore(140, 150))
}

func TestWindowFocusScore(t *testing.T) {
	s := NewScorer()

	assert.Equal(t, 0.0, s.WindowFocusScore(nil))
	assert.Equal(t, 0.1, s.WindowFocusScore(blurEvents(5, 10)))
	assert.Equal(t, 0.3, s.WindowFocusScore(blurEvents(20, 15)))
	assert.Equal(t, 0.6, s.WindowFocusScore(blurEvents(40, 50)), "total 90s of blur")
	assert.Equal(t, 0.9, s.WindowFocusScore(blurEvents(100, 30)))

	t.Run("missing duration counts as zero", func(t *testing.T) {
		events := []Event{{Type: EventTypeWindowBlur}}
		assert.Equal(t, 0.1, s.WindowFocusScore(events))
	})
}

func TestScore_Bounded(t *testing.T) {
	s := NewScorer()
	baseline := &Baseline{
		TypingSpeedWPM:     Float64(45),
		MouseSpeedPXS:      Float64(500),
		AvgQuestionTimeSec: Float64(150),
		TabSwitchRate:      Float64(0.01),
	}

	snapshots := []Snapshot{
		{},
		{MetricTypingSpeedWPM: 0, MetricMouseSpeedPXS: 0, MetricAvgQuestionTimeSec: 0},
		{MetricTypingSpeedWPM: 1000, MetricMouseSpeedPXS: 10000, MetricAvgQuestionTimeSec: 10000},
		{MetricTypingSpeedWPM: -50, MetricMouseSpeedPXS: -1, MetricAvgQuestionTimeSec: 0.001},
	}
	eventSets := [][]Event{nil, tabSwitchEvents(50), blurEvents(500)}

	for _, snap := range snapshots {
		for _, events := range eventSets {
			eval := s.Score(snap, baseline, events)
			assert.GreaterOrEqual(t, eval.Score, 0.0)
			assert.LessOrEqual(t, eval.Score, 1.0)
		}
	}
}

func TestScore_MonotonicInTabSwitches(t *testing.T) {
	s := NewScorer()
	snap := Snapshot{
		MetricTypingSpeedWPM:     45,
		MetricMouseSpeedPXS:      500,
		MetricAvgQuestionTimeSec: 150,
	}

	prev := -1.0
	for _, switches := range []int{0, 1, 3, 6, 11, 20} {
		eval := s.Score(snap, nil, tabSwitchEvents(switches))
		assert.GreaterOrEqual(t, eval.Score, prev, "switches=%d", switches)
		prev = eval.Score
	}
}

func TestScore_TypingDeviationScenario(t *testing.T) {
	// Baseline 40 wpm, current 90 wpm: deviation 1.25 puts the typing
	// sub-score at the top tier.
	s := NewScorer()
	baseline := &Baseline{TypingSpeedWPM: Float64(40)}
	eval := s.Score(Snapshot{MetricTypingSpeedWPM: 90}, baseline, nil)

	assert.Equal(t, 0.9, eval.SubScores["typing"])
}

func TestScore_NilBaselineUsesDefaults(t *testing.T) {
	s := NewScorer()
	eval := s.Score(Snapshot{
		MetricTypingSpeedWPM:     DefaultTypingSpeedWPM,
		MetricMouseSpeedPXS:      DefaultMouseSpeedPXS,
		MetricAvgQuestionTimeSec: DefaultAvgQuestionTimeSec,
	}, nil, nil)

	// Matching the defaults exactly leaves every deviation sub-score at
	// its floor and no event-based score at all.
	assert.Equal(t, 0.1, eval.SubScores["typing"])
	assert.Equal(t, 0.1, eval.SubScores["mouse"])
	assert.Equal(t, 0.1, eval.SubScores["answer_speed"])
	assert.Equal(t, 0.0, eval.SubScores["tab_switch"])
	assert.Equal(t, 0.0, eval.SubScores["window_focus"])
	assert.False(t, eval.FailOpen)
}

func TestScore_ZeroBaselineFieldFallsBackToDefault(t *testing.T) {
	s := NewScorer()
	baseline := &Baseline{TypingSpeedWPM: Float64(0)}
	eval := s.Score(Snapshot{MetricTypingSpeedWPM: 45}, baseline, nil)

	// A stored zero resolves to the 45 wpm default, not a zero divisor.
	assert.Equal(t, 0.1, eval.SubScores["typing"])
}

func TestClassifyRisk(t *testing.T) {
	tests := []struct {
		score float64
		want  RiskLevel
	}{
		{0.0, RiskLevelLow},
		{0.29, RiskLevelLow},
		{0.3, RiskLevelMedium},
		{0.69, RiskLevelMedium},
		{0.7, RiskLevelHigh},
		{1.0, RiskLevelHigh},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyRisk(tt.score), "score=%v", tt.score)
		assert.Equal(t, Severity(tt.want), ClassifySeverity(tt.score))
	}
}

func TestScore_TwelveTabSwitchesScenario(t *testing.T) {
	s := NewScorer()
	assert.Equal(t, 1.0, s.TabSwitchScore(tabSwitchEvents(12), DefaultTabSwitchRate))
}
