package risk

import "math"

// Default baseline values used when a metric has never been observed for a
// user. Missing baseline knowledge is not an error; it resolves to these.
const (
	DefaultTypingSpeedWPM     = 45.0
	DefaultMouseSpeedPXS      = 500.0
	DefaultAvgQuestionTimeSec = 150.0
	DefaultTabSwitchRate      = 0.01
)

// Weights control how the five sub-scores fuse into one composite score.
// Tab-switching carries the highest weight as the strongest behavioral tell.
type Weights struct {
	Typing      float64 `json:"typing"`
	TabSwitch   float64 `json:"tab_switch"`
	Mouse       float64 `json:"mouse"`
	AnswerSpeed float64 `json:"answer_speed"`
	WindowFocus float64 `json:"window_focus"`
}

// DefaultWeights returns the production weight set. The weights sum to 1.0.
func DefaultWeights() Weights {
	return Weights{
		Typing:      0.20,
		TabSwitch:   0.30,
		Mouse:       0.15,
		AnswerSpeed: 0.20,
		WindowFocus: 0.15,
	}
}

// Scorer converts behavior snapshots and event streams into bounded risk
// scores. A Scorer is a plain value constructed by the caller and passed
// through the call chain; it holds no mutable state and is safe for
// concurrent use.
type Scorer struct {
	weights Weights
	metrics *Metrics
}

// NewScorer creates a scorer with the default weight set.
func NewScorer() *Scorer {
	return &Scorer{weights: DefaultWeights()}
}

// NewScorerWithWeights creates a scorer with custom fusion weights.
func NewScorerWithWeights(weights Weights) *Scorer {
	return &Scorer{weights: weights}
}

// WithMetrics attaches a metrics collector to the scorer. A nil collector
// disables instrumentation.
func (s *Scorer) WithMetrics(m *Metrics) *Scorer {
	s.metrics = m
	return s
}

// TypingScore grades the deviation of the current typing speed from the
// user's baseline. Tiers are deliberately discrete, not a smooth curve.
func (s *Scorer) TypingScore(currentWPM, baselineWPM float64) float64 {
	if baselineWPM == 0 {
		return 0.0
	}
	deviation := math.Abs(currentWPM-baselineWPM) / baselineWPM
	switch {
	case deviation > 1.0:
		return 0.9
	case deviation > 0.5:
		return 0.6
	case deviation > 0.3:
		return 0.3
	default:
		return 0.1
	}
}

// TabSwitchScore grades tab switching by absolute count within the session.
// baselineRate is accepted for interface symmetry but the count tiers are
// absolute, not baseline-relative.
func (s *Scorer) TabSwitchScore(events []Event, baselineRate float64) float64 {
	_ = baselineRate
	switches := CountType(events, EventTypeTabSwitch)
	switch {
	case switches == 0:
		return 0.0
	case switches > 10:
		return 1.0
	case switches > 5:
		return 0.8
	case switches > 2:
		return 0.5
	default:
		return 0.2
	}
}

// MouseScore grades mouse movement speed. Unusually slow movement is the
// suspicious case: it models remote control or copy-paste idling.
func (s *Scorer) MouseScore(currentSpeed, baselineSpeed float64) float64 {
	if baselineSpeed == 0 {
		return 0.0
	}
	if currentSpeed < baselineSpeed*0.3 {
		return 0.7
	}
	if math.Abs(currentSpeed-baselineSpeed)/baselineSpeed > 0.5 {
		return 0.4
	}
	return 0.1
}

// AnswerSpeedScore grades per-question answer time. Too fast suggests a
// pre-fetched answer, too slow suggests external lookup.
func (s *Scorer) AnswerSpeedScore(currentTime, baselineTime float64) float64 {
	if baselineTime == 0 {
		return 0.0
	}
	if currentTime < baselineTime*0.3 {
		return 0.8
	}
	if currentTime > baselineTime*3 {
		return 0.6
	}
	return 0.1
}

// WindowFocusScore grades accumulated window blur time across the session.
// Blur events without a duration field count as zero seconds.
func (s *Scorer) WindowFocusScore(events []Event) float64 {
	blurs := FilterType(events, EventTypeWindowBlur)
	if len(blurs) == 0 {
		return 0.0
	}
	totalBlurTime := 0.0
	for _, event := range blurs {
		totalBlurTime += eventDuration(event)
	}
	switch {
	case totalBlurTime > 120:
		return 0.9
	case totalBlurTime > 60:
		return 0.6
	case totalBlurTime > 30:
		return 0.3
	default:
		return 0.1
	}
}

// Score fuses the five sub-scores into one weighted risk score in [0, 1].
// Baseline metrics fall back to the documented defaults when absent, and a
// nil baseline scores entirely against defaults. Any internal failure
// converts to a 0.0 score rather than propagating: scoring must never block
// an exam flow.
func (s *Scorer) Score(current Snapshot, baseline *Baseline, events []Event) (eval Evaluation) {
	defer func() {
		if r := recover(); r != nil {
			eval = Evaluation{Score: 0.0, Level: RiskLevelLow, FailOpen: true}
			if s.metrics != nil {
				s.metrics.FailOpens.Inc()
			}
		}
	}()

	typing := s.TypingScore(current[MetricTypingSpeedWPM], baselineValue(baseline.typingSpeed(), DefaultTypingSpeedWPM))
	tabSwitch := s.TabSwitchScore(events, baselineValue(baseline.tabSwitchRate(), DefaultTabSwitchRate))
	mouse := s.MouseScore(current[MetricMouseSpeedPXS], baselineValue(baseline.mouseSpeed(), DefaultMouseSpeedPXS))
	answerSpeed := s.AnswerSpeedScore(current[MetricAvgQuestionTimeSec], baselineValue(baseline.avgQuestionTime(), DefaultAvgQuestionTimeSec))
	windowFocus := s.WindowFocusScore(events)

	score := typing*s.weights.Typing +
		tabSwitch*s.weights.TabSwitch +
		mouse*s.weights.Mouse +
		answerSpeed*s.weights.AnswerSpeed +
		windowFocus*s.weights.WindowFocus

	// Redundant while the weights sum to 1 and every term is bounded, but
	// mandatory as a safety net against future weight changes.
	score = clamp(score)

	if s.metrics != nil {
		s.metrics.Evaluations.Inc()
		s.metrics.RiskScores.Observe(score)
	}

	return Evaluation{
		Score: score,
		Level: ClassifyRisk(score),
		SubScores: map[string]float64{
			"typing":       typing,
			"tab_switch":   tabSwitch,
			"mouse":        mouse,
			"answer_speed": answerSpeed,
			"window_focus": windowFocus,
		},
	}
}

// ClassifyRisk maps a risk score to its level. The same thresholds classify
// alert severity; the two concepts share this single function.
func ClassifyRisk(score float64) RiskLevel {
	switch {
	case score < 0.3:
		return RiskLevelLow
	case score < 0.7:
		return RiskLevelMedium
	default:
		return RiskLevelHigh
	}
}

// ClassifySeverity maps a risk score to an alert severity label. Identical
// thresholds to ClassifyRisk.
func ClassifySeverity(score float64) Severity {
	return Severity(ClassifyRisk(score))
}

// Baseline accessors tolerate a nil receiver so composite scoring can run
// against defaults before any baseline exists.

func (b *Baseline) typingSpeed() *float64 {
	if b == nil {
		return nil
	}
	return b.TypingSpeedWPM
}

func (b *Baseline) mouseSpeed() *float64 {
	if b == nil {
		return nil
	}
	return b.MouseSpeedPXS
}

func (b *Baseline) avgQuestionTime() *float64 {
	if b == nil {
		return nil
	}
	return b.AvgQuestionTimeSec
}

func (b *Baseline) tabSwitchRate() *float64 {
	if b == nil {
		return nil
	}
	return b.TabSwitchRate
}

func baselineValue(v *float64, fallback float64) float64 {
	if v == nil || *v == 0 {
		return fallback
	}
	return *v
}

func clamp(v float64) float64 {
	return math.Max(0.0, math.Min(1.0, v))
}

func eventDuration(event Event) float64 {
	if event.Data == nil {
		return 0
	}
	switch d := event.Data["duration"].(type) {
	case float64:
		return d
	case int:
		return float64(d)
	case int64:
		return float64(d)
	default:
		return 0
	}
}
