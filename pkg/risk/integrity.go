package risk

import "math"

// EvaluateIntegrity computes the submission-time session aggregate from the
// session's full event stream. It is a coarser, count-based formula,
// independent of the baseline-deviation composite scorer: each high-severity
// event costs 0.1 integrity and every event costs a further 0.02, floored at
// 0.5. A session with no events has perfect integrity.
//
// The returned risk score is the exact complement of the integrity score and
// is what gets recorded on the session at submission.
func EvaluateIntegrity(events []Event) IntegrityResult {
	eventsCount := len(events)
	if eventsCount == 0 {
		return IntegrityResult{IntegrityScore: 1.0, RiskScore: 0.0}
	}

	highSeverity := CountSeverity(events, SeverityHigh)
	integrity := math.Max(0.5, 1.0-0.1*float64(highSeverity)-0.02*float64(eventsCount))

	return IntegrityResult{
		IntegrityScore:     integrity,
		RiskScore:          1.0 - integrity,
		EventsCount:        eventsCount,
		HighSeverityEvents: highSeverity,
	}
}
