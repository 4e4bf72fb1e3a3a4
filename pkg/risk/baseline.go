package risk

import (
	"time"

	"github.com/google/uuid"
)

// MergeSample folds a behavior sample into a user's baseline and returns the
// updated profile. A nil baseline creates a fresh one with SampleCount 1,
// copying every present field from the sample verbatim.
//
// Existing values update as a 2-point running average: (old + new) / 2. This
// is deliberately not a count-weighted average; recent samples pull the
// baseline toward themselves at a fixed 50% rate no matter how many samples
// were merged before. For typing_speed_wpm, mouse_speed_pxs and
// tab_switch_rate a value of exactly zero on either side is treated as "no
// reading" and leaves the field unchanged, protecting the profile against
// sensor zero-readings. avg_question_time_sec merges zeros normally.
//
// Callers must serialize merges for a single user, or concurrent 2-point
// averages will silently drop a sample's contribution.
func MergeSample(baseline *Baseline, userID uuid.UUID, sample Sample, now time.Time) *Baseline {
	if baseline == nil {
		return newBaseline(userID, sample, now)
	}

	if baseline.Features == nil {
		baseline.Features = make(map[string]float64)
	}
	for key, value := range sample.Features {
		if existing, ok := baseline.Features[key]; ok {
			baseline.Features[key] = (existing + value) / 2
		} else {
			baseline.Features[key] = value
		}
	}

	baseline.TypingSpeedWPM = mergeGuarded(baseline.TypingSpeedWPM, sample.TypingSpeedWPM)
	baseline.MouseSpeedPXS = mergeGuarded(baseline.MouseSpeedPXS, sample.MouseSpeedPXS)
	baseline.TabSwitchRate = mergeGuarded(baseline.TabSwitchRate, sample.TabSwitchRate)
	baseline.AvgQuestionTimeSec = mergeMetric(baseline.AvgQuestionTimeSec, sample.AvgQuestionTimeSec)

	baseline.SampleCount++
	baseline.UpdatedAt = now
	return baseline
}

func newBaseline(userID uuid.UUID, sample Sample, now time.Time) *Baseline {
	features := make(map[string]float64, len(sample.Features))
	for key, value := range sample.Features {
		features[key] = value
	}
	return &Baseline{
		UserID:             userID,
		Features:           features,
		TypingSpeedWPM:     copyFloat(sample.TypingSpeedWPM),
		MouseSpeedPXS:      copyFloat(sample.MouseSpeedPXS),
		AvgQuestionTimeSec: copyFloat(sample.AvgQuestionTimeSec),
		TabSwitchRate:      copyFloat(sample.TabSwitchRate),
		SampleCount:        1,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

// mergeGuarded applies the 2-point average with the zero-is-no-reading guard.
func mergeGuarded(existing, incoming *float64) *float64 {
	if incoming == nil || *incoming == 0 {
		return existing
	}
	if existing == nil {
		return copyFloat(incoming)
	}
	if *existing == 0 {
		return existing
	}
	return Float64((*existing + *incoming) / 2)
}

// mergeMetric applies the plain 2-point average, zeros included.
func mergeMetric(existing, incoming *float64) *float64 {
	if incoming == nil {
		return existing
	}
	if existing == nil {
		return copyFloat(incoming)
	}
	return Float64((*existing + *incoming) / 2)
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}
