package risk

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerator_Decide(t *testing.T) {
	g := NewGenerator(AlertPolicy{Threshold: 0.5, Cooldown: 2 * time.Minute})
	sessionID := uuid.New()
	now := time.Now()

	t.Run("below threshold classifies but does not raise", func(t *testing.T) {
		decision, err := g.Decide(sessionID, 0.2, now)
		require.NoError(t, err)
		assert.False(t, decision.Raise)
		assert.Equal(t, RiskLevelLow, decision.Level)
		assert.Equal(t, SeverityLow, decision.Severity)
	})

	t.Run("at threshold raises", func(t *testing.T) {
		decision, err := g.Decide(sessionID, 0.75, now)
		require.NoError(t, err)
		assert.True(t, decision.Raise)
		assert.Equal(t, "high_risk_behavior", decision.AlertType)
		assert.Equal(t, SeverityHigh, decision.Severity)
		assert.NotEmpty(t, decision.Message)
	})

	t.Run("repeat inside cooldown suppressed", func(t *testing.T) {
		decision, err := g.Decide(sessionID, 0.8, now.Add(30*time.Second))
		require.NoError(t, err)
		assert.False(t, decision.Raise)
		// Classification still happens even when suppressed.
		assert.Equal(t, RiskLevelHigh, decision.Level)
	})

	t.Run("raises again after cooldown", func(t *testing.T) {
		decision, err := g.Decide(sessionID, 0.8, now.Add(3*time.Minute))
		require.NoError(t, err)
		assert.True(t, decision.Raise)
	})

	t.Run("cooldown is per session", func(t *testing.T) {
		decision, err := g.Decide(uuid.New(), 0.9, now)
		require.NoError(t, err)
		assert.True(t, decision.Raise)
	})
}

func TestGenerator_RejectsOutOfRangeScores(t *testing.T) {
	g := NewGenerator(DefaultAlertPolicy())
	sessionID := uuid.New()

	for _, score := range []float64{-0.1, 1.01, 2.0} {
		decision, err := g.Decide(sessionID, score, time.Now())
		assert.ErrorIs(t, err, ErrScoreOutOfRange, "score=%v", score)
		assert.False(t, decision.Raise)
	}
}

func TestGenerator_MediumSeverityAlertType(t *testing.T) {
	g := NewGenerator(AlertPolicy{Threshold: 0.5, Cooldown: time.Minute})

	decision, err := g.Decide(uuid.New(), 0.55, time.Now())
	require.NoError(t, err)
	assert.True(t, decision.Raise)
	assert.Equal(t, "elevated_risk_behavior", decision.AlertType)
	assert.Equal(t, SeverityMedium, decision.Severity)
}

func TestGenerator_Forget(t *testing.T) {
	g := NewGenerator(AlertPolicy{Threshold: 0.5, Cooldown: time.Hour})
	sessionID := uuid.New()
	now := time.Now()

	first, err := g.Decide(sessionID, 0.9, now)
	require.NoError(t, err)
	require.True(t, first.Raise)

	g.Forget(sessionID)

	second, err := g.Decide(sessionID, 0.9, now.Add(time.Second))
	require.NoError(t, err)
	assert.True(t, second.Raise, "cooldown state dropped after Forget")
}
