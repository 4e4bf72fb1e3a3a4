package simulate

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Varshinibhargav-17/ExampulseAI/pkg/risk"
)

func TestArchetypeValid(t *testing.T) {
	for _, a := range Archetypes() {
		assert.True(t, a.Valid(), string(a))
	}
	assert.False(t, Archetype("keylogger").Valid())
}

func TestSampleShapes(t *testing.T) {
	g := NewGenerator(42)

	// Average over many draws so distribution means are testable.
	mean := func(a Archetype, metric string) float64 {
		var sum float64
		for i := 0; i < 200; i++ {
			sum += g.Sample(a).Features[metric]
		}
		return sum / 200
	}

	normalTyping := mean(ArchetypeNormal, risk.MetricTypingSpeedWPM)
	cheaterTyping := mean(ArchetypeCopyPaste, risk.MetricTypingSpeedWPM)
	assert.InDelta(t, 50, normalTyping, 5)
	assert.Greater(t, cheaterTyping, normalTyping*1.5,
		"copy-paste archetype should type far faster than normal")

	normalRate := mean(ArchetypeNormal, risk.MetricTabSwitchRate)
	switcherRate := mean(ArchetypeTabSwitcher, risk.MetricTabSwitchRate)
	assert.Greater(t, switcherRate, normalRate*5)
}

func TestSamplePointerFieldsSet(t *testing.T) {
	g := NewGenerator(1)
	sample := g.Sample(ArchetypeNormal)

	require.NotNil(t, sample.TypingSpeedWPM)
	require.NotNil(t, sample.MouseSpeedPXS)
	require.NotNil(t, sample.AvgQuestionTimeSec)
	require.NotNil(t, sample.TabSwitchRate)
	assert.Equal(t, *sample.TypingSpeedWPM, sample.Features[risk.MetricTypingSpeedWPM])
}

func TestEventsOrderedAndScoped(t *testing.T) {
	g := NewGenerator(7)
	sessionID := uuid.New()
	start := time.Now().UTC().Add(-time.Hour)

	events := g.Events(ArchetypeTabSwitcher, sessionID, start, time.Hour)
	require.NotEmpty(t, events)

	switches := 0
	for i, event := range events {
		assert.Equal(t, sessionID, event.SessionID)
		if i > 0 {
			assert.False(t, event.Timestamp.Before(events[i-1].Timestamp))
		}
		if event.Type == risk.EventTypeTabSwitch {
			switches++
		}
	}
	assert.GreaterOrEqual(t, switches, 40)
}

func TestCopyPasteArchetypeEmitsPastes(t *testing.T) {
	g := NewGenerator(3)
	events := g.Events(ArchetypeCopyPaste, uuid.New(), time.Now().UTC(), time.Hour)

	pastes := 0
	for _, event := range events {
		if event.Type == risk.EventTypeCopyPaste {
			pastes++
			assert.Contains(t, event.Data, "length")
		}
	}
	assert.GreaterOrEqual(t, pastes, 5)
}

func TestNormalArchetypeStaysQuiet(t *testing.T) {
	g := NewGenerator(11)
	events := g.Events(ArchetypeNormal, uuid.New(), time.Now().UTC(), time.Hour)
	assert.LessOrEqual(t, len(events), 5)
}

func TestGeneratorDeterministic(t *testing.T) {
	a := NewGenerator(99).Sample(ArchetypeBotAssisted)
	b := NewGenerator(99).Sample(ArchetypeBotAssisted)
	assert.Equal(t, a.Features, b.Features)
}

func TestUnknownArchetypeFallsBackToNormal(t *testing.T) {
	g := NewGenerator(5)
	session := g.Session(Archetype("unknown"))
	assert.Equal(t, ArchetypeNormal, session.Archetype)
	assert.NotEqual(t, uuid.Nil, session.SessionID)
	assert.LessOrEqual(t, len(session.Events), 5)
}
