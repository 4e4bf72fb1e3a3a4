// Package simulate generates synthetic exam-session behavior for tests,
// demos and load fixtures. Each archetype is a fixed parameter set shaping
// the generated metrics and monitoring events; the set is closed.
package simulate

import (
	"math/rand"
	"sort"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"

	"github.com/Varshinibhargav-17/ExampulseAI/pkg/risk"
)

// Archetype names a synthetic behavior profile.
type Archetype string

const (
	ArchetypeNormal        Archetype = "normal"
	ArchetypeCopyPaste     Archetype = "copy_paste"
	ArchetypeTabSwitcher   Archetype = "tab_switch"
	ArchetypeBotAssisted   Archetype = "bot_assisted"
	ArchetypeCollaborative Archetype = "collaborative"
)

// Archetypes returns every known archetype.
func Archetypes() []Archetype {
	return []Archetype{
		ArchetypeNormal,
		ArchetypeCopyPaste,
		ArchetypeTabSwitcher,
		ArchetypeBotAssisted,
		ArchetypeCollaborative,
	}
}

// Valid reports whether a is a known archetype.
func (a Archetype) Valid() bool {
	switch a {
	case ArchetypeNormal, ArchetypeCopyPaste, ArchetypeTabSwitcher,
		ArchetypeBotAssisted, ArchetypeCollaborative:
		return true
	}
	return false
}

// params shapes one archetype's metric distributions and event volumes.
// Metric values are drawn from normal distributions clamped at zero; event
// counts are drawn uniformly from the given ranges.
type params struct {
	typingMean, typingStd     float64
	mouseMean, mouseStd       float64
	questionMean, questionStd float64

	tabSwitchesMin, tabSwitchesMax int
	copyPastesMin, copyPastesMax   int
	blursMin, blursMax             int
	blurDurationMean               float64

	// bimodal mixes in a second typing mode, emulating two people sharing
	// one session.
	bimodal bool
	// periodic spaces tab switches evenly instead of uniformly at random.
	periodic bool
}

var archetypeParams = map[Archetype]params{
	ArchetypeNormal: {
		typingMean: 50, typingStd: 8,
		mouseMean: 420, mouseStd: 60,
		questionMean: 95, questionStd: 20,
		tabSwitchesMin: 0, tabSwitchesMax: 3,
		blursMin: 0, blursMax: 2,
		blurDurationMean: 5,
	},
	ArchetypeCopyPaste: {
		typingMean: 125, typingStd: 30,
		mouseMean: 300, mouseStd: 110,
		questionMean: 45, questionStd: 25,
		tabSwitchesMin: 15, tabSwitchesMax: 35,
		copyPastesMin: 5, copyPastesMax: 15,
		blursMin: 3, blursMax: 8,
		blurDurationMean: 25,
	},
	ArchetypeTabSwitcher: {
		typingMean: 55, typingStd: 15,
		mouseMean: 520, mouseStd: 100,
		questionMean: 80, questionStd: 35,
		tabSwitchesMin: 40, tabSwitchesMax: 80,
		blursMin: 5, blursMax: 12,
		blurDurationMean: 15,
	},
	ArchetypeBotAssisted: {
		typingMean: 90, typingStd: 3,
		mouseMean: 400, mouseStd: 10,
		questionMean: 45, questionStd: 5,
		tabSwitchesMin: 8, tabSwitchesMax: 15,
		blursMin: 1, blursMax: 3,
		blurDurationMean: 10,
		periodic:         true,
	},
	ArchetypeCollaborative: {
		typingMean: 45, typingStd: 6,
		mouseMean: 380, mouseStd: 90,
		questionMean: 90, questionStd: 30,
		tabSwitchesMin: 10, tabSwitchesMax: 25,
		blursMin: 2, blursMax: 6,
		blurDurationMean: 20,
		bimodal:          true,
	},
}

// Generator produces deterministic synthetic behavior for a given seed.
type Generator struct {
	faker *gofakeit.Faker
	rng   *rand.Rand
}

// NewGenerator creates a generator. The same seed always yields the same
// sequence of samples and events.
func NewGenerator(seed uint64) *Generator {
	return &Generator{
		faker: gofakeit.New(seed),
		rng:   rand.New(rand.NewSource(int64(seed))),
	}
}

// Sample draws one behavior sample from the archetype's distributions,
// suitable for baseline merging.
func (g *Generator) Sample(archetype Archetype) risk.Sample {
	p := archetypeParams[normalize(archetype)]

	typing := g.gauss(p.typingMean, p.typingStd)
	if p.bimodal && g.rng.Intn(2) == 0 {
		typing = g.gauss(p.typingMean+30, p.typingStd)
	}
	mouse := g.gauss(p.mouseMean, p.mouseStd)
	question := g.gauss(p.questionMean, p.questionStd)
	tabRate := float64(g.intBetween(p.tabSwitchesMin, p.tabSwitchesMax)) / 3600.0

	return risk.Sample{
		Features: map[string]float64{
			risk.MetricTypingSpeedWPM:     typing,
			risk.MetricMouseSpeedPXS:      mouse,
			risk.MetricAvgQuestionTimeSec: question,
			risk.MetricTabSwitchRate:      tabRate,
		},
		TypingSpeedWPM:     &typing,
		MouseSpeedPXS:      &mouse,
		AvgQuestionTimeSec: &question,
		TabSwitchRate:      &tabRate,
	}
}

// Snapshot draws a live behavior snapshot for risk evaluation.
func (g *Generator) Snapshot(archetype Archetype) risk.Snapshot {
	sample := g.Sample(archetype)
	return risk.Snapshot(sample.Features)
}

// Events generates the archetype's monitoring events for a session of the
// given duration, ordered by timestamp.
func (g *Generator) Events(archetype Archetype, sessionID uuid.UUID, start time.Time, duration time.Duration) []risk.Event {
	p := archetypeParams[normalize(archetype)]
	events := make([]risk.Event, 0)

	switches := g.intBetween(p.tabSwitchesMin, p.tabSwitchesMax)
	for i := 0; i < switches; i++ {
		at := g.eventTime(start, duration, i, switches, p.periodic)
		events = append(events, risk.Event{
			SessionID: sessionID,
			Type:      risk.EventTypeTabSwitch,
			Timestamp: at,
		})
	}

	pastes := g.intBetween(p.copyPastesMin, p.copyPastesMax)
	for i := 0; i < pastes; i++ {
		events = append(events, risk.Event{
			SessionID: sessionID,
			Type:      risk.EventTypeCopyPaste,
			Data:      map[string]interface{}{"length": g.faker.Number(40, 600)},
			Timestamp: g.eventTime(start, duration, i, pastes, false),
		})
	}

	blurs := g.intBetween(p.blursMin, p.blursMax)
	for i := 0; i < blurs; i++ {
		events = append(events, risk.Event{
			SessionID: sessionID,
			Type:      risk.EventTypeWindowBlur,
			Data: map[string]interface{}{
				"duration_sec": g.exp(p.blurDurationMean),
			},
			Timestamp: g.eventTime(start, duration, i, blurs, false),
		})
	}

	sort.Slice(events, func(i, j int) bool {
		return events[i].Timestamp.Before(events[j].Timestamp)
	})
	return events
}

// Session bundles a full synthetic session.
type Session struct {
	Archetype Archetype     `json:"archetype"`
	SessionID uuid.UUID     `json:"session_id"`
	UserID    uuid.UUID     `json:"user_id"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
	Sample    risk.Sample   `json:"sample"`
	Events    []risk.Event  `json:"events"`
}

// Session generates a complete session for the archetype: identity, one
// behavior sample and the event stream. Durations vary around one hour.
func (g *Generator) Session(archetype Archetype) Session {
	duration := time.Hour + time.Duration(g.rng.Intn(600)-300)*time.Second
	start := time.Now().UTC().Add(-duration)
	sessionID := uuid.New()

	return Session{
		Archetype: normalize(archetype),
		SessionID: sessionID,
		UserID:    uuid.New(),
		StartedAt: start,
		Duration:  duration,
		Sample:    g.Sample(archetype),
		Events:    g.Events(archetype, sessionID, start, duration),
	}
}

func normalize(a Archetype) Archetype {
	if !a.Valid() {
		return ArchetypeNormal
	}
	return a
}

func (g *Generator) gauss(mean, std float64) float64 {
	v := g.rng.NormFloat64()*std + mean
	if v < 0 {
		return 0
	}
	return v
}

func (g *Generator) exp(mean float64) float64 {
	return g.rng.ExpFloat64() * mean
}

func (g *Generator) intBetween(min, max int) int {
	if max <= min {
		return min
	}
	return min + g.rng.Intn(max-min+1)
}

func (g *Generator) eventTime(start time.Time, duration time.Duration, i, total int, periodic bool) time.Time {
	if periodic && total > 0 {
		step := duration / time.Duration(total+1)
		jitter := time.Duration(g.rng.Intn(41)-20) * time.Second
		return start.Add(step*time.Duration(i+1) + jitter)
	}
	offset := time.Duration(g.rng.Int63n(int64(duration)))
	return start.Add(offset)
}
