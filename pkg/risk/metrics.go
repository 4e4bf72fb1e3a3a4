package risk

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics instruments the engine's scoring and alerting paths.
type Metrics struct {
	Evaluations  prometheus.Counter
	FailOpens    prometheus.Counter
	RiskScores   prometheus.Histogram
	AlertsRaised *prometheus.CounterVec
	Integrity    prometheus.Histogram
}

// NewMetrics creates and registers the engine metrics on the given
// registerer. Pass prometheus.DefaultRegisterer for the process default.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Evaluations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "exampulse",
			Subsystem: "risk",
			Name:      "evaluations_total",
			Help:      "Total composite risk evaluations performed.",
		}),
		FailOpens: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "exampulse",
			Subsystem: "risk",
			Name:      "fail_open_total",
			Help:      "Evaluations that failed internally and defaulted to zero risk.",
		}),
		RiskScores: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "exampulse",
			Subsystem: "risk",
			Name:      "score",
			Help:      "Distribution of composite risk scores.",
			Buckets:   prometheus.LinearBuckets(0.0, 0.1, 11),
		}),
		AlertsRaised: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "exampulse",
			Subsystem: "risk",
			Name:      "alerts_raised_total",
			Help:      "Alerts raised by the generator, by severity.",
		}, []string{"severity"}),
		Integrity: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "exampulse",
			Subsystem: "risk",
			Name:      "integrity_score",
			Help:      "Distribution of submission-time integrity scores.",
			Buckets:   prometheus.LinearBuckets(0.5, 0.05, 11),
		}),
	}

	reg.MustRegister(m.Evaluations, m.FailOpens, m.RiskScores, m.AlertsRaised, m.Integrity)
	return m
}
