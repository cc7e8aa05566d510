// Package metrics exports gameplay metrics in the Prometheus format.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Manager owns the gameplay metrics. It implements registry.Observer and is
// safe for concurrent use by many sessions.
type Manager struct {
	namespace    string
	subsystem    string
	scoreBuckets []float64
	registry     *prometheus.Registry

	runsStarted    *prometheus.CounterVec
	runsEnded      *prometheus.CounterVec
	rounds         *prometheus.CounterVec
	feverStarted   *prometheus.CounterVec
	finalScore     *prometheus.HistogramVec
	finalMaxCombo  *prometheus.HistogramVec
	sessionsActive prometheus.Gauge
}

// NewManager creates a manager backed by its own registry unless one is
// supplied.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:    "inspector",
		subsystem:    "game",
		scoreBuckets: prometheus.ExponentialBuckets(500, 2, 10),
		registry:     prometheus.NewRegistry(),
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.runsStarted = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "runs_started_total",
		Help:      "Total number of runs started",
	}, []string{"level"})

	m.runsEnded = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "runs_ended_total",
		Help:      "Total number of runs that ran out of time",
	}, []string{"level"})

	m.rounds = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rounds_total",
		Help:      "Total number of stamped documents by outcome",
	}, []string{"level", "outcome"})

	m.feverStarted = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "fever_started_total",
		Help:      "Total number of fever activations",
	}, []string{"level"})

	m.finalScore = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "final_score",
		Help:      "Score at the end of a run",
		Buckets:   m.scoreBuckets,
	}, []string{"level"})

	m.finalMaxCombo = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "final_max_combo",
		Help:      "Best combo reached in a run",
		Buckets:   prometheus.LinearBuckets(5, 5, 10),
	}, []string{"level"})

	m.sessionsActive = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "ssh",
		Name:      "sessions_active",
		Help:      "Connected SSH sessions",
	})
}

// RunStarted records a new run.
func (m *Manager) RunStarted(level string) {
	m.runsStarted.WithLabelValues(level).Inc()
}

// RoundResolved records one stamp outcome.
func (m *Manager) RoundResolved(level, outcome string) {
	m.rounds.WithLabelValues(level, outcome).Inc()
}

// FeverStarted records a fever activation.
func (m *Manager) FeverStarted(level string) {
	m.feverStarted.WithLabelValues(level).Inc()
}

// RunEnded records the final result of a run.
func (m *Manager) RunEnded(level string, score, maxCombo int) {
	m.runsEnded.WithLabelValues(level).Inc()
	m.finalScore.WithLabelValues(level).Observe(float64(score))
	m.finalMaxCombo.WithLabelValues(level).Observe(float64(maxCombo))
}

// SessionOpened records a connected SSH session.
func (m *Manager) SessionOpened() {
	m.sessionsActive.Inc()
}

// SessionClosed records a disconnected SSH session.
func (m *Manager) SessionClosed() {
	m.sessionsActive.Dec()
}

// Registry returns the registry holding the metrics.
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the metrics in the Prometheus text format.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
