package lspserver

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "flir"

// Metrics holds the server's Prometheus collectors. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	// Tasks counts completed worker tasks.
	// Labels: kind (lint, diagnostic), result (published, stale, replied, error)
	Tasks *prometheus.CounterVec
	// LintDuration measures time spent in the linter per task.
	LintDuration prometheus.Histogram
	// StalePublishes counts diagnostics dropped because the document moved on.
	StalePublishes prometheus.Counter
	// OpenDocuments tracks the number of documents open in the session.
	OpenDocuments prometheus.Gauge
}

// NewMetrics registers the server collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Tasks: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "lsp",
			Name:      "tasks_total",
			Help:      "Worker tasks processed by kind and result",
		}, []string{"kind", "result"}),
		LintDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "lsp",
			Name:      "lint_duration_seconds",
			Help:      "Time spent linting one document snapshot",
			Buckets:   []float64{0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		StalePublishes: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "lsp",
			Name:      "stale_publishes_total",
			Help:      "Diagnostics dropped because a newer version or close arrived first",
		}),
		OpenDocuments: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "lsp",
			Name:      "open_documents",
			Help:      "Documents currently open in the session",
		}),
	}
}

func (m *Metrics) taskDone(kind, result string) {
	if m == nil {
		return
	}
	m.Tasks.WithLabelValues(kind, result).Inc()
}

func (m *Metrics) observeLint(seconds float64) {
	if m == nil {
		return
	}
	m.LintDuration.Observe(seconds)
}

func (m *Metrics) stale() {
	if m == nil {
		return
	}
	m.StalePublishes.Inc()
}

func (m *Metrics) setOpenDocuments(n int) {
	if m == nil {
		return
	}
	m.OpenDocuments.Set(float64(n))
}
