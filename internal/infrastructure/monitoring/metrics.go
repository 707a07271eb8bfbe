package monitoring

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Lookup outcomes
const (
	OutcomeFound    = "found"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

// Metrics holds all Prometheus metrics. A nil *Metrics records nothing.
type Metrics struct {
	// Lookup metrics
	LookupsTotal   *prometheus.CounterVec
	LookupDuration *prometheus.HistogramVec
	PollAttempts   prometheus.Histogram

	// Backend metrics
	BackendErrors *prometheus.CounterVec

	// Snapshot for CLI summaries - track current values
	snapshot MetricsSnapshot

	mu sync.RWMutex
}

// MetricsSnapshot holds current metric values
type MetricsSnapshot struct {
	Lookups       int64   `json:"lookups"`
	Found         int64   `json:"found"`
	NotFound      int64   `json:"not_found"`
	Errors        int64   `json:"errors"`
	BackendErrors int64   `json:"backend_errors"`
	TotalDuration float64 `json:"total_duration_seconds"`
}

// NewMetrics creates collectors registered on reg. A nil reg leaves them
// unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		LookupsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "domfind_lookups_total",
				Help: "Total number of element lookups",
			},
			[]string{"op", "kind", "outcome"},
		),
		LookupDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "domfind_lookup_duration_seconds",
				Help:    "Element lookup duration in seconds, including polling",
				Buckets: []float64{.001, .005, .01, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"op"},
		),
		PollAttempts: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "domfind_poll_attempts",
				Help:    "Number of query passes per polled lookup",
				Buckets: prometheus.ExponentialBuckets(1, 2, 8),
			},
		),
		BackendErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "domfind_backend_errors_total",
				Help: "Total number of document backend query errors",
			},
			[]string{"backend"},
		),
	}
}

// RecordLookup records a finished lookup
func (m *Metrics) RecordLookup(op, kind, outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.LookupsTotal.WithLabelValues(op, kind, outcome).Inc()
	m.LookupDuration.WithLabelValues(op).Observe(duration.Seconds())

	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshot.Lookups++
	m.snapshot.TotalDuration += duration.Seconds()
	switch outcome {
	case OutcomeFound:
		m.snapshot.Found++
	case OutcomeNotFound:
		m.snapshot.NotFound++
	default:
		m.snapshot.Errors++
	}
}

// ObservePollAttempts records how many passes a polled lookup needed
func (m *Metrics) ObservePollAttempts(n int) {
	if m == nil {
		return
	}
	m.PollAttempts.Observe(float64(n))
}

// RecordBackendError counts a failed backend query
func (m *Metrics) RecordBackendError(backend string) {
	if m == nil {
		return
	}
	m.BackendErrors.WithLabelValues(backend).Inc()

	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshot.BackendErrors++
}

// Snapshot returns a copy of the running totals
func (m *Metrics) Snapshot() MetricsSnapshot {
	if m == nil {
		return MetricsSnapshot{}
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshot
}
