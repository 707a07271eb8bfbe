package monitoring

import "time"

// Timer measures lookup duration
type Timer struct {
	start   time.Time
	metrics *Metrics
	op      string
	kind    string
}

// NewTimer creates a new timer
func NewTimer(metrics *Metrics, op, kind string) *Timer {
	return &Timer{
		start:   time.Now(),
		metrics: metrics,
		op:      op,
		kind:    kind,
	}
}

// Stop stops the timer and records the lookup with the given outcome
func (t *Timer) Stop(outcome string) time.Duration {
	duration := time.Since(t.start)
	t.metrics.RecordLookup(t.op, t.kind, outcome, duration)
	return duration
}
