package monitoring

import (
	"bytes"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordLookup(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.RecordLookup("find", "css", OutcomeFound, 10*time.Millisecond)
	m.RecordLookup("find", "css", OutcomeNotFound, 20*time.Millisecond)
	m.RecordLookup("all", "xpath", OutcomeError, time.Millisecond)
	m.RecordBackendError("htmldoc")
	m.ObservePollAttempts(3)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.LookupsTotal.WithLabelValues("find", "css", OutcomeFound)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BackendErrors.WithLabelValues("htmldoc")))

	snap := m.Snapshot()
	assert.Equal(t, int64(3), snap.Lookups)
	assert.Equal(t, int64(1), snap.Found)
	assert.Equal(t, int64(1), snap.NotFound)
	assert.Equal(t, int64(1), snap.Errors)
	assert.Equal(t, int64(1), snap.BackendErrors)
	assert.InDelta(t, 0.031, snap.TotalDuration, 1e-9)
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordLookup("find", "css", OutcomeFound, time.Millisecond)
		m.RecordBackendError("rod")
		m.ObservePollAttempts(1)
		NewTimer(m, "find", "css").Stop(OutcomeFound)
	})
	assert.Equal(t, MetricsSnapshot{}, m.Snapshot())
}

func TestTimer(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	timer := NewTimer(m, "first", "link")
	time.Sleep(5 * time.Millisecond)
	d := timer.Stop(OutcomeFound)

	assert.GreaterOrEqual(t, d, 5*time.Millisecond)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.LookupsTotal.WithLabelValues("first", "link", OutcomeFound)))
}

func TestWriteText(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	m.RecordLookup("find", "css", OutcomeFound, time.Millisecond)

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, reg))

	out := buf.String()
	assert.Contains(t, out, "# TYPE domfind_lookups_total counter")
	assert.Contains(t, out, `domfind_lookups_total{kind="css",op="find",outcome="found"} 1`)
	assert.Contains(t, out, "domfind_lookup_duration_seconds_bucket")
}
