package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.IncrementDecision("command", "allow")
	m.IncrementDecision("command", "allow")
	m.IncrementDecision("inline", "deny")
	m.IncrementReplyFailure("callback")
	m.SetUsers("started", 5)
	m.SetUsers("started", 3)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Decisions.WithLabelValues("command", "allow")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Decisions.WithLabelValues("inline", "deny")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ReplyFailures.WithLabelValues("callback")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.Users.WithLabelValues("started")))
}

func TestMetrics_NilIsSafe(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.IncrementDecision("command", "allow")
		m.IncrementReplyFailure("command")
		m.SetUsers("started", 1)
	})
}
