package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the start gate.
type Metrics struct {
	// Gate decisions by update kind and verdict
	Decisions *prometheus.CounterVec

	// Reply emissions that failed at the transport
	ReplyFailures *prometheus.CounterVec

	// Known users by membership status
	Users *prometheus.GaugeVec
}

// New creates a Metrics instance registered with reg
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Decisions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "gatebot_gate_decisions_total",
			Help: "Total gate decisions by update kind and verdict",
		}, []string{"kind", "verdict"}), // verdict: "allow", "challenge", "deny"

		ReplyFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "gatebot_gate_reply_failures_total",
			Help: "Total gate replies that could not be delivered",
		}, []string{"kind"}),

		Users: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "gatebot_users",
			Help: "Known users by membership status",
		}, []string{"state"}),
	}
}

// IncrementDecision records a gate decision
func (m *Metrics) IncrementDecision(kind, verdict string) {
	if m != nil {
		m.Decisions.WithLabelValues(kind, verdict).Inc()
	}
}

// IncrementReplyFailure records a failed reply emission
func (m *Metrics) IncrementReplyFailure(kind string) {
	if m != nil {
		m.ReplyFailures.WithLabelValues(kind).Inc()
	}
}

// SetUsers implements service.StatsRecorder
func (m *Metrics) SetUsers(status string, n int) {
	if m != nil {
		m.Users.WithLabelValues(status).Set(float64(n))
	}
}
