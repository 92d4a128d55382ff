package service

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ApprovalMetrics records coordinator outcomes. A nil *ApprovalMetrics is a no-op.
type ApprovalMetrics struct {
	decisions *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	promoted  prometheus.Counter
}

// NewApprovalMetrics registers the coordinator metrics on reg (default registerer when nil).
// Registering twice on the same registry is an error.
func NewApprovalMetrics(reg prometheus.Registerer) (*ApprovalMetrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &ApprovalMetrics{
		decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "podcasthub",
			Subsystem: "approval",
			Name:      "decisions_total",
			Help:      "Status change attempts by target status and outcome.",
		}, []string{"status", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "podcasthub",
			Subsystem: "approval",
			Name:      "duration_seconds",
			Help:      "Time spent inside the approval transaction.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"status"}),
		promoted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "podcasthub",
			Subsystem: "approval",
			Name:      "promoted_episodes_total",
			Help:      "Episodes whose audio was promoted by a committed approval.",
		}),
	}

	for _, c := range []prometheus.Collector{m.decisions, m.duration, m.promoted} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register approval metric: %w", err)
		}
	}
	return m, nil
}

func (m *ApprovalMetrics) observe(status, outcome string, d time.Duration, promoted int) {
	if m == nil {
		return
	}
	m.decisions.WithLabelValues(status, outcome).Inc()
	m.duration.WithLabelValues(status).Observe(d.Seconds())
	if promoted > 0 {
		m.promoted.Add(float64(promoted))
	}
}
