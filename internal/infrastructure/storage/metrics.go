package storage

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Observer captures telemetry for storage operations.
type Observer interface {
	RecordPresign(duration time.Duration, err error)
	RecordPromote(duration time.Duration, err error)
	RecordDelete(duration time.Duration, err error)
}

// PrometheusObserver exports storage metrics to Prometheus.
type PrometheusObserver struct {
	duration *prometheus.HistogramVec
	errors   *prometheus.CounterVec
}

// NewPrometheusObserver registers the storage metrics on reg (default registerer when nil).
// Registering twice on the same registry is an error.
func NewPrometheusObserver(reg prometheus.Registerer) (*PrometheusObserver, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	o := &PrometheusObserver{
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "podcasthub",
			Subsystem: "storage",
			Name:      "operation_duration_seconds",
			Help:      "Latency of object storage operations.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "podcasthub",
			Subsystem: "storage",
			Name:      "operation_errors_total",
			Help:      "Count of failed object storage operations.",
		}, []string{"operation"}),
	}

	for _, c := range []prometheus.Collector{o.duration, o.errors} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register storage metric: %w", err)
		}
	}
	return o, nil
}

func (o *PrometheusObserver) RecordPresign(d time.Duration, err error) { o.record("presign", d, err) }
func (o *PrometheusObserver) RecordPromote(d time.Duration, err error) { o.record("promote", d, err) }
func (o *PrometheusObserver) RecordDelete(d time.Duration, err error)  { o.record("delete", d, err) }

func (o *PrometheusObserver) record(op string, d time.Duration, err error) {
	if o == nil {
		return
	}
	o.duration.WithLabelValues(op).Observe(d.Seconds())
	if err != nil {
		o.errors.WithLabelValues(op).Inc()
	}
}

type nopObserver struct{}

func (nopObserver) RecordPresign(time.Duration, error) {}
func (nopObserver) RecordPromote(time.Duration, error) {}
func (nopObserver) RecordDelete(time.Duration, error)  {}
