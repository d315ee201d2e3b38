package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ReputationMetrics records recompute activity for the reputation engine.
type ReputationMetrics struct {
	duration *prometheus.HistogramVec
	success  *prometheus.CounterVec
	failure  *prometheus.CounterVec
}

// NewReputationMetrics registers the recompute metrics on the provided registerer.
func NewReputationMetrics(reg prometheus.Registerer) *ReputationMetrics {
	if reg == nil {
		return &ReputationMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "reputation_recompute_duration_seconds",
		Help:    "Duration of reputation recompute operations in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"op"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "reputation_recompute_success",
		Help: "Successful reputation recomputes.",
	}, []string{"op"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "reputation_recompute_failure",
		Help: "Failed reputation recomputes.",
	}, []string{"op"})
	reg.MustRegister(duration, success, failure)
	return &ReputationMetrics{
		duration: duration,
		success:  success,
		failure:  failure,
	}
}

// ObserveDuration records how long the named operation took.
func (m *ReputationMetrics) ObserveDuration(op string, duration time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(op)).Observe(duration.Seconds())
}

// IncSuccess increments the success counter for the named operation.
func (m *ReputationMetrics) IncSuccess(op string) {
	if m == nil || m.success == nil {
		return
	}
	m.success.WithLabelValues(normalizeLabel(op)).Inc()
}

// IncFailure increments the failure counter for the named operation.
func (m *ReputationMetrics) IncFailure(op string) {
	if m == nil || m.failure == nil {
		return
	}
	m.failure.WithLabelValues(normalizeLabel(op)).Inc()
}

func normalizeLabel(op string) string {
	if op == "" {
		return "unknown"
	}
	return op
}
