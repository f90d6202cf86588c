package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain/repository.Metrics using Prometheus.
type Recorder struct {
	refreshCycles *prometheus.CounterVec
	errorsTotal   *prometheus.CounterVec
	latency       *prometheus.HistogramVec
	broadcasts    *prometheus.CounterVec
	rateLimited   *prometheus.CounterVec
	observers     prometheus.Gauge
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		refreshCycles: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "zapdash_refresh_cycles_total",
				Help: "Refresh cycles per concern and result (live or fallback)",
			},
			[]string{"concern", "result"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "zapdash_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "zapdash_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		broadcasts: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "zapdash_broadcasts_total",
				Help: "Update envelopes broadcast to observers, per kind",
			},
			[]string{"kind"},
		),
		rateLimited: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "zapdash_rate_limited_total",
				Help: "Gate denials per gate instance",
			},
			[]string{"gate"},
		),
		observers: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "zapdash_connected_observers",
				Help: "Currently connected push-channel observers",
			},
		),
	}
}

// RecordCycle records a completed refresh cycle for a concern.
func (r *Recorder) RecordCycle(concern, result string) {
	r.refreshCycles.WithLabelValues(concern, result).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}

// RecordBroadcast records a fan-out of one update kind.
func (r *Recorder) RecordBroadcast(kind string) {
	r.broadcasts.WithLabelValues(kind).Inc()
}

// RecordRateLimited records a denial on the named gate.
func (r *Recorder) RecordRateLimited(gate string) {
	r.rateLimited.WithLabelValues(gate).Inc()
}

// SetConnectedObservers updates the observer gauge.
func (r *Recorder) SetConnectedObservers(n int) {
	r.observers.Set(float64(n))
}
