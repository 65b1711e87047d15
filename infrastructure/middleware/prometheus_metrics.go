// Package middleware provides cross-cutting concerns for the ranking
// pipeline.
package middleware

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/varietal/winerank/internal/ports"
)

// PrometheusMetrics implements the MetricsCollector interface using
// Prometheus. It provides monitoring of pipeline stage latency, run
// outcomes, and the size of each ranking run.
type PrometheusMetrics struct {
	stageLatency *prometheus.HistogramVec
	runCounter   *prometheus.CounterVec
	runSize      *prometheus.GaugeVec
}

// NewPrometheusMetrics creates a new PrometheusMetrics instance and
// registers all required metrics in the global Prometheus registry.
func NewPrometheusMetrics() *PrometheusMetrics {
	return &PrometheusMetrics{
		stageLatency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "winerank_stage_duration_seconds",
				Help:    "Execution time of each ranking pipeline stage.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"stage"},
		),
		runCounter: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "winerank_runs_total",
				Help: "Total number of ranking runs by outcome.",
			},
			[]string{"status"},
		),
		runSize: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "winerank_run_size",
				Help: "Size of the most recent ranking run (observations, tasters, wines, pairs, ranked).",
			},
			[]string{"metric"},
		),
	}
}

// RecordLatency implements the MetricsCollector interface by recording
// stage latency in a Prometheus histogram.
func (pm *PrometheusMetrics) RecordLatency(
	operation string,
	duration time.Duration,
	labels map[string]string,
) {
	stage, ok := labels["stage"]
	if !ok {
		stage = operation
	}
	pm.stageLatency.WithLabelValues(stage).Observe(duration.Seconds())
}

// RecordCounter implements the MetricsCollector interface by
// incrementing Prometheus counters.
func (pm *PrometheusMetrics) RecordCounter(
	metric string, value float64, labels map[string]string,
) {
	status, ok := labels["status"]
	if !ok {
		status = "unknown"
	}
	pm.runCounter.WithLabelValues(status).Add(value)
}

// RecordGauge implements the MetricsCollector interface by setting
// Prometheus gauge values.
func (pm *PrometheusMetrics) RecordGauge(
	metric string, value float64, labels map[string]string,
) {
	pm.runSize.WithLabelValues(metric).Set(value)
}

// Compile-time verification that PrometheusMetrics implements
// MetricsCollector.
var _ ports.MetricsCollector = (*PrometheusMetrics)(nil)
