package prometheus

import (
	"time"

	"github.com/damon-houk/finance-tracker/internal/infrastructure/metrics"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusCollector implements metrics.Collector for Prometheus.
type PrometheusCollector struct {
	operations    *prometheus.CounterVec
	latency       *prometheus.HistogramVec
	staleDiscards *prometheus.CounterVec
}

// NewPrometheusCollector creates a new Prometheus metrics collector.
func NewPrometheusCollector(namespace string) *PrometheusCollector {
	return &PrometheusCollector{
		operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "sync_operations_total",
				Help:      "Total number of settled ledger operations by outcome",
			},
			[]string{"operation", "outcome"},
		),
		latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "sync_operation_duration_seconds",
				Help:      "Duration of ledger operations from dispatch to settlement",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		staleDiscards: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "stale_responses_discarded_total",
				Help:      "Responses dropped because a newer request had been issued",
			},
			[]string{"target"},
		),
	}
}

// Register registers all metrics with the given Prometheus registry.
func (pc *PrometheusCollector) Register(registry prometheus.Registerer) error {
	for _, collector := range []prometheus.Collector{pc.operations, pc.latency, pc.staleDiscards} {
		if err := registry.Register(collector); err != nil {
			return err
		}
	}
	return nil
}

// RecordOperation counts the operation and observes its latency.
func (pc *PrometheusCollector) RecordOperation(op string, outcome metrics.Outcome, duration time.Duration) {
	pc.operations.WithLabelValues(op, string(outcome)).Inc()
	pc.latency.WithLabelValues(op).Observe(duration.Seconds())
}

// RecordStaleDiscard counts a dropped out-of-order response.
func (pc *PrometheusCollector) RecordStaleDiscard(target string) {
	pc.staleDiscards.WithLabelValues(target).Inc()
}
