// Package metrics records document operation outcomes as Prometheus metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/salafifatawa/fatawa-cli/internal/core/ports/driven"
)

// Ensure Collector implements the interface.
var _ driven.OutcomeRecorder = (*Collector)(nil)

// resultOK labels a successful operation.
const resultOK = "ok"

// Collector implements driven.OutcomeRecorder with Prometheus metrics.
type Collector struct {
	operations *prometheus.CounterVec
	latency    *prometheus.HistogramVec
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fatawa_operations_total",
			Help: "Document operations by outcome. result is ok or the error kind.",
		}, []string{"operation", "result"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fatawa_operation_duration_seconds",
			Help:    "Document operation latency including token fetch.",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
	}

	reg.MustRegister(c.operations, c.latency)
	return c
}

// RecordOutcome records one operation. An empty kind means success.
func (c *Collector) RecordOutcome(operation, kind string, elapsed time.Duration) {
	result := kind
	if result == "" {
		result = resultOK
	}
	c.operations.WithLabelValues(operation, result).Inc()
	c.latency.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// Handler returns the scrape handler for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
