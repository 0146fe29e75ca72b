// Package metrics exposes Prometheus metrics for the data layer.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// DataMetrics collects data-layer metrics.
type DataMetrics struct {
	registry *prometheus.Registry

	// Facade operations
	OpsTotal   *prometheus.CounterVec
	OpDuration *prometheus.HistogramVec

	// Cache behaviour
	CacheHits   *prometheus.CounterVec
	CacheMisses *prometheus.CounterVec

	// Edge signals
	SignalsTotal *prometheus.CounterVec
	SignalEdge   prometheus.Histogram
}

// New creates a metrics collector with its own registry.
func New() *DataMetrics {
	registry := prometheus.NewRegistry()

	m := &DataMetrics{
		registry: registry,
		OpsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vantage_ops_total",
				Help: "Data layer operations by sport, operation and result code",
			},
			[]string{"sport", "op", "code"},
		),
		OpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "vantage_op_duration_seconds",
				Help:    "Data layer operation latency",
				Buckets: prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms to ~40s
			},
			[]string{"sport", "op"},
		),
		CacheHits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vantage_cache_hits_total",
				Help: "Cache hits by sport",
			},
			[]string{"sport"},
		),
		CacheMisses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vantage_cache_misses_total",
				Help: "Cache misses by sport",
			},
			[]string{"sport"},
		),
		SignalsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vantage_signals_total",
				Help: "Value edge signals by outcome and strength",
			},
			[]string{"outcome", "strength"},
		),
		SignalEdge: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "vantage_signal_edge_percent",
				Help:    "Edge size in percentage points",
				Buckets: []float64{0, 1, 2, 3, 5, 8, 10, 15, 25},
			},
		),
	}

	registry.MustRegister(
		m.OpsTotal,
		m.OpDuration,
		m.CacheHits,
		m.CacheMisses,
		m.SignalsTotal,
		m.SignalEdge,
	)
	return m
}

// Registry returns the underlying registry for the /metrics handler.
func (m *DataMetrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordOp records one facade operation outcome.
func (m *DataMetrics) RecordOp(sport, op, code string, durationSec float64) {
	m.OpsTotal.WithLabelValues(sport, op, code).Inc()
	if durationSec > 0 {
		m.OpDuration.WithLabelValues(sport, op).Observe(durationSec)
	}
}

// RecordCacheHit counts one cache hit for a sport.
func (m *DataMetrics) RecordCacheHit(sport string) {
	m.CacheHits.WithLabelValues(sport).Inc()
}

// RecordCacheMiss counts one cache miss for a sport.
func (m *DataMetrics) RecordCacheMiss(sport string) {
	m.CacheMisses.WithLabelValues(sport).Inc()
}

// RecordSignal records one emitted value edge.
func (m *DataMetrics) RecordSignal(outcome, strength string, edgePercent float64) {
	m.SignalsTotal.WithLabelValues(outcome, strength).Inc()
	m.SignalEdge.Observe(edgePercent)
}

var (
	defaultMetrics *DataMetrics
	once           sync.Once
)

// Default returns the process-wide metrics instance.
func Default() *DataMetrics {
	once.Do(func() {
		defaultMetrics = New()
	})
	return defaultMetrics
}
