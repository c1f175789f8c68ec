// Package metrics provides optional Prometheus instrumentation for an
// avltree.Tree. A Collector is entirely passive from the tree's point of
// view: the tree calls a handful of recorder methods on every operation,
// and a Collector built with NewCollector wires those calls into counters
// and histograms registered against a prometheus.Registerer.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector records operation counts, latencies, and tree size for a single
// avltree.Tree instance.
type Collector struct {
	operations *prometheus.CounterVec
	latency    *prometheus.HistogramVec
	size       prometheus.Gauge
	cacheSize  prometheus.Histogram
}

// NewCollector registers a fresh set of metrics against reg, labelled with
// name (typically the tree's logical name, e.g. "orderbook-bids"). Passing
// prometheus.DefaultRegisterer is the common case.
func NewCollector(reg prometheus.Registerer, name string) *Collector {
	factory := promauto.With(reg)

	return &Collector{
		operations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "avlstore",
			Subsystem: "tree",
			Name:      "operations_total",
			Help:      "Total number of tree operations, by kind and outcome.",
			ConstLabels: prometheus.Labels{
				"tree": name,
			},
		}, []string{"op", "outcome"}),
		latency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "avlstore",
			Subsystem: "tree",
			Name:      "operation_duration_seconds",
			Help:      "Latency of tree operations.",
			Buckets:   prometheus.DefBuckets,
			ConstLabels: prometheus.Labels{
				"tree": name,
			},
		}, []string{"op"}),
		size: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "avlstore",
			Subsystem: "tree",
			Name:      "size",
			Help:      "Current number of entries in the tree.",
			ConstLabels: prometheus.Labels{
				"tree": name,
			},
		}),
		cacheSize: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "avlstore",
			Subsystem: "tree",
			Name:      "write_cache_entries",
			Help:      "Number of distinct keys buffered by the write-back cache per operation.",
			Buckets:   []float64{0, 1, 2, 4, 8, 16, 32, 64},
			ConstLabels: prometheus.Labels{
				"tree": name,
			},
		}),
	}
}

// Observe records the outcome and latency of a single top-level operation.
func (c *Collector) Observe(op string, outcome string, start time.Time) {
	if c == nil {
		return
	}

	c.operations.WithLabelValues(op, outcome).Inc()
	c.latency.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

// SetSize records the tree's current entry count.
func (c *Collector) SetSize(n int) {
	if c == nil {
		return
	}

	c.size.Set(float64(n))
}

// ObserveCacheSize records how many keys a single operation's write-back
// cache buffered before flushing.
func (c *Collector) ObserveCacheSize(n int) {
	if c == nil {
		return
	}

	c.cacheSize.Observe(float64(n))
}
