package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector manages Prometheus metrics for the presigning daemon
type Collector struct {
	batchesTotal   *prometheus.CounterVec
	urlsSigned     prometheus.Counter
	batchDuration  prometheus.Histogram
	batchSize      prometheus.Histogram
	refreshesTotal *prometheus.CounterVec
}

// NewCollector creates a new metrics collector registered on reg. Pass
// prometheus.DefaultRegisterer in the daemon; tests use a fresh registry.
func NewCollector(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)

	return &Collector{
		batchesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "s3presign_batches_total",
				Help: "Total number of presign batch requests",
			},
			[]string{"status"},
		),
		urlsSigned: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "s3presign_urls_signed_total",
				Help: "Total number of presigned URLs generated",
			},
		),
		batchDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "s3presign_batch_duration_seconds",
				Help:    "Time spent signing one batch",
				Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
			},
		),
		batchSize: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "s3presign_batch_size",
				Help:    "Number of object keys per batch",
				Buckets: []float64{1, 10, 100, 1000, 10000, 100000},
			},
		),
		refreshesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "s3presign_signer_refreshes_total",
				Help: "Total number of scheduled signer rebuilds",
			},
			[]string{"status"},
		),
	}
}

// RecordBatch records one batch signing attempt
func (c *Collector) RecordBatch(keys int, duration time.Duration, success bool) {
	c.batchesTotal.WithLabelValues(statusLabel(success)).Inc()
	if success {
		c.urlsSigned.Add(float64(keys))
		c.batchDuration.Observe(duration.Seconds())
		c.batchSize.Observe(float64(keys))
	}
}

// RecordRefresh records one scheduled signer rebuild
func (c *Collector) RecordRefresh(success bool) {
	c.refreshesTotal.WithLabelValues(statusLabel(success)).Inc()
}

func statusLabel(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}
