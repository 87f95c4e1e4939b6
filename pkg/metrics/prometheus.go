// Package metrics exports store operation metrics to Prometheus.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "vectordb"

// Collector records store operations as Prometheus metrics. Pass it as
// Config.Metrics and register it with a prometheus.Registerer.
type Collector struct {
	opLatency   *prometheus.HistogramVec
	ops         *prometheus.CounterVec
	rowsScanned prometheus.Counter
	rowsSkipped prometheus.Counter
}

// NewCollector creates a Collector
func NewCollector() *Collector {
	return &Collector{
		opLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_latency_seconds",
			Help:      "Latency of store operations",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
		ops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Store operations by outcome",
		}, []string{"op", "status"}),
		rowsScanned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_rows_scanned_total",
			Help:      "Rows read by search scans",
		}),
		rowsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_rows_skipped_total",
			Help:      "Rows skipped by search because their embedding could not be decoded",
		}),
	}
}

// Describe implements prometheus.Collector
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	c.opLatency.Describe(ch)
	c.ops.Describe(ch)
	c.rowsScanned.Describe(ch)
	c.rowsSkipped.Describe(ch)
}

// Collect implements prometheus.Collector
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.opLatency.Collect(ch)
	c.ops.Collect(ch)
	c.rowsScanned.Collect(ch)
	c.rowsSkipped.Collect(ch)
}

func (c *Collector) observe(op string, d time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	c.opLatency.WithLabelValues(op).Observe(d.Seconds())
	c.ops.WithLabelValues(op, status).Inc()
}

func (c *Collector) RecordInsert(d time.Duration, err error) { c.observe("insert", d, err) }
func (c *Collector) RecordGet(d time.Duration, err error)    { c.observe("get", d, err) }
func (c *Collector) RecordDelete(d time.Duration, err error) { c.observe("delete", d, err) }
func (c *Collector) RecordClear(d time.Duration, err error)  { c.observe("clear", d, err) }

func (c *Collector) RecordSearch(k, scanned, skipped int, d time.Duration, err error) {
	c.observe("search", d, err)
	c.rowsScanned.Add(float64(scanned))
	c.rowsSkipped.Add(float64(skipped))
}
