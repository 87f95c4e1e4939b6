package vectordb

import "time"

// MetricsCollector receives per-operation measurements from the store.
// pkg/metrics provides a Prometheus implementation.
type MetricsCollector interface {
	// RecordInsert is called after each insert, err is nil on success
	RecordInsert(duration time.Duration, err error)
	// RecordSearch is called after each search with the rows scanned and
	// the rows skipped because their embedding could not be decoded
	RecordSearch(k, scanned, skipped int, duration time.Duration, err error)
	// RecordGet is called after each get
	RecordGet(duration time.Duration, err error)
	// RecordDelete is called after each delete
	RecordDelete(duration time.Duration, err error)
	// RecordClear is called after each clear
	RecordClear(duration time.Duration, err error)
}

// NoopMetrics discards all measurements.
type NoopMetrics struct{}

func (NoopMetrics) RecordInsert(time.Duration, error)                {}
func (NoopMetrics) RecordSearch(int, int, int, time.Duration, error) {}
func (NoopMetrics) RecordGet(time.Duration, error)                   {}
func (NoopMetrics) RecordDelete(time.Duration, error)                {}
func (NoopMetrics) RecordClear(time.Duration, error)                 {}
