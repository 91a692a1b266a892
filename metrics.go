package esgo

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// Example Prometheus integration:
//
//	type PrometheusCollector struct {
//	    fetchCounter   prometheus.Counter
//	    storeHistogram prometheus.Histogram
//	}
//
//	func (p *PrometheusCollector) RecordFetch(duration time.Duration, err error) {
//	    p.fetchCounter.Inc()
//	    // ... record error state, duration, etc.
//	}
type MetricsCollector interface {
	// RecordFetch is called after each fetch operation.
	// duration is the total time taken, err is nil if successful.
	RecordFetch(duration time.Duration, err error)

	// RecordStore is called after each store operation.
	RecordStore(duration time.Duration, err error)

	// RecordUpdate is called after each partial-update operation.
	RecordUpdate(duration time.Duration, err error)

	// RecordDelete is called after each delete operation.
	RecordDelete(duration time.Duration, err error)

	// RecordBulk is called after each bulk operation.
	// actions is the number of actions in the request.
	RecordBulk(actions int, duration time.Duration, err error)

	// RecordMultiGet is called after each multi-get operation.
	// docs is the number of documents requested.
	RecordMultiGet(docs int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordFetch(time.Duration, error)         {}
func (NoopMetricsCollector) RecordStore(time.Duration, error)         {}
func (NoopMetricsCollector) RecordUpdate(time.Duration, error)        {}
func (NoopMetricsCollector) RecordDelete(time.Duration, error)        {}
func (NoopMetricsCollector) RecordBulk(int, time.Duration, error)     {}
func (NoopMetricsCollector) RecordMultiGet(int, time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	FetchCount      atomic.Int64
	FetchErrors     atomic.Int64
	FetchTotalNanos atomic.Int64
	StoreCount      atomic.Int64
	StoreErrors     atomic.Int64
	StoreTotalNanos atomic.Int64
	UpdateCount     atomic.Int64
	UpdateErrors    atomic.Int64
	DeleteCount     atomic.Int64
	DeleteErrors    atomic.Int64
	BulkCount       atomic.Int64
	BulkActions     atomic.Int64
	BulkErrors      atomic.Int64
	MultiGetCount   atomic.Int64
	MultiGetDocs    atomic.Int64
	MultiGetErrors  atomic.Int64
}

// RecordFetch implements MetricsCollector.
func (b *BasicMetricsCollector) RecordFetch(duration time.Duration, err error) {
	b.FetchCount.Add(1)
	b.FetchTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.FetchErrors.Add(1)
	}
}

// RecordStore implements MetricsCollector.
func (b *BasicMetricsCollector) RecordStore(duration time.Duration, err error) {
	b.StoreCount.Add(1)
	b.StoreTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.StoreErrors.Add(1)
	}
}

// RecordUpdate implements MetricsCollector.
func (b *BasicMetricsCollector) RecordUpdate(duration time.Duration, err error) {
	b.UpdateCount.Add(1)
	if err != nil {
		b.UpdateErrors.Add(1)
	}
}

// RecordDelete implements MetricsCollector.
func (b *BasicMetricsCollector) RecordDelete(duration time.Duration, err error) {
	b.DeleteCount.Add(1)
	if err != nil {
		b.DeleteErrors.Add(1)
	}
}

// RecordBulk implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBulk(actions int, duration time.Duration, err error) {
	b.BulkCount.Add(1)
	b.BulkActions.Add(int64(actions))
	if err != nil {
		b.BulkErrors.Add(1)
	}
}

// RecordMultiGet implements MetricsCollector.
func (b *BasicMetricsCollector) RecordMultiGet(docs int, duration time.Duration, err error) {
	b.MultiGetCount.Add(1)
	b.MultiGetDocs.Add(int64(docs))
	if err != nil {
		b.MultiGetErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		FetchCount:     b.FetchCount.Load(),
		FetchErrors:    b.FetchErrors.Load(),
		FetchAvgNanos:  b.getAvgFetchNanos(),
		StoreCount:     b.StoreCount.Load(),
		StoreErrors:    b.StoreErrors.Load(),
		StoreAvgNanos:  b.getAvgStoreNanos(),
		UpdateCount:    b.UpdateCount.Load(),
		UpdateErrors:   b.UpdateErrors.Load(),
		DeleteCount:    b.DeleteCount.Load(),
		DeleteErrors:   b.DeleteErrors.Load(),
		BulkCount:      b.BulkCount.Load(),
		BulkActions:    b.BulkActions.Load(),
		BulkErrors:     b.BulkErrors.Load(),
		MultiGetCount:  b.MultiGetCount.Load(),
		MultiGetDocs:   b.MultiGetDocs.Load(),
		MultiGetErrors: b.MultiGetErrors.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgFetchNanos() int64 {
	count := b.FetchCount.Load()
	if count == 0 {
		return 0
	}
	return b.FetchTotalNanos.Load() / count
}

func (b *BasicMetricsCollector) getAvgStoreNanos() int64 {
	count := b.StoreCount.Load()
	if count == 0 {
		return 0
	}
	return b.StoreTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	FetchCount     int64
	FetchErrors    int64
	FetchAvgNanos  int64
	StoreCount     int64
	StoreErrors    int64
	StoreAvgNanos  int64
	UpdateCount    int64
	UpdateErrors   int64
	DeleteCount    int64
	DeleteErrors   int64
	BulkCount      int64
	BulkActions    int64
	BulkErrors     int64
	MultiGetCount  int64
	MultiGetDocs   int64
	MultiGetErrors int64
}
