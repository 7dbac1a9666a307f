package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// CacheMetrics records cache activity.
//
// All methods are safe on a nil receiver, so callers can hold an optional
// *CacheMetrics without guarding every call site.
type CacheMetrics struct {
	hits         metric.Int64Counter
	misses       metric.Int64Counter
	evictions    metric.Int64Counter
	expirations  metric.Int64Counter
	computeHist  metric.Float64Histogram
	cleanupCount metric.Int64Counter
}

// NewCacheMetrics creates cache metrics instruments on the given meter.
func NewCacheMetrics(meter metric.Meter) (*CacheMetrics, error) {
	hits, err := meter.Int64Counter(
		"cache.hits",
		metric.WithDescription("Total number of cache hits"),
		metric.WithUnit("{hit}"),
	)
	if err != nil {
		return nil, err
	}

	misses, err := meter.Int64Counter(
		"cache.misses",
		metric.WithDescription("Total number of cache misses"),
		metric.WithUnit("{miss}"),
	)
	if err != nil {
		return nil, err
	}

	evictions, err := meter.Int64Counter(
		"cache.evictions",
		metric.WithDescription("Total number of LRU evictions"),
		metric.WithUnit("{entry}"),
	)
	if err != nil {
		return nil, err
	}

	expirations, err := meter.Int64Counter(
		"cache.expirations",
		metric.WithDescription("Total number of expired entries removed"),
		metric.WithUnit("{entry}"),
	)
	if err != nil {
		return nil, err
	}

	computeHist, err := meter.Float64Histogram(
		"cache.compute.duration_ms",
		metric.WithDescription("Duration of miss-path compute functions in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	cleanupCount, err := meter.Int64Counter(
		"cache.cleanup.runs",
		metric.WithDescription("Total number of background cleanup passes"),
		metric.WithUnit("{run}"),
	)
	if err != nil {
		return nil, err
	}

	return &CacheMetrics{
		hits:         hits,
		misses:       misses,
		evictions:    evictions,
		expirations:  expirations,
		computeHist:  computeHist,
		cleanupCount: cleanupCount,
	}, nil
}

// RecordHit records a cache hit.
func (m *CacheMetrics) RecordHit(ctx context.Context) {
	if m == nil {
		return
	}
	m.hits.Add(ctx, 1)
}

// RecordMiss records a cache miss.
func (m *CacheMetrics) RecordMiss(ctx context.Context) {
	if m == nil {
		return
	}
	m.misses.Add(ctx, 1)
}

// RecordEviction records an LRU eviction.
func (m *CacheMetrics) RecordEviction(ctx context.Context) {
	if m == nil {
		return
	}
	m.evictions.Add(ctx, 1)
}

// RecordExpirations records removal of n expired entries.
func (m *CacheMetrics) RecordExpirations(ctx context.Context, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.expirations.Add(ctx, int64(n))
}

// RecordCompute records the duration and outcome of a miss-path compute.
func (m *CacheMetrics) RecordCompute(ctx context.Context, duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.computeHist.Record(ctx, float64(duration.Milliseconds()),
		metric.WithAttributes(attribute.Bool("error", err != nil)))
}

// RecordCleanupRun records one background cleanup pass.
func (m *CacheMetrics) RecordCleanupRun(ctx context.Context) {
	if m == nil {
		return
	}
	m.cleanupCount.Add(ctx, 1)
}
