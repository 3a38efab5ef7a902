package service

import (
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the domain
// core: entity writes, validation/conflict outcomes, db and cache timings.
type MetricsService struct {
	registry           *prometheus.Registry
	handler            http.Handler
	entityWrites       *prometheus.CounterVec
	validationFailures *prometheus.CounterVec
	conflicts          *prometheus.CounterVec
	dbQueryDuration    *prometheus.HistogramVec
	cacheLatency       prometheus.Observer
	cacheWrite         prometheus.Observer
	cacheHitRatio      prometheus.Gauge
	cacheHits          prometheus.Counter
	cacheMisses        prometheus.Counter

	cacheHitCount  uint64
	cacheMissCount uint64
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	entityWrites := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "entity_writes_total",
		Help: "Total entity write operations by entity and action",
	}, []string{"entity", "action"})

	validationFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "validation_failures_total",
		Help: "Total rejected writes due to field constraint violations",
	}, []string{"entity"})

	conflicts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "conflicts_total",
		Help: "Total rejected writes due to unique-key or referential conflicts",
	}, []string{"entity", "key"})

	dbQueryDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "db_query_duration_seconds",
		Help:    "Duration of database queries",
		Buckets: prometheus.DefBuckets,
	}, []string{"query"})

	cacheLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_latency_seconds",
		Help:    "Latency for cache operations",
		Buckets: prometheus.DefBuckets,
	})

	cacheWrite := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_write_seconds",
		Help:    "Latency for cache set operations",
		Buckets: prometheus.DefBuckets,
	})

	cacheHitRatio := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "cache_hit_ratio",
		Help: "Ratio of cache hits to total cache lookups",
	})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_hits_total",
		Help: "Total cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_misses_total",
		Help: "Total cache misses",
	})

	registry.MustRegister(entityWrites, validationFailures, conflicts, dbQueryDuration, cacheLatency, cacheWrite, cacheHitRatio, cacheHits, cacheMisses)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return &MetricsService{
		registry:           registry,
		handler:            handler,
		entityWrites:       entityWrites,
		validationFailures: validationFailures,
		conflicts:          conflicts,
		dbQueryDuration:    dbQueryDuration,
		cacheLatency:       cacheLatency,
		cacheWrite:         cacheWrite,
		cacheHitRatio:      cacheHitRatio,
		cacheHits:          cacheHits,
		cacheMisses:        cacheMisses,
	}
}

// Handler exposes the Prometheus HTTP handler for the enclosing application.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// RecordEntityWrite counts a successful create, update or delete.
func (m *MetricsService) RecordEntityWrite(entity, action string) {
	if m == nil {
		return
	}
	m.entityWrites.WithLabelValues(entity, action).Inc()
}

// RecordValidationFailure counts a write rejected by the validation tables.
func (m *MetricsService) RecordValidationFailure(entity string) {
	if m == nil {
		return
	}
	m.validationFailures.WithLabelValues(entity).Inc()
}

// RecordConflict counts a write rejected by a uniqueness or referential check.
func (m *MetricsService) RecordConflict(entity, key string) {
	if m == nil {
		return
	}
	m.conflicts.WithLabelValues(entity, key).Inc()
}

// ObserveDBQuery records database query timing.
func (m *MetricsService) ObserveDBQuery(label string, duration time.Duration) {
	if m == nil {
		return
	}
	m.dbQueryDuration.WithLabelValues(label).Observe(duration.Seconds())
}

// RecordCacheOperation records cache hit/miss metrics and updates hit ratio.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	if m.cacheLatency != nil {
		m.cacheLatency.Observe(duration.Seconds())
	}
	if hit {
		m.cacheHits.Inc()
		atomic.AddUint64(&m.cacheHitCount, 1)
	} else {
		m.cacheMisses.Inc()
		atomic.AddUint64(&m.cacheMissCount, 1)
	}
	hits := atomic.LoadUint64(&m.cacheHitCount)
	misses := atomic.LoadUint64(&m.cacheMissCount)
	total := hits + misses
	if total > 0 {
		m.cacheHitRatio.Set(float64(hits) / float64(total))
	}
}

// ObserveCacheWrite tracks the duration for cache write operations.
func (m *MetricsService) ObserveCacheWrite(duration time.Duration) {
	if m == nil || m.cacheWrite == nil {
		return
	}
	m.cacheWrite.Observe(duration.Seconds())
}
