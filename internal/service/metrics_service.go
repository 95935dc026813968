package service

import (
	"net/http"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/andrino-academy/andrino-api/internal/models"
)

// Outcome labels for availability operations.
const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

// MetricsService encapsulates Prometheus instrumentation and keeps a few
// counters for the JSON snapshot endpoint.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	cacheLatency    prometheus.Histogram
	cacheWrite      prometheus.Histogram
	cacheHitRatio   prometheus.Gauge
	cacheLookups    *prometheus.CounterVec
	availabilityOps *prometheus.CounterVec
	slotChanges     *prometheus.CounterVec
	rateLimited     prometheus.Counter
	auditBacklog    prometheus.Gauge

	cacheHitCount        uint64
	cacheMissCount       uint64
	requestCount         uint64
	requestDurationTotal uint64
	saveCount            uint64
	confirmCount         uint64
	slotsConfirmed       uint64
	rateLimitedCount     uint64
}

// NewMetricsService registers the collectors on a private registry.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	m := &MetricsService{
		registry: registry,
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
		requestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		cacheLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "cache_latency_seconds",
			Help:    "Latency for cache reads",
			Buckets: prometheus.DefBuckets,
		}),
		cacheWrite: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "cache_write_seconds",
			Help:    "Latency for cache writes",
			Buckets: prometheus.DefBuckets,
		}),
		cacheHitRatio: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "cache_hit_ratio",
			Help: "Ratio of cache hits to total cache lookups",
		}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cache_lookups_total",
			Help: "Cache lookups by result",
		}, []string{"result"}),
		availabilityOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "availability_operations_total",
			Help: "Availability save/confirm/booking operations by outcome",
		}, []string{"operation", "outcome"}),
		slotChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "availability_slot_changes_total",
			Help: "Availability rows created, removed or confirmed",
		}, []string{"change"}),
		rateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "http_rate_limited_total",
			Help: "Requests rejected by the rate limiter",
		}),
		auditBacklog: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "audit_queue_backlog",
			Help: "Audit entries waiting to be written",
		}),
	}

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(m.requestDuration, m.requestTotal, m.cacheLatency, m.cacheWrite,
		m.cacheHitRatio, m.cacheLookups, m.availabilityOps, m.slotChanges, m.rateLimited, m.auditBacklog, goroutines)
	m.handler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	return m
}

// Registry exposes the underlying registry, mainly for tests.
func (m *MetricsService) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := strconv.Itoa(status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
	atomic.AddUint64(&m.requestCount, 1)
	atomic.AddUint64(&m.requestDurationTotal, uint64(duration.Nanoseconds()))
}

// RecordCacheOperation records a cache lookup and updates the hit ratio.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheLatency.Observe(duration.Seconds())
	if hit {
		m.cacheLookups.WithLabelValues("hit").Inc()
		atomic.AddUint64(&m.cacheHitCount, 1)
	} else {
		m.cacheLookups.WithLabelValues("miss").Inc()
		atomic.AddUint64(&m.cacheMissCount, 1)
	}
	hits := atomic.LoadUint64(&m.cacheHitCount)
	if total := hits + atomic.LoadUint64(&m.cacheMissCount); total > 0 {
		m.cacheHitRatio.Set(float64(hits) / float64(total))
	}
}

// ObserveCacheWrite tracks the duration of cache writes.
func (m *MetricsService) ObserveCacheWrite(duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheWrite.Observe(duration.Seconds())
}

// RecordAvailabilitySave counts a save and the rows it changed.
func (m *MetricsService) RecordAvailabilitySave(outcome string, result *models.SaveResult) {
	if m == nil {
		return
	}
	m.availabilityOps.WithLabelValues("save", outcome).Inc()
	if outcome != OutcomeOK || result == nil {
		return
	}
	atomic.AddUint64(&m.saveCount, 1)
	m.slotChanges.WithLabelValues("created").Add(float64(result.Created))
	m.slotChanges.WithLabelValues("removed").Add(float64(result.Removed))
}

// RecordAvailabilityConfirm counts a confirm and the rows it locked.
func (m *MetricsService) RecordAvailabilityConfirm(outcome string, confirmed int64) {
	if m == nil {
		return
	}
	m.availabilityOps.WithLabelValues("confirm", outcome).Inc()
	if outcome != OutcomeOK {
		return
	}
	atomic.AddUint64(&m.confirmCount, 1)
	atomic.AddUint64(&m.slotsConfirmed, uint64(confirmed))
	m.slotChanges.WithLabelValues("confirmed").Add(float64(confirmed))
}

// RecordBooking counts booking flag changes.
func (m *MetricsService) RecordBooking(outcome string) {
	if m == nil {
		return
	}
	m.availabilityOps.WithLabelValues("booking", outcome).Inc()
}

// RecordRateLimited counts a request rejected by the limiter.
func (m *MetricsService) RecordRateLimited() {
	if m == nil {
		return
	}
	m.rateLimited.Inc()
	atomic.AddUint64(&m.rateLimitedCount, 1)
}

// SetAuditBacklog reports the audit queue length.
func (m *MetricsService) SetAuditBacklog(n int) {
	if m == nil {
		return
	}
	m.auditBacklog.Set(float64(n))
}

// Snapshot returns aggregated counters for the JSON metrics endpoint.
func (m *MetricsService) Snapshot() models.SystemMetrics {
	if m == nil {
		return models.SystemMetrics{}
	}
	hits := atomic.LoadUint64(&m.cacheHitCount)
	misses := atomic.LoadUint64(&m.cacheMissCount)
	requests := atomic.LoadUint64(&m.requestCount)
	reqDuration := atomic.LoadUint64(&m.requestDurationTotal)

	var cacheRatio float64
	if total := hits + misses; total > 0 {
		cacheRatio = float64(hits) / float64(total)
	}

	var avgRequestMs float64
	if requests > 0 {
		avgRequestMs = float64(reqDuration) / float64(requests) / float64(time.Millisecond)
	}

	return models.SystemMetrics{
		RequestsTotal:            requests,
		AverageRequestDurationMs: avgRequestMs,
		CacheHits:                hits,
		CacheMisses:              misses,
		CacheHitRatio:            cacheRatio,
		AvailabilitySaves:        atomic.LoadUint64(&m.saveCount),
		AvailabilityConfirms:     atomic.LoadUint64(&m.confirmCount),
		SlotsConfirmed:           atomic.LoadUint64(&m.slotsConfirmed),
		RateLimited:              atomic.LoadUint64(&m.rateLimitedCount),
		Goroutines:               runtime.NumGoroutine(),
		GeneratedAt:              time.Now().UTC(),
	}
}
