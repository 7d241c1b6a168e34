package service

import (
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the HTTP
// layer and the roster domain.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
	rulesCreated    prometheus.Counter
	rosterConflicts prometheus.Counter
	rosterRecycles  prometheus.Counter
}

// NewMetricsService registers the collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "day_view_cache_hits_total",
		Help: "Total day view cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "day_view_cache_misses_total",
		Help: "Total day view cache misses",
	})

	rulesCreated := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "roster_rules_created_total",
		Help: "Total roster rules created",
	})

	rosterConflicts := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "roster_conflicts_detected_total",
		Help: "Total roster conflicts reported to callers",
	})

	rosterRecycles := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "roster_rules_recycled_total",
		Help: "Total natural-key collisions resolved by recycling",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, cacheHits, cacheMisses, rulesCreated, rosterConflicts, rosterRecycles, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		cacheHits:       cacheHits,
		cacheMisses:     cacheMisses,
		rulesCreated:    rulesCreated,
		rosterConflicts: rosterConflicts,
		rosterRecycles:  rosterRecycles,
	}
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
	labels := []string{method, path, strconv.Itoa(status)}
	m.requestDuration.WithLabelValues(labels...).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(labels...).Inc()
}

// ObserveCacheHit counts a day view cache hit.
func (m *MetricsService) ObserveCacheHit() {
	if m != nil {
		m.cacheHits.Inc()
	}
}

// ObserveCacheMiss counts a day view cache miss.
func (m *MetricsService) ObserveCacheMiss() {
	if m != nil {
		m.cacheMisses.Inc()
	}
}

// ObserveRosterRuleCreated counts a successful rule creation.
func (m *MetricsService) ObserveRosterRuleCreated() {
	if m != nil {
		m.rulesCreated.Inc()
	}
}

// ObserveRosterConflict counts a conflict surfaced to a caller.
func (m *MetricsService) ObserveRosterConflict() {
	if m != nil {
		m.rosterConflicts.Inc()
	}
}

// ObserveRosterRecycle counts a collision resolved by the recycle protocol.
func (m *MetricsService) ObserveRosterRecycle() {
	if m != nil {
		m.rosterRecycles.Inc()
	}
}
