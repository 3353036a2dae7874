package providers

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"sitestats/internal/services"
	"sitestats/internal/structures"
	"time"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(route, facet string, status int)
	ObserveRequestDuration(route string, duration time.Duration)
	// scope is the cache key namespace, "stats" or "facets"
	IncCacheHits(scope string)
	IncCacheMisses(scope string)
	ObservePersistenceDuration(duration time.Duration)
	IncSyncTotal(facet string, result string)
}

type MetricsProvider struct {
	requestsTotal       *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
	cacheHits           *prometheus.CounterVec
	cacheMisses         *prometheus.CounterVec
	persistenceDuration prometheus.Histogram
	syncTotal           *prometheus.CounterVec
}

func (m *MetricsProvider) IncRequestsTotal(route, facet string, status int) {
	m.requestsTotal.WithLabelValues(route, facet, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(route string, duration time.Duration) {
	m.requestDuration.WithLabelValues(route).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncCacheHits(scope string) {
	m.cacheHits.WithLabelValues(scope).Inc()
}

func (m *MetricsProvider) IncCacheMisses(scope string) {
	m.cacheMisses.WithLabelValues(scope).Inc()
}

func (m *MetricsProvider) ObservePersistenceDuration(duration time.Duration) {
	m.persistenceDuration.Observe(duration.Seconds())
}

// IncSyncTotal counts sync attempts per facet; result is "ok", "invalid" or "error".
func (m *MetricsProvider) IncSyncTotal(facet string, result string) {
	m.syncTotal.WithLabelValues(facet, result).Inc()
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func NewMetricsProvider(conf *structures.Config, service services.StatsServiceInterface) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	m := &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "sitestats_requests_total",
			Help: "Total number of HTTP requests by route, facet and status class",
		}, []string{"route", "facet", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sitestats_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),

		cacheHits: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "sitestats_cache_hits_total",
			Help: "Total number of response cache hits by key scope",
		}, []string{"scope"}),

		cacheMisses: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "sitestats_cache_misses_total",
			Help: "Total number of response cache misses by key scope",
		}, []string{"scope"}),

		persistenceDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "sitestats_persistence_duration_seconds",
			Help:    "Duration of persistence operations in seconds",
			Buckets: prometheus.DefBuckets,
		}),

		syncTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "sitestats_sync_total",
			Help: "Total number of facet syncs by result",
		}, []string{"facet", "result"}),
	}

	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "sitestats_records_total",
		Help: "Current number of stored stats records",
	}, func() float64 {
		return float64(service.RecordsCount())
	})

	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "sitestats_sites_total",
		Help: "Current number of sites with a store",
	}, func() float64 {
		return float64(len(service.GetBlogs()))
	})

	return m
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_, _ string, _ int)              {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncCacheHits(_ string)                            {}
func (n *noopMetrics) IncCacheMisses(_ string)                          {}
func (n *noopMetrics) ObservePersistenceDuration(_ time.Duration)       {}
func (n *noopMetrics) IncSyncTotal(_ string, _ string)                  {}
