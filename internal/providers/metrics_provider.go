package providers

import (
	"akd/internal/structures"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	ObservePersistenceDuration(duration time.Duration)
	IncUnlocks(id string)
	IncNotificationsShown()
	SetNotificationQueueDepth(depth int)
	SetCurrentStreak(days int)
	SetStoreKeysTotal(count int)
}

type MetricsProvider struct {
	requestsTotal       *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
	cacheHits           prometheus.Counter
	cacheMisses         prometheus.Counter
	persistenceDuration prometheus.Histogram
	unlocksTotal        *prometheus.CounterVec
	notificationsShown  prometheus.Counter
	notificationQueue   prometheus.Gauge
	currentStreak       prometheus.Gauge
	storeKeysTotal      prometheus.Gauge
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncCacheHits() {
	m.cacheHits.Inc()
}

func (m *MetricsProvider) IncCacheMisses() {
	m.cacheMisses.Inc()
}

func (m *MetricsProvider) ObservePersistenceDuration(duration time.Duration) {
	m.persistenceDuration.Observe(duration.Seconds())
}

func (m *MetricsProvider) IncUnlocks(id string) {
	m.unlocksTotal.WithLabelValues(id).Inc()
}

func (m *MetricsProvider) IncNotificationsShown() {
	m.notificationsShown.Inc()
}

func (m *MetricsProvider) SetNotificationQueueDepth(depth int) {
	m.notificationQueue.Set(float64(depth))
}

func (m *MetricsProvider) SetCurrentStreak(days int) {
	m.currentStreak.Set(float64(days))
}

func (m *MetricsProvider) SetStoreKeysTotal(count int) {
	m.storeKeysTotal.Set(float64(count))
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

func NewMetricsProvider(conf *structures.Config) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	return &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "akd_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "akd_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "akd_cache_hits_total",
			Help: "Total number of cache hits",
		}),

		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "akd_cache_misses_total",
			Help: "Total number of cache misses",
		}),

		persistenceDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "akd_persistence_duration_seconds",
			Help:    "Duration of persistence operations in seconds",
			Buckets: prometheus.DefBuckets,
		}),

		unlocksTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "akd_unlocks_total",
			Help: "Total number of new achievement unlocks",
		}, []string{"achievement"}),

		notificationsShown: promauto.NewCounter(prometheus.CounterOpts{
			Name: "akd_notifications_shown_total",
			Help: "Total number of achievement notifications delivered to subscribers",
		}),

		notificationQueue: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "akd_notification_queue_depth",
			Help: "Number of notifications waiting behind the active one",
		}),

		currentStreak: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "akd_current_streak_days",
			Help: "Current consecutive-day login streak",
		}),

		storeKeysTotal: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "akd_store_keys_total",
			Help: "Number of keys held by the durable store",
		}),
	}
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncCacheHits()                                    {}
func (n *noopMetrics) IncCacheMisses()                                  {}
func (n *noopMetrics) ObservePersistenceDuration(_ time.Duration)       {}
func (n *noopMetrics) IncUnlocks(_ string)                              {}
func (n *noopMetrics) IncNotificationsShown()                           {}
func (n *noopMetrics) SetNotificationQueueDepth(_ int)                  {}
func (n *noopMetrics) SetCurrentStreak(_ int)                           {}
func (n *noopMetrics) SetStoreKeysTotal(_ int)                          {}
