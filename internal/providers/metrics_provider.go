package providers

import (
	"msd/internal/structures"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	IncMessagesRecorded()
	IncPushDeliveries(success bool)
	IncPushCycles(success bool)
	ObservePersistenceDuration(duration time.Duration)
	RegisterGroupsGauge(fn func() float64)
}

type MetricsProvider struct {
	requestsTotal       *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
	cacheHits           prometheus.Counter
	cacheMisses         prometheus.Counter
	messagesRecorded    prometheus.Counter
	pushDeliveries      *prometheus.CounterVec
	pushCycles          *prometheus.CounterVec
	persistenceDuration prometheus.Histogram
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

func (m *MetricsProvider) IncMessagesRecorded() {
	m.messagesRecorded.Inc()
}

func (m *MetricsProvider) IncPushDeliveries(success bool) {
	m.pushDeliveries.WithLabelValues(resultLabel(success)).Inc()
}

func (m *MetricsProvider) IncPushCycles(success bool) {
	m.pushCycles.WithLabelValues(resultLabel(success)).Inc()
}

func (m *MetricsProvider) ObservePersistenceDuration(duration time.Duration) {
	m.persistenceDuration.Observe(duration.Seconds())
}

func (m *MetricsProvider) RegisterGroupsGauge(fn func() float64) {
	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "msd_groups_total",
		Help: "Total number of groups with recorded data",
	}, fn)
}

func resultLabel(success bool) string {
	if success {
		return "success"
	}
	return "failure"
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
			Name: "msd_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "msd_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "msd_cache_hits_total",
			Help: "Total number of cache hits",
		}),

		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "msd_cache_misses_total",
			Help: "Total number of cache misses",
		}),

		messagesRecorded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "msd_messages_recorded_total",
			Help: "Total number of recorded message events",
		}),

		pushDeliveries: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "msd_push_deliveries_total",
			Help: "Per-group push delivery outcomes",
		}, []string{"result"}),

		pushCycles: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "msd_push_cycles_total",
			Help: "Push cycle outcomes",
		}, []string{"result"}),

		persistenceDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "msd_persistence_duration_seconds",
			Help:    "Duration of persistence operations in seconds",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncCacheHits()                                    {}
func (n *noopMetrics) IncCacheMisses()                                  {}
func (n *noopMetrics) IncMessagesRecorded()                             {}
func (n *noopMetrics) IncPushDeliveries(_ bool)                         {}
func (n *noopMetrics) IncPushCycles(_ bool)                             {}
func (n *noopMetrics) ObservePersistenceDuration(_ time.Duration)       {}
func (n *noopMetrics) RegisterGroupsGauge(_ func() float64)             {}
