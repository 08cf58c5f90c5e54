package providers

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"spotr/internal/structures"
	"time"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncStorageOps(op string)
	IncStorageErrors(op string)
	IncVersionConflicts(key string)
	ObserveFlushDuration(duration time.Duration)
	SetStoredKeys(count int)
}

type MetricsProvider struct {
	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	storageOps       *prometheus.CounterVec
	storageErrors    *prometheus.CounterVec
	versionConflicts *prometheus.CounterVec
	flushDuration    prometheus.Histogram
	storedKeys       prometheus.Gauge
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncStorageOps(op string) {
	m.storageOps.WithLabelValues(op).Inc()
}

func (m *MetricsProvider) IncStorageErrors(op string) {
	m.storageErrors.WithLabelValues(op).Inc()
}

func (m *MetricsProvider) IncVersionConflicts(key string) {
	m.versionConflicts.WithLabelValues(keyFamily(key)).Inc()
}

func (m *MetricsProvider) ObserveFlushDuration(duration time.Duration) {
	m.flushDuration.Observe(duration.Seconds())
}

func (m *MetricsProvider) SetStoredKeys(count int) {
	m.storedKeys.Set(float64(count))
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

// keyFamily strips the per-entity suffix so that per-spot media keys share one label.
// "spotMedia:s1" → "spotMedia"
func keyFamily(key string) string {
	for i := 0; i < len(key); i++ {
		if key[i] == ':' || key[i] == '.' {
			return key[:i]
		}
	}
	return key
}

func NewMetricsProvider(conf *structures.Config) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	return &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "spotr_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "spotr_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		storageOps: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "spotr_storage_operations_total",
			Help: "Total number of key-value storage operations",
		}, []string{"op"}),

		storageErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "spotr_storage_errors_total",
			Help: "Total number of failed key-value storage operations",
		}, []string{"op"}),

		versionConflicts: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "spotr_version_conflicts_total",
			Help: "Total number of optimistic write conflicts",
		}, []string{"family"}),

		flushDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "spotr_flush_duration_seconds",
			Help:    "Duration of snapshot flushes in seconds",
			Buckets: prometheus.DefBuckets,
		}),

		storedKeys: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "spotr_stored_keys",
			Help: "Number of keys in the last flushed snapshot",
		}),
	}
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncStorageOps(_ string)                           {}
func (n *noopMetrics) IncStorageErrors(_ string)                        {}
func (n *noopMetrics) IncVersionConflicts(_ string)                     {}
func (n *noopMetrics) ObserveFlushDuration(_ time.Duration)             {}
func (n *noopMetrics) SetStoredKeys(_ int)                              {}

func NewNoopMetrics() MetricsProviderInterface {
	return &noopMetrics{}
}
