package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	sessionConnections = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "nrepld",
			Subsystem: "session",
			Name:      "connections_total",
			Help:      "Connections accepted on the protocol listener.",
		},
	)
	sessionOpenConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "nrepld",
			Subsystem: "session",
			Name:      "open_connections",
			Help:      "Connections currently being served.",
		},
	)
	sessionRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nrepld",
			Subsystem: "session",
			Name:      "requests_total",
			Help:      "Requests dispatched, by operation.",
		},
		[]string{"op"},
	)
	sessionRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "nrepld",
			Subsystem: "session",
			Name:      "request_duration_seconds",
			Help:      "Request handling duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"op"},
	)
	sessionRejections = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nrepld",
			Subsystem: "session",
			Name:      "rejections_total",
			Help:      "Requests rejected, by error token.",
		},
		[]string{"token"},
	)
	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nrepld",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total admin HTTP requests.",
		},
		[]string{"node", "method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "nrepld",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Admin HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"node", "method", "path", "status"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			sessionConnections,
			sessionOpenConnections,
			sessionRequests,
			sessionRequestDuration,
			sessionRejections,
			httpRequests,
			httpDuration,
		)
	})
}

func RecordConnectionOpened() {
	RegisterMetrics()
	sessionConnections.Inc()
	sessionOpenConnections.Inc()
}

func RecordConnectionClosed() {
	RegisterMetrics()
	sessionOpenConnections.Dec()
}

func RecordSessionRequest(op string, duration time.Duration) {
	RegisterMetrics()
	sessionRequests.WithLabelValues(op).Inc()
	sessionRequestDuration.WithLabelValues(op).Observe(duration.Seconds())
}

func RecordRejection(token string) {
	RegisterMetrics()
	sessionRejections.WithLabelValues(token).Inc()
}

func RecordHTTPRequest(node, method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(node, method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(node, method, path, statusLabel).Observe(duration.Seconds())
}
