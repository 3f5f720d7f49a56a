package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequests counts handled requests by method, route template and status.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "posts_http_requests_total",
		Help: "Total number of HTTP requests handled",
	}, []string{"method", "route", "status"})

	// HTTPRequestDuration records request latency by method and route template.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "posts_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	// StoreOperationDuration records store latency by operation and driver.
	StoreOperationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "posts_store_operation_duration_seconds",
		Help:    "Store operation latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "driver"})

	// OrphanedPosts counts creates whose owner could not be found.
	OrphanedPosts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "posts_orphaned_total",
		Help: "Total number of created posts whose owner could not be found",
	})

	// OrphanedPostsCurrent is the orphan count found by the latest reconciliation run.
	OrphanedPostsCurrent = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "posts_orphaned",
		Help: "Number of live posts whose owner was missing at the last reconciliation",
	})
)

// ObserveStore records the latency of a store operation started at start.
func ObserveStore(operation, driver string, start time.Time) {
	StoreOperationDuration.WithLabelValues(operation, driver).Observe(time.Since(start).Seconds())
}
