// Package metrics provides Prometheus metrics for the contact service.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "contacts"

var (
	// HTTPRequestsTotal counts handled HTTP requests.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration measures HTTP request latency.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// PaginateTotal counts paginator calls by scan direction and outcome.
	PaginateTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "paginate_total",
			Help:      "Total number of paginate operations",
		},
		[]string{"direction", "status"},
	)

	// PaginateDuration measures paginate latency including the range read.
	PaginateDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "paginate_duration_seconds",
			Help:      "Duration of paginate operations in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"direction"},
	)

	// PageSize observes the number of records returned per page.
	PageSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "page_size",
			Help:      "Distribution of returned page sizes",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100},
		},
	)

	// ContactWritesTotal counts contact mutations by operation and outcome.
	ContactWritesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "contact_writes_total",
			Help:      "Total number of contact write operations",
		},
		[]string{"operation", "status"},
	)

	// RateLimitedTotal counts requests rejected by the rate limiter.
	RateLimitedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limited_total",
			Help:      "Total number of requests rejected by the rate limiter",
		},
	)
)

// RecordHTTPRequest records a handled HTTP request.
func RecordHTTPRequest(method, route string, status int, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(duration)
}

// RecordPaginate records a paginate operation.
func RecordPaginate(direction, status string, pageSize int, duration float64) {
	PaginateTotal.WithLabelValues(direction, status).Inc()
	PaginateDuration.WithLabelValues(direction).Observe(duration)
	if status == StatusSuccess {
		PageSize.Observe(float64(pageSize))
	}
}

// RecordContactWrite records a create, update or delete.
func RecordContactWrite(operation string, err error) {
	ContactWritesTotal.WithLabelValues(operation, statusOf(err)).Inc()
}

// RecordRateLimited records a rejected request.
func RecordRateLimited() {
	RateLimitedTotal.Inc()
}

// Outcome label values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

func statusOf(err error) string {
	if err != nil {
		return StatusError
	}
	return StatusSuccess
}
