package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "creator_planner",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "creator_planner",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 120},
		},
		[]string{"method", "route"},
	)

	// Outbound calls
	RetryFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "creator_planner",
			Name:      "retry_attempt_failures_total",
			Help:      "Failed attempts of outbound calls, per operation",
		},
		[]string{"operation"},
	)

	PlaceholdersServed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "creator_planner",
			Name:      "placeholders_served_total",
			Help:      "Responses answered with a locally computed placeholder",
		},
		[]string{"operation", "reason"},
	)

	// Split storage
	ThumbnailDegradations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "creator_planner",
			Subsystem: "thumbnails",
			Name:      "degradations_total",
			Help:      "Thumbnail storage degradations (fallback cache, saved without assets, missing payload)",
		},
		[]string{"kind"},
	)
)

// Thumbnail degradation kinds
const (
	DegradationFallbackCache  = "fallback_cache"
	DegradationWithoutAssets  = "saved_without_assets"
	DegradationMissingPayload = "missing_payload"
)

// RecordRetryFailure có signature của retry.FailureHook
func RecordRetryFailure(operation string, attempt int, err error) {
	RetryFailures.WithLabelValues(operation).Inc()
}
