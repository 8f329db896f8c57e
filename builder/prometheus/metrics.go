package prometheus

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "image_moderation"

var (
	HttpPanicsTotal     prometheus.Counter
	HttpRequestsTotal   *prometheus.CounterVec
	HttpRequestDuration *prometheus.HistogramVec

	ModerationDecisionsTotal  *prometheus.CounterVec
	ModerationViolationsTotal *prometheus.CounterVec

	SightengineRequestsTotal   *prometheus.CounterVec
	SightengineRequestDuration prometheus.Histogram
)

var initOnce sync.Once

// InitMetrics registers every collector on the default registry. Safe to call more than once.
func InitMetrics() {
	initOnce.Do(func() {
		HttpPanicsTotal = promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_panics_total",
			Help:      "Total number of panics recovered by the http server",
		})
		HttpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of http requests",
		}, []string{"method", "path", "status"})
		HttpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of http requests",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"})

		ModerationDecisionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decisions_total",
			Help:      "Moderation decisions by status",
		}, []string{"status"})
		ModerationViolationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "violations_total",
			Help:      "Violations found per content category",
		}, []string{"category"})

		SightengineRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sightengine_requests_total",
			Help:      "Outbound classification attempts by outcome",
		}, []string{"outcome"})
		SightengineRequestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sightengine_request_duration_seconds",
			Help:      "Duration of a single outbound classification attempt",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		})
	})
}

// The helpers below are no-ops until InitMetrics has been called.

func ObserveHttpRequest(method, path, status string, elapsed time.Duration) {
	if HttpRequestsTotal == nil || HttpRequestDuration == nil {
		return
	}
	HttpRequestsTotal.WithLabelValues(method, path, status).Inc()
	HttpRequestDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

func ObserveDecision(status string) {
	if ModerationDecisionsTotal == nil {
		return
	}
	ModerationDecisionsTotal.WithLabelValues(status).Inc()
}

func ObserveViolation(category string) {
	if ModerationViolationsTotal == nil {
		return
	}
	ModerationViolationsTotal.WithLabelValues(category).Inc()
}

// ObserveSightengineAttempt records one outbound attempt, outcome is success or error.
func ObserveSightengineAttempt(outcome string, elapsed time.Duration) {
	if SightengineRequestsTotal == nil || SightengineRequestDuration == nil {
		return
	}
	SightengineRequestsTotal.WithLabelValues(outcome).Inc()
	SightengineRequestDuration.Observe(elapsed.Seconds())
}
