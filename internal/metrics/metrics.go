package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BackendRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "console_backend_requests_total",
			Help: "Total number of requests sent to the REST backend",
		},
		[]string{"method", "status"},
	)

	BackendRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "console_backend_request_duration_seconds",
			Help:    "Duration of REST backend requests",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2, 5, 10},
		},
		[]string{"method"},
	)

	GuardRedirectsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "console_guard_redirects_total",
			Help: "Redirects issued by the route guard",
		},
		[]string{"target"},
	)

	AccessDeniedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "console_access_denied_total",
			Help: "Screens replaced by the access-denied payload",
		},
		[]string{"module"},
	)

	RollbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "console_optimistic_rollbacks_total",
			Help: "Optimistic list mutations reverted after a failed request",
		},
		[]string{"screen"},
	)

	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "console_active_sessions",
			Help: "Logged-in console sessions held in memory",
		},
	)
)
