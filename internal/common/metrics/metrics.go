// Package metrics holds the Prometheus collectors served on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	StageCallsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flightdeck_stage_calls_completed_total",
			Help: "Total number of stage calls that returned a usable response",
		},
		[]string{"stage"},
	)

	StageCallsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flightdeck_stage_calls_failed_total",
			Help: "Total number of stage calls that failed",
		},
		[]string{"stage", "error_code"},
	)

	StageCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "flightdeck_stage_call_duration_seconds",
			Help:    "Duration of stage calls in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 40, 80},
		},
		[]string{"stage"},
	)

	StageCallsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "flightdeck_stage_calls_active",
			Help: "Number of in-flight stage calls",
		},
		[]string{"stage"},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flightdeck_http_requests_total",
			Help: "Requests served by the web front end",
		},
		[]string{"route", "status"},
	)

	SessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "flightdeck_sessions_active",
			Help: "Number of live browser sessions",
		},
	)
)
