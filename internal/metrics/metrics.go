// internal/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	LoginsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quiz_logins_total",
			Help: "Total number of student login attempts",
		},
		[]string{"outcome"},
	)

	SubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quiz_submissions_total",
			Help: "Total number of quiz submissions",
		},
		[]string{"outcome"},
	)

	ScoreHistogram = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "quiz_score",
			Help:    "Distribution of quiz scores",
			Buckets: prometheus.LinearBuckets(0, 1, 11),
		},
		[]string{"quiz"},
	)

	MirroredResultsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quiz_mirrored_results_total",
			Help: "Total number of results pushed to the sheet mirror",
		},
		[]string{"outcome"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method", "status"},
	)
)
