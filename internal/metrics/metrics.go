package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequests counts served requests by route and status code.
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quizmaster_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "quizmaster_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	LoginAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quizmaster_login_attempts_total",
			Help: "Total number of login attempts",
		},
		[]string{"status"},
	)

	QuizzesStarted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "quizmaster_quizzes_started_total",
			Help: "Total number of started quizzes",
		},
	)

	// AnswersSubmitted counts answers by result: correct, incorrect or stale.
	AnswersSubmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quizmaster_answers_total",
			Help: "Total number of submitted answers",
		},
		[]string{"result"},
	)

	AttemptsRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quizmaster_attempts_recorded_total",
			Help: "Total number of quiz attempt recordings by outcome",
		},
		[]string{"outcome"},
	)
)
