package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// Backend call volume, labelled by operation (describe, save, delete, ...)
	BackendRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "oghmai_backend_requests_total",
		Help: "Total number of requests issued to the OghmAI backend.",
	}, []string{"operation"})

	// Failed backend calls, labelled by operation and error category
	BackendErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "oghmai_backend_errors_total",
		Help: "Backend requests that ended in an error.",
	}, []string{"operation", "category"})

	// Backend call latency
	BackendRequestDurationSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "oghmai_backend_request_duration_seconds",
		Help:    "Duration of OghmAI backend calls.",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
	}, []string{"operation"})

	// Match games finished, labelled won/lost
	MatchGamesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "oghmai_match_games_total",
		Help: "Match games played to completion.",
	}, []string{"outcome"})
)

func MustRegister(reg prometheus.Registerer) {
	reg.MustRegister(
		BackendRequestsTotal,
		BackendErrorsTotal,
		BackendRequestDurationSeconds,
		MatchGamesTotal,
	)
}
