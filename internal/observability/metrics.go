package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal counts handled requests by route pattern, method and status.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "otion_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"route", "method", "status"})

	// HTTPRequestDuration records request latency by route pattern and method.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "otion_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method"})

	// ReactionOutcomesTotal counts reaction transitions by outcome.
	ReactionOutcomesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "otion_reaction_outcomes_total",
		Help: "Total number of reaction transitions by outcome",
	}, []string{"outcome"})

	// UpstreamRequestDuration records latency of calls to weather and AI services.
	UpstreamRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "otion_upstream_request_duration_seconds",
		Help:    "Upstream request latency in seconds",
		Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 20, 30},
	}, []string{"service", "result"})

	// AdviceSourceTotal counts advice responses by the stylist that produced them.
	AdviceSourceTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "otion_advice_total",
		Help: "Total number of advice responses by source",
	}, []string{"source"})
)

// ObserveUpstream records one upstream call that started at start.
func ObserveUpstream(service string, start time.Time, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	UpstreamRequestDuration.WithLabelValues(service, result).Observe(time.Since(start).Seconds())
}

// ObserveRequest records one finished HTTP request.
func ObserveRequest(route, method string, status int, start time.Time) {
	HTTPRequestsTotal.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(route, method).Observe(time.Since(start).Seconds())
}
