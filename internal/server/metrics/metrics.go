// Package metrics registers the Prometheus instruments exported at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal counts served HTTP requests by method, route pattern
	// and status code.
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "locksmith_http_requests_total",
		Help: "Total number of HTTP requests served.",
	}, []string{"method", "route", "status"})

	// RequestDuration observes request latency by method and route pattern.
	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "locksmith_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
)
