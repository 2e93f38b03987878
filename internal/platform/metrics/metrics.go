// Package metrics collects Prometheus metrics for the HTTP surface and the
// authentication flows, and exposes them for scraping.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is the subset of Collector used by middleware and handlers.
type Recorder interface {
	RecordHTTPRequest(method, route string, status int, duration time.Duration)
	RecordAuthOutcome(flow, outcome string)
	RecordRateLimited(route string)
}

// Auth flows and outcomes reported through RecordAuthOutcome.
const (
	FlowLogin    = "login"
	FlowRefresh  = "refresh"
	FlowRegister = "register"

	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Collector is the Prometheus implementation of Recorder.
type Collector struct {
	requests    *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	authResults *prometheus.CounterVec
	rateLimited *prometheus.CounterVec
}

var _ Recorder = (*Collector)(nil)

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "todofast_http_requests_total",
			Help: "HTTP requests by method, route pattern and status code.",
		}, []string{"method", "route", "status_code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "todofast_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		authResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "todofast_auth_attempts_total",
			Help: "Login, refresh and registration attempts by outcome.",
		}, []string{"flow", "outcome"}),
		rateLimited: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "todofast_rate_limited_total",
			Help: "Requests rejected by the rate limiter.",
		}, []string{"route"}),
	}

	reg.MustRegister(c.requests, c.duration, c.authResults, c.rateLimited)
	return c
}

// RecordHTTPRequest records one completed request.
func (c *Collector) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	c.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.duration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordAuthOutcome counts an authentication attempt.
func (c *Collector) RecordAuthOutcome(flow, outcome string) {
	c.authResults.WithLabelValues(flow, outcome).Inc()
}

// RecordRateLimited counts a request rejected with 429.
func (c *Collector) RecordRateLimited(route string) {
	c.rateLimited.WithLabelValues(route).Inc()
}

// Nop is a Recorder that discards everything.
type Nop struct{}

func (Nop) RecordHTTPRequest(string, string, int, time.Duration) {}
func (Nop) RecordAuthOutcome(string, string)                     {}
func (Nop) RecordRateLimited(string)                             {}

// Handler returns the HTTP handler serving gatherer in the Prometheus text format.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
