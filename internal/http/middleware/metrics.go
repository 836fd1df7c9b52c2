// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file exposes Prometheus instrumentation for HTTP traffic. Labels stay
// bounded: the route template instead of the raw URL, the status class
// instead of the exact code, and the update kind only from the closed kind
// registry.
package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// unmatchedRoute labels requests that matched no route.
const unmatchedRoute = "unmatched"

// The platform gives up on a webhook call after a few seconds, so the
// latency buckets concentrate below that.
var webhookBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

type httpMetrics struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
	inflight prometheus.Gauge
	updates  *prometheus.CounterVec
}

func newHTTPMetrics() *httpMetrics {
	return &httpMetrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tgupdates_http_requests_total",
			Help: "HTTP requests by method, route and status class.",
		}, []string{"method", "route", "class"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "tgupdates_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: webhookBuckets,
		}, []string{"method", "route"}),
		inflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tgupdates_http_requests_inflight",
			Help: "HTTP requests currently being served.",
		}),
		updates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tgupdates_http_updates_total",
			Help: "Webhook deliveries answered 2xx, by update kind. Redeliveries count again.",
		}, []string{"kind"}),
	}
}

func (m *httpMetrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{m.requests, m.latency, m.inflight, m.updates}
}

var httpStats = newHTTPMetrics()

func init() {
	prometheus.MustRegister(httpStats.collectors()...)
}

// Metrics instruments every request. Deliveries annotated with an update kind
// (see Annotate) are also counted per kind.
func Metrics() gin.HandlerFunc {
	m := httpStats
	return func(c *gin.Context) {
		start := time.Now()
		m.inflight.Inc()
		defer m.inflight.Dec()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		status := c.Writer.Status()
		m.requests.WithLabelValues(c.Request.Method, route, statusClass(status)).Inc()
		m.latency.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())

		if kind := c.GetString(updateKindKey); kind != "" && status < 300 {
			m.updates.WithLabelValues(kind).Inc()
		}
	}
}

// statusClass folds a status code into "1xx".."5xx".
func statusClass(code int) string {
	if code < 100 || code > 599 {
		return "other"
	}
	return strconv.Itoa(code/100) + "xx"
}
