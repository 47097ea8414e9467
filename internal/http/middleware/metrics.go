package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// unmatchedRoute labels requests that hit NoRoute or NoMethod, so scanners
// probing random paths cannot grow the label set.
const unmatchedRoute = "unmatched"

var (
	opsRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ops_http_requests_total",
			Help: "Requests served by the ops server, by route and status code.",
		},
		[]string{"method", "route", "code"},
	)

	// Probes answer in microseconds unless a dependency check stalls, and
	// readiness checks share a 2s deadline.
	opsLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ops_http_request_duration_seconds",
			Help:    "Ops request latency in seconds.",
			Buckets: []float64{.0005, .001, .005, .01, .05, .1, .25, .5, 1, 2, 5},
		},
		[]string{"route"},
	)

	opsInflight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "ops_http_requests_inflight",
			Help: "Ops requests currently being served.",
		},
	)

	opsRespSize = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ops_http_response_size_bytes",
			Help:    "Ops response body size in bytes.",
			Buckets: prometheus.ExponentialBuckets(64, 4, 8), // 64B..1MiB
		},
		[]string{"route"},
	)
)

func init() {
	prometheus.MustRegister(opsRequests, opsLatency, opsInflight, opsRespSize)
}

// Metrics records count, latency and body size per route. Bodiless
// responses are left out of the size histogram.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		opsInflight.Inc()
		defer opsInflight.Dec()

		c.Next()

		route := routeLabel(c)
		opsRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		opsLatency.WithLabelValues(route).Observe(time.Since(start).Seconds())
		if n := c.Writer.Size(); n >= 0 {
			opsRespSize.WithLabelValues(route).Observe(float64(n))
		}
	}
}

func routeLabel(c *gin.Context) string {
	if p := c.FullPath(); p != "" {
		return p
	}
	return unmatchedRoute
}
