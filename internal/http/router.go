// Package httpapi wires the ops HTTP surface: liveness, readiness and the
// Prometheus scrape endpoint, behind tracing, correlation ids, access logging,
// panic recovery and request metrics.
package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/newitdevelop/menufic/internal/config"
	"github.com/newitdevelop/menufic/internal/http/handlers"
	"github.com/newitdevelop/menufic/internal/http/middleware"
)

// RegisterRoutes mounts the middleware chain and the ops endpoints on r.
//
// Middleware order:
//  1. OpenTelemetry
//  2. RequestID
//  3. Logger
//  4. Recovery
//  5. Metrics
func RegisterRoutes(r *gin.Engine, cfg config.Config, probes *handlers.Probes) {
	r.HandleMethodNotAllowed = true

	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.Metrics())

	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	r.GET("/health", probes.Health)
	r.GET("/ready", probes.Ready)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// NewServer builds the http.Server for the ops router using the configured
// timeouts and header limit.
func NewServer(cfg config.Config, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           h,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}
}
