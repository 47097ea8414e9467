package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/newitdevelop/menufic/internal/http/middleware"
)

const defaultProbeTimeout = 2 * time.Second

// Check probes one dependency; a nil error means it is usable.
type Check func(ctx context.Context) error

// ReadyResponse is the /ready body. Checks maps each dependency to "ok" or
// its error text.
type ReadyResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// Probes serves the liveness and readiness endpoints.
type Probes struct {
	timeout time.Duration
	names   []string
	checks  map[string]Check
}

// NewProbes returns Probes whose readiness checks share one deadline.
// timeout <= 0 uses 2s.
func NewProbes(timeout time.Duration) *Probes {
	if timeout <= 0 {
		timeout = defaultProbeTimeout
	}
	return &Probes{timeout: timeout, checks: map[string]Check{}}
}

// Add registers a readiness check. Checks run in registration order; adding a
// name twice replaces the earlier check.
func (p *Probes) Add(name string, fn Check) *Probes {
	if _, dup := p.checks[name]; !dup {
		p.names = append(p.names, name)
	}
	p.checks[name] = fn
	return p
}

// Health reports liveness. It never touches dependencies.
func (p *Probes) Health(c *gin.Context) {
	ok(c, http.StatusOK, gin.H{"status": "ok"})
}

// Ready runs every registered check and answers 503 when any of them fails.
func (p *Probes) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), p.timeout)
	defer cancel()

	resp := ReadyResponse{Status: "ready", Checks: make(map[string]string, len(p.names))}
	for _, name := range p.names {
		if err := p.checks[name](ctx); err != nil {
			resp.Status = "unavailable"
			resp.Checks[name] = err.Error()
			middleware.LoggerFrom(c).Warn().Err(err).Str("check", name).Msg("readiness check failed")
			continue
		}
		resp.Checks[name] = "ok"
	}

	if resp.Status != "ready" {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, resp)
		return
	}
	ok(c, http.StatusOK, resp)
}

// PingDB checks the connection pool behind db.
func PingDB(db *gorm.DB) Check {
	return func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
}

// PingRedis checks a Redis connection with PING.
func PingRedis(client redis.Cmdable) Check {
	return func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}
}
