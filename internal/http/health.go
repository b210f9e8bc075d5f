package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const pingTimeout = 2 * time.Second

const (
	checkOK            = "ok"
	checkFailed        = "failed"
	checkNotConfigured = "not_configured"
)

// Pinger is satisfied by *database.Database.
type Pinger interface {
	Ping(ctx context.Context) error
}

// DependencyCheck is the outcome of probing one backing service.
type DependencyCheck struct {
	Status    string `json:"status"`
	LatencyMS int64  `json:"latency_ms"`
	Error     string `json:"error,omitempty"`
}

type HealthResponse struct {
	Status    string                     `json:"status"`
	Timestamp string                     `json:"timestamp"`
	Version   string                     `json:"version,omitempty"`
	Uptime    string                     `json:"uptime"`
	Checks    map[string]DependencyCheck `json:"checks"`
}

// HealthController reports readiness. Any failed dependency turns the
// response into a 503.
type HealthController struct {
	db        Pinger
	version   string
	startedAt time.Time
}

func NewHealthController(db Pinger, version string) *HealthController {
	return &HealthController{db: db, version: version, startedAt: time.Now()}
}

func (h *HealthController) Status(c *gin.Context) {
	resp := HealthResponse{
		Status:    checkOK,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   h.version,
		Uptime:    time.Since(h.startedAt).Truncate(time.Second).String(),
		Checks:    map[string]DependencyCheck{"database": checkDependency(c.Request.Context(), h.db)},
	}

	code := http.StatusOK
	for _, check := range resp.Checks {
		if check.Status == checkFailed {
			resp.Status = "unhealthy"
			code = http.StatusServiceUnavailable
		}
	}
	c.JSON(code, resp)
}

func checkDependency(ctx context.Context, p Pinger) DependencyCheck {
	if p == nil {
		return DependencyCheck{Status: checkNotConfigured}
	}

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	start := time.Now()
	err := p.Ping(ctx)
	check := DependencyCheck{Status: checkOK, LatencyMS: time.Since(start).Milliseconds()}
	if err != nil {
		check.Status = checkFailed
		check.Error = err.Error()
	}
	return check
}
