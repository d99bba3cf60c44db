// Package health reports per-dependency readiness.
package health

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"legal-backend/internal/shared/server/respond"
)

const pingTimeout = 2 * time.Second

// Checker reports the status of each backing dependency.
type Checker struct {
	DB               *sql.DB
	KanoonConfigured bool
	LLMConfigured    bool
	OCREnabled       bool
	Version          string
}

// Status is the health report. The database field is false when the ping
// fails; missing dependencies report configured=false rather than failing
// the endpoint.
type Status struct {
	Status   string          `json:"status"`
	Version  string          `json:"version,omitempty"`
	Services map[string]bool `json:"services"`
}

// Check pings the database and reports dependency configuration.
func (c *Checker) Check(ctx context.Context) Status {
	dbOK := false
	if c.DB != nil {
		pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		defer cancel()
		dbOK = c.DB.PingContext(pingCtx) == nil
	}

	status := "ok"
	if c.DB != nil && !dbOK {
		status = "degraded"
	}

	return Status{
		Status:  status,
		Version: c.Version,
		Services: map[string]bool{
			"database":       dbOK,
			"kanoon_api":     c.KanoonConfigured,
			"ai_analysis":    c.LLMConfigured,
			"ocr_processing": c.OCREnabled,
		},
	}
}

// Handler serves the health endpoint.
func (c *Checker) Handler() gin.HandlerFunc {
	return func(g *gin.Context) {
		respond.JSON(g, http.StatusOK, c.Check(g.Request.Context()))
	}
}
