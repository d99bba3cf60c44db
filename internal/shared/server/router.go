package server

import (
	"strings"

	"github.com/gin-gonic/gin"

	"legal-backend/internal/analyses"
	"legal-backend/internal/analysis"
	"legal-backend/internal/cases"
	"legal-backend/internal/documents"
	"legal-backend/internal/health"
	"legal-backend/internal/shared/config"
	"legal-backend/internal/shared/metrics"
	"legal-backend/internal/shared/server/middleware"
	"legal-backend/internal/teams"
	"legal-backend/internal/users"
)

// RouterDeps carries the handlers the router wires up.
type RouterDeps struct {
	Config    config.Config
	Users     *users.Handler
	Teams     *teams.Handler
	Cases     *cases.Handler
	Documents *documents.Handler
	Analyses  *analyses.Handler
	Research  *analysis.Handler
	Health    *health.Checker
}

// NewRouter constructs the gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.Auth(),
		middleware.RateLimit(researchRateLimits()),
	)

	api := r.Group("/api/v1")

	if deps.Health != nil {
		api.GET("/health", deps.Health.Handler())
	}
	api.GET("/metrics", metrics.Handler())

	if deps.Users != nil {
		deps.Users.RegisterRoutes(api)
	}
	if deps.Teams != nil {
		deps.Teams.RegisterRoutes(api)
	}
	if deps.Cases != nil {
		deps.Cases.RegisterRoutes(api)
	}
	if deps.Documents != nil {
		deps.Documents.RegisterRoutes(api)
	}
	if deps.Analyses != nil {
		deps.Analyses.RegisterRoutes(api)
	}
	if deps.Research != nil {
		deps.Research.RegisterRoutes(api)
	}

	return r
}

// researchRateLimits throttles the endpoints that fan out to paid upstreams.
func researchRateLimits() middleware.RateLimitConfig {
	return middleware.RateLimitConfig{
		Rules: map[string]middleware.RateLimitRule{
			"research": {Rate: 0.5, Burst: 5},
		},
		GroupFor: func(c *gin.Context) string {
			path := c.Request.URL.Path
			if strings.HasPrefix(path, "/api/v1/analyze/") || strings.HasPrefix(path, "/api/v1/search/") {
				return "research"
			}
			return ""
		},
	}
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
