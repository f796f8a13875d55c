package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/training-session-scheduler/internal/config"
	"github.com/iliyamo/training-session-scheduler/internal/handler"    // import the handlers that implement business logic
	"github.com/iliyamo/training-session-scheduler/internal/middleware" // import middleware for JWT authentication and role enforcement
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Load balancers and monitoring systems use this to verify liveness.
	e.GET("/healthz", handler.Health)
}

// RegisterPublic registers the unauthenticated browse endpoints.  The
// Redis response cache fronts them so repeated lookups do not hit MySQL
// between scheduling passes.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, cacheCfg config.CacheConfig, rdb *redis.Client) {
	cached := middleware.ResponseCache(cacheCfg, rdb)
	e.GET("/v1/schedule/weeks/:week", p.GetWeekSchedule, cached)
	e.GET("/v1/halls/:id", p.GetHall, cached)
}

// RegisterMember registers member self-service routes.  Members carry the
// MEMBER role in tokens issued by the identity service.
func RegisterMember(e *echo.Echo, m *handler.MemberHandler, jwtSecret string) {
	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole("MEMBER", "ADMIN"))
	g.DELETE("/assignments/:id", m.CancelAssignment)
}

// RegisterAdmin registers the administrative scheduling surface: the two
// on-demand pass triggers and the session/assignment state transitions.
// All routes require a valid ADMIN token; the triggers are additionally
// rate limited because each one runs a full pass over the week.
func RegisterAdmin(e *echo.Echo, s *handler.ScheduleHandler, a *handler.AdminSessionHandler,
	jwtSecret string, rlCfg config.RateLimitConfig, rdb *redis.Client,
) {
	g := e.Group("/v1/admin")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole("ADMIN"))

	limited := g.Group("/schedule")
	limited.Use(middleware.NewTokenBucket(rlCfg, rdb))
	limited.POST("/runs", s.RunSchedule)
	limited.POST("/adjustments", s.RunAdjustment)

	g.PATCH("/sessions/:id/status", a.UpdateSessionStatus)
	g.PATCH("/assignments/:id/status", a.UpdateAssignmentStatus)
}
