package handler

import (
	"net/http"

	"sanctuary-mural/internal/adapter/http/middleware"
	redisStore "sanctuary-mural/internal/adapter/storage/redis"
	"sanctuary-mural/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	RoutePrefix    string
	AdminKey       middleware.KeyChecker // nil = pixel updates always rejected
	Donations      DonationLookup
	Murals         MuralLookup
	Metrics        ports.Metrics
	MetricsHandler http.Handler               // nil = /metrics disabled
	RateLimitStore *redisStore.RateLimitStore // nil = rate limiting disabled
	HealthCheckers []ports.HealthChecker
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(deps.Logger))
	if deps.Metrics != nil {
		r.Use(middleware.Metrics(deps.Metrics))
	}
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// Health check (deep: verifies PostgreSQL + Redis)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))
	if deps.MetricsHandler != nil {
		r.GET("/metrics", gin.WrapH(deps.MetricsHandler))
	}

	rules := middleware.DefaultRateLimitRules()

	// Helper: return rate limiter middleware if store is available, else noop.
	rl := func(group string) gin.HandlerFunc {
		if deps.RateLimitStore == nil {
			return func(c *gin.Context) { c.Next() }
		}
		rule, ok := rules[group]
		if !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	sanctuary := r.Group(deps.RoutePrefix + "/:" + middleware.CtxSanctuary)

	// --- Provider webhooks (provider-specific signature checks) ---
	donationHandler := NewDonationHandler(deps.Donations)
	sanctuary.POST("/donations/:providerId/live", rl(middleware.GroupDonations), donationHandler.Receive)

	// --- Mural ---
	muralHandler := NewMuralHandler(deps.Murals, deps.Logger)
	pixels := sanctuary.Group("/pixels")
	{
		pixels.GET("/current", rl(middleware.GroupPixelsRead), muralHandler.Current)
		pixels.GET("/sync", rl(middleware.GroupPixelsSync), muralHandler.Sync)
		pixels.POST("/update/:column/:row",
			rl(middleware.GroupPixelsUpdate),
			middleware.APIKeyAuth(deps.AdminKey, deps.Logger),
			middleware.AuditLog(deps.Logger),
			muralHandler.UpdateIdentifier,
		)
	}

	return r
}
