package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/quotepulse/internal/middleware"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"golang.org/x/time/rate"
)

// RouterOption customizes NewRouter.
type RouterOption func(*routerConfig)

type routerConfig struct {
	timeout   time.Duration
	rateLimit gin.HandlerFunc
	mcpPath   string
	mcp       http.Handler
}

// WithTimeout bounds every request context. Zero disables the bound.
func WithTimeout(d time.Duration) RouterOption {
	return func(rc *routerConfig) { rc.timeout = d }
}

// WithRateLimit sets the per-IP limit: perSecond sustained, burst peak.
// Non-positive values keep the default limiter.
func WithRateLimit(perSecond float64, burst int) RouterOption {
	return func(rc *routerConfig) {
		if perSecond <= 0 || burst <= 0 {
			return
		}
		rc.rateLimit = middleware.RateLimiterWith(rate.Limit(perSecond), burst)
	}
}

// WithMCP mounts an MCP HTTP transport at path.
func WithMCP(path string, h http.Handler) RouterOption {
	return func(rc *routerConfig) {
		rc.mcpPath = path
		rc.mcp = h
	}
}

// NewRouter creates the Gin engine.
//
// Responsibilities:
//   - Registers global middlewares (RequestID, Logger, Recovery, ErrorHandler, RateLimiter).
//   - Bounds request contexts (10 seconds unless WithTimeout says otherwise).
//   - Mounts Swagger docs (/swagger/*any) and, with WithMCP, the MCP transport.
//   - Configures API v1 routes (/api/v1).
//
// Health and readiness endpoints (/healthz, /readyz) are registered in app.InitializeApp().
func NewRouter(handler *Handler, opts ...RouterOption) *gin.Engine {
	rc := routerConfig{timeout: 10 * time.Second}
	for _, opt := range opts {
		opt(&rc)
	}
	if rc.rateLimit == nil {
		rc.rateLimit = middleware.RateLimiter()
	}

	router := gin.New()

	// ─── Middlewares ───────────────────────────────
	router.Use(
		middleware.RequestID(),
		middleware.RequestLogger(),
		middleware.RecoveryMiddleware(),
		middleware.ErrorHandler,
		rc.rateLimit,
	)

	// ─── Timeout ──────────────────────────────────
	if rc.timeout > 0 {
		router.Use(func(c *gin.Context) {
			ctx, cancel := context.WithTimeout(c.Request.Context(), rc.timeout)
			defer cancel()
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}

	// ─── Swagger ──────────────────────────────────
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// ─── MCP ──────────────────────────────────────
	if rc.mcp != nil {
		router.Any(rc.mcpPath, gin.WrapH(rc.mcp))
	}

	// ─── API v1 ───────────────────────────────────
	v1 := router.Group("/api/v1")
	{
		v1.GET("/tools", handler.ListTools)
		v1.POST("/tools/:name", handler.InvokeTool)
		v1.GET("/resources", handler.GetResource)
		v1.GET("/quote/:symbol", handler.GetQuote)
		v1.GET("/screeners/:screen", handler.GetScreener)
		v1.GET("/market-summary", handler.GetMarketSummary)
		v1.GET("/calls", handler.ListCalls)
	}

	return router
}
