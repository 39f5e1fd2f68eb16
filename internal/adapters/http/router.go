package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"
	"github.com/gofiber/websocket/v2"
	"github.com/rentloop/rentloop/internal/pkg/metrics"
)

// SetupRoutes registers all REST, GraphQL, and WebSocket routes.
func SetupRoutes(app *fiber.App, deps *Dependencies) {
	// Prometheus metrics
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	// Response compression (gzip)
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed, // Balance speed vs compression ratio
	}))

	// Request ID
	app.Use(requestid.New())

	// Propagate request ID into slog context
	app.Use(RequestIDLogMiddleware())

	// Access logs (structured HTTP request logging)
	app.Use(AccessLogMiddleware())

	// Rate limiting: 120 requests per minute per IP
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(429).JSON(fiber.Map{
				"error":   "rate limit exceeded",
				"message": "too many requests, please try again later",
			})
		},
		SkipFailedRequests: false,
	}))

	// Security headers + API version
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("X-API-Version", "1.0.0")
		return c.Next()
	})

	// ETag for conditional caching
	app.Use(ETagMiddleware())

	// Default Cache-Control headers
	app.Use(CachingMiddleware())

	// Health & readiness (no timeout, fast internal checks)
	app.Get("/v1/health", HealthHandler(deps))
	app.Get("/v1/ready", ReadyHandler(deps))

	// REST API v1, 15s per-request timeout
	v1 := app.Group("/v1")
	v1.Get("/properties", timeout.NewWithContext(SearchPropertiesHandler(deps), 15*time.Second))
	v1.Post("/properties", timeout.NewWithContext(CreatePropertyHandler(deps), 15*time.Second))
	v1.Get("/properties/:id", timeout.NewWithContext(GetPropertyHandler(deps), 15*time.Second))
	v1.Get("/properties/:id/leases", timeout.NewWithContext(PropertyLeasesHandler(deps), 15*time.Second))
	v1.Post("/properties/:id/leases", timeout.NewWithContext(SignLeaseHandler(deps), 15*time.Second))

	// Caller-scoped resources (identity via X-User-Id)
	v1.Get("/me", timeout.NewWithContext(GetTenantHandler(deps), 15*time.Second))
	v1.Get("/me/favorites", timeout.NewWithContext(FavoritePropertiesHandler(deps), 15*time.Second))
	v1.Post("/me/favorites/:id", timeout.NewWithContext(AddFavoriteHandler(deps), 15*time.Second))
	v1.Delete("/me/favorites/:id", timeout.NewWithContext(RemoveFavoriteHandler(deps), 15*time.Second))
	v1.Get("/me/residences", timeout.NewWithContext(ResidencesHandler(deps), 15*time.Second))

	// Geocoding
	v1.Get("/locations/resolve", timeout.NewWithContext(ResolveLocationHandler(deps), 15*time.Second))

	// Marketplace stats
	v1.Get("/market/stats", timeout.NewWithContext(MarketStatsHandler(deps), 15*time.Second))

	// GraphQL
	app.Post("/graphql", GraphQLHandler(deps))

	// WebSocket filter sessions
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/search", websocket.New(FilterSessionHandler(deps)))
}
