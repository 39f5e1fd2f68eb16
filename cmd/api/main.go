package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/rentloop/rentloop/internal/adapters/geocode"
	"github.com/rentloop/rentloop/internal/adapters/http"
	natsadapter "github.com/rentloop/rentloop/internal/adapters/nats"
	"github.com/rentloop/rentloop/internal/adapters/postgres"
	"github.com/rentloop/rentloop/internal/adapters/valkey"
	"github.com/rentloop/rentloop/internal/core/domain"
	"github.com/rentloop/rentloop/internal/core/ports"
	"github.com/rentloop/rentloop/internal/core/usecases"
	"github.com/rentloop/rentloop/internal/pkg/config"
	"github.com/rentloop/rentloop/internal/pkg/logging"
	"github.com/rentloop/rentloop/internal/pkg/metrics"
	"github.com/rentloop/rentloop/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("rentloop-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Structured logging
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logging.Setup(logLevel, "json")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.TempoAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	// Database
	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Cache
	cache, err := valkey.New(cfg.Valkey.Addr)
	if err != nil {
		slog.Warn("valkey unavailable", "error", err)
	} else {
		defer cache.Close()
	}

	// NATS
	nc, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats unavailable", "error", err)
	} else {
		defer nc.Close()
	}

	// Raw NATS connection for the WebSocket listing relay
	natsConn, err := natsadapter.RawConn(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats ws conn unavailable", "error", err)
	}

	// Geocoder
	geocoder := geocode.NewMapbox(cfg.Geocoder.Endpoint, cfg.Geocoder.Token,
		time.Duration(cfg.Geocoder.TimeoutSeconds)*time.Second)

	// Repos
	propertyRepo := postgres.NewPropertyRepo(db)
	tenantRepo := postgres.NewTenantRepo(db)
	leaseRepo := postgres.NewLeaseRepo(db)

	// Optional backends degrade to nil rather than a typed-nil interface
	var cacheSvc ports.CacheService
	if cache != nil {
		cacheSvc = cache
	}
	var events ports.EventPublisher
	if nc != nil {
		events = nc
	}

	// Use cases
	propertySvc := usecases.NewPropertyService(propertyRepo, cacheSvc, events)
	tenantSvc := usecases.NewTenantService(tenantRepo, propertyRepo)
	leaseSvc := usecases.NewLeaseService(leaseRepo, propertyRepo, events, nil)

	// Listings created elsewhere (seeder, other replicas) invalidate
	// this replica's cached search pages.
	sub, err := natsadapter.NewSubscriber(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats subscriber unavailable", "error", err)
	} else {
		defer sub.Close()
		err = sub.SubscribePropertyCreated(ctx, func(ctx context.Context, p *domain.Property) error {
			propertySvc.InvalidateSearches(ctx)
			return nil
		})
		if err != nil {
			slog.Warn("property created subscription failed", "error", err)
		}
	}

	// DB pool gauges
	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				metrics.UpdateDBPoolMetrics(db.Pool.Stat())
			case <-ctx.Done():
				return
			}
		}
	}()

	deps := &http.Dependencies{
		Properties:   propertySvc,
		Tenants:      tenantSvc,
		Leases:       leaseSvc,
		Geocoder:     geocoder,
		NATS:         natsConn,
		DB:           db,
		Cache:        cache,
		SyncWindow:   time.Duration(cfg.Search.DebounceMS) * time.Millisecond,
		SearchRadius: cfg.Search.RadiusMeters,
	}

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    1024 * 1024, // 1 MB max request body
		AppName:      "RentLoop API",
	})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:3000, http://localhost:5173, https://*.rentloop.homes",
		AllowMethods:     "GET,POST,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-User-Id",
		AllowCredentials: false,
		MaxAge:           3600,
	}))

	http.SetupRoutes(app, deps)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	// Give in-flight requests up to 10s to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}
