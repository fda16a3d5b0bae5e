package main

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"courtflow/internal/config"
	"courtflow/internal/database"
	"courtflow/internal/database/migration"
	handlers "courtflow/internal/http/handler"
	"courtflow/internal/http/middleware"
	"courtflow/internal/identity"
	"courtflow/internal/otel"
	"courtflow/internal/repository/postgres"
	"courtflow/internal/service"
	"courtflow/internal/storage"
	"courtflow/internal/workflow"
)

func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	loc := time.UTC

	// Tracing first so the DB driver picks up the provider
	shutdownTracing, err := otel.Init(context.Background(), loc)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(ctx)
	}()

	// Initialize PostgreSQL connection (with pooling via database/sql)
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	{
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err := migration.EnsureMigrated(ctx, db, loc, cfg.Database.Host)
		cancel()
		if err != nil {
			log.Fatalf("failed to migrate database: %v", err)
		}
	}

	// Initialize reusable S3-compatible object storage client (MinIO-supported)
	objStore, err := storage.NewMinIO(cfg.MinIO)
	if err != nil {
		log.Fatalf("failed to initialize object storage: %v", err)
	}

	if cfg.Auth.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}
	resolver := identity.NewResolver(cfg.Auth.JWTSecret)

	// Initialize repositories and services
	expRepo := postgres.NewExpedientePostgres(db)
	newsRepo := postgres.NewNewsPostgres(db)
	attRepo := postgres.NewAttachmentPostgres(db)

	expSvc := workflow.NewExpedienteService(expRepo)
	newsSvc := workflow.NewNewsService(newsRepo)
	attSvc := service.NewAttachmentService(objStore, attRepo, expRepo)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
	})

	// Register global middleware
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	// JSON Logger middleware for structured request logs
	app.Use(middleware.Logger())

	promMiddleware, err := middleware.NewPrometheusMiddleware(prometheus.DefaultRegisterer)
	if err != nil {
		log.Fatalf("failed to register metrics: %v", err)
	}
	app.Use(promMiddleware.Handler())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Register HTTP routes with injected services; domain routes sit
	// behind token auth, probes and docs stay public
	handlers.RegisterRoutes(app, db, middleware.Auth(resolver), expSvc, newsSvc, attSvc)

	addr := ":" + cfg.Port

	if err := app.Listen(addr); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
