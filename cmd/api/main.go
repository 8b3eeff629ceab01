package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"optimapricer/internal/config"
	"optimapricer/internal/database"
	handlers "optimapricer/internal/http/handler"
	"optimapricer/internal/http/middleware"
	"optimapricer/internal/logger"
	"optimapricer/internal/otel"
	"optimapricer/internal/repository/postgres"
	"optimapricer/internal/scraper"
	"optimapricer/internal/service"
	"optimapricer/internal/storage"
	"optimapricer/internal/validation"
)

func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	log := logger.New(cfg.Log)

	ctx := context.Background()

	shutdownTracing, err := otel.Init(ctx, log)
	if err != nil {
		log.Error("failed to initialize tracing", slog.Any("error", err))
		os.Exit(1)
	}

	// PostgreSQL connection (pooled, otelsql-instrumented) plus embedded
	// migrations.
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Error("failed to run migrations", slog.Any("error", err))
		os.Exit(1)
	}

	// Snapshot archive is optional: without an endpoint configured, scans
	// simply skip archiving raw pages.
	var snapshots storage.Storage
	if cfg.Snapshots.Endpoint != "" {
		snapshots, err = storage.NewMinIO(cfg.Snapshots)
		if err != nil {
			log.Error("failed to initialize snapshot storage", slog.Any("error", err))
			os.Exit(1)
		}
	}

	// Repositories
	userRepo := postgres.NewUserPostgres(db)
	storeRepo := postgres.NewStorePostgres(db)
	productRepo := postgres.NewProductPostgres(db)
	marketDataRepo := postgres.NewMarketDataPostgres(db)
	recRepo := postgres.NewRecommendationPostgres(db)

	// Services
	shopping := scraper.New(cfg.Scraper, log)
	svcs := handlers.Services{
		Auth:            service.NewAuthService(userRepo),
		Stores:          service.NewStoreService(storeRepo),
		Products:        service.NewProductService(productRepo, storeRepo, marketDataRepo),
		Scans:           service.NewScanService(productRepo, marketDataRepo, shopping, snapshots, log),
		Recommendations: service.NewRecommendationService(recRepo, productRepo, marketDataRepo, shopping, log),
		Dashboard:       service.NewDashboardService(productRepo, recRepo),
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	promMiddleware, err := middleware.NewPrometheusMiddleware(registry)
	if err != nil {
		log.Error("failed to register metrics", slog.Any("error", err))
		os.Exit(1)
	}

	sessions := middleware.NewSessionAuth(cfg.Session)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
	})

	app.Use(otelfiber.Middleware())
	app.Use(middleware.RequestID())
	app.Use(middleware.RequestLogger(log))
	app.Use(promMiddleware.Handler())

	handlers.RegisterRoutes(app, db, svcs, sessions, validation.NewDefaultValidator(), registry)

	// Graceful shutdown on SIGINT/SIGTERM.
	go func() {
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
		<-stop

		log.Info("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Error("shutdown failed", slog.Any("error", err))
		}
	}()

	addr := ":" + cfg.Port
	log.Info("starting server", slog.String("addr", addr))
	if err := app.Listen(addr); err != nil {
		log.Error("server stopped", slog.Any("error", err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error("tracing shutdown failed", slog.Any("error", err))
	}
}
