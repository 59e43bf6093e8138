package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"nissanscraper/docs"
	"nissanscraper/internal/config"
	"nissanscraper/internal/database"
	"nissanscraper/internal/database/migration"
	handlers "nissanscraper/internal/http/handler"
	"nissanscraper/internal/http/middleware"
	"nissanscraper/internal/metrics"
	"nissanscraper/internal/otel"
	"nissanscraper/internal/repository/postgres"
	"nissanscraper/internal/scraper"
	"nissanscraper/internal/service"
	"nissanscraper/internal/storage"
)

const shutdownTimeout = 15 * time.Second

// @title Nissan Scraper API
// @version 1.0.0
// @description Scrapes vehicle catalog pages and serves the stored vehicles.
// @BasePath /
func main() {
	cfg := config.Load()
	loc := cfg.Location()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, "nissanscraper", loc)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, loc, cfg.Database.Host); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	// archiving is optional
	var objStore storage.Storage
	if cfg.MinIO.Endpoint != "" {
		objStore, err = storage.NewMinIO(ctx, cfg.MinIO)
		if err != nil {
			log.Fatalf("failed to initialize object storage: %v", err)
		}
	} else {
		logger.Warn("MINIO_ENDPOINT not set, snapshot archiving disabled")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		log.Fatalf("failed to register http metrics: %v", err)
	}
	scrapeMetrics, err := metrics.NewScrapeMetrics(reg)
	if err != nil {
		log.Fatalf("failed to register scrape metrics: %v", err)
	}

	sc := scraper.New(scraper.Options{
		UserAgent:       cfg.Scraper.UserAgent,
		Timeout:         cfg.Scraper.Timeout(),
		MaxRetries:      cfg.Scraper.MaxRetries,
		SpecConcurrency: cfg.Scraper.SpecConcurrency,
		MaxBodyBytes:    cfg.Scraper.MaxBodyBytes,
		Logger:          logger,
	})

	vehicleRepo := postgres.NewVehiclePostgres(db)
	snapshotRepo := postgres.NewSnapshotPostgres(db)

	vehicleSvc := service.NewVehicleService(vehicleRepo)
	snapshotSvc := service.NewSnapshotService(objStore, snapshotRepo)
	scrapeSvc := service.NewScrapeService(sc, objStore, snapshotRepo, vehicleRepo, service.ScrapeOptions{
		AllowedHosts: cfg.Scraper.AllowedHosts,
		Metrics:      scrapeMetrics,
		Logger:       logger,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.ServiceName,
		ErrorHandler: handlers.ErrorHandler(),
	})

	app.Use(otelfiber.Middleware(otelfiber.WithNext(func(c *fiber.Ctx) bool {
		return c.Path() == "/metrics"
	})))
	app.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowMethods:  "GET,POST,OPTIONS",
		AllowHeaders:  "Origin, Content-Type, Accept, " + middleware.RequestIDHeader,
		ExposeHeaders: middleware.RequestIDHeader,
	}))
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(loc))
	app.Use(httpMetrics.Handler())

	handlers.RegisterRoutes(app, handlers.Deps{
		DB:               db,
		Name:             cfg.ServiceName,
		Version:          cfg.Version,
		Vehicles:         vehicleSvc,
		Snapshots:        snapshotSvc,
		Scrapes:          scrapeSvc,
		Gatherer:         reg,
		ScrapeRateMax:    cfg.RateLimit.ScrapeMax,
		ScrapeRateWindow: time.Duration(cfg.RateLimit.ScrapeWindowSec) * time.Second,
	})

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.TrimSpace(strings.Split(proto, ",")[0])
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
		if err := shutdownTracing(shutdownCtx); err != nil {
			logger.Error("tracing shutdown failed", "error", err)
		}
	}()

	addr := ":" + cfg.Port
	if err := app.Listen(addr); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
