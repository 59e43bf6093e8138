package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"nissanscraper/internal/http/middleware"
	"nissanscraper/internal/service"
)

// Deps carries everything the HTTP layer needs.
type Deps struct {
	// DB backs /health; nil reports the service as unavailable.
	DB      Pinger
	Name    string
	Version string

	Vehicles  service.VehicleService
	Snapshots service.SnapshotService
	Scrapes   service.ScrapeService

	// Gatherer is exposed on /metrics when set.
	Gatherer prometheus.Gatherer

	// ScrapeRateMax requests per ScrapeRateWindow and client IP; 0 disables.
	ScrapeRateMax    int
	ScrapeRateWindow time.Duration
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, d Deps) {
	app.Get("/", Root(d.Name, d.Version))
	app.Get("/health", HealthCheck(d.DB, d.Name))
	app.Get("/ping", Ping())
	app.Get("/healthz", LivenessProbe())

	if d.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}

	v1 := app.Group("/api/v1")

	v1.Get("/vehicles", ListVehicles(d.Vehicles))
	v1.Get("/vehicles/:id", GetVehicle(d.Vehicles))
	v1.Get("/models", ListModels(d.Vehicles))

	// both scrape routes share one limiter
	limit := middleware.RateLimit(d.ScrapeRateMax, d.ScrapeRateWindow)
	v1.Post("/scrape", limit, Scrape(d.Scrapes))
	v1.Post("/scrape-vehicle-data", limit, Scrape(d.Scrapes))

	v1.Get("/snapshots", ListSnapshots(d.Snapshots))
	v1.Get("/snapshots/:id", GetSnapshot(d.Snapshots))
	v1.Delete("/snapshots/:id", DeleteSnapshot(d.Snapshots))
	v1.Get("/snapshots/:id/raw", DownloadSnapshot(d.Snapshots))
}
