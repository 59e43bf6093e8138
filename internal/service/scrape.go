package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"nissanscraper/internal/metrics"
	"nissanscraper/internal/model"
	"nissanscraper/internal/repository"
	"nissanscraper/internal/scraper"
	"nissanscraper/internal/storage"
)

// Scraper fetches and parses one listing page.
type Scraper interface {
	Scrape(ctx context.Context, rawURL string, includeSpecs bool) (*scraper.Result, error)
}

// ScrapeRequest is the input of a scrape.
type ScrapeRequest struct {
	URL          string `json:"url"`
	IncludeSpecs bool   `json:"include_specs"`
}

// ScrapeResult describes the vehicles stored by one scrape.
type ScrapeResult struct {
	SourceURL    string          `json:"source_url"`
	SnapshotID   string          `json:"snapshot_id,omitempty"`
	VehicleCount int             `json:"vehicle_count"`
	ScrapedAt    time.Time       `json:"scraped_at"`
	Vehicles     []model.Vehicle `json:"vehicles"`
}

// ScrapeService runs scrapes and persists their results.
type ScrapeService interface {
	// Scrape fetches req.URL, archives the page when storage is configured,
	// and upserts every parsed vehicle.
	Scrape(ctx context.Context, req ScrapeRequest) (*ScrapeResult, error)
}

// ScrapeOptions holds optional collaborators of the scrape service.
type ScrapeOptions struct {
	// AllowedHosts restricts targets to these hosts and their subdomains.
	AllowedHosts []string
	Metrics      *metrics.ScrapeMetrics
	Logger       *slog.Logger
}

type scrapeService struct {
	scraper   Scraper
	store     storage.Storage
	snapshots repository.SnapshotRepository
	vehicles  repository.VehicleRepository
	allowed   []string
	metrics   *metrics.ScrapeMetrics
	log       *slog.Logger
}

// NewScrapeService constructs a new ScrapeService. store may be nil to disable archiving.
func NewScrapeService(sc Scraper, store storage.Storage, snapshots repository.SnapshotRepository, vehicles repository.VehicleRepository, opts ScrapeOptions) ScrapeService {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &scrapeService{
		scraper:   sc,
		store:     store,
		snapshots: snapshots,
		vehicles:  vehicles,
		allowed:   opts.AllowedHosts,
		metrics:   opts.Metrics,
		log:       log,
	}
}

func (s *scrapeService) Scrape(ctx context.Context, req ScrapeRequest) (res *ScrapeResult, err error) {
	start := time.Now()
	defer func() {
		count := 0
		if res != nil {
			count = res.VehicleCount
		}
		s.metrics.Observe(outcomeOf(err), count, time.Since(start))
	}()

	target, err := s.validateURL(req.URL)
	if err != nil {
		return nil, err
	}

	scraped, err := s.scraper.Scrape(ctx, target, req.IncludeSpecs)
	if err != nil {
		return nil, fmt.Errorf("scrape %s: %w", target, err)
	}
	if len(scraped.Vehicles) == 0 {
		return nil, ErrNoVehicles
	}
	vehicles := scraped.Vehicles

	snapshotID := ""
	if s.store != nil {
		snap, err := s.archive(ctx, scraped.Page, len(vehicles))
		if err != nil {
			return nil, err
		}
		snapshotID = snap.ID
		for i := range vehicles {
			vehicles[i].SnapshotID = snapshotID
		}
	}

	if err := s.vehicles.Upsert(ctx, vehicles); err != nil {
		return nil, fmt.Errorf("save vehicles: %w", err)
	}

	s.log.InfoContext(ctx, "scrape stored",
		"url", scraped.Page.URL,
		"vehicles", len(vehicles),
		"snapshot_id", snapshotID,
	)

	return &ScrapeResult{
		SourceURL:    scraped.Page.URL,
		SnapshotID:   snapshotID,
		VehicleCount: len(vehicles),
		ScrapedAt:    scraped.Page.FetchedAt,
		Vehicles:     vehicles,
	}, nil
}

// archive uploads the raw page and records it, deleting the object if the record fails.
func (s *scrapeService) archive(ctx context.Context, page *scraper.Page, vehicleCount int) (*model.Snapshot, error) {
	id := uuid.New().String()
	createdAt := page.FetchedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	key := storage.SnapshotKey(id, createdAt)

	objInfo, err := s.store.Put(ctx, key, bytes.NewReader(page.Body), storage.PutObjectOptions{
		Size:        int64(len(page.Body)),
		ContentType: page.ContentType,
		Metadata: map[string]string{
			"source-url": page.URL,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("upload snapshot: %w", err)
	}

	snap, err := s.snapshots.Create(ctx, &model.Snapshot{
		ID:           id,
		SourceURL:    page.URL,
		StoragePath:  objInfo.Key,
		Size:         objInfo.Size,
		ContentType:  page.ContentType,
		VehicleCount: vehicleCount,
		CreatedAt:    createdAt,
	})
	if err != nil {
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}
	return snap, nil
}

func (s *scrapeService) validateURL(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", ErrInvalidURL
	}
	if len(s.allowed) > 0 {
		host := strings.ToLower(u.Hostname())
		ok := slices.ContainsFunc(s.allowed, func(a string) bool {
			return host == a || strings.HasSuffix(host, "."+a)
		})
		if !ok {
			return "", ErrHostNotAllowed
		}
	}
	u.Fragment = ""
	return u.String(), nil
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.Is(err, ErrInvalidURL), errors.Is(err, ErrHostNotAllowed):
		return metrics.OutcomeInvalid
	case errors.Is(err, ErrNoVehicles):
		return metrics.OutcomeNoVehicles
	case errors.Is(err, scraper.ErrUpstream), errors.Is(err, scraper.ErrNotHTML), errors.Is(err, scraper.ErrBodyTooLarge):
		return metrics.OutcomeUpstreamError
	default:
		return metrics.OutcomeError
	}
}
