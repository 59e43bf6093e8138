package scraper

import (
	"context"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"nissanscraper/internal/model"
)

var tracer = otel.Tracer("nissanscraper/internal/scraper")

// Result is the outcome of scraping one listing page.
type Result struct {
	Page     *Page
	Vehicles []model.Vehicle
}

// Scrape fetches a listing page and parses its vehicles. With includeSpecs,
// every distinct detail page is fetched concurrently and its specs attached;
// a failing detail page is logged and skipped.
func (c *Client) Scrape(ctx context.Context, rawURL string, includeSpecs bool) (*Result, error) {
	ctx, span := tracer.Start(ctx, "scraper.Scrape", trace.WithSpanKind(trace.SpanKindInternal))
	defer span.End()
	span.SetAttributes(
		attribute.String("scrape.url", rawURL),
		attribute.Bool("scrape.include_specs", includeSpecs),
	)

	page, err := c.Fetch(ctx, rawURL)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch failed")
		return nil, err
	}

	vehicles, err := ParseVehicles(page)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "parse failed")
		return nil, err
	}
	span.SetAttributes(attribute.Int("scrape.vehicles", len(vehicles)))

	if includeSpecs {
		if err := c.attachSpecs(ctx, vehicles); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "specs failed")
			return nil, err
		}
	}

	c.log.InfoContext(ctx, "page scraped",
		"url", page.URL,
		"status", page.StatusCode,
		"bytes", len(page.Body),
		"vehicles", len(vehicles),
		"include_specs", includeSpecs,
	)

	return &Result{Page: page, Vehicles: vehicles}, nil
}

// attachSpecs only fails when ctx is done.
func (c *Client) attachSpecs(ctx context.Context, vehicles []model.Vehicle) error {
	var links []string
	wanted := make(map[string]bool)
	for _, v := range vehicles {
		if v.DetailURL != "" && !wanted[v.DetailURL] {
			wanted[v.DetailURL] = true
			links = append(links, v.DetailURL)
		}
	}
	if len(links) == 0 {
		return nil
	}

	var (
		mu    sync.Mutex
		specs = make(map[string]map[string]string, len(links))
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.opts.SpecConcurrency)
	for _, link := range links {
		link := link
		g.Go(func() error {
			page, err := c.Fetch(gctx, link)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				c.log.WarnContext(gctx, "failed to fetch spec page", "url", link, "err", err)
				return nil
			}
			parsed, err := ParseSpecs(page.Body)
			if err != nil {
				c.log.WarnContext(gctx, "failed to parse spec page", "url", link, "err", err)
				return nil
			}
			mu.Lock()
			specs[link] = parsed
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("fetch specs: %w", err)
	}

	for i := range vehicles {
		if s, ok := specs[vehicles[i].DetailURL]; ok && len(s) > 0 {
			vehicles[i].Specs = s
		}
	}
	return nil
}
