package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Scrape outcomes used as the "outcome" label.
const (
	OutcomeSuccess       = "success"
	OutcomeInvalid       = "invalid"
	OutcomeUpstreamError = "upstream_error"
	OutcomeNoVehicles    = "no_vehicles"
	OutcomeError         = "error"
)

// ScrapeMetrics records scrape activity.
type ScrapeMetrics struct {
	scrapes  *prometheus.CounterVec
	vehicles prometheus.Counter
	duration prometheus.Histogram
}

// NewScrapeMetrics creates and registers scrape metrics on reg.
func NewScrapeMetrics(reg prometheus.Registerer) (*ScrapeMetrics, error) {
	m := &ScrapeMetrics{
		scrapes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scraper_scrapes_total",
				Help: "Total number of scrape requests by outcome.",
			},
			[]string{"outcome"},
		),
		vehicles: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "scraper_vehicles_total",
			Help: "Total number of vehicles stored from scraped pages.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "scraper_scrape_duration_seconds",
			Help:    "Duration of scrape requests, including storage.",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
	}

	for _, c := range []prometheus.Collector{m.scrapes, m.vehicles, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Observe records one finished scrape. A nil receiver is a no-op.
func (m *ScrapeMetrics) Observe(outcome string, vehicles int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.scrapes.WithLabelValues(outcome).Inc()
	if vehicles > 0 {
		m.vehicles.Add(float64(vehicles))
	}
	m.duration.Observe(elapsed.Seconds())
}
