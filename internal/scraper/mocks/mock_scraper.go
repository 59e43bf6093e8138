package mocks

import (
	"context"

	"nissanscraper/internal/scraper"

	"github.com/stretchr/testify/mock"
)

type MockScraper struct {
	mock.Mock
}

func (m *MockScraper) Scrape(ctx context.Context, rawURL string, includeSpecs bool) (*scraper.Result, error) {
	args := m.Called(ctx, rawURL, includeSpecs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*scraper.Result), args.Error(1)
}
