package mocks

import (
	"context"

	"nissanscraper/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockScrapeService struct {
	mock.Mock
}

func (m *MockScrapeService) Scrape(ctx context.Context, req service.ScrapeRequest) (*service.ScrapeResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ScrapeResult), args.Error(1)
}
