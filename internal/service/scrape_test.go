package service

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"nissanscraper/internal/metrics"
	"nissanscraper/internal/model"
	repoMocks "nissanscraper/internal/repository/mocks"
	"nissanscraper/internal/scraper"
	scraperMocks "nissanscraper/internal/scraper/mocks"
	"nissanscraper/internal/storage"
	storeMocks "nissanscraper/internal/storage/mocks"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const listURL = "https://catalog.example.com/nissan/100nx"

func scrapedResult() *scraper.Result {
	return &scraper.Result{
		Page: &scraper.Page{
			URL:         listURL,
			StatusCode:  200,
			ContentType: "text/html",
			Body:        []byte("<html></html>"),
			FetchedAt:   time.Date(2026, 10, 17, 8, 0, 0, 0, time.UTC),
		},
		Vehicles: []model.Vehicle{
			{ID: "v1", ModelDesignation: "100nx b13", Year: "1994"},
			{ID: "v2", ModelDesignation: "100nx b13", Year: "1995"},
		},
	}
}

func TestScrapeService_Scrape(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		req         ScrapeRequest
		allowed     []string
		noStore     bool
		setupMocks  func(sc *scraperMocks.MockScraper, st *storeMocks.MockStorage, snaps *repoMocks.MockSnapshotRepository, vs *repoMocks.MockVehicleRepository)
		wantErr     error
		wantErrText string
		wantCount   int
		wantSnap    bool
	}{
		{
			name: "success with archive",
			req:  ScrapeRequest{URL: listURL + "#top", IncludeSpecs: true},
			setupMocks: func(sc *scraperMocks.MockScraper, st *storeMocks.MockStorage, snaps *repoMocks.MockSnapshotRepository, vs *repoMocks.MockVehicleRepository) {
				sc.On("Scrape", ctx, listURL, true).Return(scrapedResult(), nil)
				st.On("Put", ctx, mock.AnythingOfType("string"), mock.Anything, mock.MatchedBy(func(o storage.PutObjectOptions) bool {
					return o.Size == 13 && o.ContentType == "text/html" && o.Metadata["source-url"] == listURL
				})).Return(func(_ context.Context, key string, _ io.Reader, _ storage.PutObjectOptions) storage.ObjectInfo {
					return storage.ObjectInfo{Key: key, Size: 13}
				}, nil)
				snaps.On("Create", ctx, mock.MatchedBy(func(s *model.Snapshot) bool {
					return s.SourceURL == listURL && s.VehicleCount == 2 && s.Size == 13
				})).Return(&model.Snapshot{ID: "snap-1"}, nil)
				vs.On("Upsert", ctx, mock.MatchedBy(func(v []model.Vehicle) bool {
					return len(v) == 2 && v[0].SnapshotID == "snap-1" && v[1].SnapshotID == "snap-1"
				})).Return(nil)
			},
			wantCount: 2,
			wantSnap:  true,
		},
		{
			name:    "success without storage",
			req:     ScrapeRequest{URL: listURL},
			noStore: true,
			setupMocks: func(sc *scraperMocks.MockScraper, st *storeMocks.MockStorage, snaps *repoMocks.MockSnapshotRepository, vs *repoMocks.MockVehicleRepository) {
				sc.On("Scrape", ctx, listURL, false).Return(scrapedResult(), nil)
				vs.On("Upsert", ctx, mock.MatchedBy(func(v []model.Vehicle) bool {
					return len(v) == 2 && v[0].SnapshotID == ""
				})).Return(nil)
			},
			wantCount: 2,
		},
		{
			name:       "missing url",
			req:        ScrapeRequest{},
			setupMocks: func(*scraperMocks.MockScraper, *storeMocks.MockStorage, *repoMocks.MockSnapshotRepository, *repoMocks.MockVehicleRepository) {},
			wantErr:    ErrInvalidURL,
		},
		{
			name:       "unsupported scheme",
			req:        ScrapeRequest{URL: "ftp://catalog.example.com/x"},
			setupMocks: func(*scraperMocks.MockScraper, *storeMocks.MockStorage, *repoMocks.MockSnapshotRepository, *repoMocks.MockVehicleRepository) {},
			wantErr:    ErrInvalidURL,
		},
		{
			name:       "host not allowed",
			req:        ScrapeRequest{URL: "https://evil.example.org/"},
			allowed:    []string{"example.com"},
			setupMocks: func(*scraperMocks.MockScraper, *storeMocks.MockStorage, *repoMocks.MockSnapshotRepository, *repoMocks.MockVehicleRepository) {},
			wantErr:    ErrHostNotAllowed,
		},
		{
			name:    "subdomain of allowed host",
			req:     ScrapeRequest{URL: listURL},
			allowed: []string{"example.com"},
			noStore: true,
			setupMocks: func(sc *scraperMocks.MockScraper, st *storeMocks.MockStorage, snaps *repoMocks.MockSnapshotRepository, vs *repoMocks.MockVehicleRepository) {
				sc.On("Scrape", ctx, listURL, false).Return(scrapedResult(), nil)
				vs.On("Upsert", ctx, mock.Anything).Return(nil)
			},
			wantCount: 2,
		},
		{
			name: "upstream failure",
			req:  ScrapeRequest{URL: listURL},
			setupMocks: func(sc *scraperMocks.MockScraper, st *storeMocks.MockStorage, snaps *repoMocks.MockSnapshotRepository, vs *repoMocks.MockVehicleRepository) {
				sc.On("Scrape", ctx, listURL, false).Return(nil, &scraper.UpstreamError{URL: listURL, StatusCode: 503})
			},
			wantErr: scraper.ErrUpstream,
		},
		{
			name: "no vehicles",
			req:  ScrapeRequest{URL: listURL},
			setupMocks: func(sc *scraperMocks.MockScraper, st *storeMocks.MockStorage, snaps *repoMocks.MockSnapshotRepository, vs *repoMocks.MockVehicleRepository) {
				res := scrapedResult()
				res.Vehicles = nil
				sc.On("Scrape", ctx, listURL, false).Return(res, nil)
			},
			wantErr: ErrNoVehicles,
		},
		{
			name: "upload failure",
			req:  ScrapeRequest{URL: listURL},
			setupMocks: func(sc *scraperMocks.MockScraper, st *storeMocks.MockStorage, snaps *repoMocks.MockSnapshotRepository, vs *repoMocks.MockVehicleRepository) {
				sc.On("Scrape", ctx, listURL, false).Return(scrapedResult(), nil)
				st.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).Return(storage.ObjectInfo{}, errors.New("bucket gone"))
			},
			wantErrText: "upload snapshot: bucket gone",
		},
		{
			name: "snapshot record failure rolls back object",
			req:  ScrapeRequest{URL: listURL},
			setupMocks: func(sc *scraperMocks.MockScraper, st *storeMocks.MockStorage, snaps *repoMocks.MockSnapshotRepository, vs *repoMocks.MockVehicleRepository) {
				sc.On("Scrape", ctx, listURL, false).Return(scrapedResult(), nil)
				st.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).Return(storage.ObjectInfo{Key: "k"}, nil)
				snaps.On("Create", ctx, mock.Anything).Return(nil, errors.New("db error"))
				st.On("Delete", ctx, mock.AnythingOfType("string")).Return(nil)
			},
			wantErrText: "db save failed: db error",
		},
		{
			name: "snapshot rollback failure",
			req:  ScrapeRequest{URL: listURL},
			setupMocks: func(sc *scraperMocks.MockScraper, st *storeMocks.MockStorage, snaps *repoMocks.MockSnapshotRepository, vs *repoMocks.MockVehicleRepository) {
				sc.On("Scrape", ctx, listURL, false).Return(scrapedResult(), nil)
				st.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).Return(storage.ObjectInfo{Key: "k"}, nil)
				snaps.On("Create", ctx, mock.Anything).Return(nil, errors.New("db error"))
				st.On("Delete", ctx, mock.Anything).Return(errors.New("delete error"))
			},
			wantErrText: "db save failed: db error; rollback delete failed: delete error",
		},
		{
			name:    "upsert failure",
			req:     ScrapeRequest{URL: listURL},
			noStore: true,
			setupMocks: func(sc *scraperMocks.MockScraper, st *storeMocks.MockStorage, snaps *repoMocks.MockSnapshotRepository, vs *repoMocks.MockVehicleRepository) {
				sc.On("Scrape", ctx, listURL, false).Return(scrapedResult(), nil)
				vs.On("Upsert", ctx, mock.Anything).Return(errors.New("deadlock"))
			},
			wantErrText: "save vehicles: deadlock",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := new(scraperMocks.MockScraper)
			st := new(storeMocks.MockStorage)
			snaps := new(repoMocks.MockSnapshotRepository)
			vs := new(repoMocks.MockVehicleRepository)
			tt.setupMocks(sc, st, snaps, vs)

			var store storage.Storage = st
			if tt.noStore {
				store = nil
			}
			svc := NewScrapeService(sc, store, snaps, vs, ScrapeOptions{AllowedHosts: tt.allowed})

			res, err := svc.Scrape(ctx, tt.req)

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, res)
			case tt.wantErrText != "":
				assert.EqualError(t, err, tt.wantErrText)
				assert.Nil(t, res)
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.wantCount, res.VehicleCount)
				assert.Len(t, res.Vehicles, tt.wantCount)
				assert.Equal(t, listURL, res.SourceURL)
				if tt.wantSnap {
					assert.Equal(t, "snap-1", res.SnapshotID)
				} else {
					assert.Empty(t, res.SnapshotID)
				}
			}

			sc.AssertExpectations(t)
			st.AssertExpectations(t)
			snaps.AssertExpectations(t)
			vs.AssertExpectations(t)
		})
	}
}

func TestScrapeService_Metrics(t *testing.T) {
	ctx := context.Background()
	reg := prometheus.NewRegistry()
	m, err := metrics.NewScrapeMetrics(reg)
	require.NoError(t, err)

	sc := new(scraperMocks.MockScraper)
	vs := new(repoMocks.MockVehicleRepository)
	sc.On("Scrape", ctx, listURL, false).Return(scrapedResult(), nil).Once()
	vs.On("Upsert", ctx, mock.Anything).Return(nil).Once()

	svc := NewScrapeService(sc, nil, new(repoMocks.MockSnapshotRepository), vs, ScrapeOptions{Metrics: m})

	_, err = svc.Scrape(ctx, ScrapeRequest{URL: listURL})
	require.NoError(t, err)
	_, err = svc.Scrape(ctx, ScrapeRequest{URL: "not a url"})
	require.ErrorIs(t, err, ErrInvalidURL)

	assert.Equal(t, 1, testutil.CollectAndCount(reg, "scraper_scrape_duration_seconds"))
	assert.Equal(t, 2, testutil.CollectAndCount(reg, "scraper_scrapes_total"))
}

func TestOutcomeOf(t *testing.T) {
	assert.Equal(t, metrics.OutcomeSuccess, outcomeOf(nil))
	assert.Equal(t, metrics.OutcomeInvalid, outcomeOf(ErrHostNotAllowed))
	assert.Equal(t, metrics.OutcomeNoVehicles, outcomeOf(ErrNoVehicles))
	assert.Equal(t, metrics.OutcomeUpstreamError, outcomeOf(errors.Join(errors.New("x"), scraper.ErrNotHTML)))
	assert.Equal(t, metrics.OutcomeError, outcomeOf(errors.New("boom")))
}
