package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"nissanscraper/internal/model"
	"nissanscraper/internal/repository"
)

// VehicleQuery filters and paginates vehicle listings.
type VehicleQuery struct {
	Model  string
	Year   string
	Limit  int
	Offset int
}

// VehicleListResult is the service-level DTO for paginated vehicles.
type VehicleListResult struct {
	Items []model.Vehicle `json:"data"`
	Total int             `json:"total"`
}

// VehicleService defines read use cases over stored vehicles.
type VehicleService interface {
	// List returns vehicles matching q. Limit defaults to 10 and is capped at 100.
	List(ctx context.Context, q VehicleQuery) (*VehicleListResult, error)

	// Get returns a single vehicle by its ID.
	Get(ctx context.Context, id string) (*model.Vehicle, error)

	// Models returns the distinct model designations with vehicle counts.
	Models(ctx context.Context) ([]model.ModelSummary, error)
}

type vehicleService struct {
	repo repository.VehicleRepository
}

// NewVehicleService constructs a new VehicleService.
func NewVehicleService(repo repository.VehicleRepository) VehicleService {
	return &vehicleService{repo: repo}
}

func (s *vehicleService) List(ctx context.Context, q VehicleQuery) (*VehicleListResult, error) {
	year := strings.TrimSpace(q.Year)
	if year != "" && !isYear(year) {
		return nil, ErrInvalidYear
	}
	limit, offset := normalizePage(q.Limit, q.Offset)

	res, err := s.repo.List(ctx,
		repository.VehicleFilter{Model: strings.TrimSpace(q.Model), Year: year},
		repository.PageQuery{Limit: limit, Offset: offset},
	)
	if err != nil {
		return nil, err
	}
	return &VehicleListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *vehicleService) Get(ctx context.Context, id string) (*model.Vehicle, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	v, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return v, nil
}

func (s *vehicleService) Models(ctx context.Context) ([]model.ModelSummary, error) {
	return s.repo.ListModels(ctx)
}

func isYear(s string) bool {
	if len(s) != 4 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
