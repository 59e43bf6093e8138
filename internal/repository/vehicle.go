package repository

import (
	"context"

	"nissanscraper/internal/model"
)

// VehicleFilter narrows vehicle listings. Zero values match everything.
type VehicleFilter struct {
	// Model matches model designations case-insensitively as a substring.
	Model string
	// Year matches exactly.
	Year string
}

// VehicleRepository defines data access for scraped vehicles.
type VehicleRepository interface {
	// Upsert stores vehicles in one transaction, replacing rows with the same ID.
	Upsert(ctx context.Context, vehicles []model.Vehicle) error

	// FindByID returns a vehicle by its ID or sql.ErrNoRows.
	FindByID(ctx context.Context, id string) (*model.Vehicle, error)

	// List returns a filtered page of vehicles and the total matching count.
	List(ctx context.Context, f VehicleFilter, pq PageQuery) (*PageResult[model.Vehicle], error)

	// ListModels returns each distinct model designation with its vehicle count.
	ListModels(ctx context.Context) ([]model.ModelSummary, error)
}
