package repository

import (
	"context"

	"nissanscraper/internal/model"
)

// SnapshotRepository persists metadata of archived pages.
type SnapshotRepository interface {
	Create(ctx context.Context, s *model.Snapshot) (*model.Snapshot, error)
	FindByID(ctx context.Context, id string) (*model.Snapshot, error)
	List(ctx context.Context, pq PageQuery) (*PageResult[model.Snapshot], error)
	// Delete removes a snapshot row; a missing row is not an error.
	Delete(ctx context.Context, id string) error
}
