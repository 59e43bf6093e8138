package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"time"

	"nissanscraper/internal/model"
	"nissanscraper/internal/repository"
	"nissanscraper/internal/storage"
)

// presignExpiry bounds how long a snapshot download link stays valid.
const presignExpiry = 15 * time.Minute

// SnapshotListResult is the service-level DTO for paginated snapshots.
type SnapshotListResult struct {
	Items []model.Snapshot `json:"data"`
	Total int              `json:"total"`
}

// SnapshotDetail is a snapshot with a time-limited download link.
type SnapshotDetail struct {
	model.Snapshot
	DownloadURL string `json:"download_url,omitempty"`
}

// SnapshotService exposes archived pages.
type SnapshotService interface {
	List(ctx context.Context, limit, offset int) (*SnapshotListResult, error)
	// Get returns snapshot metadata; DownloadURL is empty when storage is disabled.
	Get(ctx context.Context, id string) (*SnapshotDetail, error)
	// Open streams the archived page. The caller closes the reader.
	Open(ctx context.Context, id string) (io.ReadCloser, *model.Snapshot, error)
	// Delete removes the archived object, then the record. Vehicles keep
	// their rows with snapshot_id cleared.
	Delete(ctx context.Context, id string) error
}

type snapshotService struct {
	store storage.Storage
	repo  repository.SnapshotRepository
}

// NewSnapshotService constructs a new SnapshotService. store may be nil.
func NewSnapshotService(store storage.Storage, repo repository.SnapshotRepository) SnapshotService {
	return &snapshotService{store: store, repo: repo}
}

func (s *snapshotService) List(ctx context.Context, limit, offset int) (*SnapshotListResult, error) {
	limit, offset = normalizePage(limit, offset)
	res, err := s.repo.List(ctx, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &SnapshotListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *snapshotService) Get(ctx context.Context, id string) (*SnapshotDetail, error) {
	snap, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	out := &SnapshotDetail{Snapshot: *snap}
	if s.store == nil {
		return out, nil
	}
	link, err := s.store.PresignGet(ctx, snap.StoragePath, presignExpiry)
	if err != nil {
		return nil, fmt.Errorf("presign snapshot: %w", err)
	}
	out.DownloadURL = link
	return out, nil
}

func (s *snapshotService) Open(ctx context.Context, id string) (io.ReadCloser, *model.Snapshot, error) {
	if s.store == nil {
		return nil, nil, ErrStorageDisabled
	}
	snap, err := s.find(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	rc, _, err := s.store.Get(ctx, snap.StoragePath)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("open snapshot: %w", err)
	}
	return rc, snap, nil
}

func (s *snapshotService) Delete(ctx context.Context, id string) error {
	if s.store == nil {
		return ErrStorageDisabled
	}
	snap, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	// the record is kept when the object delete fails
	if err := s.store.Delete(ctx, snap.StoragePath); err != nil && !errors.Is(err, storage.ErrObjectNotFound) {
		return fmt.Errorf("delete snapshot object: %w", err)
	}
	if err := s.repo.Delete(ctx, snap.ID); err != nil {
		return fmt.Errorf("delete snapshot record: %w", err)
	}
	return nil
}

func (s *snapshotService) find(ctx context.Context, id string) (*model.Snapshot, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	snap, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return snap, nil
}
