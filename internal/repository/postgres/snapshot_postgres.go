package postgres

import (
	"context"
	"database/sql"

	"nissanscraper/internal/model"
	"nissanscraper/internal/repository"
)

// SnapshotPostgres is a PostgreSQL implementation of repository.SnapshotRepository.
type SnapshotPostgres struct {
	db *sql.DB
}

// NewSnapshotPostgres creates a new SnapshotPostgres repository.
func NewSnapshotPostgres(db *sql.DB) *SnapshotPostgres {
	return &SnapshotPostgres{db: db}
}

var _ repository.SnapshotRepository = (*SnapshotPostgres)(nil)

const snapshotColumns = `id, source_url, storage_path, size, content_type, vehicle_count, created_at`

// Create inserts a new snapshot row and returns the stored record.
func (r *SnapshotPostgres) Create(ctx context.Context, s *model.Snapshot) (*model.Snapshot, error) {
	const q = `
		INSERT INTO scrape_snapshots (` + snapshotColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + snapshotColumns
	row := r.db.QueryRowContext(ctx, q,
		s.ID,
		s.SourceURL,
		s.StoragePath,
		s.Size,
		s.ContentType,
		s.VehicleCount,
		s.CreatedAt,
	)
	out, err := scanSnapshot(row)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// FindByID fetches a single snapshot by its ID.
func (r *SnapshotPostgres) FindByID(ctx context.Context, id string) (*model.Snapshot, error) {
	const q = `SELECT ` + snapshotColumns + ` FROM scrape_snapshots WHERE id = $1`
	return scanSnapshot(r.db.QueryRowContext(ctx, q, id))
}

// List returns snapshots newest first using LIMIT/OFFSET pagination and a total count.
func (r *SnapshotPostgres) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.Snapshot], error) {
	const qCount = `SELECT COUNT(*) FROM scrape_snapshots`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount).Scan(&total); err != nil {
		return nil, err
	}

	const qList = `
		SELECT ` + snapshotColumns + `
		FROM scrape_snapshots
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.QueryContext(ctx, qList, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Snapshot, 0)
	for rows.Next() {
		s, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Snapshot]{
		Items: items,
		Total: total,
	}, nil
}

// Delete removes a snapshot by ID. It does not return an error if the row does not exist.
func (r *SnapshotPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM scrape_snapshots WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(row rowScanner) (*model.Snapshot, error) {
	var s model.Snapshot
	if err := row.Scan(
		&s.ID,
		&s.SourceURL,
		&s.StoragePath,
		&s.Size,
		&s.ContentType,
		&s.VehicleCount,
		&s.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &s, nil
}
