package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"nissanscraper/internal/model"
	"nissanscraper/internal/repository"
)

var snapshotRowColumns = []string{"id", "source_url", "storage_path", "size", "content_type", "vehicle_count", "created_at"}

func TestSnapshotPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewSnapshotPostgres(db)
	ctx := context.Background()

	now := time.Now().UTC()
	snap := &model.Snapshot{
		ID:           "snap-uuid",
		SourceURL:    "https://catalog.example.com/list",
		StoragePath:  "snapshots/2026/10/snap-uuid.html",
		Size:         2048,
		ContentType:  "text/html; charset=utf-8",
		VehicleCount: 3,
		CreatedAt:    now,
	}

	rows := sqlmock.NewRows(snapshotRowColumns).
		AddRow(snap.ID, snap.SourceURL, snap.StoragePath, snap.Size, snap.ContentType, snap.VehicleCount, snap.CreatedAt)

	mock.ExpectQuery("INSERT INTO scrape_snapshots").
		WithArgs(snap.ID, snap.SourceURL, snap.StoragePath, snap.Size, snap.ContentType, snap.VehicleCount, snap.CreatedAt).
		WillReturnRows(rows)

	result, err := repo.Create(ctx, snap)

	assert.NoError(t, err)
	assert.Equal(t, snap, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSnapshotPostgres_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewSnapshotPostgres(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		rows := sqlmock.NewRows(snapshotRowColumns).
			AddRow("snap-id", "https://a", "snapshots/a.html", 100, "text/html", 2, time.Now())

		mock.ExpectQuery("SELECT (.+) FROM scrape_snapshots WHERE id = ?").
			WithArgs("snap-id").
			WillReturnRows(rows)

		s, err := repo.FindByID(ctx, "snap-id")

		assert.NoError(t, err)
		assert.Equal(t, "snap-id", s.ID)
		assert.Equal(t, 2, s.VehicleCount)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM scrape_snapshots WHERE id = ?").
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		s, err := repo.FindByID(ctx, "missing")

		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.Nil(t, s)
	})
}

func TestSnapshotPostgres_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM scrape_snapshots").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	rows := sqlmock.NewRows(snapshotRowColumns).
		AddRow("snap-id", "https://a", "snapshots/a.html", 100, "text/html", 2, time.Now())

	mock.ExpectQuery("SELECT (.+) FROM scrape_snapshots ORDER BY").
		WithArgs(10, 0).
		WillReturnRows(rows)

	res, err := NewSnapshotPostgres(db).List(context.Background(), repository.PageQuery{Limit: 10, Offset: 0})

	assert.NoError(t, err)
	assert.Equal(t, 1, res.Total)
	assert.Len(t, res.Items, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSnapshotPostgres_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	mock.ExpectExec("DELETE FROM scrape_snapshots WHERE id = ?").
		WithArgs("snap-id").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = NewSnapshotPostgres(db).Delete(context.Background(), "snap-id")

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
