package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nissanscraper/internal/model"
	"nissanscraper/internal/repository"
)

var vehicleRowColumns = []string{
	"id", "model_designation", "year", "region", "steering", "transmission_type", "series", "engine", "class", "body",
	"additional_body", "additional_engine", "additional_area", "additional_grade", "additional_transmission",
	"specs", "source_url", "detail_url", "snapshot_id", "scraped_at",
}

func vehicleRow(rows *sqlmock.Rows, id, modelName, year string, specs []byte, snapshotID any) *sqlmock.Rows {
	return rows.AddRow(id, modelName, year, "Europe", "Right hand", "Automatic", "B13", "GA16DE TYPE ENGINE",
		"TYPE A GRADE", "COUPE T/BAR", "COUPE T/BAR(C/T)", "GA16DE TYPE ENGINE(GA16DE)", "EUR/A(EUR/A)",
		"TYPE A GRADE(T/A)", "AUTOMATIC TRANSMISSION(AT)", specs, "https://catalog.example.com/list", "", snapshotID, time.Now())
}

func TestVehiclePostgres_Upsert(t *testing.T) {
	ctx := context.Background()
	vehicles := []model.Vehicle{
		{ID: "v1", ModelDesignation: "100nx b13", Year: "1994", SourceURL: "https://a", SnapshotID: "s1", ScrapedAt: time.Now()},
		{ID: "v2", ModelDesignation: "100nx b13", Year: "1995", SourceURL: "https://a", Specs: map[string]string{"Doors": "3"}},
	}

	t.Run("commits all rows", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		prep := mock.ExpectPrepare("INSERT INTO vehicles")
		prep.ExpectExec().
			WithArgs("v1", "100nx b13", "1994", "", "", "", "", "", "", "", "", "", "", "", "", nil, "https://a", "", "s1", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
		prep.ExpectExec().
			WithArgs("v2", "100nx b13", "1995", "", "", "", "", "", "", "", "", "", "", "", "", []byte(`{"Doors":"3"}`), "https://a", "", nil, sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err = NewVehiclePostgres(db).Upsert(ctx, vehicles)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("conflict takes source of latest scrape", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		moved := []model.Vehicle{{ID: "v1", ModelDesignation: "100nx b13", Year: "1994", SourceURL: "https://b", SnapshotID: "s2"}}

		mock.ExpectBegin()
		prep := mock.ExpectPrepare(`ON CONFLICT \(id\) DO UPDATE SET .*source_url = EXCLUDED\.source_url,.*snapshot_id = COALESCE\(EXCLUDED\.snapshot_id`)
		prep.ExpectExec().
			WithArgs("v1", "100nx b13", "1994", "", "", "", "", "", "", "", "", "", "", "", "", nil, "https://b", "", "s2", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err = NewVehiclePostgres(db).Upsert(ctx, moved)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back on failure", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		prep := mock.ExpectPrepare("INSERT INTO vehicles")
		prep.ExpectExec().WillReturnError(errors.New("constraint violation"))
		mock.ExpectRollback()

		err = NewVehiclePostgres(db).Upsert(ctx, vehicles)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "upsert vehicle v1")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty input is a no-op", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		assert.NoError(t, NewVehiclePostgres(db).Upsert(ctx, nil))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestVehiclePostgres_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewVehiclePostgres(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		rows := vehicleRow(sqlmock.NewRows(vehicleRowColumns), "v1", "100nx b13", "1994", []byte(`{"Doors":"3"}`), "s1")
		mock.ExpectQuery("SELECT (.+) FROM vehicles WHERE id = ?").
			WithArgs("v1").
			WillReturnRows(rows)

		v, err := repo.FindByID(ctx, "v1")

		require.NoError(t, err)
		assert.Equal(t, "v1", v.ID)
		assert.Equal(t, "100nx b13", v.ModelDesignation)
		assert.Equal(t, map[string]string{"Doors": "3"}, v.Specs)
		assert.Equal(t, "s1", v.SnapshotID)
	})

	t.Run("null specs and snapshot", func(t *testing.T) {
		rows := vehicleRow(sqlmock.NewRows(vehicleRowColumns), "v2", "100nx b13", "1995", nil, nil)
		mock.ExpectQuery("SELECT (.+) FROM vehicles WHERE id = ?").
			WithArgs("v2").
			WillReturnRows(rows)

		v, err := repo.FindByID(ctx, "v2")

		require.NoError(t, err)
		assert.Nil(t, v.Specs)
		assert.Empty(t, v.SnapshotID)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM vehicles WHERE id = ?").
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		v, err := repo.FindByID(ctx, "missing")

		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.Nil(t, v)
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVehiclePostgres_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewVehiclePostgres(db)
	ctx := context.Background()

	t.Run("with filters", func(t *testing.T) {
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM vehicles WHERE model_designation ILIKE \$1 AND year = \$2`).
			WithArgs(`%100nx\_b%`, "1994").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		rows := vehicleRow(sqlmock.NewRows(vehicleRowColumns), "v1", "100nx_b13", "1994", nil, nil)
		mock.ExpectQuery(`SELECT (.+) FROM vehicles WHERE (.+) ORDER BY model_designation, year, id LIMIT \$3 OFFSET \$4`).
			WithArgs(`%100nx\_b%`, "1994", 10, 0).
			WillReturnRows(rows)

		res, err := repo.List(ctx, repository.VehicleFilter{Model: "100nx_b", Year: "1994"}, repository.PageQuery{Limit: 10})

		require.NoError(t, err)
		assert.Equal(t, 1, res.Total)
		assert.Len(t, res.Items, 1)
	})

	t.Run("without filters", func(t *testing.T) {
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM vehicles$`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectQuery(`SELECT (.+) FROM vehicles ORDER BY model_designation, year, id LIMIT \$1 OFFSET \$2`).
			WithArgs(5, 20).
			WillReturnRows(sqlmock.NewRows(vehicleRowColumns))

		res, err := repo.List(ctx, repository.VehicleFilter{}, repository.PageQuery{Limit: 5, Offset: 20})

		require.NoError(t, err)
		assert.Equal(t, 0, res.Total)
		assert.NotNil(t, res.Items)
		assert.Empty(t, res.Items)
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVehiclePostgres_ListModels(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT model_designation, COUNT(.+) FROM vehicles GROUP BY model_designation").
		WillReturnRows(sqlmock.NewRows([]string{"model_designation", "count"}).
			AddRow("100nx b13", 4).
			AddRow("200sx s14", 2))

	models, err := NewVehiclePostgres(db).ListModels(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []model.ModelSummary{{Model: "100nx b13", Count: 4}, {Model: "200sx s14", Count: 2}}, models)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `50\%\_off\\`, escapeLike(`50%_off\`))
}
