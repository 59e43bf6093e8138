package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"nissanscraper/internal/model"
	"nissanscraper/internal/repository"
)

// VehiclePostgres is a PostgreSQL implementation of repository.VehicleRepository.
type VehiclePostgres struct {
	db *sql.DB
}

// NewVehiclePostgres creates a new VehiclePostgres repository.
func NewVehiclePostgres(db *sql.DB) *VehiclePostgres {
	return &VehiclePostgres{db: db}
}

var _ repository.VehicleRepository = (*VehiclePostgres)(nil)

const vehicleColumns = `id, model_designation, year, region, steering, transmission_type, series, engine, class, body,
		additional_body, additional_engine, additional_area, additional_grade, additional_transmission,
		specs, source_url, detail_url, snapshot_id, scraped_at`

const upsertVehicleSQL = `
		INSERT INTO vehicles (` + vehicleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		ON CONFLICT (id) DO UPDATE SET
			specs = COALESCE(EXCLUDED.specs, vehicles.specs),
			source_url = EXCLUDED.source_url,
			detail_url = EXCLUDED.detail_url,
			snapshot_id = COALESCE(EXCLUDED.snapshot_id, vehicles.snapshot_id),
			scraped_at = EXCLUDED.scraped_at
	`

// Upsert writes all vehicles in a single transaction.
// Specs from an earlier scrape survive a later scrape that did not collect them.
func (r *VehiclePostgres) Upsert(ctx context.Context, vehicles []model.Vehicle) (err error) {
	if len(vehicles) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, upsertVehicleSQL)
	if err != nil {
		return fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	for i := range vehicles {
		v := &vehicles[i]
		specs, err := marshalSpecs(v.Specs)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx,
			v.ID,
			v.ModelDesignation,
			v.Year,
			v.Region,
			v.Steering,
			v.TransmissionType,
			v.Series,
			v.Engine,
			v.Class,
			v.Body,
			v.AdditionalBody,
			v.AdditionalEngine,
			v.AdditionalArea,
			v.AdditionalGrade,
			v.AdditionalTransmission,
			specs,
			v.SourceURL,
			v.DetailURL,
			nullString(v.SnapshotID),
			v.ScrapedAt,
		); err != nil {
			return fmt.Errorf("upsert vehicle %s: %w", v.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// FindByID fetches a single vehicle by its ID.
func (r *VehiclePostgres) FindByID(ctx context.Context, id string) (*model.Vehicle, error) {
	q := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE id = $1`
	return scanVehicle(r.db.QueryRowContext(ctx, q, id))
}

// List returns vehicles matching f ordered by model, year and id.
func (r *VehiclePostgres) List(ctx context.Context, f repository.VehicleFilter, pq repository.PageQuery) (*repository.PageResult[model.Vehicle], error) {
	where, args := vehicleWhere(f)

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM vehicles`+where, args...).Scan(&total); err != nil {
		return nil, err
	}

	qList := fmt.Sprintf(`SELECT %s FROM vehicles%s ORDER BY model_designation, year, id LIMIT $%d OFFSET $%d`,
		vehicleColumns, where, len(args)+1, len(args)+2)
	rows, err := r.db.QueryContext(ctx, qList, append(args, pq.Limit, pq.Offset)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Vehicle, 0)
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Vehicle]{Items: items, Total: total}, nil
}

// ListModels groups stored vehicles by model designation.
func (r *VehiclePostgres) ListModels(ctx context.Context) ([]model.ModelSummary, error) {
	const q = `
		SELECT model_designation, COUNT(*)
		FROM vehicles
		GROUP BY model_designation
		ORDER BY model_designation
	`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.ModelSummary, 0)
	for rows.Next() {
		var m model.ModelSummary
		if err := rows.Scan(&m.Model, &m.Count); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func vehicleWhere(f repository.VehicleFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if f.Model != "" {
		args = append(args, "%"+escapeLike(f.Model)+"%")
		conds = append(conds, fmt.Sprintf("model_designation ILIKE $%d", len(args)))
	}
	if f.Year != "" {
		args = append(args, f.Year)
		conds = append(conds, fmt.Sprintf("year = $%d", len(args)))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func scanVehicle(row rowScanner) (*model.Vehicle, error) {
	var (
		v          model.Vehicle
		specs      []byte
		snapshotID sql.NullString
	)
	if err := row.Scan(
		&v.ID,
		&v.ModelDesignation,
		&v.Year,
		&v.Region,
		&v.Steering,
		&v.TransmissionType,
		&v.Series,
		&v.Engine,
		&v.Class,
		&v.Body,
		&v.AdditionalBody,
		&v.AdditionalEngine,
		&v.AdditionalArea,
		&v.AdditionalGrade,
		&v.AdditionalTransmission,
		&specs,
		&v.SourceURL,
		&v.DetailURL,
		&snapshotID,
		&v.ScrapedAt,
	); err != nil {
		return nil, err
	}
	if len(specs) > 0 {
		if err := json.Unmarshal(specs, &v.Specs); err != nil {
			return nil, fmt.Errorf("decode specs: %w", err)
		}
	}
	v.SnapshotID = snapshotID.String
	return &v, nil
}

func marshalSpecs(specs map[string]string) (any, error) {
	if len(specs) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(specs)
	if err != nil {
		return nil, fmt.Errorf("encode specs: %w", err)
	}
	return b, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
