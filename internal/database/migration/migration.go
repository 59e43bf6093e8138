package migration

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"
)

// sentinelTable is created by the schema; its presence means the schema is installed.
const sentinelTable = "public.vehicles"

// logOutput receives one JSON event per line.
var logOutput io.Writer = os.Stdout

type migrationStep struct {
	Name string
	SQL  string
}

var steps = []migrationStep{
	{
		Name: "create_table_scrape_snapshots",
		SQL: `CREATE TABLE IF NOT EXISTS scrape_snapshots (
  id            UUID        PRIMARY KEY,
  source_url    TEXT        NOT NULL,
  storage_path  TEXT        NOT NULL UNIQUE,
  size          BIGINT      NOT NULL CHECK (size >= 0),
  content_type  TEXT        NOT NULL,
  vehicle_count INTEGER     NOT NULL DEFAULT 0 CHECK (vehicle_count >= 0),
  created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_scrape_snapshots_created_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_scrape_snapshots_created_at ON scrape_snapshots (created_at);`,
	},
	{
		Name: "create_table_vehicles",
		SQL: `CREATE TABLE IF NOT EXISTS vehicles (
  id                      UUID        PRIMARY KEY,
  model_designation       TEXT        NOT NULL,
  year                    TEXT        NOT NULL DEFAULT '',
  region                  TEXT        NOT NULL DEFAULT '',
  steering                TEXT        NOT NULL DEFAULT '',
  transmission_type       TEXT        NOT NULL DEFAULT '',
  series                  TEXT        NOT NULL DEFAULT '',
  engine                  TEXT        NOT NULL DEFAULT '',
  class                   TEXT        NOT NULL DEFAULT '',
  body                    TEXT        NOT NULL DEFAULT '',
  additional_body         TEXT        NOT NULL DEFAULT '',
  additional_engine       TEXT        NOT NULL DEFAULT '',
  additional_area         TEXT        NOT NULL DEFAULT '',
  additional_grade        TEXT        NOT NULL DEFAULT '',
  additional_transmission TEXT        NOT NULL DEFAULT '',
  specs                   JSONB,
  source_url              TEXT        NOT NULL,
  detail_url              TEXT        NOT NULL DEFAULT '',
  snapshot_id             UUID        REFERENCES scrape_snapshots (id) ON DELETE SET NULL,
  scraped_at              TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_vehicles_model_designation",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_vehicles_model_designation ON vehicles (lower(model_designation));`,
	},
	{
		Name: "create_index_vehicles_year",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_vehicles_year ON vehicles (year);`,
	},
}

// EnsureMigrated installs the catalog schema unless the vehicles table already
// exists. Every step is idempotent, so a partially applied schema is completed
// on the next run.
func EnsureMigrated(ctx context.Context, db *sql.DB, loc *time.Location, dbHost string) error {
	ev := &eventLog{w: logOutput, loc: loc, host: dbHost, start: time.Now()}
	ev.emit("db_migration_check", "starting", nil)

	var exists bool
	if err := db.QueryRowContext(ctx, "SELECT to_regclass($1) IS NOT NULL", sentinelTable).Scan(&exists); err != nil {
		err = fmt.Errorf("failed to check sentinel table: %w", err)
		ev.fail("", err, time.Time{})
		return err
	}
	if exists {
		ev.emit("db_migration_skip", "success", map[string]any{"msg": "schema already exists, skipping migration"})
		return nil
	}

	ev.emit("db_migration_start", "in_progress", nil)
	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			ev.fail(step.Name, err, stepStart)
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}
		ev.emit("db_migration_step", "success", map[string]any{
			"migration_step":   step.Name,
			"step_duration_ms": time.Since(stepStart).Milliseconds(),
		})
	}
	ev.emit("db_migration_success", "success", nil)
	return nil
}

type eventLog struct {
	w     io.Writer
	loc   *time.Location
	host  string
	start time.Time
}

func (l *eventLog) fail(step string, err error, stepStart time.Time) {
	fields := map[string]any{"error_message": err.Error()}
	if step != "" {
		fields["migration_step"] = step
		fields["step_duration_ms"] = time.Since(stepStart).Milliseconds()
	}
	l.emit("db_migration_failed", "error", fields)
}

func (l *eventLog) emit(event, status string, fields map[string]any) {
	entry := map[string]any{
		"ts":          time.Now().In(l.loc).Format(time.RFC3339Nano),
		"level":       "info",
		"component":   "database",
		"event":       event,
		"status":      status,
		"db_host":     l.host,
		"duration_ms": time.Since(l.start).Milliseconds(),
	}
	if status == "error" {
		entry["level"] = "error"
	}
	for k, v := range fields {
		entry[k] = v
	}
	b, err := json.Marshal(entry)
	if err != nil {
		return
	}
	_, _ = l.w.Write(append(b, '\n'))
}
