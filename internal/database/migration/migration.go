package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

type migrationStep struct {
	Name string
	SQL  string
}

// Foreign keys carry no ON DELETE CASCADE: the services remove dependent
// assignments explicitly inside the same transaction as the parent delete.
var steps = []migrationStep{
	{
		Name: "create_table_patients",
		SQL: `CREATE TABLE IF NOT EXISTS patients (
  id            BIGSERIAL    PRIMARY KEY,
  name          VARCHAR(100) NOT NULL,
  date_of_birth DATE         NOT NULL,
  created_at    TIMESTAMPTZ  NOT NULL DEFAULT now(),
  updated_at    TIMESTAMPTZ  NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_medications",
		SQL: `CREATE TABLE IF NOT EXISTS medications (
  id         BIGSERIAL    PRIMARY KEY,
  name       VARCHAR(100) NOT NULL,
  dosage     VARCHAR(50)  NOT NULL,
  frequency  VARCHAR(50)  NOT NULL,
  created_at TIMESTAMPTZ  NOT NULL DEFAULT now(),
  updated_at TIMESTAMPTZ  NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_assignments",
		SQL: `CREATE TABLE IF NOT EXISTS assignments (
  id            BIGSERIAL   PRIMARY KEY,
  start_date    DATE        NOT NULL,
  days          INTEGER     NOT NULL CHECK (days BETWEEN 1 AND 365),
  patient_id    BIGINT      NOT NULL REFERENCES patients (id),
  medication_id BIGINT      NOT NULL REFERENCES medications (id),
  created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_assignments_patient_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_assignments_patient_id ON assignments (patient_id);`,
	},
	{
		Name: "create_index_assignments_medication_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_assignments_medication_id ON assignments (medication_id);`,
	},
	{
		Name: "create_index_assignments_created_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_assignments_created_at ON assignments (created_at);`,
	},
}

// EnsureMigrated checks if the 'assignments' table exists and creates the schema if it doesn't.
func EnsureMigrated(ctx context.Context, db *sql.DB, logger zerolog.Logger, dbHost string) error {
	start := time.Now()
	log := logger.With().Str("component", "database").Str("db_host", dbHost).Logger()

	log.Info().Str("event", "db_migration_check").Str("status", "starting").Msg("checking schema")

	var exists bool
	query := "SELECT to_regclass('public.assignments') IS NOT NULL"
	if err := db.QueryRowContext(ctx, query).Scan(&exists); err != nil {
		log.Error().
			Err(err).
			Str("event", "db_migration_failed").
			Str("status", "error").
			Int64("duration_ms", time.Since(start).Milliseconds()).
			Msg("failed to check sentinel table")
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		log.Info().
			Str("event", "db_migration_skip").
			Str("status", "success").
			Int64("duration_ms", time.Since(start).Milliseconds()).
			Msg("schema already exists, skipping migration")
		return nil
	}

	log.Info().Str("event", "db_migration_start").Str("status", "in_progress").Msg("applying schema")

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.Error().
				Err(err).
				Str("event", "db_migration_failed").
				Str("status", "error").
				Str("migration_step", step.Name).
				Int64("duration_ms", time.Since(start).Milliseconds()).
				Int64("step_duration_ms", time.Since(stepStart).Milliseconds()).
				Msg("migration step failed")
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		log.Info().
			Str("event", "db_migration_step").
			Str("status", "success").
			Str("migration_step", step.Name).
			Int64("step_duration_ms", time.Since(stepStart).Milliseconds()).
			Msg("migration step applied")
	}

	log.Info().
		Str("event", "db_migration_success").
		Str("status", "success").
		Int("steps", len(steps)).
		Int64("duration_ms", time.Since(start).Milliseconds()).
		Msg("schema created")

	return nil
}
