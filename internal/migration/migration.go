package migration

import (
	"context"

	"godescribe/internal/errors"

	"github.com/jmoiron/sqlx"
)

// Migrator defines the interface for database migration operations
type Migrator interface {
	Run(ctx context.Context, db *sqlx.DB) error
	Version() string
}

// MigrationRunner handles database schema migrations
type MigrationRunner struct {
	version string
	steps   []step
}

type step struct {
	name string
	sql  string
}

// NewRunner creates a new migration runner
func NewRunner() *MigrationRunner {
	return &MigrationRunner{
		version: "1.0.0",
		steps: []step{
			{name: "create describe_reports table", sql: createReportsTable},
			{name: "create describe_reports indexes", sql: createReportIndexes},
		},
	}
}

// Version returns the migration version
func (r *MigrationRunner) Version() string {
	return r.version
}

// Statements returns the SQL of every step in run order
func (r *MigrationRunner) Statements() []string {
	out := make([]string, len(r.steps))
	for i, s := range r.steps {
		out[i] = s.sql
	}
	return out
}

// Run executes all database migrations in order. Every step is idempotent.
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB) error {
	for _, s := range r.steps {
		if _, err := db.ExecContext(ctx, s.sql); err != nil {
			return errors.DatabaseError("failed to "+s.name, err)
		}
	}
	return nil
}

const createReportsTable = `
	CREATE TABLE IF NOT EXISTS describe_reports (
		id UUID PRIMARY KEY,
		fingerprint TEXT NOT NULL,
		label_column TEXT NOT NULL DEFAULT '',
		column_count INTEGER NOT NULL DEFAULT 0,
		payload JSONB NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)
`

const createReportIndexes = `
	CREATE INDEX IF NOT EXISTS idx_describe_reports_fingerprint
		ON describe_reports (fingerprint, label_column, created_at DESC)
`
