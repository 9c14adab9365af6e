package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq" // postgres driver
)

// NewDB opens a PostgreSQL connection pool and verifies connectivity.
func NewDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// EnsureSchema creates the records table if it does not exist.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS records (
			record_id    TEXT PRIMARY KEY,
			record_type  TEXT NOT NULL,
			congress     TEXT NOT NULL,
			number       TEXT NOT NULL,
			status       TEXT NOT NULL,
			status_at    TEXT NOT NULL,
			updated_at   TEXT NOT NULL,
			processed_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}
