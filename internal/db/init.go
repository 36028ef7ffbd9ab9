// Package db opens the PostgreSQL database backing the postgres storage backend.
package db

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

// SlotsTable holds one row per storage slot.
const SlotsTable = "storage_slots"

const schema = `
CREATE TABLE IF NOT EXISTS storage_slots (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`

// InitPostgres opens dsn, checks the connection and creates the slots table.
func InitPostgres(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return db, nil
}
