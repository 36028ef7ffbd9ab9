package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/atinyakov/accountkeeper/internal/db"
)

// PostgresStore keeps slots as rows of a key/value table.
type PostgresStore struct {
	// DB is the database handle for executing queries.
	DB *sql.DB

	getQuery string
	setQuery string
}

// NewPostgresStore creates a PostgresStore over the slots table.
// conn must be a valid *sql.DB whose schema was created by db.InitPostgres.
func NewPostgresStore(conn *sql.DB) *PostgresStore {
	table := pq.QuoteIdentifier(db.SlotsTable)
	return &PostgresStore{
		DB:       conn,
		getQuery: fmt.Sprintf(`SELECT value FROM %s WHERE key = $1`, table),
		setQuery: fmt.Sprintf(`
			INSERT INTO %s (key, value) VALUES ($1, $2)
			ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
		`, table),
	}
}

// GetItem returns the value stored under key. A missing row is reported as
// ok == false without an error.
func (s *PostgresStore) GetItem(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.DB.QueryRowContext(ctx, s.getQuery, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("kv/postgres: get %s: %w", key, err)
	}
	return value, true, nil
}

// SetItem upserts the value under key.
func (s *PostgresStore) SetItem(ctx context.Context, key, value string) error {
	if _, err := s.DB.ExecContext(ctx, s.setQuery, key, value); err != nil {
		return fmt.Errorf("kv/postgres: set %s: %w", key, err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	return s.DB.Close()
}
