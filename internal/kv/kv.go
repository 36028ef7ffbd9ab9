// Package kv provides string-keyed storage slots with interchangeable
// backends: in-memory, a JSON file, Redis and PostgreSQL.
package kv

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/atinyakov/accountkeeper/internal/config"
	"github.com/atinyakov/accountkeeper/internal/db"
)

// ErrClosed is returned by backends used after Close.
var ErrClosed = errors.New("kv: store closed")

// Store reads and writes whole values under string keys.
type Store interface {
	// GetItem returns the value under key. ok is false when the key was never
	// written.
	GetItem(ctx context.Context, key string) (value string, ok bool, err error)
	// SetItem overwrites the value under key.
	SetItem(ctx context.Context, key, value string) error
	// Close releases the backend's resources.
	Close() error
}

// Open builds the backend selected by opts.
func Open(ctx context.Context, opts *config.Options, log *zap.Logger) (Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	switch opts.Backend {
	case config.BackendMemory:
		return NewMemoryStore(), nil
	case config.BackendFile:
		return NewFileStore(opts.FilePath), nil
	case config.BackendRedis:
		client, err := DialRedis(ctx, opts.RedisAddr)
		if err != nil {
			return nil, err
		}
		return NewRedisStore(client, opts.RedisPrefix), nil
	case config.BackendPostgres:
		conn, err := db.InitPostgres(opts.DatabaseDSN)
		if err != nil {
			return nil, err
		}
		log.Info("postgres storage ready", zap.String("table", db.SlotsTable))
		return NewPostgresStore(conn), nil
	}
	return nil, fmt.Errorf("kv: unknown backend %q", opts.Backend)
}
