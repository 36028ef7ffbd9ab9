// Package logger wraps the zap logger used across the application.
package logger

import (
	"go.uber.org/zap"
)

// Logger holds the application's zap logger.
type Logger struct {
	Log *zap.Logger
}

// New returns a Logger that discards everything until Init is called.
func New() *Logger {
	return &Logger{Log: zap.NewNop()}
}

// Init replaces the logger with a production logger at level.
func (l *Logger) Init(level string) error {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return err
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = lvl

	zl, err := cfg.Build()
	if err != nil {
		return err
	}

	l.Log = zl
	return nil
}
