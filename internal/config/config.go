// Package config provides functionality for managing configuration options
// for the application using command-line flags, a JSON config file and
// environment variables.
package config

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
)

// Storage backend names.
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "ACCOUNTKEEPER"

// Options holds the configuration values for the application.
type Options struct {
	// Backend selects where the accounts slot is stored.
	Backend string `json:"backend" envconfig:"BACKEND" validate:"required,oneof=memory file redis postgres"`

	// FilePath is the JSON file used by the file backend.
	FilePath string `json:"file_path" envconfig:"FILE_PATH" validate:"required_if=Backend file"`

	// RedisAddr is the host:port of the Redis server.
	RedisAddr string `json:"redis_addr" envconfig:"REDIS_ADDR" validate:"required_if=Backend redis,omitempty,hostname_port"`

	// RedisPrefix namespaces slot keys in Redis.
	RedisPrefix string `json:"redis_prefix" envconfig:"REDIS_PREFIX"`

	// DatabaseDSN holds the database connection string for the postgres backend.
	DatabaseDSN string `json:"database_dsn" envconfig:"DATABASE_DSN" validate:"required_if=Backend postgres"`

	// LogLevel is a zap level name.
	LogLevel string `json:"log_level" envconfig:"LOG_LEVEL" validate:"omitempty,oneof=debug info warn error"`

	// Config is the path to the Config file.
	Config string `json:"-" envconfig:"CONFIG"`

	// Version asks for build metadata instead of running the shell.
	Version bool `json:"-" ignored:"true"`
}

var validate = validator.New()

// Parse builds Options from args (without the program name). Flags set the
// defaults, the JSON config file overrides them and environment variables
// override both. The result is validated before it is returned, unless only
// the version was requested.
func Parse(args []string) (*Options, error) {
	options := &Options{}

	fs := flag.NewFlagSet("accountkeeper", flag.ContinueOnError)
	fs.StringVar(&options.Backend, "backend", BackendFile, "storage backend: memory | file | redis | postgres")
	fs.StringVar(&options.FilePath, "file", "storage.json", "path to the storage file")
	fs.StringVar(&options.RedisAddr, "redis", "localhost:6379", "redis address")
	fs.StringVar(&options.RedisPrefix, "redis-prefix", "accountkeeper:", "redis key prefix")
	fs.StringVar(&options.DatabaseDSN, "d", "", "db address")
	fs.StringVar(&options.LogLevel, "log-level", "info", "log level")
	fs.StringVar(&options.Config, "config", "config.json", "path to config file")
	fs.StringVar(&options.Config, "c", "config.json", "path to config file (shorthand)")
	fs.BoolVar(&options.Version, "version", false, "show build version and date")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	// The config file location itself may come from the environment.
	if configPath := os.Getenv(EnvPrefix + "_CONFIG"); configPath != "" {
		options.Config = configPath
	}

	if options.Config != "" {
		if _, err := os.Stat(options.Config); err == nil {
			data, err := os.ReadFile(options.Config)
			if err != nil {
				return nil, fmt.Errorf("error while reading config file: %w", err)
			}
			if err := json.Unmarshal(data, options); err != nil {
				return nil, fmt.Errorf("error while parsing config file: %w", err)
			}
		}
	}

	if err := envconfig.Process(EnvPrefix, options); err != nil {
		return nil, fmt.Errorf("error while reading environment: %w", err)
	}

	if options.Version {
		return options, nil
	}

	if err := validate.Struct(options); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return options, nil
}
