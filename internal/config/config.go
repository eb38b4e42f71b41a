// Package config defines service configuration and how it is loaded.
package config

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// StorageBackend selects where the directory is persisted:
	// memory, file, sqlite, postgres or redis.
	StorageBackend string `koanf:"storage_backend"`

	// StoragePath is the snapshot file or sqlite database path.
	StoragePath string `koanf:"storage_path"`

	PostgresDSN string `koanf:"postgres_dsn"`

	RedisAddr     string `koanf:"redis_addr"`
	RedisPassword string `koanf:"redis_password"`
	RedisDB       int    `koanf:"redis_db"`
	RedisKey      string `koanf:"redis_key"`

	// SeedOnEmpty loads the starter roster into an empty directory.
	SeedOnEmpty bool `koanf:"seed_on_empty"`

	// NotifyQueueSize bounds the notification queue; a full queue rejects
	// booking submissions.
	NotifyQueueSize int `koanf:"notify_queue_size"`

	// NotifyWorkerCount sets the number of notification workers.
	NotifyWorkerCount int `koanf:"notify_worker_count"`

	// IdempotencyCacheSize bounds the registration Idempotency-Key cache.
	IdempotencyCacheSize int `koanf:"idempotency_cache_size"`
}

// New returns a Config holding the defaults.
func New() *Config {
	return &Config{
		LogLevel:             "info",
		LogFormat:            "text",
		Addr:                 ":9080",
		StorageBackend:       "memory",
		SeedOnEmpty:          true,
		NotifyQueueSize:      1024,
		NotifyWorkerCount:    runtime.NumCPU(),
		IdempotencyCacheSize: 10_000,
	}
}

var (
	logLevels  = []string{"debug", "info", "warn", "error"}
	logFormats = []string{"text", "json"}
)

// Validate reports every invalid setting, wrapped in ErrInvalidConfig.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Addr) == "" {
		errs = append(errs, errors.New("addr must not be empty"))
	}
	if !oneOf(c.LogLevel, logLevels) {
		errs = append(errs, fmt.Errorf("log_level %q must be one of %v", c.LogLevel, logLevels))
	}
	if !oneOf(c.LogFormat, logFormats) {
		errs = append(errs, fmt.Errorf("log_format %q must be one of %v", c.LogFormat, logFormats))
	}

	switch strings.ToLower(c.StorageBackend) {
	case "memory":
	case "file", "sqlite":
		if c.StoragePath == "" {
			errs = append(errs, fmt.Errorf("storage_path is required for the %s backend", c.StorageBackend))
		}
	case "postgres":
		if c.PostgresDSN == "" {
			errs = append(errs, errors.New("postgres_dsn is required for the postgres backend"))
		}
	case "redis":
		if c.RedisAddr == "" {
			errs = append(errs, errors.New("redis_addr is required for the redis backend"))
		}
		if c.RedisDB < 0 {
			errs = append(errs, errors.New("redis_db must not be negative"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown storage_backend %q", c.StorageBackend))
	}

	if c.NotifyQueueSize < 1 {
		errs = append(errs, errors.New("notify_queue_size must be positive"))
	}
	if c.NotifyWorkerCount < 1 {
		errs = append(errs, errors.New("notify_worker_count must be positive"))
	}
	if c.IdempotencyCacheSize < 1 {
		errs = append(errs, errors.New("idempotency_cache_size must be positive"))
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
}

func oneOf(v string, allowed []string) bool {
	for _, a := range allowed {
		if strings.EqualFold(v, a) {
			return true
		}
	}
	return false
}
