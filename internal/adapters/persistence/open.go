// Package persistence implements durable backends for the guard directory.
package persistence

import (
	"context"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/protecthire/protecthire/internal/adapters/repository"
)

// Backend names accepted by Open.
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

// Settings selects and configures a backend.
type Settings struct {
	Backend       string
	Path          string
	PostgresDSN   string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisKey      string
}

// Open builds the configured backend. The memory backend returns nil: the
// directory then runs without persistence.
func Open(ctx context.Context, s Settings) (repository.Backend, error) {
	var (
		b   repository.Backend
		err error
	)
	switch strings.ToLower(strings.TrimSpace(s.Backend)) {
	case "", BackendMemory:
		return nil, nil
	case BackendFile:
		b, err = NewFileBackend(s.Path)
	case BackendSQLite:
		b, err = NewSQLiteBackend(ctx, s.Path)
	case BackendPostgres:
		b, err = NewPostgresBackend(ctx, s.PostgresDSN)
	case BackendRedis:
		b, err = NewRedisBackend(ctx, &redis.Options{
			Addr:     s.RedisAddr,
			Password: s.RedisPassword,
			DB:       s.RedisDB,
		}, s.RedisKey)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, s.Backend)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s backend: %w", s.Backend, err)
	}
	return b, nil
}
