package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/protecthire/protecthire/internal/domain/guard"
)

// DefaultRedisKey holds the snapshot when no key is configured.
const DefaultRedisKey = "protecthire:guards"

// RedisBackend keeps the snapshot as a JSON document under one key.
type RedisBackend struct {
	client *redis.Client
	key    string
}

// NewRedisBackend connects and pings the server.
func NewRedisBackend(ctx context.Context, opts *redis.Options, key string) (*RedisBackend, error) {
	if opts == nil || opts.Addr == "" {
		return nil, fmt.Errorf("%w: redis addr", ErrMissingSetting)
	}
	if key == "" {
		key = DefaultRedisKey
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return &RedisBackend{client: client, key: key}, nil
}

// Name implements repository.Backend.
func (*RedisBackend) Name() string { return "redis" }

// Load implements repository.Backend. A missing key is an empty directory.
func (r *RedisBackend) Load(ctx context.Context) ([]guard.Profile, error) {
	b, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", r.key, err)
	}
	return decodeSnapshot(b)
}

// Save implements repository.Backend.
func (r *RedisBackend) Save(ctx context.Context, profiles []guard.Profile) error {
	b, err := json.Marshal(profiles)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := r.client.Set(ctx, r.key, b, 0).Err(); err != nil {
		return fmt.Errorf("set %s: %w", r.key, err)
	}
	return nil
}

// Close implements repository.Backend.
func (r *RedisBackend) Close() error { return r.client.Close() }
