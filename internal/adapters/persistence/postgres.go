package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/protecthire/protecthire/internal/domain/guard"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS guard_profiles (
	seq     BIGSERIAL,
	id      TEXT PRIMARY KEY,
	payload JSONB NOT NULL
)`

const pingTimeout = 5 * time.Second

// PostgresBackend stores one jsonb row per profile.
type PostgresBackend struct {
	pool *pgxpool.Pool
}

// NewPostgresBackend connects to dsn, pings the server and ensures the schema.
func NewPostgresBackend(ctx context.Context, dsn string) (*PostgresBackend, error) {
	if dsn == "" {
		return nil, fmt.Errorf("%w: postgres dsn", ErrMissingSetting)
	}
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	pingCtx := ctx
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, pingTimeout)
		defer cancel()
	}
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &PostgresBackend{pool: pool}, nil
}

// Name implements repository.Backend.
func (*PostgresBackend) Name() string { return "postgres" }

// Load implements repository.Backend.
func (p *PostgresBackend) Load(ctx context.Context) ([]guard.Profile, error) {
	rows, err := p.pool.Query(ctx, `SELECT payload FROM guard_profiles ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("query profiles: %w", err)
	}
	defer rows.Close()

	var out []guard.Profile
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		prof, err := decodeProfile(payload)
		if err != nil {
			return nil, err
		}
		out = append(out, prof)
	}
	return out, rows.Err()
}

// Save implements repository.Backend with one batched upsert transaction.
func (p *PostgresBackend) Save(ctx context.Context, profiles []guard.Profile) error {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	batch := &pgx.Batch{}
	for _, prof := range profiles {
		b, err := encodeProfile(prof)
		if err != nil {
			return err
		}
		batch.Queue(`
			INSERT INTO guard_profiles (id, payload) VALUES ($1, $2)
			ON CONFLICT (id) DO UPDATE SET payload = EXCLUDED.payload`, prof.ID, b)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("upsert profiles: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Close implements repository.Backend.
func (p *PostgresBackend) Close() error {
	p.pool.Close()
	return nil
}
