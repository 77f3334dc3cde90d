package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotInitialized means no database pool has been opened.
var ErrNotInitialized = errors.New("database pool not initialized")

var (
	pool *pgxpool.Pool
	once sync.Once
)

// InitDB initializes the database connection pool from a Postgres connection URL.
// Only the first call has any effect.
func InitDB(ctx context.Context, dbURL string) error {
	var err error
	once.Do(func() {
		if dbURL == "" {
			err = fmt.Errorf("DATABASE_URL not set")
			return
		}

		config, parseErr := pgxpool.ParseConfig(dbURL)
		if parseErr != nil {
			err = fmt.Errorf("failed to parse database config: %w", parseErr)
			return
		}

		pool, err = pgxpool.NewWithConfig(ctx, config)
	})
	return err
}

// GetPool returns the database connection pool
func GetPool() *pgxpool.Pool {
	return pool
}

// Close closes the database connection pool
func Close() {
	if pool != nil {
		pool.Close()
	}
}

// schema is applied by EnsureSchema; runs are append-only.
const schema = `
CREATE TABLE IF NOT EXISTS analysis_runs (
	run_id      UUID PRIMARY KEY,
	ticker      TEXT NOT NULL,
	report_date TEXT NOT NULL,
	run_json    JSONB NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS analysis_runs_ticker_idx ON analysis_runs (ticker, created_at DESC);
`

// EnsureSchema creates the analysis_runs table when it does not exist.
func EnsureSchema(ctx context.Context, p *pgxpool.Pool) error {
	if p == nil {
		return ErrNotInitialized
	}
	if _, err := p.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
