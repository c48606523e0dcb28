package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
)

// pgPool is the subset of pgxpool.Pool the store uses. pgxmock's pool
// implements it, which keeps the unit tests free of a live database.
type pgPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// PostgresStore persists the cache entry using pgxpool.
type PostgresStore struct {
	pool pgPool
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS latest_snapshot (
	id         TEXT PRIMARY KEY,
	snapshot   JSONB NOT NULL,
	written_at TIMESTAMPTZ NOT NULL
);
`

// NewPostgresStore creates a PostgresStore with a connection pool and
// ensures the schema exists.
func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "cache: postgres parse config")
	}
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "cache: postgres create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "cache: postgres ping")
	}
	if _, err := pool.Exec(ctx, postgresMigration); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "cache: postgres migrate")
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Load(ctx context.Context) (*Entry, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, snapshot, written_at FROM latest_snapshot ORDER BY written_at DESC LIMIT 1`,
	)

	var (
		e        Entry
		snapJSON []byte
		written  time.Time
	)
	if err := row.Scan(&e.ID, &snapJSON, &written); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrap(err, "cache: postgres load")
	}
	if err := json.Unmarshal(snapJSON, &e.Snapshot); err != nil {
		return nil, eris.Wrap(err, "cache: postgres decode snapshot")
	}
	e.WrittenAt = written
	return &e, nil
}

func (s *PostgresStore) Save(ctx context.Context, e *Entry) error {
	snapJSON, err := json.Marshal(e.Snapshot)
	if err != nil {
		return eris.Wrap(err, "cache: postgres encode snapshot")
	}

	// Single-slot semantics: replace whatever is there. Concurrent writers
	// race, last writer wins, matching the documented cache behavior.
	if _, err := s.pool.Exec(ctx, `DELETE FROM latest_snapshot`); err != nil {
		return eris.Wrap(err, "cache: postgres clear")
	}
	if _, err := s.pool.Exec(ctx,
		`INSERT INTO latest_snapshot (id, snapshot, written_at) VALUES ($1, $2, $3)`,
		e.ID, snapJSON, e.WrittenAt,
	); err != nil {
		return eris.Wrap(err, "cache: postgres insert")
	}
	return nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
