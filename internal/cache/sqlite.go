package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

// SQLiteStore persists the cache entry using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS latest_snapshot (
	id         TEXT PRIMARY KEY,
	snapshot   TEXT NOT NULL,
	written_at DATETIME NOT NULL
);
`

// NewSQLiteStore opens a SQLite database at the given path, configures WAL
// mode, and ensures the schema exists.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "cache: sqlite open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "cache: sqlite exec %s", pragma)
		}
	}
	if _, err := db.Exec(sqliteMigration); err != nil {
		db.Close()
		return nil, eris.Wrap(err, "cache: sqlite migrate")
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Load(ctx context.Context) (*Entry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, snapshot, written_at FROM latest_snapshot ORDER BY written_at DESC LIMIT 1`,
	)

	var (
		e        Entry
		snapJSON string
		written  time.Time
	)
	if err := row.Scan(&e.ID, &snapJSON, &written); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrap(err, "cache: sqlite load")
	}
	if err := json.Unmarshal([]byte(snapJSON), &e.Snapshot); err != nil {
		return nil, eris.Wrap(err, "cache: sqlite decode snapshot")
	}
	e.WrittenAt = written
	return &e, nil
}

func (s *SQLiteStore) Save(ctx context.Context, e *Entry) error {
	snapJSON, err := json.Marshal(e.Snapshot)
	if err != nil {
		return eris.Wrap(err, "cache: sqlite encode snapshot")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "cache: sqlite begin tx")
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM latest_snapshot`); err != nil {
		return eris.Wrap(err, "cache: sqlite clear")
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO latest_snapshot (id, snapshot, written_at) VALUES (?, ?, ?)`,
		e.ID, string(snapJSON), e.WrittenAt,
	); err != nil {
		return eris.Wrap(err, "cache: sqlite insert")
	}

	return eris.Wrap(tx.Commit(), "cache: sqlite commit")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
