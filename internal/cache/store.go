package cache

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/pdme/floodwatch/internal/config"
	"github.com/pdme/floodwatch/internal/model"
)

// Entry wraps one snapshot with its write instant. The store holds exactly
// one entry; each save replaces it wholesale, no history is retained.
type Entry struct {
	ID        string         `json:"id"`
	Snapshot  model.Snapshot `json:"snapshot"`
	WrittenAt time.Time      `json:"written_at"`
}

// Store persists the single latest cache entry. Load returns (nil, nil)
// when nothing has been written yet.
type Store interface {
	Load(ctx context.Context) (*Entry, error)
	Save(ctx context.Context, e *Entry) error
	Close() error
}

// NewStore creates a Store for the configured driver.
func NewStore(ctx context.Context, cfg config.CacheConfig) (Store, error) {
	switch cfg.Driver {
	case "file", "":
		return NewFileStore(cfg.Path), nil
	case "sqlite":
		return NewSQLiteStore(cfg.Path)
	case "postgres":
		return NewPostgresStore(ctx, cfg.DatabaseURL)
	default:
		return nil, eris.Errorf("cache: unknown driver %q", cfg.Driver)
	}
}
