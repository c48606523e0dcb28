package cache

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/pdme/floodwatch/internal/config"
	"github.com/pdme/floodwatch/internal/model"
	"github.com/pdme/floodwatch/internal/observability"
)

// Refresher produces a fresh snapshot when the cache is stale.
type Refresher interface {
	Fetch(ctx context.Context) *model.Snapshot
}

// SnapshotCache serves the last acquired snapshot for a fixed TTL window.
// There is deliberately no mutual exclusion by default: concurrent callers
// hitting a stale window may each trigger acquisition and each write the
// store, last writer wins. Setting cache.single_flight opts into refresh
// deduplication.
type SnapshotCache struct {
	store    Store
	pipeline Refresher
	ttl      time.Duration
	clock    clockwork.Clock
	group    *singleflight.Group
	metrics  *observability.Metrics
}

// New creates a SnapshotCache. If clock is nil the real clock is used;
// metrics may be nil.
func New(store Store, pipeline Refresher, cfg config.CacheConfig, clock clockwork.Clock, m *observability.Metrics) *SnapshotCache {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	c := &SnapshotCache{
		store:    store,
		pipeline: pipeline,
		ttl:      cfg.TTL(),
		clock:    clock,
		metrics:  m,
	}
	if cfg.SingleFlight {
		c.group = &singleflight.Group{}
	}
	return c
}

// Get returns the cached snapshot when its age is under the TTL, otherwise
// runs the acquisition pipeline, persists the result best-effort, and
// returns it. Never fails: a store error only forces a refresh.
func (c *SnapshotCache) Get(ctx context.Context) *model.Snapshot {
	entry, err := c.store.Load(ctx)
	if err != nil {
		zap.L().Warn("cache read failed", zap.Error(err))
	} else if entry != nil && c.clock.Now().Sub(entry.WrittenAt) < c.ttl {
		c.metrics.IncCache("hit")
		zap.L().Debug("serving snapshot from cache",
			zap.String("date", entry.Snapshot.Date),
		)
		snap := entry.Snapshot
		return &snap
	}
	c.metrics.IncCache("miss")

	if c.group != nil {
		v, _, _ := c.group.Do("snapshot", func() (any, error) {
			return c.refresh(ctx), nil
		})
		return v.(*model.Snapshot)
	}
	return c.refresh(ctx)
}

func (c *SnapshotCache) refresh(ctx context.Context) *model.Snapshot {
	snap := c.pipeline.Fetch(ctx)

	entry := &Entry{
		ID:        uuid.New().String(),
		Snapshot:  *snap,
		WrittenAt: c.clock.Now(),
	}
	if err := c.store.Save(ctx, entry); err != nil {
		// Best effort: the fresh snapshot is still returned to the caller.
		zap.L().Warn("cache write failed", zap.Error(err))
	}
	return snap
}
