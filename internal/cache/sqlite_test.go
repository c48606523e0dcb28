package cache

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdme/floodwatch/internal/model"
)

func newSQLiteTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStore_LoadEmpty(t *testing.T) {
	s := newSQLiteTestStore(t)

	entry, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, entry)
}

func TestSQLiteStore_RoundTrip(t *testing.T) {
	s := newSQLiteTestStore(t)

	written := time.Date(2025, 12, 5, 10, 0, 0, 0, time.UTC)
	in := &Entry{
		ID:        "e1",
		Snapshot:  *model.Fallback("Official IRSA Report (05-12-2025)", written),
		WrittenAt: written,
	}
	require.NoError(t, s.Save(context.Background(), in))

	out, err := s.Load(context.Background())
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, "e1", out.ID)
	assert.True(t, out.WrittenAt.Equal(written))
	assert.Equal(t, in.Snapshot.Barrages, out.Snapshot.Barrages)
	assert.Equal(t, in.Snapshot.RIMStations, out.Snapshot.RIMStations)
}

func TestSQLiteStore_SingleSlot(t *testing.T) {
	s := newSQLiteTestStore(t)
	now := time.Now().UTC()

	require.NoError(t, s.Save(context.Background(), &Entry{ID: "old", Snapshot: *model.Fallback("", now), WrittenAt: now.Add(-time.Hour)}))
	require.NoError(t, s.Save(context.Background(), &Entry{ID: "new", Snapshot: *model.Fallback("", now), WrittenAt: now}))

	out, err := s.Load(context.Background())
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, "new", out.ID)

	var n int
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(*) FROM latest_snapshot`).Scan(&n))
	assert.Equal(t, 1, n)
}
