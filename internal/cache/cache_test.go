package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdme/floodwatch/internal/config"
	"github.com/pdme/floodwatch/internal/model"
	"github.com/pdme/floodwatch/internal/observability"
)

type memStore struct {
	mu      sync.Mutex
	entry   *Entry
	loadErr error
	saveErr error
	saves   int
}

func (s *memStore) Load(context.Context) (*Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	if s.entry == nil {
		return nil, nil
	}
	e := *s.entry
	return &e, nil
}

func (s *memStore) Save(_ context.Context, e *Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves++
	if s.saveErr != nil {
		return s.saveErr
	}
	cp := *e
	s.entry = &cp
	return nil
}

func (s *memStore) Close() error { return nil }

type countingRefresher struct {
	mu      sync.Mutex
	fetches int
	clock   clockwork.Clock
	block   chan struct{} // when set, Fetch waits until closed
	entered chan struct{} // when set, signalled once on first entry
}

func (r *countingRefresher) Fetch(context.Context) *model.Snapshot {
	r.mu.Lock()
	r.fetches++
	first := r.fetches == 1
	r.mu.Unlock()
	if first && r.entered != nil {
		close(r.entered)
	}
	if r.block != nil {
		<-r.block
	}
	return model.Fallback("Official IRSA Report (05-12-2025)", r.clock.Now())
}

func (r *countingRefresher) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.fetches
}

func newTestCache(t *testing.T, store Store, ref Refresher, clock clockwork.Clock, singleFlight bool) *SnapshotCache {
	t.Helper()
	cfg := config.CacheConfig{TTLMinutes: 60, SingleFlight: singleFlight}
	return New(store, ref, cfg, clock, observability.NewForTesting())
}

func TestCache_MissThenHit(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2025, 12, 5, 10, 0, 0, 0, time.UTC))
	store := &memStore{}
	ref := &countingRefresher{clock: clock}
	c := newTestCache(t, store, ref, clock, false)

	first := c.Get(context.Background())
	require.NotNil(t, first)
	assert.Equal(t, 1, ref.count())
	assert.Equal(t, 1, store.saves)

	// Inside the TTL window the stored entry is served without refetching.
	clock.Advance(59*time.Minute + 59*time.Second)
	second := c.Get(context.Background())
	require.NotNil(t, second)
	assert.Equal(t, 1, ref.count())
	assert.Equal(t, first.Date, second.Date)
}

func TestCache_ExpiresAtTTLBoundary(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2025, 12, 5, 10, 0, 0, 0, time.UTC))
	store := &memStore{}
	ref := &countingRefresher{clock: clock}
	c := newTestCache(t, store, ref, clock, false)

	c.Get(context.Background())
	require.Equal(t, 1, ref.count())

	// Age exactly equal to the TTL is already stale.
	clock.Advance(60 * time.Minute)
	c.Get(context.Background())
	assert.Equal(t, 2, ref.count())
	assert.Equal(t, 2, store.saves)
}

func TestCache_LoadErrorForcesRefresh(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2025, 12, 5, 10, 0, 0, 0, time.UTC))
	store := &memStore{loadErr: eris.New("disk gone")}
	ref := &countingRefresher{clock: clock}
	c := newTestCache(t, store, ref, clock, false)

	snap := c.Get(context.Background())
	require.NotNil(t, snap)
	assert.Equal(t, 1, ref.count())
}

func TestCache_SaveErrorStillReturnsSnapshot(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2025, 12, 5, 10, 0, 0, 0, time.UTC))
	store := &memStore{saveErr: eris.New("disk full")}
	ref := &countingRefresher{clock: clock}
	c := newTestCache(t, store, ref, clock, false)

	snap := c.Get(context.Background())
	require.NotNil(t, snap)
	assert.Equal(t, model.FallbackDate, snap.Date)
}

func TestCache_ReturnsCopyOfCachedSnapshot(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2025, 12, 5, 10, 0, 0, 0, time.UTC))
	store := &memStore{}
	ref := &countingRefresher{clock: clock}
	c := newTestCache(t, store, ref, clock, false)

	c.Get(context.Background())
	clock.Advance(time.Minute)

	a := c.Get(context.Background())
	a.Date = "mutated"
	b := c.Get(context.Background())
	assert.Equal(t, model.FallbackDate, b.Date)
}

func TestCache_SingleFlightDeduplicatesRefresh(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2025, 12, 5, 10, 0, 0, 0, time.UTC))
	store := &memStore{}
	ref := &countingRefresher{
		clock:   clock,
		block:   make(chan struct{}),
		entered: make(chan struct{}),
	}
	c := newTestCache(t, store, ref, clock, true)

	var wg sync.WaitGroup
	results := make([]*model.Snapshot, 5)

	wg.Add(1)
	go func() {
		defer wg.Done()
		results[0] = c.Get(context.Background())
	}()
	<-ref.entered

	for i := 1; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = c.Get(context.Background())
		}()
	}
	// Give the late callers time to join the in-flight refresh.
	time.Sleep(50 * time.Millisecond)
	close(ref.block)
	wg.Wait()

	assert.Equal(t, 1, ref.count())
	for _, snap := range results {
		require.NotNil(t, snap)
		assert.Equal(t, model.FallbackDate, snap.Date)
	}
}
