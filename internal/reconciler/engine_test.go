package reconciler

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moatazsakr78/heawabas-main-sub000/internal/cache"
	"github.com/moatazsakr78/heawabas-main-sub000/internal/domain"
	"github.com/moatazsakr78/heawabas-main-sub000/internal/events"
)

type fakeAdapter struct {
	name string

	mu      sync.Mutex
	store   map[string]SyncRecord
	fetches int
	upserts int
	deletes int
}

func newFakeAdapter(name string) *fakeAdapter {
	return &fakeAdapter{name: name, store: map[string]SyncRecord{}}
}

func (f *fakeAdapter) Dataset() string  { return f.name }
func (f *fakeAdapter) CacheKey() string { return f.name }

func (f *fakeAdapter) FetchAll(ctx context.Context) ([]SyncRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches++
	out := make([]SyncRecord, 0, len(f.store))
	for _, rec := range f.store {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeAdapter) UpsertMany(ctx context.Context, recs []SyncRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upserts++
	for _, rec := range recs {
		f.store[rec.ID] = rec
	}
	return nil
}

func (f *fakeAdapter) DeleteWhere(ctx context.Context, ids []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes++
	for _, id := range ids {
		delete(f.store, id)
	}
	return nil
}

func (f *fakeAdapter) remoteIDs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.store))
	for id := range f.store {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

type fakeTombs struct {
	mu     sync.Mutex
	stones []domain.Tombstone
}

func (f *fakeTombs) List(ctx context.Context, dataset string) ([]domain.Tombstone, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Tombstone
	for _, s := range f.stones {
		if s.Dataset == dataset {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeTombs) Add(ctx context.Context, stones []domain.Tombstone) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stones = append(f.stones, stones...)
	return nil
}

func (f *fakeTombs) Prune(ctx context.Context, before time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.stones[:0]
	for _, s := range f.stones {
		if !s.DeletedAt.Before(before) {
			kept = append(kept, s)
		}
	}
	f.stones = kept
	return nil
}

type fakeOracle struct{ online bool }

func (f *fakeOracle) IsOnline() bool { return f.online }

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type engineFixture struct {
	engine  *Engine
	adapter *fakeAdapter
	tombs   *fakeTombs
	oracle  *fakeOracle
	clock   *fakeClock
	cache   *cache.Store
	bus     *events.Bus
}

func newEngineFixture(t *testing.T, dataset string) *engineFixture {
	t.Helper()
	fx := &engineFixture{
		adapter: newFakeAdapter(dataset),
		tombs:   &fakeTombs{},
		oracle:  &fakeOracle{online: true},
		clock:   &fakeClock{now: time.Unix(1700000000, 0)},
		cache:   cache.NewStore(cache.NewMemoryTier()),
		bus:     events.NewBus(),
	}
	fx.engine = New(Config{
		Cache:      fx.cache,
		Bus:        fx.bus,
		Oracle:     fx.oracle,
		Tombstones: fx.tombs,
		Cooldown:   10 * time.Second,
		Clock:      fx.clock.Now,
	})
	fx.engine.Register(fx.adapter)
	return fx
}

func TestPushCooldown(t *testing.T) {
	fx := newEngineFixture(t, "products")
	ctx := context.Background()

	fx.adapter.store["A"] = rec("A", "remote-a")
	require.NoError(t, fx.engine.Push(ctx, "products"))
	upsertsAfterFirst := fx.adapter.upserts
	fetchesAfterFirst := fx.adapter.fetches

	fx.clock.advance(3 * time.Second)
	err := fx.engine.Push(ctx, "products")
	assert.ErrorIs(t, err, ErrCooldown)
	assert.Equal(t, upsertsAfterFirst, fx.adapter.upserts, "no remote write during cooldown")
	assert.Equal(t, fetchesAfterFirst, fx.adapter.fetches, "no remote read during cooldown")

	fx.clock.advance(8 * time.Second)
	assert.NoError(t, fx.engine.Push(ctx, "products"))
}

func TestPullIdempotent(t *testing.T) {
	fx := newEngineFixture(t, "products")
	ctx := context.Background()

	fx.adapter.store["A"] = rec("A", "one")
	fx.adapter.store["B"] = rec("B", "two")

	require.NoError(t, fx.engine.Pull(ctx, "products"))
	first, ok, err := fx.cache.GetRaw("products")
	require.NoError(t, err)
	require.True(t, ok)

	fx.clock.advance(11 * time.Second)
	require.NoError(t, fx.engine.Pull(ctx, "products"))
	second, _, err := fx.cache.GetRaw("products")
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}

func TestPullUnknownDataset(t *testing.T) {
	fx := newEngineFixture(t, "products")
	err := fx.engine.Pull(context.Background(), "nonsense")
	assert.ErrorIs(t, err, ErrUnknownDataset)
}

func TestSaveLocalOfflineThenPushOnline(t *testing.T) {
	fx := newEngineFixture(t, "products")
	ctx := context.Background()
	fx.oracle.online = false

	res, err := fx.engine.SaveLocal(ctx, "products", rec("A", "saved-offline"))
	require.NoError(t, err, "local write must succeed while offline")
	assert.False(t, res.Pushed)
	assert.ErrorIs(t, res.SyncErr, ErrOffline)

	// record survives in the local working set
	recs, err := DecodeRecords(mustRaw(t, fx.cache, "products"))
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, ids(recs))
	assert.Empty(t, fx.adapter.remoteIDs())

	// back online the same record makes it to the remote store
	fx.oracle.online = true
	require.NoError(t, fx.engine.Push(ctx, "products"))
	assert.Equal(t, []string{"A"}, fx.adapter.remoteIDs())
}

func TestOfflineEditSurvivesPeriodicReconcile(t *testing.T) {
	fx := newEngineFixture(t, "products")
	ctx := context.Background()

	fx.adapter.store["A"] = rec("A", "remote-a")
	require.NoError(t, fx.engine.Pull(ctx, "products"))

	fx.oracle.online = false
	res, err := fx.engine.SaveLocal(ctx, "products", rec("B", "offline-b"))
	require.NoError(t, err)
	require.False(t, res.Pushed)

	// connectivity returns and the scheduled reconcile fires; it must merge
	// the offline edit up, not adopt the remote set over it
	fx.oracle.online = true
	fx.clock.advance(11 * time.Second)
	require.NoError(t, fx.engine.Push(ctx, "products"))

	assert.Equal(t, []string{"A", "B"}, fx.adapter.remoteIDs())
	recs, err := DecodeRecords(mustRaw(t, fx.cache, "products"))
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"A", "B"}, ids(recs))
}

func TestSaveLocalBroadcastsExactlyOneServerChange(t *testing.T) {
	fx := newEngineFixture(t, "products")
	ctx := context.Background()

	var mu sync.Mutex
	counts := map[string]int{}
	require.NoError(t, fx.bus.SubscribeDatasetChange(func(ev events.DatasetChange) {
		mu.Lock()
		counts[ev.Source]++
		mu.Unlock()
	}))

	res, err := fx.engine.SaveLocal(ctx, "products", rec("A", "apples"))
	require.NoError(t, err)
	assert.True(t, res.Pushed)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, counts[events.SourceServer])
	assert.Equal(t, 1, counts[events.SourceLocal])
}

func TestPullBootstrapsEmptyRemoteOnlyOnce(t *testing.T) {
	fx := newEngineFixture(t, "products")
	ctx := context.Background()

	raw, err := EncodeRecords([]SyncRecord{rec("A", "local-only")})
	require.NoError(t, err)
	require.NoError(t, fx.cache.PutRaw("products", raw))

	// never synced + empty remote: local state seeds the remote store
	require.NoError(t, fx.engine.Pull(ctx, "products"))
	assert.Equal(t, []string{"A"}, fx.adapter.remoteIDs())

	// once synced, an empty remote is authoritative and wipes the cache
	fx.adapter.mu.Lock()
	fx.adapter.store = map[string]SyncRecord{}
	fx.adapter.mu.Unlock()
	fx.clock.advance(11 * time.Second)

	require.NoError(t, fx.engine.Pull(ctx, "products"))
	recs, err := DecodeRecords(mustRaw(t, fx.cache, "products"))
	require.NoError(t, err)
	assert.Empty(t, recs)
	assert.Empty(t, fx.adapter.remoteIDs(), "no re-bootstrap after a completed sync")
}

func TestDeletePropagatesTombstone(t *testing.T) {
	fx := newEngineFixture(t, "products")
	ctx := context.Background()

	res, err := fx.engine.SaveLocal(ctx, "products", rec("A", "doomed"))
	require.NoError(t, err)
	require.True(t, res.Pushed)

	fx.clock.advance(11 * time.Second)
	res, err = fx.engine.Delete(ctx, "products", "A")
	require.NoError(t, err)
	assert.True(t, res.Pushed)

	assert.Empty(t, fx.adapter.remoteIDs())
	recs, err := DecodeRecords(mustRaw(t, fx.cache, "products"))
	require.NoError(t, err)
	assert.Empty(t, recs)

	stones, err := fx.tombs.List(ctx, "products")
	require.NoError(t, err)
	require.Len(t, stones, 1)
	assert.Equal(t, "A", stones[0].RecordID)

	// the pushed tombstone no longer lingers locally
	has, err := fx.cache.Has(cache.TombstonesKey("products"))
	require.NoError(t, err)
	assert.False(t, has)
}

func TestSaveRevivesTombstonedID(t *testing.T) {
	fx := newEngineFixture(t, "products")
	ctx := context.Background()
	fx.oracle.online = false

	_, err := fx.engine.SaveLocal(ctx, "products", rec("A", "v1"))
	require.NoError(t, err)
	_, err = fx.engine.Delete(ctx, "products", "A")
	require.NoError(t, err)

	// re-creating the id while offline discards the pending delete marker
	_, err = fx.engine.SaveLocal(ctx, "products", rec("A", "v2"))
	require.NoError(t, err)

	fx.oracle.online = true
	require.NoError(t, fx.engine.Push(ctx, "products"))
	assert.Equal(t, []string{"A"}, fx.adapter.remoteIDs())
}

func TestPullDropsRemoteTombstonedRecords(t *testing.T) {
	fx := newEngineFixture(t, "products")
	ctx := context.Background()

	fx.adapter.store["A"] = rec("A", "kept")
	fx.adapter.store["B"] = rec("B", "deleted-elsewhere")
	require.NoError(t, fx.tombs.Add(ctx, []domain.Tombstone{
		{Dataset: "products", RecordID: "B", DeletedAt: fx.clock.Now()},
	}))

	require.NoError(t, fx.engine.Pull(ctx, "products"))
	recs, err := DecodeRecords(mustRaw(t, fx.cache, "products"))
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, ids(recs))
}

func TestStatusTransitions(t *testing.T) {
	fx := newEngineFixture(t, "products")
	ctx := context.Background()

	st := fx.engine.Status("products")
	assert.Equal(t, "idle", st.State)
	assert.False(t, st.EverSynced)

	require.NoError(t, fx.engine.Pull(ctx, "products"))
	st = fx.engine.Status("products")
	assert.Equal(t, "reconciled", st.State)
	assert.True(t, st.EverSynced)

	// cooldown elapsed: the dataset is eligible again
	fx.clock.advance(11 * time.Second)
	assert.Equal(t, "idle", fx.engine.Status("products").State)
}

func TestOfflinePullFailsWithoutStampingCooldown(t *testing.T) {
	fx := newEngineFixture(t, "products")
	ctx := context.Background()
	fx.oracle.online = false

	err := fx.engine.Pull(ctx, "products")
	assert.ErrorIs(t, err, ErrOffline)
	require.NotNil(t, fx.engine.Tracker().LastError())
	assert.Equal(t, KindConnection, fx.engine.Tracker().LastError().Kind)

	// coming back online immediately must not be blocked by a cooldown
	fx.oracle.online = true
	assert.NoError(t, fx.engine.Pull(ctx, "products"))
}

func mustRaw(t *testing.T, store *cache.Store, key string) []byte {
	t.Helper()
	raw, ok, err := store.GetRaw(key)
	require.NoError(t, err)
	require.True(t, ok)
	return raw
}
