package reconciler

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/moatazsakr78/heawabas-main-sub000/internal/cache"
	"github.com/moatazsakr78/heawabas-main-sub000/internal/domain"
	"github.com/moatazsakr78/heawabas-main-sub000/internal/events"
)

// State is the per-dataset sync state.
type State int32

const (
	StateIdle State = iota
	StateSyncing
	StateReconciled
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateSyncing:
		return "syncing"
	case StateReconciled:
		return "reconciled"
	case StateFailed:
		return "failed"
	default:
		return "idle"
	}
}

var (
	// ErrCooldown signals that a sync was attempted too soon after the last
	// one; the caller should wait and retry.
	ErrCooldown = errors.New("sync cooldown active: please wait before retrying")
	// ErrSyncInFlight signals an overlapping sync for the same dataset.
	ErrSyncInFlight = errors.New("sync already in progress for this dataset")
	// ErrOffline signals that the connectivity oracle reports no network.
	ErrOffline = errors.New("offline: remote store unreachable")
	// ErrUnknownDataset signals a dataset with no registered adapter.
	ErrUnknownDataset = errors.New("unknown dataset")
)

// SaveResult reports how a local mutation fared against the remote store.
// The local cache write always happened when err is nil; Pushed says whether
// the opportunistic push also reconciled remotely.
type SaveResult struct {
	Pushed  bool
	SyncErr error
}

// DatasetStatus is one row of the admin sync status view.
type DatasetStatus struct {
	Dataset     string    `json:"dataset"`
	State       string    `json:"state"`
	LastAttempt time.Time `json:"lastAttempt"`
	EverSynced  bool      `json:"everSynced"`
}

// Config wires an Engine. Clock defaults to time.Now; Cooldown to 10s.
type Config struct {
	Cache      *cache.Store
	Bus        *events.Bus
	Status     *StatusTracker
	Oracle     Oracle
	Tombstones TombstoneStore
	Cooldown   time.Duration
	Clock      func() time.Time
}

// Engine is the reconciliation policy core. Per dataset it decides whether
// to pull remote state, push local state or merge, deduplicates by record
// id, writes the result back to both sides and broadcasts change
// notifications. All remote failures degrade to "saved locally only".
type Engine struct {
	cache    *cache.Store
	bus      *events.Bus
	status   *StatusTracker
	oracle   Oracle
	tombs    TombstoneStore
	cooldown time.Duration
	clock    func() time.Time

	mu       sync.Mutex
	states   map[string]*datasetState
	adapters map[string]Adapter
	group    singleflight.Group
}

type datasetState struct {
	state       State
	lastAttempt time.Time
}

func New(cfg Config) *Engine {
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = 10 * time.Second
	}
	if cfg.Status == nil {
		cfg.Status = NewStatusTracker(cfg.Clock)
	}
	return &Engine{
		cache:    cfg.Cache,
		bus:      cfg.Bus,
		status:   cfg.Status,
		oracle:   cfg.Oracle,
		tombs:    cfg.Tombstones,
		cooldown: cfg.Cooldown,
		clock:    cfg.Clock,
		states:   map[string]*datasetState{},
		adapters: map[string]Adapter{},
	}
}

// Register adds a dataset adapter. Not safe for concurrent use; call during
// wiring only.
func (e *Engine) Register(a Adapter) {
	e.adapters[a.Dataset()] = a
	e.states[a.Dataset()] = &datasetState{state: StateIdle}
}

// Datasets lists the registered dataset names.
func (e *Engine) Datasets() []string {
	out := make([]string, 0, len(e.adapters))
	for name := range e.adapters {
		out = append(out, name)
	}
	return out
}

// Tracker exposes the status tracker for the admin API.
func (e *Engine) Tracker() *StatusTracker {
	return e.status
}

func (e *Engine) adapter(dataset string) (Adapter, error) {
	a, ok := e.adapters[dataset]
	if !ok {
		return nil, ErrUnknownDataset
	}
	return a, nil
}

// Pull fetches the remote state for a dataset and makes it the authoritative
// local cache value. An empty remote set bootstraps from local only if the
// dataset never completed a sync before; otherwise emptiness is taken at
// face value.
func (e *Engine) Pull(ctx context.Context, dataset string) error {
	a, err := e.adapter(dataset)
	if err != nil {
		return err
	}
	_, err, _ = e.group.Do("pull:"+dataset, func() (interface{}, error) {
		return nil, e.pull(ctx, a)
	})
	return err
}

func (e *Engine) pull(ctx context.Context, a Adapter) (err error) {
	if !e.oracle.IsOnline() {
		e.status.RecordError(ErrOffline)
		return ErrOffline
	}
	if err = e.begin(a.Dataset()); err != nil {
		return err
	}
	defer func() { e.finish(a.Dataset(), err) }()

	remote, err := a.FetchAll(ctx)
	if err != nil {
		e.status.RecordError(err)
		return err
	}
	dead, err := e.deadIDs(ctx, a.Dataset(), nil)
	if err != nil {
		e.status.RecordError(err)
		return err
	}
	remote = dropTombstoned(remote, dead)

	if len(remote) == 0 {
		local, lerr := e.localRecords(a.CacheKey())
		if lerr != nil {
			return lerr
		}
		local = dropTombstoned(local, dead)
		if len(local) > 0 && !e.everSynced(a.Dataset()) {
			// remote was never bootstrapped: seed it from local state
			if err = a.UpsertMany(ctx, local); err != nil {
				e.status.RecordError(err)
				return err
			}
			remote, err = a.FetchAll(ctx)
			if err != nil {
				e.status.RecordError(err)
				return err
			}
		}
	}

	if err = e.writeAuthoritative(a, remote); err != nil {
		return err
	}
	e.status.RecordSuccess()
	return nil
}

// Push reconciles the current local working set into the remote store:
// fetch, merge by id with local winning collisions, drop tombstoned
// records, upsert the merged set, propagate deletes, then adopt the remote
// read-back as the new authoritative cache value.
func (e *Engine) Push(ctx context.Context, dataset string) error {
	a, err := e.adapter(dataset)
	if err != nil {
		return err
	}
	_, err, _ = e.group.Do("push:"+dataset, func() (interface{}, error) {
		return nil, e.push(ctx, a)
	})
	return err
}

func (e *Engine) push(ctx context.Context, a Adapter) (err error) {
	if !e.oracle.IsOnline() {
		e.status.RecordError(ErrOffline)
		return ErrOffline
	}
	if err = e.begin(a.Dataset()); err != nil {
		return err
	}
	defer func() { e.finish(a.Dataset(), err) }()

	local, err := e.localRecords(a.CacheKey())
	if err != nil {
		return err
	}
	remote, err := a.FetchAll(ctx)
	if err != nil {
		e.status.RecordError(err)
		return err
	}

	localStones := e.localTombstones(a.Dataset())
	dead, err := e.deadIDs(ctx, a.Dataset(), localStones)
	if err != nil {
		e.status.RecordError(err)
		return err
	}

	merged := dropTombstoned(mergeRecords(remote, local), dead)

	if err = a.UpsertMany(ctx, merged); err != nil {
		e.status.RecordError(err)
		return err
	}
	if len(localStones) > 0 {
		if err = e.tombs.Add(ctx, localStones); err != nil {
			e.status.RecordError(err)
			return err
		}
	}
	if len(dead) > 0 {
		ids := make([]string, 0, len(dead))
		for id := range dead {
			ids = append(ids, id)
		}
		if err = a.DeleteWhere(ctx, ids); err != nil {
			e.status.RecordError(err)
			return err
		}
	}

	// read back to capture remote-assigned defaults
	readBack, err := a.FetchAll(ctx)
	if err != nil {
		e.status.RecordError(err)
		return err
	}
	readBack = dropTombstoned(readBack, dead)

	if err = e.writeAuthoritative(a, readBack); err != nil {
		return err
	}
	_ = e.cache.Remove(cache.TombstonesKey(a.Dataset()))
	e.status.RecordSuccess()
	return nil
}

// SaveLocal upserts one record into the dataset's local working set. The
// cache write is unconditional and happens before any remote attempt, so a
// remote failure degrades to "saved locally only" and never to data loss.
func (e *Engine) SaveLocal(ctx context.Context, dataset string, rec SyncRecord) (SaveResult, error) {
	a, err := e.adapter(dataset)
	if err != nil {
		return SaveResult{}, err
	}
	local, err := e.localRecords(a.CacheKey())
	if err != nil {
		return SaveResult{}, err
	}

	replaced := false
	for i := range local {
		if local[i].ID == rec.ID {
			local[i] = rec
			replaced = true
			break
		}
	}
	if !replaced {
		local = append(local, rec)
	}

	if err := e.writeLocal(a, local); err != nil {
		return SaveResult{}, err
	}
	// an edit revives the id: discard any pending tombstone for it
	e.discardLocalTombstone(dataset, rec.ID)

	return e.opportunisticPush(ctx, dataset), nil
}

// Delete removes a record from the local working set, writes a tombstone so
// the delete survives merges, then pushes opportunistically.
func (e *Engine) Delete(ctx context.Context, dataset, id string) (SaveResult, error) {
	a, err := e.adapter(dataset)
	if err != nil {
		return SaveResult{}, err
	}
	local, err := e.localRecords(a.CacheKey())
	if err != nil {
		return SaveResult{}, err
	}

	kept := local[:0]
	for _, rec := range local {
		if rec.ID != id {
			kept = append(kept, rec)
		}
	}
	if err := e.writeLocal(a, kept); err != nil {
		return SaveResult{}, err
	}

	stones := e.localTombstones(dataset)
	stones = append(stones, domain.Tombstone{Dataset: dataset, RecordID: id, DeletedAt: e.clock()})
	if err := e.cache.PutJSON(cache.TombstonesKey(dataset), stones); err != nil {
		return SaveResult{}, err
	}

	return e.opportunisticPush(ctx, dataset), nil
}

func (e *Engine) opportunisticPush(ctx context.Context, dataset string) SaveResult {
	if !e.oracle.IsOnline() {
		return SaveResult{SyncErr: ErrOffline}
	}
	if err := e.Push(ctx, dataset); err != nil {
		return SaveResult{SyncErr: err}
	}
	return SaveResult{Pushed: true}
}

// PruneTombstones drops remote delete markers older than the cutoff.
func (e *Engine) PruneTombstones(ctx context.Context, before time.Time) error {
	return e.tombs.Prune(ctx, before)
}

// Status reports the sync state of one dataset.
func (e *Engine) Status(dataset string) DatasetStatus {
	e.mu.Lock()
	st, ok := e.states[dataset]
	var snap datasetState
	if ok {
		snap = *st
	}
	e.mu.Unlock()

	state := snap.state
	if state != StateSyncing && !snap.lastAttempt.IsZero() &&
		e.clock().Sub(snap.lastAttempt) >= e.cooldown {
		state = StateIdle
	}
	return DatasetStatus{
		Dataset:     dataset,
		State:       state.String(),
		LastAttempt: snap.lastAttempt,
		EverSynced:  e.everSynced(dataset),
	}
}

// Statuses reports all registered datasets.
func (e *Engine) Statuses() []DatasetStatus {
	out := make([]DatasetStatus, 0, len(e.adapters))
	for name := range e.adapters {
		out = append(out, e.Status(name))
	}
	return out
}

func (e *Engine) begin(dataset string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	st, ok := e.states[dataset]
	if !ok {
		return ErrUnknownDataset
	}
	if st.state == StateSyncing {
		return ErrSyncInFlight
	}
	now := e.clock()
	if !st.lastAttempt.IsZero() && now.Sub(st.lastAttempt) < e.cooldown {
		return ErrCooldown
	}
	st.state = StateSyncing
	st.lastAttempt = now
	return nil
}

func (e *Engine) finish(dataset string, err error) {
	if errors.Is(err, ErrCooldown) || errors.Is(err, ErrSyncInFlight) {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	st := e.states[dataset]
	if err != nil {
		st.state = StateFailed
	} else {
		st.state = StateReconciled
	}
}

func (e *Engine) localRecords(key string) ([]SyncRecord, error) {
	raw, ok, err := e.cache.GetRaw(key)
	if err != nil || !ok {
		return nil, err
	}
	return DecodeRecords(raw)
}

func (e *Engine) localTombstones(dataset string) []domain.Tombstone {
	var stones []domain.Tombstone
	if _, err := e.cache.GetJSON(cache.TombstonesKey(dataset), &stones); err != nil {
		return nil
	}
	return stones
}

func (e *Engine) discardLocalTombstone(dataset, id string) {
	stones := e.localTombstones(dataset)
	kept := stones[:0]
	for _, s := range stones {
		if s.RecordID != id {
			kept = append(kept, s)
		}
	}
	if len(kept) != len(stones) {
		_ = e.cache.PutJSON(cache.TombstonesKey(dataset), kept)
	}
}

// deadIDs collects the tombstoned ids for a dataset from the remote marker
// table plus any extra local markers.
func (e *Engine) deadIDs(ctx context.Context, dataset string, extra []domain.Tombstone) (map[string]bool, error) {
	remoteStones, err := e.tombs.List(ctx, dataset)
	if err != nil {
		return nil, err
	}
	dead := make(map[string]bool, len(remoteStones)+len(extra))
	for _, s := range remoteStones {
		dead[s.RecordID] = true
	}
	for _, s := range extra {
		dead[s.RecordID] = true
	}
	return dead, nil
}

// writeLocal persists the working set and broadcasts a local-sourced change.
func (e *Engine) writeLocal(a Adapter, recs []SyncRecord) error {
	raw, err := EncodeRecords(recs)
	if err != nil {
		return err
	}
	if err := e.cache.PutRaw(a.CacheKey(), raw); err != nil {
		return err
	}
	e.bus.PublishDatasetChange(events.DatasetChange{
		Dataset:   a.Dataset(),
		Timestamp: e.clock(),
		Source:    events.SourceLocal,
	})
	return nil
}

// writeAuthoritative adopts server state as the new cache value, marks the
// dataset as having synced at least once and broadcasts a server-sourced
// change notification.
func (e *Engine) writeAuthoritative(a Adapter, recs []SyncRecord) error {
	raw, err := EncodeRecords(recs)
	if err != nil {
		return err
	}
	if err := e.cache.PutRaw(a.CacheKey(), raw); err != nil {
		return err
	}
	_ = e.cache.PutJSON(cache.EverSyncedKey(a.Dataset()), true)
	e.stampSynced(a.Dataset())
	e.bus.PublishDatasetChange(events.DatasetChange{
		Dataset:   a.Dataset(),
		Timestamp: e.clock(),
		Source:    events.SourceServer,
	})
	return nil
}

func (e *Engine) stampSynced(dataset string) {
	now := e.clock()
	switch dataset {
	case cache.KeyProducts:
		_ = e.cache.PutJSON(cache.KeyLastSyncTimestamp, now)
	case cache.KeyCategories:
		_ = e.cache.PutJSON(cache.KeyLastSyncCategoriesTime, now)
	}
}

func (e *Engine) everSynced(dataset string) bool {
	var flag bool
	if _, err := e.cache.GetJSON(cache.EverSyncedKey(dataset), &flag); err != nil {
		return false
	}
	return flag
}
