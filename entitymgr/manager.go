// Package entitymgr implements the content-addressed entity store (spec
// §4.7): a path-rooted on-disk store, an in-memory hash→entity cache behind
// a reader/writer lock, and synchronous plus asynchronous load/store
// dispatched through a chain of PackageRecord collaborators.
package entitymgr

import (
	"context"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"pds/cache"
	"pds/fsops"
	"pds/hashid"
	"pds/logger"
	"pds/status"
	"pds/streams"
	"pds/validate"
	"pds/wire"
)

const entityFileKey = "EntityFile"
const entityTypeKey = "EntityType"
const fileSuffix = ".dat"

// cacheEntry pairs a loaded Entity with a reference count that mirrors the
// source's std::shared_ptr use_count: the cache itself always holds one
// reference, so a count of exactly one means only the cache is keeping the
// entity alive and it is a candidate for UnloadNonReferencedEntities.
type cacheEntry struct {
	entity Entity
	refs   int32
}

// Handle is an outstanding shared reference to a cached Entity. Callers
// that want the entity to survive UnloadNonReferencedEntities must hold a
// Handle and Release it when finished.
type Handle struct {
	mgr    *Manager
	hash   hashid.Hash
	entity Entity
	entry  *cacheEntry
}

// Entity returns the referenced entity.
func (h *Handle) Entity() Entity { return h.entity }

// Hash returns the content-addressing hash identifying the entity.
func (h *Handle) Hash() hashid.Hash { return h.hash }

// Release drops this handle's reference, making the entity eligible for
// eviction by UnloadNonReferencedEntities once no other handle remains.
func (h *Handle) Release() { atomic.AddInt32(&h.entry.refs, -1) }

// Retain returns a new independent Handle to the same entity.
func (h *Handle) Retain() *Handle {
	atomic.AddInt32(&h.entry.refs, 1)
	return &Handle{mgr: h.mgr, hash: h.hash, entity: h.entity, entry: h.entry}
}

// Manager is the content-addressed entity store described in spec §4.7.
type Manager struct {
	fs       fsops.FS
	hashAlgo hashid.Algorithm
	initialReservation int

	mu            sync.RWMutex // guards cache, records, path
	path          string
	records       []PackageRecord
	cache         map[hashid.Hash]*cacheEntry
	loadSingle    singleflight.Group

	evictPolicy   *cache.Policy
}

// Option configures a Manager at construction time.
type Option func(*Manager)

// WithFS overrides the default os-backed filesystem collaborator.
func WithFS(fs fsops.FS) Option { return func(m *Manager) { m.fs = fs } }

// WithHashAlgorithm selects the content-addressing digest.
func WithHashAlgorithm(algo hashid.Algorithm) Option {
	return func(m *Manager) { m.hashAlgo = algo }
}

// WithInitialWriteReservation overrides the default WriteStream reservation
// used when serializing an entity for Add.
func WithInitialWriteReservation(n int) Option {
	return func(m *Manager) { m.initialReservation = n }
}

// WithCacheBounds bounds the in-memory entity cache by entry count and,
// optionally, approximate memory footprint; eviction candidates beyond the
// refcount-based UnloadNonReferencedEntities sweep are chosen by an
// adaptive recency/frequency policy (spec §4.7). maxEntries of zero or less
// leaves the entry count unbounded.
func WithCacheBounds(maxEntries int, maxMemoryBytes int64) Option {
	return func(m *Manager) {
		m.evictPolicy = cache.NewPolicy(cache.Config{MaxEntries: maxEntries, MaxMemory: maxMemoryBytes})
	}
}

// New creates an uninitialized Manager; call Initialize before use.
func New(opts ...Option) *Manager {
	m := &Manager{
		fs:                 fsops.New(),
		hashAlgo:           hashid.SHA256,
		initialReservation: streams.DefaultInitialReservation,
		cache:              map[hashid.Hash]*cacheEntry{},
		evictPolicy:        cache.NewPolicy(cache.Config{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Initialize binds the manager to path and records. It fails with
// already_initialized if called more than once, and invalid_param if
// records is empty or path is not an existing directory.
func (m *Manager) Initialize(path string, records []PackageRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.path != "" {
		return status.New(status.AlreadyInitialized, "manager already initialized with path %q", m.path)
	}
	if len(records) == 0 {
		return status.New(status.InvalidParam, "at least one package record is required")
	}
	if !m.fs.IsDir(path) {
		return status.New(status.InvalidParam, "path %q is not an existing directory", path)
	}
	m.path = path
	m.records = append([]PackageRecord(nil), records...)
	logger.Info("entitymgr: initialized at %q with %d package record(s)", path, len(records))
	return nil
}

func (m *Manager) filePath(h hashid.Hash) string {
	return m.path + "/" + h.String() + fileSuffix
}

// IsEntityLoaded reports whether h is currently cached, taking the
// reader/writer lock's read side.
func (m *Manager) IsEntityLoaded(h hashid.Hash) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.cache[h]
	return ok
}

// GetLoadedEntity returns a Handle to the cached entity for h, if loaded.
// Takes the reader/writer lock's read side.
func (m *Manager) GetLoadedEntity(h hashid.Hash) (*Handle, bool) {
	m.mu.RLock()
	entry, ok := m.cache[h]
	m.mu.RUnlock()
	if !ok {
		return nil, false
	}
	m.evictPolicy.Touch(h)
	atomic.AddInt32(&entry.refs, 1)
	return &Handle{mgr: m, hash: h, entity: entry.entity, entry: entry}, true
}

func (m *Manager) insertCache(h hashid.Hash, e Entity, size int64) *Handle {
	m.mu.Lock()
	entry, ok := m.cache[h]
	if !ok {
		entry = &cacheEntry{entity: e, refs: 1}
		m.cache[h] = entry
		m.evictPolicy.Admit(h, size)
		m.evictOverBudgetLocked()
	} else {
		m.evictPolicy.Touch(h)
	}
	m.mu.Unlock()
	atomic.AddInt32(&entry.refs, 1)
	return &Handle{mgr: m, hash: h, entity: entry.entity, entry: entry}
}

// evictOverBudgetLocked drops unreferenced entries the eviction policy
// recommends until the policy reports the cache back within its configured
// bounds (see WithCacheBounds). Called with mu held for writing. An entry
// the policy recommends that is still referenced is left in place and
// dropped from the policy's own bookkeeping instead, so a single busy hash
// cannot stall eviction of everything behind it.
func (m *Manager) evictOverBudgetLocked() {
	for i := 0; i < len(m.cache); i++ {
		h, ok := m.evictPolicy.ShouldEvict()
		if !ok {
			return
		}
		entry, present := m.cache[h]
		if !present {
			m.evictPolicy.Forget(h)
			continue
		}
		if atomic.LoadInt32(&entry.refs) > 1 {
			m.evictPolicy.Forget(h)
			continue
		}
		delete(m.cache, h)
		m.evictPolicy.Evicted(h)
	}
}

// UnloadNonReferencedEntities sweeps the cache, under the write lock,
// erasing every entry whose reference count indicates only the cache holds
// it (spec §4.7).
func (m *Manager) UnloadNonReferencedEntities() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for h, entry := range m.cache {
		if atomic.LoadInt32(&entry.refs) <= 1 {
			delete(m.cache, h)
			m.evictPolicy.Forget(h)
		}
	}
}

// findRecordForType tries each registered record's New in order until one
// does not return not_found.
func (m *Manager) findRecordForType(typeName string) (PackageRecord, Entity, error) {
	for _, rec := range m.records {
		e, err := rec.New(typeName)
		if status.Is(err, status.NotFound) {
			continue
		}
		if err != nil {
			return nil, nil, err
		}
		return rec, e, nil
	}
	logger.Warn("entitymgr: unknown entity type %q", typeName)
	return nil, nil, status.New(status.NotFound, "no package record claims type %q", typeName)
}

// recordFor finds the PackageRecord willing to own e, probing each
// registered record in turn via a scratch Validate call.
func (m *Manager) recordFor(e Entity) (PackageRecord, error) {
	for _, rec := range m.records {
		if ok, err := ownsProbe(rec, e); err != nil {
			return nil, err
		} else if ok {
			return rec, nil
		}
	}
	return nil, status.New(status.NotFound, "no package record claims type %q", e.TypeName())
}

// ownsProbe is a tiny adapter so recordFor can ask "is this yours?" without
// every PackageRecord implementation needing a dedicated Owns method: it
// calls Validate against a scratch validator and treats not_found exactly
// like every other dispatch operation does.
func ownsProbe(rec PackageRecord, e Entity) (bool, error) {
	v := validate.New()
	err := rec.Validate(e, v)
	if status.Is(err, status.NotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// LoadEntity returns the entity named by h, loading it from disk and
// caching it if necessary.
func (m *Manager) LoadEntity(h hashid.Hash) (*Handle, error) {
	if handle, ok := m.GetLoadedEntity(h); ok {
		return handle, nil
	}

	v, err, _ := m.loadSingle.Do(h.String(), func() (any, error) {
		return m.loadFromDisk(h)
	})
	if err != nil {
		return nil, err
	}
	loaded := v.(loadedEntity)
	return m.insertCache(h, loaded.entity, loaded.size), nil
}

// loadedEntity pairs a deserialized Entity with the on-disk byte size it
// was read from, so the cache's eviction policy can account for it without
// re-serializing the entity just to measure it.
type loadedEntity struct {
	entity Entity
	size   int64
}

func (m *Manager) loadFromDisk(h hashid.Hash) (loadedEntity, error) {
	m.mu.RLock()
	path := m.filePath(h)
	m.mu.RUnlock()

	data, err := m.fs.ReadFile(path)
	if err != nil {
		return loadedEntity{}, status.New(status.CantRead, "reading %q: %v", path, err)
	}
	if len(data) < hashid.Size {
		return loadedEntity{}, status.New(status.Corrupted, "%q: file length %d is below the minimum digest size", path, len(data))
	}
	if got := hashid.Sum(m.hashAlgo, data); got != h {
		return loadedEntity{}, status.New(status.Corrupted, "%q: recomputed hash %s does not match requested %s", path, got, h)
	}

	rs := streams.NewReadStream(data)
	r := wire.NewReader(rs)
	file, err := r.BeginReadSection(entityFileKey, false)
	if err != nil {
		return loadedEntity{}, err
	}
	typeName, err := file.ReadString(entityTypeKey)
	if err != nil {
		return loadedEntity{}, err
	}
	rec, e, err := m.findRecordForType(typeName)
	if err != nil {
		return loadedEntity{}, err
	}
	if err := rec.Read(e, file); err != nil {
		return loadedEntity{}, err
	}
	if err := r.EndReadSection(file); err != nil {
		return loadedEntity{}, err
	}
	return loadedEntity{entity: e, size: int64(len(data))}, nil
}

// LoadEntityAsync dispatches LoadEntity to a task executor, returning a
// Future the caller may Wait on.
func (m *Manager) LoadEntityAsync(ctx context.Context, h hashid.Hash) *Future[*Handle] {
	return newFuture(ctx, func(context.Context) (*Handle, error) {
		return m.LoadEntity(h)
	})
}

// AddEntity validates e, serializes it via its owning PackageRecord, hashes
// the bytes, writes the file if absent, and inserts the entity into the
// cache, returning its content-addressing hash.
func (m *Manager) AddEntity(e Entity) (hashid.Hash, error) {
	rec, err := m.recordFor(e)
	if err != nil {
		return hashid.Hash{}, err
	}

	v := validate.New()
	v.SetRecordErrorDescriptions(true)
	if err := rec.Validate(e, v); err != nil {
		return hashid.Hash{}, err
	}
	if v.GetErrorCount() > 0 {
		return hashid.Hash{}, status.New(status.Invalid, "entity failed validation: %v", v.Err())
	}

	ws := streams.NewWriteStream(m.initialReservation)
	w := wire.NewWriter(ws)
	file, err := w.BeginWriteSection(entityFileKey)
	if err != nil {
		return hashid.Hash{}, err
	}
	if err := file.WriteString(entityTypeKey, e.TypeName()); err != nil {
		return hashid.Hash{}, err
	}
	if err := rec.Write(e, file); err != nil {
		return hashid.Hash{}, err
	}
	if err := w.EndWriteSection(file); err != nil {
		return hashid.Hash{}, err
	}

	data := ws.Bytes()
	h := hashid.Sum(m.hashAlgo, data)

	m.mu.RLock()
	path := m.filePath(h)
	m.mu.RUnlock()
	if err := m.fs.WriteFileExclusive(path, data); err != nil {
		return hashid.Hash{}, status.New(status.CantWrite, "writing %q: %v", path, err)
	}

	m.insertCache(h, e, int64(len(data))).Release()
	return h, nil
}

// AddEntityAsync dispatches AddEntity to a task executor.
func (m *Manager) AddEntityAsync(ctx context.Context, e Entity) *Future[hashid.Hash] {
	return newFuture(ctx, func(context.Context) (hashid.Hash, error) {
		return m.AddEntity(e)
	})
}
