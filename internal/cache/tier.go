package cache

import "sync"

// Tier is one storage capability in the local cache. Implementations are the
// in-memory fast tier, the session-scoped file mirror and the durable bbolt
// tier; Chain composes them into the first-successful-tier policy.
type Tier interface {
	Name() string
	Get(key string) ([]byte, bool, error)
	Put(key string, value []byte) error
	Remove(key string) error
	Has(key string) (bool, error)
}

// MemoryTier is the synchronous fast tier. It is the durability floor for a
// running process: if a put here fails the whole operation fails.
type MemoryTier struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryTier() *MemoryTier {
	return &MemoryTier{data: map[string][]byte{}}
}

func (t *MemoryTier) Name() string { return "memory" }

func (t *MemoryTier) Get(key string) ([]byte, bool, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	v, ok := t.data[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

func (t *MemoryTier) Put(key string, value []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	v := make([]byte, len(value))
	copy(v, value)
	t.data[key] = v
	return nil
}

func (t *MemoryTier) Remove(key string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.data, key)
	return nil
}

func (t *MemoryTier) Has(key string) (bool, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.data[key]
	return ok, nil
}
