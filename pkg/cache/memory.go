package cache

import (
	"context"
	"strconv"
	"sync"
	"time"
)

// DefaultMemoryCapacity bounds the in-process store. Eviction is
// oldest-inserted (FIFO), not LRU: re-setting a key does not refresh its
// position.
const DefaultMemoryCapacity = 100

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// MemoryStore is a bounded in-process Store. It is shared mutable state
// across all requests in one process; multi-process deployments each keep an
// independent copy, so consistency in fallback mode is process-local only.
type MemoryStore struct {
	mu       sync.Mutex
	entries  map[string]memoryEntry
	order    []string // insertion order for FIFO eviction
	capacity int

	now func() time.Time // stubbed in tests
}

func NewMemoryStore(capacity int) *MemoryStore {
	if capacity <= 0 {
		capacity = DefaultMemoryCapacity
	}
	return &MemoryStore{
		entries:  make(map[string]memoryEntry),
		capacity: capacity,
		now:      time.Now,
	}
}

func (m *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[key]
	if !ok {
		return "", false, nil
	}
	// TTL is advisory: expired entries are purged lazily on read.
	if m.now().After(entry.expiresAt) {
		m.removeLocked(key)
		return "", false, nil
	}
	return entry.value, true, nil
}

func (m *MemoryStore) Set(_ context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setLocked(key, value, ttl)
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.removeLocked(key)
	return nil
}

func (m *MemoryStore) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string]memoryEntry)
	m.order = nil
	return nil
}

func (m *MemoryStore) IncrWithExpiry(_ context.Context, key string, ttl time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[key]
	if !ok || m.now().After(entry.expiresAt) {
		// Window reset: fresh counter with a fresh expiry.
		m.setLocked(key, "1", ttl)
		return 1, nil
	}

	n, err := strconv.ParseInt(entry.value, 10, 64)
	if err != nil {
		n = 0
	}
	n++
	// Keep the original expiry so the window does not slide.
	m.entries[key] = memoryEntry{value: strconv.FormatInt(n, 10), expiresAt: entry.expiresAt}
	return n, nil
}

// Len reports the number of entries, including any not yet lazily purged.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

func (m *MemoryStore) setLocked(key, value string, ttl time.Duration) {
	if _, exists := m.entries[key]; !exists {
		if len(m.entries) >= m.capacity && len(m.order) > 0 {
			m.removeLocked(m.order[0])
		}
		m.order = append(m.order, key)
	}
	m.entries[key] = memoryEntry{value: value, expiresAt: m.now().Add(ttl)}
}

func (m *MemoryStore) removeLocked(key string) {
	if _, exists := m.entries[key]; !exists {
		return
	}
	delete(m.entries, key)
	for i, k := range m.order {
		if k == key {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
}
