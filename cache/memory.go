package cache

import (
	"container/list"
	"sync"
)

// DefaultMemoryLimit bounds the in-memory tier.
const DefaultMemoryLimit int64 = 50 << 20 // 50 MiB

// Memory implements the ReadWriter interface with an in-process LRU bounded
// by total payload bytes. It is safe for concurrent use; a write race on
// the same key resolves as last write wins.
type Memory struct {
	mu      sync.Mutex
	limit   int64
	size    int64
	order   *list.List // front is most recently used
	entries map[string]*list.Element
}

type memoryItem struct {
	key   string
	entry *Entry
}

// NewMemory creates a memory tier bounded by limit bytes. A non-positive
// limit falls back to DefaultMemoryLimit.
func NewMemory(limit int64) *Memory {
	if limit <= 0 {
		limit = DefaultMemoryLimit
	}
	return &Memory{
		limit:   limit,
		order:   list.New(),
		entries: make(map[string]*list.Element),
	}
}

// Read implements Reader interface
func (m *Memory) Read(key string) (*Entry, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	el, ok := m.entries[key]
	if !ok {
		return nil, false
	}
	m.order.MoveToFront(el)
	return el.Value.(*memoryItem).entry, true
}

// Write implements Writer interface. Entries larger than the tier limit
// are not stored at all; the caller is not told, a later read is simply a
// miss.
func (m *Memory) Write(key string, entry *Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if el, ok := m.entries[key]; ok {
		m.size -= el.Value.(*memoryItem).entry.Size()
		m.order.Remove(el)
		delete(m.entries, key)
	}

	if entry.Size() > m.limit {
		return nil
	}

	m.entries[key] = m.order.PushFront(&memoryItem{key: key, entry: entry})
	m.size += entry.Size()
	m.evict()
	return nil
}

// Len returns the number of cached entries.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// evict drops least-recently-used entries until the tier is within its
// byte budget. Caller must hold the lock.
func (m *Memory) evict() {
	for m.size > m.limit {
		back := m.order.Back()
		if back == nil {
			return
		}
		item := back.Value.(*memoryItem)
		m.size -= item.entry.Size()
		m.order.Remove(back)
		delete(m.entries, item.key)
	}
}
