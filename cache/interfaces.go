// Package cache provides a bounded two-tier store for fetched poster
// bytes: a process-lifetime in-memory LRU tier and a persistent file tier
// that survives restarts. Tiers evict on capacity pressure independently;
// eviction is never an observable error to callers, a miss simply
// degrades to a network fetch upstream.
package cache

import "time"

// Entry is a cached response: the opaque payload plus metadata derived
// from the originating response.
type Entry struct {
	FetchedAt time.Time `json:"fetched_at"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
	Status    int       `json:"status"`
	Body      []byte    `json:"body"`
}

// Size returns the payload size in bytes, the unit both tiers budget
// against.
func (e *Entry) Size() int64 {
	return int64(len(e.Body))
}

// Stale reports whether the entry is past its headers-derived expiry.
// Stale entries are still served: any hit is preferred over a fresh
// network fetch unless the caller explicitly bypasses the cache.
func (e *Entry) Stale(now time.Time) bool {
	return !e.ExpiresAt.IsZero() && now.After(e.ExpiresAt)
}

// Reader defines the interface for reading cache entries
type Reader interface {
	// Read retrieves a cache entry by key
	// Returns the entry and true if found, false otherwise
	Read(key string) (*Entry, bool)
}

// Writer defines the interface for writing cache entries
type Writer interface {
	// Write stores a cache entry with the given key
	Write(key string, entry *Entry) error
}

// ReadWriter combines both cache operations
type ReadWriter interface {
	Reader
	Writer
}
