package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/adrg/xdg"
	"github.com/google/uuid"
)

// DefaultFileLimit bounds the persistent tier.
const DefaultFileLimit int64 = 100 << 20 // 100 MiB

// FileCache implements the ReadWriter interface using filesystem storage.
// Entries survive process restarts. Writes go to a temporary file first
// and are renamed into place, so concurrent writers resolve as last write
// wins without torn entries.
type FileCache struct {
	dir   string
	limit int64

	// Serializes the capacity sweep; reads and writes do not take it.
	sweepMu sync.Mutex
}

// DefaultDir returns the production location of the persistent tier.
func DefaultDir() string {
	return filepath.Join(xdg.CacheHome, "filmshelf", "posters")
}

// NewFileCache creates a file-based cache in dir, bounded by limit bytes.
// If dir is empty, DefaultDir is used; a non-positive limit falls back to
// DefaultFileLimit.
func NewFileCache(dir string, limit int64) (*FileCache, error) {
	if dir == "" {
		dir = DefaultDir()
	}
	if limit <= 0 {
		limit = DefaultFileLimit
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}
	return &FileCache{dir: dir, limit: limit}, nil
}

// Read implements Reader interface
func (fc *FileCache) Read(key string) (*Entry, bool) {
	data, err := os.ReadFile(fc.path(key))
	if err != nil {
		return nil, false
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, false
	}
	return &entry, true
}

// Write implements Writer interface. The caller's entry is never
// mutated; a missing fetch timestamp is stamped on a local copy.
func (fc *FileCache) Write(key string, entry *Entry) error {
	stamped := *entry
	if stamped.FetchedAt.IsZero() {
		stamped.FetchedAt = time.Now()
	}

	data, err := json.Marshal(&stamped)
	if err != nil {
		return err
	}

	// Write to temporary file first, then rename (atomic operation)
	path := fc.path(key)
	tmpPath := path + ".tmp." + uuid.NewString()
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return err
	}

	fc.sweep()
	return nil
}

// path generates the full filesystem path for a cache key
func (fc *FileCache) path(key string) string {
	return filepath.Join(fc.dir, key)
}

// sweep drops the oldest entries until the tier is within its byte budget.
// Sweep failures are deliberately silent: a lost entry is just a future
// cache miss.
func (fc *FileCache) sweep() {
	fc.sweepMu.Lock()
	defer fc.sweepMu.Unlock()

	dirents, err := os.ReadDir(fc.dir)
	if err != nil {
		return
	}

	type fileInfo struct {
		name    string
		size    int64
		modTime time.Time
	}

	var total int64
	files := make([]fileInfo, 0, len(dirents))
	for _, de := range dirents {
		info, err := de.Info()
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		files = append(files, fileInfo{name: de.Name(), size: info.Size(), modTime: info.ModTime()})
		total += info.Size()
	}
	if total <= fc.limit {
		return
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].modTime.Before(files[j].modTime)
	})
	for _, f := range files {
		if total <= fc.limit {
			return
		}
		if err := os.Remove(filepath.Join(fc.dir, f.name)); err == nil {
			total -= f.size
		}
	}
}
