package cache

import (
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func entryWithBody(body string) *Entry {
	return &Entry{FetchedAt: time.Now(), Status: 200, Body: []byte(body)}
}

func TestMemoryReadWrite(t *testing.T) {
	m := NewMemory(1 << 10)

	_, ok := m.Read("missing")
	require.False(t, ok)

	require.NoError(t, m.Write("a", entryWithBody("payload")))
	got, ok := m.Read("a")
	require.True(t, ok)
	require.Equal(t, []byte("payload"), got.Body)
}

func TestMemoryEvictsLeastRecentlyUsed(t *testing.T) {
	// Limit fits exactly two 4-byte bodies.
	m := NewMemory(8)
	require.NoError(t, m.Write("a", entryWithBody("aaaa")))
	require.NoError(t, m.Write("b", entryWithBody("bbbb")))

	// Touch "a" so "b" is the eviction candidate.
	_, ok := m.Read("a")
	require.True(t, ok)

	require.NoError(t, m.Write("c", entryWithBody("cccc")))

	_, ok = m.Read("b")
	require.False(t, ok)
	_, ok = m.Read("a")
	require.True(t, ok)
	_, ok = m.Read("c")
	require.True(t, ok)
	require.Equal(t, 2, m.Len())
}

func TestMemoryOversizedEntryNotStored(t *testing.T) {
	m := NewMemory(4)
	require.NoError(t, m.Write("big", entryWithBody("too large to fit")))
	_, ok := m.Read("big")
	require.False(t, ok)
	require.Equal(t, 0, m.Len())
}

func TestMemoryLastWriteWins(t *testing.T) {
	m := NewMemory(1 << 10)
	require.NoError(t, m.Write("k", entryWithBody("old")))
	require.NoError(t, m.Write("k", entryWithBody("new")))

	got, ok := m.Read("k")
	require.True(t, ok)
	require.Equal(t, []byte("new"), got.Body)
	require.Equal(t, 1, m.Len())
}

func TestMemoryConcurrentAccess(t *testing.T) {
	m := NewMemory(1 << 16)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := fmt.Sprintf("key-%d", j%10)
				_ = m.Write(key, entryWithBody(fmt.Sprintf("body-%d-%d", n, j)))
				m.Read(key)
			}
		}(i)
	}
	wg.Wait()
	require.LessOrEqual(t, m.Len(), 10)
}

func TestFileCacheSurvivesReopen(t *testing.T) {
	dir := t.TempDir()

	fc, err := NewFileCache(dir, 1<<20)
	require.NoError(t, err)
	require.NoError(t, fc.Write(KeyForURL("https://img.example.com/a.jpg"), entryWithBody("poster bytes")))

	// A fresh instance over the same directory sees the entry.
	reopened, err := NewFileCache(dir, 1<<20)
	require.NoError(t, err)
	got, ok := reopened.Read(KeyForURL("https://img.example.com/a.jpg"))
	require.True(t, ok)
	require.Equal(t, []byte("poster bytes"), got.Body)
	require.Equal(t, 200, got.Status)
}

func TestFileCacheWriteDoesNotMutateEntry(t *testing.T) {
	fc, err := NewFileCache(t.TempDir(), 1<<20)
	require.NoError(t, err)

	entry := &Entry{Status: 200, Body: []byte("poster bytes")}
	require.NoError(t, fc.Write("k.bin", entry))

	// Entries are immutable value data; the stamp lands on the stored
	// copy only.
	require.True(t, entry.FetchedAt.IsZero())

	stored, ok := fc.Read("k.bin")
	require.True(t, ok)
	require.False(t, stored.FetchedAt.IsZero())
}

func TestFileCacheMiss(t *testing.T) {
	fc, err := NewFileCache(t.TempDir(), 1<<20)
	require.NoError(t, err)

	_, ok := fc.Read("absent.bin")
	require.False(t, ok)
}

func TestFileCacheSweepsOldestFirst(t *testing.T) {
	// Each entry serializes to roughly 470 bytes (300-byte body, base64
	// encoded, plus metadata); the limit fits two entries but not three.
	fc, err := NewFileCache(t.TempDir(), 1100)
	require.NoError(t, err)

	body := strings.Repeat("x", 300)
	require.NoError(t, fc.Write("old.bin", entryWithBody(body)))
	// Ensure distinct mod times so the sweep order is deterministic.
	time.Sleep(20 * time.Millisecond)
	require.NoError(t, fc.Write("mid.bin", entryWithBody(body)))
	time.Sleep(20 * time.Millisecond)
	require.NoError(t, fc.Write("new.bin", entryWithBody(body)))

	_, okOld := fc.Read("old.bin")
	_, okMid := fc.Read("mid.bin")
	_, okNew := fc.Read("new.bin")
	require.False(t, okOld)
	require.True(t, okMid)
	require.True(t, okNew)
}

func TestTieredPromotesDiskHits(t *testing.T) {
	mem := NewMemory(1 << 10)
	disk, err := NewFileCache(t.TempDir(), 1<<20)
	require.NoError(t, err)

	// Seed only the disk tier, simulating a restart that emptied memory.
	require.NoError(t, disk.Write("k.bin", entryWithBody("from disk")))

	tiered := NewTiered(mem, disk)
	got, ok := tiered.Read("k.bin")
	require.True(t, ok)
	require.Equal(t, []byte("from disk"), got.Body)

	// The hit is now in memory too.
	got, ok = mem.Read("k.bin")
	require.True(t, ok)
	require.Equal(t, []byte("from disk"), got.Body)
}

func TestTieredWritesBothTiers(t *testing.T) {
	mem := NewMemory(1 << 10)
	disk, err := NewFileCache(t.TempDir(), 1<<20)
	require.NoError(t, err)

	tiered := NewTiered(mem, disk)
	require.NoError(t, tiered.Write("k.bin", entryWithBody("both")))

	_, ok := mem.Read("k.bin")
	require.True(t, ok)
	_, ok = disk.Read("k.bin")
	require.True(t, ok)
}

func TestTieredNilTiers(t *testing.T) {
	tiered := NewTiered(nil, nil)
	_, ok := tiered.Read("k")
	require.False(t, ok)
	require.NoError(t, tiered.Write("k", entryWithBody("x")))
}

func TestEntryStale(t *testing.T) {
	now := time.Now()

	fresh := &Entry{FetchedAt: now, ExpiresAt: now.Add(time.Hour)}
	require.False(t, fresh.Stale(now))

	expired := &Entry{FetchedAt: now.Add(-2 * time.Hour), ExpiresAt: now.Add(-time.Hour)}
	require.True(t, expired.Stale(now))

	// No expiry metadata means never stale.
	unbounded := &Entry{FetchedAt: now.Add(-240 * time.Hour)}
	require.False(t, unbounded.Stale(now))
}

func TestKeyForURL(t *testing.T) {
	key := KeyForURL("https://img.example.com/posters/departed.jpg")
	require.Equal(t, key, KeyForURL("https://img.example.com/posters/departed.jpg"))
	require.NotEqual(t, key, KeyForURL("https://img.example.com/posters/arrival.jpg"))
	require.NotContains(t, key, "/")
	require.NotContains(t, key, ":")

	long := KeyForURL("https://img.example.com/" + strings.Repeat("a", 400))
	require.LessOrEqual(t, len(long), 200)
}
