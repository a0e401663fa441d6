// Package dataset locates and reads named catalogue resources from an
// ordered list of candidate sources, returning the bytes from the first
// source that has the resource.
package dataset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNotFound is returned when no candidate source holds the named
// resource.
var ErrNotFound = errors.New("dataset not found")

// Source provides raw bytes for a named resource. Implementations report
// ErrNotFound (via errors.Is) when they do not hold the resource, which
// makes the loader fall through to the next candidate.
type Source interface {
	Open(name string) ([]byte, error)
}

// DirSource reads resources from files in a single directory.
type DirSource struct {
	dir string
}

// NewDirSource returns a source rooted at dir.
func NewDirSource(dir string) *DirSource {
	return &DirSource{dir: dir}
}

func (s *DirSource) Open(name string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, filepath.Base(name)))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
		}
		return nil, err
	}
	return data, nil
}

// MemorySource is a fixed in-memory byte provider, used to inject fixtures
// in tests.
type MemorySource map[string][]byte

func (s MemorySource) Open(name string) ([]byte, error) {
	data, ok := s[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	return data, nil
}
