package dataset

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/adrg/xdg"
)

// DefaultName is the dataset resource loaded when the caller does not ask
// for a specific one.
const DefaultName = "movies.json"

// Loader tries an ordered list of candidate sources and returns the bytes
// from the first one that holds the resource. The candidate order is
// injectable for tests; production code uses NewDefaultLoader.
type Loader struct {
	sources []Source
}

// NewLoader builds a loader over the given candidate order.
func NewLoader(sources ...Source) *Loader {
	return &Loader{sources: sources}
}

// NewDefaultLoader returns the production candidate order: an optional
// explicit directory, the user's data directory, then the bundled
// fallback.
func NewDefaultLoader(dir string) *Loader {
	var sources []Source
	if dir != "" {
		sources = append(sources, NewDirSource(dir))
	}
	sources = append(sources,
		NewDirSource(filepath.Join(xdg.DataHome, "filmshelf")),
		BundledSource{},
	)
	return NewLoader(sources...)
}

// Load returns the named resource from the first candidate that has it.
// It returns ErrNotFound when no candidate holds the resource; any other
// source error aborts the probe.
func (l *Loader) Load(name string) ([]byte, error) {
	for _, src := range l.sources {
		data, err := src.Open(name)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return nil, err
		}
		return data, nil
	}
	return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
}
