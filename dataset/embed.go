package dataset

import (
	"embed"
	"fmt"
	"path"
)

//go:embed bundled
var bundled embed.FS

// BundledSource serves the datasets compiled into the binary. It is the
// last candidate in the default order so a fresh install always has a
// catalogue to show.
type BundledSource struct{}

func (BundledSource) Open(name string) ([]byte, error) {
	data, err := bundled.ReadFile(path.Join("bundled", path.Base(name)))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	return data, nil
}
