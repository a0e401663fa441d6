// Package shelf orchestrates the catalogue core for the presentation
// layer: it loads and decodes the dataset off the caller's render path and
// serves poster bytes through the cached fetcher.
package shelf

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/filmshelf/filmshelf/catalog"
	"github.com/filmshelf/filmshelf/dataset"
)

// Mode selects the decoding strategy for LoadDataset.
type Mode string

const (
	// ModeStrict fails with catalog.ErrMalformedPayload on fundamentally
	// unparsable payloads and defaults individual bad fields.
	ModeStrict Mode = "strict"

	// ModePermissive never fails; structurally wrong entries are dropped
	// so the presentation layer always has something to render.
	ModePermissive Mode = "permissive"
)

// Fetcher is the poster client seam, substitutable in tests.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Service exposes the core operations consumed by the presentation layer.
// Every method is safe for concurrent use.
type Service struct {
	loader  *dataset.Loader
	posters Fetcher
	log     zerolog.Logger
}

func New(loader *dataset.Loader, posters Fetcher, log zerolog.Logger) *Service {
	return &Service{loader: loader, posters: posters, log: log}
}

// LoadDataset loads the named dataset and decodes it according to mode.
// Decoding is a pure in-memory transform; callers that must not block an
// interactive loop run this on their own goroutine and it is safe to do
// so concurrently.
func (s *Service) LoadDataset(ctx context.Context, name string, mode Mode) (catalog.Document, error) {
	if name == "" {
		name = dataset.DefaultName
	}
	if err := ctx.Err(); err != nil {
		return catalog.Document{}, err
	}

	data, err := s.loader.Load(name)
	if err != nil {
		return catalog.Document{}, fmt.Errorf("load dataset %s: %w", name, err)
	}

	switch mode {
	case ModePermissive:
		doc := catalog.Parse(data)
		s.log.Info().Str("dataset", name).Int("categories", len(doc.Categories)).Msg("dataset parsed")
		return doc, nil
	case ModeStrict, "":
		doc, err := catalog.Decode(data)
		if err != nil {
			return catalog.Document{}, fmt.Errorf("decode dataset %s: %w", name, err)
		}
		s.log.Info().Str("dataset", name).Int("categories", len(doc.Categories)).Msg("dataset decoded")
		return doc, nil
	default:
		return catalog.Document{}, fmt.Errorf("unknown decode mode %q", mode)
	}
}

// FetchImage returns the poster bytes for url, cache-first.
func (s *Service) FetchImage(ctx context.Context, url string) ([]byte, error) {
	return s.posters.Fetch(ctx, url)
}

// Prefetch warms the poster cache for every distinct image reference in
// doc, at most limit fetches in flight at once. Individual failures are
// logged and tolerated (the UI falls back to a placeholder); the returned
// error is only non-nil when ctx is cancelled.
func (s *Service) Prefetch(ctx context.Context, doc catalog.Document, limit int) error {
	if limit <= 0 {
		limit = 4
	}

	seen := make(map[string]struct{})
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for _, cat := range doc.Categories {
		for _, it := range cat.Items {
			ref := it.ImageRef
			if ref == "" {
				continue
			}
			if _, ok := seen[ref]; ok {
				continue
			}
			seen[ref] = struct{}{}

			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				if _, err := s.posters.Fetch(ctx, ref); err != nil {
					s.log.Warn().Str("url", ref).Err(err).Msg("poster prefetch failed")
				}
				return nil
			})
		}
	}
	return g.Wait()
}
