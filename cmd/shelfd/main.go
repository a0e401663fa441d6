// cmd/shelfd/main.go
package main

import (
	"net/http"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/filmshelf/filmshelf/cache"
	"github.com/filmshelf/filmshelf/dataset"
	"github.com/filmshelf/filmshelf/internal/config"
	"github.com/filmshelf/filmshelf/internal/http/routes"
	"github.com/filmshelf/filmshelf/poster"
	"github.com/filmshelf/filmshelf/shelf"
)

func main() {
	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("load config")
	}

	// Poster cache tiers
	disk, err := cache.NewFileCache(cfg.CacheDir, cfg.FileCacheBytes)
	if err != nil {
		logger.Fatal().Err(err).Msg("open poster cache")
	}
	tiered := cache.NewTiered(cache.NewMemory(cfg.MemoryCacheBytes), disk)

	fetcher := poster.New(
		poster.WithCache(tiered),
		poster.WithTimeout(cfg.FetchTimeout),
	)

	svc := shelf.New(dataset.NewDefaultLoader(cfg.DatasetDir), fetcher, logger)

	// Router / server
	s := routes.New(routes.ServerOptions{Shelf: svc, Log: logger})
	h := hlog.NewHandler(logger)(s.Router)

	logger.Info().Str("addr", cfg.Addr).Msg("starting shelfd")
	srv := &http.Server{Addr: cfg.Addr, Handler: h}
	if err := srv.ListenAndServe(); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}
