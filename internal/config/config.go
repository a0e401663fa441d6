// Package config handles application configuration from environment variables
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all application configuration
type Config struct {
	// Addr is the listen address of the catalogue HTTP surface.
	Addr string `env:"FILMSHELF_ADDR" envDefault:":8080"`

	// DatasetDir is an optional directory probed before the default
	// dataset locations.
	DatasetDir string `env:"FILMSHELF_DATASET_DIR"`

	// CacheDir overrides the persistent poster cache location. Empty
	// means the XDG cache home.
	CacheDir string `env:"FILMSHELF_CACHE_DIR"`

	// MemoryCacheBytes bounds the in-memory poster cache tier.
	MemoryCacheBytes int64 `env:"FILMSHELF_MEMORY_CACHE_BYTES" envDefault:"52428800"`

	// FileCacheBytes bounds the persistent poster cache tier.
	FileCacheBytes int64 `env:"FILMSHELF_FILE_CACHE_BYTES" envDefault:"104857600"`

	// FetchTimeout bounds a single poster fetch attempt.
	FetchTimeout time.Duration `env:"FILMSHELF_FETCH_TIMEOUT" envDefault:"30s"`

	// PrefetchLimit is the number of poster fetches kept in flight while
	// warming the cache after a dataset load.
	PrefetchLimit int `env:"FILMSHELF_PREFETCH_LIMIT" envDefault:"4"`
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate ensures the configured limits are usable
func (c *Config) Validate() error {
	if c.MemoryCacheBytes <= 0 {
		return fmt.Errorf("FILMSHELF_MEMORY_CACHE_BYTES must be positive, got %d", c.MemoryCacheBytes)
	}
	if c.FileCacheBytes <= 0 {
		return fmt.Errorf("FILMSHELF_FILE_CACHE_BYTES must be positive, got %d", c.FileCacheBytes)
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("FILMSHELF_FETCH_TIMEOUT must be positive, got %s", c.FetchTimeout)
	}
	if c.PrefetchLimit <= 0 {
		return fmt.Errorf("FILMSHELF_PREFETCH_LIMIT must be positive, got %d", c.PrefetchLimit)
	}
	return nil
}
