// Package shelf ties the song library, cache builder and catalog together.
package shelf

import (
	"context"
	"log/slog"

	"github.com/llehouerou/songshelf/internal/catalog"
	"github.com/llehouerou/songshelf/internal/config"
	"github.com/llehouerou/songshelf/internal/library"
	"github.com/llehouerou/songshelf/internal/songcache"
)

// LoadError is returned by Reload when the song store cannot be read, as
// opposed to a failed cache build.
type LoadError struct {
	Err error
}

func (e *LoadError) Error() string { return "load songs: " + e.Err.Error() }
func (e *LoadError) Unwrap() error { return e.Err }

// Shelf owns the library database and publishes the current catalog.
type Shelf struct {
	cfg      *config.Config
	lib      *library.Library
	catalogs catalog.Publisher
	log      *slog.Logger
}

// Open opens the library database named by cfg. The catalog starts empty
// until Reload is called.
func Open(cfg *config.Config) (*Shelf, error) {
	lib, err := library.Open(cfg.Database)
	if err != nil {
		return nil, err
	}
	return &Shelf{
		cfg: cfg,
		lib: lib,
		log: slog.Default().With("component", "shelf"),
	}, nil
}

func (s *Shelf) Close() error {
	return s.lib.Close()
}

// Library returns the underlying song store.
func (s *Shelf) Library() *library.Library {
	return s.lib
}

// Catalog returns the most recently published catalog.
func (s *Shelf) Catalog() *catalog.Catalog {
	return s.catalogs.Load()
}

// Scan indexes the configured library sources. progress may be nil.
func (s *Shelf) Scan(ctx context.Context, force bool, progress chan<- library.ScanProgress) (*library.ScanStats, error) {
	return s.lib.Scan(ctx, s.cfg.LibrarySources, library.ScanOptions{
		Workers: s.cfg.Workers,
		Force:   force,
	}, progress)
}

// Reload rebuilds the catalog from the stored songs and publishes it.
// The previous catalog stays valid for readers still holding it.
func (s *Shelf) Reload(ctx context.Context) (*catalog.Catalog, error) {
	songs, err := s.lib.Songs()
	if err != nil {
		return nil, &LoadError{Err: err}
	}

	cache, err := songcache.Build(ctx, songs, songcache.Options{Locale: s.cfg.Language()})
	if err != nil {
		return nil, err
	}

	c := catalog.New(cache, catalog.WithDateLayout(s.cfg.DateLayout))
	s.catalogs.Store(c)
	s.log.Debug("catalog published", "songs", c.Count())
	return c, nil
}
