package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/llehouerou/songshelf/internal/catalog"
	"github.com/llehouerou/songshelf/internal/errmsg"
	"github.com/llehouerou/songshelf/internal/library"
	"github.com/llehouerou/songshelf/internal/search"
	"github.com/llehouerou/songshelf/internal/shelf"
)

func runScan(ctx context.Context, s *shelf.Shelf, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("scan", flag.ContinueOnError)
	fs.SetOutput(stderr)
	force := fs.Bool("force", false, "reread every song, ignoring modification times")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%s: %w", errmsg.Format(errmsg.OpParseArgs, err), errUsage)
	}

	progress := make(chan library.ScanProgress)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for p := range progress {
			if p.Phase == library.PhaseProcessing {
				fmt.Fprint(stderr, renderProgress(p))
			}
		}
	}()

	stats, err := s.Scan(ctx, *force, progress)
	<-done
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpLibraryScan, err))
	}
	fmt.Fprint(stdout, renderScanStats(stats))
	return nil
}

func reload(ctx context.Context, s *shelf.Shelf) (*catalog.Catalog, error) {
	c, err := s.Reload(ctx)
	var loadErr *shelf.LoadError
	if errors.As(err, &loadErr) {
		return nil, errors.New(errmsg.Format(errmsg.OpLibraryLoad, loadErr.Err))
	}
	if err != nil {
		return nil, errors.New(errmsg.Format(errmsg.OpCacheBuild, err))
	}
	return c, nil
}

func runBrowse(ctx context.Context, s *shelf.Shelf, args []string, stdout io.Writer) error {
	if len(args) != 1 {
		return fmt.Errorf("browse takes one attribute: %w", errUsage)
	}
	attr, err := catalog.ParseAttribute(args[0])
	if err != nil {
		return errors.New(errmsg.FormatWith(errmsg.OpCatalogQuery, args[0], err))
	}

	c, err := reload(ctx, s)
	if err != nil {
		return err
	}
	categories, err := c.SortedCategories(attr)
	if err != nil {
		return errors.New(errmsg.FormatWith(errmsg.OpCatalogQuery, attr.String(), err))
	}
	fmt.Fprint(stdout, renderCategories(attr, categories))
	return nil
}

func runRandom(ctx context.Context, s *shelf.Shelf, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("random", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	n := fs.Int("n", 1, "number of songs")
	if err := fs.Parse(args); err != nil || *n < 1 {
		return fmt.Errorf("random takes -n <count> with count >= 1: %w", errUsage)
	}

	c, err := reload(ctx, s)
	if err != nil {
		return err
	}
	for range *n {
		song, ok := c.RandomSong()
		if !ok {
			fmt.Fprintln(stdout, "library is empty")
			return nil
		}
		fmt.Fprintln(stdout, renderSong(song))
	}
	return nil
}

func runFind(ctx context.Context, s *shelf.Shelf, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("find", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	limit := fs.Int("n", 20, "maximum number of results")
	if err := fs.Parse(args); err != nil || fs.NArg() == 0 {
		return fmt.Errorf("find takes a query: %w", errUsage)
	}

	c, err := reload(ctx, s)
	if err != nil {
		return err
	}
	matches := search.NewIndex(c.Songs()).Search(strings.Join(fs.Args(), " "), *limit)
	if len(matches) == 0 {
		fmt.Fprintln(stdout, "no matches")
		return nil
	}
	for _, m := range matches {
		fmt.Fprintln(stdout, renderSong(m.Song))
	}
	return nil
}

func runStats(ctx context.Context, s *shelf.Shelf, stdout io.Writer) error {
	c, err := reload(ctx, s)
	if err != nil {
		return err
	}
	fmt.Fprint(stdout, renderStats(c))
	return nil
}
