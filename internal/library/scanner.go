package library

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/llehouerou/songshelf/internal/catalog"
)

const defaultWorkers = 8

// Scan phases reported through ScanProgress.
const (
	PhaseScanning   = "scanning"
	PhaseProcessing = "processing"
	PhaseCleaning   = "cleaning"
	PhaseDone       = "done"
)

// ScanProgress reports the progress of a library scan.
type ScanProgress struct {
	Phase       string
	Current     int
	Total       int
	CurrentFile string
	Stats       *ScanStats // Only populated when Phase == PhaseDone
}

// ScanStats holds statistics for a completed scan.
type ScanStats struct {
	BySource map[string]*SourceStats // keyed by source path
}

// SourceStats holds per-source scan statistics.
type SourceStats struct {
	Added   []string // relative paths of added songs
	Removed []string // relative paths of removed songs
	Updated []string // relative paths of updated songs (mtime changed)
	Failed  []string // relative paths that could not be read
}

// Totals sums the per-source statistics.
func (s *ScanStats) Totals() (added, removed, updated, failed int) {
	for _, src := range s.BySource {
		added += len(src.Added)
		removed += len(src.Removed)
		updated += len(src.Updated)
		failed += len(src.Failed)
	}
	return added, removed, updated, failed
}

// ScanOptions tunes a scan.
type ScanOptions struct {
	Workers int  // parallel readers, defaults to 8
	Force   bool // reread every entry, ignoring modification times
}

// readResult holds the result of reading one entry.
type readResult struct {
	entry entry
	song  *catalog.Song
	err   error
	isNew bool
}

// Scan incrementally indexes the given sources. Unreadable entries are
// recorded in the stats and skipped; database errors abort the scan.
// progress may be nil; when set it is closed once Scan returns.
func (l *Library) Scan(ctx context.Context, sources []string, opts ScanOptions, progress chan<- ScanProgress) (*ScanStats, error) {
	if progress != nil {
		defer close(progress)
	}
	report := func(p ScanProgress) {
		if progress == nil {
			return
		}
		select {
		case progress <- p:
		case <-ctx.Done():
		}
	}

	stats := &ScanStats{BySource: make(map[string]*SourceStats)}
	for _, src := range sources {
		stats.BySource[src] = &SourceStats{}
	}

	// Phase 1: Find chart folders and music files
	report(ScanProgress{Phase: PhaseScanning})
	entries, err := discoverEntries(ctx, sources, report)
	if err != nil {
		return nil, err
	}
	discovered := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		discovered[e.path] = struct{}{}
	}

	// Phase 2: Keep only new or modified entries
	existing, err := l.existingSongs(sources)
	if err != nil {
		return nil, err
	}
	toRead := make([]entry, 0, len(entries))
	isNew := make(map[string]bool)
	for _, e := range entries {
		mtime, existed := existing[e.path]
		if !opts.Force && existed && mtime == e.mtime {
			continue
		}
		isNew[e.path] = !existed
		toRead = append(toRead, e)
	}

	// Phase 3: Read entries in parallel, store sequentially
	if len(toRead) > 0 {
		if err := l.processEntries(ctx, toRead, isNew, opts.Workers, stats, report); err != nil {
			return nil, err
		}
	}

	// Phase 4: Drop songs whose files are gone
	report(ScanProgress{Phase: PhaseCleaning})
	var removed []string
	for path := range existing {
		if _, ok := discovered[path]; ok {
			continue
		}
		removed = append(removed, path)
		if src := sourceOf(sources, path); src != "" {
			stats.BySource[src].Removed = append(stats.BySource[src].Removed, relativePath(src, path))
		}
	}
	if err := l.Delete(ctx, removed); err != nil {
		return nil, err
	}

	added, deleted, updated, failed := stats.Totals()
	l.log.Info("library scan complete",
		"entries", len(entries), "added", added, "updated", updated,
		"removed", deleted, "failed", failed)

	report(ScanProgress{Phase: PhaseDone, Current: len(entries), Total: len(entries), Stats: stats})
	return stats, nil
}

func (l *Library) processEntries(
	ctx context.Context,
	toRead []entry,
	isNew map[string]bool,
	workers int,
	stats *ScanStats,
	report func(ScanProgress),
) error {
	if workers <= 0 {
		workers = defaultWorkers
	}
	total := len(toRead)
	var processed atomic.Int64

	workCh := make(chan entry, total)
	resultCh := make(chan readResult, total)

	var wg sync.WaitGroup
	for range workers {
		wg.Go(func() {
			for e := range workCh {
				if ctx.Err() != nil {
					processed.Add(1)
					continue
				}
				var s *catalog.Song
				var err error
				if e.chart {
					s, err = readChart(e.path)
				} else {
					s, err = readAudio(e.path, e.source)
				}
				resultCh <- readResult{entry: e, song: s, err: err, isNew: isNew[e.path]}
				processed.Add(1)
			}
		})
	}

	for _, e := range toRead {
		workCh <- e
	}
	close(workCh)

	// Progress reporter
	done := make(chan struct{})
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				report(ScanProgress{Phase: PhaseProcessing, Current: int(processed.Load()), Total: total})
			case <-done:
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	records := make([]Record, 0, total)
	for r := range resultCh {
		srcStats := stats.BySource[r.entry.source]
		rel := relativePath(r.entry.source, r.entry.path)
		if r.err != nil {
			l.log.Warn("skipping unreadable song", "path", r.entry.path, "error", r.err)
			srcStats.Failed = append(srcStats.Failed, rel)
			continue
		}
		records = append(records, Record{Song: r.song, Mtime: r.entry.mtime})
		if r.isNew {
			srcStats.Added = append(srcStats.Added, rel)
		} else {
			srcStats.Updated = append(srcStats.Updated, rel)
		}
	}
	close(done)
	<-stopped

	if err := ctx.Err(); err != nil {
		return err
	}
	report(ScanProgress{Phase: PhaseProcessing, Current: total, Total: total})
	return l.Upsert(ctx, records)
}
