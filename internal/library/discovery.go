package library

import (
	"context"
	"os"
	"path/filepath"
)

// entry is a discovered song location: a chart folder or an audio file.
type entry struct {
	path   string
	mtime  int64
	source string // source path this entry belongs to
	chart  bool
}

// discoverEntries walks the given source directories. A directory holding a
// song.ini is one chart entry and is not descended into; outside chart
// folders every music file is its own entry.
func discoverEntries(ctx context.Context, sources []string, report func(ScanProgress)) ([]entry, error) {
	var entries []entry
	for _, src := range sources {
		err := filepath.WalkDir(src, func(path string, d os.DirEntry, walkErr error) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			// Skip any walk errors - intentionally continuing to scan other paths
			if walkErr != nil {
				return nil //nolint:nilerr // intentionally skipping errors
			}

			if d.IsDir() {
				if !isChartDir(path) {
					return nil
				}
				entries = append(entries, entry{
					path:   path,
					mtime:  chartMtime(path),
					source: src,
					chart:  true,
				})
				report(ScanProgress{Phase: PhaseScanning, Current: len(entries), CurrentFile: path})
				return filepath.SkipDir
			}

			if !IsMusicFile(path) {
				return nil
			}
			info, infoErr := d.Info()
			// Skip files we can't stat - intentionally continuing to scan other files
			if infoErr != nil {
				return nil //nolint:nilerr // intentionally skipping errors
			}
			entries = append(entries, entry{
				path:   path,
				mtime:  info.ModTime().Unix(),
				source: src,
			})
			if len(entries)%100 == 0 {
				report(ScanProgress{Phase: PhaseScanning, Current: len(entries), CurrentFile: path})
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return entries, nil
}

// chartMtime is the latest modification time of a chart folder's song.ini and
// chart files.
func chartMtime(dir string) int64 {
	var latest int64
	for _, name := range []string{SongIni, NotesMid, NotesChart} {
		if info, err := os.Stat(filepath.Join(dir, name)); err == nil {
			latest = max(latest, info.ModTime().Unix())
		}
	}
	return latest
}

// relativePath returns the path relative to the source, or the full path if not under source.
func relativePath(source, path string) string {
	rel, err := filepath.Rel(source, path)
	if err != nil {
		return path
	}
	return rel
}
