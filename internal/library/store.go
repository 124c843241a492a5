package library

import (
	"context"
	"database/sql"
	"path/filepath"
	"strings"
	"time"

	"github.com/llehouerou/songshelf/internal/catalog"
	dbutil "github.com/llehouerou/songshelf/internal/db"
)

// executor is satisfied by both *sql.DB and *sql.Tx.
type executor interface {
	Exec(query string, args ...any) (sql.Result, error)
}

// Record is a scanned song together with the file state it was read from.
type Record struct {
	Song  *catalog.Song
	Mtime int64
}

// Upsert stores records in a single transaction, keyed by path.
//
// added_at belongs to the content hash: a song whose hash is already known
// inherits the earliest added_at of that hash, otherwise the file mtime is
// used. Replacing a file with new content resets it the same way.
func (l *Library) Upsert(ctx context.Context, records []Record) error {
	return dbutil.WithTx(ctx, l.db, func(tx *sql.Tx) error {
		for _, r := range records {
			if err := upsertSong(tx, r); err != nil {
				return err
			}
		}
		return nil
	})
}

func upsertSong(ex executor, r Record) error {
	s := r.Song
	now := time.Now().Unix()
	_, err := ex.Exec(`
		INSERT INTO songs (path, hash, mtime, title, artist, album, genre, year, charter, playlist, source, length_ms, instruments, added_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?,
			COALESCE((SELECT MIN(added_at) FROM songs WHERE hash = ?), ?), ?)
		ON CONFLICT(path) DO UPDATE SET
			hash = excluded.hash,
			mtime = excluded.mtime,
			title = excluded.title,
			artist = excluded.artist,
			album = excluded.album,
			genre = excluded.genre,
			year = excluded.year,
			charter = excluded.charter,
			playlist = excluded.playlist,
			source = excluded.source,
			length_ms = excluded.length_ms,
			instruments = excluded.instruments,
			added_at = CASE WHEN songs.hash = excluded.hash THEN songs.added_at ELSE excluded.added_at END,
			updated_at = excluded.updated_at
	`, s.Path, s.Hash, r.Mtime, s.Title,
		dbutil.NullString(s.Artist), dbutil.NullString(s.Album), dbutil.NullString(s.Genre), dbutil.NullString(s.Year),
		dbutil.NullString(s.Charter), dbutil.NullString(s.Playlist), dbutil.NullString(s.Source),
		s.Length.Milliseconds(), dbutil.NullString(formatInstruments(s.Instruments)),
		s.Hash, r.Mtime, now)
	return err
}

// Delete removes the songs stored under the given paths.
func (l *Library) Delete(ctx context.Context, paths []string) error {
	return dbutil.WithTx(ctx, l.db, func(tx *sql.Tx) error {
		for _, p := range paths {
			if _, err := tx.Exec(`DELETE FROM songs WHERE path = ?`, p); err != nil {
				return err
			}
		}
		return nil
	})
}

// existingSongs returns path->mtime for songs stored under any of sources.
func (l *Library) existingSongs(sources []string) (map[string]int64, error) {
	rows, err := l.db.Query(`SELECT path, mtime FROM songs`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	songs := make(map[string]int64)
	for rows.Next() {
		var path string
		var mtime int64
		if err := rows.Scan(&path, &mtime); err != nil {
			return nil, err
		}
		if sourceOf(sources, path) != "" {
			songs[path] = mtime
		}
	}
	return songs, rows.Err()
}

// sourceOf returns the source containing path, or "" if none does.
func sourceOf(sources []string, path string) string {
	for _, src := range sources {
		if path == src || strings.HasPrefix(path, filepath.Clean(src)+string(filepath.Separator)) {
			return src
		}
	}
	return ""
}
