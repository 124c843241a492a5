// Package library persists scanned songs in SQLite and scans library sources
// for chart folders and tagged audio files.
package library

import (
	"database/sql"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/llehouerou/songshelf/internal/catalog"
	dbutil "github.com/llehouerou/songshelf/internal/db"
)

type Library struct {
	db  *sql.DB
	log *slog.Logger
}

// New wraps an open database. The schema must already exist; use Open or
// InitSchema.
func New(db *sql.DB) *Library {
	return &Library{db: db, log: slog.Default().With("component", "library")}
}

// Open opens (creating if needed) the SQLite database at path.
func Open(path string) (*Library, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if path == ":memory:" {
		// Every pooled connection would get its own empty in-memory database.
		db.SetMaxOpenConns(1)
	}

	if err := InitSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return New(db), nil
}

func (l *Library) Close() error {
	return l.db.Close()
}

// DB returns the underlying database handle.
func (l *Library) DB() *sql.DB {
	return l.db
}

const songColumns = `hash, path, title, artist, album, genre, year, charter, playlist, source, length_ms, instruments, added_at`

// Songs returns every stored song ordered by path.
func (l *Library) Songs() ([]*catalog.Song, error) {
	rows, err := l.db.Query(`SELECT ` + songColumns + ` FROM songs ORDER BY path`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var songs []*catalog.Song
	for rows.Next() {
		s, err := scanSong(rows)
		if err != nil {
			return nil, err
		}
		songs = append(songs, s)
	}
	return songs, rows.Err()
}

// SongByPath returns the song stored for path.
func (l *Library) SongByPath(path string) (*catalog.Song, error) {
	row := l.db.QueryRow(`SELECT `+songColumns+` FROM songs WHERE path = ?`, path)
	return scanSong(row)
}

func (l *Library) Count() (int, error) {
	var count int
	err := l.db.QueryRow(`SELECT COUNT(*) FROM songs`).Scan(&count)
	return count, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSong(row scanner) (*catalog.Song, error) {
	var s catalog.Song
	var artist, album, genre, year, charter, playlist, source, instruments sql.NullString
	var lengthMs, addedAt sql.NullInt64

	if err := row.Scan(&s.Hash, &s.Path, &s.Title, &artist, &album, &genre, &year,
		&charter, &playlist, &source, &lengthMs, &instruments, &addedAt); err != nil {
		return nil, err
	}

	s.Artist = dbutil.NullStringValue(artist)
	s.Album = dbutil.NullStringValue(album)
	s.Genre = dbutil.NullStringValue(genre)
	s.Year = dbutil.NullStringValue(year)
	s.Charter = dbutil.NullStringValue(charter)
	s.Playlist = dbutil.NullStringValue(playlist)
	s.Source = dbutil.NullStringValue(source)
	s.Length = time.Duration(dbutil.NullInt64Value(lengthMs)) * time.Millisecond
	if addedAt.Valid {
		s.DateAdded = time.Unix(addedAt.Int64, 0)
	}
	s.Instruments = parseInstruments(dbutil.NullStringValue(instruments))
	return &s, nil
}

// formatInstruments stores instruments as a comma separated list of names.
func formatInstruments(insts []catalog.Instrument) string {
	names := make([]string, len(insts))
	for i, inst := range insts {
		names[i] = inst.String()
	}
	return strings.Join(names, ",")
}

func parseInstruments(s string) []catalog.Instrument {
	if s == "" {
		return nil
	}
	var insts []catalog.Instrument
	for _, name := range strings.Split(s, ",") {
		if inst, ok := catalog.ParseInstrument(name); ok {
			insts = append(insts, inst)
		}
	}
	return insts
}
