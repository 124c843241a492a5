package library

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/llehouerou/songshelf/internal/catalog"
)

func setupTestLibrary(t *testing.T) *Library {
	t.Helper()
	lib, err := Open(":memory:")
	if err != nil {
		t.Fatalf("failed to open test library: %v", err)
	}
	t.Cleanup(func() { lib.Close() })
	return lib
}

func TestUpsertAndSongs(t *testing.T) {
	lib := setupTestLibrary(t)
	ctx := context.Background()

	song := &catalog.Song{
		Hash:        "abc",
		Path:        "/songs/enter sandman",
		Title:       "Enter Sandman",
		Artist:      "Metallica",
		Album:       "Metallica",
		Genre:       "metal",
		Year:        "1991",
		Charter:     "Harmonix",
		Source:      "rb3",
		Length:      331500 * time.Millisecond,
		Instruments: []catalog.Instrument{catalog.InstrumentGuitar, catalog.InstrumentVocals},
	}
	if err := lib.Upsert(ctx, []Record{{Song: song, Mtime: 1000}}); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	songs, err := lib.Songs()
	if err != nil {
		t.Fatalf("Songs failed: %v", err)
	}
	if len(songs) != 1 {
		t.Fatalf("expected 1 song, got %d", len(songs))
	}
	got := songs[0]
	if got.Title != song.Title || got.Artist != song.Artist || got.Genre != song.Genre || got.Year != song.Year {
		t.Errorf("song fields mismatch: %+v", got)
	}
	if got.Playlist != "" {
		t.Errorf("Playlist = %q, want empty", got.Playlist)
	}
	if got.Length != song.Length {
		t.Errorf("Length = %v, want %v", got.Length, song.Length)
	}
	if !got.DateAdded.Equal(time.Unix(1000, 0)) {
		t.Errorf("DateAdded = %v, want mtime", got.DateAdded)
	}
	if len(got.Instruments) != 2 || got.Instruments[1] != catalog.InstrumentVocals {
		t.Errorf("Instruments = %v", got.Instruments)
	}
}

func TestUpsert_KeepsAddedAt(t *testing.T) {
	lib := setupTestLibrary(t)
	ctx := context.Background()

	song := &catalog.Song{Hash: "abc", Path: "/a", Title: "A"}
	if err := lib.Upsert(ctx, []Record{{Song: song, Mtime: 1000}}); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	// Same path, newer mtime: updated, added_at unchanged
	updated := &catalog.Song{Hash: "abc", Path: "/a", Title: "A (Remaster)"}
	// Copy of the same content elsewhere: inherits added_at of the hash
	copied := &catalog.Song{Hash: "abc", Path: "/b", Title: "A"}
	if err := lib.Upsert(ctx, []Record{{Song: updated, Mtime: 2000}, {Song: copied, Mtime: 3000}}); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	for _, path := range []string{"/a", "/b"} {
		s, err := lib.SongByPath(path)
		if err != nil {
			t.Fatalf("SongByPath(%s) failed: %v", path, err)
		}
		if !s.DateAdded.Equal(time.Unix(1000, 0)) {
			t.Errorf("%s: DateAdded = %v, want first seen time", path, s.DateAdded)
		}
	}

	s, _ := lib.SongByPath("/a")
	if s.Title != "A (Remaster)" {
		t.Errorf("Title = %q, want updated title", s.Title)
	}
}

func TestUpsert_NewContentResetsAddedAt(t *testing.T) {
	lib := setupTestLibrary(t)
	ctx := context.Background()

	if err := lib.Upsert(ctx, []Record{
		{Song: &catalog.Song{Hash: "h1", Path: "/m/a", Title: "A"}, Mtime: 100},
		{Song: &catalog.Song{Hash: "h3", Path: "/m/c", Title: "C"}, Mtime: 300},
	}); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	// File replaced in place with unseen content: dated by its own mtime
	if err := lib.Upsert(ctx, []Record{{Song: &catalog.Song{Hash: "h2", Path: "/m/a", Title: "A2"}, Mtime: 5000}}); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	s, err := lib.SongByPath("/m/a")
	if err != nil {
		t.Fatalf("SongByPath failed: %v", err)
	}
	if s.Hash != "h2" || !s.DateAdded.Equal(time.Unix(5000, 0)) {
		t.Errorf("got hash=%s added=%v, want h2 added at 5000", s.Hash, s.DateAdded)
	}

	// Replaced with content known at another path: inherits that date
	if err := lib.Upsert(ctx, []Record{{Song: &catalog.Song{Hash: "h3", Path: "/m/a", Title: "C"}, Mtime: 9000}}); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	s, err = lib.SongByPath("/m/a")
	if err != nil {
		t.Fatalf("SongByPath failed: %v", err)
	}
	if !s.DateAdded.Equal(time.Unix(300, 0)) {
		t.Errorf("DateAdded = %v, want date of known hash", s.DateAdded)
	}
}

func TestDelete(t *testing.T) {
	lib := setupTestLibrary(t)
	ctx := context.Background()

	records := []Record{
		{Song: &catalog.Song{Hash: "1", Path: "/a", Title: "A"}, Mtime: 1},
		{Song: &catalog.Song{Hash: "2", Path: "/b", Title: "B"}, Mtime: 1},
	}
	if err := lib.Upsert(ctx, records); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if err := lib.Delete(ctx, []string{"/a"}); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	count, err := lib.Count()
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
}

func TestInstrumentsRoundTrip(t *testing.T) {
	insts := []catalog.Instrument{catalog.InstrumentCoopGuitar, catalog.InstrumentProKeys}
	got := parseInstruments(formatInstruments(insts))
	if len(got) != 2 || got[0] != insts[0] || got[1] != insts[1] {
		t.Errorf("round trip = %v, want %v", got, insts)
	}
	if parseInstruments("") != nil {
		t.Error("empty string should parse to nil")
	}
}

func TestSourceOf(t *testing.T) {
	sources := []string{"/music", "/charts"}
	tests := []struct {
		path string
		want string
	}{
		{"/music/a.mp3", "/music"},
		{"/charts/song", "/charts"},
		{"/musical/a.mp3", ""},
		{"/other/a.mp3", ""},
	}
	for _, tt := range tests {
		if got := sourceOf(sources, filepath.FromSlash(tt.path)); got != tt.want {
			t.Errorf("sourceOf(%s) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestOpen_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "songshelf.db")
	lib, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer lib.Close()

	if _, err := os.Stat(path); err != nil {
		t.Errorf("database file not created: %v", err)
	}
}
