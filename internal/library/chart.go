package library

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/ini.v1"

	"github.com/llehouerou/songshelf/internal/catalog"
)

// Files that make a directory a chart folder.
const (
	SongIni    = "song.ini"
	NotesMid   = "notes.mid"
	NotesChart = "notes.chart"
)

// ErrNoChart is returned for a song.ini folder without a chart file.
var ErrNoChart = errors.New("no notes.mid or notes.chart")

// difficultyKeys maps song.ini difficulty keys to instruments, in instrument
// order. A difficulty of -1 (or a missing key) means the part is not charted.
var difficultyKeys = []struct {
	key  string
	inst catalog.Instrument
}{
	{"diff_guitar", catalog.InstrumentGuitar},
	{"diff_bass", catalog.InstrumentBass},
	{"diff_rhythm", catalog.InstrumentRhythm},
	{"diff_guitar_coop", catalog.InstrumentCoopGuitar},
	{"diff_guitarghl", catalog.InstrumentSixFretGuitar},
	{"diff_bassghl", catalog.InstrumentSixFretBass},
	{"diff_drums", catalog.InstrumentDrums},
	{"diff_drums_real", catalog.InstrumentProDrums},
	{"diff_keys", catalog.InstrumentKeys},
	{"diff_keys_real", catalog.InstrumentProKeys},
	{"diff_vocals", catalog.InstrumentVocals},
	{"diff_vocals_harm", catalog.InstrumentHarmonies},
}

// isChartDir reports whether dir holds a song.ini.
func isChartDir(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, SongIni))
	return err == nil && !info.IsDir()
}

// chartFile returns the chart file of a chart folder, preferring notes.mid.
func chartFile(dir string) (string, error) {
	for _, name := range []string{NotesMid, NotesChart} {
		p := filepath.Join(dir, name)
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, nil
		}
	}
	return "", ErrNoChart
}

// readChart reads a chart folder. The song hash is the chart file's hash.
func readChart(dir string) (*catalog.Song, error) {
	chart, err := chartFile(dir)
	if err != nil {
		return nil, err
	}
	hash, err := hashFile(chart)
	if err != nil {
		return nil, err
	}

	cfg, err := ini.LoadSources(ini.LoadOptions{
		Insensitive:             true,
		IgnoreInlineComment:     true,
		SkipUnrecognizableLines: true,
	}, filepath.Join(dir, SongIni))
	if err != nil {
		return nil, err
	}
	sec := cfg.Section("song")

	get := func(keys ...string) string {
		for _, k := range keys {
			if v := strings.TrimSpace(sec.Key(k).String()); v != "" {
				return v
			}
		}
		return ""
	}

	s := &catalog.Song{
		Hash:     hash,
		Path:     dir,
		Title:    get("name", "title"),
		Artist:   get("artist"),
		Album:    get("album"),
		Genre:    get("genre"),
		Year:     cleanYear(get("year")),
		Charter:  get("charter", "frets"),
		Playlist: get("playlist"),
		Source:   get("icon"),
	}
	if s.Title == "" {
		s.Title = filepath.Base(dir)
	}
	if ms, err := strconv.ParseInt(get("song_length"), 10, 64); err == nil && ms > 0 {
		s.Length = time.Duration(ms) * time.Millisecond
	}
	for _, d := range difficultyKeys {
		if sec.HasKey(d.key) && sec.Key(d.key).MustInt(-1) >= 0 {
			s.Instruments = append(s.Instruments, d.inst)
		}
	}
	return s, nil
}

// cleanYear strips the ", " prefix some charting tools write before the year.
func cleanYear(year string) string {
	return strings.TrimSpace(strings.TrimPrefix(year, ","))
}
