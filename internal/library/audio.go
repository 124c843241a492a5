package library

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dhowden/tag"
	"go.senan.xyz/taglib"

	"github.com/llehouerou/songshelf/internal/catalog"
)

// File extensions indexed as standalone songs.
const (
	ExtMP3  = ".mp3"
	ExtFLAC = ".flac"
	ExtOPUS = ".opus"
	ExtOGG  = ".ogg"
	ExtM4A  = ".m4a"
)

// IsMusicFile reports whether path has a supported audio extension.
func IsMusicFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ExtMP3, ExtFLAC, ExtOPUS, ExtOGG, ExtM4A:
		return true
	}
	return false
}

// audioTags is the subset of tag metadata a song needs.
type audioTags struct {
	title, artist, album, genre string
	year                        int
}

// readAudio reads a tagged audio file. source names the library source the
// file was found in.
func readAudio(path, source string) (*catalog.Song, error) {
	hash, err := hashFile(path)
	if err != nil {
		return nil, err
	}

	t, err := readTags(path)
	if err != nil {
		return nil, err
	}

	s := &catalog.Song{
		Hash:   hash,
		Path:   path,
		Title:  strings.TrimSpace(t.title),
		Artist: strings.TrimSpace(t.artist),
		Album:  strings.TrimSpace(t.album),
		Genre:  strings.TrimSpace(t.genre),
		Source: filepath.Base(source),
	}
	if s.Title == "" {
		s.Title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if t.year > 0 {
		s.Year = strconv.Itoa(t.year)
	}
	// Length is optional; a file taglib cannot open still gets indexed.
	if props, err := taglib.ReadProperties(path); err == nil {
		s.Length = props.Length
	}
	return s, nil
}

// readTags reads tags with dhowden/tag, falling back to TagLib for files it
// cannot parse.
func readTags(path string) (audioTags, error) {
	f, err := os.Open(path)
	if err != nil {
		return audioTags{}, err
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return readTagsWithTaglib(path)
	}
	return audioTags{
		title:  m.Title(),
		artist: m.Artist(),
		album:  m.Album(),
		genre:  m.Genre(),
		year:   m.Year(),
	}, nil
}

func readTagsWithTaglib(path string) (audioTags, error) {
	raw, err := taglib.ReadTags(path)
	if err != nil {
		return audioTags{}, err
	}
	get := func(key string) string {
		if v := raw[key]; len(v) > 0 {
			return v[0]
		}
		return ""
	}

	t := audioTags{
		title:  get(taglib.Title),
		artist: get(taglib.Artist),
		album:  get(taglib.Album),
		genre:  get(taglib.Genre),
	}
	// Date may be YYYY-MM-DD or just YYYY
	if date := get(taglib.Date); len(date) >= 4 {
		t.year, _ = strconv.Atoi(date[:4])
	}
	return t, nil
}
