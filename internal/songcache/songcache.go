// Package songcache builds the grouped, sorted cache snapshot a catalog is
// constructed from.
package songcache

import (
	"cmp"
	"context"
	"slices"
	"strconv"
	"time"
	"unicode"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/llehouerou/songshelf/internal/catalog"
)

// Title bucket labels for titles not starting with a letter.
const (
	TitleDigits = "0-9"
	TitleOther  = "*"
)

// LengthBucket is a song length range label.
type LengthBucket struct {
	Label string
	Max   time.Duration // exclusive; 0 means unbounded
}

// LengthBuckets lists the song length ranges in display order.
var LengthBuckets = []LengthBucket{
	{Label: "00:00 - 02:00", Max: 2 * time.Minute},
	{Label: "02:00 - 05:00", Max: 5 * time.Minute},
	{Label: "05:00 - 10:00", Max: 10 * time.Minute},
	{Label: "10:00 - 15:00", Max: 15 * time.Minute},
	{Label: "15:00 - 20:00", Max: 20 * time.Minute},
	{Label: "20:00+"},
}

// Options controls how the cache is sorted.
type Options struct {
	Locale language.Tag // collation language, defaults to English
}

// builder holds the songs in canonical order. Collators are stateful, so each
// sort pass creates its own.
type builder struct {
	locale language.Tag
	songs  []*catalog.Song
}

func (b *builder) collator() *collate.Collator {
	return collate.New(b.locale, collate.IgnoreCase)
}

// compareText orders normalized strings by the collator, falling back to a
// byte comparison so distinct keys never compare equal.
func compareText(c *collate.Collator, x, y string) int {
	if r := c.CompareString(x, y); r != 0 {
		return r
	}
	return cmp.Compare(x, y)
}

// Build groups songs by every browsable attribute. Attributes are built
// concurrently; ctx cancellation aborts the build.
func Build(ctx context.Context, songs []*catalog.Song, opts Options) (*catalog.Cache, error) {
	locale := opts.Locale
	if locale == language.Und {
		locale = language.English
	}

	b := &builder{locale: locale, songs: canonicalOrder(songs, locale)}

	cache := &catalog.Cache{}
	g, ctx := errgroup.WithContext(ctx)

	pass := func(fn func()) {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			fn()
			return ctx.Err()
		})
	}

	pass(func() { cache.Entries = b.hashBuckets() })

	pass(func() { cache.Artists = b.sortKeyGroups(func(s *catalog.Song) string { return s.Artist }) })
	pass(func() { cache.Albums = b.sortKeyGroups(func(s *catalog.Song) string { return s.Album }) })
	pass(func() { cache.Genres = b.sortKeyGroups(func(s *catalog.Song) string { return s.Genre }) })
	pass(func() { cache.Charters = b.sortKeyGroups(func(s *catalog.Song) string { return s.Charter }) })
	pass(func() { cache.Playlists = b.sortKeyGroups(func(s *catalog.Song) string { return s.Playlist }) })
	pass(func() { cache.Sources = b.sortKeyGroups(func(s *catalog.Song) string { return s.Source }) })

	pass(func() { cache.Titles = b.titles() })
	pass(func() { cache.Years = b.years() })
	pass(func() { cache.ArtistAlbums = b.artistAlbums() })
	pass(func() { cache.SongLengths = b.songLengths() })
	pass(func() { cache.Instruments = b.instruments() })
	pass(func() { cache.DatesAdded = b.datesAdded() })

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return cache, nil
}

// sortable pairs a song with its normalized sort fields.
type sortable struct {
	song          *catalog.Song
	title, artist string
}

// canonicalOrder sorts songs by title, then artist, then hash. Fields are
// normalized once per song, not per comparison.
func canonicalOrder(songs []*catalog.Song, locale language.Tag) []*catalog.Song {
	keyed := make([]sortable, len(songs))
	for i, s := range songs {
		keyed[i] = sortable{song: s, title: catalog.Normalize(s.Title), artist: catalog.Normalize(s.Artist)}
	}

	c := collate.New(locale, collate.IgnoreCase)
	slices.SortStableFunc(keyed, func(x, y sortable) int {
		if r := compareText(c, x.title, y.title); r != 0 {
			return r
		}
		if r := compareText(c, x.artist, y.artist); r != 0 {
			return r
		}
		return cmp.Compare(x.song.Hash, y.song.Hash)
	})

	out := make([]*catalog.Song, len(keyed))
	for i, k := range keyed {
		out[i] = k.song
	}
	return out
}

// bucket collects songs under one grouping key, keeping the display value of
// the first song seen.
type bucket[K comparable] struct {
	key     K
	display string
	songs   []*catalog.Song
}

// group buckets songs in first-seen order. keyFn returns false for songs
// without a value for the attribute.
func group[K comparable](songs []*catalog.Song, keyFn func(*catalog.Song) (K, string, bool)) []*bucket[K] {
	index := make(map[K]*bucket[K])
	var out []*bucket[K]
	for _, s := range songs {
		key, display, ok := keyFn(s)
		if !ok {
			continue
		}
		bk, exists := index[key]
		if !exists {
			bk = &bucket[K]{key: key, display: display}
			index[key] = bk
			out = append(out, bk)
		}
		bk.songs = append(bk.songs, s)
	}
	return out
}

func (b *builder) hashBuckets() []catalog.HashBucket {
	buckets := group(b.songs, func(s *catalog.Song) (string, string, bool) {
		return s.Hash, s.Hash, true
	})
	slices.SortFunc(buckets, func(x, y *bucket[string]) int { return cmp.Compare(x.key, y.key) })

	out := make([]catalog.HashBucket, len(buckets))
	for i, bk := range buckets {
		out[i] = catalog.HashBucket{Hash: bk.key, Songs: bk.songs}
	}
	return out
}

func (b *builder) sortKeyGroups(field func(*catalog.Song) string) []catalog.SortKeyGroup {
	buckets := group(b.songs, func(s *catalog.Song) (string, string, bool) {
		key := catalog.NewSortKey(field(s))
		return key.Sort, key.Str, !key.IsEmpty()
	})
	c := b.collator()
	slices.SortFunc(buckets, func(x, y *bucket[string]) int { return compareText(c, x.key, y.key) })

	out := make([]catalog.SortKeyGroup, len(buckets))
	for i, bk := range buckets {
		out[i] = catalog.SortKeyGroup{
			Key:   catalog.SortKey{Str: bk.display, Sort: bk.key},
			Songs: bk.songs,
		}
	}
	return out
}

// titleBucket returns the first-character bucket of a title.
func titleBucket(title string) (string, bool) {
	norm := catalog.Normalize(title)
	r, size := utf8.DecodeRuneInString(norm)
	switch {
	case size == 0:
		return "", false
	case unicode.IsDigit(r):
		return TitleDigits, true
	case unicode.IsLetter(r):
		return string(unicode.ToUpper(r)), true
	default:
		return TitleOther, true
	}
}

func (b *builder) titles() []catalog.StringGroup {
	buckets := group(b.songs, func(s *catalog.Song) (string, string, bool) {
		key, ok := titleBucket(s.Title)
		return key, key, ok
	})
	rank := func(key string) int {
		switch key {
		case TitleOther:
			return 0
		case TitleDigits:
			return 1
		}
		return 2
	}
	c := b.collator()
	slices.SortFunc(buckets, func(x, y *bucket[string]) int {
		if r := cmp.Compare(rank(x.key), rank(y.key)); r != 0 {
			return r
		}
		return compareText(c, x.key, y.key)
	})
	return stringGroups(buckets)
}

func (b *builder) years() []catalog.StringGroup {
	buckets := group(b.songs, func(s *catalog.Song) (string, string, bool) {
		return s.Year, s.Year, catalog.Normalize(s.Year) != ""
	})
	slices.SortFunc(buckets, func(x, y *bucket[string]) int {
		xn, xerr := strconv.Atoi(x.key)
		yn, yerr := strconv.Atoi(y.key)
		switch {
		case xerr == nil && yerr == nil:
			return cmp.Compare(xn, yn)
		case xerr == nil:
			return -1
		case yerr == nil:
			return 1
		}
		return cmp.Compare(x.key, y.key)
	})
	return stringGroups(buckets)
}

// ArtistAlbumKey returns the label of a song's artist and album category, or
// false if either is undefined.
func ArtistAlbumKey(s *catalog.Song) (string, bool) {
	if catalog.Normalize(s.Artist) == "" || catalog.Normalize(s.Album) == "" {
		return "", false
	}
	return s.Artist + " - " + s.Album, true
}

// artistAlbum groups on the normalized pair, so a " - " inside a name never
// merges two different artist/album combinations.
type artistAlbum struct {
	artist, album string
}

func (b *builder) artistAlbums() []catalog.StringGroup {
	buckets := group(b.songs, func(s *catalog.Song) (artistAlbum, string, bool) {
		display, ok := ArtistAlbumKey(s)
		key := artistAlbum{artist: catalog.Normalize(s.Artist), album: catalog.Normalize(s.Album)}
		return key, display, ok
	})
	c := b.collator()
	slices.SortFunc(buckets, func(x, y *bucket[artistAlbum]) int {
		if r := compareText(c, x.key.artist, y.key.artist); r != 0 {
			return r
		}
		return compareText(c, x.key.album, y.key.album)
	})

	out := make([]catalog.StringGroup, len(buckets))
	for i, bk := range buckets {
		out[i] = catalog.StringGroup{Key: bk.display, Songs: bk.songs}
	}
	return out
}

// LengthLabel returns the length bucket label of d and its index in
// LengthBuckets, or false if d is unset.
func LengthLabel(d time.Duration) (string, int, bool) {
	if d <= 0 {
		return "", 0, false
	}
	for i, lb := range LengthBuckets {
		if lb.Max == 0 || d < lb.Max {
			return lb.Label, i, true
		}
	}
	return "", 0, false
}

func (b *builder) songLengths() []catalog.StringGroup {
	buckets := group(b.songs, func(s *catalog.Song) (int, string, bool) {
		label, idx, ok := LengthLabel(s.Length)
		return idx, label, ok
	})
	slices.SortFunc(buckets, func(x, y *bucket[int]) int { return cmp.Compare(x.key, y.key) })

	out := make([]catalog.StringGroup, len(buckets))
	for i, bk := range buckets {
		out[i] = catalog.StringGroup{Key: bk.display, Songs: bk.songs}
	}
	return out
}

// instruments emits one group per instrument; a song appears in every group
// of an instrument it supports.
func (b *builder) instruments() []catalog.StringGroup {
	var byInstrument [catalog.InstrumentCount][]*catalog.Song
	for _, s := range b.songs {
		for _, inst := range s.Instruments {
			if inst < 0 || int(inst) >= catalog.InstrumentCount {
				continue
			}
			byInstrument[inst] = append(byInstrument[inst], s)
		}
	}

	var out []catalog.StringGroup
	for i, songs := range byInstrument {
		if len(songs) == 0 {
			continue
		}
		out = append(out, catalog.StringGroup{Key: catalog.Instrument(i).String(), Songs: songs})
	}
	return out
}

// Day truncates t to midnight of its calendar day in t's location.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func (b *builder) datesAdded() []catalog.DateGroup {
	buckets := group(b.songs, func(s *catalog.Song) (string, string, bool) {
		if s.DateAdded.IsZero() {
			return "", "", false
		}
		return Day(s.DateAdded).Format(time.DateOnly), "", true
	})
	day := func(bk *bucket[string]) time.Time { return Day(bk.songs[0].DateAdded) }
	slices.SortFunc(buckets, func(x, y *bucket[string]) int { return day(x).Compare(day(y)) })

	out := make([]catalog.DateGroup, len(buckets))
	for i, bk := range buckets {
		out[i] = catalog.DateGroup{Date: day(bk), Songs: bk.songs}
	}
	return out
}

func stringGroups(buckets []*bucket[string]) []catalog.StringGroup {
	out := make([]catalog.StringGroup, len(buckets))
	for i, bk := range buckets {
		out[i] = catalog.StringGroup{Key: bk.display, Songs: bk.songs}
	}
	return out
}
