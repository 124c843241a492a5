package catalog

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"unicode"
	"unicode/utf8"
)

// DefaultDateLayout renders date-added labels as e.g. "Tuesday, March 4, 2025".
const DefaultDateLayout = "Monday, January 2, 2006"

// ErrUnknownAttribute is returned when no category view exists for an attribute.
var ErrUnknownAttribute = errors.New("unknown song attribute")

// Category is a labeled bucket of songs, in the order supplied by the cache.
type Category struct {
	Label string
	Songs []*Song
}

// Catalog is an immutable index over a song cache snapshot.
// All methods are safe for concurrent use, except RandomSong when the catalog
// was built WithRand and the source is not goroutine safe.
type Catalog struct {
	cache *Cache
	songs []*Song
	views [AttributeCount][]Category
	rng   *rand.Rand
}

type options struct {
	dateLayout string
	rng        *rand.Rand
}

// Option configures catalog construction.
type Option func(*options)

// WithDateLayout sets the time layout used for date-added labels.
func WithDateLayout(layout string) Option {
	return func(o *options) {
		if layout != "" {
			o.dateLayout = layout
		}
	}
}

// WithRand sets the random source used by RandomSong.
// Without it the process-wide math/rand/v2 source is used.
func WithRand(r *rand.Rand) Option {
	return func(o *options) {
		o.rng = r
	}
}

// New builds a catalog from a completed cache snapshot. A nil cache yields an
// empty catalog.
func New(cache *Cache, opts ...Option) *Catalog {
	o := options{dateLayout: DefaultDateLayout}
	for _, opt := range opts {
		opt(&o)
	}
	if cache == nil {
		cache = &Cache{}
	}

	c := &Catalog{
		cache: cache,
		songs: flatten(cache.Entries),
		rng:   o.rng,
	}

	c.views[AttrArtist] = convert(cache.Artists, AttrArtist)
	c.views[AttrAlbum] = convert(cache.Albums, AttrAlbum)
	c.views[AttrGenre] = convert(cache.Genres, AttrGenre)
	c.views[AttrCharter] = convert(cache.Charters, AttrCharter)
	c.views[AttrPlaylist] = convert(cache.Playlists, AttrPlaylist)
	c.views[AttrSource] = convert(cache.Sources, AttrSource)

	c.views[AttrTitle] = cast(cache.Titles)
	c.views[AttrYear] = cast(cache.Years)
	c.views[AttrArtistAlbum] = cast(cache.ArtistAlbums)
	c.views[AttrSongLength] = cast(cache.SongLengths)
	c.views[AttrInstrument] = cast(cache.Instruments)

	c.views[AttrDateAdded] = dates(cache.DatesAdded, o.dateLayout)

	return c
}

func flatten(buckets []HashBucket) []*Song {
	total := 0
	for _, b := range buckets {
		total += len(b.Songs)
	}
	songs := make([]*Song, 0, total)
	for _, b := range buckets {
		songs = append(songs, b.Songs...)
	}
	return slices.Clip(songs)
}

func convert(groups []SortKeyGroup, attr Attribute) []Category {
	categories := make([]Category, 0, len(groups))
	for _, g := range groups {
		label := g.Key.Str
		if attr == AttrGenre {
			label = capitalizeGenre(g.Key)
		}
		categories = append(categories, Category{Label: label, Songs: g.Songs})
	}
	return categories
}

// capitalizeGenre uppercases the first letter of a genre label when it is
// lowercase. The tail always comes from the original string, not the
// normalized one.
func capitalizeGenre(key SortKey) string {
	r, size := utf8.DecodeRuneInString(key.Str)
	if size == 0 || !unicode.IsLower(r) {
		return key.Str
	}
	return string(unicode.ToUpper(r)) + key.Str[size:]
}

func cast(groups []StringGroup) []Category {
	categories := make([]Category, 0, len(groups))
	for _, g := range groups {
		categories = append(categories, Category{Label: g.Key, Songs: g.Songs})
	}
	return categories
}

func dates(groups []DateGroup, layout string) []Category {
	categories := make([]Category, 0, len(groups))
	for _, g := range groups {
		categories = append(categories, Category{Label: g.Date.Format(layout), Songs: g.Songs})
	}
	return categories
}

// SortedCategories returns the precomputed category view for attr.
// The returned slice is shared; callers must not modify it.
func (c *Catalog) SortedCategories(attr Attribute) ([]Category, error) {
	if attr < 0 || int(attr) >= AttributeCount {
		return nil, fmt.Errorf("%w: %v", ErrUnknownAttribute, attr)
	}
	return c.views[attr], nil
}

// Lookup returns the songs of the category labeled label in the attr view.
func (c *Catalog) Lookup(attr Attribute, label string) ([]*Song, bool) {
	categories, err := c.SortedCategories(attr)
	if err != nil {
		return nil, false
	}
	for _, cat := range categories {
		if cat.Label == label {
			return cat.Songs, true
		}
	}
	return nil, false
}

// Count returns the number of songs in the master list.
func (c *Catalog) Count() int {
	return len(c.songs)
}

// Songs returns the master song list in hash bucket order.
func (c *Catalog) Songs() []*Song {
	return c.songs
}

// RandomSong picks a song uniformly from the master list.
// It returns false when the catalog is empty.
func (c *Catalog) RandomSong() (*Song, bool) {
	if len(c.songs) == 0 {
		return nil, false
	}
	var i int
	if c.rng != nil {
		i = c.rng.IntN(len(c.songs))
	} else {
		i = rand.IntN(len(c.songs)) //nolint:gosec // crypto not needed for song selection
	}
	return c.songs[i], true
}

// Raw cache groupings, for callers that need ungrouped lookups.

func (c *Catalog) SongsByHash() []HashBucket   { return c.cache.Entries }
func (c *Catalog) Titles() []StringGroup       { return c.cache.Titles }
func (c *Catalog) Years() []StringGroup        { return c.cache.Years }
func (c *Catalog) ArtistAlbums() []StringGroup { return c.cache.ArtistAlbums }
func (c *Catalog) SongLengths() []StringGroup  { return c.cache.SongLengths }
func (c *Catalog) Instruments() []StringGroup  { return c.cache.Instruments }
func (c *Catalog) DatesAdded() []DateGroup     { return c.cache.DatesAdded }
func (c *Catalog) Artists() []SortKeyGroup     { return c.cache.Artists }
func (c *Catalog) Albums() []SortKeyGroup      { return c.cache.Albums }
func (c *Catalog) Genres() []SortKeyGroup      { return c.cache.Genres }
func (c *Catalog) Charters() []SortKeyGroup    { return c.cache.Charters }
func (c *Catalog) Playlists() []SortKeyGroup   { return c.cache.Playlists }
func (c *Catalog) Sources() []SortKeyGroup     { return c.cache.Sources }
