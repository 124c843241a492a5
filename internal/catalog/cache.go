package catalog

import "time"

// HashBucket holds the songs sharing one content hash.
type HashBucket struct {
	Hash  string
	Songs []*Song
}

// SortKeyGroup is one normalized-key bucket of a text attribute.
type SortKeyGroup struct {
	Key   SortKey
	Songs []*Song
}

// StringGroup is one bucket of a plain string keyed attribute.
type StringGroup struct {
	Key   string
	Songs []*Song
}

// DateGroup is one calendar-day bucket of songs added that day.
type DateGroup struct {
	Date  time.Time
	Songs []*Song
}

// Cache is a finished snapshot of the song library grouped by attribute.
// Every slice is already in display order; the catalog never re-sorts it.
//
// The catalog trusts the cache: duplicate hashes or songs missing from
// Entries are not detected.
type Cache struct {
	Entries []HashBucket

	Artists   []SortKeyGroup
	Albums    []SortKeyGroup
	Genres    []SortKeyGroup
	Charters  []SortKeyGroup
	Playlists []SortKeyGroup
	Sources   []SortKeyGroup

	Titles       []StringGroup
	Years        []StringGroup
	ArtistAlbums []StringGroup
	SongLengths  []StringGroup
	Instruments  []StringGroup

	DatesAdded []DateGroup
}
