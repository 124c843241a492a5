// Package search finds songs with trigram matching over title, artist and
// album.
package search

import (
	"cmp"
	"slices"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/llehouerou/songshelf/internal/catalog"
)

// minCoverage is the share of a query word's trigrams a song must contain.
const minCoverage = 0.4

// Match is a song matching a query, with its relevance score.
type Match struct {
	Song  *catalog.Song
	Score float64
}

// Index is an immutable trigram index over a song list.
type Index struct {
	songs      []*catalog.Song
	normalized []string
	trigrams   []map[string]struct{}
}

// NewIndex indexes songs by title, artist and album.
func NewIndex(songs []*catalog.Song) *Index {
	idx := &Index{
		songs:      songs,
		normalized: make([]string, len(songs)),
		trigrams:   make([]map[string]struct{}, len(songs)),
	}
	for i, s := range songs {
		text := normalize(s.Title + " " + s.Artist + " " + s.Album)
		idx.normalized[i] = text
		idx.trigrams[i] = generateTrigrams(text)
	}
	return idx
}

// Search returns songs matching every query word, best first. Ties keep
// index order. limit <= 0 returns all matches; an empty query matches nothing.
func (idx *Index) Search(query string, limit int) []Match {
	words := strings.Fields(normalize(query))
	if len(words) == 0 {
		return nil
	}

	wordTrigrams := make([]map[string]struct{}, len(words))
	for i, word := range words {
		wordTrigrams[i] = generateTrigrams(word)
	}

	var matches []Match
	for i := range idx.songs {
		if score := idx.score(i, words, wordTrigrams); score > 0 {
			matches = append(matches, Match{Song: idx.songs[i], Score: score})
		}
	}

	slices.SortStableFunc(matches, func(a, b Match) int { return cmp.Compare(b.Score, a.Score) })
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

// score averages per-word similarity; any unmatched word scores 0.
func (idx *Index) score(i int, words []string, wordTrigrams []map[string]struct{}) float64 {
	text := idx.normalized[i]
	total := 0.0

	for w, word := range words {
		// Short words have too few trigrams, use substring match
		if len([]rune(word)) <= 2 {
			if !strings.Contains(text, word) {
				return 0
			}
			total++
			continue
		}

		// Coverage rather than Jaccard, so short queries still match long titles
		similarity := trigramCoverage(wordTrigrams[w], idx.trigrams[i])
		if similarity < minCoverage {
			return 0
		}
		if strings.Contains(text, word) {
			similarity += 0.5
		}
		total += similarity
	}

	return total / float64(len(words))
}

// normalize folds case and width and strips diacritics, so "cafe" finds "Café".
func normalize(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}
	return catalog.Normalize(stripped)
}

// generateTrigrams returns the trigram set of s, padded with spaces so
// prefixes and suffixes get their own trigrams.
func generateTrigrams(s string) map[string]struct{} {
	if s == "" {
		return nil
	}

	tris := make(map[string]struct{})
	r := []rune("  " + s + "  ")
	for i := 0; i <= len(r)-3; i++ {
		tri := string(r[i : i+3])
		if strings.TrimSpace(tri) != "" {
			tris[tri] = struct{}{}
		}
	}
	return tris
}

// trigramCoverage is |query ∩ item| / |query|.
func trigramCoverage(query, item map[string]struct{}) float64 {
	if len(query) == 0 {
		return 0
	}

	n := 0
	for tri := range query {
		if _, ok := item[tri]; ok {
			n++
		}
	}
	return float64(n) / float64(len(query))
}
