// Package catalog holds the in-memory song catalog: the master song list and
// the precomputed, pre-sorted category views a library browser renders.
package catalog

import (
	"strings"
	"time"
)

// Instrument is a playable part a song may provide a chart for.
type Instrument int

const (
	InstrumentGuitar Instrument = iota
	InstrumentBass
	InstrumentRhythm
	InstrumentCoopGuitar
	InstrumentSixFretGuitar
	InstrumentSixFretBass
	InstrumentDrums
	InstrumentProDrums
	InstrumentKeys
	InstrumentProKeys
	InstrumentVocals
	InstrumentHarmonies
)

// InstrumentCount is the total number of instruments.
const InstrumentCount = 12

var instrumentNames = [InstrumentCount]string{
	"Guitar",
	"Bass",
	"Rhythm",
	"Co-op Guitar",
	"6-Fret Guitar",
	"6-Fret Bass",
	"Drums",
	"Pro Drums",
	"Keys",
	"Pro Keys",
	"Vocals",
	"Harmonies",
}

func (i Instrument) String() string {
	if i < 0 || int(i) >= InstrumentCount {
		return "Unknown"
	}
	return instrumentNames[i]
}

// ParseInstrument returns the instrument whose display name matches s,
// ignoring case.
func ParseInstrument(s string) (Instrument, bool) {
	for i, name := range instrumentNames {
		if strings.EqualFold(name, strings.TrimSpace(s)) {
			return Instrument(i), true
		}
	}
	return 0, false
}

// Song is an immutable catalog entry.
// Strings that are empty or whitespace-only, a zero Length and a zero
// DateAdded mean "undefined".
type Song struct {
	Hash        string // content-derived identifier, hex encoded
	Path        string
	Title       string
	Artist      string
	Album       string
	Genre       string
	Year        string
	Charter     string
	Playlist    string
	Source      string
	Length      time.Duration
	DateAdded   time.Time
	Instruments []Instrument // ascending, no duplicates
}

// HasInstrument reports whether the song provides a chart for inst.
func (s *Song) HasInstrument(inst Instrument) bool {
	for _, i := range s.Instruments {
		if i == inst {
			return true
		}
	}
	return false
}
