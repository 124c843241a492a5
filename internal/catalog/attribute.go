package catalog

import (
	"fmt"
	"strings"
)

// Attribute identifies a browsable song attribute.
type Attribute int

const (
	AttrTitle Attribute = iota
	AttrArtist
	AttrAlbum
	AttrGenre
	AttrYear
	AttrCharter
	AttrPlaylist
	AttrSource
	AttrArtistAlbum
	AttrSongLength
	AttrDateAdded
	AttrInstrument
)

// AttributeCount is the total number of attributes.
const AttributeCount = 12

var attributeNames = [AttributeCount]string{
	"title",
	"artist",
	"album",
	"genre",
	"year",
	"charter",
	"playlist",
	"source",
	"artist_album",
	"length",
	"date_added",
	"instrument",
}

func (a Attribute) String() string {
	if a < 0 || int(a) >= AttributeCount {
		return fmt.Sprintf("Attribute(%d)", int(a))
	}
	return attributeNames[a]
}

// Attributes returns every attribute in declaration order.
func Attributes() []Attribute {
	attrs := make([]Attribute, AttributeCount)
	for i := range attrs {
		attrs[i] = Attribute(i)
	}
	return attrs
}

// ParseAttribute parses an attribute name as returned by Attribute.String.
// Dashes are accepted in place of underscores.
func ParseAttribute(s string) (Attribute, error) {
	name := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	for i, n := range attributeNames {
		if n == name {
			return Attribute(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownAttribute, s)
}
