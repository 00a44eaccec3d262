/*
Package sprite implements the portable item sprite file.

A sprite file carries a sortable unique identifier, some descriptive metadata,
the 96 bytes of tile data and the name of the palette to use. Every value is
normalized when it is created so an invalid Sprite cannot exist.
*/
package sprite

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bodgit/memeforce/palette"
	"github.com/bodgit/memeforce/tile"
	"github.com/oklog/ulid/v2"
)

const (
	// DataSize is the expected length of the sprite data
	DataSize = tile.SetSize

	// UnknownAuthor is used when no author is given
	UnknownAuthor = "unknown"
)

// DefaultPalette is used when no or an unknown palette name is given
var DefaultPalette = palette.Green

// ErrValidation is returned when sprite data is the wrong length or a
// required field is missing
var ErrValidation = errors.New("sprite: validation failed")

// Sprite is an immutable item sprite
type Sprite struct {
	id          ulid.ULID
	displayName string
	authorName  string
	description *string
	data        []byte
	paletteName string
	tags        []string
}

// ID returns the unique identifier
func (s Sprite) ID() ulid.ULID { return s.id }

// DisplayName returns the short name shown when the sprite is loaded
func (s Sprite) DisplayName() string { return s.displayName }

// AuthorName returns the author, "unknown" if none was given
func (s Sprite) AuthorName() string { return s.authorName }

// Description returns the description, if any
func (s Sprite) Description() (string, bool) {
	if s.description == nil {
		return "", false
	}
	return *s.description, true
}

// Data returns a copy of the 96 bytes of tile data
func (s Sprite) Data() []byte { return append([]byte(nil), s.data...) }

// PaletteName returns the upper-case palette name
func (s Sprite) PaletteName() string { return s.paletteName }

// Tags returns a copy of the tags
func (s Sprite) Tags() []string { return append([]string{}, s.tags...) }

// CreationDate returns the time embedded in the identifier
func (s Sprite) CreationDate() time.Time {
	return ulid.Time(s.id.Time()).UTC()
}

// Palette resolves the palette name. Normalization guarantees the name is
// known.
func (s Sprite) Palette() palette.Palette {
	p, err := palette.Resolve(s.paletteName)
	if err != nil {
		return DefaultPalette
	}
	return p
}

// Tiles splits the data into its four tiles
func (s Sprite) Tiles() tile.Set {
	t, _ := tile.SetFromBytes(s.data)
	return t
}

// Equal reports whether s and o hold the same values
func (s Sprite) Equal(o Sprite) bool {
	if s.id != o.id || s.displayName != o.displayName || s.authorName != o.authorName || s.paletteName != o.paletteName {
		return false
	}
	if (s.description == nil) != (o.description == nil) || (s.description != nil && *s.description != *o.description) {
		return false
	}
	if !bytes.Equal(s.data, o.data) || len(s.tags) != len(o.tags) {
		return false
	}
	for i := range s.tags {
		if s.tags[i] != o.tags[i] {
			return false
		}
	}
	return true
}

func (s Sprite) String() string {
	return fmt.Sprintf("%s (%s by %s, %s)", s.displayName, s.id, s.authorName, s.paletteName)
}

// Compare orders sprites by identifier, and therefore by creation time
func Compare(a, b Sprite) int {
	return a.id.Compare(b.id)
}

// NewID returns a fresh identifier
func NewID() ulid.ULID {
	return ulid.Make()
}

func stringPtr(s string) *string {
	return &s
}

// Normalize corrects the cosmetic fields of s and then validates the data.
// Each correction restarts the checks so the result satisfies all of them.
func Normalize(s Sprite) (Sprite, error) {
	for {
		if s.description != nil && strings.TrimSpace(*s.description) == "" {
			s.description = nil
			continue
		}

		if strings.TrimSpace(s.authorName) == "" {
			s.authorName = UnknownAuthor
			continue
		}

		if upper := strings.ToUpper(s.paletteName); upper != s.paletteName {
			s.paletteName = upper
			continue
		}

		if _, err := palette.Resolve(s.paletteName); err != nil {
			s.paletteName = DefaultPalette.String()
			continue
		}

		if s.tags == nil {
			s.tags = []string{}
			continue
		}

		break
	}

	if len(s.data) != DataSize {
		return Sprite{}, fmt.Errorf("%w: expected data length to be %d bytes, but got %d", ErrValidation, DataSize, len(s.data))
	}

	return s, nil
}

// New creates a sprite. A zero id is replaced with a fresh one and an empty
// description is treated as absent. It fails with ErrValidation if data is
// not exactly DataSize bytes.
func New(id ulid.ULID, displayName, authorName string, data []byte, p palette.Palette, description string, tags []string) (Sprite, error) {
	if len(data) != DataSize {
		return Sprite{}, fmt.Errorf("%w: expected data length to be %d bytes, but got %d", ErrValidation, DataSize, len(data))
	}

	if id == (ulid.ULID{}) {
		id = NewID()
	}

	s := Sprite{
		id:          id,
		displayName: displayName,
		authorName:  authorName,
		data:        append([]byte(nil), data...),
		paletteName: p.String(),
		tags:        append([]string{}, tags...),
	}
	if description != "" {
		s.description = stringPtr(description)
	}

	return Normalize(s)
}

// Create is New with a fresh identifier, no description and no tags
func Create(displayName, authorName string, data []byte, p palette.Palette) (Sprite, error) {
	return New(ulid.ULID{}, displayName, authorName, data, p, "", nil)
}

// WithDisplayName returns a copy of s with a different display name
func (s Sprite) WithDisplayName(name string) Sprite {
	s.displayName = name
	n, _ := Normalize(s)
	return n
}

// WithAuthorName returns a copy of s with a different author
func (s Sprite) WithAuthorName(name string) Sprite {
	s.authorName = name
	n, _ := Normalize(s)
	return n
}

// WithDescription returns a copy of s with a different description, a blank
// description removes it
func (s Sprite) WithDescription(description string) Sprite {
	s.description = stringPtr(description)
	n, _ := Normalize(s)
	return n
}

// WithPaletteName returns a copy of s with a different palette name, subject
// to the usual normalization
func (s Sprite) WithPaletteName(name string) Sprite {
	s.paletteName = name
	n, _ := Normalize(s)
	return n
}

// WithTags returns a copy of s with different tags
func (s Sprite) WithTags(tags ...string) Sprite {
	s.tags = append([]string{}, tags...)
	n, _ := Normalize(s)
	return n
}
