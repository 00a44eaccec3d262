/*
Package skin implements the legacy item skins shipped before the sprite file
existed.

A skin is a complete compressed item sheet together with the palette it uses
and some descriptive metadata. Skins are listed in a YAML catalog, each entry
pointing at its compressed sheet with a path relative to the catalog.
*/
package skin

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bodgit/memeforce/lz2"
	"github.com/bodgit/memeforce/palette"
	"github.com/bodgit/memeforce/tile"
	"gopkg.in/yaml.v3"
)

// Skin is a legacy item skin
type Skin struct {
	ID          string
	SpriteName  string
	DisplayName string
	Description string
	Author      string
	Created     time.Time
	Preview     string

	// Data is the compressed item sheet
	Data []byte

	// The two palette selector bytes written to the ROM
	PaletteChest     byte
	PaletteOverworld byte
}

// ErrNotFound is returned when a catalog has no skin by the given name
var ErrNotFound = errors.New("skin: not found")

// Tiles decompresses the sheet and extracts the four item tiles
func (s *Skin) Tiles() (tile.Set, error) {
	block, err := lz2.Decompress(s.Data)
	if err != nil {
		return tile.Set{}, err
	}
	return tile.Extract(block)
}

// Palette returns the palette matching both selector bytes
func (s *Skin) Palette() (palette.Palette, error) {
	return palette.Reverse(s.PaletteChest, s.PaletteOverworld)
}

func (s *Skin) String() string {
	return fmt.Sprintf("%s (%s by %s)", s.DisplayName, s.SpriteName, s.Author)
}

type catalogEntry struct {
	ULID        string `yaml:"ulid"`
	Author      string `yaml:"author"`
	SpriteName  string `yaml:"spriteName"`
	DisplayName string `yaml:"displayName"`
	URI         string `yaml:"uri"`
	Preview     string `yaml:"preview"`
	Description string `yaml:"description"`
	Created     string `yaml:"created"`
	Palette     string `yaml:"palette"`
}

// Catalog is the list of skins read from a catalog file
type Catalog []*Skin

// Find returns the skin whose sprite name matches, ignoring case
func (c Catalog) Find(name string) (*Skin, error) {
	for _, s := range c {
		if strings.EqualFold(s.SpriteName, name) {
			return s, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
}

func resolve(dir, uri string) string {
	return filepath.Join(dir, filepath.FromSlash(strings.TrimPrefix(uri, "/")))
}

func (e catalogEntry) skin(dir string) (*Skin, error) {
	if e.SpriteName == "" {
		return nil, errors.New("skin: entry without spriteName")
	}

	p, err := palette.Resolve(strings.ToUpper(e.Palette))
	if err != nil {
		return nil, fmt.Errorf("skin %s: %w", e.SpriteName, err)
	}

	s := &Skin{
		ID:               e.ULID,
		SpriteName:       e.SpriteName,
		DisplayName:      e.DisplayName,
		Description:      e.Description,
		Author:           e.Author,
		PaletteChest:     p.ChestID(),
		PaletteOverworld: p.OverworldID(),
	}

	if s.DisplayName == "" {
		s.DisplayName = s.SpriteName
	}
	if s.Description == "" {
		s.Description = s.DisplayName
	}
	if s.Author == "" {
		s.Author = "unknown"
	}
	if e.Preview != "" {
		s.Preview = resolve(dir, e.Preview)
	}
	if e.Created != "" {
		if s.Created, err = time.Parse(time.RFC3339, e.Created); err != nil {
			return nil, fmt.Errorf("skin %s: %w", e.SpriteName, err)
		}
	}

	if s.Data, err = os.ReadFile(resolve(dir, e.URI)); err != nil {
		return nil, fmt.Errorf("skin %s: %w", e.SpriteName, err)
	}

	return s, nil
}

// ReadCatalog parses a catalog from r, resolving sheet paths against dir
func ReadCatalog(r io.Reader, dir string) (Catalog, error) {
	var entries []catalogEntry
	if err := yaml.NewDecoder(r).Decode(&entries); err != nil && err != io.EOF {
		return nil, err
	}

	c := make(Catalog, 0, len(entries))
	for _, e := range entries {
		s, err := e.skin(dir)
		if err != nil {
			return nil, err
		}
		c = append(c, s)
	}

	return c, nil
}

// LoadCatalog reads the catalog file at path
func LoadCatalog(path string) (Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ReadCatalog(f, filepath.Dir(path))
}

// PaletteBytes returns the chest and overworld selector bytes
func (s *Skin) PaletteBytes() (byte, byte) {
	return s.PaletteChest, s.PaletteOverworld
}
