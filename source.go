package memeforce

import (
	"fmt"

	"github.com/bodgit/memeforce/palette"
	"github.com/bodgit/memeforce/skin"
	"github.com/bodgit/memeforce/sprite"
	"github.com/bodgit/memeforce/tile"
)

type sourceKind int

const (
	sourceTiles sourceKind = iota + 1
	sourceSkin
)

// Source is what gets patched into a ROM: either four tiles and a palette,
// or a legacy skin which is reduced to four tiles and a palette first.
type Source struct {
	kind    sourceKind
	tiles   tile.Set
	palette palette.Palette
	skin    *skin.Skin
}

// FromTiles returns a Source for the given tiles and palette
func FromTiles(tiles tile.Set, p palette.Palette) Source {
	return Source{
		kind:    sourceTiles,
		tiles:   tiles,
		palette: p,
	}
}

// FromSprite returns a Source for the tiles and palette of a sprite file
func FromSprite(s sprite.Sprite) Source {
	return FromTiles(s.Tiles(), s.Palette())
}

// FromSkin returns a Source for a legacy skin
func FromSkin(s *skin.Skin) Source {
	return Source{
		kind: sourceSkin,
		skin: s,
	}
}

var errEmptySource = fmt.Errorf("%w: empty source", ErrIO)

func (s Source) resolve() (tile.Set, palette.Palette, error) {
	switch s.kind {
	case sourceTiles:
		if !s.palette.Valid() {
			return tile.Set{}, 0, fmt.Errorf("%w: %v", palette.ErrUnknown, s.palette)
		}
		return s.tiles, s.palette, nil
	case sourceSkin:
		if s.skin == nil {
			return tile.Set{}, 0, errEmptySource
		}
		tiles, err := s.skin.Tiles()
		if err != nil {
			return tile.Set{}, 0, fmt.Errorf("%w: skin %s: %w", ErrIO, s.skin.SpriteName, err)
		}
		p, err := s.skin.Palette()
		if err != nil {
			return tile.Set{}, 0, err
		}
		return tiles, p, nil
	default:
		return tile.Set{}, 0, errEmptySource
	}
}
