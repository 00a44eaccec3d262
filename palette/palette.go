/*
Package palette implements the closed set of item palettes that the ALttP ROM
can select for the item sprite.

Each palette is identified in the ROM by two single bytes, one read when the
item is shown coming out of a chest and one read when the item is lying in
the overworld.
*/
package palette

import (
	"errors"
	"fmt"
	"image/color"
)

// Palette is one of the item palettes
type Palette int

const (
	Green Palette = iota + 1
	Red
	Blue
)

// ColorsPerPalette is the number of colors addressable by a 3bpp tile
const ColorsPerPalette = 8

// ErrUnknown is returned when a name or byte pair does not match any palette
var ErrUnknown = errors.New("palette: unknown palette")

type entry struct {
	name      string
	chest     byte
	overworld byte
	colors    color.Palette
}

var transparent = color.RGBA{0, 0, 0, 0}

var palettes = map[Palette]entry{
	Green: {
		name:      "GREEN",
		chest:     0x04,
		overworld: 0x08,
		colors: color.Palette{
			transparent,
			color.RGBA{0xf8, 0xf8, 0xf8, 0xff},
			color.RGBA{0x28, 0x28, 0x28, 0xff},
			color.RGBA{0x48, 0xa0, 0x20, 0xff},
			color.RGBA{0x98, 0xd8, 0x40, 0xff},
			color.RGBA{0xd8, 0xf8, 0x88, 0xff},
			color.RGBA{0x20, 0x60, 0x18, 0xff},
			color.RGBA{0xb8, 0x68, 0x20, 0xff},
		},
	},
	Red: {
		name:      "RED",
		chest:     0x02,
		overworld: 0x04,
		colors: color.Palette{
			transparent,
			color.RGBA{0xf8, 0xf8, 0xf8, 0xff},
			color.RGBA{0x28, 0x28, 0x28, 0xff},
			color.RGBA{0xb8, 0x10, 0x18, 0xff},
			color.RGBA{0xf0, 0x50, 0x38, 0xff},
			color.RGBA{0xf8, 0xa8, 0x88, 0xff},
			color.RGBA{0x70, 0x08, 0x10, 0xff},
			color.RGBA{0xe8, 0xb0, 0x20, 0xff},
		},
	},
	Blue: {
		name:      "BLUE",
		chest:     0x06,
		overworld: 0x0c,
		colors: color.Palette{
			transparent,
			color.RGBA{0xf8, 0xf8, 0xf8, 0xff},
			color.RGBA{0x28, 0x28, 0x28, 0xff},
			color.RGBA{0x20, 0x48, 0xc0, 0xff},
			color.RGBA{0x50, 0x90, 0xf0, 0xff},
			color.RGBA{0xa8, 0xd0, 0xf8, 0xff},
			color.RGBA{0x10, 0x20, 0x78, 0xff},
			color.RGBA{0x98, 0x98, 0xb0, 0xff},
		},
	},
}

// All returns every palette in declaration order
func All() []Palette {
	return []Palette{Green, Red, Blue}
}

// Names returns the canonical names of every palette
func Names() []string {
	all := All()
	names := make([]string, 0, len(all))
	for _, p := range all {
		names = append(names, p.String())
	}
	return names
}

// Resolve returns the palette with the exact name given. No case folding is
// performed.
func Resolve(name string) (Palette, error) {
	for _, p := range All() {
		if palettes[p].name == name {
			return p, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknown, name)
}

// Reverse returns the palette whose chest and overworld bytes both match
func Reverse(chest, overworld byte) (Palette, error) {
	for _, p := range All() {
		if e := palettes[p]; e.chest == chest && e.overworld == overworld {
			return p, nil
		}
	}
	return 0, fmt.Errorf("%w: chest [%#02x], overworld [%#02x]", ErrUnknown, chest, overworld)
}

// Valid reports whether p is one of the known palettes
func (p Palette) Valid() bool {
	_, ok := palettes[p]
	return ok
}

func (p Palette) String() string {
	if e, ok := palettes[p]; ok {
		return e.name
	}
	return fmt.Sprintf("Palette(%d)", int(p))
}

// ChestID returns the byte selecting this palette for the chest context
func (p Palette) ChestID() byte {
	return palettes[p].chest
}

// OverworldID returns the byte selecting this palette for the overworld
// context
func (p Palette) OverworldID() byte {
	return palettes[p].overworld
}

// Colors returns an approximation of the in-game colors, index 0 is
// transparent. The returned palette is a copy.
func (p Palette) Colors() color.Palette {
	e, ok := palettes[p]
	if !ok {
		return nil
	}
	return append(color.Palette(nil), e.colors...)
}
