package tile

import (
	"errors"
	"image"
	"image/color"
	"image/draw"

	"github.com/bodgit/memeforce/palette"
	"github.com/ericpauley/go-quantize/quantize"
)

var errWrongSize = errors.New("tile: image is wrong size")

// Anything less opaque than this is treated as transparent
const alphaThreshold = 0x8000

func (s *Set) encode(m *image.Paletted) {
	b := m.Bounds()
	for ty := 0; ty < tileY; ty++ {
		for tx := 0; tx < tileX; tx++ {
			var pixels [tilePixels]byte
			for y := 0; y < tileHeight; y++ {
				for x := 0; x < tileWidth; x++ {
					pixels[y*tileWidth+x] = m.ColorIndexAt(b.Min.X+tx*tileWidth+x, b.Min.Y+ty*tileHeight+y)
				}
			}
			s[ty*tileX+tx] = Pack(pixels)
		}
	}
}

// Return the index of the closest opaque color in p, never index 0
func closestOpaque(p color.Palette, c color.Color) byte {
	return byte(p[1:].Index(c) + 1)
}

// Encode converts the 16 by 16 Image m into four tiles. A paletted image with
// no more than eight colors has its indices used as-is, anything else is
// reduced to eight colors which are then mapped onto the colors of palette p.
func Encode(m image.Image, p palette.Palette) (Set, error) {
	var s Set

	b := m.Bounds()
	if b.Dx() != pixelX || b.Dy() != pixelY {
		return s, errWrongSize
	}

	if pm, ok := m.(*image.Paletted); ok && len(pm.Palette) <= palette.ColorsPerPalette {
		s.encode(pm)
		return s, nil
	}

	colors := p.Colors()
	if colors == nil {
		return s, palette.ErrUnknown
	}

	q := quantize.MedianCutQuantizer{}
	tmp := image.NewPaletted(b, q.Quantize(make(color.Palette, 0, palette.ColorsPerPalette), m))
	draw.Draw(tmp, b, m, b.Min, draw.Src)

	// Map each quantized color onto the target palette
	mapping := make([]byte, len(tmp.Palette))
	for i, c := range tmp.Palette {
		mapping[i] = closestOpaque(colors, c)
	}

	pm := image.NewPaletted(b, colors)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			// Transparency is taken from the source, quantizing may
			// have merged it with an opaque color
			if _, _, _, a := m.At(x, y).RGBA(); a < alphaThreshold {
				pm.SetColorIndex(x, y, 0)
				continue
			}
			pm.SetColorIndex(x, y, mapping[tmp.ColorIndexAt(x, y)])
		}
	}

	s.encode(pm)

	return s, nil
}
