package tile

import (
	"image"

	"github.com/bodgit/memeforce/palette"
)

// Decode renders the four tiles as a 16 by 16 paletted image using the
// colors of palette p.
func Decode(s Set, p palette.Palette) *image.Paletted {
	m := image.NewPaletted(image.Rect(0, 0, pixelX, pixelY), p.Colors())

	for ty := 0; ty < tileY; ty++ {
		for tx := 0; tx < tileX; tx++ {
			t := s[ty*tileX+tx]
			for y := 0; y < tileHeight; y++ {
				for x := 0; x < tileWidth; x++ {
					m.SetColorIndex(tx*tileWidth+x, ty*tileHeight+y, t.ColorIndexAt(x, y))
				}
			}
		}
	}

	return m
}
