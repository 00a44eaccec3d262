package tile

import (
	"image"

	"github.com/bodgit/memeforce/palette"
	"golang.org/x/image/draw"
)

// Preview renders the four tiles like Decode but scaled up by factor with
// hard pixel edges. A factor below 2 returns the unscaled image.
func Preview(s Set, p palette.Palette, factor int) image.Image {
	src := Decode(s, p)
	if factor < 2 {
		return src
	}

	dst := image.NewNRGBA(image.Rect(0, 0, pixelX*factor, pixelY*factor))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	return dst
}
