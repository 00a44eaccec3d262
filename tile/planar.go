package tile

// Pack converts 64 color indices, row by row, into planar form. Only the
// lower three bits of each index are used.
func Pack(pixels [tilePixels]byte) Tile {
	var t Tile
	for y := 0; y < tileHeight; y++ {
		var bp0, bp1, bp2 byte
		for x := 0; x < tileWidth; x++ {
			p := pixels[y*tileWidth+x]
			bit := byte(0x80) >> uint(x)
			if p&1 != 0 {
				bp0 |= bit
			}
			if p&2 != 0 {
				bp1 |= bit
			}
			if p&4 != 0 {
				bp2 |= bit
			}
		}
		t[y<<1] = bp0
		t[y<<1+1] = bp1
		t[16+y] = bp2
	}
	return t
}

// Unpack returns the 64 color indices of the tile, row by row
func (t Tile) Unpack() [tilePixels]byte {
	var pixels [tilePixels]byte
	for y := 0; y < tileHeight; y++ {
		bp0, bp1, bp2 := t[y<<1], t[y<<1+1], t[16+y]
		for x := 0; x < tileWidth; x++ {
			shift := uint(7 - x)
			pixels[y*tileWidth+x] = (bp0>>shift)&1 | ((bp1>>shift)&1)<<1 | ((bp2>>shift)&1)<<2
		}
	}
	return pixels
}

// ColorIndexAt returns the color index of the pixel at x, y
func (t Tile) ColorIndexAt(x, y int) byte {
	shift := uint(7 - x)
	return (t[y<<1]>>shift)&1 | ((t[y<<1+1]>>shift)&1)<<1 | ((t[16+y]>>shift)&1)<<2
}
