/*
Package tile implements the 8 by 8, 3 bits per pixel SNES tiles that make up
the ALttP item sprite.

The item sprite is 16 by 16 pixels exactly which is split into four 8 by 8
tiles. Each tile is stored as 24 bytes of bitplanes; the first 16 bytes hold
bitplanes 0 and 1 interleaved row by row, the last 8 bytes hold bitplane 2.
The four tiles live at fixed positions within the decompressed item sheet,
which is 16 tiles wide.
*/
package tile

import (
	"errors"
	"fmt"
)

const (
	tileWidth  = 8
	tileHeight = tileWidth
	tilePixels = tileWidth * tileHeight
	tileX      = 2
	tileY      = 2
	numTiles   = tileX * tileY
	pixelX     = tileWidth * tileX
	pixelY     = tileHeight * tileY

	// Size is the number of bytes used by one tile
	Size = 24

	// SetSize is the number of bytes used by the four tiles of a sprite
	SetSize = Size * numTiles

	// SheetSize is the decompressed size of the 64 tile item sheet
	SheetSize = 64 * Size
)

// Positions are the tile slots within the item sheet, in the order top-left,
// top-right, bottom-left, bottom-right.
var Positions = [numTiles]int{44, 45, 60, 61}

var errSetSize = fmt.Errorf("tile: expected %d bytes", SetSize)

// Tile is one 3bpp planar tile
type Tile [Size]byte

// Set is the four tiles forming a 16 by 16 sprite
type Set [numTiles]Tile

// SetFromBytes splits b into four tiles. It fails unless b is exactly
// SetSize bytes long.
func SetFromBytes(b []byte) (Set, error) {
	var s Set
	if len(b) != SetSize {
		return s, fmt.Errorf("%w, got %d", errSetSize, len(b))
	}
	for i := range s {
		copy(s[i][:], b[i*Size:])
	}
	return s, nil
}

// Bytes returns the four tiles concatenated
func (s Set) Bytes() []byte {
	b := make([]byte, 0, SetSize)
	for _, t := range s {
		b = append(b, t[:]...)
	}
	return b
}

// PositionsToOffsets converts tile positions into byte offsets within a
// decompressed sheet
func PositionsToOffsets(positions []int) []int {
	offsets := make([]int, len(positions))
	for i, p := range positions {
		offsets[i] = p * Size
	}
	return offsets
}

// Offsets returns the byte offsets of the default item sprite positions
func Offsets() []int {
	return PositionsToOffsets(Positions[:])
}

var errShortBlock = errors.New("tile: sprite block too short")

func checkBlock(block []byte, offsets []int) error {
	for _, o := range offsets {
		if o+Size > len(block) {
			return fmt.Errorf("%w: need %d bytes, have %d", errShortBlock, o+Size, len(block))
		}
	}
	return nil
}

// Extract copies the four item tiles out of a decompressed sheet
func Extract(block []byte) (Set, error) {
	var s Set
	offsets := Offsets()
	if err := checkBlock(block, offsets); err != nil {
		return s, err
	}
	for i, o := range offsets {
		copy(s[i][:], block[o:o+Size])
	}
	return s, nil
}

// Insert overwrites the four item tiles within a decompressed sheet
func Insert(block []byte, s Set) error {
	offsets := Offsets()
	if err := checkBlock(block, offsets); err != nil {
		return err
	}
	for i, o := range offsets {
		copy(block[o:o+Size], s[i][:])
	}
	return nil
}
