/*
Package memeforce is a library for patching a custom item sprite into an A
Link to the Past ROM image and for managing a local library of sprite files.
*/
package memeforce

import (
	"errors"
	"fmt"
	"io/ioutil"

	"github.com/bodgit/memeforce/lz2"
	"gopkg.in/Sirupsen/logrus.v0"
)

const (
	// DefaultSpritemapOffset is where the compressed item sheet starts
	DefaultSpritemapOffset = 0x18A800

	// DefaultPaletteLocationChest holds the palette byte used when the
	// item is shown coming out of a chest
	DefaultPaletteLocationChest = 0x104FE4

	// DefaultPaletteLocationOverworld holds the palette byte used when the
	// item is lying in the overworld
	DefaultPaletteLocationOverworld = 0x10126E

	// MaxSpritemapSize is the size of the window reserved in the ROM for the
	// compressed item sheet
	MaxSpritemapSize = 1023
)

var (
	// ErrIO is returned when the ROM cannot be read or written, or its
	// item sheet cannot be decompressed or compressed
	ErrIO = errors.New("i/o error")

	// ErrSizeLimitExceeded is returned when the recompressed item sheet no
	// longer fits in MaxSpritemapSize bytes
	ErrSizeLimitExceeded = errors.New("skin too large")
)

// Codec compresses and decompresses the item sheet
type Codec interface {
	Compress([]byte) ([]byte, error)
	Decompress([]byte) ([]byte, error)
}

type lz2Codec struct{}

func (lz2Codec) Compress(b []byte) ([]byte, error) {
	return lz2.Compress(b), nil
}

func (lz2Codec) Decompress(b []byte) ([]byte, error) {
	return lz2.Decompress(b)
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.Out = ioutil.Discard
	return l
}

// Patcher writes item sprites into ROM images. A Patcher is not safe for
// concurrent use and callers must serialize patches against the same ROM.
type Patcher struct {
	offset                   int
	paletteLocationChest     int
	paletteLocationOverworld int

	codec  Codec
	logger logrus.FieldLogger
}

// New returns a Patcher using the default ROM locations. A nil logger
// discards everything.
func New(logger logrus.FieldLogger) *Patcher {
	if logger == nil {
		logger = discardLogger()
	}
	return &Patcher{
		offset:                   DefaultSpritemapOffset,
		paletteLocationChest:     DefaultPaletteLocationChest,
		paletteLocationOverworld: DefaultPaletteLocationOverworld,
		codec:                    lz2Codec{},
		logger:                   logger,
	}
}

// Offset returns the location of the compressed item sheet
func (p *Patcher) Offset() int {
	return p.offset
}

// SetOffset changes the location of the compressed item sheet. Negative
// values are ignored.
func (p *Patcher) SetOffset(offset int) {
	if offset < 0 {
		return
	}
	p.offset = offset
}

// PaletteLocationChest returns the location of the chest palette byte
func (p *Patcher) PaletteLocationChest() int {
	return p.paletteLocationChest
}

// SetPaletteLocationChest changes the location of the chest palette byte.
// Negative values are ignored.
func (p *Patcher) SetPaletteLocationChest(location int) {
	if location < 0 {
		return
	}
	p.paletteLocationChest = location
}

// PaletteLocationOverworld returns the location of the overworld palette
// byte
func (p *Patcher) PaletteLocationOverworld() int {
	return p.paletteLocationOverworld
}

// SetPaletteLocationOverworld changes the location of the overworld palette
// byte. Negative values are ignored.
func (p *Patcher) SetPaletteLocationOverworld(location int) {
	if location < 0 {
		return
	}
	p.paletteLocationOverworld = location
}

// SetCodec replaces the item sheet codec
func (p *Patcher) SetCodec(c Codec) {
	if c != nil {
		p.codec = c
	}
}

func (p *Patcher) String() string {
	return fmt.Sprintf("Patcher{offset=%#x, paletteLocationChest=%#x, paletteLocationOverworld=%#x}", p.offset, p.paletteLocationChest, p.paletteLocationOverworld)
}
