package memeforce

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/bodgit/memeforce/palette"
	"github.com/bodgit/memeforce/tile"
	"gopkg.in/Sirupsen/logrus.v0"
)

func readROM(file string) ([]byte, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}

	rom := make([]byte, info.Size())
	if _, err := io.ReadFull(f, rom); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrIO, file, err)
	}

	return rom, nil
}

// Replace the file in one step so a failed write never leaves a partially
// written ROM behind
func writeROM(file string, rom []byte) (err error) {
	// Replace the target of a symlink, not the link itself
	if file, err = filepath.EvalSymlinks(file); err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}

	info, err := os.Stat(file)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}

	f, err := os.CreateTemp(filepath.Dir(file), "."+filepath.Base(file)+".*")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(f.Name())
		}
	}()

	if _, err = f.Write(rom); err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	if err = f.Chmod(info.Mode().Perm()); err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	if err = os.Rename(f.Name(), file); err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}

	return nil
}

func (p *Patcher) checkBounds(size int) error {
	if p.offset+MaxSpritemapSize > size {
		return fmt.Errorf("%w: item sheet window %#x-%#x is beyond the end of the %d byte ROM", ErrIO, p.offset, p.offset+MaxSpritemapSize, size)
	}
	for _, location := range []int{p.paletteLocationChest, p.paletteLocationOverworld} {
		if location >= size {
			return fmt.Errorf("%w: palette location %#x is beyond the end of the %d byte ROM", ErrIO, location, size)
		}
	}
	return nil
}

// Decompress the item sheet, growing it to a full sheet if the stream is
// short
func (p *Patcher) extractSpritemap(rom []byte) ([]byte, error) {
	block, err := p.codec.Decompress(rom[p.offset : p.offset+MaxSpritemapSize])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	if len(block) < tile.SheetSize {
		block = append(block, make([]byte, tile.SheetSize-len(block))...)
	}
	return block, nil
}

// WriteTiles patches the four tiles and the palette into the in-memory ROM.
// Nothing in rom is changed if an error is returned.
func (p *Patcher) WriteTiles(rom []byte, tiles tile.Set, pal palette.Palette) error {
	if !pal.Valid() {
		return fmt.Errorf("%w: %v", palette.ErrUnknown, pal)
	}

	if err := p.checkBounds(len(rom)); err != nil {
		return err
	}

	block, err := p.extractSpritemap(rom)
	if err != nil {
		return err
	}

	if err := tile.Insert(block, tiles); err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}

	compressed, err := p.codec.Compress(block)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}

	if len(compressed) > MaxSpritemapSize {
		return fmt.Errorf("%w! Max is [%d], but supplied skin contains [%d] bytes", ErrSizeLimitExceeded, MaxSpritemapSize, len(compressed))
	}

	window := rom[p.offset : p.offset+MaxSpritemapSize]
	for i := range window {
		window[i] = 0
	}
	copy(window, compressed)

	rom[p.paletteLocationChest] = pal.ChestID()
	rom[p.paletteLocationOverworld] = pal.OverworldID()

	p.logger.WithFields(logrus.Fields{
		"offset":     fmt.Sprintf("%#x", p.offset),
		"compressed": len(compressed),
		"palette":    pal.String(),
	}).Debug("wrote item sheet")

	return nil
}

// PatchROM writes the source into the ROM image at file. The ROM on disk is
// only replaced once the patched image has been fully prepared.
func (p *Patcher) PatchROM(file string, src Source) error {
	tiles, pal, err := src.resolve()
	if err != nil {
		return err
	}

	rom, err := readROM(file)
	if err != nil {
		return err
	}
	before := checksum(rom)

	if err := p.WriteTiles(rom, tiles, pal); err != nil {
		return err
	}

	if err := writeROM(file, rom); err != nil {
		return err
	}

	p.logger.WithFields(logrus.Fields{
		"rom":    file,
		"before": before,
		"after":  checksum(rom),
	}).Info("patched ROM")

	return nil
}

// ReadTiles returns the four tiles and the palette currently in the
// in-memory ROM
func (p *Patcher) ReadTiles(rom []byte) (tile.Set, palette.Palette, error) {
	if err := p.checkBounds(len(rom)); err != nil {
		return tile.Set{}, 0, err
	}

	block, err := p.extractSpritemap(rom)
	if err != nil {
		return tile.Set{}, 0, err
	}

	tiles, err := tile.Extract(block)
	if err != nil {
		return tile.Set{}, 0, fmt.Errorf("%w: %w", ErrIO, err)
	}

	pal, err := palette.Reverse(rom[p.paletteLocationChest], rom[p.paletteLocationOverworld])
	if err != nil {
		return tile.Set{}, 0, err
	}

	return tiles, pal, nil
}

// ExtractROM reads the four tiles and the palette currently in the ROM image
// at file
func (p *Patcher) ExtractROM(file string) (tile.Set, palette.Palette, error) {
	rom, err := readROM(file)
	if err != nil {
		return tile.Set{}, 0, err
	}
	return p.ReadTiles(rom)
}
