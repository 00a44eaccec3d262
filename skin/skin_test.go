package skin

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bodgit/memeforce/lz2"
	"github.com/bodgit/memeforce/palette"
	"github.com/bodgit/memeforce/tile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const catalog = `- ulid: 01E6F3YXSW5A3AB0X4A1ACX0FN
  author: kan
  spriteName: 1up
  uri: "/gfx/1up.bin"
  preview: "/previews/1up.png"
  description: You have an extra life! ...If only.
  created: '2020-04-21T21:38:11+02:00'
  palette: 'RED'
- ulid: 01E6F3YXSW5A3AB0X4A1ACX0FP
  spriteName: bomb
  displayName: Bomb
  uri: "gfx/bomb.bin"
  preview: "previews/bomb.png"
  palette: GREEN
`

func testSheet() ([]byte, tile.Set) {
	block := make([]byte, tile.SheetSize)
	var s tile.Set
	for i := range s {
		for j := range s[i] {
			s[i][j] = byte(i*24 + j)
		}
	}
	_ = tile.Insert(block, s)
	return lz2.Compress(block), s
}

func writeCatalog(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "gfx"), 0755))

	sheet, _ := testSheet()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "gfx", "1up.bin"), sheet, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "gfx", "bomb.bin"), sheet, 0644))

	path := filepath.Join(dir, "sprites.yaml")
	require.NoError(t, os.WriteFile(path, []byte(catalog), 0644))

	return path
}

func TestLoadCatalog(t *testing.T) {
	path := writeCatalog(t)

	c, err := LoadCatalog(path)
	require.NoError(t, err)
	require.Len(t, c, 2)

	oneUp := c[0]
	assert.Equal(t, "01E6F3YXSW5A3AB0X4A1ACX0FN", oneUp.ID)
	assert.Equal(t, "1up", oneUp.DisplayName)
	assert.Equal(t, "kan", oneUp.Author)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "previews", "1up.png"), oneUp.Preview)
	assert.Equal(t, 2020, oneUp.Created.Year())
	assert.Equal(t, palette.Red.ChestID(), oneUp.PaletteChest)
	assert.Equal(t, palette.Red.OverworldID(), oneUp.PaletteOverworld)

	bomb, err := c.Find("BOMB")
	require.NoError(t, err)
	assert.Equal(t, "Bomb", bomb.DisplayName)
	assert.Equal(t, "Bomb", bomb.Description)
	assert.Equal(t, "unknown", bomb.Author)

	_, err = c.Find("nope")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestSkinTilesAndPalette(t *testing.T) {
	c, err := LoadCatalog(writeCatalog(t))
	require.NoError(t, err)

	_, want := testSheet()

	got, err := c[0].Tiles()
	require.NoError(t, err)
	assert.Equal(t, want, got)

	p, err := c[0].Palette()
	require.NoError(t, err)
	assert.Equal(t, palette.Red, p)
}

func TestSkinUnknownPaletteBytes(t *testing.T) {
	s := &Skin{PaletteChest: 0x04, PaletteOverworld: 0x04}
	_, err := s.Palette()
	assert.True(t, errors.Is(err, palette.ErrUnknown))
}

func TestReadCatalogErrors(t *testing.T) {
	dir := t.TempDir()

	tables := []struct {
		name string
		in   string
	}{
		{"missing sheet", "- spriteName: x\n  uri: missing.bin\n  palette: GREEN\n"},
		{"bad palette", "- spriteName: x\n  uri: missing.bin\n  palette: PURPLE\n"},
		{"no name", "- uri: missing.bin\n  palette: GREEN\n"},
		{"not a list", "spriteName: x\n"},
	}

	for _, table := range tables {
		t.Run(table.name, func(t *testing.T) {
			_, err := ReadCatalog(strings.NewReader(table.in), dir)
			assert.Error(t, err)
		})
	}
}

func TestReadEmptyCatalog(t *testing.T) {
	c, err := ReadCatalog(strings.NewReader(""), t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, c)
}
