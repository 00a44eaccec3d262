package memeforce

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/bodgit/memeforce/palette"
	"github.com/bodgit/memeforce/sprite"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLibrary(t *testing.T) *Library {
	t.Helper()

	l, err := NewLibrary(filepath.Join(t.TempDir(), "library.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { l.Close() })

	return l
}

func testSprite(t *testing.T, name string, tags ...string) sprite.Sprite {
	t.Helper()

	s, err := sprite.New(sprite.NewID(), name, "kan", testTiles().Bytes(), palette.Red, name+" description", tags)
	require.NoError(t, err)

	return s
}

func TestLibraryAddGet(t *testing.T) {
	l := newLibrary(t)

	s := testSprite(t, "Bomb", "explosive", "round")
	require.NoError(t, l.Add(s))

	got, err := l.Get(s.ID())
	require.NoError(t, err)
	assert.True(t, s.Equal(got), cmp.Diff(s.String(), got.String()))
	assert.Equal(t, []string{"explosive", "round"}, got.Tags())

	_, err = l.Get(sprite.NewID())
	assert.True(t, errors.Is(err, ErrSpriteNotFound))
}

func TestLibraryAddReplaces(t *testing.T) {
	l := newLibrary(t)

	s := testSprite(t, "Bomb", "explosive", "round")
	require.NoError(t, l.Add(s))

	updated := s.WithDisplayName("Big Bomb").WithTags("huge").WithDescription("")
	require.NoError(t, l.Add(updated))

	got, err := l.Get(s.ID())
	require.NoError(t, err)
	assert.Equal(t, "Big Bomb", got.DisplayName())
	assert.Equal(t, []string{"huge"}, got.Tags())
	_, ok := got.Description()
	assert.False(t, ok)

	all, err := l.List()
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestLibraryListAndFind(t *testing.T) {
	l := newLibrary(t)

	a := testSprite(t, "A", "common")
	b := testSprite(t, "B", "common", "rare")
	c := testSprite(t, "C")
	require.NoError(t, l.AddAll([]sprite.Sprite{c, a, b}))

	all, err := l.List()
	require.NoError(t, err)
	require.Len(t, all, 3)
	for i := 1; i < len(all); i++ {
		assert.True(t, sprite.Compare(all[i-1], all[i]) < 0)
	}

	common, err := l.FindByTag("common")
	require.NoError(t, err)
	require.Len(t, common, 2)
	assert.ElementsMatch(t, []string{"A", "B"}, []string{common[0].DisplayName(), common[1].DisplayName()})

	rare, err := l.FindByTag("rare")
	require.NoError(t, err)
	require.Len(t, rare, 1)
	assert.Equal(t, "B", rare[0].DisplayName())

	none, err := l.FindByTag("Common")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestLibraryDelete(t *testing.T) {
	l := newLibrary(t)

	s := testSprite(t, "Bomb", "explosive")
	require.NoError(t, l.Add(s))
	require.NoError(t, l.Delete(s.ID()))

	_, err := l.Get(s.ID())
	assert.True(t, errors.Is(err, ErrSpriteNotFound))

	tagged, err := l.FindByTag("explosive")
	require.NoError(t, err)
	assert.Empty(t, tagged)

	assert.True(t, errors.Is(l.Delete(s.ID()), ErrSpriteNotFound))
}

func TestLibraryImportExport(t *testing.T) {
	dir := t.TempDir()

	var want []sprite.Sprite
	for i, name := range []string{"One", "Two", "Three"} {
		s := testSprite(t, name, "imported")
		want = append(want, s)

		ext := ".yaml"
		if i == 1 {
			ext = ".json"
		}
		require.NoError(t, os.MkdirAll(filepath.Join(dir, name), 0755))
		require.NoError(t, sprite.Save(s, filepath.Join(dir, name, "sprite"+ext)))
	}

	// Broken, hidden and unrelated files are ignored
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte("data: [1, 2, 3]\n"), 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".hidden"), 0755))
	require.NoError(t, sprite.Save(testSprite(t, "Hidden"), filepath.Join(dir, ".hidden", "sprite.yaml")))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hello"), 0644))

	l := newLibrary(t)
	n, err := l.ImportDir(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	got, err := l.FindByTag("imported")
	require.NoError(t, err)
	require.Len(t, got, 3)
	for i := range want {
		assert.True(t, want[i].Equal(got[i]), "sprite %d", i)
	}

	out := filepath.Join(t.TempDir(), "export")
	n, err = l.Export(out, sprite.JSON)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	for _, s := range want {
		loaded, err := sprite.Load(filepath.Join(out, s.ID().String()+".json"))
		require.NoError(t, err)
		assert.True(t, s.Equal(loaded))
	}
}

func TestLibraryImportMissingDir(t *testing.T) {
	l := newLibrary(t)
	_, err := l.ImportDir(context.Background(), filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestLibraryImportCancelled(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.yaml", "b.yaml"} {
		require.NoError(t, sprite.Save(testSprite(t, name), filepath.Join(dir, name)))
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	l := newLibrary(t)
	_, err := l.ImportDir(ctx, dir)
	assert.True(t, errors.Is(err, context.Canceled))
}
