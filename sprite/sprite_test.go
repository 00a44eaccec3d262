package sprite

import (
	"errors"
	"testing"
	"time"

	"github.com/bodgit/memeforce/palette"
	"github.com/google/go-cmp/cmp"
	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testData() []byte {
	b := make([]byte, DataSize)
	for i := range b {
		b[i] = byte(i * 7)
	}
	return b
}

func TestCreate(t *testing.T) {
	s, err := Create("asd", "me", testData(), palette.Green)
	require.NoError(t, err)

	_, ok := s.Description()
	assert.False(t, ok)
	assert.Equal(t, "me", s.AuthorName())
	assert.Equal(t, "GREEN", s.PaletteName())
	assert.Equal(t, palette.Green, s.Palette())
	assert.NotEqual(t, ulid.ULID{}, s.ID())
	assert.Empty(t, s.Tags())
}

func TestCreateDataLength(t *testing.T) {
	for _, n := range []int{0, 1, DataSize - 1, DataSize + 1, 2 * DataSize} {
		_, err := Create("asd", "me", make([]byte, n), palette.Green)
		assert.True(t, errors.Is(err, ErrValidation), n)
	}

	_, err := Create("asd", "me", make([]byte, DataSize), palette.Green)
	assert.NoError(t, err)
}

func TestNewKeepsID(t *testing.T) {
	id := ulid.MustParse("01E6F3YXSW5A3AB0X4A1ACX0FN")

	s, err := New(id, "1up", "kan", testData(), palette.Red, "You have an extra life!", []string{"life", "green"})
	require.NoError(t, err)

	assert.Equal(t, id, s.ID())
	assert.Equal(t, time.UnixMilli(int64(id.Time())).UTC(), s.CreationDate())
	assert.Equal(t, []string{"life", "green"}, s.Tags())
	d, ok := s.Description()
	assert.True(t, ok)
	assert.Equal(t, "You have an extra life!", d)
}

func TestNewCopiesInput(t *testing.T) {
	data := testData()
	tags := []string{"a"}

	s, err := New(ulid.ULID{}, "x", "y", data, palette.Blue, "", tags)
	require.NoError(t, err)

	data[0] = 0xff
	tags[0] = "b"
	assert.Equal(t, testData(), s.Data())
	assert.Equal(t, []string{"a"}, s.Tags())

	// Mutating a returned copy does not affect the sprite
	s.Data()[1] = 0xff
	assert.Equal(t, testData(), s.Data())
}

func TestNormalizePalette(t *testing.T) {
	tables := []struct {
		in   string
		want string
	}{
		{"GREEN", "GREEN"},
		{"green", "GREEN"},
		{"Red", "RED"},
		{"bLuE", "BLUE"},
		{"purple", "GREEN"},
		{"", "GREEN"},
		{" red", "GREEN"},
	}

	s, err := Create("x", "y", testData(), palette.Blue)
	require.NoError(t, err)

	for _, table := range tables {
		t.Run(table.in, func(t *testing.T) {
			assert.Equal(t, table.want, s.WithPaletteName(table.in).PaletteName())
		})
	}
}

func TestNormalizeDescription(t *testing.T) {
	s, err := Create("x", "y", testData(), palette.Green)
	require.NoError(t, err)

	for _, d := range []string{"", " ", "\t\n"} {
		_, ok := s.WithDescription(d).Description()
		assert.False(t, ok)
	}

	d, ok := s.WithDescription(" a ").Description()
	assert.True(t, ok)
	assert.Equal(t, " a ", d)
}

func TestNormalizeAuthor(t *testing.T) {
	s, err := Create("x", "", testData(), palette.Green)
	require.NoError(t, err)
	assert.Equal(t, UnknownAuthor, s.AuthorName())
	assert.Equal(t, UnknownAuthor, s.WithAuthorName("  ").AuthorName())
	assert.Equal(t, "kan", s.WithAuthorName("kan").AuthorName())
}

func TestNormalizeIdempotent(t *testing.T) {
	candidates := []Sprite{
		{id: NewID(), displayName: "a", authorName: " ", description: stringPtr(" "), data: testData(), paletteName: "blue"},
		{id: NewID(), displayName: "b", authorName: "me", data: testData(), paletteName: "nope", tags: []string{"x"}},
		{id: NewID(), displayName: "c", authorName: "me", description: stringPtr("d"), data: testData(), paletteName: "RED"},
	}

	for _, c := range candidates {
		once, err := Normalize(c)
		require.NoError(t, err)
		twice, err := Normalize(once)
		require.NoError(t, err)
		if diff := cmp.Diff(once, twice); diff != "" {
			t.Errorf("Normalize() not idempotent (-once +twice):\n%s", diff)
		}
	}
}

func TestNormalizeFixesEverything(t *testing.T) {
	// Every field needs correcting, none may be skipped
	s, err := Normalize(Sprite{
		id:          NewID(),
		description: stringPtr(""),
		data:        testData(),
		paletteName: "magenta",
	})
	require.NoError(t, err)

	_, ok := s.Description()
	assert.False(t, ok)
	assert.Equal(t, UnknownAuthor, s.AuthorName())
	assert.Equal(t, "GREEN", s.PaletteName())
	assert.NotNil(t, s.Tags())
}

func TestNormalizeRejectsData(t *testing.T) {
	_, err := Normalize(Sprite{id: NewID(), paletteName: "green", data: make([]byte, 95)})
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestCompare(t *testing.T) {
	a, err := New(ulid.MustParse("01E6F3YXSW5A3AB0X4A1ACX0FN"), "a", "", testData(), palette.Green, "", nil)
	require.NoError(t, err)
	b, err := New(ulid.MustParse("01E6F3YXSW5A3AB0X4A1ACX0FP"), "b", "", testData(), palette.Green, "", nil)
	require.NoError(t, err)

	assert.Equal(t, -1, Compare(a, b))
	assert.Equal(t, 1, Compare(b, a))
	assert.Equal(t, 0, Compare(a, a))
}

func TestTiles(t *testing.T) {
	s, err := Create("x", "y", testData(), palette.Green)
	require.NoError(t, err)
	assert.Equal(t, testData(), s.Tiles().Bytes())
}

func TestEqual(t *testing.T) {
	s, err := Create("x", "y", testData(), palette.Green)
	require.NoError(t, err)

	assert.True(t, s.Equal(s))
	assert.False(t, s.Equal(s.WithDisplayName("z")))
	assert.False(t, s.Equal(s.WithDescription("z")))
	assert.False(t, s.Equal(s.WithTags("z")))
	assert.False(t, s.Equal(s.WithPaletteName("RED")))
	assert.True(t, s.Equal(s.WithPaletteName("green")))
}
