package sprite

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/oklog/ulid/v2"
)

// Format is a structured text encoding for sprite files
type Format int

const (
	YAML Format = iota
	JSON
)

func (f Format) String() string {
	switch f {
	case YAML:
		return "yaml"
	case JSON:
		return "json"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// Extension returns the preferred file extension for f
func (f Format) Extension() string {
	if f == JSON {
		return ".json"
	}
	return ".yaml"
}

// ParseFormat returns the format named by s, ignoring case
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "yaml", "yml":
		return YAML, nil
	case "json":
		return JSON, nil
	default:
		return YAML, fmt.Errorf("sprite: unknown format %q", s)
	}
}

// ErrFormat is returned when a sprite file cannot be read
var ErrFormat = errors.New("sprite: bad sprite file")

// Extensions lists the file extensions recognised as sprite files
var Extensions = []string{".yaml", ".yml", ".json"}

// FormatFor picks the format from the file extension, defaulting to YAML
func FormatFor(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return JSON
	}
	return YAML
}

// IsSpriteFile reports whether path has one of the sprite file extensions
func IsSpriteFile(path string) bool {
	ext := filepath.Ext(path)
	for _, e := range Extensions {
		if strings.EqualFold(ext, e) {
			return true
		}
	}
	return false
}

const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

func timestamp(s Sprite) string {
	return s.CreationDate().Format(timestampLayout)
}

// record is the sprite as read from a file, before normalization
type record struct {
	id          string
	displayName *string
	author      string
	description *string
	data        []byte
	palette     string
	tags        []string
}

func (r record) sprite() (Sprite, error) {
	if r.displayName == nil {
		return Sprite{}, fmt.Errorf("%w: missing displayName", ErrValidation)
	}

	var id ulid.ULID
	if r.id != "" {
		var err error
		if id, err = ulid.ParseStrict(r.id); err != nil {
			return Sprite{}, fmt.Errorf("invalid id %q: %w", r.id, err)
		}
	} else {
		id = NewID()
	}

	paletteName := r.palette
	if paletteName == "" {
		paletteName = DefaultPalette.String()
	}

	return Normalize(Sprite{
		id:          id,
		displayName: *r.displayName,
		authorName:  r.author,
		description: r.description,
		data:        r.data,
		paletteName: paletteName,
		tags:        r.tags,
	})
}

func splitTags(s string) []string {
	var tags []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// Decode reads a sprite from r in the given format
func Decode(r io.Reader, f Format) (Sprite, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return Sprite{}, fmt.Errorf("%w: %w", ErrFormat, err)
	}

	var rec record
	switch f {
	case JSON:
		rec, err = decodeJSON(b)
	default:
		rec, err = decodeYAML(b)
	}
	if err != nil {
		return Sprite{}, fmt.Errorf("%w: %w", ErrFormat, err)
	}

	s, err := rec.sprite()
	if err != nil {
		return Sprite{}, fmt.Errorf("%w: %w", ErrFormat, err)
	}

	return s, nil
}

// Encode writes s to w in the given format
func Encode(w io.Writer, s Sprite, f Format) error {
	var (
		b   []byte
		err error
	)
	switch f {
	case JSON:
		b = encodeJSON(s)
	default:
		if b, err = encodeYAML(s); err != nil {
			return err
		}
	}
	_, err = w.Write(b)
	return err
}

// Load reads the sprite file at path, the format is picked from the file
// extension
func Load(path string) (Sprite, error) {
	f, err := os.Open(path)
	if err != nil {
		return Sprite{}, fmt.Errorf("%w: %w", ErrFormat, err)
	}
	defer f.Close()

	return Decode(f, FormatFor(path))
}

// Save writes s to path, replacing any existing file. The format is picked
// from the file extension.
func Save(s Sprite, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := Encode(f, s, FormatFor(path)); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}
