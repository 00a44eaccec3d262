package memeforce

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bodgit/memeforce/palette"
	"github.com/bodgit/memeforce/sprite"
	_ "github.com/mattn/go-sqlite3"
	"github.com/oklog/ulid/v2"
	"gopkg.in/Sirupsen/logrus.v0"
)

// ErrSpriteNotFound is returned when the library has no sprite with the
// requested identifier
var ErrSpriteNotFound = errors.New("sprite not found")

// Library is a local collection of sprites backed by a sqlite database
type Library struct {
	db     *sql.DB
	logger logrus.FieldLogger
}

// NewLibrary opens, creating if necessary, the library database at file
func NewLibrary(file string, logger logrus.FieldLogger) (*Library, error) {
	if logger == nil {
		logger = discardLogger()
	}

	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on", file))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS sprite (id TEXT PRIMARY KEY NOT NULL, display_name TEXT NOT NULL, author TEXT NOT NULL, description TEXT, data BLOB NOT NULL, palette TEXT NOT NULL)"); err != nil {
		db.Close()
		return nil, err
	}

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS tag (sprite_id TEXT NOT NULL, position INTEGER NOT NULL, name TEXT NOT NULL, PRIMARY KEY(sprite_id, position), FOREIGN KEY(sprite_id) REFERENCES sprite(id) ON DELETE CASCADE)"); err != nil {
		db.Close()
		return nil, err
	}

	if _, err = db.Exec("CREATE INDEX IF NOT EXISTS tag_name ON tag (name)"); err != nil {
		db.Close()
		return nil, err
	}

	return &Library{
		db:     db,
		logger: logger,
	}, nil
}

// Close closes the underlying database
func (l *Library) Close() error {
	return l.db.Close()
}

type execer interface {
	Exec(string, ...interface{}) (sql.Result, error)
}

func addSprite(db execer, s sprite.Sprite) error {
	var description sql.NullString
	description.String, description.Valid = s.Description()

	id := s.ID().String()
	if _, err := db.Exec("INSERT INTO sprite (id, display_name, author, description, data, palette) VALUES (?, ?, ?, ?, ?, ?) ON CONFLICT(id) DO UPDATE SET display_name = excluded.display_name, author = excluded.author, description = excluded.description, data = excluded.data, palette = excluded.palette", id, s.DisplayName(), s.AuthorName(), description, s.Data(), s.PaletteName()); err != nil {
		return err
	}

	if _, err := db.Exec("DELETE FROM tag WHERE sprite_id = ?", id); err != nil {
		return err
	}

	for i, t := range s.Tags() {
		if _, err := db.Exec("INSERT INTO tag (sprite_id, position, name) VALUES (?, ?, ?)", id, i, t); err != nil {
			return err
		}
	}

	return nil
}

// Add stores s, replacing any sprite with the same identifier
func (l *Library) Add(s sprite.Sprite) error {
	return l.AddAll([]sprite.Sprite{s})
}

// AddAll stores all of the sprites in a single transaction
func (l *Library) AddAll(sprites []sprite.Sprite) error {
	tx, err := l.db.Begin()
	if err != nil {
		return err
	}

	for _, s := range sprites {
		if err := addSprite(tx, s); err != nil {
			tx.Rollback()
			return fmt.Errorf("%s: %w", s.ID(), err)
		}
		l.logger.WithField("id", s.ID().String()).Debug("added sprite")
	}

	return tx.Commit()
}

func (l *Library) tags(id string) ([]string, error) {
	rows, err := l.db.Query("SELECT name FROM tag WHERE sprite_id = ? ORDER BY position", id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		tags = append(tags, name)
	}

	return tags, rows.Err()
}

type spriteRow struct {
	id          string
	displayName string
	author      string
	description sql.NullString
	data        []byte
	palette     string
}

func (l *Library) sprite(r spriteRow) (sprite.Sprite, error) {
	id, err := ulid.ParseStrict(r.id)
	if err != nil {
		return sprite.Sprite{}, err
	}

	tags, err := l.tags(r.id)
	if err != nil {
		return sprite.Sprite{}, err
	}

	p, err := palette.Resolve(r.palette)
	if err != nil {
		p = sprite.DefaultPalette
	}

	return sprite.New(id, r.displayName, r.author, r.data, p, r.description.String, tags)
}

func (l *Library) query(query string, args ...interface{}) ([]sprite.Sprite, error) {
	rows, err := l.db.Query(query, args...)
	if err != nil {
		return nil, err
	}

	var results []spriteRow
	for rows.Next() {
		var r spriteRow
		if err := rows.Scan(&r.id, &r.displayName, &r.author, &r.description, &r.data, &r.palette); err != nil {
			rows.Close()
			return nil, err
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	sprites := make([]sprite.Sprite, 0, len(results))
	for _, r := range results {
		s, err := l.sprite(r)
		if err != nil {
			return nil, err
		}
		sprites = append(sprites, s)
	}

	return sprites, nil
}

// Get returns the sprite with the given identifier
func (l *Library) Get(id ulid.ULID) (sprite.Sprite, error) {
	var r spriteRow
	switch err := l.db.QueryRow("SELECT id, display_name, author, description, data, palette FROM sprite WHERE id = ?", id.String()).Scan(&r.id, &r.displayName, &r.author, &r.description, &r.data, &r.palette); err {
	case sql.ErrNoRows:
		return sprite.Sprite{}, fmt.Errorf("%w: %s", ErrSpriteNotFound, id)
	case nil:
		return l.sprite(r)
	default:
		return sprite.Sprite{}, err
	}
}

// List returns every sprite, oldest first
func (l *Library) List() ([]sprite.Sprite, error) {
	return l.query("SELECT id, display_name, author, description, data, palette FROM sprite ORDER BY id")
}

// FindByTag returns every sprite carrying tag, oldest first
func (l *Library) FindByTag(tag string) ([]sprite.Sprite, error) {
	return l.query("SELECT s.id, s.display_name, s.author, s.description, s.data, s.palette FROM sprite AS s WHERE EXISTS (SELECT 1 FROM tag AS t WHERE t.sprite_id = s.id AND t.name = ?) ORDER BY s.id", tag)
}

// Delete removes the sprite with the given identifier along with its tags
func (l *Library) Delete(id ulid.ULID) error {
	result, err := l.db.Exec("DELETE FROM sprite WHERE id = ?", id.String())
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrSpriteNotFound, id)
	}
	return nil
}

// Export writes every sprite to dir as a sprite file named after its
// identifier and returns how many were written
func (l *Library) Export(dir string, f sprite.Format) (int, error) {
	sprites, err := l.List()
	if err != nil {
		return 0, err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, err
	}

	for i, s := range sprites {
		file := filepath.Join(dir, s.ID().String()+f.Extension())
		if err := sprite.Save(s, file); err != nil {
			return i, err
		}
		l.logger.WithField("file", file).Debug("exported sprite")
	}

	return len(sprites), nil
}
