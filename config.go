package memeforce

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/kirsle/configdir"
)

const (
	configName     = "memeforce"
	configFilename = "config.toml"
	libraryName    = "library.db"
)

// ErrInvalidOffset is returned when a configured ROM location is not a
// hexadecimal number
var ErrInvalidOffset = errors.New("invalid offset")

// Config is the persisted configuration
type Config struct {
	Patch   PatchConfig   `toml:"patch"`
	Library LibraryConfig `toml:"library"`
}

// PatchConfig holds the ROM locations used when patching. Locations are
// stored as hexadecimal strings, with or without a 0x prefix.
type PatchConfig struct {
	UseCustomOffset          bool   `toml:"use_custom_offset"`
	Offset                   string `toml:"offset"`
	PaletteLocationChest     string `toml:"palette_location_chest"`
	PaletteLocationOverworld string `toml:"palette_location_overworld"`
}

// LibraryConfig holds the sprite library settings
type LibraryConfig struct {
	Path string `toml:"path"`
}

func formatOffset(offset int) string {
	return fmt.Sprintf("0x%X", offset)
}

// ParseOffset parses a hexadecimal ROM location
func ParseOffset(s string) (int, error) {
	t := strings.TrimSpace(s)
	if len(t) > 1 && t[0] == '0' && (t[1] == 'x' || t[1] == 'X') {
		t = t[2:]
	}
	n, err := strconv.ParseUint(t, 16, 31)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidOffset, s)
	}
	return int(n), nil
}

// DefaultConfig returns the configuration matching a stock ROM
func DefaultConfig() Config {
	return Config{
		Patch: PatchConfig{
			Offset:                   formatOffset(DefaultSpritemapOffset),
			PaletteLocationChest:     formatOffset(DefaultPaletteLocationChest),
			PaletteLocationOverworld: formatOffset(DefaultPaletteLocationOverworld),
		},
		Library: LibraryConfig{
			Path: filepath.Join(configdir.LocalConfig(configName), libraryName),
		},
	}
}

// DefaultConfigPath returns the location of the per-user configuration file
func DefaultConfigPath() string {
	return filepath.Join(configdir.LocalConfig(configName), configFilename)
}

// LoadConfig reads the configuration at path. A missing file yields the
// default configuration, any keys absent from the file keep their defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, err
	}

	// Catch bad values early rather than at patch time
	if _, err := cfg.Patch.locations(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// SaveConfig writes the configuration to path, creating any missing parent
// directories
func SaveConfig(cfg Config, path string) error {
	buf, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}

	if err := configdir.MakePath(filepath.Dir(path)); err != nil {
		return err
	}

	return os.WriteFile(path, buf, 0644)
}

func (c PatchConfig) locations() ([3]int, error) {
	var l [3]int
	for i, s := range []string{c.Offset, c.PaletteLocationChest, c.PaletteLocationOverworld} {
		if s == "" {
			l[i] = -1
			continue
		}
		n, err := ParseOffset(s)
		if err != nil {
			return l, err
		}
		l[i] = n
	}
	return l, nil
}

// Configure applies the locations to p. The sheet offset is only changed
// when UseCustomOffset is set, palette locations always apply. Empty values
// leave p unchanged.
func (c PatchConfig) Configure(p *Patcher) error {
	l, err := c.locations()
	if err != nil {
		return err
	}

	if c.UseCustomOffset {
		p.SetOffset(l[0])
	}
	p.SetPaletteLocationChest(l[1])
	p.SetPaletteLocationOverworld(l[2])

	return nil
}
