package main

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/bodgit/memeforce"
	"github.com/bodgit/memeforce/palette"
	"github.com/bodgit/memeforce/skin"
	"github.com/bodgit/memeforce/sprite"
	"github.com/bodgit/memeforce/tile"
	"github.com/oklog/ulid/v2"
	"github.com/urfave/cli/v2"
	"gopkg.in/Sirupsen/logrus.v0"
)

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func newLogger(c *cli.Context) *logrus.Logger {
	logger := logrus.New()
	logger.Out = ioutil.Discard
	if c.Bool("verbose") {
		logger.Out = os.Stderr
		logger.Level = logrus.DebugLevel
	}
	return logger
}

func loadConfig(c *cli.Context) (memeforce.Config, error) {
	return memeforce.LoadConfig(c.String("config"))
}

func newPatcher(c *cli.Context) (*memeforce.Patcher, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}

	p := memeforce.New(newLogger(c))
	if err := cfg.Patch.Configure(p); err != nil {
		return nil, err
	}

	return p, nil
}

func openLibrary(c *cli.Context) (*memeforce.Library, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Library.Path), 0755); err != nil {
		return nil, err
	}

	return memeforce.NewLibrary(cfg.Library.Path, newLogger(c))
}

func baseName(file string) string {
	return strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
}

func isImage(file string) bool {
	switch strings.ToLower(filepath.Ext(file)) {
	case ".png", ".gif", ".jpg", ".jpeg":
		return true
	}
	return false
}

func readImage(file string) (image.Image, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, _, err := image.Decode(f)
	return m, err
}

func writePNG(file string, m image.Image) error {
	f, err := os.Create(file)
	if err != nil {
		return err
	}

	if err := png.Encode(f, m); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}

func sourceFor(c *cli.Context, file string) (memeforce.Source, error) {
	if !isImage(file) {
		s, err := sprite.Load(file)
		if err != nil {
			return memeforce.Source{}, err
		}
		return memeforce.FromSprite(s), nil
	}

	p, err := palette.Resolve(strings.ToUpper(c.String("palette")))
	if err != nil {
		return memeforce.Source{}, err
	}

	m, err := readImage(file)
	if err != nil {
		return memeforce.Source{}, err
	}

	tiles, err := tile.Encode(m, p)
	if err != nil {
		return memeforce.Source{}, err
	}

	return memeforce.FromTiles(tiles, p), nil
}

func printSprite(s sprite.Sprite) {
	fmt.Printf("ID:          %s\n", s.ID())
	fmt.Printf("Name:        %s\n", s.DisplayName())
	fmt.Printf("Author:      %s\n", s.AuthorName())
	if d, ok := s.Description(); ok {
		fmt.Printf("Description: %s\n", d)
	}
	fmt.Printf("Palette:     %s\n", s.PaletteName())
	if tags := s.Tags(); len(tags) > 0 {
		fmt.Printf("Tags:        %s\n", strings.Join(tags, ", "))
	}
	fmt.Printf("Created:     %s\n", s.CreationDate().Format("2006-01-02 15:04:05"))
}

func main() {
	app := cli.NewApp()

	app.Name = "memeforce"
	app.Usage = "A Link to the Past item sprite patcher"
	app.Version = "1.0.0"

	paletteFlag := &cli.StringFlag{
		Name:  "palette",
		Value: sprite.DefaultPalette.String(),
		Usage: "item palette, one of " + strings.Join(palette.Names(), ", "),
	}

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			EnvVars: []string{"MEMEFORCE_CONFIG"},
			Value:   memeforce.DefaultConfigPath(),
			Usage:   "path to configuration file",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:        "patch",
			Usage:       "Patch an item sprite into a ROM",
			Description: "SPRITE is a sprite file or an image. It is not needed when --skin is used.",
			ArgsUsage:   "ROM [SPRITE]",
			Flags: []cli.Flag{
				paletteFlag,
				&cli.StringFlag{
					Name:  "skin",
					Usage: "name of a legacy skin to patch instead of SPRITE",
				},
				&cli.StringFlag{
					Name:  "catalog",
					Usage: "path to the legacy skin catalog",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 && !(c.NArg() == 1 && c.IsSet("skin")) {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				p, err := newPatcher(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				var src memeforce.Source
				if c.IsSet("skin") {
					catalog, err := skin.LoadCatalog(c.String("catalog"))
					if err != nil {
						return cli.NewExitError(err, 1)
					}
					s, err := catalog.Find(c.String("skin"))
					if err != nil {
						return cli.NewExitError(err, 1)
					}
					src = memeforce.FromSkin(s)
				} else {
					if src, err = sourceFor(c, c.Args().Get(1)); err != nil {
						return cli.NewExitError(err, 1)
					}
				}

				if err := p.PatchROM(c.Args().First(), src); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "extract",
			Usage:       "Extract the item sprite from a ROM",
			Description: "OUTPUT is written as a PNG image if it has a .png extension, otherwise as a sprite file.",
			ArgsUsage:   "ROM OUTPUT",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "name",
					Usage: "sprite display name, defaults to the ROM filename",
				},
				&cli.StringFlag{
					Name:  "author",
					Usage: "sprite author",
				},
				&cli.IntFlag{
					Name:  "scale",
					Value: 1,
					Usage: "PNG scale factor",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				p, err := newPatcher(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				rom, output := c.Args().Get(0), c.Args().Get(1)

				tiles, pal, err := p.ExtractROM(rom)
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				if strings.EqualFold(filepath.Ext(output), ".png") {
					if err := writePNG(output, tile.Preview(tiles, pal, c.Int("scale"))); err != nil {
						return cli.NewExitError(err, 1)
					}
					return nil
				}

				name := c.String("name")
				if name == "" {
					name = baseName(rom)
				}

				s, err := sprite.Create(name, c.String("author"), tiles.Bytes(), pal)
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				if err := sprite.Save(s, output); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "create",
			Usage:       "Create a sprite file from a 16 by 16 image",
			Description: "",
			ArgsUsage:   "IMAGE OUTPUT",
			Flags: []cli.Flag{
				paletteFlag,
				&cli.StringFlag{
					Name:  "name",
					Usage: "sprite display name, defaults to the image filename",
				},
				&cli.StringFlag{
					Name:  "author",
					Usage: "sprite author",
				},
				&cli.StringFlag{
					Name:  "description",
					Usage: "sprite description",
				},
				&cli.StringSliceFlag{
					Name:  "tag",
					Usage: "tag the sprite, may be repeated",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				input, output := c.Args().Get(0), c.Args().Get(1)

				p, err := palette.Resolve(strings.ToUpper(c.String("palette")))
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				m, err := readImage(input)
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				tiles, err := tile.Encode(m, p)
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				name := c.String("name")
				if name == "" {
					name = baseName(input)
				}

				s, err := sprite.New(ulid.ULID{}, name, c.String("author"), tiles.Bytes(), p, c.String("description"), c.StringSlice("tag"))
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				if err := sprite.Save(s, output); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "preview",
			Usage:       "Render a sprite file as a PNG image",
			Description: "",
			ArgsUsage:   "SPRITE OUTPUT",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:  "scale",
					Value: 4,
					Usage: "scale factor",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				s, err := sprite.Load(c.Args().Get(0))
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				if err := writePNG(c.Args().Get(1), tile.Preview(s.Tiles(), s.Palette(), c.Int("scale"))); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "info",
			Usage:       "Show details of sprite files or ROMs",
			Description: "",
			ArgsUsage:   "FILE...",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				for i, file := range c.Args().Slice() {
					if i > 0 {
						fmt.Println()
					}
					fmt.Printf("File:        %s\n", file)

					if sprite.IsSpriteFile(file) {
						s, err := sprite.Load(file)
						if err != nil {
							return cli.NewExitError(err, 1)
						}
						printSprite(s)
						continue
					}

					p, err := newPatcher(c)
					if err != nil {
						return cli.NewExitError(err, 1)
					}

					crc, err := memeforce.ChecksumFile(file)
					if err != nil {
						return cli.NewExitError(err, 1)
					}
					fmt.Printf("CRC32:       %s\n", crc)
					fmt.Printf("Offsets:     sheet %#X, chest palette %#X, overworld palette %#X\n", p.Offset(), p.PaletteLocationChest(), p.PaletteLocationOverworld())

					_, pal, err := p.ExtractROM(file)
					if err != nil {
						fmt.Printf("Palette:     %v\n", err)
						continue
					}
					fmt.Printf("Palette:     %s\n", pal)
				}

				return nil
			},
		},
		{
			Name:        "convert",
			Usage:       "Convert a sprite file between YAML and JSON",
			Description: "The output format is picked from the OUTPUT file extension.",
			ArgsUsage:   "INPUT OUTPUT",
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				s, err := sprite.Load(c.Args().Get(0))
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				if err := sprite.Save(s, c.Args().Get(1)); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "skins",
			Usage:       "List the legacy skins in a catalog",
			Description: "",
			ArgsUsage:   "CATALOG",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				catalog, err := skin.LoadCatalog(c.Args().First())
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				for _, s := range catalog {
					chest, overworld := s.PaletteBytes()
					fmt.Printf("%-20s %-30s %-20s %02X/%02X\n", s.SpriteName, s.DisplayName, s.Author, chest, overworld)
				}

				return nil
			},
		},
		{
			Name:  "library",
			Usage: "Manage the local sprite library",
			Subcommands: []*cli.Command{
				{
					Name:        "import",
					Usage:       "Import every sprite file found under a directory",
					Description: "",
					ArgsUsage:   "DIRECTORY",
					Action: func(c *cli.Context) error {
						if c.NArg() < 1 {
							cli.ShowCommandHelpAndExit(c, c.Command.Name, 1)
						}

						l, err := openLibrary(c)
						if err != nil {
							return cli.NewExitError(err, 1)
						}
						defer l.Close()

						n, err := l.ImportDir(context.Background(), c.Args().First())
						if err != nil {
							return cli.NewExitError(err, 1)
						}
						fmt.Printf("Imported %d sprites\n", n)

						return nil
					},
				},
				{
					Name:        "add",
					Usage:       "Add sprite files",
					Description: "",
					ArgsUsage:   "SPRITE...",
					Action: func(c *cli.Context) error {
						if c.NArg() < 1 {
							cli.ShowCommandHelpAndExit(c, c.Command.Name, 1)
						}

						var sprites []sprite.Sprite
						for _, file := range c.Args().Slice() {
							s, err := sprite.Load(file)
							if err != nil {
								return cli.NewExitError(err, 1)
							}
							sprites = append(sprites, s)
						}

						l, err := openLibrary(c)
						if err != nil {
							return cli.NewExitError(err, 1)
						}
						defer l.Close()

						if err := l.AddAll(sprites); err != nil {
							return cli.NewExitError(err, 1)
						}

						return nil
					},
				},
				{
					Name:        "list",
					Usage:       "List sprites",
					Description: "",
					Flags: []cli.Flag{
						&cli.StringFlag{
							Name:  "tag",
							Usage: "only list sprites with this tag",
						},
					},
					Action: func(c *cli.Context) error {
						l, err := openLibrary(c)
						if err != nil {
							return cli.NewExitError(err, 1)
						}
						defer l.Close()

						var sprites []sprite.Sprite
						if c.IsSet("tag") {
							sprites, err = l.FindByTag(c.String("tag"))
						} else {
							sprites, err = l.List()
						}
						if err != nil {
							return cli.NewExitError(err, 1)
						}

						for _, s := range sprites {
							fmt.Printf("%s %-30s %-20s %-5s %s\n", s.ID(), s.DisplayName(), s.AuthorName(), s.PaletteName(), strings.Join(s.Tags(), ","))
						}

						return nil
					},
				},
				{
					Name:        "show",
					Usage:       "Show a sprite",
					Description: "",
					ArgsUsage:   "ID",
					Action: func(c *cli.Context) error {
						if c.NArg() < 1 {
							cli.ShowCommandHelpAndExit(c, c.Command.Name, 1)
						}

						id, err := ulid.ParseStrict(c.Args().First())
						if err != nil {
							return cli.NewExitError(err, 1)
						}

						l, err := openLibrary(c)
						if err != nil {
							return cli.NewExitError(err, 1)
						}
						defer l.Close()

						s, err := l.Get(id)
						if err != nil {
							return cli.NewExitError(err, 1)
						}
						printSprite(s)

						return nil
					},
				},
				{
					Name:        "delete",
					Usage:       "Delete sprites",
					Description: "",
					ArgsUsage:   "ID...",
					Action: func(c *cli.Context) error {
						if c.NArg() < 1 {
							cli.ShowCommandHelpAndExit(c, c.Command.Name, 1)
						}

						l, err := openLibrary(c)
						if err != nil {
							return cli.NewExitError(err, 1)
						}
						defer l.Close()

						for _, arg := range c.Args().Slice() {
							id, err := ulid.ParseStrict(arg)
							if err != nil {
								return cli.NewExitError(err, 1)
							}
							if err := l.Delete(id); err != nil {
								return cli.NewExitError(err, 1)
							}
						}

						return nil
					},
				},
				{
					Name:        "export",
					Usage:       "Write every sprite to a directory",
					Description: "",
					ArgsUsage:   "DIRECTORY",
					Flags: []cli.Flag{
						&cli.StringFlag{
							Name:  "format",
							Value: sprite.YAML.String(),
							Usage: "sprite file format, yaml or json",
						},
					},
					Action: func(c *cli.Context) error {
						if c.NArg() < 1 {
							cli.ShowCommandHelpAndExit(c, c.Command.Name, 1)
						}

						f, err := sprite.ParseFormat(c.String("format"))
						if err != nil {
							return cli.NewExitError(err, 1)
						}

						l, err := openLibrary(c)
						if err != nil {
							return cli.NewExitError(err, 1)
						}
						defer l.Close()

						n, err := l.Export(c.Args().First(), f)
						if err != nil {
							return cli.NewExitError(err, 1)
						}
						fmt.Printf("Exported %d sprites\n", n)

						return nil
					},
				},
			},
		},
		{
			Name:  "config",
			Usage: "Manage the configuration file",
			Subcommands: []*cli.Command{
				{
					Name:        "init",
					Usage:       "Write the default configuration",
					Description: "An existing file is only replaced when --force is given.",
					Flags: []cli.Flag{
						&cli.BoolFlag{
							Name:  "force",
							Usage: "replace an existing file",
						},
					},
					Action: func(c *cli.Context) error {
						path := c.String("config")
						if _, err := os.Stat(path); err == nil && !c.Bool("force") {
							return cli.NewExitError(fmt.Errorf("%s already exists", path), 1)
						}

						if err := memeforce.SaveConfig(memeforce.DefaultConfig(), path); err != nil {
							return cli.NewExitError(err, 1)
						}

						return nil
					},
				},
				{
					Name:        "show",
					Usage:       "Print the effective configuration",
					Description: "",
					Action: func(c *cli.Context) error {
						cfg, err := loadConfig(c)
						if err != nil {
							return cli.NewExitError(err, 1)
						}

						if err := toml.NewEncoder(os.Stdout).Encode(cfg); err != nil {
							return cli.NewExitError(err, 1)
						}

						return nil
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
