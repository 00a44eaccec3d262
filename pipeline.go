package memeforce

import (
	"context"
	"os"
	"path/filepath"

	"github.com/bodgit/memeforce/sprite"
	"golang.org/x/sync/errgroup"
	"gopkg.in/Sirupsen/logrus.v0"
)

const importWorkers = 10

func findSpriteFiles(ctx context.Context, base string, out chan<- string) error {
	defer close(out)
	return filepath.Walk(base, func(file string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		// Ignore any hidden files or directories, otherwise we end up fighting with things like Spotlight, etc.
		if info.Name()[0] == '.' && file != base {
			if info.Mode().IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if !info.Mode().IsRegular() || !sprite.IsSpriteFile(file) {
			return nil
		}

		select {
		case out <- file:
		case <-ctx.Done():
			return ctx.Err()
		}

		return nil
	})
}

func (l *Library) loadWorker(ctx context.Context, in <-chan string, out chan<- sprite.Sprite) error {
	for file := range in {
		s, err := sprite.Load(file)
		if err != nil {
			l.logger.WithFields(logrus.Fields{
				"file":  file,
				"error": err,
			}).Warn("skipping unreadable sprite file")
			continue
		}

		select {
		case out <- s:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// ImportDir loads every sprite file found under dir and adds them to the
// library in a single transaction. Files that cannot be read are logged and
// skipped. It returns the number of sprites added.
func (l *Library) ImportDir(ctx context.Context, dir string) (int, error) {
	base, err := filepath.Abs(dir)
	if err != nil {
		return 0, err
	}

	g, ctx := errgroup.WithContext(ctx)

	files := make(chan string)
	g.Go(func() error {
		return findSpriteFiles(ctx, base, files)
	})

	sprites := make(chan sprite.Sprite)
	workers, wctx := errgroup.WithContext(ctx)
	for i := 0; i < importWorkers; i++ {
		workers.Go(func() error {
			return l.loadWorker(wctx, files, sprites)
		})
	}
	g.Go(func() error {
		defer close(sprites)
		return workers.Wait()
	})

	var loaded []sprite.Sprite
	for s := range sprites {
		loaded = append(loaded, s)
	}

	if err := g.Wait(); err != nil {
		return 0, err
	}

	if err := l.AddAll(loaded); err != nil {
		return 0, err
	}

	l.logger.WithFields(logrus.Fields{
		"dir":     base,
		"sprites": len(loaded),
	}).Info("imported sprites")

	return len(loaded), nil
}
