package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const defaultDebounce = 500 * time.Millisecond

var skipDirs = map[string]bool{
	".git": true,
	".hg":  true,
	".svn": true,
}

type Options struct {
	Debounce time.Duration
}

// Run watches the directory tree under root and invokes fn after
// changes settle for the debounce interval. Directories created
// while watching are picked up. fn runs on the watcher goroutine's
// timer; Run blocks until ctx is cancelled. Watcher errors are
// logged, never fatal.
func Run(
	ctx context.Context,
	root string,
	opts Options,
	fn func(),
) error {
	debounce := opts.Debounce
	if debounce == 0 {
		debounce = defaultDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := addTree(watcher, root); err != nil {
		return err
	}
	slog.Debug("watching", "root", root)

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil &&
					info.IsDir() &&
					!skipDirs[filepath.Base(event.Name)] {
					if err := addTree(watcher, event.Name); err != nil {
						slog.Warn("watch new dir",
							"path", event.Name,
							"error", err,
						)
					}
				}
			}
			if !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Write) &&
				!event.Has(fsnotify.Remove) &&
				!event.Has(fsnotify.Rename) {
				continue
			}
			slog.Debug("change",
				"path", event.Name,
				"op", event.Op.String(),
			)
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, fn)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watcher error", "error", err)
		}
	}
}

func addTree(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(
		root,
		func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() {
				return nil
			}
			if p != root && skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			if err := watcher.Add(p); err != nil {
				return fmt.Errorf("watch %s: %w", p, err)
			}
			return nil
		},
	)
}
