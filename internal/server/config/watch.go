package config

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/dmitrijs2005/uptimekeeper/internal/logging"
)

// Watch monitors path and calls onChange with a freshly loaded Config each
// time the file is written or replaced. base supplies the values the file
// is overlaid onto. A reload that fails is logged and skipped, so the
// previous config stays active. Watch returns when ctx is cancelled.
//
// The parent directory is watched rather than the file itself, because
// editors and config management often save by renaming a new file into
// place, which drops a watch on the old inode.
func Watch(ctx context.Context, path string, base func() *Config, log logging.Logger, onChange func(*Config)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return err
	}

	log.Info(ctx, "config: watching for changes", "path", path)

	target := filepath.Clean(path)
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			cfg := base()
			if err := LoadFile(path, cfg); err != nil {
				log.Error(ctx, "config: reload failed, keeping previous config", "path", path, "error", err)
				continue
			}
			if err := cfg.Validate(); err != nil {
				log.Error(ctx, "config: reloaded config is invalid, keeping previous config", "path", path, "error", err)
				continue
			}

			log.Info(ctx, "config: reloaded", "path", path)
			onChange(cfg)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Error(ctx, "config: watcher error", "error", err)
		}
	}
}
