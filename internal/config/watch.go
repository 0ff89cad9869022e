package config

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const watchDebounce = 150 * time.Millisecond

// Watch reloads the config file at path whenever it changes and passes the
// new config to fn. The parent directory is watched so that editors which
// replace the file on save are picked up. Watch blocks until ctx is done.
func Watch(ctx context.Context, path string, log *zap.Logger, fn func(*Config)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(path)); err != nil {
		return err
	}

	target := filepath.Clean(path)
	var pending <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
				pending = time.After(watchDebounce)
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn("config watch error", zap.Error(err))

		case <-pending:
			pending = nil
			cfg, err := LoadFrom(path)
			if err != nil {
				log.Warn("config reload failed", zap.String("path", path), zap.Error(err))
				continue
			}
			if err := cfg.Validate(); err != nil {
				log.Warn("reloaded config is invalid", zap.String("path", path), zap.Error(err))
				continue
			}
			log.Debug("config reloaded", zap.String("path", path))
			fn(cfg)
		}
	}
}
