package config

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Update is a reloaded config, or the error that prevented the reload.
type Update struct {
	Config *Config
	Err    error
}

// Watch reloads path whenever it is written or replaced. The directory is
// watched rather than the file so editors that save by rename are seen. The
// returned channel is closed once ctx is done.
func Watch(ctx context.Context, path string) (<-chan Update, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("config watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(path)); err != nil {
		w.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}

	target := filepath.Clean(path)
	updates := make(chan Update)
	go func() {
		defer close(updates)
		defer w.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != target || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				cfg, err := Load(path)
				select {
				case updates <- Update{Config: cfg, Err: err}:
				case <-ctx.Done():
					return
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				select {
				case updates <- Update{Err: err}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return updates, nil
}
