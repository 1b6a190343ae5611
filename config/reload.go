package config

import (
	"context"
	"fmt"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// Reloader watches a config file and keeps the last valid version of it.
type Reloader struct {
	watcher  *fsnotify.Watcher
	path     string
	current  atomic.Pointer[Config]
	debounce time.Duration
}

// NewReloader loads path and starts watching its directory, so editors that
// replace the file on save are noticed too.
func NewReloader(path string) (*Reloader, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	path = filepath.Clean(path)
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch %q: %w", path, err)
	}

	r := &Reloader{watcher: watcher, path: path, debounce: 500 * time.Millisecond}
	r.current.Store(cfg)
	return r, nil
}

// Current returns the latest valid configuration.
func (r *Reloader) Current() *Config {
	return r.current.Load()
}

// Run reloads the file after changes settle. Blocks until ctx is cancelled.
func (r *Reloader) Run(ctx context.Context) error {
	defer r.watcher.Close()

	var debounce *time.Timer

	for {
		select {
		case <-ctx.Done():
			if debounce != nil {
				debounce.Stop()
			}
			return nil

		case event, ok := <-r.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != r.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				if debounce != nil {
					debounce.Stop()
				}
				debounce = time.AfterFunc(r.debounce, r.reload)
			}

		case err, ok := <-r.watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn().Msgf("config watcher error: %v", err)
		}
	}
}

func (r *Reloader) reload() {
	cfg, err := LoadConfig(r.path)
	if err != nil {
		log.Warn().Msgf("config reload failed, keeping previous config: %v", err)
		return
	}
	r.current.Store(cfg)
	log.Info().Msgf("config reloaded from %s", r.path)
}
