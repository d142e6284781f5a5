package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/cours-de-latin/interpres"
)

// reloadDebounce collapses the burst of events an editor or a copy emits
// into one reload.
var reloadDebounce = 250 * time.Millisecond

// watch reloads the engine whenever a data file under dir changes. A load
// that fails is logged and the previous engine keeps serving. It returns
// when ctx is done.
func (s *server) watch(ctx context.Context, dir string, load func() (*interpres.Engine, error)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()
	if err := w.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	s.log.Info("watching data directory", zap.String("dir", dir))

	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Ext(event.Name) != ".txt" {
				continue
			}
			if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) &&
				!event.Op.Has(fsnotify.Remove) && !event.Op.Has(fsnotify.Rename) {
				continue
			}
			s.log.Debug("data file changed", zap.String("file", event.Name), zap.Stringer("op", event.Op))
			fire = time.After(reloadDebounce)
		case <-fire:
			fire = nil
			s.reload(load)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			s.log.Warn("watcher error", zap.Error(err))
		}
	}
}

func (s *server) reload(load func() (*interpres.Engine, error)) {
	start := time.Now()
	e, err := load()
	if err != nil {
		s.log.Error("reload failed, keeping current data", zap.Error(err))
		return
	}
	s.engine.Store(e)
	s.log.Info("data reloaded", zap.Duration("elapsed", time.Since(start)))
}
