package daemon

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

const defaultDebounce = 250 * time.Millisecond

// Watcher reports changes to a set of files. Parent directories are watched
// so editors that replace files on save are still seen.
type Watcher struct {
	files    map[string]struct{}
	dirs     map[string]struct{}
	debounce time.Duration
	onChange func()
	logger   zerolog.Logger
}

// NewWatcher creates a watcher for paths. Empty paths are skipped.
func NewWatcher(paths []string, onChange func(), logger zerolog.Logger) *Watcher {
	w := &Watcher{
		files:    make(map[string]struct{}),
		dirs:     make(map[string]struct{}),
		debounce: defaultDebounce,
		onChange: onChange,
		logger:   logger,
	}
	for _, p := range paths {
		if p == "" {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			abs = p
		}
		w.files[abs] = struct{}{}
		w.dirs[filepath.Dir(abs)] = struct{}{}
	}
	return w
}

// Run watches until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	if len(w.files) == 0 {
		<-ctx.Done()
		return nil
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer fsw.Close()

	watched := 0
	for dir := range w.dirs {
		if err := fsw.Add(dir); err != nil {
			w.logger.Warn().Err(err).Str("dir", dir).Msg("cannot watch directory")
			continue
		}
		watched++
	}
	if watched == 0 {
		w.logger.Warn().Msg("no config directory could be watched; relying on periodic reconcile")
		<-ctx.Done()
		return nil
	}
	w.logger.Info().Int("files", len(w.files)).Msg("watching configuration")

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(ev) {
				continue
			}
			w.logger.Debug().Str("op", ev.Op.String()).Str("file", ev.Name).Msg("config change detected")
			timer.Reset(w.debounce)
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn().Err(err).Msg("file watcher error")
		case <-timer.C:
			w.onChange()
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) && !ev.Has(fsnotify.Remove) {
		return false
	}
	name, err := filepath.Abs(ev.Name)
	if err != nil {
		name = ev.Name
	}
	_, ok := w.files[name]
	return ok
}
