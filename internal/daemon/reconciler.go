package daemon

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// ReconcilerConfig holds configuration for the reconciler.
type ReconcilerConfig struct {
	Interval time.Duration
	Logger   zerolog.Logger
}

type fileStamp struct {
	exists  bool
	size    int64
	modTime time.Time
}

// Reconciler periodically checks the watched files for drift that the file
// watcher missed (network filesystems, dropped events) and triggers a reload.
type Reconciler struct {
	interval time.Duration
	paths    []string
	stamps   map[string]fileStamp
	onDrift  func()
	logger   zerolog.Logger
}

// NewReconciler creates a reconciler over paths. The current state of each
// file is recorded so only later changes count as drift.
func NewReconciler(cfg ReconcilerConfig, paths []string, onDrift func()) *Reconciler {
	interval := cfg.Interval
	if interval <= 0 {
		interval = 30 * time.Second
	}

	r := &Reconciler{
		interval: interval,
		stamps:   make(map[string]fileStamp),
		onDrift:  onDrift,
		logger:   cfg.Logger,
	}
	for _, p := range paths {
		if p == "" {
			continue
		}
		r.paths = append(r.paths, p)
		r.stamps[p] = stat(p)
	}
	return r
}

// Run starts the reconciliation loop. Blocks until context is cancelled.
func (r *Reconciler) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Debug().Dur("interval", r.interval).Msg("reconciler started")

	for {
		select {
		case <-ctx.Done():
			r.logger.Debug().Msg("reconciler stopped")
			return nil
		case <-ticker.C:
			r.ReconcileNow()
		}
	}
}

// ReconcileNow performs a single pass and reports whether drift was found.
func (r *Reconciler) ReconcileNow() bool {
	defer func() {
		if err := recover(); err != nil {
			r.logger.Error().Interface("panic", err).Msg("reconciler panic recovered")
		}
	}()

	drift := false
	for _, p := range r.paths {
		cur := stat(p)
		if cur != r.stamps[p] {
			r.logger.Info().Str("file", p).Msg("reconciler: file changed on disk")
			r.stamps[p] = cur
			drift = true
		}
	}
	if drift {
		r.onDrift()
	}
	return drift
}

func stat(path string) fileStamp {
	info, err := os.Stat(path)
	if err != nil {
		return fileStamp{}
	}
	return fileStamp{exists: true, size: info.Size(), modTime: info.ModTime()}
}
