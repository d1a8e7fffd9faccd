package daemon

import (
	"github.com/rs/zerolog"

	"github.com/1broseidon/deskfolio/internal/config"
	"github.com/1broseidon/deskfolio/internal/content"
	"github.com/1broseidon/deskfolio/internal/desktop"
)

// Synchronizer registers catalog windows on the manager. Windows are never
// unregistered: removing one from the catalog leaves it in the running
// session until restart.
type Synchronizer struct {
	mgr    *desktop.Manager
	logger zerolog.Logger
}

// NewSynchronizer creates a synchronizer for mgr.
func NewSynchronizer(mgr *desktop.Manager, logger zerolog.Logger) *Synchronizer {
	return &Synchronizer{
		mgr:    mgr,
		logger: logger,
	}
}

// Sync registers every catalog window, with cfg overrides applied, and
// returns the ids that were not registered before.
func (s *Synchronizer) Sync(cat *content.Catalog, cfg *config.Config) []string {
	if cat == nil {
		return nil
	}

	var added []string
	for _, spec := range cfg.ApplyOverrides(cat.Specs()) {
		if _, exists := s.mgr.Window(spec.ID); exists {
			continue
		}
		s.mgr.Register(spec)
		added = append(added, spec.ID)
		s.logger.Debug().Str("window_id", spec.ID).Str("title", spec.Title).Msg("registered window")
	}

	if len(added) > 0 {
		s.logger.Info().Strs("window_ids", added).Msg("catalog windows registered")
	}
	return added
}

// Orphans returns registered ids the catalog no longer declares.
func (s *Synchronizer) Orphans(cat *content.Catalog) []string {
	if cat == nil {
		return nil
	}
	declared := make(map[string]struct{}, len(cat.Windows))
	for _, w := range cat.Windows {
		declared[w.ID] = struct{}{}
	}

	var orphans []string
	for _, w := range s.mgr.Snapshot().Windows {
		if _, ok := declared[w.ID]; !ok {
			orphans = append(orphans, w.ID)
		}
	}
	return orphans
}
