// Package daemon runs the long-lived deskfolio session: it owns the window
// manager and the preferences store, serves IPC, and reloads configuration
// and catalog when they change on disk.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/1broseidon/deskfolio/internal/config"
	"github.com/1broseidon/deskfolio/internal/content"
	"github.com/1broseidon/deskfolio/internal/desktop"
	"github.com/1broseidon/deskfolio/internal/ipc"
	"github.com/1broseidon/deskfolio/internal/logging"
	"github.com/1broseidon/deskfolio/internal/prefs"
	"github.com/1broseidon/deskfolio/internal/runtimepath"
	"github.com/1broseidon/deskfolio/internal/tiling"
	"github.com/1broseidon/deskfolio/internal/workspace"
)

// Options configures a Daemon.
type Options struct {
	// ConfigPath is the config file; empty means the default location.
	ConfigPath string
	// SocketPath overrides the IPC socket.
	SocketPath string
	// Ephemeral keeps preferences in memory instead of SQLite.
	Ephemeral bool
	// ReconcileInterval is the polling period for missed file changes.
	ReconcileInterval time.Duration
	Logger            zerolog.Logger
}

// Daemon is one running session.
type Daemon struct {
	opts       Options
	configPath string

	mu      sync.RWMutex
	cfg     *config.Config
	catalog *content.Catalog

	store  prefs.Store
	mgr    *desktop.Manager
	sync   *Synchronizer
	server *ipc.Server
	logger zerolog.Logger
}

// New loads configuration and catalog, opens the preferences store and
// registers the catalog windows. Nothing is served until Run.
func New(ctx context.Context, opts Options) (*Daemon, error) {
	configPath := opts.ConfigPath
	if configPath == "" {
		p, err := config.DefaultConfigPath()
		if err != nil {
			return nil, err
		}
		configPath = p
	}

	res, err := config.LoadFromPath(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	cfg := res.Config

	cat, err := content.LoadOrBuiltin(cfg.CatalogPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	logger := logging.WithComponent(opts.Logger, "daemon")

	store, err := openStore(ctx, cfg, opts.Ephemeral, opts.Logger)
	if err != nil {
		return nil, err
	}

	mgr := desktop.New(
		desktop.WithLogger(logging.WithComponent(opts.Logger, "desktop")),
		desktop.WithPreferences(store),
		desktop.WithBaseZIndex(cfg.BaseZIndex),
	)

	d := &Daemon{
		opts:       opts,
		configPath: configPath,
		cfg:        cfg,
		catalog:    cat,
		store:      store,
		mgr:        mgr,
		sync:       NewSynchronizer(mgr, logger),
		logger:     logger,
	}
	d.sync.Sync(cat, cfg)

	server, err := ipc.NewServer(opts.SocketPath, mgr, d.Reload, logging.WithComponent(opts.Logger, "ipc"))
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	server.SetArrangeDefaults(d.arrangeDefaults)
	server.SetWorkspaceStore(d.workspaceStore)
	d.server = server

	logger.Info().
		Str("config", configPath).
		Int("windows", len(cat.Windows)).
		Bool("dark_mode", mgr.DarkMode()).
		Msg("daemon initialized")
	return d, nil
}

func openStore(ctx context.Context, cfg *config.Config, ephemeral bool, logger zerolog.Logger) (prefs.Store, error) {
	if ephemeral {
		return prefs.NewMemoryStore(), nil
	}
	def, err := runtimepath.PrefsPath()
	if err != nil {
		return nil, err
	}
	store, err := prefs.OpenSQLite(ctx, cfg.PrefsPath(def), logging.WithComponent(logger, "prefs"))
	if err != nil {
		return nil, err
	}
	return store, nil
}

// Manager returns the session's window manager.
func (d *Daemon) Manager() *desktop.Manager {
	return d.mgr
}

// Config returns the current configuration.
func (d *Daemon) Config() *config.Config {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.cfg
}

// Catalog returns the current catalog.
func (d *Daemon) Catalog() *content.Catalog {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.catalog
}

// arrangeDefaults reads the arrange section of the current config, so a
// reload changes the next arrangement.
func (d *Daemon) arrangeDefaults() (tiling.Mode, int, tiling.Rect) {
	cfg := d.Config()
	mode, err := tiling.ParseMode(cfg.Arrange.Mode)
	if err != nil {
		mode = tiling.ModeGrid
	}
	return mode, cfg.Arrange.Gap, cfg.Screen.Area()
}

func (d *Daemon) workspaceStore() (*workspace.Store, error) {
	cfg := d.Config()
	return workspace.NewStore(cfg.WorkspacesDir(), cfg.Workspaces.Max)
}

// SocketPath returns the IPC socket the daemon serves on.
func (d *Daemon) SocketPath() string {
	return d.server.SocketPath()
}

// Reload re-reads configuration and catalog and registers any new windows.
// On error the previous configuration stays in effect.
func (d *Daemon) Reload() error {
	res, err := config.LoadFromPath(d.configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	cat, err := content.LoadOrBuiltin(res.Config.CatalogPath())
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	d.mu.Lock()
	prev := d.cfg
	d.cfg = res.Config
	d.catalog = cat
	d.mu.Unlock()

	if prev.BaseZIndex != res.Config.BaseZIndex {
		d.logger.Warn().
			Int("current", prev.BaseZIndex).
			Int("configured", res.Config.BaseZIndex).
			Msg("base_z_index change takes effect on restart")
	}
	if prev.PrefsDB != res.Config.PrefsDB {
		d.logger.Warn().Msg("prefs_db change takes effect on restart")
	}

	added := d.sync.Sync(cat, res.Config)
	if orphans := d.sync.Orphans(cat); len(orphans) > 0 {
		d.logger.Info().Strs("window_ids", orphans).Msg("windows no longer in catalog stay registered until restart")
	}
	d.logger.Info().Int("added", len(added)).Msg("configuration reloaded")
	return nil
}

func (d *Daemon) reloadFromDisk() {
	if err := d.Reload(); err != nil {
		d.logger.Warn().Err(err).Msg("reload failed; keeping previous configuration")
	}
}

func (d *Daemon) watchedPaths() []string {
	cfg := d.Config()
	paths := []string{d.configPath}
	if p := cfg.CatalogPath(); p != "" {
		paths = append(paths, p)
	}
	return paths
}

// Run serves IPC and watches configuration until ctx is cancelled, then
// closes the preferences store.
func (d *Daemon) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return d.server.Serve(gctx)
	})

	paths := d.watchedPaths()
	if d.Config().WatchConfig {
		watcher := NewWatcher(paths, d.reloadFromDisk, logging.WithComponent(d.opts.Logger, "watcher"))
		g.Go(func() error {
			return watcher.Run(gctx)
		})
	}

	reconciler := NewReconciler(ReconcilerConfig{
		Interval: d.opts.ReconcileInterval,
		Logger:   logging.WithComponent(d.opts.Logger, "reconciler"),
	}, paths, d.reloadFromDisk)
	g.Go(func() error {
		return reconciler.Run(gctx)
	})

	d.logger.Info().Str("socket", d.server.SocketPath()).Msg("daemon running")
	err := g.Wait()

	if cerr := d.store.Close(); cerr != nil && !errors.Is(cerr, prefs.ErrClosed) {
		d.logger.Warn().Err(cerr).Msg("failed to close preferences store")
	}
	d.logger.Info().Msg("daemon stopped")
	return err
}
