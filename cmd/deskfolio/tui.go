package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/1broseidon/deskfolio/internal/config"
	"github.com/1broseidon/deskfolio/internal/content"
	"github.com/1broseidon/deskfolio/internal/desktop"
	"github.com/1broseidon/deskfolio/internal/ipc"
	"github.com/1broseidon/deskfolio/internal/logging"
	"github.com/1broseidon/deskfolio/internal/prefs"
	"github.com/1broseidon/deskfolio/internal/runtimepath"
	"github.com/1broseidon/deskfolio/internal/tui"
)

func newTUICmd(opts *globalOptions) *cobra.Command {
	var (
		standalone bool
		ephemeral  bool
	)
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Open the terminal desktop",
		Long: `Open the terminal desktop.

By default the desktop attaches to the running daemon and follows its
state. With --standalone it runs its own window registry in-process.

Keys: tab cycles windows, 1-9 open desktop icons, ←/→ and space use the
dock, / opens spotlight, t toggles the theme, ? shows all keys.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := opts.loadConfig()
			if err != nil {
				return err
			}
			cfg := res.Config

			// The terminal belongs to the desktop, so logs only go to a file.
			var out io.Writer = io.Discard
			if path := cfg.LogFile(); path != "" {
				rf, err := logging.OpenRotatingFile(path, cfg.Logging.MaxSizeMB, cfg.Logging.MaxFiles)
				if err != nil {
					return fmt.Errorf("failed to open log file: %w", err)
				}
				defer rf.Close()
				out = rf
			}
			logger := opts.logger(cfg, out)

			cat, err := content.LoadOrBuiltin(cfg.CatalogPath())
			if err != nil {
				return err
			}

			ctx, stop := commandContext(cmd)
			defer stop()

			topts := tui.Options{
				Catalog: cat,
				Config:  cfg,
				Logger:  logging.WithComponent(logger, "tui"),
			}

			if standalone {
				store, err := openPrefs(cmd, cfg, ephemeral, logger)
				if err != nil {
					return err
				}
				defer store.Close()

				mgr := desktop.New(
					desktop.WithLogger(logging.WithComponent(logger, "desktop")),
					desktop.WithPreferences(store),
					desktop.WithBaseZIndex(cfg.BaseZIndex),
				)
				for _, spec := range cfg.ApplyOverrides(cat.Specs()) {
					mgr.Register(spec)
				}
				topts.Backend = tui.NewLocalBackend(mgr)
				topts.Initial = mgr.Snapshot()
				return tui.Run(ctx, topts)
			}

			client := opts.client()
			snap, err := client.GetState()
			if err != nil {
				if errors.Is(err, ipc.ErrDaemonUnavailable) {
					return fmt.Errorf("%w (start 'deskfolio daemon' or use --standalone)", err)
				}
				return err
			}
			topts.Backend = tui.NewRemoteBackend(client)
			topts.Initial = *snap
			return tui.Run(ctx, topts)
		},
	}
	cmd.Flags().BoolVar(&standalone, "standalone", false, "run an in-process registry instead of attaching to the daemon")
	cmd.Flags().BoolVar(&ephemeral, "ephemeral", false, "with --standalone, keep preferences in memory only")
	return cmd
}

func openPrefs(cmd *cobra.Command, cfg *config.Config, ephemeral bool, logger zerolog.Logger) (prefs.Store, error) {
	if ephemeral {
		return prefs.NewMemoryStore(), nil
	}
	def, err := runtimepath.PrefsPath()
	if err != nil {
		return nil, err
	}
	return prefs.OpenSQLite(cmd.Context(), cfg.PrefsPath(def), logging.WithComponent(logger, "prefs"))
}
