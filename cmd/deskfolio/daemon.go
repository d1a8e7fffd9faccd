package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/1broseidon/deskfolio/internal/daemon"
	"github.com/1broseidon/deskfolio/internal/logging"
)

func newDaemonCmd(opts *globalOptions) *cobra.Command {
	var (
		ephemeral bool
		reconcile time.Duration
	)

	cmd := &cobra.Command{
		Use:   "daemon",
		Short: "Run the deskfolio daemon in the foreground",
		Long: `Run the daemon that owns the window registry and serves it on a unix socket.

The config file and catalog are watched; windows declared after startup are
registered on reload. The theme preference is stored in SQLite unless
--ephemeral is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := opts.loadConfig()
			if err != nil {
				return err
			}
			cfg := res.Config

			var out io.Writer = os.Stderr
			if path := cfg.LogFile(); path != "" {
				rf, err := logging.OpenRotatingFile(path, cfg.Logging.MaxSizeMB, cfg.Logging.MaxFiles)
				if err != nil {
					return fmt.Errorf("failed to open log file: %w", err)
				}
				defer rf.Close()
				out = io.MultiWriter(os.Stderr, rf)
			}
			logger := opts.logger(cfg, out)

			ctx, stop := commandContext(cmd)
			defer stop()
			ctx = logging.WithContext(ctx, logger)

			d, err := daemon.New(ctx, daemon.Options{
				ConfigPath:        opts.configPath,
				SocketPath:        opts.socketPath,
				Ephemeral:         ephemeral,
				ReconcileInterval: reconcile,
				Logger:            logger,
			})
			if err != nil {
				return err
			}
			if err := d.Run(ctx); err != nil && ctx.Err() == nil {
				return err
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&ephemeral, "ephemeral", false, "keep preferences in memory only")
	cmd.Flags().DurationVar(&reconcile, "reconcile-interval", 30*time.Second, "how often to poll watched files for missed changes")
	return cmd
}

// commandContext returns a context cancelled on SIGINT or SIGTERM.
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
