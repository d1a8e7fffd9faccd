package main

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/1broseidon/deskfolio/internal/config"
	"github.com/1broseidon/deskfolio/internal/ipc"
	"github.com/1broseidon/deskfolio/internal/logging"
)

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	configPath string
	socketPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:   "deskfolio",
		Short: "A desktop-style portfolio for the terminal",
		Long: `deskfolio serves a portfolio as a small desktop: a menu bar, a dock,
desktop icons and windows for About, Projects, Skills, Contact, Finder
and Settings.

Run 'deskfolio daemon' to own the window registry, then drive it with
'deskfolio tui', the window commands below or 'deskfolio mcp serve'.
'deskfolio tui --standalone' runs without a daemon.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "config file path (default: ~/.config/deskfolio/config.yaml)")
	pf.StringVar(&opts.socketPath, "socket", "", "daemon socket path (default: $XDG_RUNTIME_DIR/deskfolio.sock)")
	pf.StringVar(&opts.logLevel, "log-level", "", "override logging.level (debug, info, warn, error)")

	root.AddCommand(
		newDaemonCmd(opts),
		newStatusCmd(opts),
		newStateCmd(opts),
		newOpenCmd(opts),
		newWindowOpCmd(opts, "close", "Close a window", (*ipc.Client).Close),
		newWindowOpCmd(opts, "minimize", "Minimize a window to the dock", (*ipc.Client).Minimize),
		newWindowOpCmd(opts, "maximize", "Toggle a window's maximized state", (*ipc.Client).Maximize),
		newWindowOpCmd(opts, "restore", "Restore a minimized window", (*ipc.Client).Restore),
		newWindowOpCmd(opts, "focus", "Raise and focus a window", (*ipc.Client).Focus),
		newWindowOpCmd(opts, "activate", "Apply the dock click rule to a window", (*ipc.Client).Activate),
		newMoveCmd(opts),
		newResizeCmd(opts),
		newArrangeCmd(opts),
		newWorkspaceCmd(opts),
		newMenuCmd(opts),
		newReloadCmd(opts),
		newThemeCmd(opts),
		newWatchCmd(opts),
		newTUICmd(opts),
		newMCPCmd(opts),
		newConfigCmd(opts),
	)
	return root
}

func (o *globalOptions) client() *ipc.Client {
	if o.socketPath != "" {
		return ipc.NewClientWithSocket(o.socketPath)
	}
	return ipc.NewClient()
}

// loadConfig reads the config file named by --config, or the default one.
func (o *globalOptions) loadConfig() (*config.LoadResult, error) {
	if o.configPath != "" {
		return config.LoadFromPath(o.configPath)
	}
	return config.LoadWithSources()
}

// logger builds a logger from the logging section of cfg. --log-level wins
// over the file.
func (o *globalOptions) logger(cfg *config.Config, out io.Writer) zerolog.Logger {
	lc := logging.DefaultConfig()
	if cfg != nil {
		lc.Level = cfg.Logging.Level
		lc.Format = cfg.Logging.Format
	}
	if o.logLevel != "" {
		lc.Level = o.logLevel
	}
	if out == nil {
		out = os.Stderr
	}
	return logging.New(lc, out)
}
