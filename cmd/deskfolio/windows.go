package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/1broseidon/deskfolio/internal/desktop"
	"github.com/1broseidon/deskfolio/internal/ipc"
	"github.com/1broseidon/deskfolio/internal/launcher"
)

func newStatusCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show daemon status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			status, err := opts.client().GetStatus()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "daemon_running: %v\n", status.DaemonRunning)
			fmt.Fprintf(out, "started:        %s\n", humanize.Time(status.StartedAt))
			fmt.Fprintf(out, "uptime:         %s\n", status.Uptime)
			fmt.Fprintf(out, "windows:        %d (%d open)\n", status.WindowCount, status.OpenCount)
			fmt.Fprintf(out, "active:         %s\n", orNone(status.ActiveID))
			fmt.Fprintf(out, "dark_mode:      %v\n", status.DarkMode)
			fmt.Fprintf(out, "revision:       %d\n", status.Revision)
			fmt.Fprintf(out, "subscribers:    %d\n", status.Subscribers)
			return nil
		},
	}
}

func newStateCmd(opts *globalOptions) *cobra.Command {
	var jsonOut bool
	cmd := &cobra.Command{
		Use:   "state",
		Short: "Print every window with its state and geometry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			snap, err := opts.client().GetState()
			if err != nil {
				return err
			}
			if jsonOut {
				return writeJSON(cmd.OutOrStdout(), snap)
			}
			return printState(cmd.OutOrStdout(), snap)
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "output the snapshot as JSON")
	return cmd
}

func printState(w io.Writer, snap *desktop.Snapshot) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tSTATE\tZ\tPOSITION\tSIZE")
	for _, win := range snap.Windows {
		marker := ""
		if win.ID == snap.ActiveID {
			marker = " *"
		}
		fmt.Fprintf(tw, "%s%s\t%s\t%s\t%d\t%d,%d\t%dx%d\n",
			win.ID, marker, win.Title, win.State(), win.ZIndex,
			win.Position.X, win.Position.Y, win.Size.Width, win.Size.Height)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	theme := "light"
	if snap.DarkMode {
		theme = "dark"
	}
	fmt.Fprintf(w, "\nactive: %s  theme: %s  revision: %d\n", orNone(snap.ActiveID), theme, snap.Revision)
	return nil
}

func newOpenCmd(opts *globalOptions) *cobra.Command {
	var fuzzy bool
	cmd := &cobra.Command{
		Use:   "open <id>",
		Short: "Open, raise and focus a window",
		Long: `Open, raise and focus a window.

With --fuzzy the argument is matched against window ids and titles and the
best match is opened.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := opts.client()
			id := args[0]
			if fuzzy {
				snap, err := client.GetState()
				if err != nil {
					return err
				}
				item, err := launcher.Resolve(id, launcher.ItemsFromSnapshot(*snap))
				if err != nil {
					return fmt.Errorf("%w: %q", err, id)
				}
				id = item.ID
			}
			snap, err := client.Open(id)
			if err != nil {
				return err
			}
			return printWindow(cmd.OutOrStdout(), snap, id)
		},
	}
	cmd.Flags().BoolVar(&fuzzy, "fuzzy", false, "fuzzy-match the argument against ids and titles")
	return cmd
}

type windowOp func(*ipc.Client, string) (*desktop.Snapshot, error)

func newWindowOpCmd(opts *globalOptions, use, short string, op windowOp) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := op(opts.client(), args[0])
			if err != nil {
				return err
			}
			return printWindow(cmd.OutOrStdout(), snap, args[0])
		},
	}
}

func newMoveCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "move <id> <x> <y>",
		Short: "Move a window (pixels, no clamping)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			x, y, err := intPair(args[1], args[2])
			if err != nil {
				return err
			}
			snap, err := opts.client().Move(args[0], x, y)
			if err != nil {
				return err
			}
			return printWindow(cmd.OutOrStdout(), snap, args[0])
		},
	}
}

func newResizeCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "resize <id> <width> <height>",
		Short: "Resize a window (pixels, no clamping)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, h, err := intPair(args[1], args[2])
			if err != nil {
				return err
			}
			snap, err := opts.client().Resize(args[0], w, h)
			if err != nil {
				return err
			}
			return printWindow(cmd.OutOrStdout(), snap, args[0])
		},
	}
}

func newReloadCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reload",
		Short: "Reload the daemon's config and catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := opts.client().Reload(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "reloaded")
			return nil
		},
	}
}

func newThemeCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "theme",
		Short: "Show or toggle dark mode",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the current theme",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				snap, err := opts.client().GetState()
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), themeName(snap.DarkMode))
				return nil
			},
		},
		&cobra.Command{
			Use:   "toggle",
			Short: "Flip between light and dark and persist the choice",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				snap, err := opts.client().ToggleDarkMode()
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), themeName(snap.DarkMode))
				return nil
			},
		},
	)
	return cmd
}

func newWatchCmd(opts *globalOptions) *cobra.Command {
	var jsonOut bool
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Stream registry changes until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := commandContext(cmd)
			defer stop()

			out := cmd.OutOrStdout()
			enc := json.NewEncoder(out)
			return opts.client().Subscribe(ctx, func(snap desktop.Snapshot) {
				if jsonOut {
					_ = enc.Encode(snap)
					return
				}
				fmt.Fprintf(out, "rev %d  active=%s  open=%v  theme=%s\n",
					snap.Revision, orNone(snap.ActiveID), snap.Running(), themeName(snap.DarkMode))
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "emit one JSON snapshot per line")
	return cmd
}

func printWindow(w io.Writer, snap *desktop.Snapshot, id string) error {
	win, ok := snap.Window(id)
	if !ok {
		return fmt.Errorf("unknown window %q", id)
	}
	fmt.Fprintf(w, "%s: %s z=%d pos=%d,%d size=%dx%d active=%s\n",
		win.ID, win.State(), win.ZIndex, win.Position.X, win.Position.Y,
		win.Size.Width, win.Size.Height, orNone(snap.ActiveID))
	return nil
}

func intPair(a, b string) (int, int, error) {
	x, err := strconv.Atoi(a)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid number %q", a)
	}
	y, err := strconv.Atoi(b)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid number %q", b)
	}
	return x, y, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func themeName(dark bool) string {
	if dark {
		return "dark"
	}
	return "light"
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
