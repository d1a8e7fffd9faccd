package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/1broseidon/deskfolio/internal/desktop"
	"github.com/1broseidon/deskfolio/internal/ipc"
	"github.com/1broseidon/deskfolio/internal/palette"
)

const menuHint = "Enter: open  Alt+Return: close  Alt+d: minimize"

func newMenuCmd(opts *globalOptions) *cobra.Command {
	var (
		backendName string
		fuzzy       bool
	)
	cmd := &cobra.Command{
		Use:   "menu",
		Short: "Drive the desktop from rofi, fuzzel, wofi or dmenu",
		Long: `Show the windows, arrangements and saved workspaces in an external
launcher and apply the choice through the daemon. Bind it to a window
manager hotkey.

On a window, Enter opens it, Alt+Return closes it and Alt+d minimizes it
(rofi only). The launcher comes from palette.backend unless --backend is set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := opts.loadConfig()
			if err != nil {
				return err
			}
			pc := res.Config.Palette
			if cmd.Flags().Changed("backend") {
				pc.Backend = backendName
			}
			if cmd.Flags().Changed("fuzzy") {
				pc.FuzzyMatching = fuzzy
			}
			backend, err := palette.NewBackend(pc.Backend, palette.Options{FuzzyMatching: pc.FuzzyMatching})
			if err != nil {
				return err
			}
			return runMenu(cmd.OutOrStdout(), opts.client(), backend)
		},
	}
	cmd.Flags().StringVar(&backendName, "backend", "auto", "launcher to use: auto, rofi, fuzzel, wofi or dmenu")
	cmd.Flags().BoolVar(&fuzzy, "fuzzy", false, "enable rofi fuzzy matching")
	return cmd
}

// runMenu shows one desktop menu and applies the selection. Cancelling is
// not an error.
func runMenu(out io.Writer, client *ipc.Client, backend palette.Backend) error {
	snap, err := client.GetState()
	if err != nil {
		return err
	}
	var names []string
	if infos, err := client.ListWorkspaces(); err == nil {
		for _, info := range infos {
			names = append(names, info.Name)
		}
	}

	menu := palette.NewMenu(backend, "deskfolio", palette.DesktopMenu(*snap, names))
	if backend.Capabilities().MessageBar {
		menu.SetMessage(menuHint)
	}
	picked, err := menu.Show()
	if errors.Is(err, palette.ErrCancelled) {
		return nil
	}
	if err != nil {
		return err
	}

	action, err := palette.ParseAction(picked.Action)
	if err != nil {
		return err
	}

	switch action.Kind {
	case palette.ActionWindow:
		op := client.Open
		switch picked.ExitCode {
		case palette.ExitCustom1:
			op = client.Close
		case palette.ExitCustom2:
			op = client.Minimize
		}
		snap, err := op(action.Arg)
		if err != nil {
			return err
		}
		return printWindow(out, snap, action.Arg)
	case palette.ActionArrange:
		snap, err := client.Arrange(action.Arg, nil, nil)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "arranged: %s (%d windows)\n", action.Arg, countVisible(snap))
		return nil
	case palette.ActionWorkspace:
		data, err := client.LoadWorkspace(action.Arg)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "loaded %s\n", action.Arg)
		return printState(out, &data.Snapshot)
	case palette.ActionTheme:
		snap, err := client.ToggleDarkMode()
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "theme: %s\n", themeName(snap.DarkMode))
		return nil
	}
	return fmt.Errorf("unhandled menu action %q", picked.Action)
}

func countVisible(snap *desktop.Snapshot) int {
	n := 0
	for _, w := range snap.Windows {
		if w.Visible() {
			n++
		}
	}
	return n
}
