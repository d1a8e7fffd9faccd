package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/1broseidon/deskfolio/internal/tiling"
)

func newArrangeCmd(opts *globalOptions) *cobra.Command {
	var gap int
	cmd := &cobra.Command{
		Use:   "arrange [mode]",
		Short: "Lay out the visible windows",
		Long: fmt.Sprintf(`Lay out every open, unminimized window that is not maximized.
The frontmost window takes the first slot.

Modes: %s. Without a mode, arrange.mode from the config is used.`, modeNames()),
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: modeArgs(),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode := ""
			if len(args) == 1 {
				m, err := tiling.ParseMode(args[0])
				if err != nil {
					return err
				}
				mode = string(m)
			}
			var gapPtr *int
			if cmd.Flags().Changed("gap") {
				gapPtr = &gap
			}
			snap, err := opts.client().Arrange(mode, gapPtr, nil)
			if err != nil {
				return err
			}
			return printState(cmd.OutOrStdout(), snap)
		},
	}
	cmd.Flags().IntVar(&gap, "gap", tiling.DefaultGap, "gap between windows in pixels (default: arrange.gap)")
	return cmd
}

func modeArgs() []string {
	out := make([]string, len(tiling.Modes))
	for i, m := range tiling.Modes {
		out[i] = string(m)
	}
	return out
}

func modeNames() string {
	return strings.Join(modeArgs(), ", ")
}
