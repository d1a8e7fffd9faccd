package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newWorkspaceCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "workspace",
		Aliases: []string{"ws"},
		Short:   "Save and restore desktop layouts",
		Long: `Save and restore desktop layouts.

A workspace records which windows are open, minimized or maximized, their
geometry, their stacking order and which one has focus. Workspaces are JSON
files under workspaces.dir.`,
	}

	saveCmd := &cobra.Command{
		Use:   "save <name>",
		Short: "Save the current desktop",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := opts.client().SaveWorkspace(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved %s (%d windows, %d open)\n", info.Name, info.Windows, info.OpenCount)
			return nil
		},
	}

	loadCmd := &cobra.Command{
		Use:   "load <name>",
		Short: "Restore a saved desktop",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := opts.client().LoadWorkspace(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(res.Skipped) > 0 {
				fmt.Fprintf(out, "skipped unknown windows: %s\n", strings.Join(res.Skipped, ", "))
			}
			return printState(out, &res.Snapshot)
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List saved workspaces",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			infos, err := opts.client().ListWorkspaces()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(infos) == 0 {
				fmt.Fprintln(out, "no saved workspaces")
				return nil
			}
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tWINDOWS\tOPEN\tACTIVE\tSAVED")
			for _, info := range infos {
				fmt.Fprintf(tw, "%s\t%d\t%d\t%s\t%s\n",
					info.Name, info.Windows, info.OpenCount, orNone(info.ActiveID), humanize.Time(info.SavedAt))
			}
			return tw.Flush()
		},
	}

	deleteCmd := &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a saved workspace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.client().DeleteWorkspace(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(saveCmd, loadCmd, listCmd, deleteCmd)
	return cmd
}
