package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/1broseidon/deskfolio/internal/logging"
	"github.com/1broseidon/deskfolio/internal/mcp"
)

func newMCPCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Model Context Protocol server",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server on stdio",
		Long: `Start the MCP server on stdio. The tools drive the running daemon, so
start 'deskfolio daemon' first.

Example client registration:
  claude mcp add deskfolio -- deskfolio mcp serve`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := opts.loadConfig()
			if err != nil {
				return err
			}
			// stdout carries the protocol; logs go to stderr.
			logger := opts.logger(res.Config, os.Stderr)

			ctx, stop := commandContext(cmd)
			defer stop()

			server := mcp.NewServer(opts.client(), logging.WithComponent(logger, "mcp"))
			if err := server.Run(ctx); err != nil && ctx.Err() == nil {
				return err
			}
			return nil
		},
	})
	return cmd
}
