package commands

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/erraggy/oasrepo/internal/mcpserver"
)

func newMCPCmd(_ *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Run the MCP server over stdio",
		Long: `mcp serves the bundle, sync and validate tools to an MCP client over
stdio. Defaults are read from OASREPO_MCP_* environment variables.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return mcpserver.Run(ctx)
		},
	}
}
