package cli

import (
	mcpadapter "github.com/lhdiff/lhdiff/internal/adapters/inbound/mcp"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
)

func newMCPCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "MCP server commands",
		Long:  "Commands for running the lhdiff MCP (Model Context Protocol) server.",
	}
	cmd.AddCommand(newMCPServeCmd(a))
	return cmd
}

func newMCPServeCmd(a *app) *cobra.Command {
	var planPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start lhdiff MCP server (stdio)",
		Long:  "Start the lhdiff MCP server using stdio transport. Tools compare the plan's reports and read single report scores.",
		RunE: func(cmd *cobra.Command, args []string) error {
			s := mcpadapter.NewLHDiffMCPServer(mcpadapter.Options{
				PlanPath:   planPath,
				HistoryDir: a.settings.HistoryDir,
				Version:    version,
				Logger:     a.logger,
			})
			return server.ServeStdio(s)
		},
	}

	cmd.Flags().StringVar(&planPath, "plan", ".", "Plan file or directory containing .lhdiff.yaml")

	return cmd
}
