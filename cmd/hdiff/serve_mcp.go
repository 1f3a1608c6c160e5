package main

import (
	"github.com/spf13/cobra"

	"github.com/pstuifzand/hierarchy-diff/internal/mcptools"
)

func newServeMCPCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "serve-mcp",
		Short: "Serve the comparison tools over MCP on stdio",
		Long: `Serve-mcp runs a Model Context Protocol server on stdin and stdout with
the compare_documents, compare_with_backup and list_formats tools. Logs go
to stderr.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := mcptools.NewService(e.registry, e.backups, e.logger)
			e.logger.Info("serving MCP on stdio")
			return mcptools.RunStdio(cmd.Context(), mcptools.NewServer(svc))
		},
	}
}
