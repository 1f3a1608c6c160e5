// Package mcptools exposes document comparison as Model Context Protocol
// tools.
package mcptools

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

var version = "dev"

// NewServer creates an MCP server with the comparison tools registered
func NewServer(svc *Service) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "hierarchy-diff",
		Version: version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "compare_documents",
		Description: "Compare two structured documents of the same format and list added, removed and modified nodes.",
	}, svc.CompareDocuments)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "compare_with_backup",
		Description: "Compare a document with its newest backup taken before it was last saved.",
	}, svc.CompareWithBackup)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_formats",
		Description: "List the supported document formats and their file extensions.",
	}, svc.ListFormats)

	return server
}

// RunStdio runs the server on stdio, blocking until stdin is closed or the
// context is cancelled.
func RunStdio(ctx context.Context, server *mcp.Server) error {
	return server.Run(ctx, &mcp.StdioTransport{})
}
