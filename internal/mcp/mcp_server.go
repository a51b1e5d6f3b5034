// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/huangsam/blameshare/internal/contract"
	"github.com/huangsam/blameshare/schema"
)

// NewMCPServer initializes and configures the blameshare MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, client contract.GitClient, mgr contract.CacheManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Blameshare Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		client:  client,
		mgr:     mgr,
	}

	s.AddTool(mcp.NewTool("get_author_shares",
		mcp.WithDescription("Compute each contributor's share of the lines in a git repository at a revision, using line-level blame."),
		mcp.WithString("repo_path", mcp.Description("Path to the Git repository or one of its subdirectories (defaults to the server's repository).")),
		mcp.WithString("rev", mcp.Description("Revision to blame. Defaults to 'HEAD'.")),
		mcp.WithString("sort", mcp.Description("Row order (author, lines). Defaults to 'author'."), mcp.Enum(string(schema.SortByAuthor), string(schema.SortByLines))),
	), h.handleGetAuthorShares)

	return s
}

// StartMCPServer starts the blameshare MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, client contract.GitClient, mgr contract.CacheManager) error {
	s := NewMCPServer(baseCfg, client, mgr)
	return server.ServeStdio(s)
}
