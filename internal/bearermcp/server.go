// Package bearermcp exposes the bearer CLI as MCP tools.
package bearermcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/bearer-community/bearer-mcp/internal/bearer"
	"github.com/bearer-community/bearer-mcp/internal/config"
)

const serverName = "bearer-mcp-server"

// NewServer creates and configures the MCP server with all tools. The
// returned server is stateless apart from cfg and safe for concurrent
// sessions.
func NewServer(version string, cfg *config.Config) *mcp.Server {
	if version == "" {
		version = "dev"
	}

	h := &handlers{
		cfg:    cfg,
		runner: bearer.NewRunner(cfg.BearerBinary, cfg.ScanTimeout),
	}
	return newServerWithHandlers(version, h)
}

func newServerWithHandlers(version string, h *handlers) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    serverName,
		Version: version,
	}, nil)

	// Register tools
	mcp.AddTool(server, &mcp.Tool{
		Name:        "bearer_scan",
		Description: "Run Bearer security scan on a specific directory or file path (path parameter required)",
	}, h.Scan)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "bearer_scan_repo",
		Description: "Run Bearer security scan on the entire repository/workspace (no path parameter needed)",
	}, h.ScanRepo)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "bearer_version",
		Description: "Get Bearer CLI version information",
	}, h.Version)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "bearer_list_rules",
		Description: "Get information about Bearer security rules (rules are documented online at docs.bearer.com/reference/rules/)",
	}, h.ListRules)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "bearer_init_config",
		Description: "Initialize Bearer configuration file in the project",
	}, h.InitConfig)

	return server
}

// Run starts the MCP server on stdio and blocks until the client disconnects.
func Run(ctx context.Context, version string, cfg *config.Config) error {
	server := NewServer(version, cfg)
	return server.Run(ctx, &mcp.StdioTransport{})
}
