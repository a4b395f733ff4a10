package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/bearer-community/bearer-mcp/internal/bearermcp"
	"github.com/bearer-community/bearer-mcp/internal/config"
)

// These variables are set by the build process using ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "bearer-mcp-server",
	Short: "Bearer MCP Server",
	Long: `A Model Context Protocol (MCP) server for the Bearer static-analysis CLI.
This server exposes Bearer security scanning through the MCP protocol, allowing AI agents and tools to scan codebases for security vulnerabilities and sensitive data leaks without invoking the CLI directly.`,
	Version: fmt.Sprintf("Version: %s\nCommit: %s\nBuild Date: %s", version, commit, date),
	RunE: func(cmd *cobra.Command, args []string) error {
		// No subcommand: the transport comes from MCP_TRANSPORT.
		ctx, cfg, stop, err := setup()
		if err != nil {
			return err
		}
		defer stop()
		if cfg.Transport == config.TransportSSE {
			return bearermcp.RunSSE(ctx, version, cfg)
		}
		return bearermcp.Run(ctx, version, cfg)
	},
}

var stdioCmd = &cobra.Command{
	Use:   "stdio",
	Short: "Start stdio server",
	Long:  `Start a server that communicates via standard input/output streams using the Model Context Protocol (MCP).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cfg, stop, err := setup()
		if err != nil {
			return err
		}
		defer stop()
		return bearermcp.Run(ctx, version, cfg)
	},
}

var sseCmd = &cobra.Command{
	Use:   "sse",
	Short: "Start SSE server",
	Long:  `Start an HTTP server that communicates via Server-Sent Events using the Model Context Protocol (MCP). Host and port come from MCP_SSE_HOST and MCP_SSE_PORT.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cfg, stop, err := setup()
		if err != nil {
			return err
		}
		defer stop()
		return bearermcp.RunSSE(ctx, version, cfg)
	},
}

func setup() (context.Context, *config.Config, context.CancelFunc, error) {
	cfg, err := config.FromEnv()
	if err != nil {
		return nil, nil, nil, err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	return ctx, cfg, stop, nil
}

func init() {
	// Add subcommands
	rootCmd.AddCommand(stdioCmd)
	rootCmd.AddCommand(sseCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}
