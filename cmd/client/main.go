// Command client is a development smoke client that drives the
// bearer-mcp-server binary over stdio.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
)

// Global variables for MCP client session
var (
	client  *mcp.Client
	session *mcp.ClientSession
	ctx     context.Context
)

var (
	scanFormat     string
	scanSeverity   string
	scanRules      string
	scanSkipRules  string
	scanOutputFile string
	scanQuiet      bool
	rulesLanguage  string
)

func executeMCPTool(toolName string, args map[string]any) error {
	fmt.Printf("\n=== Executing %s tool ===\n", toolName)

	res, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      toolName,
		Arguments: args,
	})
	if err != nil {
		return fmt.Errorf("CallTool failed for %s: %v", toolName, err)
	}

	if res.IsError {
		for _, c := range res.Content {
			if text, ok := c.(*mcp.TextContent); ok {
				return fmt.Errorf("%s tool failed: %s", toolName, text.Text)
			}
		}
		return fmt.Errorf("%s tool failed with unknown error", toolName)
	}

	for _, c := range res.Content {
		if text, ok := c.(*mcp.TextContent); ok {
			fmt.Printf("Result: %s\n", text.Text)
		}
	}
	return nil
}

func initMCPClient() error {
	ctx = context.Background()

	client = mcp.NewClient(
		&mcp.Implementation{Name: "bearer-mcp-cli", Version: "v1.0.0"},
		&mcp.ClientOptions{
			LoggingMessageHandler: func(ctx context.Context, req *mcp.LoggingMessageRequest) {
				fmt.Printf("[server log][%s] %v\n", req.Params.Level, req.Params.Data)
			},
		},
	)

	// Try to find the server binary in common locations
	serverPaths := []string{
		"./bin/bearer-mcp-server",
		"../bin/bearer-mcp-server",
		"./bearer-mcp-server",
		"bearer-mcp-server",
	}

	var serverPath string
	for _, path := range serverPaths {
		if _, err := os.Stat(path); err == nil {
			serverPath = path
			break
		}
	}
	if serverPath == "" {
		return fmt.Errorf("could not find bearer-mcp-server binary in any of: %v", serverPaths)
	}

	cmd := exec.Command(serverPath, "stdio")
	stderrPipe, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("failed to get stderr pipe: %v", err)
	}
	go func() {
		scanner := bufio.NewScanner(stderrPipe)
		for scanner.Scan() {
			log.Printf("[server stderr] %s", scanner.Text())
		}
	}()

	session, err = client.Connect(ctx, &mcp.CommandTransport{Command: cmd}, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to MCP server: %v", err)
	}

	if err := session.SetLoggingLevel(ctx, &mcp.SetLoggingLevelParams{Level: "debug"}); err != nil {
		log.Printf("Warning: failed to set logging level: %v", err)
	}
	return nil
}

func scanArgs() map[string]any {
	args := map[string]any{}
	if scanFormat != "" {
		args["format"] = scanFormat
	}
	if scanSeverity != "" {
		args["severity"] = scanSeverity
	}
	if scanRules != "" {
		args["rules"] = scanRules
	}
	if scanSkipRules != "" {
		args["skip_rules"] = scanSkipRules
	}
	if scanOutputFile != "" {
		args["output_file"] = scanOutputFile
	}
	if scanQuiet {
		args["quiet"] = true
	}
	return args
}

func addScanFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&scanFormat, "format", "", "output format (json, yaml, sarif, html)")
	cmd.Flags().StringVar(&scanSeverity, "severity", "", "minimum severity (critical, high, medium, low)")
	cmd.Flags().StringVar(&scanRules, "rules", "", "comma-separated rule IDs to run")
	cmd.Flags().StringVar(&scanSkipRules, "skip-rules", "", "comma-separated rule IDs to skip")
	cmd.Flags().StringVar(&scanOutputFile, "output-file", "", "file to save scan results to")
	cmd.Flags().BoolVar(&scanQuiet, "quiet", false, "suppress progress output")
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "client",
		Short: "Smoke-test client for the Bearer MCP server",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initMCPClient()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if session != nil {
				session.Close()
			}
		},
	}

	toolsCmd := &cobra.Command{
		Use:   "tools",
		Short: "List available tools",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := session.ListTools(ctx, nil)
			if err != nil {
				return err
			}
			for _, tool := range res.Tools {
				fmt.Printf("%s: %s\n", tool.Name, tool.Description)
			}
			return nil
		},
	}

	scanCmd := &cobra.Command{
		Use:   "scan <path>",
		Short: "Scan a specific path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			toolArgs := scanArgs()
			toolArgs["path"] = args[0]
			return executeMCPTool("bearer_scan", toolArgs)
		},
	}
	addScanFlags(scanCmd)

	scanRepoCmd := &cobra.Command{
		Use:   "scan-repo",
		Short: "Scan the whole workspace",
		RunE: func(cmd *cobra.Command, args []string) error {
			return executeMCPTool("bearer_scan_repo", scanArgs())
		},
	}
	addScanFlags(scanRepoCmd)

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Report the bearer CLI version",
		RunE: func(cmd *cobra.Command, args []string) error {
			return executeMCPTool("bearer_version", map[string]any{})
		},
	}

	rulesCmd := &cobra.Command{
		Use:   "rules",
		Short: "Show the rules catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			toolArgs := map[string]any{}
			if rulesLanguage != "" {
				toolArgs["language"] = rulesLanguage
			}
			return executeMCPTool("bearer_list_rules", toolArgs)
		},
	}
	rulesCmd.Flags().StringVar(&rulesLanguage, "language", "", "language to get rule information about")

	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Initialize a bearer.yml",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			toolArgs := map[string]any{}
			if len(args) > 0 {
				toolArgs["path"] = args[0]
			}
			return executeMCPTool("bearer_init_config", toolArgs)
		},
	}

	rootCmd.AddCommand(toolsCmd, scanCmd, scanRepoCmd, versionCmd, rulesCmd, initCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}
