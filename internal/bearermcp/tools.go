package bearermcp

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/bearer-community/bearer-mcp/internal/bearer"
	"github.com/bearer-community/bearer-mcp/internal/config"
	berrors "github.com/bearer-community/bearer-mcp/internal/errors"
	"github.com/bearer-community/bearer-mcp/internal/pathutil"
)

// handlers holds the dependencies shared by all tool handlers. No mutable
// state beyond the startup configuration; concurrent calls need no locking.
type handlers struct {
	cfg    *config.Config
	runner bearer.Runner
}

// Scan runs a bearer security scan on a specific path
func (h *handlers) Scan(ctx context.Context, req *mcp.CallToolRequest, args bearer.ScanParams) (*mcp.CallToolResult, any, error) {
	const op = "bearer_scan"

	if args.Path == "" {
		return errorResult(berrors.NewInvalidArgument(op,
			errors.New("'path' parameter is required; use bearer_scan_repo to scan the entire workspace")))
	}

	scanPath, err := pathutil.Resolve(h.cfg.WorkingDir, args.Path, true)
	if err != nil {
		return errorResult(err)
	}

	return h.runScan(ctx, req, op, bearer.NewScan(args), scanPath, args.OutputFile)
}

// ScanRepo runs a bearer security scan on the whole configured workspace
func (h *handlers) ScanRepo(ctx context.Context, req *mcp.CallToolRequest, args bearer.ScanRepoParams) (*mcp.CallToolResult, any, error) {
	const op = "bearer_scan_repo"
	return h.runScan(ctx, req, op, bearer.NewScan(args), h.cfg.WorkingDir, args.OutputFile)
}

func (h *handlers) runScan(ctx context.Context, req *mcp.CallToolRequest, op string, cli *bearer.CLI, scanPath, outputFile string) (*mcp.CallToolResult, any, error) {
	outPath := ""
	if outputFile != "" {
		resolved, err := pathutil.Resolve(h.cfg.WorkingDir, outputFile, false)
		if err != nil {
			return errorResult(err)
		}
		outPath = resolved
	}

	argv, err := cli.Build(scanPath, outPath)
	if err != nil {
		return errorResult(err)
	}

	h.sessionLog(ctx, req, "info", fmt.Sprintf("Scanning path: %s", scanPath))

	res, err := h.runner.Run(ctx, h.cfg.WorkingDir, argv)
	if err != nil {
		return errorResult(err)
	}

	// Bearer exits 0 on a clean scan and 1 when it finds security issues;
	// both are successful scans. Anything above 1 is a real failure.
	if res.ExitCode > 1 {
		return errorResult(bearer.ExitError(op, res))
	}

	out := bearer.InterpretScan(res, cli.Format())
	if out.Structured {
		if count, ok := bearer.CountFindings(out.Report); ok {
			h.sessionLog(ctx, req, "info", fmt.Sprintf("Scan completed with %d finding(s)", count))
		}
	}
	if out.Warning != "" {
		h.sessionLog(ctx, req, "warning", out.Warning)
	}

	text := out.Render()
	if outPath != "" {
		text += fmt.Sprintf("\n\nResults saved to: %s", outPath)
	}
	return textResult(text)
}

// Version reports the bearer CLI's own version
func (h *handlers) Version(ctx context.Context, req *mcp.CallToolRequest, args bearer.VersionParams) (*mcp.CallToolResult, any, error) {
	const op = "bearer_version"

	res, err := h.runner.Run(ctx, h.cfg.WorkingDir, bearer.VersionArgs())
	if err != nil {
		return errorResult(err)
	}
	if res.ExitCode != 0 {
		return errorResult(bearer.ExitError(op, res))
	}

	return textResult("Bearer CLI version:\n" + strings.TrimSpace(res.Stdout))
}

// ListRules returns the rules catalog text
func (h *handlers) ListRules(ctx context.Context, req *mcp.CallToolRequest, args bearer.ListRulesParams) (*mcp.CallToolResult, any, error) {
	return textResult(bearer.RulesInfo(args.Language))
}

// InitConfig initializes a bearer.yml in the target directory
func (h *handlers) InitConfig(ctx context.Context, req *mcp.CallToolRequest, args bearer.InitConfigParams) (*mcp.CallToolResult, any, error) {
	const op = "bearer_init_config"

	dir, err := pathutil.Resolve(h.cfg.WorkingDir, args.Path, true)
	if err != nil {
		return errorResult(err)
	}

	h.sessionLog(ctx, req, "info", fmt.Sprintf("Initializing Bearer config in: %s", dir))

	res, err := h.runner.Run(ctx, dir, bearer.InitArgs())
	if err != nil {
		return errorResult(err)
	}
	if res.ExitCode != 0 {
		return errorResult(bearer.ExitError(op, res))
	}

	text := fmt.Sprintf("Bearer configuration initialized in %s", dir)
	if out := strings.TrimSpace(res.Stdout); out != "" {
		text += ":\n" + out
	}

	projectCfg, err := bearer.LoadProjectConfig(dir)
	if err != nil {
		h.sessionLog(ctx, req, "warning", fmt.Sprintf("Could not read generated %s: %v", bearer.ConfigFileName, err))
		return textResult(text)
	}
	return textResult(text + "\n\nConfiguration summary:\n" + projectCfg.Summary())
}

// sessionLog sends a log message to the client session; it degrades to
// process logging when no session is attached (direct handler tests).
func (h *handlers) sessionLog(ctx context.Context, req *mcp.CallToolRequest, level, msg string) {
	if req == nil || req.Session == nil {
		log.Printf("[%s] %s", level, msg)
		return
	}
	req.Session.Log(ctx, &mcp.LoggingMessageParams{
		Data:   msg,
		Level:  mcp.LoggingLevel(level),
		Logger: "bearer",
	})
}

func textResult(text string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}, nil, nil
}

// errorResult surfaces a failure as a structured tool-error response carrying
// the error kind and message. The error itself is not returned so a failed
// call never tears down the session handling other requests.
func errorResult(err error) (*mcp.CallToolResult, any, error) {
	msg := err.Error()
	if kind := berrors.KindOf(err); kind != "" {
		msg = fmt.Sprintf("%s: %s", kind, msg)
	}
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: msg}},
	}, nil, nil
}
