package bearermcp

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/suite"

	"github.com/bearer-community/bearer-mcp/internal/bearer"
	"github.com/bearer-community/bearer-mcp/internal/config"
)

// Test Suite for tool handlers, driven directly with an injected runner.
type ToolsTestSuite struct {
	suite.Suite
	root   string
	runner *bearer.MockRunner
	h      *handlers
}

func (suite *ToolsTestSuite) SetupTest() {
	root, err := filepath.EvalSymlinks(suite.T().TempDir())
	suite.Require().NoError(err)
	suite.root = root
	suite.runner = &bearer.MockRunner{}
	suite.h = &handlers{
		cfg: &config.Config{
			WorkingDir:   root,
			BearerBinary: "bearer",
			ScanTimeout:  30 * time.Second,
		},
		runner: suite.runner,
	}
}

func (suite *ToolsTestSuite) resultText(res *mcp.CallToolResult) string {
	suite.Require().NotEmpty(res.Content)
	text, ok := res.Content[0].(*mcp.TextContent)
	suite.Require().True(ok)
	return text.Text
}

func (suite *ToolsTestSuite) TestScan_MissingPath() {
	res, _, err := suite.h.Scan(context.Background(), nil, bearer.ScanParams{})

	suite.NoError(err)
	suite.True(res.IsError)
	suite.Contains(suite.resultText(res), "invalid_argument")
	suite.Empty(suite.runner.Calls, "no process may be spawned for invalid arguments")
}

func (suite *ToolsTestSuite) TestScan_PathOutsideRoot() {
	res, _, err := suite.h.Scan(context.Background(), nil, bearer.ScanParams{Path: "../escape"})

	suite.NoError(err)
	suite.True(res.IsError)
	suite.Contains(suite.resultText(res), "invalid_path")
	suite.Empty(suite.runner.Calls)
}

func (suite *ToolsTestSuite) TestScan_InvalidFormatFailsBeforeSpawn() {
	suite.Require().NoError(os.Mkdir(filepath.Join(suite.root, "src"), 0o755))

	res, _, err := suite.h.Scan(context.Background(), nil, bearer.ScanParams{Path: "src", Format: "xml"})

	suite.NoError(err)
	suite.True(res.IsError)
	suite.Contains(suite.resultText(res), "invalid_argument")
	suite.Empty(suite.runner.Calls, "builder failures must precede execution")
}

func (suite *ToolsTestSuite) TestScan_Success() {
	suite.Require().NoError(os.Mkdir(filepath.Join(suite.root, "src"), 0o755))
	suite.runner.RunFunc = func(ctx context.Context, workDir string, args []string) (*bearer.ExecResult, error) {
		suite.Equal(suite.root, workDir)
		return &bearer.ExecResult{ExitCode: 1, Stdout: `{"high": [{"id": "go_gosec_sql"}]}`}, nil
	}

	res, _, err := suite.h.Scan(context.Background(), nil, bearer.ScanParams{Path: "src"})

	suite.NoError(err)
	suite.False(res.IsError)
	suite.Contains(suite.resultText(res), "go_gosec_sql")

	suite.Require().Len(suite.runner.Calls, 1)
	argv := suite.runner.Calls[0]
	suite.Equal("scan", argv[0])
	suite.Equal(filepath.Join(suite.root, "src"), argv[1])
	suite.Contains(argv, "--format")
}

func (suite *ToolsTestSuite) TestScan_OutputFileConfined() {
	suite.Require().NoError(os.Mkdir(filepath.Join(suite.root, "src"), 0o755))

	res, _, err := suite.h.Scan(context.Background(), nil, bearer.ScanParams{
		Path:       "src",
		OutputFile: "../stolen.json",
	})

	suite.NoError(err)
	suite.True(res.IsError)
	suite.Contains(suite.resultText(res), "invalid_path")
	suite.Empty(suite.runner.Calls)
}

func (suite *ToolsTestSuite) TestScan_RawTextFallback() {
	suite.Require().NoError(os.Mkdir(filepath.Join(suite.root, "src"), 0o755))
	suite.runner.RunFunc = func(ctx context.Context, workDir string, args []string) (*bearer.ExecResult, error) {
		return &bearer.ExecResult{Stdout: "completely unstructured output"}, nil
	}

	res, _, err := suite.h.Scan(context.Background(), nil, bearer.ScanParams{Path: "src"})

	suite.NoError(err)
	suite.False(res.IsError, "parse failure degrades to raw text, it is not a tool error")
	suite.Contains(suite.resultText(res), "completely unstructured output")
}

func (suite *ToolsTestSuite) TestScan_ExecutionFailure() {
	suite.Require().NoError(os.Mkdir(filepath.Join(suite.root, "src"), 0o755))
	suite.runner.RunFunc = func(ctx context.Context, workDir string, args []string) (*bearer.ExecResult, error) {
		return &bearer.ExecResult{ExitCode: 2, Stderr: "rules bundle corrupt"}, nil
	}

	res, _, err := suite.h.Scan(context.Background(), nil, bearer.ScanParams{Path: "src"})

	suite.NoError(err)
	suite.True(res.IsError)
	text := suite.resultText(res)
	suite.Contains(text, "execution")
	suite.Contains(text, "rules bundle corrupt")
}

func (suite *ToolsTestSuite) TestScanRepo_UsesWorkingDirectory() {
	suite.runner.RunFunc = func(ctx context.Context, workDir string, args []string) (*bearer.ExecResult, error) {
		return &bearer.ExecResult{Stdout: `{"low": []}`}, nil
	}

	res, _, err := suite.h.ScanRepo(context.Background(), nil, bearer.ScanRepoParams{})

	suite.NoError(err)
	suite.False(res.IsError)
	suite.Require().Len(suite.runner.Calls, 1)
	suite.Equal(suite.root, suite.runner.Calls[0][1])
}

func (suite *ToolsTestSuite) TestVersion() {
	suite.runner.RunFunc = func(ctx context.Context, workDir string, args []string) (*bearer.ExecResult, error) {
		suite.Equal([]string{"version"}, args)
		return &bearer.ExecResult{Stdout: "bearer version 1.43.0\n"}, nil
	}

	res, _, err := suite.h.Version(context.Background(), nil, bearer.VersionParams{})

	suite.NoError(err)
	suite.False(res.IsError)
	suite.Contains(suite.resultText(res), "bearer version 1.43.0")
}

func (suite *ToolsTestSuite) TestListRules() {
	res, _, err := suite.h.ListRules(context.Background(), nil, bearer.ListRulesParams{Language: "go"})

	suite.NoError(err)
	suite.False(res.IsError)
	text := suite.resultText(res)
	suite.Contains(text, "docs.bearer.com")
	suite.Contains(text, "Language-specific information for go")
	suite.Empty(suite.runner.Calls, "rules catalog needs no subprocess")
}

func (suite *ToolsTestSuite) TestInitConfig_WithGeneratedYML() {
	suite.runner.RunFunc = func(ctx context.Context, workDir string, args []string) (*bearer.ExecResult, error) {
		suite.Equal([]string{"init"}, args)
		yml := "scan:\n  scanner:\n    - sast\n"
		if err := os.WriteFile(filepath.Join(workDir, bearer.ConfigFileName), []byte(yml), 0o644); err != nil {
			return nil, err
		}
		return &bearer.ExecResult{Stdout: "Created bearer.yml\n"}, nil
	}

	res, _, err := suite.h.InitConfig(context.Background(), nil, bearer.InitConfigParams{})

	suite.NoError(err)
	suite.False(res.IsError)
	text := suite.resultText(res)
	suite.Contains(text, "Bearer configuration initialized")
	suite.Contains(text, "Configuration summary")
	suite.Contains(text, "scanners: sast")
}

func (suite *ToolsTestSuite) TestInitConfig_MissingYMLStillSucceeds() {
	suite.runner.RunFunc = func(ctx context.Context, workDir string, args []string) (*bearer.ExecResult, error) {
		return &bearer.ExecResult{}, nil
	}

	res, _, err := suite.h.InitConfig(context.Background(), nil, bearer.InitConfigParams{})

	suite.NoError(err)
	suite.False(res.IsError)
	suite.NotContains(suite.resultText(res), "Configuration summary")
}

func (suite *ToolsTestSuite) TestInitConfig_TargetOutsideRoot() {
	res, _, err := suite.h.InitConfig(context.Background(), nil, bearer.InitConfigParams{Path: "/tmp"})

	suite.NoError(err)
	suite.True(res.IsError)
	suite.Contains(suite.resultText(res), "invalid_path")
}

// Concurrent scans through the real executor: two stub invocations with
// different paths must complete independently.
func (suite *ToolsTestSuite) TestConcurrentScansWithRealRunner() {
	if runtime.GOOS == "windows" {
		suite.T().Skip("stub binary is a shell script, skipping on windows")
	}

	for _, dir := range []string{"alpha", "beta"} {
		suite.Require().NoError(os.Mkdir(filepath.Join(suite.root, dir), 0o755))
	}
	stub := filepath.Join(suite.root, "bearer-stub")
	script := "#!/bin/sh\necho \"{\\\"low\\\": [{\\\"path\\\": \\\"$2\\\"}]}\"\n"
	suite.Require().NoError(os.WriteFile(stub, []byte(script), 0o755))

	h := &handlers{
		cfg:    suite.h.cfg,
		runner: bearer.NewRunner(stub, 30*time.Second),
	}

	var wg sync.WaitGroup
	texts := make([]string, 2)
	for i, dir := range []string{"alpha", "beta"} {
		wg.Add(1)
		go func(i int, dir string) {
			defer wg.Done()
			res, _, err := h.Scan(context.Background(), nil, bearer.ScanParams{Path: dir})
			suite.NoError(err)
			suite.False(res.IsError)
			texts[i] = suite.resultText(res)
		}(i, dir)
	}
	wg.Wait()

	suite.Contains(texts[0], "alpha")
	suite.Contains(texts[1], "beta")
}

func TestToolsTestSuite(t *testing.T) {
	suite.Run(t, new(ToolsTestSuite))
}
