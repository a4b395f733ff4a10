package bearer

import (
	"context"
	"io/fs"
	"log"
	"os/exec"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	berrors "github.com/bearer-community/bearer-mcp/internal/errors"
)

// Runner abstracts bearer process execution for testability.
type Runner interface {
	// Run executes the bearer binary with the given argument vector and
	// working directory, honoring ctx and the configured timeout. A non-zero
	// exit code is not an error here; callers classify exit codes because
	// bearer uses exit code 1 to signal findings.
	Run(ctx context.Context, workDir string, args []string) (*ExecResult, error)
}

// ExecRunner implements Runner using os/exec.
type ExecRunner struct {
	binaryPath string
	timeout    time.Duration
}

func NewRunner(binaryPath string, timeout time.Duration) *ExecRunner {
	return &ExecRunner{binaryPath: binaryPath, timeout: timeout}
}

func (r *ExecRunner) Run(ctx context.Context, workDir string, args []string) (*ExecResult, error) {
	const op = "run bearer"

	id := uuid.NewString()
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, r.binaryPath, args...)
	cmd.Dir = workDir
	// Reap the child even if it ignores the kill for a while.
	cmd.WaitDelay = 10 * time.Second

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	log.Printf("bearer[%s]: executing %s %s (cwd %s)", id, r.binaryPath, strings.Join(args, " "), workDir)

	start := time.Now()
	err := cmd.Run()
	result := &ExecResult{
		InvocationID: id,
		Stdout:       stdout.String(),
		Stderr:       stderr.String(),
		Duration:     time.Since(start),
	}

	if err != nil {
		switch {
		// A bare name missing from PATH yields exec.ErrNotFound; an explicit
		// path to a missing binary yields fs.ErrNotExist.
		case errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist):
			return nil, berrors.NewToolUnavailable(op,
				errors.Newf("bearer CLI not found: ensure %q is installed and in PATH", r.binaryPath))
		case errors.Is(ctx.Err(), context.DeadlineExceeded):
			log.Printf("bearer[%s]: killed after %s", id, r.timeout)
			return nil, berrors.NewTimeout(op,
				errors.Newf("bearer did not finish within %s", r.timeout))
		case ctx.Err() != nil:
			// Transport-level cancellation; the child has been killed.
			return nil, errors.Wrap(ctx.Err(), op)
		}

		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			log.Printf("bearer[%s]: exited %d after %s", id, result.ExitCode, result.Duration)
			return result, nil
		}
		return nil, berrors.NewExecution(op, err)
	}

	log.Printf("bearer[%s]: exited 0 after %s", id, result.Duration)
	return result, nil
}

// ExitError maps a completed result to an execution error carrying the exit
// code and captured stderr.
func ExitError(op string, res *ExecResult) error {
	msg := strings.TrimSpace(res.Stderr)
	if msg == "" {
		msg = strings.TrimSpace(res.Stdout)
	}
	return berrors.NewExecution(op,
		errors.Newf("bearer exited with code %d: %s", res.ExitCode, msg))
}

// MockRunner implements Runner for tests.
type MockRunner struct {
	RunFunc func(ctx context.Context, workDir string, args []string) (*ExecResult, error)
	Calls   [][]string
}

func (m *MockRunner) Run(ctx context.Context, workDir string, args []string) (*ExecResult, error) {
	m.Calls = append(m.Calls, args)
	if m.RunFunc != nil {
		return m.RunFunc(ctx, workDir, args)
	}
	return &ExecResult{InvocationID: "mock"}, nil
}
