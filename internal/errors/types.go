package errors

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Kind classifies a tool failure for the MCP client.
type Kind string

const (
	InvalidPath     Kind = "invalid_path"
	InvalidArgument Kind = "invalid_argument"
	UnknownTool     Kind = "unknown_tool"
	ToolUnavailable Kind = "tool_unavailable"
	Timeout         Kind = "timeout"
	Execution       Kind = "execution"
	OutputParse     Kind = "output_parse"
)

type BearerError struct {
	Kind  Kind
	Op    string // Operation that failed
	Path  string // Filesystem path (when applicable)
	Cause error  // Underlying error
}

func (e *BearerError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s failed for path %s: %v", e.Op, e.Path, e.Cause)
	}
	return fmt.Sprintf("%s failed: %v", e.Op, e.Cause)
}

func (e *BearerError) Unwrap() error { return e.Cause }

func New(kind Kind, op, path string, cause error) *BearerError {
	if cause == nil {
		cause = errors.New(string(kind))
	}
	return &BearerError{
		Kind:  kind,
		Op:    op,
		Path:  path,
		Cause: errors.Wrap(cause, op),
	}
}

func NewInvalidPath(op, path string, cause error) *BearerError {
	return New(InvalidPath, op, path, cause)
}

func NewInvalidArgument(op string, cause error) *BearerError {
	return New(InvalidArgument, op, "", cause)
}

func NewToolUnavailable(op string, cause error) *BearerError {
	return New(ToolUnavailable, op, "", cause)
}

func NewTimeout(op string, cause error) *BearerError {
	return New(Timeout, op, "", cause)
}

func NewExecution(op string, cause error) *BearerError {
	return New(Execution, op, "", cause)
}

func NewOutputParse(op string, cause error) *BearerError {
	return New(OutputParse, op, "", cause)
}

// KindOf returns the Kind carried by err, or "" when err has no
// BearerError in its chain.
func KindOf(err error) Kind {
	var be *BearerError
	if errors.As(err, &be) {
		return be.Kind
	}
	return ""
}
