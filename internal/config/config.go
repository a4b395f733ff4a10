package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
)

// Transport selects how the MCP server talks to its client.
type Transport string

const (
	TransportStdio Transport = "stdio"
	TransportSSE   Transport = "sse"
)

const (
	defaultBinary  = "bearer"
	defaultSSEHost = "localhost"
	defaultSSEPort = 8000
	defaultTimeout = 300 * time.Second
)

// Config is resolved once at process start and treated as immutable
// afterwards. All tool handlers share the same value across sessions.
type Config struct {
	// WorkingDir is the absolute root every scan path must stay within.
	WorkingDir string
	// BearerBinary is the bearer CLI binary name or path. Availability is
	// checked at first use, not here; the binary may be mounted after boot.
	BearerBinary string
	// ScanTimeout bounds a single bearer invocation.
	ScanTimeout time.Duration
	Transport   Transport
	SSEHost     string
	SSEPort     int
}

// FromEnv resolves the server configuration from environment variables:
// MCP_WORKING_DIRECTORY, MCP_TRANSPORT, MCP_SSE_HOST, MCP_SSE_PORT,
// BEARER_BINARY and BEARER_SCAN_TIMEOUT (seconds).
func FromEnv() (*Config, error) {
	cfg := &Config{
		BearerBinary: defaultBinary,
		ScanTimeout:  defaultTimeout,
		Transport:    TransportStdio,
		SSEHost:      defaultSSEHost,
		SSEPort:      defaultSSEPort,
	}

	workDir := os.Getenv("MCP_WORKING_DIRECTORY")
	if workDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, "resolve current directory")
		}
		workDir = cwd
	}
	abs, err := filepath.Abs(workDir)
	if err != nil {
		return nil, errors.Wrapf(err, "resolve working directory %q", workDir)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, errors.Wrapf(err, "working directory %q", abs)
	}
	if !info.IsDir() {
		return nil, errors.Newf("working directory %q is not a directory", abs)
	}
	// Resolve symlinks once so path confinement compares canonical paths.
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}
	cfg.WorkingDir = abs

	if binary := os.Getenv("BEARER_BINARY"); binary != "" {
		cfg.BearerBinary = binary
	}

	if raw := os.Getenv("BEARER_SCAN_TIMEOUT"); raw != "" {
		secs, err := strconv.Atoi(raw)
		if err != nil || secs <= 0 {
			return nil, errors.Newf("invalid BEARER_SCAN_TIMEOUT %q: want positive seconds", raw)
		}
		cfg.ScanTimeout = time.Duration(secs) * time.Second
	}

	switch t := Transport(os.Getenv("MCP_TRANSPORT")); t {
	case TransportStdio, TransportSSE:
		cfg.Transport = t
	case "":
		// default stdio
	default:
		log.Printf("invalid MCP_TRANSPORT %q, falling back to stdio", t)
	}

	if host := os.Getenv("MCP_SSE_HOST"); host != "" {
		cfg.SSEHost = host
	}
	if raw := os.Getenv("MCP_SSE_PORT"); raw != "" {
		port, err := strconv.Atoi(raw)
		if err != nil || port <= 0 || port > 65535 {
			return nil, errors.Newf("invalid MCP_SSE_PORT %q", raw)
		}
		cfg.SSEPort = port
	}

	return cfg, nil
}

// SSEAddr returns the host:port the SSE transport listens on.
func (c *Config) SSEAddr() string {
	return fmt.Sprintf("%s:%d", c.SSEHost, c.SSEPort)
}
