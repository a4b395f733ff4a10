package bearer

import (
	"slices"

	"github.com/cockroachdb/errors"

	berrors "github.com/bearer-community/bearer-mcp/internal/errors"
)

const defaultFormat = "json"

// SupportedFormats lists the report formats the bearer CLI accepts.
var SupportedFormats = []string{"json", "yaml", "sarif", "html"}

// SupportedSeverities lists the severity threshold values bearer accepts.
var SupportedSeverities = []string{"critical", "high", "medium", "low"}

// CLI builds bearer scan argument vectors. Arguments are always passed as
// discrete tokens, never through a shell.
type CLI struct {
	format     string
	severity   string
	rules      string
	skipRules  string
	outputFile string
	quiet      bool
}

type ScanParamsConstraint interface {
	ScanParams | ScanRepoParams
}

// NewScan extracts the scan options common to both scan tools.
func NewScan[T ScanParamsConstraint](params T) *CLI {
	c := &CLI{format: defaultFormat}

	switch p := any(params).(type) {
	case ScanParams:
		c.setOptions(p.Format, p.Severity, p.Rules, p.SkipRules, p.OutputFile, p.Quiet)
	case ScanRepoParams:
		c.setOptions(p.Format, p.Severity, p.Rules, p.SkipRules, p.OutputFile, p.Quiet)
	}
	return c
}

func (c *CLI) setOptions(format, severity, rules, skipRules, outputFile string, quiet bool) {
	if format != "" {
		c.format = format
	}
	c.severity = severity
	c.rules = rules
	c.skipRules = skipRules
	c.outputFile = outputFile
	c.quiet = quiet
}

// Format returns the effective report format after defaulting.
func (c *CLI) Format() string { return c.format }

// HasOutputFile reports whether the caller asked for results on disk.
func (c *CLI) HasOutputFile() bool { return c.outputFile != "" }

// Build assembles the scan argument vector. scanPath and outputFile must
// already be validated absolute paths; outputFile is empty when no output
// file was requested. Enum values are checked here so an unsupported value
// fails before any process is spawned.
func (c *CLI) Build(scanPath, outputFile string) ([]string, error) {
	const op = "build scan command"

	if !slices.Contains(SupportedFormats, c.format) {
		return nil, berrors.NewInvalidArgument(op,
			errors.Newf("unsupported format %q: must be one of %v", c.format, SupportedFormats))
	}
	if c.severity != "" && !slices.Contains(SupportedSeverities, c.severity) {
		return nil, berrors.NewInvalidArgument(op,
			errors.Newf("unsupported severity %q: must be one of %v", c.severity, SupportedSeverities))
	}

	args := []string{"scan", scanPath}
	args = append(args, "--scanner", "sast,secrets")
	args = append(args, "--format", c.format)
	args = append(args, "--no-color", "--skip-test=false")

	if c.severity != "" {
		args = append(args, "--severity", c.severity)
	}
	if c.rules != "" {
		args = append(args, "--only-rule", c.rules)
	}
	if c.skipRules != "" {
		args = append(args, "--skip-rule", c.skipRules)
	}
	if outputFile != "" {
		args = append(args, "--output", outputFile)
	}
	if c.quiet {
		args = append(args, "--quiet")
	}

	return args, nil
}

// VersionArgs is the argument vector for `bearer version`.
func VersionArgs() []string { return []string{"version"} }

// InitArgs is the argument vector for `bearer init`. The target directory is
// selected through the command's working directory, not an argument.
func InitArgs() []string { return []string{"init"} }
