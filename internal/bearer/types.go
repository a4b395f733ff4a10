package bearer

import "time"

// ScanParams - parameters for scanning a specific directory or file
type ScanParams struct {
	Path       string `json:"path" jsonschema:"path to scan (directory or file). Relative paths are resolved from the configured working directory"`
	Format     string `json:"format,omitempty" jsonschema:"output format for the scan results. One of: json, yaml, sarif, html. Defaults to json"`
	Severity   string `json:"severity,omitempty" jsonschema:"minimum severity level to report. One of: critical, high, medium, low. Unset means no filter"`
	Rules      string `json:"rules,omitempty" jsonschema:"comma-separated list of rule IDs to run (e.g. 'javascript_lang_eval,ruby_rails_logger')"`
	SkipRules  string `json:"skip_rules,omitempty" jsonschema:"comma-separated list of rule IDs to skip"`
	OutputFile string `json:"output_file,omitempty" jsonschema:"path to save scan results to. Must stay within the working directory"`
	Quiet      bool   `json:"quiet,omitempty" jsonschema:"suppress progress output"`
}

// ScanRepoParams - parameters for scanning the whole configured workspace
// (no path parameter; the working directory root is scanned)
type ScanRepoParams struct {
	Format     string `json:"format,omitempty" jsonschema:"output format for the scan results. One of: json, yaml, sarif, html. Defaults to json"`
	Severity   string `json:"severity,omitempty" jsonschema:"minimum severity level to report. One of: critical, high, medium, low. Unset means no filter"`
	Rules      string `json:"rules,omitempty" jsonschema:"comma-separated list of rule IDs to run (e.g. 'javascript_lang_eval,ruby_rails_logger')"`
	SkipRules  string `json:"skip_rules,omitempty" jsonschema:"comma-separated list of rule IDs to skip"`
	OutputFile string `json:"output_file,omitempty" jsonschema:"path to save scan results to. Must stay within the working directory"`
	Quiet      bool   `json:"quiet,omitempty" jsonschema:"suppress progress output"`
}

// VersionParams - bearer_version takes no arguments
type VersionParams struct{}

// ListRulesParams - parameters for the rules catalog
type ListRulesParams struct {
	Language string `json:"language,omitempty" jsonschema:"optional language to get rule information about (e.g. javascript, python, java, ruby, php, go)"`
}

// InitConfigParams - parameters for initializing a bearer.yml
type InitConfigParams struct {
	Path string `json:"path,omitempty" jsonschema:"directory to create the configuration in (defaults to the working directory)"`
}

// ExecResult captures one bearer invocation. It lives only for the duration
// of the call that produced it.
type ExecResult struct {
	InvocationID string
	ExitCode     int
	Stdout       string
	Stderr       string
	Duration     time.Duration
}
