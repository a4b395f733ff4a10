package bearer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// ConfigFileName is the configuration file `bearer init` writes.
const ConfigFileName = "bearer.yml"

// ProjectConfig is the subset of bearer.yml this server reports back after
// initializing a project configuration.
type ProjectConfig struct {
	Report struct {
		Format   string `yaml:"format"`
		Output   string `yaml:"output"`
		Report   string `yaml:"report"`
		Severity string `yaml:"severity"`
	} `yaml:"report"`
	Rule struct {
		Disable []string `yaml:"disable"`
		Only    []string `yaml:"only"`
	} `yaml:"rule"`
	Scan struct {
		Scanner  []string `yaml:"scanner"`
		SkipPath []string `yaml:"skip-path"`
		Quiet    bool     `yaml:"quiet"`
	} `yaml:"scan"`
}

// LoadProjectConfig reads the bearer.yml in dir.
func LoadProjectConfig(dir string) (*ProjectConfig, error) {
	path := filepath.Join(dir, ConfigFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}

	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	return &cfg, nil
}

// Summary renders the loaded configuration for the tool response.
func (c *ProjectConfig) Summary() string {
	var lines []string

	if c.Report.Report != "" {
		lines = append(lines, fmt.Sprintf("report type: %s", c.Report.Report))
	}
	if c.Report.Format != "" {
		lines = append(lines, fmt.Sprintf("report format: %s", c.Report.Format))
	}
	if c.Report.Severity != "" {
		lines = append(lines, fmt.Sprintf("severity threshold: %s", c.Report.Severity))
	}
	if len(c.Scan.Scanner) > 0 {
		lines = append(lines, fmt.Sprintf("scanners: %s", strings.Join(c.Scan.Scanner, ", ")))
	}
	if len(c.Scan.SkipPath) > 0 {
		lines = append(lines, fmt.Sprintf("skipped paths: %s", strings.Join(c.Scan.SkipPath, ", ")))
	}
	if len(c.Rule.Disable) > 0 {
		lines = append(lines, fmt.Sprintf("disabled rules: %d", len(c.Rule.Disable)))
	}
	if len(lines) == 0 {
		return "bearer.yml created with default settings"
	}
	return strings.Join(lines, "\n")
}
