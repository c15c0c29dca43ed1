// Package config handles classreport configuration loading.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	rerrors "github.com/r3d91ll/classreport/pkg/errors"
)

// Config is the root configuration structure.
type Config struct {
	Input     InputConfig     `yaml:"input"`
	Aggregate AggregateConfig `yaml:"aggregate"`
	Report    ReportConfig    `yaml:"report"`
	Output    OutputConfig    `yaml:"output"`
}

// InputConfig describes where the per-iteration statistics live.
type InputConfig struct {
	Manifest           string `yaml:"manifest"`
	Pattern            string `yaml:"pattern"`
	Table              string `yaml:"table"`
	DistributionColumn string `yaml:"distribution_column"`
	ResolutionColumn   string `yaml:"resolution_column"`

	// Workers bounds concurrent model file parsing. 1 parses sequentially.
	Workers int `yaml:"workers"`
}

// AggregateConfig controls how per-iteration sequences become class tables.
type AggregateConfig struct {
	// MismatchPolicy is "strict" (reject sequences longer than the class
	// count) or "truncate" (drop the extra values with a warning).
	MismatchPolicy string `yaml:"mismatch_policy"`
}

// ReportConfig holds PDF page settings.
type ReportConfig struct {
	// Page size in points (1 point = 1/72 inch).
	PageWidth  float64 `yaml:"page_width"`
	PageHeight float64 `yaml:"page_height"`
	LineWidth  float64 `yaml:"line_width"`
	ShowPoints bool    `yaml:"show_points"`
	Compress   bool    `yaml:"compress"`
	Author     string  `yaml:"author"`
}

// OutputConfig holds output settings.
type OutputConfig struct {
	// Dir is where <job>.pdf is written. Empty means the working directory.
	Dir string `yaml:"dir"`
	CSV bool   `yaml:"csv"`
	PNG bool   `yaml:"png"`
}

// Mismatch policies.
const (
	PolicyStrict   = "strict"
	PolicyTruncate = "truncate"
)

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Input: InputConfig{
			Manifest:           "run.job",
			Pattern:            "*model.star",
			Table:              "data_model_classes",
			DistributionColumn: "rlnClassDistribution",
			ResolutionColumn:   "rlnEstimatedResolution",
			Workers:            1,
		},
		Aggregate: AggregateConfig{
			MismatchPolicy: PolicyStrict,
		},
		Report: ReportConfig{
			PageWidth:  792, // US Letter, landscape
			PageHeight: 612,
			LineWidth:  2,
			ShowPoints: false,
			Compress:   true,
		},
		Output: OutputConfig{},
	}
}

// Validate checks configuration values.
func (c *Config) Validate() error {
	invalid := func(field, msg string) error {
		return rerrors.Config(rerrors.ErrConfigInvalid, msg).WithContext("field", field)
	}

	if c.Input.Manifest == "" {
		return invalid("input.manifest", "manifest file name must not be empty")
	}
	if c.Input.Pattern == "" {
		return invalid("input.pattern", "model file pattern must not be empty")
	}
	if _, err := filepath.Match(c.Input.Pattern, ""); err != nil {
		return invalid("input.pattern", fmt.Sprintf("bad glob pattern %q", c.Input.Pattern))
	}
	if c.Input.Table == "" {
		return invalid("input.table", "table name must not be empty")
	}
	if c.Input.DistributionColumn == "" || c.Input.ResolutionColumn == "" {
		return invalid("input.distribution_column", "column names must not be empty")
	}
	if c.Input.Workers < 1 {
		return invalid("input.workers", "workers must be at least 1")
	}
	switch c.Aggregate.MismatchPolicy {
	case PolicyStrict, PolicyTruncate:
	default:
		return invalid("aggregate.mismatch_policy",
			fmt.Sprintf("unknown mismatch policy %q (want %q or %q)", c.Aggregate.MismatchPolicy, PolicyStrict, PolicyTruncate))
	}
	if c.Report.PageWidth <= 0 || c.Report.PageHeight <= 0 {
		return invalid("report.page_width", "page dimensions must be positive")
	}
	if c.Report.LineWidth <= 0 {
		return invalid("report.line_width", "line width must be positive")
	}
	return nil
}

// Load loads configuration from a file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, rerrors.ConfigWrap(err, rerrors.ErrConfigNotFound, "configuration file not found").
				WithContext("path", path)
		}
		return nil, rerrors.ConfigWrap(err, rerrors.ErrConfigReadFailed, "failed to read config").
			WithContext("path", path)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, rerrors.ConfigWrap(err, rerrors.ErrConfigParseFailed, "failed to parse config").
			WithContext("path", path)
	}

	if err := cfg.Validate(); err != nil {
		if re, ok := rerrors.AsReportError(err); ok {
			re.WithContext("path", path)
		}
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault loads config from path, or returns default if not found.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}

	return Load(path)
}

// Save saves configuration to a file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return rerrors.ConfigWrap(err, rerrors.ErrConfigWriteFailed, "failed to create config directory").
			WithContext("path", dir)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return rerrors.ConfigWrap(err, rerrors.ErrConfigWriteFailed, "failed to marshal config")
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return rerrors.ConfigWrap(err, rerrors.ErrConfigWriteFailed, "failed to write config file").
			WithContext("path", path)
	}
	return nil
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	// First check for config in current working directory
	if _, err := os.Stat("classreport.yaml"); err == nil {
		return "classreport.yaml"
	}
	if _, err := os.Stat("config/classreport.yaml"); err == nil {
		return "config/classreport.yaml"
	}
	return "classreport.yaml"
}

// InitConfig creates a default config file if it doesn't exist.
func InitConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil // Already exists
	}
	return Default().Save(path)
}
