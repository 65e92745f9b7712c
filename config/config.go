// Package config provides YAML configuration parsing for sitecheck.
//
// This package lets the CLI run from a configuration file, as an alternative
// to passing every setting as a flag. Flags given on the command line
// override the file.
//
// Example configuration:
//
//	workers: 20
//	timeout: 5s
//	retries: 1
//	period: 30s
//
//	targets:
//	  - https://example.com
//	  - ${STATUS_URL:-https://status.example.com}
//	target_file: urls.txt
//
//	grids:
//	  - url_template: "https://{{.env}}.example.com/health"
//	    dimensions:
//	      env: [prod, staging]
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"text/template"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jpalmerr/sitecheck"
	"github.com/jpalmerr/sitecheck/internal/logging"
	"github.com/jpalmerr/sitecheck/internal/report"
)

// Config is the root configuration structure for sitecheck.
//
// It maps directly to the YAML configuration file structure.
// Use [Load] or [Parse] to create a Config from YAML, or [Default] for the
// built-in settings.
type Config struct {
	// Workers is the number of concurrent probes. Values below 1 become 1.
	Workers int `yaml:"workers"`

	// Timeout bounds each HTTP attempt. Accepts duration strings like "5s".
	Timeout Duration `yaml:"timeout"`

	// Retries is the number of additional attempts after a transport failure.
	Retries int `yaml:"retries"`

	// Period is the pause between rounds. Omit or set to 0 for a single round.
	Period Duration `yaml:"period"`

	// RetryDelay is the fixed pause between two attempts against one URL.
	RetryDelay Duration `yaml:"retry_delay"`

	// UserAgent is sent with every request.
	UserAgent string `yaml:"user_agent"`

	// Targets are URLs to check.
	// Supports environment variable substitution: ${VAR} or ${VAR:-default}
	Targets []string `yaml:"targets"`

	// TargetFile names a file with one URL per line. Relative paths are
	// resolved against the directory of the configuration file.
	TargetFile string `yaml:"target_file"`

	// Grids define URL sets that expand via cartesian product.
	Grids []GridConfig `yaml:"grids"`

	// Listen is the address of the optional status server, e.g. ":9090".
	Listen string `yaml:"listen"`

	// Report is the output format: table, markdown or json.
	Report string `yaml:"report"`

	// Log configures the CLI logger.
	Log LogConfig `yaml:"log"`

	// dir is the directory of the loaded file, empty for Parse.
	dir string
}

// GridConfig defines a URL grid that expands via cartesian product.
//
// For example, with dimensions {env: [prod, staging], svc: [api, web]},
// the grid expands to 4 URLs: prod/api, prod/web, staging/api, staging/web.
type GridConfig struct {
	// URLTemplate is a Go template for generating URLs.
	// Dimension keys are available as template variables: {{.env}}, {{.svc}}
	// Supports environment variable substitution in the template.
	URLTemplate string `yaml:"url_template"`

	// Dimensions maps dimension names to their possible values.
	Dimensions map[string][]string `yaml:"dimensions"`
}

// LogConfig selects log level, encoding and destination.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// Duration wraps time.Duration for YAML unmarshalling.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}

	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}

	*d = Duration(parsed)
	return nil
}

// Duration returns the underlying time.Duration value.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// Default returns the built-in configuration used when no file is given.
func Default() Config {
	return Config{
		Workers:    sitecheck.DefaultWorkers,
		Timeout:    Duration(sitecheck.DefaultTimeout),
		Retries:    sitecheck.DefaultRetries,
		RetryDelay: Duration(sitecheck.DefaultRetryDelay),
		UserAgent:  sitecheck.DefaultUserAgent,
		Report:     string(report.FormatTable),
		Log:        LogConfig{Level: "info", Format: "json"},
	}
}

// envVarPattern matches ${VAR} and ${VAR:-default} patterns.
// Group 1: variable name
// Group 2: the ":-default" part (if present, indicates a default was specified)
// Group 3: the default value (may be empty for ${VAR:-})
var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(:-([^}]*))?\}`)

// expandEnvVars replaces ${VAR} and ${VAR:-default} patterns with environment values.
func expandEnvVars(s string) (string, error) {
	var firstErr error

	result := envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		if firstErr != nil {
			return match
		}

		submatches := envVarPattern.FindStringSubmatch(match)
		if len(submatches) < 2 {
			return match
		}

		varName := submatches[1]
		hasDefault := len(submatches) > 2 && submatches[2] != ""
		defaultVal := ""
		if hasDefault && len(submatches) > 3 {
			defaultVal = submatches[3]
		}

		value, exists := os.LookupEnv(varName)
		if !exists {
			if hasDefault {
				return defaultVal
			}
			firstErr = fmt.Errorf("environment variable %q is not set", varName)
			return match
		}
		return value
	})

	if firstErr != nil {
		return "", firstErr
	}
	return result, nil
}

// Load reads and parses a YAML configuration file.
//
// Environment variables in the file are expanded before parsing.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	cfg.dir = filepath.Dir(path)
	return cfg, nil
}

// Parse parses YAML configuration data on top of [Default].
//
// Environment variables are expanded in targets, target_file and grid
// templates. Fields absent from the YAML keep their default values.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := cfg.expandAndValidate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks a configuration assembled in code, for example after CLI
// flags were applied on top of a file.
func (c *Config) Validate() error {
	return c.expandAndValidate()
}

// TargetFilePath returns TargetFile resolved against the config file directory.
func (c *Config) TargetFilePath() string {
	if c.TargetFile == "" || filepath.IsAbs(c.TargetFile) || c.dir == "" {
		return c.TargetFile
	}
	return filepath.Join(c.dir, c.TargetFile)
}

// expandAndValidate expands environment variables and validates the config.
func (c *Config) expandAndValidate() error {
	if c.Workers < 1 {
		c.Workers = 1
	}
	if c.Timeout.Duration() < 0 {
		return fmt.Errorf("timeout cannot be negative, got %s", c.Timeout.Duration())
	}
	if c.Retries < 0 {
		return fmt.Errorf("retries cannot be negative, got %d", c.Retries)
	}
	if c.Period.Duration() < 0 {
		return fmt.Errorf("period cannot be negative, got %s", c.Period.Duration())
	}
	if c.RetryDelay.Duration() < 0 {
		return fmt.Errorf("retry_delay cannot be negative, got %s", c.RetryDelay.Duration())
	}

	for i, raw := range c.Targets {
		expanded, err := expandEnvVars(raw)
		if err != nil {
			return fmt.Errorf("targets[%d]: %w", i, err)
		}
		if err := validateURL(expanded); err != nil {
			return fmt.Errorf("targets[%d]: %w", i, err)
		}
		c.Targets[i] = expanded
	}

	if c.TargetFile != "" {
		expanded, err := expandEnvVars(c.TargetFile)
		if err != nil {
			return fmt.Errorf("target_file: %w", err)
		}
		c.TargetFile = expanded
	}

	for i := range c.Grids {
		g := &c.Grids[i]

		if g.URLTemplate == "" {
			return fmt.Errorf("grids[%d]: url_template is required", i)
		}
		expanded, err := expandEnvVars(g.URLTemplate)
		if err != nil {
			return fmt.Errorf("grids[%d]: url_template: %w", i, err)
		}
		g.URLTemplate = expanded

		// fail fast before expansion tries to use an invalid template
		if _, err := template.New("").Parse(g.URLTemplate); err != nil {
			return fmt.Errorf("grids[%d]: invalid url_template: %w", i, err)
		}

		if len(g.Dimensions) == 0 {
			return fmt.Errorf("grids[%d]: at least one dimension is required", i)
		}
		for dimName, dimValues := range g.Dimensions {
			if len(dimValues) == 0 {
				return fmt.Errorf("grids[%d]: dimension %q has no values", i, dimName)
			}
			seen := make(map[string]struct{}, len(dimValues))
			for _, v := range dimValues {
				if _, exists := seen[v]; exists {
					return fmt.Errorf("grids[%d]: dimension %q has duplicate value %q", i, dimName, v)
				}
				seen[v] = struct{}{}
			}
		}
	}

	if _, err := report.ParseFormat(c.Report); err != nil {
		return fmt.Errorf("report: %w", err)
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "json", "text":
	default:
		return fmt.Errorf("log.format must be json or text, got %q", c.Log.Format)
	}

	return nil
}

// validateURL accepts absolute http and https URLs only.
func validateURL(raw string) error {
	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if parsed.Scheme == "" {
		return fmt.Errorf("url %q must have a scheme (http:// or https://)", raw)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("url scheme must be http or https, got %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return fmt.Errorf("url %q has no host", raw)
	}
	return nil
}
