// Package config loads the settings of the cfgsync command.
//
// Settings live in an optional YAML or JSON file:
//
//	logging:
//	  level: "info"      # debug, info, warn, error
//	  format: "text"     # json, text
//	  output: "stderr"   # stdout, stderr
//	output:
//	  format: "yaml"     # yaml, json
//
// The file is merged into the defaults with reconcile.Merge, so a misspelled
// key is reported instead of being ignored. Environment variables override
// file values.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"config-reconciler/internal/codec"
	"config-reconciler/plain"
	"config-reconciler/reconcile"
)

// Config is the top-level cfgsync configuration.
type Config struct {
	Logging LoggingConfig `yaml:"logging"`
	Output  OutputConfig  `yaml:"output"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// OutputConfig controls how mappings are printed.
type OutputConfig struct {
	Format string `yaml:"format"`
}

// Load reads the configuration file at path on top of the defaults.
// An empty path yields the defaults. Environment overrides are applied last.
func Load(path string) (*Config, error) {
	data := plain.New()

	if path != "" {
		var err error

		data, err = codec.LoadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	return Parse(data)
}

// Parse applies data to the defaults, then the environment overrides.
func Parse(data *plain.Map) (*Config, error) {
	cfg := defaultConfig()

	if err := reconcile.Merge(cfg, data); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return defaultConfig()
}

func defaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
		Output: OutputConfig{
			Format: "yaml",
		},
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("CFGSYNC_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("CFGSYNC_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("CFGSYNC_OUTPUT_FORMAT"); v != "" {
		cfg.Output.Format = v
	}
}

// Validate checks the enumerated settings.
func (c *Config) Validate() error {
	var errs []error

	if !oneOf(c.Logging.Level, "debug", "info", "warn", "warning", "error") {
		errs = append(errs, fmt.Errorf("logging.level: unknown level %q", c.Logging.Level))
	}

	if !oneOf(c.Logging.Format, "json", "text") {
		errs = append(errs, fmt.Errorf("logging.format: unknown format %q", c.Logging.Format))
	}

	if !oneOf(c.Logging.Output, "stdout", "stderr") {
		errs = append(errs, fmt.Errorf("logging.output: unknown output %q", c.Logging.Output))
	}

	if _, err := codec.ForFormat(c.Output.Format); err != nil {
		errs = append(errs, fmt.Errorf("output.format: %w", err))
	}

	return errors.Join(errs...)
}

func oneOf(v string, allowed ...string) bool {
	for _, a := range allowed {
		if strings.EqualFold(v, a) {
			return true
		}
	}

	return false
}
