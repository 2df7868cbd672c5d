package flaky

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the three knobs of the classification decision rule.
// Immutable for the lifetime of one analysis.
type Config struct {
	// FlakinessThreshold is the score a test must exceed (strictly) to be
	// called flaky once enough samples exist.
	FlakinessThreshold float64 `json:"flakiness_threshold" yaml:"flakiness_threshold"`
	// MinRunsRequired is the number of non-skipped executions below which
	// the confident decision rule does not apply.
	MinRunsRequired int `json:"min_runs_required" yaml:"min_runs_required"`
	// TrueFailureThreshold is the minimum fail rate, over non-skipped
	// executions, required to call a test a true failure.
	TrueFailureThreshold float64 `json:"true_failure_threshold" yaml:"true_failure_threshold"`
}

// DefaultConfig returns the stock configuration: any pass/fail mix is
// flaky, two effective runs make a confident sample, and only a test
// failing in every effective run is a true failure.
func DefaultConfig() Config {
	return Config{
		FlakinessThreshold:   0.0,
		MinRunsRequired:      2,
		TrueFailureThreshold: 1.0,
	}
}

// Validate rejects parameter values the decision arithmetic cannot
// handle. Callers are expected to fail fast on the returned error.
func (c Config) Validate() error {
	if c.FlakinessThreshold < 0 || c.FlakinessThreshold > 1 {
		return fmt.Errorf("flakiness_threshold must be within [0,1], got %v", c.FlakinessThreshold)
	}
	if c.TrueFailureThreshold < 0 || c.TrueFailureThreshold > 1 {
		return fmt.Errorf("true_failure_threshold must be within [0,1], got %v", c.TrueFailureThreshold)
	}
	if c.MinRunsRequired < 1 {
		return fmt.Errorf("min_runs_required must be at least 1, got %d", c.MinRunsRequired)
	}
	return nil
}

// fileConfig mirrors Config with pointer fields so an omitted key can be
// told apart from an explicit zero.
type fileConfig struct {
	FlakinessThreshold   *float64 `json:"flakiness_threshold" yaml:"flakiness_threshold"`
	MinRunsRequired      *int     `json:"min_runs_required" yaml:"min_runs_required"`
	TrueFailureThreshold *float64 `json:"true_failure_threshold" yaml:"true_failure_threshold"`
}

// LoadConfig reads a config file (YAML or JSON) and returns the parsed
// Config with defaults applied to unset fields. Format is detected by
// extension (.yaml/.yml or .json) or by content.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return ParseConfig(data, filepath.Ext(path))
}

// ParseConfig parses config bytes. ext is the file extension for format
// hint; empty = detect from content.
func ParseConfig(data []byte, ext string) (Config, error) {
	fc, err := unmarshalConfig(data, ext)
	if err != nil {
		return Config{}, err
	}

	cfg := DefaultConfig()
	if fc.FlakinessThreshold != nil {
		cfg.FlakinessThreshold = *fc.FlakinessThreshold
	}
	if fc.MinRunsRequired != nil {
		cfg.MinRunsRequired = *fc.MinRunsRequired
	}
	if fc.TrueFailureThreshold != nil {
		cfg.TrueFailureThreshold = *fc.TrueFailureThreshold
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func unmarshalConfig(data []byte, ext string) (fileConfig, error) {
	var fc fileConfig

	ext = strings.ToLower(ext)
	if ext == ".yml" {
		ext = ".yaml"
	}
	switch ext {
	case ".yaml":
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return fc, fmt.Errorf("parse config yaml: %w", err)
		}
		return fc, nil
	case ".json":
		if err := json.Unmarshal(data, &fc); err != nil {
			return fc, fmt.Errorf("parse config json: %w", err)
		}
		return fc, nil
	}

	// Detect: try JSON first (starts with {), else YAML
	if strings.HasPrefix(strings.TrimSpace(string(data)), "{") {
		if err := json.Unmarshal(data, &fc); err != nil {
			return fc, fmt.Errorf("parse config json: %w", err)
		}
		return fc, nil
	}
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fc, fmt.Errorf("parse config yaml: %w", err)
	}
	return fc, nil
}
