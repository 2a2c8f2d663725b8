// Package config loads replink configuration from file and environment.
//
// Precedence (highest to lowest):
//  1. Environment variables (REPLINK_*)
//  2. Config file
//  3. Built-in defaults
//
// Config file search order:
//  1. .replink.yaml in current directory
//  2. ~/.config/replink/config.yaml
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all replink configuration. The REPL family and paste mode
// are per-invocation decisions and stay on the command line; only pacing
// and telemetry settings belong here.
type Config struct {
	// Delivery pacing
	IPythonPauseMS int `yaml:"ipython_pause_ms"` // settle delay after the paste-open command
	PromptWaitMS   int `yaml:"prompt_wait_ms"`   // wait after commands that expect a fresh prompt

	// OTEL
	OTELEndpoint string `yaml:"otel_endpoint"`
	OTELHeaders  string `yaml:"otel_headers"` // Comma-separated key=value pairs, e.g. "Authorization=Basic abc123"

	// ConfigFile is the path to the config file that was loaded (empty if none).
	ConfigFile string `yaml:"-"`
}

// Defaults returns a Config with all default values.
func Defaults() *Config {
	return &Config{
		IPythonPauseMS: 100,
		PromptWaitMS:   150,
	}
}

// Load reads configuration from file and environment variables.
// Environment variables always override file values. An explicit path skips
// the search and must exist; a missing default file is not an error.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := applyFile(cfg, path, data); err != nil {
			return nil, err
		}
	} else if found, data, err := findConfigFile(); err == nil {
		if err := applyFile(cfg, found, data); err != nil {
			return nil, err
		}
	}

	mergeEnv(cfg)
	return cfg, nil
}

func applyFile(cfg *Config, path string, data []byte) error {
	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	cfg.ConfigFile = path
	mergeFile(cfg, &fileCfg)
	return nil
}

// findConfigFile searches for a config file and returns its path and contents.
func findConfigFile() (string, []byte, error) {
	// 1. Current directory
	if data, err := os.ReadFile(".replink.yaml"); err == nil {
		return ".replink.yaml", data, nil
	}

	// 2. XDG config dir / ~/.config
	if home, err := os.UserHomeDir(); err == nil {
		path := filepath.Join(home, ".config", "replink", "config.yaml")
		if data, err := os.ReadFile(path); err == nil {
			return path, data, nil
		}
	}

	return "", nil, fmt.Errorf("no config file found")
}

// mergeFile applies non-zero file values onto cfg.
func mergeFile(cfg *Config, file *Config) {
	if file.IPythonPauseMS > 0 {
		cfg.IPythonPauseMS = file.IPythonPauseMS
	}
	if file.PromptWaitMS > 0 {
		cfg.PromptWaitMS = file.PromptWaitMS
	}
	if file.OTELEndpoint != "" {
		cfg.OTELEndpoint = file.OTELEndpoint
	}
	if file.OTELHeaders != "" {
		cfg.OTELHeaders = file.OTELHeaders
	}
}

// mergeEnv applies environment variables onto cfg. Env always wins; the
// replink-specific variables win over the generic OTEL ones.
func mergeEnv(cfg *Config) {
	if v := os.Getenv("REPLINK_IPYTHON_PAUSE_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.IPythonPauseMS = n
		}
	}
	if v := os.Getenv("REPLINK_PROMPT_WAIT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.PromptWaitMS = n
		}
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); v != "" {
		cfg.OTELEndpoint = v
	}
	if v := os.Getenv("REPLINK_OTEL_ENDPOINT"); v != "" {
		cfg.OTELEndpoint = v
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_HEADERS"); v != "" {
		cfg.OTELHeaders = v
	}
	if v := os.Getenv("REPLINK_OTEL_HEADERS"); v != "" {
		cfg.OTELHeaders = v
	}
}
