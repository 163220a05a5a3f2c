package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// cliConfig is the optional --config file's shape: ambient defaults that
// keep repeated flags out of every invocation. Grounded on the
// straga-Mimir_lite/taipm-go-deep-agent pack's yaml.v3 config-file
// convention; the core itself has no config-file concept.
type cliConfig struct {
	DefaultVariant string `yaml:"default_variant"`
	LogLevel       string `yaml:"log_level"`
}

func loadConfig(path string) (cliConfig, error) {
	cfg := cliConfig{DefaultVariant: "brute_force", LogLevel: "info"}
	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
