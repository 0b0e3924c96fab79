package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the optional diagnostics daemon's configuration file. It
// has no bearing on the CLI's zero-flag contract — this
// binary is additive, exercising the YAML and Prometheus dependencies
// the strict CLI never touches.
type Config struct {
	ListenAddr  string `yaml:"listen_addr"`
	MetricsAddr string `yaml:"metrics_addr"`
	Workers     int    `yaml:"workers"`
}

// DefaultConfig returns the daemon's built-in defaults, used whenever
// no config file is given or a field is left unset.
func DefaultConfig() Config {
	return Config{
		ListenAddr:  "127.0.0.1:8053",
		MetricsAddr: "127.0.0.1:9153",
		Workers:     16,
	}
}

// LoadConfig reads and parses a YAML config file, keeping the defaults
// for any field the file does not set. A field set explicitly to its
// zero value in the file overrides the default.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
