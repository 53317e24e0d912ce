// Package config loads the driver's YAML configuration file: serial
// device defaults, printer connection details, and output directory.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds every setting a command can fall back to when a flag is
// not given explicitly.
type Config struct {
	Serial  SerialConfig  `yaml:"serial"`
	Printer PrinterConfig `yaml:"printer"`
	Output  OutputConfig  `yaml:"output"`
}

// SerialConfig selects which controller to talk to.
type SerialConfig struct {
	Device string `yaml:"device"`
}

// PrinterConfig describes how to reach OctoPrint.
type PrinterConfig struct {
	Address string `yaml:"address"`
	Port    int    `yaml:"port"`
	APIKey  string `yaml:"api_key"`
	DryRun  bool   `yaml:"dry_run"`
}

// OutputConfig controls where recorded streams land.
type OutputConfig struct {
	Directory string `yaml:"directory"`
	Prefix    string `yaml:"prefix"`
}

// Default returns a Config with the driver's built-in defaults, used
// when no config file exists yet.
func Default() Config {
	return Config{
		Printer: PrinterConfig{Port: 80},
		Output:  OutputConfig{Directory: ".", Prefix: "accel"},
	}
}

// Load reads and parses the YAML config file at path. A missing file is
// not an error — Default() is returned instead, so a fresh install works
// without any setup step.
func Load(path string) (Config, error) {
	cfg := Default()

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path as YAML, creating or truncating the file.
func Save(path string, cfg Config) error {
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}
