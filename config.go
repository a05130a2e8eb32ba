package main

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config holds everything the exporter needs that is not per-invocation:
// account credentials and output defaults. Values come from an optional
// YAML file, with BASIS_USERNAME / BASIS_PASSWORD environment overrides
// winning over the file.
type Config struct {
	Username  string  `yaml:"username"`
	Password  string  `yaml:"password"`
	Format    string  `yaml:"format"`
	OutputDir string  `yaml:"output_dir"`
	RateLimit float64 `yaml:"rate_limit"`
}

const defaultConfigName = ".basis-export.yaml"

func loadConfig(path string) (Config, error) {
	cfg := Config{
		Format:    "json",
		OutputDir: "data",
		RateLimit: 1,
	}

	if path == "" {
		home, err := os.UserHomeDir()
		if err == nil {
			candidate := filepath.Join(home, defaultConfigName)
			if _, statErr := os.Stat(candidate); statErr == nil {
				path = candidate
			}
		}
	}
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, errors.Wrapf(err, "error reading config file %s", path)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, errors.Wrapf(err, "error parsing config file %s", path)
		}
	}

	if username := os.Getenv("BASIS_USERNAME"); username != "" {
		cfg.Username = username
	}
	if password := os.Getenv("BASIS_PASSWORD"); password != "" {
		cfg.Password = password
	}
	return cfg, nil
}
