// Package config loads run settings: compiled-in defaults overridden by
// environment variables. A .env file, when present, is loaded by the CLI
// before Load runs.
package config

import (
	_ "embed"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

type Config struct {
	// Workers is the hashing worker pool size.
	Workers int `yaml:"workers"`
	// Threshold is the default near-duplicate bit distance.
	Threshold int `yaml:"threshold"`
	// Algorithm is the default perceptual hash algorithm name.
	Algorithm string `yaml:"algorithm"`
	// CachePath is the fingerprint cache location; empty disables it.
	CachePath string `yaml:"cache_path"`
	// Extensions lists the file extensions treated as images.
	Extensions []string `yaml:"extensions"`
}

// envInt reads an environment variable and parses it as a non-negative
// integer. Returns the default value if the env var is unset, empty, or
// invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n >= 0 {
		return n
	}
	return defaultVal
}

func Load() *Config {
	var cfg Config
	if err := yaml.Unmarshal(defaultsYAML, &cfg); err != nil {
		// This is an embedded file so this error should never happen in practice
		panic("failed to unmarshal embedded defaults.yaml: " + err.Error())
	}

	cfg.Workers = envInt("DUPESCAN_WORKERS", cfg.Workers)
	cfg.Threshold = envInt("DUPESCAN_THRESHOLD", cfg.Threshold)
	if v := os.Getenv("DUPESCAN_ALGORITHM"); v != "" {
		cfg.Algorithm = v
	}
	if v := os.Getenv("DUPESCAN_CACHE"); v != "" {
		cfg.CachePath = v
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return &cfg
}
