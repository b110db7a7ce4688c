// Package models defines data structures for configuration, extraction and scoring.
package models

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds runtime configuration. Values come from an optional YAML
// file and are then overridden by CLI flags.
type Config struct {
	Fetch   FetchConfig   `yaml:"fetch"`
	Storage StorageConfig `yaml:"storage"`
	Server  ServerConfig  `yaml:"server"`
	Context ContextConfig `yaml:"context"`
	Workers int           `yaml:"workers"`
}

type FetchConfig struct {
	Timeout   time.Duration `yaml:"timeout"`
	UserAgent string        `yaml:"user_agent"`
}

type StorageConfig struct {
	DataDir string `yaml:"data_dir"`
	DBPath  string `yaml:"db_path"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type ContextConfig struct {
	ExcerptLimit int `yaml:"excerpt_limit"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		Fetch: FetchConfig{
			Timeout:   15 * time.Second,
			UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64)",
		},
		Storage: StorageConfig{
			DataDir: "data",
			DBPath:  "llm-product-parser.db",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Context: ContextConfig{
			ExcerptLimit: 1200,
		},
		Workers: 4,
	}
}

// LoadConfig reads a YAML config file on top of the defaults.
// A missing file is not an error.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.Context.ExcerptLimit <= 0 {
		cfg.Context.ExcerptLimit = DefaultConfig().Context.ExcerptLimit
	}
	return cfg, nil
}
