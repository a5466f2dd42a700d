// Package config loads engine configuration from a YAML file with
// MEMORY_MAN_* environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/beano/memory-man/internal/model"
)

// Config holds all tunable engine settings.
type Config struct {
	DBPath            string   `yaml:"db_path"`
	MaxContentSize    int      `yaml:"max_content_size"`
	DefaultProject    string   `yaml:"default_project"`
	DefaultImportance int      `yaml:"default_importance"`
	SearchLimit       int      `yaml:"search_limit"`
	MaxAutoTags       int      `yaml:"max_auto_tags"`
	ExtraCategories   []string `yaml:"extra_categories"`
	LogLevel          string   `yaml:"log_level"`
}

// Default returns the built-in configuration.
func Default() Config {
	home, _ := os.UserHomeDir()
	return Config{
		DBPath:            filepath.Join(home, ".memory-man", "memory.db"),
		MaxContentSize:    10000,
		DefaultProject:    model.DefaultProject,
		DefaultImportance: 5,
		SearchLimit:       20,
		MaxAutoTags:       8,
		LogLevel:          "info",
	}
}

// Load reads the config file at path, falling back to defaults for missing
// fields, then applies environment overrides. An empty path loads defaults
// only. A missing file at an explicit path is an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(&cfg)

	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("MEMORY_MAN_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("MEMORY_MAN_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("MEMORY_MAN_SEARCH_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.SearchLimit = n
		}
	}
	if v := os.Getenv("MEMORY_MAN_DEFAULT_PROJECT"); v != "" {
		cfg.DefaultProject = v
	}
}

func (c Config) validate() error {
	if c.MaxContentSize <= 0 {
		return fmt.Errorf("max_content_size must be positive, got %d", c.MaxContentSize)
	}
	if c.DefaultImportance < model.ImportanceMin || c.DefaultImportance > model.ImportanceMax {
		return fmt.Errorf("default_importance must be in [%d,%d], got %d",
			model.ImportanceMin, model.ImportanceMax, c.DefaultImportance)
	}
	if c.SearchLimit <= 0 {
		return fmt.Errorf("search_limit must be positive, got %d", c.SearchLimit)
	}
	return nil
}

// Categories returns the built-in category set extended by configuration.
func (c Config) Categories() []string {
	out := append([]string{}, model.BuiltinCategories...)
	for _, extra := range c.ExtraCategories {
		known := false
		for _, b := range out {
			if b == extra {
				known = true
				break
			}
		}
		if !known {
			out = append(out, extra)
		}
	}
	return out
}
