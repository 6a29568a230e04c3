// Package config loads service configuration from a YAML file with
// environment overrides. Secrets come from the environment only, optionally
// seeded from a .env file.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the full service configuration.
type Config struct {
	Listen       string   `yaml:"listen"`
	DatabasePath string   `yaml:"database_path"`
	Provider     Provider `yaml:"provider"`
}

// Provider configures the completion backend.
type Provider struct {
	Kind      string  `yaml:"kind"`       // "workers-ai" or "openai"
	Model     string  `yaml:"model"`      // empty = provider default
	BaseURL   string  `yaml:"base_url"`   // empty = provider default
	AccountID string  `yaml:"account_id"` // workers-ai only
	MaxRPS    float64 `yaml:"max_rps"`    // 0 disables rate limiting

	// APIToken is read from WEBSENTRY_API_TOKEN, never from the file.
	APIToken string `yaml:"-"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Listen:       ":8787",
		DatabasePath: "websentry.db",
		Provider: Provider{
			Kind:   "workers-ai",
			MaxRPS: 2,
		},
	}
}

// Load reads the configuration file at path (if path is empty or the file
// does not exist, defaults are used) and applies environment overrides.
// A .env file in the working directory is loaded first, if present.
func Load(path string) (*Config, error) {
	// Best effort: absence of a .env file is not an error.
	_ = godotenv.Load()

	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("config: read %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

// applyEnv overlays WEBSENTRY_* environment variables onto the config.
func applyEnv(cfg *Config) {
	if v := os.Getenv("WEBSENTRY_LISTEN"); v != "" {
		cfg.Listen = v
	}
	if v := os.Getenv("WEBSENTRY_DB"); v != "" {
		cfg.DatabasePath = v
	}
	if v := os.Getenv("WEBSENTRY_PROVIDER"); v != "" {
		cfg.Provider.Kind = v
	}
	if v := os.Getenv("WEBSENTRY_MODEL"); v != "" {
		cfg.Provider.Model = v
	}
	if v := os.Getenv("WEBSENTRY_BASE_URL"); v != "" {
		cfg.Provider.BaseURL = v
	}
	if v := os.Getenv("WEBSENTRY_ACCOUNT_ID"); v != "" {
		cfg.Provider.AccountID = v
	}
	if v := os.Getenv("WEBSENTRY_MAX_RPS"); v != "" {
		if rps, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Provider.MaxRPS = rps
		}
	}
	cfg.Provider.APIToken = os.Getenv("WEBSENTRY_API_TOKEN")
}
