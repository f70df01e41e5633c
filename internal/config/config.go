// Package config loads the vibedocs.yaml configuration with environment
// overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full service configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	LLM     LLMConfig     `yaml:"llm"`
	Store   StoreConfig   `yaml:"store"`
	Browser BrowserConfig `yaml:"browser"`
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// LLMConfig configures the Gemini gateway. The API key here is a
// fallback; requests may carry their own key.
type LLMConfig struct {
	APIKey            string        `yaml:"api_key"`
	BaseURL           string        `yaml:"base_url"`
	Timeout           time.Duration `yaml:"timeout"`
	InterCallDelay    time.Duration `yaml:"inter_call_delay"`
	RateLimitRecovery time.Duration `yaml:"rate_limit_recovery"`
}

// StoreConfig configures local persistence.
type StoreConfig struct {
	DataDir string `yaml:"data_dir"`
}

// BrowserConfig configures design extraction.
type BrowserConfig struct {
	Timeout time.Duration `yaml:"timeout"`
}

// LoggingConfig configures zap.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	home, _ := os.UserHomeDir()
	return Config{
		Server: ServerConfig{Addr: ":8080"},
		LLM: LLMConfig{
			BaseURL:           "https://generativelanguage.googleapis.com/v1beta",
			Timeout:           2 * time.Minute,
			InterCallDelay:    500 * time.Millisecond,
			RateLimitRecovery: 2 * time.Second,
		},
		Store:   StoreConfig{DataDir: filepath.Join(home, ".vibedocs")},
		Browser: BrowserConfig{Timeout: 30 * time.Second},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load reads the config file at path (missing file means defaults) and
// applies environment overrides: VIBEDOCS_API_KEY, VIBEDOCS_ADDR,
// VIBEDOCS_DATA_DIR.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return cfg, fmt.Errorf("read %s: %w", path, err)
	}

	if v := os.Getenv("VIBEDOCS_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv("VIBEDOCS_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("VIBEDOCS_DATA_DIR"); v != "" {
		cfg.Store.DataDir = v
	}
	return cfg, nil
}
