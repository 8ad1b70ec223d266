package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Backend  BackendConfig `yaml:"backend"`
	LogLevel string        `yaml:"log_level"`
}

type BackendConfig struct {
	BaseURL string `yaml:"base_url"`
	// Timeout is a duration string ("30s", "2m"); parsed into Timeout()
	// at load time.
	TimeoutRaw string `yaml:"timeout"`

	timeout time.Duration
}

// Timeout returns the parsed request timeout.
func (b BackendConfig) Timeout() time.Duration {
	return b.timeout
}

func Dir() string {
	cfgDir, err := os.UserConfigDir()
	if err != nil {
		cfgDir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(cfgDir, "tgconsole")
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if cfg.Backend.BaseURL == "" {
		return nil, fmt.Errorf("config %s: backend.base_url is required", path)
	}

	cfg.Backend.timeout = 30 * time.Second
	if cfg.Backend.TimeoutRaw != "" {
		d, err := time.ParseDuration(cfg.Backend.TimeoutRaw)
		if err != nil {
			return nil, fmt.Errorf("config %s: invalid backend.timeout: %w", path, err)
		}
		cfg.Backend.timeout = d
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	return &cfg, nil
}
