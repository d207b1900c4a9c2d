package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server ServerConfig `yaml:"server"`
	State  StateConfig  `yaml:"state"`
	Log    LogConfig    `yaml:"log"`
}

type ServerConfig struct {
	URL            string `yaml:"url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type StateConfig struct {
	// Dir holds the credential database. Empty means ~/.fitlog.
	Dir string `yaml:"dir"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Timeout returns the per-request timeout for API calls.
func (s ServerConfig) Timeout() time.Duration {
	if s.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// StateDir resolves the state directory, defaulting to ~/.fitlog.
func (c *Config) StateDir() (string, error) {
	if c.State.Dir != "" {
		return c.State.Dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".fitlog"), nil
}

// Load reads config from a YAML file, then applies environment variable
// overrides. Env vars use the prefix FITLOG_:
//
//	FITLOG_SERVER_URL, FITLOG_SERVER_TIMEOUT_SECONDS,
//	FITLOG_STATE_DIR, FITLOG_LOG_LEVEL
//
// A missing file is not an error as long as FITLOG_SERVER_URL is set;
// this keeps the CLI usable with no config file at all.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	case os.IsNotExist(err):
		// fall through to env overrides
	default:
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("FITLOG_SERVER_URL"); v != "" {
		cfg.Server.URL = v
	}
	if v := os.Getenv("FITLOG_SERVER_TIMEOUT_SECONDS"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil {
			cfg.Server.TimeoutSeconds = secs
		}
	}
	if v := os.Getenv("FITLOG_STATE_DIR"); v != "" {
		cfg.State.Dir = v
	}
	if v := os.Getenv("FITLOG_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}

func (c *Config) validate() error {
	if c.Server.URL == "" {
		return fmt.Errorf("server.url is required")
	}
	return nil
}
