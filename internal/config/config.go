package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Auth      AuthConfig      `yaml:"auth"`
	Server    ServerConfig    `yaml:"server"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
	Log       LogConfig       `yaml:"log"`
}

type AuthConfig struct {
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	StateDir string `yaml:"state_dir"`
}

// ServerConfig selects the MCP transport: "stdio" (default) speaks MCP on
// stdin/stdout; "http" serves the streamable-HTTP transport on Addr.
type ServerConfig struct {
	Mode   string `yaml:"mode"`
	Addr   string `yaml:"addr"`
	APIKey string `yaml:"api_key"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Load reads config from a YAML file (a missing file is fine — everything
// has a default or an env override), then applies environment variables:
//
//	STRENGTHLOG_EMAIL, STRENGTHLOG_PASSWORD, STRENGTHLOG_STATE_DIR,
//	STRENGTHLOG_MODE, STRENGTHLOG_HTTP_ADDR, STRENGTHLOG_API_KEY,
//	STRENGTHLOG_TS_HOSTNAME, STRENGTHLOG_LOG_LEVEL
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	case os.IsNotExist(err):
		// Env-only configuration.
	default:
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	applyEnvOverrides(cfg)
	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("STRENGTHLOG_EMAIL"); v != "" {
		cfg.Auth.Email = v
	}
	if v := os.Getenv("STRENGTHLOG_PASSWORD"); v != "" {
		cfg.Auth.Password = v
	}
	if v := os.Getenv("STRENGTHLOG_STATE_DIR"); v != "" {
		cfg.Auth.StateDir = v
	}
	if v := os.Getenv("STRENGTHLOG_MODE"); v != "" {
		cfg.Server.Mode = v
	}
	if v := os.Getenv("STRENGTHLOG_HTTP_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("STRENGTHLOG_API_KEY"); v != "" {
		cfg.Server.APIKey = v
	}
	if v := os.Getenv("STRENGTHLOG_TS_HOSTNAME"); v != "" {
		cfg.Tailscale.Enabled = true
		cfg.Tailscale.Hostname = v
	}
	if v := os.Getenv("STRENGTHLOG_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = "stdio"
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = "127.0.0.1:8334"
	}
	if cfg.Auth.StateDir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			cfg.Auth.StateDir = filepath.Join(home, ".strengthlog-mcp")
		}
	}
	if cfg.Tailscale.Hostname == "" {
		cfg.Tailscale.Hostname = "strengthlog"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
}

func (c *Config) validate() error {
	if c.Auth.Email == "" {
		return fmt.Errorf("auth.email is required (or STRENGTHLOG_EMAIL)")
	}
	if c.Auth.Password == "" {
		return fmt.Errorf("auth.password is required (or STRENGTHLOG_PASSWORD)")
	}
	if c.Server.Mode != "stdio" && c.Server.Mode != "http" {
		return fmt.Errorf("server.mode must be stdio or http, got %q", c.Server.Mode)
	}
	return nil
}
