// Package config loads the YAML configuration shared by athleted and the
// athlete CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
	Remote    RemoteConfig    `yaml:"remote"`
	Coach     CoachConfig     `yaml:"coach"`
	Local     LocalConfig     `yaml:"local"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	// DevLogin is the identity used when requests do not arrive over the tailnet.
	DevLogin string `yaml:"dev_login"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

type AuthConfig struct {
	APIKey string `yaml:"api_key"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

// RemoteConfig points the CLI at an athleted server. An empty URL means the
// CLI works offline.
type RemoteConfig struct {
	URL       string        `yaml:"url"`
	APIKey    string        `yaml:"api_key"`
	Timeout   time.Duration `yaml:"timeout"`
	QueueSize int           `yaml:"queue_size"`
}

type CoachConfig struct {
	APIKey  string        `yaml:"api_key"`
	BaseURL string        `yaml:"base_url"`
	Model   string        `yaml:"model"`
	Timeout time.Duration `yaml:"timeout"`
}

type LocalConfig struct {
	StateDir string `yaml:"state_dir"`
}

// DSN returns a PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	sslmode := d.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, sslmode)
}

// Defaults returns the configuration used when no file exists.
func Defaults() *Config {
	return &Config{
		Server:    ServerConfig{Host: "127.0.0.1", Port: 8080, DevLogin: "local"},
		Tailscale: TailscaleConfig{Hostname: "athletelog"},
		Remote:    RemoteConfig{Timeout: 15 * time.Second, QueueSize: 64},
		Coach:     CoachConfig{Timeout: 60 * time.Second},
		Local:     LocalConfig{StateDir: defaultStateDir()},
	}
}

func defaultStateDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "athletelog")
	}
	return ".athletelog"
}

// Load reads config from a YAML file over the defaults, then applies
// environment variable overrides. A missing file is not an error when
// optional is set, so the CLI runs without any configuration.
//
// Env vars use the prefix ATHLETELOG_ and underscore-separated paths:
//
//	ATHLETELOG_SERVER_HOST, ATHLETELOG_SERVER_PORT, ATHLETELOG_SERVER_DEV_LOGIN,
//	ATHLETELOG_DB_HOST, ATHLETELOG_DB_PORT, ATHLETELOG_DB_NAME,
//	ATHLETELOG_DB_USER, ATHLETELOG_DB_PASSWORD, ATHLETELOG_DB_SSLMODE,
//	ATHLETELOG_AUTH_API_KEY,
//	ATHLETELOG_TAILSCALE_ENABLED, ATHLETELOG_TAILSCALE_HOSTNAME,
//	ATHLETELOG_REMOTE_URL, ATHLETELOG_REMOTE_API_KEY,
//	ATHLETELOG_COACH_API_KEY, ATHLETELOG_COACH_MODEL,
//	ATHLETELOG_STATE_DIR
func Load(path string, optional bool) (*Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	case optional && errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func applyEnvOverrides(cfg *Config) {
	setString(&cfg.Server.Host, "ATHLETELOG_SERVER_HOST")
	setInt(&cfg.Server.Port, "ATHLETELOG_SERVER_PORT")
	setString(&cfg.Server.DevLogin, "ATHLETELOG_SERVER_DEV_LOGIN")

	setString(&cfg.Database.Host, "ATHLETELOG_DB_HOST")
	setInt(&cfg.Database.Port, "ATHLETELOG_DB_PORT")
	setString(&cfg.Database.Name, "ATHLETELOG_DB_NAME")
	setString(&cfg.Database.User, "ATHLETELOG_DB_USER")
	setString(&cfg.Database.Password, "ATHLETELOG_DB_PASSWORD")
	setString(&cfg.Database.SSLMode, "ATHLETELOG_DB_SSLMODE")

	setString(&cfg.Auth.APIKey, "ATHLETELOG_AUTH_API_KEY")

	setBool(&cfg.Tailscale.Enabled, "ATHLETELOG_TAILSCALE_ENABLED")
	setString(&cfg.Tailscale.Hostname, "ATHLETELOG_TAILSCALE_HOSTNAME")

	setString(&cfg.Remote.URL, "ATHLETELOG_REMOTE_URL")
	setString(&cfg.Remote.APIKey, "ATHLETELOG_REMOTE_API_KEY")

	setString(&cfg.Coach.APIKey, "ATHLETELOG_COACH_API_KEY")
	setString(&cfg.Coach.Model, "ATHLETELOG_COACH_MODEL")

	setString(&cfg.Local.StateDir, "ATHLETELOG_STATE_DIR")
}

// Validate checks the settings every binary relies on.
func (c *Config) Validate() error {
	if c.Local.StateDir == "" {
		return fmt.Errorf("local.state_dir is required")
	}
	if c.Remote.URL != "" && c.Remote.APIKey == "" {
		return fmt.Errorf("remote.api_key is required when remote.url is set")
	}
	if c.Remote.Timeout < 0 || c.Coach.Timeout < 0 {
		return fmt.Errorf("timeouts must not be negative")
	}
	if c.Remote.QueueSize < 0 {
		return fmt.Errorf("remote.queue_size must not be negative")
	}
	return nil
}

// ValidateServer checks the settings athleted needs on top of Validate.
func (c *Config) ValidateServer() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Server.Port == 0 && !c.Tailscale.Enabled {
		return fmt.Errorf("server.port is required")
	}
	if c.Database.Host == "" {
		return fmt.Errorf("database.host is required")
	}
	if c.Database.Port == 0 {
		return fmt.Errorf("database.port is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("database.name is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database.user is required")
	}
	if c.Auth.APIKey == "" {
		return fmt.Errorf("auth.api_key is required")
	}
	if c.Tailscale.Enabled && c.Tailscale.Hostname == "" {
		return fmt.Errorf("tailscale.hostname is required when tailscale is enabled")
	}
	return nil
}
