package model

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// APIConfig describes how to reach the backend.
type APIConfig struct {
	// BaseURL is the root URL of the backend (e.g., http://localhost:8080).
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`

	// TimeoutSec is the wall-clock limit for a single request.
	TimeoutSec int `mapstructure:"timeout_sec" yaml:"timeout_sec"`
}

// AuthConfig holds settings for the social login handshake.
type AuthConfig struct {
	// Origin is the only origin whose login messages are accepted.
	// Empty means the origin of api.base_url.
	Origin string `mapstructure:"origin" yaml:"origin"`

	// CallbackAddr is the loopback address the login callback listens on.
	CallbackAddr string `mapstructure:"callback_addr" yaml:"callback_addr"`

	PollIntervalMs  int `mapstructure:"poll_interval_ms" yaml:"poll_interval_ms"`
	LoginTimeoutSec int `mapstructure:"login_timeout_sec" yaml:"login_timeout_sec"`
	RedirectDelayMs int `mapstructure:"redirect_delay_ms" yaml:"redirect_delay_ms"`
}

// SessionConfig selects where tokens and the cached profile are persisted.
type SessionConfig struct {
	// Backend is one of "keyring", "sqlite", or "memory".
	Backend string `mapstructure:"backend" yaml:"backend"`

	// Path is the database file used by the sqlite backend.
	Path string `mapstructure:"path" yaml:"path"`
}

// StoreConfig tunes the application store.
type StoreConfig struct {
	CompletedWindowDays int `mapstructure:"completed_window_days" yaml:"completed_window_days"`
	Fanout              int `mapstructure:"fanout" yaml:"fanout"`
}

// DisplayConfig holds CLI rendering preferences.
type DisplayConfig struct {
	Theme           string `mapstructure:"theme" yaml:"theme"`
	PollIntervalSec int    `mapstructure:"poll_interval_sec" yaml:"poll_interval_sec"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	API     APIConfig     `mapstructure:"api" yaml:"api"`
	Auth    AuthConfig    `mapstructure:"auth" yaml:"auth"`
	Session SessionConfig `mapstructure:"session" yaml:"session"`
	Store   StoreConfig   `mapstructure:"store" yaml:"store"`
	Display DisplayConfig `mapstructure:"display" yaml:"display"`
}

// ConfigDir returns ~/.config/planner, falling back to the working
// directory when the home directory is unknown.
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "planner")
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/planner/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

var configDefaults = map[string]any{
	"api.base_url":                "http://localhost:8080",
	"api.timeout_sec":             10,
	"auth.origin":                 "",
	"auth.callback_addr":          "127.0.0.1:8765",
	"auth.poll_interval_ms":       1000,
	"auth.login_timeout_sec":      300,
	"auth.redirect_delay_ms":      100,
	"session.backend":             "keyring",
	"session.path":                "",
	"store.completed_window_days": 14,
	"store.fanout":                4,
	"display.theme":               "default",
	"display.poll_interval_sec":   120,
}

// DefaultAppConfig returns the configuration used when no file exists.
func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		API: APIConfig{
			BaseURL:    "http://localhost:8080",
			TimeoutSec: 10,
		},
		Auth: AuthConfig{
			CallbackAddr:    "127.0.0.1:8765",
			PollIntervalMs:  1000,
			LoginTimeoutSec: 300,
			RedirectDelayMs: 100,
		},
		Session: SessionConfig{
			Backend: "keyring",
			Path:    filepath.Join(ConfigDir(), "session.db"),
		},
		Store: StoreConfig{
			CompletedWindowDays: 14,
			Fanout:              4,
		},
		Display: DisplayConfig{
			Theme:           "default",
			PollIntervalSec: 120,
		},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// PLANNER_* environment variables override file values (for example
// PLANNER_API_BASE_URL). If the file does not exist, defaults plus
// environment overrides are returned.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("planner")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, value := range configDefaults {
		v.SetDefault(key, value)
	}

	if err := v.ReadInConfig(); err != nil {
		_, isPathErr := err.(*os.PathError)
		_, isNotFound := err.(viper.ConfigFileNotFoundError)
		if !isPathErr && !isNotFound {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := DefaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// applyDefaults fills values that are zero after unmarshaling.
func (c *AppConfig) applyDefaults() {
	if c.Session.Path == "" {
		c.Session.Path = filepath.Join(ConfigDir(), "session.db")
	}
	if c.API.TimeoutSec <= 0 {
		c.API.TimeoutSec = 10
	}
	if c.Auth.PollIntervalMs <= 0 {
		c.Auth.PollIntervalMs = 1000
	}
	if c.Store.CompletedWindowDays <= 0 {
		c.Store.CompletedWindowDays = 14
	}
	if c.Store.Fanout <= 0 {
		c.Store.Fanout = 1
	}
	c.API.BaseURL = strings.TrimRight(c.API.BaseURL, "/")
}

// Validate checks values that would otherwise fail late.
func (c *AppConfig) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("api.base_url %q is not an absolute URL", c.API.BaseURL)
	}
	switch c.Session.Backend {
	case "keyring", "sqlite", "memory":
	default:
		return fmt.Errorf("session.backend %q: want keyring, sqlite, or memory", c.Session.Backend)
	}
	return nil
}

// ExpectedOrigin returns the origin login messages must come from.
func (c *AppConfig) ExpectedOrigin() string {
	if c.Auth.Origin != "" {
		return strings.TrimRight(c.Auth.Origin, "/")
	}
	u, err := url.Parse(c.API.BaseURL)
	if err != nil {
		return ""
	}
	return u.Scheme + "://" + u.Host
}

// Timeout returns the request timeout as a duration.
func (c *AppConfig) Timeout() time.Duration {
	return time.Duration(c.API.TimeoutSec) * time.Second
}

// LoginTimeout returns how long a login attempt may wait for its message.
func (c *AppConfig) LoginTimeout() time.Duration {
	if c.Auth.LoginTimeoutSec <= 0 {
		return 300 * time.Second
	}
	return time.Duration(c.Auth.LoginTimeoutSec) * time.Second
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("api", cfg.API)
	v.Set("auth", cfg.Auth)
	v.Set("session", cfg.Session)
	v.Set("store", cfg.Store)
	v.Set("display", cfg.Display)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
