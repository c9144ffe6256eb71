// Package config loads stream-search settings from a TOML file and the
// environment.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Sternrassler/twitch-stream-search/pkg/logging"
	"github.com/Sternrassler/twitch-stream-search/pkg/pagination"
	"github.com/Sternrassler/twitch-stream-search/pkg/twitch"
	"github.com/pelletier/go-toml/v2"
)

//go:embed config.toml.sample
var configTemplate string

// Environment variables that override file settings.
const (
	EnvClientID    = "TWITCH_CLIENT_ID"
	EnvBaseURL     = "TWITCH_BASE_URL"
	EnvRedisURL    = "REDIS_URL"
	EnvLogLevel    = "LOG_LEVEL"
	EnvMetricsAddr = "METRICS_ADDR"
	EnvPageSize    = "PAGE_SIZE"
)

// ErrMissingClientID is returned by Validate when no client id is set.
var ErrMissingClientID = errors.New("twitch client_id is required (set it in the config file or " + EnvClientID + ")")

type Config struct {
	Twitch  TwitchConfig  `toml:"twitch"`
	Search  SearchConfig  `toml:"search"`
	Redis   RedisConfig   `toml:"redis"`
	Log     LogConfig     `toml:"log"`
	Metrics MetricsConfig `toml:"metrics"`
}

type TwitchConfig struct {
	ClientID  string   `toml:"client_id"`
	BaseURL   string   `toml:"base_url"`
	UserAgent string   `toml:"user_agent"`
	Timeout   Duration `toml:"timeout"`
}

type SearchConfig struct {
	PageSize     int      `toml:"page_size"`
	FetchTimeout Duration `toml:"fetch_timeout"`
}

// RedisConfig enables shared rate limit tracking when URL is set.
type RedisConfig struct {
	URL           string   `toml:"url"`
	ThrottleDelay Duration `toml:"throttle_delay"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Pretty bool   `toml:"pretty"`
	// File receives logs while the terminal UI owns stdout/stderr.
	File string `toml:"file"`
}

// MetricsConfig enables the Prometheus endpoint when Addr is set.
type MetricsConfig struct {
	Addr string `toml:"addr"`
}

type Duration struct {
	time.Duration
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Twitch: TwitchConfig{
			BaseURL:   twitch.DefaultBaseURL,
			UserAgent: "twitch-stream-search/0.1.0",
			Timeout:   Duration{10 * time.Second},
		},
		Search: SearchConfig{
			PageSize:     pagination.DefaultPageSize,
			FetchTimeout: Duration{15 * time.Second},
		},
		Redis: RedisConfig{
			ThrottleDelay: Duration{time.Second},
		},
		Log: LogConfig{
			Level: string(logging.LevelInfo),
		},
	}
}

// DefaultPath returns the per-user config file location.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("getting user config directory: %w", err)
	}
	return filepath.Join(dir, "stream-search", "config.toml"), nil
}

// Load reads path, applies environment overrides and validates the result.
// A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg, err := LoadFile(path)
	if err != nil {
		return nil, err
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile reads path without consulting the environment. Unset fields keep
// their defaults.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return cfg, nil
}

// ApplyEnv overrides settings from the environment. lookup is usually
// os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvClientID); ok {
		c.Twitch.ClientID = v
	}
	if v, ok := lookup(EnvBaseURL); ok {
		c.Twitch.BaseURL = v
	}
	if v, ok := lookup(EnvRedisURL); ok {
		c.Redis.URL = v
	}
	if v, ok := lookup(EnvLogLevel); ok {
		c.Log.Level = v
	}
	if v, ok := lookup(EnvMetricsAddr); ok {
		c.Metrics.Addr = v
	}
	if v, ok := lookup(EnvPageSize); ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("parsing %s: %w", EnvPageSize, err)
		}
		c.Search.PageSize = n
	}
	return nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Twitch.ClientID) == "" {
		return ErrMissingClientID
	}

	u, err := url.Parse(c.Twitch.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("twitch base_url must be an absolute URL (got %q)", c.Twitch.BaseURL)
	}

	if c.Search.PageSize < 1 || c.Search.PageSize > 100 {
		return fmt.Errorf("search page_size must be between 1 and 100 (got %d)", c.Search.PageSize)
	}

	if c.Twitch.Timeout.Duration < 0 || c.Search.FetchTimeout.Duration < 0 || c.Redis.ThrottleDelay.Duration < 0 {
		return errors.New("durations must not be negative")
	}

	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log level: %w", err)
	}

	return nil
}

// TwitchClientConfig converts the settings into a twitch client config.
// The rate limiter is attached by the caller.
func (c *Config) TwitchClientConfig() twitch.Config {
	cfg := twitch.DefaultConfig(c.Twitch.ClientID)
	cfg.BaseURL = c.Twitch.BaseURL
	if c.Twitch.UserAgent != "" {
		cfg.UserAgent = c.Twitch.UserAgent
	}
	if c.Twitch.Timeout.Duration > 0 {
		cfg.Timeout = c.Twitch.Timeout.Duration
	}
	return cfg
}

// PaginationConfig converts the settings into a controller config.
func (c *Config) PaginationConfig() pagination.Config {
	return pagination.Config{
		PageSize: c.Search.PageSize,
		Timeout:  c.Search.FetchTimeout.Duration,
	}
}

// LoggingConfig converts the settings into a logging config. The output
// writer is chosen by the caller.
func (c *Config) LoggingConfig() logging.Config {
	cfg := logging.DefaultConfig()
	if level, err := logging.ParseLevel(c.Log.Level); err == nil {
		cfg.Level = level
	}
	cfg.Pretty = c.Log.Pretty
	return cfg
}

// Save writes the configuration to path, creating parent directories.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	return os.WriteFile(path, data, 0600)
}

// WriteTemplate writes the commented sample configuration to path. An
// existing file is left alone.
func WriteTemplate(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists: %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	return os.WriteFile(path, []byte(configTemplate), 0600)
}
