package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App    AppConfig
	HTTP   HTTPConfig
	Log    LogConfig
	Remote RemoteConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	IdleTimeout      time.Duration
	MaxHeaderBytes   int
	CORSAllowOrigins []string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// RemoteStrategy selects how the base URL of the legacy client service
// is formed. Exactly one strategy is active, chosen at process start.
type RemoteStrategy string

const (
	// RemoteStrategyDirect talks to the service origin directly
	RemoteStrategyDirect RemoteStrategy = "direct"
	// RemoteStrategyProxy goes through a path-prefixed reverse proxy
	RemoteStrategyProxy RemoteStrategy = "proxy"
)

// RemoteConfig holds settings for the legacy client service gateway
type RemoteConfig struct {
	Strategy     RemoteStrategy
	Origin       string // service (or proxy) origin
	ProxyPrefix  string // path prefix prepended under the proxy strategy
	Timeout      time.Duration
	RetryMax     int // transport-level retries only, never on HTTP status
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
}

// BaseURL resolves the active base URL for remote requests
func (r RemoteConfig) BaseURL() string {
	if r.Strategy == RemoteStrategyProxy {
		return strings.TrimSuffix(r.Origin, "/") + r.ProxyPrefix
	}
	return r.Origin
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with ATELIER_ prefix (e.g., ATELIER_REMOTE_ORIGIN)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix("ATELIER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:      v.GetDuration("http.read_timeout"),
			WriteTimeout:     v.GetDuration("http.write_timeout"),
			IdleTimeout:      v.GetDuration("http.idle_timeout"),
			MaxHeaderBytes:   v.GetInt("http.max_header_bytes"),
			CORSAllowOrigins: v.GetStringSlice("http.cors_allow_origins"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		Remote: RemoteConfig{
			Strategy:     RemoteStrategy(v.GetString("remote.strategy")),
			Origin:       v.GetString("remote.origin"),
			ProxyPrefix:  v.GetString("remote.proxy_prefix"),
			Timeout:      v.GetDuration("remote.timeout"),
			RetryMax:     v.GetInt("remote.retry_max"),
			RetryWaitMin: v.GetDuration("remote.retry_wait_min"),
			RetryWaitMax: v.GetDuration("remote.retry_wait_max"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "atelier-backend"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "3000"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 15 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.Remote.Strategy == "" {
		cfg.Remote.Strategy = RemoteStrategyDirect
	}
	if cfg.Remote.Origin == "" {
		cfg.Remote.Origin = "http://localhost:8080"
	}
	if cfg.Remote.ProxyPrefix == "" {
		cfg.Remote.ProxyPrefix = "/api"
	}
	if cfg.Remote.Timeout == 0 {
		cfg.Remote.Timeout = 10 * time.Second
	}
	if cfg.Remote.RetryMax == 0 {
		cfg.Remote.RetryMax = 2
	}
	if cfg.Remote.RetryWaitMin == 0 {
		cfg.Remote.RetryWaitMin = 1 * time.Second
	}
	if cfg.Remote.RetryWaitMax == 0 {
		cfg.Remote.RetryWaitMax = 5 * time.Second
	}
}

// validate checks the configuration for invalid combinations
func (c *Config) validate() error {
	u, err := url.Parse(c.Remote.Origin)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("remote.origin must be an absolute URL, got %q", c.Remote.Origin)
	}

	switch c.Remote.Strategy {
	case RemoteStrategyDirect:
	case RemoteStrategyProxy:
		if !strings.HasPrefix(c.Remote.ProxyPrefix, "/") {
			return fmt.Errorf("remote.proxy_prefix must start with '/', got %q", c.Remote.ProxyPrefix)
		}
	default:
		return fmt.Errorf("remote.strategy must be 'direct' or 'proxy', got %q", c.Remote.Strategy)
	}

	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("log.format must be 'json' or 'console', got %q", c.Log.Format)
	}

	return nil
}
