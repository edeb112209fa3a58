package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/viper"
)

// Store backends
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Config holds application configuration.
type Config struct {
	Store  StoreConfig
	Server ServerConfig
	Log    LogConfig
}

// StoreConfig selects where version history is kept.
type StoreConfig struct {
	// Backend is one of memory, file, sqlite
	Backend string

	// Path is the history file or database. Empty means the default under Paths.Data.
	Path string
}

// ServerConfig holds HTTP settings.
type ServerConfig struct {
	Addr string

	// RateLimit is the sustained requests per second allowed per client IP.
	// Zero disables limiting.
	RateLimit float64 `mapstructure:"rate_limit"`
	Burst     int
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string
	Format string
}

// Load reads configuration from paths.Config (if present) and the environment.
// Env var overrides use prefix UIFORGE_, e.g. UIFORGE_STORE_BACKEND.
func Load(paths *Paths) (*Config, error) {
	v := viper.New()

	v.SetDefault("store.backend", BackendFile)
	v.SetDefault("store.path", "")
	v.SetDefault("server.addr", ":3001")
	v.SetDefault("server.rate_limit", 10.0)
	v.SetDefault("server.burst", 20)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetConfigFile(paths.Config)
	v.SetConfigType("yaml")

	v.SetEnvPrefix("UIFORGE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil && !isNotExist(err) {
		return nil, fmt.Errorf("read config %s: %w", paths.Config, err)
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	c.ResolveStorePath(paths)
	return &c, nil
}

// ResolveStorePath fills an empty Store.Path with the backend's default
// location under paths.
func (c *Config) ResolveStorePath(paths *Paths) {
	if c.Store.Path != "" {
		return
	}
	switch c.Store.Backend {
	case BackendFile:
		c.Store.Path = paths.HistoryFile()
	case BackendSQLite:
		c.Store.Path = paths.Database()
	}
}

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendMemory, BackendFile, BackendSQLite:
	default:
		return fmt.Errorf("invalid store.backend %q: want memory, file or sqlite", c.Store.Backend)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log.format %q: want text or json", c.Log.Format)
	}
	if c.Server.RateLimit < 0 || c.Server.Burst < 0 {
		return fmt.Errorf("server.rate_limit and server.burst must not be negative")
	}
	if c.Server.RateLimit > 0 && c.Server.Burst < 1 {
		return fmt.Errorf("server.burst must be at least 1 when server.rate_limit is set")
	}
	return nil
}

// isNotExist reports whether err means there is no config file to read.
func isNotExist(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
}
