// Package config handles notifeed configuration loading and validation.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Config is the root configuration structure for notifeed.
type Config struct {
	// Server settings for the feed daemon.
	Server ServerConfig `yaml:"server" mapstructure:"server"`

	// Database settings
	Database DatabaseConfig `yaml:"database" mapstructure:"database"`

	// Logging settings
	Logging LoggingConfig `yaml:"logging" mapstructure:"logging"`

	// Client settings for the CLI and TUI.
	Client ClientConfig `yaml:"client" mapstructure:"client"`
}

// ServerConfig contains feed daemon settings.
type ServerConfig struct {
	// Addr is the listen address (default: 127.0.0.1:8473).
	Addr string `yaml:"addr" mapstructure:"addr"`

	// PageSize is the fixed feed page size (default: 20).
	PageSize int `yaml:"page_size" mapstructure:"page_size"`

	// CSRFTokenTTL is how long an issued anti-forgery token stays valid.
	CSRFTokenTTL time.Duration `yaml:"csrf_token_ttl" mapstructure:"csrf_token_ttl"`
}

// DatabaseConfig contains database settings.
type DatabaseConfig struct {
	// Path is the SQLite database file path.
	Path string `yaml:"path" mapstructure:"path"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	// Level is the minimum log level (debug, info, warn, error).
	Level string `yaml:"level" mapstructure:"level"`

	// Format is the output format (json, console).
	Format string `yaml:"format" mapstructure:"format"`
}

// ClientConfig contains settings for clients of the feed daemon.
type ClientConfig struct {
	// BaseURL is the feed daemon's base URL.
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`

	// Timeout bounds each request to the daemon.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// UserID identifies the feed owner. Auth is an external concern; the
	// daemon trusts this id.
	UserID int64 `yaml:"user_id" mapstructure:"user_id"`
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()
	dataDir := filepath.Join(homeDir, ".local", "share", "notifeed")

	return &Config{
		Server: ServerConfig{
			Addr:         "127.0.0.1:8473",
			PageSize:     20,
			CSRFTokenTTL: 30 * time.Minute,
		},
		Database: DatabaseConfig{
			Path: filepath.Join(dataDir, "notifeed.db"),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Client: ClientConfig{
			BaseURL: "http://127.0.0.1:8473",
			Timeout: 10 * time.Second,
			UserID:  1,
		},
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if c.Server.PageSize <= 0 {
		return fmt.Errorf("server.page_size must be positive, got %d", c.Server.PageSize)
	}
	if c.Server.CSRFTokenTTL <= 0 {
		return fmt.Errorf("server.csrf_token_ttl must be positive")
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	switch c.Logging.Level {
	case "trace", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level %q is not valid", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format %q is not valid", c.Logging.Format)
	}
	if c.Client.BaseURL == "" {
		return fmt.Errorf("client.base_url is required")
	}
	if c.Client.UserID <= 0 {
		return fmt.Errorf("client.user_id must be positive")
	}
	return nil
}

// EnsureDirectories creates the directory holding the database file.
func (c *Config) EnsureDirectories() error {
	dir := filepath.Dir(c.Database.Path)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	return nil
}
