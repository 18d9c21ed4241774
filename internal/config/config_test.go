package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty addr", func(c *Config) { c.Server.Addr = "" }},
		{"zero page size", func(c *Config) { c.Server.PageSize = 0 }},
		{"zero token ttl", func(c *Config) { c.Server.CSRFTokenTTL = 0 }},
		{"empty db path", func(c *Config) { c.Database.Path = "" }},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }},
		{"empty base url", func(c *Config) { c.Client.BaseURL = "" }},
		{"zero user id", func(c *Config) { c.Client.UserID = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			require.Error(t, cfg.Validate())
		})
	}
}

func TestLoaderDefaults(t *testing.T) {
	l := NewLoader()
	cfg, err := l.Load()
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:8473", cfg.Server.Addr)
	require.Equal(t, 20, cfg.Server.PageSize)
	require.Equal(t, 30*time.Minute, cfg.Server.CSRFTokenTTL)
	require.Equal(t, int64(1), cfg.Client.UserID)
}

func TestLoaderReadsConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  addr: "0.0.0.0:9000"
  page_size: 50
client:
  user_id: 42
`), 0o644))

	l := NewLoader()
	l.SetConfigFile(path)
	cfg, err := l.Load()
	require.NoError(t, err)
	require.Equal(t, "0.0.0.0:9000", cfg.Server.Addr)
	require.Equal(t, 50, cfg.Server.PageSize)
	require.Equal(t, int64(42), cfg.Client.UserID)
	// Untouched keys keep their defaults.
	require.Equal(t, "info", cfg.Logging.Level)
}

func TestLoaderMissingExplicitFileFails(t *testing.T) {
	l := NewLoader()
	l.SetConfigFile(filepath.Join(t.TempDir(), "nope.yaml"))
	_, err := l.Load()
	require.Error(t, err)
}

func TestLoaderEnvOverride(t *testing.T) {
	t.Setenv("NOTIFEED_LOGGING_LEVEL", "debug")

	l := NewLoader()
	cfg, err := l.Load()
	require.NoError(t, err)
	require.Equal(t, "debug", cfg.Logging.Level)
}

func TestExpandTilde(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	require.Equal(t, filepath.Join(home, "x.db"), expandTilde("~/x.db"))
	require.Equal(t, home, expandTilde("~"))
	require.Equal(t, "/abs/x.db", expandTilde("/abs/x.db"))
	require.Equal(t, "", expandTilde(""))
}
