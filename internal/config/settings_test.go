package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSettings(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), SettingsFile)
	require.NoError(t, os.WriteFile(path, []byte(body), 0600))
	return path
}

func TestLoadSettings(t *testing.T) {
	t.Run("Should return defaults when no file exists", func(t *testing.T) {
		s, err := LoadSettings(filepath.Join(t.TempDir(), SettingsFile))
		require.NoError(t, err)
		assert.Equal(t, Default(), *s)
	})

	t.Run("Should overlay YAML values on defaults", func(t *testing.T) {
		path := writeSettings(t, `
api:
  timeout: 10s
cache:
  backend: redis
  redis_addr: localhost:6379
dates:
  timezone: Europe/Berlin
`)
		s, err := LoadSettings(path)
		require.NoError(t, err)
		assert.Equal(t, 10*time.Second, s.API.Timeout)
		assert.Equal(t, "https://api.clickup.com/api/", s.API.BaseURL)
		assert.Equal(t, "redis", s.Cache.Backend)
		assert.Equal(t, "localhost:6379", s.Cache.RedisAddr)
		assert.Equal(t, "Europe/Berlin", s.Dates.Timezone)
	})

	t.Run("Should let environment variables win over the file", func(t *testing.T) {
		path := writeSettings(t, "server:\n  addr: 0.0.0.0:9000\n")
		t.Setenv("CLICKFORM_SERVER_ADDR", "127.0.0.1:7000")
		t.Setenv("CLICKFORM_OAUTH_CLIENT_ID", "abc")

		s, err := LoadSettings(path)
		require.NoError(t, err)
		assert.Equal(t, "127.0.0.1:7000", s.Server.Addr)
		assert.Equal(t, "abc", s.OAuth.ClientID)
	})

	t.Run("Should reject a redis backend without an address", func(t *testing.T) {
		path := writeSettings(t, "cache:\n  backend: redis\n")
		_, err := LoadSettings(path)
		assert.ErrorContains(t, err, "invalid settings")
	})

	t.Run("Should reject an unknown timezone", func(t *testing.T) {
		path := writeSettings(t, "dates:\n  timezone: Mars/Olympus\n")
		_, err := LoadSettings(path)
		assert.ErrorContains(t, err, "dates.timezone")
	})
}

func TestConfigPaths(t *testing.T) {
	t.Run("Should honour XDG_CONFIG_HOME", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
		assert.Equal(t, filepath.Join("/tmp/xdg", AppName), DefaultConfigDir())
	})

	t.Run("Should place files in the config dir", func(t *testing.T) {
		cfg, err := New("/etc/cf")
		require.NoError(t, err)
		assert.Equal(t, "/etc/cf/token", cfg.TokenPath())
		assert.Equal(t, "/etc/cf/config.yaml", cfg.SettingsPath())
	})
}
