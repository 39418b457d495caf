package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("GOOGLE_MAPS_API_KEY", "")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.GinMode)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 10*time.Second, cfg.Directions.Timeout)
	assert.Equal(t, 5.0, cfg.Directions.RatePerSecond)
	assert.Equal(t, 64, cfg.Session.QueueSize)
	assert.False(t, cfg.Session.KeepDestinationPin)
	assert.True(t, cfg.Session.AutoAuthorize)
	assert.Equal(t, ":8080", cfg.GetServerAddr())
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("MAPDEMO_SERVER_PORT", "9090")
	t.Setenv("MAPDEMO_SESSION_KEEP_DESTINATION_PIN", "true")
	t.Setenv("MAPDEMO_DIRECTIONS_API_KEY", "")
	t.Setenv("GOOGLE_MAPS_API_KEY", "legacy-key")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.True(t, cfg.Session.KeepDestinationPin)
	assert.Equal(t, "legacy-key", cfg.Directions.APIKey)
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte(`
server:
  port: 7000
  gin_mode: debug
log:
  level: debug
  format: json
directions:
  api_key: file-key
  timeout: 3s
session:
  queue_size: 16
`)
	require.NoError(t, os.WriteFile(path, content, 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 7000, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.GinMode)
	assert.Equal(t, "file-key", cfg.Directions.APIKey)
	assert.Equal(t, 3*time.Second, cfg.Directions.Timeout)
	assert.Equal(t, 16, cfg.Session.QueueSize)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		Server:     ServerConfig{Port: 0, GinMode: "verbose"},
		Directions: DirectionsConfig{},
		Session:    SessionConfig{},
	}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.port")
	assert.Contains(t, err.Error(), "server.gin_mode")
	assert.Contains(t, err.Error(), "directions.base_url")
	assert.Contains(t, err.Error(), "directions.timeout")
	assert.Contains(t, err.Error(), "session.queue_size")
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := &Config{Log: LogConfig{Level: "warn", Format: "json"}}
	logger := cfg.NewLogger(&buf)

	logger.Info("hidden")
	logger.Warn("shown", "key", "value")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
	assert.Contains(t, out, `"key":"value"`)
}
