package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, realpath, err := LoadConfig(writeConfig(t, "server:\n  http-port: \":9100\"\n"))
	require.NoError(t, err)

	assert.True(t, filepath.IsAbs(realpath))
	assert.Equal(t, realpath, cfg.File)
	assert.Equal(t, ":9100", cfg.Server.HttpPort)
	assert.Equal(t, "release", cfg.Server.RunMode)
	assert.Equal(t, "fast_note_session", cfg.Session.CookieName)
	assert.Equal(t, 10, cfg.App.PageSize)
	assert.Equal(t, 2*time.Hour, cfg.GetSessionIdleTimeout())
	assert.Equal(t, 7*24*time.Hour, cfg.GetTokenExpiry())
	assert.Equal(t, int64(10<<20), cfg.GetUploadMaxSize())
	assert.Equal(t, 60*time.Second, cfg.GetContextTimeout())
}

func TestLoadConfig_EmptyValuesGetDefaults(t *testing.T) {
	cfg, _, err := LoadConfig(writeConfig(t, "session:\n  cookie-name: \"\"\napp:\n  page-size: 25\n"))
	require.NoError(t, err)
	assert.Equal(t, "fast_note_session", cfg.Session.CookieName)
	assert.Equal(t, 25, cfg.App.PageSize)
}

func TestLoadConfig_Errors(t *testing.T) {
	_, _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, _, err = LoadConfig(writeConfig(t, "server: [unclosed"))
	assert.Error(t, err)
}

func TestAppConfig_Getters(t *testing.T) {
	cfg, _, err := LoadConfig(writeConfig(t, `
session:
  idle-timeout: 30m
  queue-capacity: 8
  event-timeout: 5s
security:
  token-expiry: 12h
app:
  upload-max-size: 512KB
  worker-pool-max-workers: 3
  worker-pool-queue-size: 9
`))
	require.NoError(t, err)

	assert.Equal(t, 30*time.Minute, cfg.GetSessionIdleTimeout())
	assert.Equal(t, 12*time.Hour, cfg.GetTokenExpiry())
	assert.Equal(t, int64(512<<10), cfg.GetUploadMaxSize())

	wp := cfg.GetWorkerPoolConfig()
	assert.Equal(t, 3, wp.MaxWorkers)
	assert.Equal(t, 9, wp.QueueSize)

	q := cfg.GetEventQueueConfig()
	assert.Equal(t, 8, q.QueueCapacity)
	assert.Equal(t, 5*time.Second, q.Timeout)
	assert.Equal(t, 30*time.Minute, q.IdleTimeout)

	lc := cfg.GetLoggerConfig()
	assert.Equal(t, cfg.Log.Level, lc.Level)
}

func TestAppConfig_Save(t *testing.T) {
	cfg, path, err := LoadConfig(writeConfig(t, "app:\n  page-size: 15\n"))
	require.NoError(t, err)

	cfg.App.PageSize = 40
	require.NoError(t, cfg.Save())

	reloaded, _, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 40, reloaded.App.PageSize)
}
