package config

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/codalotl/locpick/internal/locationapi"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdirTemp runs the test from an empty directory with an empty HOME so no stray locpick.yaml is picked up.
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, locationapi.DefaultBaseURL, cfg.API.BaseURL)
	assert.Equal(t, time.Duration(0), cfg.API.Timeout)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, "", cfg.Log.File)
	assert.False(t, cfg.UI.DiscardStale)
	assert.Equal(t, 10, cfg.UI.MaxRows)
	assert.Equal(t, "auto", cfg.UI.Palette)
	assert.Equal(t, ":8080", cfg.Serve.Addr)
	assert.Equal(t, "release", cfg.Serve.GinMode)
}

func TestLoadPrecedence(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "locpick.yaml"), []byte(`
api:
  baseurl: http://file.example
  timeout: 3s
ui:
  maxrows: 5
  palette: plain
log:
  level: debug
`), 0o600))

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "http://file.example", cfg.API.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.API.Timeout)
	assert.Equal(t, 5, cfg.UI.MaxRows)
	assert.Equal(t, "plain", cfg.UI.Palette)
	assert.Equal(t, "debug", cfg.Log.Level)

	t.Setenv("LOCPICK_API_BASEURL", "http://env.example")
	t.Setenv("LOCPICK_UI_DISCARDSTALE", "true")
	cfg, err = Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "http://env.example", cfg.API.BaseURL)
	assert.True(t, cfg.UI.DiscardStale)

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("api-url", "", "")
	fs.Duration("timeout", 0, "")
	require.NoError(t, fs.Parse([]string{"--api-url", "http://flag.example"}))
	cfg, err = Load("", fs)
	require.NoError(t, err)
	assert.Equal(t, "http://flag.example", cfg.API.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.API.Timeout, "unset flag must not override the file")
}

func TestLoadExplicitFile(t *testing.T) {
	dir := chdirTemp(t)
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("serve:\n  addr: 127.0.0.1:9999\n"), 0o600))

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9999", cfg.Serve.Addr)

	_, err = Load(filepath.Join(dir, "missing.yaml"), nil)
	assert.Error(t, err)
}

func TestLoadRejectsInvalid(t *testing.T) {
	chdirTemp(t)

	tests := []struct {
		env  string
		val  string
		want string
	}{
		{"LOCPICK_API_BASEURL", "not a url", "api.baseurl"},
		{"LOCPICK_API_BASEURL", "ftp://x", "api.baseurl"},
		{"LOCPICK_UI_MAXROWS", "0", "ui.maxrows"},
		{"LOCPICK_API_TIMEOUT", "-1s", "api.timeout"},
		{"LOCPICK_LOG_FORMAT", "xml", "log.format"},
	}
	for _, tt := range tests {
		t.Run(tt.env+"="+tt.val, func(t *testing.T) {
			t.Setenv(tt.env, tt.val)
			_, err := Load("", nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestWriteJSON(t *testing.T) {
	chdirTemp(t)
	cfg, err := Load("", nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, cfg.WriteJSON(&buf))

	var decoded map[string]map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, locationapi.DefaultBaseURL, decoded["api"]["baseurl"])
	assert.EqualValues(t, 10, decoded["ui"]["maxrows"])
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := LogConfig{Level: "warn", Format: "json"}.NewLogger(&buf)
	logger.Info("hidden")
	logger.Warn("shown", "k", 1)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)

	assert.Equal(t, slog.LevelDebug, LogConfig{Level: "DEBUG"}.SlogLevel())
	assert.Equal(t, slog.LevelInfo, LogConfig{Level: "bogus"}.SlogLevel())
}
