package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"

	pkgerrors "notecanvas/pkg/errors"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "canvas.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_FileAndDefaults(t *testing.T) {
	path := writeConfigFile(t, `
vault:
  root: /notes
  directory_filter: projects
logging:
  level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/notes", cfg.Vault.Root)
	assert.Equal(t, "projects", cfg.Vault.DirectoryFilter)
	assert.Equal(t, zapcore.DebugLevel, cfg.Logging.ZapLevel())
	// Untouched sections keep their defaults.
	assert.Equal(t, 1280, cfg.Canvas.WindowWidth)
	assert.Equal(t, 1.0, cfg.Canvas.InitialZoom)
	assert.False(t, cfg.Debug.Enabled)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfigFile(t, "vault:\n  root: /from-file\n")
	t.Setenv("NOTECANVAS_VAULT_ROOT", "/from-env")
	t.Setenv("NOTECANVAS_DEBUG_ADDR", "127.0.0.1:7070")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/from-env", cfg.Vault.Root)
	assert.True(t, cfg.Debug.Enabled)
	assert.Equal(t, "127.0.0.1:7070", cfg.Debug.ListenAddr)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "missing vault root", content: "logging:\n  level: info\n"},
		{name: "zoom out of range", content: "vault:\n  root: /notes\ncanvas:\n  initial_zoom: 9\n"},
		{name: "unknown log level", content: "vault:\n  root: /notes\nlogging:\n  level: loud\n"},
		{name: "window too small", content: "vault:\n  root: /notes\ncanvas:\n  window_width: 10\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfigFile(t, tt.content))
			assert.True(t, pkgerrors.IsValidation(err))
		})
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	_, err := Load(writeConfigFile(t, "vault: [unclosed"))
	assert.True(t, pkgerrors.IsValidation(err))
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeIO))
}

func TestLive_ReloadsOnFileChange(t *testing.T) {
	path := writeConfigFile(t, "vault:\n  root: /notes\n")

	live, err := NewLive(path, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer live.Close()

	reloaded := make(chan Config, 1)
	live.OnChange(func(cfg Config) { reloaded <- cfg })

	require.NoError(t, os.WriteFile(path, []byte("vault:\n  root: /notes\n  directory_filter: projects\n"), 0o644))

	select {
	case cfg := <-reloaded:
		assert.Equal(t, "projects", cfg.Vault.DirectoryFilter)
		assert.Equal(t, "projects", live.Snapshot().Vault.DirectoryFilter)
	case <-time.After(3 * time.Second):
		t.Fatal("expected a reload notification")
	}
}

func TestLive_KeepsPreviousConfigOnBadReload(t *testing.T) {
	path := writeConfigFile(t, "vault:\n  root: /notes\n")

	live, err := NewLive(path, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer live.Close()

	require.NoError(t, os.WriteFile(path, []byte("vault: [broken"), 0o644))

	// The watcher never swaps in a config that failed validation.
	time.Sleep(600 * time.Millisecond)
	assert.Equal(t, "/notes", live.Snapshot().Vault.Root)
}
