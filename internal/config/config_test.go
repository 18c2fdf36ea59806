package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 1280, cfg.Window.Width)
	assert.Equal(t, 800, cfg.Window.Height)
	assert.Equal(t, 48, cfg.Window.ChromeBandHeight)
	assert.True(t, cfg.Surface.ScriptIsolation)
	assert.True(t, cfg.Session.AutoRestore)
	assert.Equal(t, 2000, cfg.Session.SnapshotIntervalMs)
	assert.Equal(t, "info", cfg.Logging.Level)

	assert.NoError(t, validateConfig(cfg), "defaults must validate")
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "zero width",
			mutate:  func(c *Config) { c.Window.Width = 0 },
			wantErr: "window dimensions",
		},
		{
			name:    "negative chrome band",
			mutate:  func(c *Config) { c.Window.ChromeBandHeight = -1 },
			wantErr: "chrome band",
		},
		{
			name:    "chrome band fills the window",
			mutate:  func(c *Config) { c.Window.ChromeBandHeight = c.Window.Height },
			wantErr: "no room for content",
		},
		{
			name:    "negative snapshot interval",
			mutate:  func(c *Config) { c.Session.SnapshotIntervalMs = -5 },
			wantErr: "snapshot interval",
		},
		{
			name:    "negative revisit window",
			mutate:  func(c *Config) { c.History.RevisitWindowMs = -1 },
			wantErr: "revisit window",
		},
		{
			name:    "negative load delay",
			mutate:  func(c *Config) { c.Surface.LoadDelayMs = -1 },
			wantErr: "load delay",
		},
		{
			name:    "blank homepage",
			mutate:  func(c *Config) { c.Homepage = "   " },
			wantErr: "homepage",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := validateConfig(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNormalizeConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Logging.Level = "WARN"
	cfg.Logging.Format = "nonsense"
	cfg.Homepage = "  "

	normalizeConfig(cfg)

	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "auto", cfg.Logging.Format)
	assert.Equal(t, DefaultConfig().Homepage, cfg.Homepage)

	cfg.Logging.Level = "verbose"
	normalizeConfig(cfg)
	assert.Equal(t, "info", cfg.Logging.Level, "unknown levels fall back to info")
}

func TestGetXDGDirs_DevMode(t *testing.T) {
	t.Setenv("ENV", "dev")

	dirs, err := GetXDGDirs()
	require.NoError(t, err)

	cwd, err := filepath.Abs(".")
	require.NoError(t, err)
	expected := filepath.Join(cwd, ".dev", appName)
	assert.Equal(t, expected, dirs.ConfigHome)
	assert.Equal(t, expected, dirs.DataHome)
}

func TestGetXDGDirs_RespectsEnvOverrides(t *testing.T) {
	t.Setenv("ENV", "")
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-config")
	t.Setenv("XDG_DATA_HOME", "/tmp/xdg-data")
	t.Setenv("XDG_STATE_HOME", "/tmp/xdg-state")

	dirs, err := GetXDGDirs()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join("/tmp/xdg-config", appName), dirs.ConfigHome)
	assert.Equal(t, filepath.Join("/tmp/xdg-data", appName), dirs.DataHome)
	assert.Equal(t, filepath.Join("/tmp/xdg-state", appName), dirs.StateHome)
}

func TestEnsureDatabasePath_KeepsExplicitPath(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Database.Path = "/custom/place/db.sqlite"

	require.NoError(t, ensureDatabasePath(cfg))
	assert.Equal(t, "/custom/place/db.sqlite", cfg.Database.Path)
}

func TestEnsureDatabasePath_DefaultsToDataDir(t *testing.T) {
	t.Setenv("ENV", "")
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	cfg := DefaultConfig()
	cfg.Database.Path = ""

	require.NoError(t, ensureDatabasePath(cfg))
	assert.Equal(t, databaseName, filepath.Base(cfg.Database.Path))
	assert.Contains(t, cfg.Database.Path, appName)
}
