package config

// Config is the root configuration structure.
type Config struct {
	Homepage string `mapstructure:"homepage" json:"homepage"`

	Window   WindowConfig   `mapstructure:"window" json:"window"`
	Surface  SurfaceConfig  `mapstructure:"surface" json:"surface"`
	Session  SessionConfig  `mapstructure:"session" json:"session"`
	History  HistoryConfig  `mapstructure:"history" json:"history"`
	Database DatabaseConfig `mapstructure:"database" json:"database"`
	Logging  LoggingConfig  `mapstructure:"logging" json:"logging"`
}

// WindowConfig controls host window geometry.
type WindowConfig struct {
	Width  int `mapstructure:"width" json:"width"`
	Height int `mapstructure:"height" json:"height"`
	// ChromeBandHeight is the vertical band reserved for the shell's own
	// chrome at the top of the window. Content surfaces are laid out below.
	ChromeBandHeight int `mapstructure:"chrome_band_height" json:"chrome_band_height"`
}

// SurfaceConfig sets the defaults for new rendering surfaces.
type SurfaceConfig struct {
	ScriptIsolation bool `mapstructure:"script_isolation" json:"script_isolation"`
	HardwareAccel   bool `mapstructure:"hardware_accel" json:"hardware_accel"`
	// LoadDelayMs tunes the headless engine's simulated load latency.
	LoadDelayMs int `mapstructure:"load_delay_ms" json:"load_delay_ms"`
}

// SessionConfig controls session persistence and restore.
type SessionConfig struct {
	AutoRestore        bool `mapstructure:"auto_restore" json:"auto_restore"`
	SnapshotIntervalMs int  `mapstructure:"snapshot_interval_ms" json:"snapshot_interval_ms"`
}

// HistoryConfig controls browsing history behavior.
type HistoryConfig struct {
	// RevisitWindowMs suppresses duplicate visit counting for reloads of the
	// same address within the window.
	RevisitWindowMs int `mapstructure:"revisit_window_ms" json:"revisit_window_ms"`
	TopSitesLimit   int `mapstructure:"top_sites_limit" json:"top_sites_limit"`
}

// DatabaseConfig holds database settings.
type DatabaseConfig struct {
	Path string `mapstructure:"path" json:"path"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level" json:"level"`
	Format string `mapstructure:"format" json:"format"`
}

// DefaultConfig returns the configuration defaults.
func DefaultConfig() *Config {
	return &Config{
		Homepage: "neuralweb://home",
		Window: WindowConfig{
			Width:            1280,
			Height:           800,
			ChromeBandHeight: 48,
		},
		Surface: SurfaceConfig{
			ScriptIsolation: true,
			HardwareAccel:   true,
			LoadDelayMs:     10,
		},
		Session: SessionConfig{
			AutoRestore:        true,
			SnapshotIntervalMs: 2000,
		},
		History: HistoryConfig{
			RevisitWindowMs: 2000,
			TopSitesLimit:   10,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "auto",
		},
	}
}
