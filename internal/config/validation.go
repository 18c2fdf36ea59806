package config

import (
	"fmt"
	"strings"
)

// validateConfig rejects values the shell cannot run with.
func validateConfig(config *Config) error {
	if config.Window.Width <= 0 || config.Window.Height <= 0 {
		return fmt.Errorf("window dimensions must be positive, got %dx%d",
			config.Window.Width, config.Window.Height)
	}
	if config.Window.ChromeBandHeight < 0 {
		return fmt.Errorf("chrome band height cannot be negative, got %d",
			config.Window.ChromeBandHeight)
	}
	if config.Window.ChromeBandHeight >= config.Window.Height {
		return fmt.Errorf("chrome band height %d leaves no room for content in a window of height %d",
			config.Window.ChromeBandHeight, config.Window.Height)
	}
	if config.Session.SnapshotIntervalMs < 0 {
		return fmt.Errorf("snapshot interval cannot be negative, got %d",
			config.Session.SnapshotIntervalMs)
	}
	if config.History.RevisitWindowMs < 0 {
		return fmt.Errorf("revisit window cannot be negative, got %d",
			config.History.RevisitWindowMs)
	}
	if config.Surface.LoadDelayMs < 0 {
		return fmt.Errorf("surface load delay cannot be negative, got %d",
			config.Surface.LoadDelayMs)
	}
	if strings.TrimSpace(config.Homepage) == "" {
		return fmt.Errorf("homepage cannot be empty")
	}
	return nil
}
