package config

import "github.com/neuralweb/neuralweb/internal/application/port"

// Settings adapts the manager to the shell's settings lookup.
type Settings struct {
	manager *Manager
}

var _ port.SettingsProvider = (*Settings)(nil)

// NewSettings wraps a manager as a settings provider.
func NewSettings(m *Manager) *Settings {
	return &Settings{manager: m}
}

// Get resolves a raw configuration value by dotted key.
func (s *Settings) Get(key string) any {
	if s.manager == nil {
		return nil
	}
	return s.manager.GetValue(key)
}
