package port

import (
	"context"

	"github.com/neuralweb/neuralweb/internal/domain/entity"
)

// SessionSink receives window snapshots for durability. Implementations may
// debounce; the caller guarantees snapshots arrive in generation order, so a
// sink can simply keep the latest.
type SessionSink interface {
	UpdateWindow(ctx context.Context, state *entity.SessionState) error
}

// SettingsProvider resolves shell settings by key. It is only consulted for
// the default rendering-surface configuration.
type SettingsProvider interface {
	Get(key string) any
}
