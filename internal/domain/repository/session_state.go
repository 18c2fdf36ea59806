package repository

import (
	"context"

	"github.com/neuralweb/neuralweb/internal/domain/entity"
)

// SessionStateRepository stores window snapshots for session restore.
type SessionStateRepository interface {
	// SaveSnapshot saves or replaces the snapshot for a window.
	SaveSnapshot(ctx context.Context, state *entity.SessionState) error

	// GetSnapshot returns the latest snapshot for a window, or nil.
	GetSnapshot(ctx context.Context, windowID entity.WindowID) (*entity.SessionState, error)

	// DeleteSnapshot removes a window's snapshot.
	DeleteSnapshot(ctx context.Context, windowID entity.WindowID) error

	// ListSnapshots returns all stored snapshots, newest first.
	ListSnapshots(ctx context.Context) ([]*entity.SessionState, error)
}
