package usecase

import (
	"context"
	"fmt"

	"github.com/neuralweb/neuralweb/internal/application/port"
	"github.com/neuralweb/neuralweb/internal/domain/entity"
	"github.com/neuralweb/neuralweb/internal/logging"
)

// SnapshotSessionUseCase builds window snapshots and hands them to the
// session sink.
type SnapshotSessionUseCase struct {
	sink port.SessionSink
}

// NewSnapshotSessionUseCase creates a new SnapshotSessionUseCase.
func NewSnapshotSessionUseCase(sink port.SessionSink) *SnapshotSessionUseCase {
	return &SnapshotSessionUseCase{sink: sink}
}

// SnapshotInput contains the parameters for persisting a window snapshot.
type SnapshotInput struct {
	WindowID entity.WindowID
	TabList  *entity.TabList
	Groups   *entity.GroupList
}

// Execute captures the current tab/group state and pushes it to the sink.
func (uc *SnapshotSessionUseCase) Execute(ctx context.Context, input SnapshotInput) error {
	log := logging.FromContext(ctx)

	if input.WindowID == "" {
		return fmt.Errorf("window id required")
	}

	state := entity.Snapshot(input.WindowID, input.TabList, input.Groups)

	log.Debug().
		Str("window_id", string(input.WindowID)).
		Int("tab_count", len(state.Tabs)).
		Int("group_count", len(state.Groups)).
		Int("active_index", state.ActiveTabIndex).
		Msg("pushing window snapshot")

	return uc.Push(ctx, state)
}

// Push hands an already-built snapshot to the sink. Callers that must build
// the snapshot under their own lock use this directly.
func (uc *SnapshotSessionUseCase) Push(ctx context.Context, state *entity.SessionState) error {
	if state == nil || state.WindowID == "" {
		return fmt.Errorf("window id required")
	}
	if err := uc.sink.UpdateWindow(ctx, state); err != nil {
		return fmt.Errorf("update window snapshot: %w", err)
	}
	return nil
}
