package usecase

import (
	"context"
	"fmt"

	"github.com/neuralweb/neuralweb/internal/domain/entity"
	"github.com/neuralweb/neuralweb/internal/domain/repository"
	"github.com/neuralweb/neuralweb/internal/logging"
)

// RestoreSessionUseCase rebuilds tab and group lists from a stored snapshot.
type RestoreSessionUseCase struct {
	stateRepo repository.SessionStateRepository
}

// NewRestoreSessionUseCase creates a new RestoreSessionUseCase.
func NewRestoreSessionUseCase(stateRepo repository.SessionStateRepository) *RestoreSessionUseCase {
	return &RestoreSessionUseCase{stateRepo: stateRepo}
}

// RestoreOutput contains the rebuilt window state.
type RestoreOutput struct {
	Tabs   *entity.TabList
	Groups *entity.GroupList
}

// Execute loads the latest snapshot for a window and rebuilds the in-memory
// lists. Returns nil output when no snapshot exists.
func (uc *RestoreSessionUseCase) Execute(ctx context.Context, windowID entity.WindowID) (*RestoreOutput, error) {
	log := logging.FromContext(ctx)

	state, err := uc.stateRepo.GetSnapshot(ctx, windowID)
	if err != nil {
		return nil, fmt.Errorf("load window snapshot: %w", err)
	}
	if state == nil {
		log.Debug().Str("window_id", string(windowID)).Msg("no snapshot to restore")
		return nil, nil
	}

	groups := entity.NewGroupList()
	for i := range state.Groups {
		g := state.Groups[i]
		groups.Add(&g)
	}

	tabs := entity.NewTabList()
	for i := range state.Tabs {
		snap := state.Tabs[i]
		tab := entity.NewTab(snap.ID, snap.URL)
		tab.Title = snap.Title
		tab.Favicon = snap.Favicon
		if len(snap.History) > 0 {
			tab.History = append([]string(nil), snap.History...)
			tab.HistoryIndex = snap.HistoryIndex
			if tab.HistoryIndex < 0 || tab.HistoryIndex >= len(tab.History) {
				tab.HistoryIndex = len(tab.History) - 1
			}
		}
		if snap.Scroll != nil {
			p := *snap.Scroll
			tab.Scroll = &p
		}
		// Drop group references that no longer resolve.
		if snap.GroupID != "" && groups.Find(snap.GroupID) != nil {
			tab.GroupID = snap.GroupID
		}
		tabs.Add(tab)
	}

	// Add promotes the first tab; the snapshot's index is authoritative,
	// and an out-of-range index leaves no tab active.
	tabs.ActiveTabID = ""
	if state.ActiveTabIndex >= 0 && state.ActiveTabIndex < len(tabs.Tabs) {
		tabs.ActiveTabID = tabs.Tabs[state.ActiveTabIndex].ID
	}

	log.Info().
		Str("window_id", string(windowID)).
		Int("tab_count", tabs.Count()).
		Int("group_count", groups.Count()).
		Msg("session restored")

	return &RestoreOutput{Tabs: tabs, Groups: groups}, nil
}
