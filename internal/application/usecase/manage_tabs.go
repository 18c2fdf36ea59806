// Package usecase implements application services over the domain entities.
package usecase

import (
	"context"
	"fmt"

	"github.com/neuralweb/neuralweb/internal/domain/entity"
	"github.com/neuralweb/neuralweb/internal/domain/nwurl"
	"github.com/neuralweb/neuralweb/internal/logging"
)

// IDGenerator is a function type for generating unique IDs.
type IDGenerator func() string

// ManageTabsUseCase handles tab registry operations. All operations are
// synchronous with respect to the in-memory lists and re-establish the
// registry invariants before returning.
type ManageTabsUseCase struct {
	idGenerator IDGenerator
}

// NewManageTabsUseCase creates a new tab management use case.
func NewManageTabsUseCase(idGenerator IDGenerator) *ManageTabsUseCase {
	return &ManageTabsUseCase{idGenerator: idGenerator}
}

// CreateTabInput contains parameters for creating a new tab.
type CreateTabInput struct {
	TabList *entity.TabList
	Address string        // Raw address; normalized before use
	Scroll  *entity.Point // Optional initial scroll position
}

// CreateTabOutput contains the result of tab creation.
type CreateTabOutput struct {
	Tab *entity.Tab
}

// Create creates a new tab pointed at the normalized address and makes it
// active. Internal pages get their display title immediately; content pages
// are titled by the surface's title-updated event later.
func (uc *ManageTabsUseCase) Create(ctx context.Context, input CreateTabInput) (*CreateTabOutput, error) {
	log := logging.FromContext(ctx)

	if input.TabList == nil {
		return nil, fmt.Errorf("tab list is required")
	}

	address := nwurl.Normalize(input.Address)
	tab := entity.NewTab(entity.TabID(uc.idGenerator()), address)
	if title := nwurl.InternalTitle(address); title != "" {
		tab.Title = title
	}
	if input.Scroll != nil {
		p := *input.Scroll
		tab.Scroll = &p
	}

	input.TabList.Add(tab)
	input.TabList.ActiveTabID = tab.ID

	log.Info().
		Str("tab_id", string(tab.ID)).
		Str("url", logging.TruncateURL(address, 60)).
		Int("total", input.TabList.Count()).
		Msg("tab created")

	return &CreateTabOutput{Tab: tab}, nil
}

// Close removes a tab from the list. Closing the active tab promotes
// another remaining tab, or clears the active ID when none remain.
// Returns false when the tab does not exist.
func (uc *ManageTabsUseCase) Close(ctx context.Context, tabs *entity.TabList, tabID entity.TabID) bool {
	log := logging.FromContext(ctx)

	if tabs == nil || tabs.Find(tabID) == nil {
		log.Debug().Str("tab_id", string(tabID)).Msg("close: tab not found")
		return false
	}

	tabs.Remove(tabID)

	log.Info().
		Str("tab_id", string(tabID)).
		Str("new_active", string(tabs.ActiveTabID)).
		Int("remaining", tabs.Count()).
		Msg("tab closed")

	return true
}

// Switch changes the active tab. Unknown IDs are a no-op reported as false.
func (uc *ManageTabsUseCase) Switch(ctx context.Context, tabs *entity.TabList, tabID entity.TabID) bool {
	log := logging.FromContext(ctx)

	if tabs == nil || tabs.Find(tabID) == nil {
		log.Debug().Str("tab_id", string(tabID)).Msg("switch: tab not found")
		return false
	}

	oldActive := tabs.ActiveTabID
	tabs.ActiveTabID = tabID

	log.Info().
		Str("from", string(oldActive)).
		Str("to", string(tabID)).
		Msg("tab switched")

	return true
}
