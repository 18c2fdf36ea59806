package usecase

import (
	"context"

	"github.com/neuralweb/neuralweb/internal/domain/entity"
	"github.com/neuralweb/neuralweb/internal/logging"
)

// ManageGroupsUseCase handles tab group lifecycle and membership.
type ManageGroupsUseCase struct {
	idGenerator IDGenerator
}

// NewManageGroupsUseCase creates a new group management use case.
func NewManageGroupsUseCase(idGenerator IDGenerator) *ManageGroupsUseCase {
	return &ManageGroupsUseCase{idGenerator: idGenerator}
}

// Create adds a new named, colored group.
func (uc *ManageGroupsUseCase) Create(ctx context.Context, groups *entity.GroupList, name, color string) *entity.Group {
	group := &entity.Group{
		ID:    entity.GroupID(uc.idGenerator()),
		Name:  name,
		Color: color,
	}
	groups.Add(group)

	logging.FromContext(ctx).Info().
		Str("group_id", string(group.ID)).
		Str("name", name).
		Str("color", color).
		Msg("group created")

	return group
}

// Delete removes a group, first clearing the group reference on every
// member tab. Member tabs survive the deletion.
func (uc *ManageGroupsUseCase) Delete(ctx context.Context, groups *entity.GroupList, tabs *entity.TabList, groupID entity.GroupID) bool {
	log := logging.FromContext(ctx)

	if groups.Find(groupID) == nil {
		log.Debug().Str("group_id", string(groupID)).Msg("delete: group not found")
		return false
	}

	cleared := 0
	if tabs != nil {
		for _, tab := range tabs.Tabs {
			if tab.GroupID == groupID {
				tab.GroupID = ""
				cleared++
			}
		}
	}
	groups.Remove(groupID)

	log.Info().
		Str("group_id", string(groupID)).
		Int("members_cleared", cleared).
		Msg("group deleted")

	return true
}

// Assign sets a tab's group. Fails when either the tab or the group is
// unknown, so a set GroupID always references an existing group.
func (uc *ManageGroupsUseCase) Assign(ctx context.Context, groups *entity.GroupList, tabs *entity.TabList, tabID entity.TabID, groupID entity.GroupID) bool {
	log := logging.FromContext(ctx)

	tab := tabs.Find(tabID)
	if tab == nil {
		log.Debug().Str("tab_id", string(tabID)).Msg("assign: tab not found")
		return false
	}
	if groups.Find(groupID) == nil {
		log.Debug().Str("group_id", string(groupID)).Msg("assign: group not found")
		return false
	}

	tab.GroupID = groupID

	log.Info().
		Str("tab_id", string(tabID)).
		Str("group_id", string(groupID)).
		Msg("tab assigned to group")

	return true
}

// Clear removes a tab's group reference.
func (uc *ManageGroupsUseCase) Clear(ctx context.Context, tabs *entity.TabList, tabID entity.TabID) bool {
	log := logging.FromContext(ctx)

	tab := tabs.Find(tabID)
	if tab == nil {
		log.Debug().Str("tab_id", string(tabID)).Msg("clear: tab not found")
		return false
	}

	tab.GroupID = ""

	log.Info().Str("tab_id", string(tabID)).Msg("tab removed from group")
	return true
}
