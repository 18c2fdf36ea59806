package usecase_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neuralweb/neuralweb/internal/application/usecase"
	"github.com/neuralweb/neuralweb/internal/domain/entity"
)

func TestManageGroups_CreateAndAssign(t *testing.T) {
	ctx := testCtx()
	tabsUC := usecase.NewManageTabsUseCase(sequentialIDs("tab"))
	groupsUC := usecase.NewManageGroupsUseCase(sequentialIDs("grp"))

	tabs := entity.NewTabList()
	groups := entity.NewGroupList()

	out, err := tabsUC.Create(ctx, usecase.CreateTabInput{TabList: tabs, Address: "https://a.com"})
	require.NoError(t, err)

	group := groupsUC.Create(ctx, groups, "Work", "#ff7a93")
	assert.Equal(t, entity.GroupID("grp-1"), group.ID)
	assert.Equal(t, 1, groups.Count())

	assert.True(t, groupsUC.Assign(ctx, groups, tabs, out.Tab.ID, group.ID))
	assert.Equal(t, group.ID, out.Tab.GroupID)
}

func TestManageGroups_AssignValidatesBothSides(t *testing.T) {
	ctx := testCtx()
	tabsUC := usecase.NewManageTabsUseCase(sequentialIDs("tab"))
	groupsUC := usecase.NewManageGroupsUseCase(sequentialIDs("grp"))

	tabs := entity.NewTabList()
	groups := entity.NewGroupList()

	out, err := tabsUC.Create(ctx, usecase.CreateTabInput{TabList: tabs, Address: "https://a.com"})
	require.NoError(t, err)
	group := groupsUC.Create(ctx, groups, "Work", "#ff7a93")

	assert.False(t, groupsUC.Assign(ctx, groups, tabs, "missing", group.ID))
	assert.False(t, groupsUC.Assign(ctx, groups, tabs, out.Tab.ID, "missing"))
	assert.Empty(t, out.Tab.GroupID)
}

func TestManageGroups_DeleteClearsMembers(t *testing.T) {
	ctx := testCtx()
	tabsUC := usecase.NewManageTabsUseCase(sequentialIDs("tab"))
	groupsUC := usecase.NewManageGroupsUseCase(sequentialIDs("grp"))

	tabs := entity.NewTabList()
	groups := entity.NewGroupList()

	first, err := tabsUC.Create(ctx, usecase.CreateTabInput{TabList: tabs, Address: "https://a.com"})
	require.NoError(t, err)
	second, err := tabsUC.Create(ctx, usecase.CreateTabInput{TabList: tabs, Address: "https://b.com"})
	require.NoError(t, err)

	group := groupsUC.Create(ctx, groups, "Work", "#ff7a93")
	other := groupsUC.Create(ctx, groups, "Play", "#9ece6a")

	require.True(t, groupsUC.Assign(ctx, groups, tabs, first.Tab.ID, group.ID))
	require.True(t, groupsUC.Assign(ctx, groups, tabs, second.Tab.ID, other.ID))

	assert.True(t, groupsUC.Delete(ctx, groups, tabs, group.ID))

	assert.Empty(t, first.Tab.GroupID, "member of deleted group is ungrouped")
	assert.Equal(t, other.ID, second.Tab.GroupID, "other groups untouched")
	assert.Equal(t, 2, tabs.Count(), "tabs survive group deletion")
	assert.Nil(t, groups.Find(group.ID))
}

func TestManageGroups_DeleteUnknownGroup(t *testing.T) {
	groupsUC := usecase.NewManageGroupsUseCase(sequentialIDs("grp"))
	assert.False(t, groupsUC.Delete(testCtx(), entity.NewGroupList(), entity.NewTabList(), "missing"))
}

func TestManageGroups_Clear(t *testing.T) {
	ctx := testCtx()
	tabsUC := usecase.NewManageTabsUseCase(sequentialIDs("tab"))
	groupsUC := usecase.NewManageGroupsUseCase(sequentialIDs("grp"))

	tabs := entity.NewTabList()
	groups := entity.NewGroupList()

	out, err := tabsUC.Create(ctx, usecase.CreateTabInput{TabList: tabs, Address: "https://a.com"})
	require.NoError(t, err)
	group := groupsUC.Create(ctx, groups, "Work", "#ff7a93")
	require.True(t, groupsUC.Assign(ctx, groups, tabs, out.Tab.ID, group.ID))

	assert.True(t, groupsUC.Clear(ctx, tabs, out.Tab.ID))
	assert.Empty(t, out.Tab.GroupID)
	assert.NotNil(t, groups.Find(group.ID), "clearing a tab leaves the group alive")

	assert.False(t, groupsUC.Clear(ctx, tabs, "missing"))
}
