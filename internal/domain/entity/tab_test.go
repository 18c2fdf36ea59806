package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neuralweb/neuralweb/internal/domain/entity"
)

func TestTab_RecordNavigation(t *testing.T) {
	tab := entity.NewTab("t1", "https://a.com")

	tab.RecordNavigation("https://b.com")
	tab.RecordNavigation("https://c.com")

	assert.Equal(t, "https://c.com", tab.URL)
	assert.Equal(t, []string{"https://a.com", "https://b.com", "https://c.com"}, tab.History)
	assert.Equal(t, 2, tab.HistoryIndex)
}

func TestTab_RecordNavigation_TruncatesForwardEntries(t *testing.T) {
	tab := entity.NewTab("t1", "https://a.com")
	tab.RecordNavigation("https://b.com")
	tab.RecordNavigation("https://c.com")

	_, ok := tab.GoBack()
	require.True(t, ok)
	require.Equal(t, "https://b.com", tab.URL)

	// Navigating somewhere new from the middle drops the forward stack.
	tab.RecordNavigation("https://d.com")

	assert.Equal(t, []string{"https://a.com", "https://b.com", "https://d.com"}, tab.History)
	assert.Equal(t, 2, tab.HistoryIndex)
	assert.False(t, tab.CanGoForward())
}

func TestTab_RecordNavigation_CurrentURLIsNoop(t *testing.T) {
	tab := entity.NewTab("t1", "https://a.com")
	tab.RecordNavigation("https://b.com")
	tab.RecordNavigation("https://c.com")

	_, ok := tab.GoBack()
	require.True(t, ok)

	// The engine confirms the back navigation by reporting the same URL the
	// cursor already points at. Forward history must survive.
	tab.RecordNavigation("https://b.com")

	assert.Equal(t, []string{"https://a.com", "https://b.com", "https://c.com"}, tab.History)
	assert.Equal(t, 1, tab.HistoryIndex)
	assert.True(t, tab.CanGoForward())
}

func TestTab_BackForward(t *testing.T) {
	tab := entity.NewTab("t1", "https://a.com")

	assert.False(t, tab.CanGoBack())
	assert.False(t, tab.CanGoForward())

	tab.RecordNavigation("https://b.com")
	require.True(t, tab.CanGoBack())

	url, ok := tab.GoBack()
	require.True(t, ok)
	assert.Equal(t, "https://a.com", url)
	assert.True(t, tab.CanGoForward())

	url, ok = tab.GoForward()
	require.True(t, ok)
	assert.Equal(t, "https://b.com", url)

	_, ok = tab.GoForward()
	assert.False(t, ok)
}

func TestTabList_AddFirstBecomesActive(t *testing.T) {
	tl := entity.NewTabList()

	tl.Add(entity.NewTab("t1", "https://a.com"))
	tl.Add(entity.NewTab("t2", "https://b.com"))

	assert.Equal(t, entity.TabID("t1"), tl.ActiveTabID)
	assert.Equal(t, 2, tl.Count())
}

func TestTabList_RemoveActivePromotesSuccessor(t *testing.T) {
	tl := entity.NewTabList()
	tl.Add(entity.NewTab("t1", "https://a.com"))
	tl.Add(entity.NewTab("t2", "https://b.com"))
	tl.Add(entity.NewTab("t3", "https://c.com"))
	tl.ActiveTabID = "t2"

	require.True(t, tl.Remove("t2"))
	assert.Equal(t, entity.TabID("t3"), tl.ActiveTabID)

	tl.ActiveTabID = "t3"
	require.True(t, tl.Remove("t3"))
	// Removed the last slot; the new last tab is promoted.
	assert.Equal(t, entity.TabID("t1"), tl.ActiveTabID)

	require.True(t, tl.Remove("t1"))
	assert.Equal(t, entity.TabID(""), tl.ActiveTabID)
	assert.Equal(t, 0, tl.Count())
}

func TestTabList_RemoveInactiveKeepsActive(t *testing.T) {
	tl := entity.NewTabList()
	tl.Add(entity.NewTab("t1", "https://a.com"))
	tl.Add(entity.NewTab("t2", "https://b.com"))

	require.True(t, tl.Remove("t2"))
	assert.Equal(t, entity.TabID("t1"), tl.ActiveTabID)
}

func TestTabList_RemoveUnknown(t *testing.T) {
	tl := entity.NewTabList()
	tl.Add(entity.NewTab("t1", "https://a.com"))

	assert.False(t, tl.Remove("nope"))
	assert.Equal(t, 1, tl.Count())
}

func TestTabList_IndexAfterWrapsAround(t *testing.T) {
	tl := entity.NewTabList()
	tl.Add(entity.NewTab("t1", "https://a.com"))
	tl.Add(entity.NewTab("t2", "https://b.com"))
	tl.Add(entity.NewTab("t3", "https://c.com"))

	tl.ActiveTabID = "t3"
	assert.Equal(t, entity.TabID("t1"), tl.IndexAfter(1))

	tl.ActiveTabID = "t1"
	assert.Equal(t, entity.TabID("t3"), tl.IndexAfter(-1))

	single := entity.NewTabList()
	single.Add(entity.NewTab("only", "https://a.com"))
	assert.Equal(t, entity.TabID("only"), single.IndexAfter(1))
	assert.Equal(t, entity.TabID("only"), single.IndexAfter(-1))
}

func TestSnapshot_ResolvesActiveIndexFromID(t *testing.T) {
	tabs := entity.NewTabList()
	tabs.Add(entity.NewTab("t1", "https://a.com"))
	tabs.Add(entity.NewTab("t2", "https://b.com"))
	tabs.ActiveTabID = "t2"

	groups := entity.NewGroupList()
	groups.Add(&entity.Group{ID: "g1", Name: "Work", Color: "#ff0000"})

	state := entity.Snapshot("main", tabs, groups)

	assert.Equal(t, entity.SessionStateVersion, state.Version)
	assert.Equal(t, entity.WindowID("main"), state.WindowID)
	require.Len(t, state.Tabs, 2)
	assert.Equal(t, 1, state.ActiveTabIndex)
	require.Len(t, state.Groups, 1)
	assert.Equal(t, "Work", state.Groups[0].Name)
}

func TestSnapshot_EmptyList(t *testing.T) {
	state := entity.Snapshot("main", entity.NewTabList(), entity.NewGroupList())

	assert.Empty(t, state.Tabs)
	assert.Equal(t, -1, state.ActiveTabIndex)
}

func TestRect_Inset(t *testing.T) {
	r := entity.Rect{X: 0, Y: 0, W: 1280, H: 800}
	content := r.Inset(48)

	assert.Equal(t, entity.Rect{X: 0, Y: 48, W: 1280, H: 752}, content)

	// Band taller than the window collapses to zero height.
	tiny := entity.Rect{W: 100, H: 30}.Inset(48)
	assert.Equal(t, 0, tiny.H)
}
