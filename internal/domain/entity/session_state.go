package entity

import "time"

// SessionStateVersion is the current schema version for session state.
// Increment when making breaking changes to the serialization format.
const SessionStateVersion = 1

// WindowID identifies a host window across snapshots.
type WindowID string

// SessionState is a complete snapshot of one window's tab and group state.
// It is serialized to JSON and handed to the session store.
type SessionState struct {
	Version        int           `json:"version"`
	WindowID       WindowID      `json:"window_id"`
	Tabs           []TabSnapshot `json:"tabs"`
	Groups         []Group       `json:"groups"`
	ActiveTabIndex int           `json:"active_tab_index"`
	SavedAt        time.Time     `json:"saved_at"`
}

// TabSnapshot captures the durable state of a single tab.
type TabSnapshot struct {
	ID           TabID    `json:"id"`
	URL          string   `json:"url"`
	Title        string   `json:"title"`
	Favicon      string   `json:"favicon,omitempty"`
	GroupID      GroupID  `json:"group_id,omitempty"`
	Scroll       *Point   `json:"scroll,omitempty"`
	History      []string `json:"history,omitempty"`
	HistoryIndex int      `json:"history_index"`
}

// Snapshot builds a SessionState from the live tab and group lists.
// The active tab is persisted as its positional index within the snapshot's
// tab slice, resolved from the stable tab ID.
func Snapshot(windowID WindowID, tabs *TabList, groups *GroupList) *SessionState {
	state := &SessionState{
		Version:        SessionStateVersion,
		WindowID:       windowID,
		Tabs:           []TabSnapshot{},
		Groups:         []Group{},
		ActiveTabIndex: -1,
		SavedAt:        time.Now(),
	}
	if tabs == nil {
		return state
	}

	for i, tab := range tabs.Tabs {
		if tab.ID == tabs.ActiveTabID {
			state.ActiveTabIndex = i
		}
		state.Tabs = append(state.Tabs, snapshotTab(tab))
	}
	if groups != nil {
		for _, g := range groups.Groups {
			state.Groups = append(state.Groups, *g)
		}
	}
	return state
}

func snapshotTab(tab *Tab) TabSnapshot {
	snap := TabSnapshot{
		ID:           tab.ID,
		URL:          tab.URL,
		Title:        tab.Title,
		Favicon:      tab.Favicon,
		GroupID:      tab.GroupID,
		HistoryIndex: tab.HistoryIndex,
	}
	if tab.Scroll != nil {
		p := *tab.Scroll
		snap.Scroll = &p
	}
	if len(tab.History) > 0 {
		snap.History = append([]string(nil), tab.History...)
	}
	return snap
}
