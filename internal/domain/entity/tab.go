package entity

import "time"

// TabID uniquely identifies a tab.
type TabID string

// Tab represents a single browsing context: an address, its title, and the
// navigation history that led there. Tabs never touch I/O themselves; the
// shell layer owns the mapping from a tab to its rendering surface.
type Tab struct {
	ID           TabID
	URL          string
	Title        string
	Favicon      string // Optional favicon URL
	History      []string
	HistoryIndex int
	GroupID      GroupID // Weak reference; empty when ungrouped
	Scroll       *Point  // Captured lazily, nil until first capture
	CreatedAt    time.Time
}

// NewTab creates a tab pointed at the given URL.
// The URL is recorded as the first navigation history entry.
func NewTab(id TabID, url string) *Tab {
	t := &Tab{
		ID:        id,
		URL:       url,
		CreatedAt: time.Now(),
	}
	if url != "" {
		t.History = []string{url}
		t.HistoryIndex = 0
	}
	return t
}

// RecordNavigation updates the tab's URL and appends to the navigation
// history, truncating any forward entries. Re-navigating to the current
// URL leaves the history untouched.
func (t *Tab) RecordNavigation(url string) {
	if url == "" {
		return
	}
	t.URL = url
	if len(t.History) == 0 {
		t.History = []string{url}
		t.HistoryIndex = 0
		return
	}
	if t.History[t.HistoryIndex] == url {
		return
	}
	t.History = append(t.History[:t.HistoryIndex+1], url)
	t.HistoryIndex = len(t.History) - 1
}

// CanGoBack reports whether a back navigation is possible.
func (t *Tab) CanGoBack() bool {
	return t.HistoryIndex > 0
}

// CanGoForward reports whether a forward navigation is possible.
func (t *Tab) CanGoForward() bool {
	return len(t.History) > 0 && t.HistoryIndex < len(t.History)-1
}

// GoBack moves the history cursor back and returns the new URL.
func (t *Tab) GoBack() (string, bool) {
	if !t.CanGoBack() {
		return "", false
	}
	t.HistoryIndex--
	t.URL = t.History[t.HistoryIndex]
	return t.URL, true
}

// GoForward moves the history cursor forward and returns the new URL.
func (t *Tab) GoForward() (string, bool) {
	if !t.CanGoForward() {
		return "", false
	}
	t.HistoryIndex++
	t.URL = t.History[t.HistoryIndex]
	return t.URL, true
}

// TabList manages an ordered collection of tabs and the active selection.
type TabList struct {
	Tabs        []*Tab
	ActiveTabID TabID
}

// NewTabList creates an empty tab list.
func NewTabList() *TabList {
	return &TabList{
		Tabs: make([]*Tab, 0),
	}
}

// Add appends a tab to the list. The first tab added becomes active.
func (tl *TabList) Add(tab *Tab) {
	tl.Tabs = append(tl.Tabs, tab)
	if tl.ActiveTabID == "" {
		tl.ActiveTabID = tab.ID
	}
}

// Remove removes a tab by ID. If the removed tab was active, the tab now
// occupying its slot (or the last tab) is promoted; with no tabs left the
// active ID is cleared.
func (tl *TabList) Remove(id TabID) bool {
	for i, tab := range tl.Tabs {
		if tab.ID == id {
			tl.Tabs = append(tl.Tabs[:i], tl.Tabs[i+1:]...)
			if tl.ActiveTabID == id {
				switch {
				case len(tl.Tabs) == 0:
					tl.ActiveTabID = ""
				case i < len(tl.Tabs):
					tl.ActiveTabID = tl.Tabs[i].ID
				default:
					tl.ActiveTabID = tl.Tabs[len(tl.Tabs)-1].ID
				}
			}
			return true
		}
	}
	return false
}

// Find returns a tab by ID, or nil.
func (tl *TabList) Find(id TabID) *Tab {
	for _, tab := range tl.Tabs {
		if tab.ID == id {
			return tab
		}
	}
	return nil
}

// ActiveTab returns the currently active tab, or nil.
func (tl *TabList) ActiveTab() *Tab {
	if tl.ActiveTabID == "" {
		return nil
	}
	return tl.Find(tl.ActiveTabID)
}

// ActiveIndex returns the positional index of the active tab, or -1.
func (tl *TabList) ActiveIndex() int {
	for i, tab := range tl.Tabs {
		if tab.ID == tl.ActiveTabID {
			return i
		}
	}
	return -1
}

// Count returns the number of tabs.
func (tl *TabList) Count() int {
	return len(tl.Tabs)
}

// IndexAfter returns the ID of the tab offset steps away from the active
// tab, wrapping around. Returns the active ID when the list has one tab.
func (tl *TabList) IndexAfter(offset int) TabID {
	n := len(tl.Tabs)
	if n == 0 {
		return ""
	}
	idx := tl.ActiveIndex()
	if idx < 0 {
		return tl.Tabs[0].ID
	}
	idx = ((idx+offset)%n + n) % n
	return tl.Tabs[idx].ID
}
