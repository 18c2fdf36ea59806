package entity

import "time"

// HistoryEntry represents a visited URL in browsing history.
type HistoryEntry struct {
	ID          int64     `json:"id"`
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	FaviconURL  string    `json:"favicon_url"`
	VisitCount  int64     `json:"visit_count"`
	LastVisited time.Time `json:"last_visited"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewHistoryEntry creates a new history entry for a URL.
func NewHistoryEntry(url, title string) *HistoryEntry {
	now := time.Now()
	return &HistoryEntry{
		URL:         url,
		Title:       title,
		VisitCount:  1,
		LastVisited: now,
		CreatedAt:   now,
	}
}

// SiteRank holds per-hostname visit totals for the "top sites" ranking.
type SiteRank struct {
	Host   string `json:"host"`
	Visits int64  `json:"visits"`
}

// HistoryStats contains aggregated history statistics.
type HistoryStats struct {
	TotalEntries int64 `json:"total_entries"`
	TotalVisits  int64 `json:"total_visits"`
}
