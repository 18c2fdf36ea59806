// Package repository defines persistence interfaces for domain entities.
package repository

import (
	"context"

	"github.com/neuralweb/neuralweb/internal/domain/entity"
)

// HistoryUpdate carries optional fields for amending the most recent entry.
type HistoryUpdate struct {
	Title   *string
	Favicon *string
}

// HistoryRepository stores visited URLs.
type HistoryRepository interface {
	// AddEntry records a visit, creating the row or bumping its visit count.
	AddEntry(ctx context.Context, entry *entity.HistoryEntry) error

	// UpdateLastEntry amends the most recently added entry, but only when
	// that entry's URL matches the given one.
	UpdateLastEntry(ctx context.Context, url string, update HistoryUpdate) error

	// FindByURL returns the entry for a URL, or nil.
	FindByURL(ctx context.Context, url string) (*entity.HistoryEntry, error)

	// Recent returns the most recently visited entries.
	Recent(ctx context.Context, limit int) ([]*entity.HistoryEntry, error)

	// Search returns entries whose URL or title contains the term,
	// most visited first.
	Search(ctx context.Context, term string, limit int) ([]*entity.HistoryEntry, error)

	// TopSites returns hostnames ranked by accumulated visits.
	TopSites(ctx context.Context, limit int) ([]entity.SiteRank, error)

	// Stats returns aggregate history statistics.
	Stats(ctx context.Context) (*entity.HistoryStats, error)
}
