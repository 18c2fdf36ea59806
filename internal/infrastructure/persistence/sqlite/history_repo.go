package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/neuralweb/neuralweb/internal/domain/entity"
	"github.com/neuralweb/neuralweb/internal/domain/nwurl"
	"github.com/neuralweb/neuralweb/internal/domain/repository"
	"github.com/neuralweb/neuralweb/internal/logging"
)

type historyRepo struct {
	db *sql.DB
}

// NewHistoryRepository creates a SQLite-backed history repository.
func NewHistoryRepository(db *sql.DB) repository.HistoryRepository {
	return &historyRepo{db: db}
}

// AddEntry records a visit. An existing row for the URL gets its visit count
// bumped and its timestamp refreshed; the stored title is only replaced when
// the new one is non-empty.
func (r *historyRepo) AddEntry(ctx context.Context, entry *entity.HistoryEntry) error {
	if entry == nil || entry.URL == "" {
		return errors.New("history entry requires a url")
	}

	const query = `
		INSERT INTO history (url, title, favicon_url, visit_count, last_visited, created_at)
		VALUES (?, ?, ?, 1, ?, ?)
		ON CONFLICT (url) DO UPDATE SET
			visit_count = visit_count + 1,
			last_visited = excluded.last_visited,
			title = CASE WHEN excluded.title != '' THEN excluded.title ELSE title END`

	_, err := r.db.ExecContext(ctx, query,
		entry.URL, entry.Title, entry.FaviconURL, entry.LastVisited, entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("add history entry: %w", err)
	}

	logging.FromContext(ctx).Debug().
		Str("url", logging.TruncateURL(entry.URL, 60)).
		Msg("history entry recorded")
	return nil
}

// UpdateLastEntry amends the most recently visited entry, but only when
// that entry's URL matches. Title and favicon events that arrive after the
// user already navigated away are dropped rather than misattributed.
func (r *historyRepo) UpdateLastEntry(ctx context.Context, url string, update repository.HistoryUpdate) error {
	if url == "" {
		return errors.New("url required")
	}
	if update.Title == nil && update.Favicon == nil {
		return nil
	}

	var lastURL string
	err := r.db.QueryRowContext(ctx,
		`SELECT url FROM history ORDER BY last_visited DESC, id DESC LIMIT 1`,
	).Scan(&lastURL)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("find last history entry: %w", err)
	}
	if lastURL != url {
		logging.FromContext(ctx).Debug().
			Str("url", logging.TruncateURL(url, 60)).
			Msg("skipping stale history update")
		return nil
	}

	title := ""
	favicon := ""
	if update.Title != nil {
		title = *update.Title
	}
	if update.Favicon != nil {
		favicon = *update.Favicon
	}

	const query = `
		UPDATE history SET
			title = CASE WHEN ?1 != '' THEN ?1 ELSE title END,
			favicon_url = CASE WHEN ?2 != '' THEN ?2 ELSE favicon_url END
		WHERE url = ?3`
	if _, err := r.db.ExecContext(ctx, query, title, favicon, url); err != nil {
		return fmt.Errorf("update history entry: %w", err)
	}
	return nil
}

// FindByURL returns the entry for a URL, or nil when absent.
func (r *historyRepo) FindByURL(ctx context.Context, url string) (*entity.HistoryEntry, error) {
	const query = `
		SELECT id, url, title, favicon_url, visit_count, last_visited, created_at
		FROM history WHERE url = ?`

	entry := &entity.HistoryEntry{}
	err := r.db.QueryRowContext(ctx, query, url).Scan(
		&entry.ID, &entry.URL, &entry.Title, &entry.FaviconURL,
		&entry.VisitCount, &entry.LastVisited, &entry.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find history entry: %w", err)
	}
	return entry, nil
}

// Recent returns the most recently visited entries, newest first.
func (r *historyRepo) Recent(ctx context.Context, limit int) ([]*entity.HistoryEntry, error) {
	if limit <= 0 {
		limit = 50
	}

	const query = `
		SELECT id, url, title, favicon_url, visit_count, last_visited, created_at
		FROM history ORDER BY last_visited DESC LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent history: %w", err)
	}
	defer rows.Close()

	var entries []*entity.HistoryEntry
	for rows.Next() {
		entry := &entity.HistoryEntry{}
		if err := rows.Scan(
			&entry.ID, &entry.URL, &entry.Title, &entry.FaviconURL,
			&entry.VisitCount, &entry.LastVisited, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Search returns entries whose URL or title contains the term, ranked by
// visit count then recency. LIKE wildcards in the term are treated as
// literal characters.
func (r *historyRepo) Search(ctx context.Context, term string, limit int) ([]*entity.HistoryEntry, error) {
	if term == "" {
		return r.Recent(ctx, limit)
	}
	if limit <= 0 {
		limit = 50
	}

	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(term)
	pattern := "%" + escaped + "%"

	const query = `
		SELECT id, url, title, favicon_url, visit_count, last_visited, created_at
		FROM history
		WHERE url LIKE ?1 ESCAPE '\' OR title LIKE ?1 ESCAPE '\'
		ORDER BY visit_count DESC, last_visited DESC
		LIMIT ?2`

	rows, err := r.db.QueryContext(ctx, query, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("search history: %w", err)
	}
	defer rows.Close()

	var entries []*entity.HistoryEntry
	for rows.Next() {
		entry := &entity.HistoryEntry{}
		if err := rows.Scan(
			&entry.ID, &entry.URL, &entry.Title, &entry.FaviconURL,
			&entry.VisitCount, &entry.LastVisited, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// TopSites aggregates visit counts per hostname. Hostname extraction happens
// here rather than in SQL so the normalization stays in one place.
func (r *historyRepo) TopSites(ctx context.Context, limit int) ([]entity.SiteRank, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := r.db.QueryContext(ctx, `SELECT url, visit_count FROM history`)
	if err != nil {
		return nil, fmt.Errorf("query history for top sites: %w", err)
	}
	defer rows.Close()

	totals := make(map[string]int64)
	for rows.Next() {
		var url string
		var visits int64
		if err := rows.Scan(&url, &visits); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		if host := nwurl.Hostname(url); host != "" {
			totals[host] += visits
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	ranks := make([]entity.SiteRank, 0, len(totals))
	for host, visits := range totals {
		ranks = append(ranks, entity.SiteRank{Host: host, Visits: visits})
	}
	sort.Slice(ranks, func(i, j int) bool {
		if ranks[i].Visits != ranks[j].Visits {
			return ranks[i].Visits > ranks[j].Visits
		}
		return ranks[i].Host < ranks[j].Host
	})
	if len(ranks) > limit {
		ranks = ranks[:limit]
	}
	return ranks, nil
}

// Stats returns aggregate history statistics.
func (r *historyRepo) Stats(ctx context.Context) (*entity.HistoryStats, error) {
	stats := &entity.HistoryStats{}
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(visit_count), 0) FROM history`,
	).Scan(&stats.TotalEntries, &stats.TotalVisits)
	if err != nil {
		return nil, fmt.Errorf("query history stats: %w", err)
	}
	return stats, nil
}
