package usecase

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/neuralweb/neuralweb/internal/domain/entity"
	"github.com/neuralweb/neuralweb/internal/domain/nwurl"
	"github.com/neuralweb/neuralweb/internal/domain/repository"
	"github.com/neuralweb/neuralweb/internal/logging"
)

const (
	// logURLMaxLen is the max length for URLs in log messages.
	logURLMaxLen = 60

	// revisitWindow suppresses re-recording the same URL for the same tab
	// in quick succession, so reload loops don't inflate visit counts.
	revisitWindow = 2 * time.Second
)

type recentVisit struct {
	url string
	at  time.Time
}

// RecordVisitUseCase folds navigation facts into browsing history: the
// persisted history rows and the process-scoped per-hostname visit counters
// behind the "top sites" ranking. Counters start empty at process start and
// are not persisted across restarts.
type RecordVisitUseCase struct {
	historyRepo repository.HistoryRepository

	mu            sync.Mutex
	hostVisits    map[string]int64
	recent        map[entity.TabID]recentVisit
	revisitWindow time.Duration
	now           func() time.Time
}

// NewRecordVisitUseCase creates a new visit recording use case.
func NewRecordVisitUseCase(historyRepo repository.HistoryRepository) *RecordVisitUseCase {
	return &RecordVisitUseCase{
		historyRepo:   historyRepo,
		hostVisits:    make(map[string]int64),
		recent:        make(map[entity.TabID]recentVisit),
		revisitWindow: revisitWindow,
		now:           time.Now,
	}
}

// SetRevisitWindow overrides the repeat-visit suppression window.
func (uc *RecordVisitUseCase) SetRevisitWindow(d time.Duration) {
	uc.mu.Lock()
	uc.revisitWindow = d
	uc.mu.Unlock()
}

// Record registers a committed navigation. Internal-scheme and blank
// addresses are ignored. The entry is titled by the raw URL; the real title
// arrives later through the title-updated event.
func (uc *RecordVisitUseCase) Record(ctx context.Context, tabID entity.TabID, url string) {
	log := logging.FromContext(ctx)

	if url == "" || url == "about:blank" || nwurl.IsInternal(url) {
		return
	}

	uc.mu.Lock()
	if last, ok := uc.recent[tabID]; ok && last.url == url && uc.now().Sub(last.at) < uc.revisitWindow {
		uc.mu.Unlock()
		log.Debug().Str("url", logging.TruncateURL(url, logURLMaxLen)).Msg("suppressing repeat visit")
		return
	}
	uc.recent[tabID] = recentVisit{url: url, at: uc.now()}
	if host := nwurl.Hostname(url); host != "" {
		uc.hostVisits[host]++
	}
	uc.mu.Unlock()

	if err := uc.historyRepo.AddEntry(ctx, entity.NewHistoryEntry(url, url)); err != nil {
		log.Warn().Err(err).
			Str("url", logging.TruncateURL(url, logURLMaxLen)).
			Msg("failed to record history entry")
	}
}

// Forget drops the revisit-suppression state for a closed tab.
func (uc *RecordVisitUseCase) Forget(tabID entity.TabID) {
	uc.mu.Lock()
	delete(uc.recent, tabID)
	uc.mu.Unlock()
}

// UpdateTitle forwards a title change to the most recent history entry,
// which only applies when that entry's URL matches.
func (uc *RecordVisitUseCase) UpdateTitle(ctx context.Context, url, title string) {
	if url == "" || nwurl.IsInternal(url) {
		return
	}
	if err := uc.historyRepo.UpdateLastEntry(ctx, url, repository.HistoryUpdate{Title: &title}); err != nil {
		logging.FromContext(ctx).Warn().Err(err).
			Str("url", logging.TruncateURL(url, logURLMaxLen)).
			Msg("failed to update history title")
	}
}

// UpdateFavicon forwards a favicon change to the most recent history entry.
func (uc *RecordVisitUseCase) UpdateFavicon(ctx context.Context, url, favicon string) {
	if url == "" || nwurl.IsInternal(url) {
		return
	}
	if err := uc.historyRepo.UpdateLastEntry(ctx, url, repository.HistoryUpdate{Favicon: &favicon}); err != nil {
		logging.FromContext(ctx).Warn().Err(err).
			Str("url", logging.TruncateURL(url, logURLMaxLen)).
			Msg("failed to update history favicon")
	}
}

// TopSites returns the in-memory per-hostname ranking, highest first.
func (uc *RecordVisitUseCase) TopSites(limit int) []entity.SiteRank {
	uc.mu.Lock()
	ranks := make([]entity.SiteRank, 0, len(uc.hostVisits))
	for host, visits := range uc.hostVisits {
		ranks = append(ranks, entity.SiteRank{Host: host, Visits: visits})
	}
	uc.mu.Unlock()

	sort.Slice(ranks, func(i, j int) bool {
		if ranks[i].Visits != ranks[j].Visits {
			return ranks[i].Visits > ranks[j].Visits
		}
		return ranks[i].Host < ranks[j].Host
	})
	if limit > 0 && len(ranks) > limit {
		ranks = ranks[:limit]
	}
	return ranks
}
