package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neuralweb/neuralweb/internal/domain/entity"
	"github.com/neuralweb/neuralweb/internal/domain/repository"
	"github.com/neuralweb/neuralweb/internal/logging"
)

type fakeHistoryRepo struct {
	added   []*entity.HistoryEntry
	updates []struct {
		url    string
		update repository.HistoryUpdate
	}
	addErr error
}

func (f *fakeHistoryRepo) AddEntry(_ context.Context, entry *entity.HistoryEntry) error {
	if f.addErr != nil {
		return f.addErr
	}
	f.added = append(f.added, entry)
	return nil
}

func (f *fakeHistoryRepo) UpdateLastEntry(_ context.Context, url string, update repository.HistoryUpdate) error {
	f.updates = append(f.updates, struct {
		url    string
		update repository.HistoryUpdate
	}{url, update})
	return nil
}

func (f *fakeHistoryRepo) FindByURL(context.Context, string) (*entity.HistoryEntry, error) {
	return nil, nil
}

func (f *fakeHistoryRepo) Recent(context.Context, int) ([]*entity.HistoryEntry, error) {
	return nil, nil
}

func (f *fakeHistoryRepo) Search(context.Context, string, int) ([]*entity.HistoryEntry, error) {
	return nil, nil
}

func (f *fakeHistoryRepo) TopSites(context.Context, int) ([]entity.SiteRank, error) {
	return nil, nil
}

func (f *fakeHistoryRepo) Stats(context.Context) (*entity.HistoryStats, error) {
	return &entity.HistoryStats{}, nil
}

func visitTestCtx() context.Context {
	return logging.WithContext(context.Background(), logging.NewFromConfigValues("debug", "console"))
}

func TestRecordVisit_RecordsAndCounts(t *testing.T) {
	ctx := visitTestCtx()
	repo := &fakeHistoryRepo{}
	uc := NewRecordVisitUseCase(repo)

	uc.Record(ctx, "t1", "https://example.com/a")
	uc.Record(ctx, "t1", "https://example.com/b")
	uc.Record(ctx, "t2", "https://other.com")

	require.Len(t, repo.added, 3)
	assert.Equal(t, "https://example.com/a", repo.added[0].URL)

	ranks := uc.TopSites(10)
	require.Len(t, ranks, 2)
	assert.Equal(t, "example.com", ranks[0].Host)
	assert.Equal(t, int64(2), ranks[0].Visits)
	assert.Equal(t, "other.com", ranks[1].Host)
}

func TestRecordVisit_IgnoresInternalAndBlank(t *testing.T) {
	ctx := visitTestCtx()
	repo := &fakeHistoryRepo{}
	uc := NewRecordVisitUseCase(repo)

	uc.Record(ctx, "t1", "")
	uc.Record(ctx, "t1", "about:blank")
	uc.Record(ctx, "t1", "neuralweb://home")
	uc.Record(ctx, "t1", "neuralweb://crash")

	assert.Empty(t, repo.added)
	assert.Empty(t, uc.TopSites(10))
}

func TestRecordVisit_SuppressesRapidRevisit(t *testing.T) {
	ctx := visitTestCtx()
	repo := &fakeHistoryRepo{}
	uc := NewRecordVisitUseCase(repo)

	clock := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	uc.now = func() time.Time { return clock }

	uc.Record(ctx, "t1", "https://example.com")
	uc.Record(ctx, "t1", "https://example.com") // reload within window

	require.Len(t, repo.added, 1)
	assert.Equal(t, int64(1), uc.TopSites(1)[0].Visits)

	// Outside the window the revisit counts again.
	clock = clock.Add(3 * time.Second)
	uc.Record(ctx, "t1", "https://example.com")
	require.Len(t, repo.added, 2)

	// A different tab visiting the same URL is never suppressed.
	uc.Record(ctx, "t2", "https://example.com")
	require.Len(t, repo.added, 3)
}

func TestRecordVisit_ForgetDropsSuppression(t *testing.T) {
	ctx := visitTestCtx()
	repo := &fakeHistoryRepo{}
	uc := NewRecordVisitUseCase(repo)

	clock := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	uc.now = func() time.Time { return clock }

	uc.Record(ctx, "t1", "https://example.com")
	uc.Forget("t1")
	uc.Record(ctx, "t1", "https://example.com")

	assert.Len(t, repo.added, 2)
}

func TestRecordVisit_UpdateTitleSkipsInternal(t *testing.T) {
	ctx := visitTestCtx()
	repo := &fakeHistoryRepo{}
	uc := NewRecordVisitUseCase(repo)

	uc.UpdateTitle(ctx, "neuralweb://home", "Home")
	assert.Empty(t, repo.updates)

	uc.UpdateTitle(ctx, "https://example.com", "Example Domain")
	require.Len(t, repo.updates, 1)
	assert.Equal(t, "https://example.com", repo.updates[0].url)
	require.NotNil(t, repo.updates[0].update.Title)
	assert.Equal(t, "Example Domain", *repo.updates[0].update.Title)
}

func TestRecordVisit_TopSitesOrderingAndLimit(t *testing.T) {
	ctx := visitTestCtx()
	repo := &fakeHistoryRepo{}
	uc := NewRecordVisitUseCase(repo)
	uc.SetRevisitWindow(0)

	for range 3 {
		uc.Record(ctx, "t1", "https://c.com")
	}
	for range 2 {
		uc.Record(ctx, "t1", "https://a.com")
	}
	uc.Record(ctx, "t1", "https://b.com")

	ranks := uc.TopSites(2)
	require.Len(t, ranks, 2)
	assert.Equal(t, "c.com", ranks[0].Host)
	assert.Equal(t, "a.com", ranks[1].Host)

	// Ties break alphabetically.
	all := uc.TopSites(0)
	require.Len(t, all, 3)
	assert.Equal(t, "a.com", all[1].Host)
	assert.Equal(t, "b.com", all[2].Host)
}
