package shell

import (
	"context"
	"sync"

	"github.com/neuralweb/neuralweb/internal/application/port"
	"github.com/neuralweb/neuralweb/internal/application/usecase"
	"github.com/neuralweb/neuralweb/internal/domain/entity"
	"github.com/neuralweb/neuralweb/internal/domain/repository"
	"github.com/neuralweb/neuralweb/internal/logging"
)

// fakeSurface is a scriptable stand-in for a rendering surface. Loads only
// record the request; tests drive the event stream by invoking the captured
// callbacks, which mirrors the engine's asynchronous delivery.
type fakeSurface struct {
	id port.SurfaceID

	mu        sync.Mutex
	cb        port.SurfaceCallbacks
	uri       string
	loads     []string
	reloads   int
	bounds    entity.Rect
	scroll    entity.Point
	restored  []entity.Point
	destroyed bool
	loadErr   error
}

func (s *fakeSurface) ID() port.SurfaceID { return s.id }

func (s *fakeSurface) SetCallbacks(cb port.SurfaceCallbacks) {
	s.mu.Lock()
	s.cb = cb
	s.mu.Unlock()
}

// callbacks returns the currently registered handler set.
func (s *fakeSurface) callbacks() port.SurfaceCallbacks {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cb
}

func (s *fakeSurface) Load(_ context.Context, uri string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return s.loadErr
	}
	s.uri = uri
	s.loads = append(s.loads, uri)
	return nil
}

func (s *fakeSurface) Reload(context.Context) error {
	s.mu.Lock()
	s.reloads++
	s.mu.Unlock()
	return nil
}

func (s *fakeSurface) URI() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.uri
}

func (s *fakeSurface) SetBounds(bounds entity.Rect) {
	s.mu.Lock()
	s.bounds = bounds
	s.mu.Unlock()
}

func (s *fakeSurface) ScrollPosition(context.Context) (entity.Point, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scroll, nil
}

func (s *fakeSurface) setScroll(p entity.Point) {
	s.mu.Lock()
	s.scroll = p
	s.mu.Unlock()
}

func (s *fakeSurface) RestoreScroll(p entity.Point) {
	s.mu.Lock()
	s.restored = append(s.restored, p)
	s.mu.Unlock()
}

func (s *fakeSurface) Terminate(reason string) {
	cb := s.callbacks()
	if cb.OnCrashed != nil {
		cb.OnCrashed(reason)
	}
}

func (s *fakeSurface) Destroy() {
	s.mu.Lock()
	s.destroyed = true
	s.mu.Unlock()
}

func (s *fakeSurface) IsDestroyed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.destroyed
}

func (s *fakeSurface) loadHistory() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.loads...)
}

func (s *fakeSurface) lastLoad() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.loads) == 0 {
		return ""
	}
	return s.loads[len(s.loads)-1]
}

func (s *fakeSurface) restoredScrolls() []entity.Point {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entity.Point(nil), s.restored...)
}

func (s *fakeSurface) currentBounds() entity.Rect {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bounds
}

type fakeFactory struct {
	mu        sync.Mutex
	nextID    port.SurfaceID
	created   []*fakeSurface
	lastOpts  port.SurfaceOptions
	createErr error
}

func (f *fakeFactory) Create(_ context.Context, opts port.SurfaceOptions) (port.Surface, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.nextID++
	s := &fakeSurface{id: f.nextID}
	f.created = append(f.created, s)
	f.lastOpts = opts
	return s, nil
}

func (f *fakeFactory) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.created)
}

func (f *fakeFactory) surface(i int) *fakeSurface {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.created[i]
}

type fakeHostWindow struct {
	mu       sync.Mutex
	bounds   entity.Rect
	attached []port.Surface
}

func (w *fakeHostWindow) Attach(s port.Surface) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, a := range w.attached {
		if a.ID() == s.ID() {
			return
		}
	}
	w.attached = append(w.attached, s)
}

func (w *fakeHostWindow) Detach(s port.Surface) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for i, a := range w.attached {
		if a.ID() == s.ID() {
			w.attached = append(w.attached[:i], w.attached[i+1:]...)
			return
		}
	}
}

func (w *fakeHostWindow) Attached() []port.SurfaceID {
	w.mu.Lock()
	defer w.mu.Unlock()
	ids := make([]port.SurfaceID, 0, len(w.attached))
	for _, a := range w.attached {
		ids = append(ids, a.ID())
	}
	return ids
}

func (w *fakeHostWindow) Bounds() entity.Rect {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.bounds
}

func (w *fakeHostWindow) SetBounds(b entity.Rect) {
	w.mu.Lock()
	w.bounds = b
	w.mu.Unlock()
}

// nullHistoryRepo discards everything; shell tests are not about history
// persistence.
type nullHistoryRepo struct{}

func (nullHistoryRepo) AddEntry(context.Context, *entity.HistoryEntry) error { return nil }
func (nullHistoryRepo) UpdateLastEntry(context.Context, string, repository.HistoryUpdate) error {
	return nil
}
func (nullHistoryRepo) FindByURL(context.Context, string) (*entity.HistoryEntry, error) {
	return nil, nil
}
func (nullHistoryRepo) Recent(context.Context, int) ([]*entity.HistoryEntry, error) {
	return nil, nil
}
func (nullHistoryRepo) Search(context.Context, string, int) ([]*entity.HistoryEntry, error) {
	return nil, nil
}
func (nullHistoryRepo) TopSites(context.Context, int) ([]entity.SiteRank, error) { return nil, nil }
func (nullHistoryRepo) Stats(context.Context) (*entity.HistoryStats, error) {
	return &entity.HistoryStats{}, nil
}

type recordingSink struct {
	mu     sync.Mutex
	states []*entity.SessionState
}

func (r *recordingSink) UpdateWindow(_ context.Context, state *entity.SessionState) error {
	r.mu.Lock()
	r.states = append(r.states, state)
	r.mu.Unlock()
	return nil
}

func (r *recordingSink) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.states)
}

func (r *recordingSink) last() *entity.SessionState {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.states) == 0 {
		return nil
	}
	return r.states[len(r.states)-1]
}

// newTestShell builds a coordinator over fake collaborators. Passing a nil
// sink disables persistence entirely.
func newTestShell(sink port.SessionSink) (*Coordinator, *fakeFactory, *fakeHostWindow) {
	factory := &fakeFactory{}
	window := &fakeHostWindow{bounds: entity.Rect{W: 1280, H: 800}}

	var snapshotUC *usecase.SnapshotSessionUseCase
	if sink != nil {
		snapshotUC = usecase.NewSnapshotSessionUseCase(sink)
	}

	c := New(Options{
		WindowID:   "main",
		Window:     window,
		Surfaces:   factory,
		Visits:     usecase.NewRecordVisitUseCase(nullHistoryRepo{}),
		SnapshotUC: snapshotUC,
		ChromeBand: 48,
		Logger:     logging.NewFromConfigValues("debug", "console"),
	})
	return c, factory, window
}
