// Package surface provides the headless rendering-surface engine. It
// implements the surface port with real asynchronous load and crash
// semantics but no actual rendering, and is the backend used when no native
// engine is linked in.
package surface

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/neuralweb/neuralweb/internal/application/port"
	"github.com/neuralweb/neuralweb/internal/domain/entity"
)

// defaultLoadDelay simulates network plus parse latency for a page load.
const defaultLoadDelay = 10 * time.Millisecond

// Engine allocates headless surfaces and tracks the live set.
type Engine struct {
	logger    zerolog.Logger
	loadDelay time.Duration

	mu      sync.RWMutex
	views   map[port.SurfaceID]*Surface
	counter atomic.Uint64
}

// EngineOption customizes engine behavior.
type EngineOption func(*Engine)

// WithLoadDelay overrides the simulated load latency.
func WithLoadDelay(d time.Duration) EngineOption {
	return func(e *Engine) { e.loadDelay = d }
}

// NewEngine creates a headless surface engine.
func NewEngine(logger zerolog.Logger, opts ...EngineOption) *Engine {
	e := &Engine{
		logger:    logger.With().Str("component", "surface-engine").Logger(),
		loadDelay: defaultLoadDelay,
		views:     make(map[port.SurfaceID]*Surface),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Create allocates a new surface.
func (e *Engine) Create(_ context.Context, opts port.SurfaceOptions) (port.Surface, error) {
	id := port.SurfaceID(e.counter.Add(1))
	s := &Surface{
		id:     id,
		engine: e,
		opts:   opts,
		logger: e.logger.With().Uint64("surface_id", uint64(id)).Logger(),
	}

	e.mu.Lock()
	e.views[id] = s
	e.mu.Unlock()

	s.logger.Debug().
		Bool("script_isolation", opts.ScriptIsolation).
		Bool("hardware_accel", opts.HardwareAccel).
		Msg("surface created")
	return s, nil
}

// Lookup returns a live surface by ID, or nil.
func (e *Engine) Lookup(id port.SurfaceID) *Surface {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.views[id]
}

// Count returns the number of live surfaces.
func (e *Engine) Count() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.views)
}

func (e *Engine) unregister(id port.SurfaceID) {
	e.mu.Lock()
	delete(e.views, id)
	e.mu.Unlock()
}

// Surface is a headless rendering surface. Loads complete asynchronously on
// an engine goroutine; callbacks are never invoked from the caller's stack.
type Surface struct {
	id     port.SurfaceID
	engine *Engine
	opts   port.SurfaceOptions
	logger zerolog.Logger

	mu     sync.RWMutex
	cb     port.SurfaceCallbacks
	uri    string
	bounds struct{ x, y, w, h int }
	scroll struct{ x, y int }

	destroyed atomic.Bool
	loadSeq   atomic.Uint64
}

var _ port.Surface = (*Surface)(nil)

// ID returns the surface's unique identifier.
func (s *Surface) ID() port.SurfaceID {
	return s.id
}

// SetCallbacks registers the event handler set.
func (s *Surface) SetCallbacks(cb port.SurfaceCallbacks) {
	s.mu.Lock()
	s.cb = cb
	s.mu.Unlock()
}

func (s *Surface) callbacks() port.SurfaceCallbacks {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cb
}

// URI returns the current address.
func (s *Surface) URI() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.uri
}

// Load begins loading the address. Completion arrives through the
// callbacks; a load superseded by a newer one emits nothing.
func (s *Surface) Load(ctx context.Context, uri string) error {
	if s.destroyed.Load() {
		return fmt.Errorf("surface %d destroyed", s.id)
	}
	if uri == "" {
		return fmt.Errorf("empty uri")
	}

	seq := s.loadSeq.Add(1)
	go s.completeLoad(ctx, seq, uri)
	return nil
}

// Reload reloads the current address.
func (s *Surface) Reload(ctx context.Context) error {
	uri := s.URI()
	if uri == "" {
		return fmt.Errorf("nothing to reload")
	}
	return s.Load(ctx, uri)
}

// completeLoad commits the navigation after the simulated latency and
// emits the event sequence a real engine would: navigated, then load
// finished.
func (s *Surface) completeLoad(ctx context.Context, seq uint64, uri string) {
	if s.engine.loadDelay > 0 {
		timer := time.NewTimer(s.engine.loadDelay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}
	}
	if s.destroyed.Load() || s.loadSeq.Load() != seq {
		return
	}

	s.mu.Lock()
	s.uri = uri
	s.mu.Unlock()

	cb := s.callbacks()
	if cb.OnNavigated != nil {
		cb.OnNavigated(uri)
	}
	if cb.OnLoadFinished != nil {
		cb.OnLoadFinished(uri)
	}
}

// NavigateInPage simulates a same-document navigation (fragment or history
// API) committed by page script.
func (s *Surface) NavigateInPage(uri string) {
	if s.destroyed.Load() {
		return
	}
	s.mu.Lock()
	s.uri = uri
	s.mu.Unlock()

	if cb := s.callbacks(); cb.OnNavigatedInPage != nil {
		go cb.OnNavigatedInPage(uri)
	}
}

// EmitTitle simulates the page publishing its title.
func (s *Surface) EmitTitle(title string) {
	if s.destroyed.Load() {
		return
	}
	if cb := s.callbacks(); cb.OnTitleChanged != nil {
		go cb.OnTitleChanged(title)
	}
}

// EmitFavicons simulates the page publishing favicon candidates.
func (s *Surface) EmitFavicons(candidates []string) {
	if s.destroyed.Load() {
		return
	}
	if cb := s.callbacks(); cb.OnFaviconChanged != nil {
		go cb.OnFaviconChanged(candidates)
	}
}

// FailLoad simulates a load failure. Page state is unchanged.
func (s *Surface) FailLoad(uri string, reason error) {
	if s.destroyed.Load() {
		return
	}
	if cb := s.callbacks(); cb.OnLoadFailed != nil {
		go cb.OnLoadFailed(uri, reason)
	}
}

// SetBounds positions the surface inside the host window.
func (s *Surface) SetBounds(bounds entity.Rect) {
	s.mu.Lock()
	s.bounds.x, s.bounds.y = bounds.X, bounds.Y
	s.bounds.w, s.bounds.h = bounds.W, bounds.H
	s.mu.Unlock()
}

// ScrollPosition returns the current scroll offset.
func (s *Surface) ScrollPosition(ctx context.Context) (entity.Point, error) {
	if s.destroyed.Load() {
		return entity.Point{}, fmt.Errorf("surface %d destroyed", s.id)
	}
	if err := ctx.Err(); err != nil {
		return entity.Point{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return entity.Point{X: s.scroll.x, Y: s.scroll.y}, nil
}

// RestoreScroll applies a scroll offset.
func (s *Surface) RestoreScroll(p entity.Point) {
	if s.destroyed.Load() {
		return
	}
	s.mu.Lock()
	s.scroll.x, s.scroll.y = p.X, p.Y
	s.mu.Unlock()
}

// SetScroll records page-driven scrolling.
func (s *Surface) SetScroll(p entity.Point) {
	s.RestoreScroll(p)
}

// Terminate force-kills the renderer process. The surface stays usable: a
// subsequent Load transparently restarts the renderer, which is how crash
// recovery reloads the diagnostic page into the same surface.
func (s *Surface) Terminate(reason string) {
	if s.destroyed.Load() {
		return
	}
	s.logger.Warn().Str("reason", reason).Msg("renderer terminated")

	// Cancel any in-flight load; the dead renderer finishes nothing.
	s.loadSeq.Add(1)

	if cb := s.callbacks(); cb.OnCrashed != nil {
		go cb.OnCrashed(reason)
	}
}

// Destroy releases the surface. Safe to call more than once.
func (s *Surface) Destroy() {
	if !s.destroyed.CompareAndSwap(false, true) {
		return
	}
	s.loadSeq.Add(1)
	s.SetCallbacks(port.SurfaceCallbacks{})
	s.engine.unregister(s.id)
	s.logger.Debug().Msg("surface destroyed")
}

// IsDestroyed reports whether Destroy has been called.
func (s *Surface) IsDestroyed() bool {
	return s.destroyed.Load()
}
