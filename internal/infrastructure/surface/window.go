package surface

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/neuralweb/neuralweb/internal/application/port"
	"github.com/neuralweb/neuralweb/internal/domain/entity"
)

// Window is the headless host window. It tracks attachment and geometry
// without drawing anything.
type Window struct {
	logger zerolog.Logger

	mu       sync.RWMutex
	bounds   entity.Rect
	attached map[port.SurfaceID]struct{}
	order    []port.SurfaceID
}

var _ port.HostWindow = (*Window)(nil)

// NewWindow creates a headless window with the given inner bounds.
func NewWindow(logger zerolog.Logger, bounds entity.Rect) *Window {
	return &Window{
		logger:   logger.With().Str("component", "host-window").Logger(),
		bounds:   bounds,
		attached: make(map[port.SurfaceID]struct{}),
	}
}

// Attach makes the surface a child of the window.
func (w *Window) Attach(s port.Surface) {
	if s == nil {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.attached[s.ID()]; ok {
		return
	}
	w.attached[s.ID()] = struct{}{}
	w.order = append(w.order, s.ID())
	w.logger.Debug().Uint64("surface_id", uint64(s.ID())).Msg("surface attached")
}

// Detach removes the surface from the window.
func (w *Window) Detach(s port.Surface) {
	if s == nil {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.attached[s.ID()]; !ok {
		return
	}
	delete(w.attached, s.ID())
	for i, id := range w.order {
		if id == s.ID() {
			w.order = append(w.order[:i], w.order[i+1:]...)
			break
		}
	}
	w.logger.Debug().Uint64("surface_id", uint64(s.ID())).Msg("surface detached")
}

// Attached returns the IDs of currently attached surfaces in attach order.
func (w *Window) Attached() []port.SurfaceID {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]port.SurfaceID, len(w.order))
	copy(out, w.order)
	return out
}

// Bounds returns the window's full inner rectangle.
func (w *Window) Bounds() entity.Rect {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.bounds
}

// SetBounds records a window resize or move.
func (w *Window) SetBounds(b entity.Rect) {
	w.mu.Lock()
	w.bounds = b
	w.mu.Unlock()
}
