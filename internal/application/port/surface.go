// Package port defines application-layer interfaces for external capabilities.
// Ports abstract infrastructure concerns, allowing the application and shell
// layers to remain independent of a specific rendering engine.
package port

import (
	"context"

	"github.com/neuralweb/neuralweb/internal/domain/entity"
)

// SurfaceID uniquely identifies a rendering surface.
type SurfaceID uint64

// SurfaceOptions configures a new surface.
type SurfaceOptions struct {
	// ScriptIsolation runs page scripts in an isolated world.
	ScriptIsolation bool
	// ElevatedPrivileges grants host-level capabilities; always false for
	// tab content surfaces.
	ElevatedPrivileges bool
	// HardwareAccel enables GPU compositing when the engine supports it.
	HardwareAccel bool
}

// SurfaceCallbacks defines the event stream a surface emits. Handlers are
// invoked asynchronously relative to the call that started the operation;
// they must tolerate the owning tab having been closed meanwhile.
type SurfaceCallbacks struct {
	// OnTitleChanged is called when the page title changes.
	OnTitleChanged func(title string)
	// OnFaviconChanged is called with candidate favicon URLs, best first.
	OnFaviconChanged func(candidates []string)
	// OnNavigated is called after a committed top-level navigation.
	OnNavigated func(uri string)
	// OnNavigatedInPage is called for same-document navigations.
	OnNavigatedInPage func(uri string)
	// OnLoadFinished is called when a page load completes.
	OnLoadFinished func(uri string)
	// OnLoadFailed is called when a load fails; the page state is unchanged.
	OnLoadFailed func(uri string, reason error)
	// OnCrashed is called when the renderer process dies.
	OnCrashed func(reason string)
}

// Surface is an isolated, sandboxed content-display unit owned by exactly
// one tab. Loads are fire-and-forget: completion or failure arrives through
// the callbacks, not as a return value.
type Surface interface {
	// ID returns the unique identifier for this surface.
	ID() SurfaceID

	// SetCallbacks registers the event handler set. Passing the zero value
	// unregisters all handlers.
	SetCallbacks(cb SurfaceCallbacks)

	// Load begins loading the given address.
	Load(ctx context.Context, uri string) error

	// Reload reloads the current address.
	Reload(ctx context.Context) error

	// URI returns the surface's current address.
	URI() string

	// SetBounds positions the surface inside the host window.
	SetBounds(bounds entity.Rect)

	// ScrollPosition queries the current scroll offset. It fails when the
	// surface has been destroyed between scheduling and execution.
	ScrollPosition(ctx context.Context) (entity.Point, error)

	// RestoreScroll applies a scroll offset once the page can take it.
	RestoreScroll(p entity.Point)

	// Terminate force-kills the renderer process, triggering OnCrashed.
	Terminate(reason string)

	// Destroy releases the surface. Safe to call more than once.
	Destroy()

	// IsDestroyed reports whether Destroy has been called.
	IsDestroyed() bool
}

// SurfaceFactory allocates rendering surfaces.
type SurfaceFactory interface {
	Create(ctx context.Context, opts SurfaceOptions) (Surface, error)
}
