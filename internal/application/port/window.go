package port

import "github.com/neuralweb/neuralweb/internal/domain/entity"

// HostWindow is the single top-level window surfaces are attached into.
// Attachment is exclusive in practice: the visibility controller detaches
// every surface before attaching the next one.
type HostWindow interface {
	// Attach makes the surface a child of the window.
	Attach(s Surface)

	// Detach removes the surface from the window. Detaching a surface that
	// is not attached is a no-op.
	Detach(s Surface)

	// Attached returns the IDs of currently attached surfaces.
	Attached() []SurfaceID

	// Bounds returns the window's full inner rectangle.
	Bounds() entity.Rect

	// SetBounds records a window resize or move.
	SetBounds(b entity.Rect)
}
