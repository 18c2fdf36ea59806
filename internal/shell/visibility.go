package shell

import (
	"github.com/neuralweb/neuralweb/internal/application/port"
	"github.com/neuralweb/neuralweb/internal/domain/entity"
	"github.com/neuralweb/neuralweb/internal/logging"
)

// contentBoundsLocked returns the window's content rectangle: the full
// window minus the chrome band at the top.
func (c *Coordinator) contentBoundsLocked() entity.Rect {
	return c.window.Bounds().Inset(c.chromeBand)
}

// applyVisibilityLocked enforces the visibility invariant: every surface is
// detached, then the active tab's surface (if it owns one and is not
// explicitly hidden) is attached and bounded to the content area. Internal
// pages attach nothing; the shell UI renders them.
func (c *Coordinator) applyVisibilityLocked() {
	for _, id := range c.window.Attached() {
		if s := c.surfaceByIDLocked(id); s != nil {
			c.window.Detach(s)
		}
	}

	if c.hidden {
		return
	}
	active := c.tabs.ActiveTab()
	if active == nil {
		return
	}
	cs, ok := c.content[active.ID].(contentSurface)
	if !ok {
		return
	}

	c.window.Attach(cs.surface)
	cs.surface.SetBounds(c.contentBoundsLocked())
}

// repositionAttachedLocked reapplies the content bounds to the currently
// attached surface only. Detached surfaces are not repositioned.
func (c *Coordinator) repositionAttachedLocked() {
	bounds := c.contentBoundsLocked()
	for _, id := range c.window.Attached() {
		if s := c.surfaceByIDLocked(id); s != nil {
			s.SetBounds(bounds)
		}
	}
}

// surfaceByIDLocked resolves an attached surface ID back to the surface
// owned by one of the tabs.
func (c *Coordinator) surfaceByIDLocked(id port.SurfaceID) port.Surface {
	for _, content := range c.content {
		if cs, ok := content.(contentSurface); ok && cs.surface.ID() == id {
			return cs.surface
		}
	}
	return nil
}

// RepositionSurfaces recomputes the attached surface's bounds. Called on
// host window resize or move.
func (c *Coordinator) RepositionSurfaces() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.repositionAttachedLocked()
}

// HideActiveSurface detaches the active surface without changing which tab
// is active, e.g. while a transient overlay obscures content.
func (c *Coordinator) HideActiveSurface() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.hidden {
		return
	}
	c.hidden = true
	c.applyVisibilityLocked()
	logging.FromContext(c.ctx).Debug().Msg("active surface hidden")
}

// ShowActiveSurface reattaches the active surface after HideActiveSurface.
func (c *Coordinator) ShowActiveSurface() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.hidden {
		return
	}
	c.hidden = false
	c.applyVisibilityLocked()
	logging.FromContext(c.ctx).Debug().Msg("active surface shown")
}
