package shell

import (
	"github.com/neuralweb/neuralweb/internal/application/port"
	"github.com/neuralweb/neuralweb/internal/domain/entity"
	"github.com/neuralweb/neuralweb/internal/logging"
)

// attachSurfaceEvents subscribes the coordinator to a surface's event
// stream. Handlers arrive on engine goroutines; each one re-enters the
// registry lock and verifies the tab still exists and still owns this
// surface before mutating anything (check-then-act).
func (c *Coordinator) attachSurfaceEvents(tabID entity.TabID, surface port.Surface) {
	surface.SetCallbacks(port.SurfaceCallbacks{
		OnTitleChanged: func(title string) {
			c.onTitleChanged(tabID, surface, title)
		},
		OnFaviconChanged: func(candidates []string) {
			c.onFaviconChanged(tabID, surface, candidates)
		},
		OnNavigated: func(uri string) {
			c.onNavigated(tabID, surface, uri)
		},
		OnNavigatedInPage: func(uri string) {
			c.onNavigated(tabID, surface, uri)
		},
		OnLoadFinished: func(uri string) {
			c.onLoadFinished(tabID, surface)
		},
		OnLoadFailed: func(uri string, reason error) {
			logging.FromContext(c.ctx).Warn().Err(reason).
				Str("tab_id", string(tabID)).
				Str("url", logging.TruncateURL(uri, 60)).
				Msg("page load failed")
		},
		OnCrashed: func(reason string) {
			c.onCrashed(tabID, surface, reason)
		},
	})
}

// ownsLocked reports whether the tab still exists and still owns the given
// surface. Stale events from released surfaces no-op through this check.
func (c *Coordinator) ownsLocked(tabID entity.TabID, surface port.Surface) (*entity.Tab, bool) {
	tab := c.tabs.Find(tabID)
	if tab == nil {
		return nil, false
	}
	cs, ok := c.content[tabID].(contentSurface)
	if !ok || cs.surface != surface {
		return nil, false
	}
	return tab, true
}

func (c *Coordinator) onTitleChanged(tabID entity.TabID, surface port.Surface, title string) {
	c.mu.Lock()
	tab, ok := c.ownsLocked(tabID, surface)
	if !ok {
		c.mu.Unlock()
		return
	}
	tab.Title = title
	url := tab.URL
	c.mu.Unlock()

	c.visits.UpdateTitle(c.ctx, url, title)
	c.notify(tabID)
	c.persist.schedule()
}

func (c *Coordinator) onFaviconChanged(tabID entity.TabID, surface port.Surface, candidates []string) {
	if len(candidates) == 0 {
		return
	}
	c.mu.Lock()
	tab, ok := c.ownsLocked(tabID, surface)
	if !ok {
		c.mu.Unlock()
		return
	}
	tab.Favicon = candidates[0]
	url := tab.URL
	c.mu.Unlock()

	c.visits.UpdateFavicon(c.ctx, url, candidates[0])
	c.notify(tabID)
	c.persist.schedule()
}

func (c *Coordinator) onNavigated(tabID entity.TabID, surface port.Surface, uri string) {
	c.mu.Lock()
	tab, ok := c.ownsLocked(tabID, surface)
	if !ok {
		c.mu.Unlock()
		return
	}
	tab.RecordNavigation(uri)
	c.mu.Unlock()

	c.visits.Record(c.ctx, tabID, uri)
	c.notify(tabID)
	c.persist.schedule()
}

// onLoadFinished applies a pending initial scroll position exactly once,
// after the first completed load. Later loads keep whatever the page does.
func (c *Coordinator) onLoadFinished(tabID entity.TabID, surface port.Surface) {
	c.mu.Lock()
	_, ok := c.ownsLocked(tabID, surface)
	if !ok {
		c.mu.Unlock()
		return
	}
	p, pending := c.pendingScroll[tabID]
	if pending {
		delete(c.pendingScroll, tabID)
	}
	c.mu.Unlock()

	if pending {
		surface.RestoreScroll(p)
	}
}

// onCrashed runs the crash recovery path: the surface is told to load the
// diagnostic page carrying the pre-crash URL and failure reason. The
// surface object itself is kept; the engine restarts the renderer process
// on the reload.
func (c *Coordinator) onCrashed(tabID entity.TabID, surface port.Surface, reason string) {
	log := logging.FromContext(c.ctx)

	c.mu.Lock()
	tab, ok := c.ownsLocked(tabID, surface)
	if !ok {
		c.mu.Unlock()
		return
	}
	preCrashURL := tab.URL
	c.mu.Unlock()

	log.Error().
		Str("tab_id", string(tabID)).
		Str("url", logging.TruncateURL(preCrashURL, 60)).
		Str("reason", reason).
		Msg("renderer crashed, loading crash report")

	if err := surface.Load(c.ctx, BuildCrashReportURI(preCrashURL, reason)); err != nil {
		log.Error().Err(err).Str("tab_id", string(tabID)).Msg("failed to load crash report page")
	}
}
