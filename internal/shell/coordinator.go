// Package shell coordinates tabs against their rendering surfaces: lifecycle,
// visibility, navigation events, and session persistence.
package shell

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/neuralweb/neuralweb/internal/application/port"
	"github.com/neuralweb/neuralweb/internal/application/usecase"
	"github.com/neuralweb/neuralweb/internal/domain/entity"
	"github.com/neuralweb/neuralweb/internal/domain/nwurl"
	"github.com/neuralweb/neuralweb/internal/logging"
)

// crashTestDelay is how long the force-crash test page lives before its
// renderer is terminated.
const crashTestDelay = time.Second

// tabContent is the tagged variant distinguishing internal pages from
// surface-backed content. Exactly one variant exists per tab.
type tabContent interface {
	isTabContent()
}

// internalPage marks a tab rendered by the shell UI itself; it owns no
// surface.
type internalPage struct {
	page string
}

func (internalPage) isTabContent() {}

// contentSurface marks a tab that exclusively owns one rendering surface.
type contentSurface struct {
	surface port.Surface
}

func (contentSurface) isTabContent() {}

// Notifier receives per-tab update notifications. An empty ID signals that
// the whole tab list should be re-read.
type Notifier func(tabID entity.TabID)

// InitialState carries optional state applied to a newly created tab.
type InitialState struct {
	Scroll *entity.Point
}

// Coordinator is the tab and surface lifecycle orchestrator. All mutating
// operations are serialized by one mutex, so registry invariants hold at
// every observation point; asynchronous surface events re-enter through the
// same lock and re-check that their tab still exists.
type Coordinator struct {
	mu     sync.Mutex
	tabs   *entity.TabList
	groups *entity.GroupList

	// content holds each tab's variant; pendingScroll holds scroll offsets
	// to apply exactly once after the first completed load.
	content       map[entity.TabID]tabContent
	pendingScroll map[entity.TabID]entity.Point

	window  port.HostWindow
	factory port.SurfaceFactory

	tabsUC   *usecase.ManageTabsUseCase
	groupsUC *usecase.ManageGroupsUseCase
	visits   *usecase.RecordVisitUseCase

	windowID   entity.WindowID
	chromeBand int
	crashDelay time.Duration
	hidden     bool // active surface explicitly hidden behind an overlay

	surfaceOpts port.SurfaceOptions

	notifier Notifier

	persist *persistBridge

	ctx context.Context
}

// Options configures a Coordinator.
type Options struct {
	WindowID   entity.WindowID
	Window     port.HostWindow
	Surfaces   port.SurfaceFactory
	Visits     *usecase.RecordVisitUseCase
	SnapshotUC *usecase.SnapshotSessionUseCase
	Settings   port.SettingsProvider
	ChromeBand int
	Logger     zerolog.Logger
}

// New creates a Coordinator with an empty registry.
func New(opts Options) *Coordinator {
	c := &Coordinator{
		tabs:          entity.NewTabList(),
		groups:        entity.NewGroupList(),
		content:       make(map[entity.TabID]tabContent),
		pendingScroll: make(map[entity.TabID]entity.Point),
		window:        opts.Window,
		factory:       opts.Surfaces,
		tabsUC:        usecase.NewManageTabsUseCase(uuid.NewString),
		groupsUC:      usecase.NewManageGroupsUseCase(uuid.NewString),
		visits:        opts.Visits,
		windowID:      opts.WindowID,
		chromeBand:    opts.ChromeBand,
		crashDelay:    crashTestDelay,
		surfaceOpts:   resolveSurfaceOptions(opts.Settings),
		ctx:           logging.WithContext(context.Background(), opts.Logger.With().Str("component", "shell").Logger()),
	}
	c.persist = newPersistBridge(c, opts.SnapshotUC)
	return c
}

// resolveSurfaceOptions reads the default surface configuration from the
// settings collaborator. Tab surfaces never get elevated privileges.
func resolveSurfaceOptions(settings port.SettingsProvider) port.SurfaceOptions {
	opts := port.SurfaceOptions{ScriptIsolation: true}
	if settings == nil {
		return opts
	}
	if v, ok := settings.Get("surface.script_isolation").(bool); ok {
		opts.ScriptIsolation = v
	}
	if v, ok := settings.Get("surface.hardware_accel").(bool); ok {
		opts.HardwareAccel = v
	}
	return opts
}

// SetNotifier registers the per-tab update observer.
func (c *Coordinator) SetNotifier(n Notifier) {
	c.mu.Lock()
	c.notifier = n
	c.mu.Unlock()
}

func (c *Coordinator) notify(tabID entity.TabID) {
	if c.notifier != nil {
		c.notifier(tabID)
	}
}

// CreateTab creates a tab for the given address and makes it active.
// Content-bearing addresses get a surface with a load initiated; internal
// pages are rendered by the shell and own no surface.
func (c *Coordinator) CreateTab(address string, initial *InitialState) (entity.TabID, error) {
	c.mu.Lock()

	input := usecase.CreateTabInput{TabList: c.tabs, Address: address}
	if initial != nil {
		input.Scroll = initial.Scroll
	}
	out, err := c.tabsUC.Create(c.ctx, input)
	if err != nil {
		c.mu.Unlock()
		return "", err
	}
	tab := out.Tab

	if nwurl.IsContentBearing(tab.URL) {
		if err := c.allocateSurfaceLocked(tab, initial); err != nil {
			c.tabs.Remove(tab.ID)
			c.mu.Unlock()
			return "", err
		}
	} else {
		c.content[tab.ID] = internalPage{page: tab.URL}
	}

	c.applyVisibilityLocked()
	c.mu.Unlock()

	c.notify("")
	c.persist.schedule()
	return tab.ID, nil
}

// allocateSurfaceLocked creates and wires a surface for a content-bearing
// tab and starts loading its URL. The crash test page additionally gets its
// renderer terminated after a short delay to exercise recovery.
func (c *Coordinator) allocateSurfaceLocked(tab *entity.Tab, initial *InitialState) error {
	log := logging.FromContext(c.ctx)

	surface, err := c.factory.Create(c.ctx, c.surfaceOpts)
	if err != nil {
		return err
	}
	c.content[tab.ID] = contentSurface{surface: surface}
	c.attachSurfaceEvents(tab.ID, surface)

	if initial != nil && initial.Scroll != nil {
		c.pendingScroll[tab.ID] = *initial.Scroll
	} else if tab.Scroll != nil {
		c.pendingScroll[tab.ID] = *tab.Scroll
	}

	if err := surface.Load(c.ctx, tab.URL); err != nil {
		log.Warn().Err(err).
			Str("tab_id", string(tab.ID)).
			Str("url", logging.TruncateURL(tab.URL, 60)).
			Msg("initial load failed to start")
	}

	if tab.URL == nwurl.PageCrash {
		id := tab.ID
		time.AfterFunc(c.crashDelay, func() {
			c.mu.Lock()
			cs, ok := c.content[id].(contentSurface)
			c.mu.Unlock()
			if ok && cs.surface == surface && !surface.IsDestroyed() {
				surface.Terminate("forced crash test")
			}
		})
	}

	log.Debug().
		Str("tab_id", string(tab.ID)).
		Uint64("surface_id", uint64(surface.ID())).
		Msg("surface allocated")
	return nil
}

// CloseTab destroys a tab, releasing its surface. Closing the active tab
// promotes another remaining tab; closing an unknown ID is a no-op.
func (c *Coordinator) CloseTab(tabID entity.TabID) bool {
	c.mu.Lock()

	tab := c.tabs.Find(tabID)
	if tab == nil {
		c.mu.Unlock()
		return false
	}

	c.releaseSurfaceLocked(tabID)
	delete(c.pendingScroll, tabID)
	delete(c.content, tabID)
	c.visits.Forget(tabID)
	c.tabsUC.Close(c.ctx, c.tabs, tabID)
	c.applyVisibilityLocked()

	c.mu.Unlock()
	c.notify("")
	c.persist.schedule()
	return true
}

// SwitchTab changes the active tab and updates surface visibility.
// Switching to the already-active tab only reapplies bounds; an unknown ID
// is a no-op reported as false.
func (c *Coordinator) SwitchTab(tabID entity.TabID) bool {
	c.mu.Lock()

	if c.tabs.Find(tabID) == nil {
		c.mu.Unlock()
		logging.FromContext(c.ctx).Debug().Str("tab_id", string(tabID)).Msg("switch: tab not found")
		return false
	}
	if c.tabs.ActiveTabID == tabID {
		c.repositionAttachedLocked()
		c.mu.Unlock()
		return true
	}

	c.tabsUC.Switch(c.ctx, c.tabs, tabID)
	c.applyVisibilityLocked()

	c.mu.Unlock()
	c.notify("")
	c.persist.schedule()
	return true
}

// NextTab switches to the next tab, wrapping around.
func (c *Coordinator) NextTab() bool {
	c.mu.Lock()
	next := c.tabs.IndexAfter(1)
	c.mu.Unlock()
	if next == "" {
		return false
	}
	return c.SwitchTab(next)
}

// PreviousTab switches to the previous tab, wrapping around.
func (c *Coordinator) PreviousTab() bool {
	c.mu.Lock()
	prev := c.tabs.IndexAfter(-1)
	c.mu.Unlock()
	if prev == "" {
		return false
	}
	return c.SwitchTab(prev)
}

// NavigateTab points a tab at a new address. Moving from content to an
// internal page releases the surface; moving from an internal page to
// content allocates one lazily.
func (c *Coordinator) NavigateTab(tabID entity.TabID, address string) bool {
	c.mu.Lock()

	tab := c.tabs.Find(tabID)
	if tab == nil {
		c.mu.Unlock()
		return false
	}

	ok := c.navigateLocked(tab, nwurl.Normalize(address))

	c.mu.Unlock()
	if ok {
		c.notify(tabID)
		c.persist.schedule()
	}
	return ok
}

// navigateLocked drives one tab navigation, handling the content/internal
// variant transitions in both directions.
func (c *Coordinator) navigateLocked(tab *entity.Tab, address string) bool {
	log := logging.FromContext(c.ctx)
	if address == "" {
		return false
	}

	if !nwurl.IsContentBearing(address) {
		// Content -> internal: the surface is released and the shell UI
		// renders the page itself.
		c.releaseSurfaceLocked(tab.ID)
		c.content[tab.ID] = internalPage{page: address}
		tab.RecordNavigation(address)
		tab.Title = nwurl.InternalTitle(address)
		tab.Favicon = ""
		c.applyVisibilityLocked()
		return true
	}

	cs, hasSurface := c.content[tab.ID].(contentSurface)
	if !hasSurface {
		// Internal -> content: allocate a fresh surface lazily.
		tab.RecordNavigation(address)
		if title := nwurl.InternalTitle(address); title != "" {
			tab.Title = title
		}
		if err := c.allocateSurfaceLocked(tab, nil); err != nil {
			log.Error().Err(err).Str("tab_id", string(tab.ID)).Msg("surface allocation failed")
			c.content[tab.ID] = internalPage{page: nwurl.PageHome}
			return false
		}
		c.applyVisibilityLocked()
		return true
	}

	// Content -> content: the URL and history update when the surface
	// reports the committed navigation, not here.
	if err := cs.surface.Load(c.ctx, address); err != nil {
		log.Warn().Err(err).
			Str("tab_id", string(tab.ID)).
			Str("url", logging.TruncateURL(address, 60)).
			Msg("navigation failed to start")
		return false
	}
	return true
}

// GoBack moves a tab one entry back in its navigation history.
func (c *Coordinator) GoBack(tabID entity.TabID) bool {
	return c.travel(tabID, func(tab *entity.Tab) (string, bool) { return tab.GoBack() })
}

// GoForward moves a tab one entry forward in its navigation history.
func (c *Coordinator) GoForward(tabID entity.TabID) bool {
	return c.travel(tabID, func(tab *entity.Tab) (string, bool) { return tab.GoForward() })
}

func (c *Coordinator) travel(tabID entity.TabID, move func(*entity.Tab) (string, bool)) bool {
	c.mu.Lock()

	tab := c.tabs.Find(tabID)
	if tab == nil {
		c.mu.Unlock()
		return false
	}
	address, ok := move(tab)
	if !ok {
		c.mu.Unlock()
		return false
	}
	c.navigateHistoryLocked(tab, address)

	c.mu.Unlock()
	c.notify(tabID)
	c.persist.schedule()
	return true
}

// navigateHistoryLocked applies a back/forward target: the history cursor
// has already moved, so only the content variant and surface need updating.
func (c *Coordinator) navigateHistoryLocked(tab *entity.Tab, address string) {
	log := logging.FromContext(c.ctx)

	if !nwurl.IsContentBearing(address) {
		c.releaseSurfaceLocked(tab.ID)
		c.content[tab.ID] = internalPage{page: address}
		tab.Title = nwurl.InternalTitle(address)
		tab.Favicon = ""
		c.applyVisibilityLocked()
		return
	}

	cs, hasSurface := c.content[tab.ID].(contentSurface)
	if !hasSurface {
		if err := c.allocateSurfaceLocked(tab, nil); err != nil {
			log.Error().Err(err).Str("tab_id", string(tab.ID)).Msg("surface allocation failed")
			c.content[tab.ID] = internalPage{page: nwurl.PageHome}
			return
		}
		c.applyVisibilityLocked()
		return
	}
	if err := cs.surface.Load(c.ctx, address); err != nil {
		log.Warn().Err(err).Str("tab_id", string(tab.ID)).Msg("history navigation failed to start")
	}
}

// RefreshTab reloads a content tab's surface. Internal pages have nothing
// to reload.
func (c *Coordinator) RefreshTab(tabID entity.TabID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.tabs.Find(tabID) == nil {
		return false
	}
	cs, ok := c.content[tabID].(contentSurface)
	if !ok {
		return true
	}
	if err := cs.surface.Reload(c.ctx); err != nil {
		logging.FromContext(c.ctx).Warn().Err(err).
			Str("tab_id", string(tabID)).
			Msg("reload failed to start")
		return false
	}
	return true
}

// releaseSurfaceLocked detaches and destroys a tab's surface, if any.
func (c *Coordinator) releaseSurfaceLocked(tabID entity.TabID) {
	cs, ok := c.content[tabID].(contentSurface)
	if !ok {
		return
	}
	cs.surface.SetCallbacks(port.SurfaceCallbacks{})
	c.window.Detach(cs.surface)
	cs.surface.Destroy()
	delete(c.content, tabID)
	delete(c.pendingScroll, tabID)

	logging.FromContext(c.ctx).Debug().
		Str("tab_id", string(tabID)).
		Uint64("surface_id", uint64(cs.surface.ID())).
		Msg("surface released")
}

// ListTabs returns snapshots of every tab, in order.
func (c *Coordinator) ListTabs() []entity.TabSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return entity.Snapshot(c.windowID, c.tabs, c.groups).Tabs
}

// ListGroups returns the current groups.
func (c *Coordinator) ListGroups() []entity.Group {
	c.mu.Lock()
	defer c.mu.Unlock()
	groups := make([]entity.Group, 0, c.groups.Count())
	for _, g := range c.groups.Groups {
		groups = append(groups, *g)
	}
	return groups
}

// ActiveTabID returns the active tab's ID, or "" when no tabs exist.
func (c *Coordinator) ActiveTabID() entity.TabID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tabs.ActiveTabID
}

// CreateGroup adds a new tab group.
func (c *Coordinator) CreateGroup(name, color string) entity.Group {
	c.mu.Lock()
	group := c.groupsUC.Create(c.ctx, c.groups, name, color)
	c.mu.Unlock()
	c.notify("")
	c.persist.schedule()
	return *group
}

// DeleteGroup removes a group, clearing the reference on every member tab.
func (c *Coordinator) DeleteGroup(groupID entity.GroupID) bool {
	c.mu.Lock()
	ok := c.groupsUC.Delete(c.ctx, c.groups, c.tabs, groupID)
	c.mu.Unlock()
	if ok {
		c.notify("")
		c.persist.schedule()
	}
	return ok
}

// AssignTabToGroup puts a tab into a group.
func (c *Coordinator) AssignTabToGroup(tabID entity.TabID, groupID entity.GroupID) bool {
	c.mu.Lock()
	ok := c.groupsUC.Assign(c.ctx, c.groups, c.tabs, tabID, groupID)
	c.mu.Unlock()
	if ok {
		c.notify(tabID)
		c.persist.schedule()
	}
	return ok
}

// RemoveTabFromGroup clears a tab's group reference.
func (c *Coordinator) RemoveTabFromGroup(tabID entity.TabID) bool {
	c.mu.Lock()
	ok := c.groupsUC.Clear(c.ctx, c.tabs, tabID)
	c.mu.Unlock()
	if ok {
		c.notify(tabID)
		c.persist.schedule()
	}
	return ok
}

// Restore replaces the registry with a previously snapshotted window state.
// Content-bearing tabs get surfaces allocated with loads initiated; the
// active tab's surface becomes the attached one.
func (c *Coordinator) Restore(out *usecase.RestoreOutput) {
	if out == nil {
		return
	}
	c.mu.Lock()

	// Tear down whatever the registry holds before adopting the restored
	// lists, so surfaces from pre-restore tabs never outlive their entries.
	for tabID := range c.content {
		c.releaseSurfaceLocked(tabID)
		delete(c.content, tabID)
		delete(c.pendingScroll, tabID)
	}
	for _, tab := range c.tabs.Tabs {
		c.visits.Forget(tab.ID)
	}

	c.tabs = out.Tabs
	c.groups = out.Groups
	for _, tab := range c.tabs.Tabs {
		if nwurl.IsContentBearing(tab.URL) {
			if err := c.allocateSurfaceLocked(tab, nil); err != nil {
				logging.FromContext(c.ctx).Error().Err(err).
					Str("tab_id", string(tab.ID)).
					Msg("restore: surface allocation failed")
				c.content[tab.ID] = internalPage{page: nwurl.PageHome}
			}
		} else {
			c.content[tab.ID] = internalPage{page: tab.URL}
		}
	}
	c.applyVisibilityLocked()

	c.mu.Unlock()
	c.notify("")
	c.persist.schedule()
}

// Flush forces any pending persistence to complete synchronously.
// Used on shutdown.
func (c *Coordinator) Flush(ctx context.Context) error {
	return c.persist.flush(ctx)
}
