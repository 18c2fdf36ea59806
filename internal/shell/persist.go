package shell

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/neuralweb/neuralweb/internal/application/usecase"
	"github.com/neuralweb/neuralweb/internal/domain/entity"
	"github.com/neuralweb/neuralweb/internal/logging"
)

// scrollCaptureTimeout bounds the best-effort scroll query against a
// surface that may never answer.
const scrollCaptureTimeout = 250 * time.Millisecond

// persistBridge pushes a window snapshot to the session collaborator after
// every externally visible mutation. Writes are keyed by a monotonically
// increasing generation: a snapshot computed for generation N is discarded
// once a newer generation has been scheduled or committed, so an in-flight
// write can never clobber a fresher one.
type persistBridge struct {
	c          *Coordinator
	snapshotUC *usecase.SnapshotSessionUseCase

	scheduled atomic.Uint64

	mu        sync.Mutex // serializes commits
	committed uint64
}

func newPersistBridge(c *Coordinator, snapshotUC *usecase.SnapshotSessionUseCase) *persistBridge {
	return &persistBridge{c: c, snapshotUC: snapshotUC}
}

// schedule starts an asynchronous persistence pass for the current registry
// state.
func (b *persistBridge) schedule() {
	if b.snapshotUC == nil {
		return
	}
	gen := b.scheduled.Add(1)
	go b.run(gen)
}

// run captures the active tab's scroll offset, rebuilds the snapshot from
// live registry state, and commits it unless superseded. Because the
// snapshot is built after the asynchronous capture, it is never older than
// the mutation that triggered it.
func (b *persistBridge) run(gen uint64) {
	b.captureScroll()

	b.c.mu.Lock()
	if b.scheduled.Load() != gen {
		// A newer mutation already started a fresher snapshot.
		b.c.mu.Unlock()
		return
	}
	state := entity.Snapshot(b.c.windowID, b.c.tabs, b.c.groups)
	b.c.mu.Unlock()

	b.commit(gen, state)
}

// captureScroll queries the active surface for its scroll offset and stores
// it on the tab. Best-effort: a torn-down surface, a timeout, or the tab
// disappearing mid-flight all leave the previous captured value untouched.
func (b *persistBridge) captureScroll() {
	b.c.mu.Lock()
	active := b.c.tabs.ActiveTab()
	if active == nil {
		b.c.mu.Unlock()
		return
	}
	tabID := active.ID
	cs, ok := b.c.content[tabID].(contentSurface)
	b.c.mu.Unlock()
	if !ok || cs.surface.IsDestroyed() {
		return
	}

	ctx, cancel := context.WithTimeout(b.c.ctx, scrollCaptureTimeout)
	defer cancel()
	p, err := cs.surface.ScrollPosition(ctx)
	if err != nil {
		logging.FromContext(b.c.ctx).Debug().Err(err).
			Str("tab_id", string(tabID)).
			Msg("scroll capture skipped")
		return
	}

	b.c.mu.Lock()
	// The tab may have been closed between scheduling and execution.
	if tab := b.c.tabs.Find(tabID); tab != nil {
		tab.Scroll = &p
	}
	b.c.mu.Unlock()
}

// commit writes the snapshot unless a newer generation already did.
func (b *persistBridge) commit(gen uint64, state *entity.SessionState) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if gen <= b.committed {
		return
	}
	if err := b.snapshotUC.Push(b.c.ctx, state); err != nil {
		// The registry remains the source of truth; the next mutation
		// retries with fresher state.
		logging.FromContext(b.c.ctx).Warn().Err(err).Msg("session persistence failed")
		return
	}
	b.committed = gen
}

// flush runs one synchronous persistence pass, for shutdown.
func (b *persistBridge) flush(ctx context.Context) error {
	if b.snapshotUC == nil {
		return nil
	}
	gen := b.scheduled.Add(1)
	b.captureScroll()

	b.c.mu.Lock()
	state := entity.Snapshot(b.c.windowID, b.c.tabs, b.c.groups)
	b.c.mu.Unlock()

	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.snapshotUC.Push(logging.WithContext(ctx, *logging.FromContext(b.c.ctx)), state); err != nil {
		return err
	}
	if gen > b.committed {
		b.committed = gen
	}
	return nil
}
