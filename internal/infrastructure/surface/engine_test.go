package surface

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neuralweb/neuralweb/internal/application/port"
	"github.com/neuralweb/neuralweb/internal/domain/entity"
	"github.com/neuralweb/neuralweb/internal/logging"
)

func testEngine(t *testing.T, opts ...EngineOption) *Engine {
	t.Helper()
	return NewEngine(logging.NewFromConfigValues("debug", "console"), opts...)
}

// eventRecorder collects surface events in arrival order.
type eventRecorder struct {
	mu     sync.Mutex
	events []string
}

func (r *eventRecorder) add(event string) {
	r.mu.Lock()
	r.events = append(r.events, event)
	r.mu.Unlock()
}

func (r *eventRecorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

func (r *eventRecorder) callbacks() port.SurfaceCallbacks {
	return port.SurfaceCallbacks{
		OnNavigated:    func(uri string) { r.add("navigated:" + uri) },
		OnLoadFinished: func(uri string) { r.add("finished:" + uri) },
		OnLoadFailed:   func(uri string, reason error) { r.add("failed:" + uri) },
		OnCrashed:      func(reason string) { r.add("crashed:" + reason) },
	}
}

func TestLoad_EmitsNavigatedThenFinished(t *testing.T) {
	e := testEngine(t, WithLoadDelay(time.Millisecond))
	s, err := e.Create(context.Background(), port.SurfaceOptions{ScriptIsolation: true})
	require.NoError(t, err)

	rec := &eventRecorder{}
	s.SetCallbacks(rec.callbacks())

	require.NoError(t, s.Load(context.Background(), "https://example.com"))

	require.Eventually(t, func() bool {
		return len(rec.snapshot()) == 2
	}, time.Second, time.Millisecond)

	assert.Equal(t, []string{
		"navigated:https://example.com",
		"finished:https://example.com",
	}, rec.snapshot())
	assert.Equal(t, "https://example.com", s.URI())
}

func TestLoad_SupersededLoadEmitsNothing(t *testing.T) {
	e := testEngine(t, WithLoadDelay(20*time.Millisecond))
	s, err := e.Create(context.Background(), port.SurfaceOptions{})
	require.NoError(t, err)

	rec := &eventRecorder{}
	s.SetCallbacks(rec.callbacks())

	require.NoError(t, s.Load(context.Background(), "https://slow.example"))
	require.NoError(t, s.Load(context.Background(), "https://fast.example"))

	require.Eventually(t, func() bool {
		return len(rec.snapshot()) >= 2
	}, time.Second, time.Millisecond)

	// Give the abandoned load a chance to misbehave.
	time.Sleep(50 * time.Millisecond)

	assert.Equal(t, []string{
		"navigated:https://fast.example",
		"finished:https://fast.example",
	}, rec.snapshot())
	assert.Equal(t, "https://fast.example", s.URI())
}

func TestLoad_RejectsEmptyAndDestroyed(t *testing.T) {
	e := testEngine(t)
	s, err := e.Create(context.Background(), port.SurfaceOptions{})
	require.NoError(t, err)

	assert.Error(t, s.Load(context.Background(), ""))

	s.Destroy()
	assert.Error(t, s.Load(context.Background(), "https://example.com"))
}

func TestLoad_CancelledContextAbandonsLoad(t *testing.T) {
	e := testEngine(t, WithLoadDelay(20*time.Millisecond))
	s, err := e.Create(context.Background(), port.SurfaceOptions{})
	require.NoError(t, err)

	rec := &eventRecorder{}
	s.SetCallbacks(rec.callbacks())

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, s.Load(ctx, "https://example.com"))
	cancel()

	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, rec.snapshot())
}

func TestReload(t *testing.T) {
	e := testEngine(t, WithLoadDelay(time.Millisecond))
	s, err := e.Create(context.Background(), port.SurfaceOptions{})
	require.NoError(t, err)

	assert.Error(t, s.Reload(context.Background()), "nothing loaded yet")

	rec := &eventRecorder{}
	s.SetCallbacks(rec.callbacks())
	require.NoError(t, s.Load(context.Background(), "https://example.com"))
	require.Eventually(t, func() bool { return len(rec.snapshot()) == 2 }, time.Second, time.Millisecond)

	require.NoError(t, s.Reload(context.Background()))
	require.Eventually(t, func() bool { return len(rec.snapshot()) == 4 }, time.Second, time.Millisecond)
	assert.Equal(t, "navigated:https://example.com", rec.snapshot()[2])
}

func TestTerminate_EmitsCrashAndKeepsSurfaceUsable(t *testing.T) {
	e := testEngine(t, WithLoadDelay(time.Millisecond))
	s, err := e.Create(context.Background(), port.SurfaceOptions{})
	require.NoError(t, err)

	rec := &eventRecorder{}
	s.SetCallbacks(rec.callbacks())

	s.Terminate("renderer out of memory")

	require.Eventually(t, func() bool {
		return len(rec.snapshot()) == 1
	}, time.Second, time.Millisecond)
	assert.Equal(t, "crashed:renderer out of memory", rec.snapshot()[0])
	assert.False(t, s.IsDestroyed())

	// The next load restarts the renderer.
	require.NoError(t, s.Load(context.Background(), "https://example.com"))
	require.Eventually(t, func() bool {
		return len(rec.snapshot()) == 3
	}, time.Second, time.Millisecond)
}

func TestTerminate_CancelsInFlightLoad(t *testing.T) {
	e := testEngine(t, WithLoadDelay(20*time.Millisecond))
	s, err := e.Create(context.Background(), port.SurfaceOptions{})
	require.NoError(t, err)

	rec := &eventRecorder{}
	s.SetCallbacks(rec.callbacks())

	require.NoError(t, s.Load(context.Background(), "https://example.com"))
	s.Terminate("killed mid-load")

	require.Eventually(t, func() bool {
		return len(rec.snapshot()) >= 1
	}, time.Second, time.Millisecond)
	time.Sleep(50 * time.Millisecond)

	assert.Equal(t, []string{"crashed:killed mid-load"}, rec.snapshot())
	assert.Empty(t, s.URI(), "the cancelled load never commits")
}

func TestDestroy_IdempotentAndUnregisters(t *testing.T) {
	e := testEngine(t)
	s, err := e.Create(context.Background(), port.SurfaceOptions{})
	require.NoError(t, err)
	require.Equal(t, 1, e.Count())

	id := s.ID()
	s.Destroy()
	s.Destroy()

	assert.True(t, s.IsDestroyed())
	assert.Equal(t, 0, e.Count())
	assert.Nil(t, e.Lookup(id))

	_, err = s.ScrollPosition(context.Background())
	assert.Error(t, err)
}

func TestScrollRoundTrip(t *testing.T) {
	e := testEngine(t)
	s, err := e.Create(context.Background(), port.SurfaceOptions{})
	require.NoError(t, err)

	s.RestoreScroll(entity.Point{X: 10, Y: 300})

	p, err := s.ScrollPosition(context.Background())
	require.NoError(t, err)
	assert.Equal(t, entity.Point{X: 10, Y: 300}, p)
}

func TestSimulationHooks(t *testing.T) {
	e := testEngine(t, WithLoadDelay(0))
	sIface, err := e.Create(context.Background(), port.SurfaceOptions{})
	require.NoError(t, err)
	s := sIface.(*Surface)

	var mu sync.Mutex
	var title string
	var favicons []string
	var inPage string
	var failed error

	s.SetCallbacks(port.SurfaceCallbacks{
		OnTitleChanged: func(v string) {
			mu.Lock()
			title = v
			mu.Unlock()
		},
		OnFaviconChanged: func(v []string) {
			mu.Lock()
			favicons = v
			mu.Unlock()
		},
		OnNavigatedInPage: func(uri string) {
			mu.Lock()
			inPage = uri
			mu.Unlock()
		},
		OnLoadFailed: func(_ string, reason error) {
			mu.Lock()
			failed = reason
			mu.Unlock()
		},
	})

	s.EmitTitle("Example")
	s.EmitFavicons([]string{"https://example.com/icon.png"})
	s.NavigateInPage("https://example.com/#section")
	s.FailLoad("https://bad.example", errors.New("dns failure"))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return title != "" && len(favicons) == 1 && inPage != "" && failed != nil
	}, time.Second, time.Millisecond)

	assert.Equal(t, "https://example.com/#section", s.URI())
}

func TestCreate_AssignsUniqueIDs(t *testing.T) {
	e := testEngine(t)

	a, err := e.Create(context.Background(), port.SurfaceOptions{})
	require.NoError(t, err)
	b, err := e.Create(context.Background(), port.SurfaceOptions{})
	require.NoError(t, err)

	assert.NotEqual(t, a.ID(), b.ID())
	assert.Equal(t, 2, e.Count())
}
