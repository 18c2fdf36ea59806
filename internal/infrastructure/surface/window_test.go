package surface

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neuralweb/neuralweb/internal/application/port"
	"github.com/neuralweb/neuralweb/internal/domain/entity"
	"github.com/neuralweb/neuralweb/internal/logging"
)

func TestWindow_AttachDetach(t *testing.T) {
	logger := logging.NewFromConfigValues("debug", "console")
	w := NewWindow(logger, entity.Rect{W: 1280, H: 800})
	e := NewEngine(logger)

	a, err := e.Create(context.Background(), port.SurfaceOptions{})
	require.NoError(t, err)
	b, err := e.Create(context.Background(), port.SurfaceOptions{})
	require.NoError(t, err)

	w.Attach(a)
	w.Attach(b)
	w.Attach(a) // double attach is a no-op
	assert.Equal(t, []port.SurfaceID{a.ID(), b.ID()}, w.Attached())

	w.Detach(a)
	assert.Equal(t, []port.SurfaceID{b.ID()}, w.Attached())

	w.Detach(a) // already detached
	w.Detach(nil)
	assert.Equal(t, []port.SurfaceID{b.ID()}, w.Attached())
}

func TestWindow_Bounds(t *testing.T) {
	w := NewWindow(logging.NewFromConfigValues("debug", "console"), entity.Rect{W: 1280, H: 800})

	assert.Equal(t, entity.Rect{W: 1280, H: 800}, w.Bounds())

	w.SetBounds(entity.Rect{X: 20, Y: 20, W: 1920, H: 1080})
	assert.Equal(t, entity.Rect{X: 20, Y: 20, W: 1920, H: 1080}, w.Bounds())
}
