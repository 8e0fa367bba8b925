package engine

import (
	"context"
	stderrors "errors"
	"image/color"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/stage/pkg/deps"
	"github.com/go-drift/stage/pkg/errors"
	"github.com/go-drift/stage/pkg/geometry"
	"github.com/go-drift/stage/pkg/input"
	"github.com/go-drift/stage/pkg/node"
	"github.com/go-drift/stage/pkg/overlay"
)

type fakeHost struct {
	frames   [][]input.Event
	fills    []geometry.Rect
	presents int
	err      error
}

func (h *fakeHost) Poll() []input.Event {
	if len(h.frames) == 0 {
		return nil
	}
	events := h.frames[0]
	h.frames = h.frames[1:]
	return events
}

func (h *fakeHost) Surface() node.Surface { return h }
func (h *fakeHost) Present() error        { h.presents++; return h.err }

func (h *fakeHost) FillRect(r geometry.Rect, _ color.Color) { h.fills = append(h.fills, r) }

type hud struct {
	node.WidgetBase
	drawn int
}

func (w *hud) Draw(node.Surface) { w.drawn++ }

func TestRuntimeStartLoadsTreeAndStoresServices(t *testing.T) {
	rt := New(nil, Options{})
	leaf := &node.Func{}
	rt.Root().Add(leaf)

	require.NoError(t, rt.Start())
	require.NoError(t, rt.Start())

	assert.Equal(t, node.LoadComplete, leaf.State())
	got, err := deps.Retrieve[*Runtime](leaf.Dependencies())
	require.NoError(t, err)
	assert.Same(t, rt, got)
	_, err = deps.Retrieve[*overlay.Compositor](rt.Deps())
	assert.NoError(t, err)
}

func TestRuntimeFrameOrder(t *testing.T) {
	host := &fakeHost{frames: [][]input.Event{{
		input.MouseDown(input.ButtonLeft, geometry.V(1, 1)),
		input.MouseUp(input.ButtonLeft, geometry.V(1, 1)),
	}}}
	rt := New(host, Options{})

	var log []string
	rt.Dispatch(func() { log = append(log, "dispatch") })
	rt.Root().Add(&node.MouseArea{
		OnMouseDown: func(input.MouseEvent) { log = append(log, "down") },
		OnMouseUp:   func(input.MouseEvent) { log = append(log, "up") },
	})
	rt.Root().Add(&node.Func{
		OnUpdate: func() { log = append(log, "update") },
		OnDraw:   func(node.Surface) { log = append(log, "draw") },
	})
	w := &hud{}
	rt.Root().Add(w)
	box := node.NewBox(nil)
	rt.Root().Add(box)

	require.NoError(t, rt.Frame())
	assert.Equal(t, []string{"dispatch", "down", "up", "update", "draw"}, log)
	assert.Equal(t, 1, w.drawn)
	assert.Equal(t, []geometry.Rect{box.Bounds()}, host.fills)
	assert.Equal(t, 1, host.presents)
	assert.EqualValues(t, 1, rt.Frames())

	samples := rt.Trace().Snapshot().Samples
	require.Len(t, samples, 1)
	assert.Equal(t, 2, samples[0].Counts.Events)
	assert.Equal(t, 1, samples[0].Counts.Dispatched)
	assert.Equal(t, 5, samples[0].Counts.Nodes)
}

func TestRuntimeFrameRecoversPanic(t *testing.T) {
	var reported *errors.PanicError
	errors.SetHandler(&captureHandler{panics: func(p *errors.PanicError) { reported = p }})
	defer errors.SetHandler(nil)

	rt := New(nil, Options{})
	rt.Root().Add(&node.Func{OnUpdate: func() { panic("boom") }})

	err := rt.Frame()
	var pe *errors.PanicError
	require.True(t, stderrors.As(err, &pe))
	assert.Equal(t, "boom", pe.Value)
	assert.Same(t, pe, reported)
	assert.InDelta(t, 1, testutil.ToFloat64(rt.metrics.panics), 0)
	assert.True(t, rt.Trace().Snapshot().Samples[0].Panicked)
}

func TestRuntimePresentError(t *testing.T) {
	host := &fakeHost{err: stderrors.New("lost device")}
	rt := New(host, Options{})
	err := rt.Frame()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lost device")
}

func TestRuntimeRunStopsAfterMaxFrames(t *testing.T) {
	rt := New(nil, Options{MaxFrames: 3})
	require.NoError(t, rt.Run(context.Background()))
	assert.EqualValues(t, 3, rt.Frames())
	assert.InDelta(t, 3, testutil.ToFloat64(rt.metrics.frames), 0)
}

func TestRuntimeStopFromInsideFrame(t *testing.T) {
	rt := New(nil, Options{TickRate: 1000})
	frames := 0
	rt.Root().Add(&node.Func{OnUpdate: func() {
		frames++
		if frames == 2 {
			rt.Stop()
		}
	}})
	require.NoError(t, rt.Run(context.Background()))
	assert.Equal(t, 2, frames)
}

func TestRuntimeRunHonoursContext(t *testing.T) {
	rt := New(nil, Options{TickRate: 200})
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	require.NoError(t, rt.Run(ctx))
	assert.Positive(t, rt.Frames())
}

func TestRuntimeRunReturnsFrameError(t *testing.T) {
	errors.SetHandler(&captureHandler{})
	defer errors.SetHandler(nil)

	rt := New(nil, Options{})
	rt.Root().Add(&node.Func{OnUpdate: func() { panic("bad frame") }})
	err := rt.Run(context.Background())
	require.Error(t, err)
	assert.EqualValues(t, 1, rt.Frames())
}

func TestRuntimeDispose(t *testing.T) {
	errors.SetHandler(&captureHandler{})
	defer errors.SetHandler(nil)

	rt := New(nil, Options{})
	leaf := &node.Func{}
	rt.Root().Add(leaf)
	require.NoError(t, rt.Frame())

	rt.Dispose()
	rt.Dispose()
	assert.Equal(t, node.Disposed, leaf.State())
	assert.ErrorIs(t, rt.Frame(), errors.ErrLifecycle)
	assert.ErrorIs(t, rt.Start(), errors.ErrLifecycle)
}

func TestRuntimeEventMetrics(t *testing.T) {
	host := &fakeHost{frames: [][]input.Event{{input.KeyDown(input.KeySpace), input.KeyUp(input.KeySpace)}}}
	rt := New(host, Options{})
	require.NoError(t, rt.Frame())
	assert.InDelta(t, 1, testutil.ToFloat64(rt.metrics.events.WithLabelValues(input.KindKeyDown.String())), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(rt.metrics.nodes), 0)
}

type captureHandler struct {
	errs   []*errors.StageError
	panics func(*errors.PanicError)
}

func (h *captureHandler) HandleError(err *errors.StageError) { h.errs = append(h.errs, err) }

func (h *captureHandler) HandlePanic(err *errors.PanicError) {
	if h.panics != nil {
		h.panics(err)
	}
}
