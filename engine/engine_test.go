package engine

import (
	"context"
	"testing"
	"time"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-scale/common"
	"github.com/Carmen-Shannon/oxy-scale/engine/compositor"
	"github.com/Carmen-Shannon/oxy-scale/engine/layer"
	"github.com/Carmen-Shannon/oxy-scale/engine/view_controller"
)

type fakeWindow struct {
	onUpdate  func()
	onResize  func(width, height int)
	onKeyDown func(keyCode uint32)
	onClick   func(x, y int)

	title        string
	pollInterval time.Duration
	closeAsked   int
	closed       int
	loops        int
}

func (w *fakeWindow) SetUpdateCallback(cb func())                  { w.onUpdate = cb }
func (w *fakeWindow) SetResizeCallback(cb func(width, height int)) { w.onResize = cb }
func (w *fakeWindow) SetKeyDownCallback(cb func(keyCode uint32))   { w.onKeyDown = cb }
func (w *fakeWindow) SetClickCallback(cb func(x, y int))           { w.onClick = cb }
func (w *fakeWindow) SetTitle(title string)                        { w.title = title }
func (w *fakeWindow) SetPollInterval(d time.Duration)              { w.pollInterval = d }
func (w *fakeWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor   { return nil }
func (w *fakeWindow) IsRunning() bool                              { return w.closeAsked == 0 }
func (w *fakeWindow) RequestClose()                                { w.closeAsked++ }
func (w *fakeWindow) Width() int                                   { return 800 }
func (w *fakeWindow) Height() int                                  { return 600 }

func (w *fakeWindow) Close() error {
	w.closed++
	return nil
}

// ProcessMessages runs the update callback a few times, then stops as if the window closed.
func (w *fakeWindow) ProcessMessages() {
	for w.IsRunning() && w.loops < 3 {
		w.loops++
		if w.onUpdate != nil {
			w.onUpdate()
		}
	}
}

type fakeRenderer struct {
	scale    float64
	rendered int
	sizes    [][2]int
	released int
}

func (r *fakeRenderer) SetScale(s float64) { r.scale = s }
func (r *fakeRenderer) Scale() float64     { return r.scale }
func (r *fakeRenderer) Release()           { r.released++ }

func (r *fakeRenderer) Render(context.Context) error {
	r.rendered++
	return nil
}

func (r *fakeRenderer) Resize(width, height int) error {
	r.sizes = append(r.sizes, [2]int{width, height})
	return nil
}

type harness struct {
	win   *fakeWindow
	clock *compositor.ManualClock
	r     *fakeRenderer
	l     layer.ScaleLayer
	vc    view_controller.ViewController
	e     *engine
	now   time.Time
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		win:   &fakeWindow{},
		clock: compositor.NewManualClock(0),
		r:     &fakeRenderer{},
		now:   time.Unix(100, 0),
	}
	c := compositor.NewCompositor(compositor.WithClock(h.clock))
	h.l = layer.NewScaleLayer(h.r, layer.WithCompositor(c), layer.WithBounds(800, 600))
	vc, err := view_controller.NewViewController(h.l, c)
	require.NoError(t, err)
	h.vc = vc

	e, err := NewEngine(
		WithWindow(h.win),
		WithCompositor(c),
		WithLayer(h.l),
		WithViewController(vc),
		WithTickRate(50),
		WithTitle("test"),
	)
	require.NoError(t, err)
	h.e = e.(*engine)
	h.e.now = func() time.Time { return h.now }
	return h
}

func TestNewEngineRequiresComponents(t *testing.T) {
	_, err := NewEngine(WithWindow(&fakeWindow{}))
	assert.ErrorIs(t, err, ErrIncompleteEngine)
}

func TestUpdateTicksAtTickRate(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, 20*time.Millisecond, h.win.pollInterval)

	var deltas []float32
	h.e.SetTickCallback(func(dt float32) { deltas = append(deltas, dt) })

	h.win.onUpdate()
	assert.Equal(t, 1, h.r.rendered)
	assert.Equal(t, "test | scale 1.00 [ready] | E: Expand! | K: Keyframes!", h.win.title)

	h.now = h.now.Add(10 * time.Millisecond)
	h.win.onUpdate()
	assert.Len(t, deltas, 1, "tick not due yet")

	h.now = h.now.Add(10 * time.Millisecond)
	h.win.onUpdate()
	require.Len(t, deltas, 2)
	assert.Zero(t, deltas[0])
	assert.InDelta(t, 0.02, deltas[1], 1e-6)
}

func TestInputRoutesToViewController(t *testing.T) {
	h := newHarness(t)
	h.win.onUpdate()

	h.win.onKeyDown(common.KeyE)
	assert.False(t, h.vc.Enabled())
	assert.Equal(t, 1.9, h.l.Scale())

	h.now = h.now.Add(time.Second)
	h.win.onUpdate()
	assert.Contains(t, h.win.title, "[animating]")

	h.win.onClick(10, 10)
	assert.Equal(t, []string{layer.KeyScale}, h.l.AnimationKeys())
}

func TestResizePropagates(t *testing.T) {
	h := newHarness(t)
	h.win.onResize(1024, 768)

	assert.Equal(t, [][2]int{{1024, 768}}, h.r.sizes)
	expand := h.vc.Buttons()[view_controller.ButtonExpand].Bounds
	assert.Equal(t, 1024-view_controller.ButtonMargin, expand.X+expand.Width)
}

func TestRunReleasesAndCloses(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.e.Run())

	assert.Equal(t, 3, h.win.loops)
	assert.Equal(t, 1, h.r.released)
	assert.Equal(t, 1, h.win.closed)
}

func TestQuitRequestsCloseOnce(t *testing.T) {
	h := newHarness(t)
	h.e.Quit()
	h.e.Quit()
	assert.Equal(t, 1, h.win.closeAsked)

	require.NoError(t, h.e.Run())
	assert.Zero(t, h.win.loops)
}
