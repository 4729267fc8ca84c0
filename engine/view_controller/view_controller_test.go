package view_controller

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-scale/common"
	"github.com/Carmen-Shannon/oxy-scale/engine/compositor"
	"github.com/Carmen-Shannon/oxy-scale/engine/layer"
)

type nullRenderer struct {
	scale    float64
	rendered []float64
}

func (r *nullRenderer) SetScale(s float64)    { r.scale = s }
func (r *nullRenderer) Scale() float64        { return r.scale }
func (r *nullRenderer) Resize(int, int) error { return nil }
func (r *nullRenderer) Release()              {}

func (r *nullRenderer) Render(context.Context) error {
	r.rendered = append(r.rendered, r.scale)
	return nil
}

type harness struct {
	clock *compositor.ManualClock
	comp  compositor.Compositor
	r     *nullRenderer
	layer layer.ScaleLayer
	vc    ViewController
}

func newHarness(t *testing.T, opts ...ViewControllerBuilderOption) *harness {
	t.Helper()
	h := &harness{clock: compositor.NewManualClock(0), r: &nullRenderer{}}
	h.comp = compositor.NewCompositor(compositor.WithClock(h.clock))
	h.layer = layer.NewScaleLayer(h.r, layer.WithCompositor(h.comp), layer.WithBounds(800, 600))
	vc, err := NewViewController(h.layer, h.comp, opts...)
	require.NoError(t, err)
	h.vc = vc
	h.comp.Tick()
	return h
}

func (h *harness) advance(d time.Duration) {
	h.clock.Advance(d)
	h.comp.Tick()
}

func TestExpandToggleEndsIdleAtBase(t *testing.T) {
	h := newHarness(t)

	require.True(t, h.vc.Expand())
	assert.False(t, h.vc.Enabled())
	h.comp.Tick()

	h.advance(time.Second)
	assert.InDelta(t, 1.45, h.r.scale, 1e-9)
	assert.False(t, h.vc.Enabled())

	h.advance(999 * time.Millisecond)
	assert.False(t, h.vc.Enabled(), "controls stay disabled until completion")

	h.advance(time.Millisecond)
	assert.True(t, h.vc.Enabled())
	assert.Equal(t, 1.9, h.layer.Scale())
	assert.Equal(t, 1.9, h.r.scale)

	require.True(t, h.vc.Expand())
	h.comp.Tick()
	h.advance(2 * time.Second)
	assert.True(t, h.vc.Enabled())
	assert.Equal(t, 1.0, h.layer.Scale())
	assert.Equal(t, 1.0, h.r.scale)
	assert.Equal(t, compositor.PropertyIdle, h.layer.State())
}

func TestPressesWhileAnimatingAreIgnored(t *testing.T) {
	h := newHarness(t)

	require.True(t, h.vc.Expand())
	h.comp.Tick()
	h.advance(500 * time.Millisecond)

	assert.False(t, h.vc.Expand())
	assert.False(t, h.vc.Keyframes())
	assert.False(t, h.vc.HandleKey(common.KeyE))
	assert.Equal(t, []string{layer.KeyScale}, h.layer.AnimationKeys())
	assert.Equal(t, 1.9, h.layer.Scale())

	h.advance(2 * time.Second)
	assert.True(t, h.vc.Enabled())
	assert.Equal(t, 1.9, h.layer.Scale())
}

func TestKeyframesInterpolatePiecewise(t *testing.T) {
	h := newHarness(t, WithKeyframes(DefaultKeyframes(), DefaultKeyTimes(), nil, 10*time.Second))

	require.True(t, h.vc.Keyframes())
	assert.Equal(t, []string{KeyframesAnimationKey}, h.layer.AnimationKeys())
	assert.Equal(t, 1.0, h.layer.Scale())
	h.comp.Tick()

	samples := []struct {
		at   time.Duration
		want float64
	}{
		{time.Second, 0},
		{2 * time.Second, -1},
		{5 * time.Second, 1.9},
		{8 * time.Second, -1.9},
		{9 * time.Second, -0.45},
	}
	var elapsed time.Duration
	for _, s := range samples {
		h.advance(s.at - elapsed)
		elapsed = s.at
		assert.InDelta(t, s.want, h.r.scale, 1e-6, "at %s", s.at)
		assert.False(t, h.vc.Enabled())
	}

	h.advance(time.Second)
	assert.True(t, h.vc.Enabled())
	assert.Equal(t, 1.0, h.r.scale)
	assert.Equal(t, 1.0, h.layer.Scale())
	assert.False(t, h.layer.IsAnimating())
}

func TestKeyframesStartFromCurrentScale(t *testing.T) {
	h := newHarness(t)
	require.True(t, h.vc.Expand())
	h.comp.Tick()
	h.advance(2 * time.Second)
	require.Equal(t, 1.9, h.layer.Scale())

	require.True(t, h.vc.Keyframes())
	assert.Equal(t, 1.9, h.layer.Scale())
	h.comp.Tick()
	assert.Equal(t, 1.9, h.r.scale)

	h.advance(3 * time.Second)
	assert.True(t, h.vc.Enabled())
	assert.Equal(t, 1.9, h.r.scale)
}

func TestLayoutAnchorsBottomRight(t *testing.T) {
	h := newHarness(t)
	buttons := h.vc.Buttons()
	require.Len(t, buttons, 2)

	assert.Equal(t, "Expand!", buttons[ButtonExpand].Label)
	assert.Equal(t, common.Rect{X: 640, Y: 536, Width: 140, Height: 44}, buttons[ButtonExpand].Bounds)
	assert.Equal(t, common.Rect{X: 640, Y: 472, Width: 140, Height: 44}, buttons[ButtonKeyframes].Bounds)

	h.vc.Layout(1024, 768)
	expand := h.vc.Buttons()[ButtonExpand].Bounds
	assert.Equal(t, 1024-ButtonMargin, expand.X+expand.Width)
	assert.Equal(t, 768-ButtonMargin, expand.Y+expand.Height)
}

func TestHandleClickHitsButtons(t *testing.T) {
	h := newHarness(t)

	assert.False(t, h.vc.HandleClick(10, 10))
	assert.True(t, h.vc.HandleClick(700, 550))
	assert.Equal(t, []string{layer.KeyScale}, h.layer.AnimationKeys())
	assert.False(t, h.vc.HandleClick(700, 490), "disabled while animating")
}

func TestHandleKeyKeyframes(t *testing.T) {
	h := newHarness(t)
	assert.False(t, h.vc.HandleKey(common.KeyEsc))
	assert.True(t, h.vc.HandleKey(common.KeyK))
	assert.Equal(t, []string{KeyframesAnimationKey}, h.layer.AnimationKeys())
}

func TestStateChangeCallback(t *testing.T) {
	var states []bool
	h := newHarness(t, WithTransaction(time.Second, compositor.EaseInEaseOut), WithStateChangeCallback(func(enabled bool) {
		states = append(states, enabled)
	}))

	require.True(t, h.vc.Expand())
	h.comp.Tick()
	h.advance(500 * time.Millisecond)
	assert.InDelta(t, 1.45, h.r.scale, 1e-6)
	h.advance(500 * time.Millisecond)

	assert.Equal(t, []bool{false, true}, states)
	assert.Contains(t, h.vc.Status(), "ready")
}

func TestInvalidKeyframesRejected(t *testing.T) {
	r := &nullRenderer{}
	c := compositor.NewCompositor(compositor.WithClock(compositor.NewManualClock(0)))
	l := layer.NewScaleLayer(r, layer.WithCompositor(c))

	_, err := NewViewController(l, c, WithKeyframes([]KeyframeValue{Current}, nil, nil, time.Second))
	assert.ErrorIs(t, err, compositor.ErrInvalidAnimation)

	_, err = NewViewController(l, c, WithKeyframes(DefaultKeyframes(), []float64{0, 0.5, 1}, nil, time.Second))
	assert.ErrorIs(t, err, compositor.ErrInvalidAnimation)
}

func TestStatus(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, "scale 1.00 [ready] | E: Expand! | K: Keyframes!", h.vc.Status())

	h.vc.Expand()
	assert.Contains(t, h.vc.Status(), "[animating]")
}
