package layer

import (
	"context"
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-scale/common"
	"github.com/Carmen-Shannon/oxy-scale/engine/compositor"
	"github.com/Carmen-Shannon/oxy-scale/engine/renderer"
)

// KeyScale is the key path of the layer's uniform scale.
const KeyScale = "scale"

// Renderer is what a layer draws with. renderer.Renderer satisfies it.
type Renderer interface {
	SetScale(s float64)
	Scale() float64
	Render(ctx context.Context) error
	Resize(width, height int) error
	Release()
}

// Stats counts frames drawn by Display.
type Stats struct {
	Drawn   uint64
	Skipped uint64
}

// ScaleLayer is an animatable layer with a single scale property, drawn by a renderer.
type ScaleLayer interface {
	compositor.Layer

	// SetScale writes the model scale and requests display. When attached to a compositor and
	// actions are enabled it also adds the implicit action under KeyScale, animating from the value
	// currently displayed.
	//
	// Parameters:
	//   - s: the new scale
	SetScale(s float64)

	// Scale returns the model scale.
	//
	// Returns:
	//   - float64: the model scale
	Scale() float64

	// PresentationScale returns the scale drawn on the last tick: the animated value while animating,
	// else the model scale.
	//
	// Returns:
	//   - float64: the displayed scale
	PresentationScale() float64

	// Presentation returns the snapshot built on the last tick.
	//
	// Returns:
	//   - *Presentation: the snapshot, or nil while idle
	Presentation() *Presentation

	// AddAnimation attaches an explicit animation. The model value is not changed.
	//
	// Parameters:
	//   - anim: the animation, whose key path must be KeyScale
	//   - key: the animation key
	//
	// Returns:
	//   - error: ErrDetached without a compositor, or the compositor's validation error
	AddAnimation(anim compositor.Animation, key string) error

	// RemoveAnimation detaches the animation under key, reverting to the model value.
	//
	// Parameters:
	//   - key: the animation key
	//
	// Returns:
	//   - bool: true if an animation was removed
	RemoveAnimation(key string) bool

	// RemoveAllAnimations detaches every animation.
	RemoveAllAnimations()

	// AnimationKeys returns the keys of the attached animations.
	//
	// Returns:
	//   - []string: keys in attachment order
	AnimationKeys() []string

	// IsAnimating reports whether any animation is attached.
	IsAnimating() bool

	// State returns the scale property's state.
	//
	// Returns:
	//   - compositor.PropertyState: PropertyIdle or PropertyAnimating
	State() compositor.PropertyState

	// NeedsDisplayForKey reports whether a change to the property named key requires a redraw.
	//
	// Parameters:
	//   - key: the key path
	//
	// Returns:
	//   - bool: true for KeyScale
	NeedsDisplayForKey(key string) bool

	// ActionForKey returns the implicit action for a change to key: a BasicAnimation from the displayed
	// value to the model value, with duration and timing left to the transaction. Outside a transaction
	// that sets a timing function the action is linear.
	//
	// Parameters:
	//   - key: the key path
	//
	// Returns:
	//   - compositor.Animation: the action, or nil if key has no action
	ActionForKey(key string) compositor.Animation

	// SetNeedsDisplay marks the layer to be drawn on the next tick.
	SetNeedsDisplay()

	// SetBounds resizes the layer and its renderer and requests display.
	//
	// Parameters:
	//   - width, height: the new size in pixels
	//
	// Returns:
	//   - error: the renderer's resize error
	SetBounds(width, height int) error

	// Bounds returns the layer size.
	//
	// Returns:
	//   - int: the width in pixels
	//   - int: the height in pixels
	Bounds() (int, int)

	// Stats returns the frame counters.
	//
	// Returns:
	//   - Stats: drawn and skipped frame counts
	Stats() Stats

	// Release detaches the layer from its compositor and releases the renderer.
	Release()
}

var (
	_ ScaleLayer = &scaleLayer{}
	_ Renderer   = renderer.Renderer(nil)
)

type scaleLayer struct {
	renderer   Renderer
	compositor compositor.Compositor
	ctx        context.Context

	state        State
	scale        *compositor.Property
	presentation *Presentation
	needsDisplay bool
	stats        Stats
	released     bool
}

// NewScaleLayer creates a layer drawing with r. With WithCompositor the layer is added to the
// compositor and drawn on its next tick.
//
// Parameters:
//   - r: the renderer, owned by the layer from now on
//   - opts: functional options for the compositor, initial scale, bounds and render context
//
// Returns:
//   - ScaleLayer: the layer
func NewScaleLayer(r Renderer, opts ...ScaleLayerBuilderOption) ScaleLayer {
	l := &scaleLayer{
		renderer:     r,
		ctx:          context.Background(),
		state:        State{Scale: 1},
		needsDisplay: true,
	}
	for _, opt := range opts {
		opt(l)
	}
	l.scale = compositor.NewProperty(KeyScale, l.state.Scale, l.propertyChanged)

	if l.compositor != nil {
		l.compositor.AddLayer(l)
	}
	return l
}

func (l *scaleLayer) AnimatableProperties() []*compositor.Property {
	return []*compositor.Property{l.scale}
}

func (l *scaleLayer) UpdatePresentation(animating bool) {
	if !animating {
		l.presentation = nil
		return
	}
	p, err := newPresentation(l)
	if err != nil {
		common.Logger().Warn("presentation copy failed", "err", err)
		l.presentation = nil
		return
	}
	l.presentation = p
}

func (l *scaleLayer) NeedsDisplay() bool {
	return l.needsDisplay && !l.released
}

func (l *scaleLayer) Display() {
	if l.released {
		return
	}
	s := l.PresentationScale()
	l.renderer.SetScale(s)
	if err := l.renderer.Render(l.ctx); err != nil {
		l.stats.Skipped++
		if errors.Is(err, renderer.ErrFrameSkipped) {
			common.Logger().Debug("frame skipped", "scale", s, "err", err)
		} else {
			common.Logger().Warn("render failed", "scale", s, "err", err)
		}
		return
	}
	l.stats.Drawn++
	l.needsDisplay = false
}

func (l *scaleLayer) SetScale(s float64) {
	from := l.scale.DisplayedValue()
	animating := l.IsAnimating()
	l.state.Scale = s
	l.scale.SetModel(s)
	l.needsDisplay = true

	if l.compositor == nil || l.compositor.DisableActions() {
		return
	}
	// a running action still heads to the old target, so it is replaced even when from == s
	if from == s && !animating {
		return
	}
	action := l.ActionForKey(KeyScale)
	if ba, ok := action.(*compositor.BasicAnimation); ok {
		ba.From = from
	}
	if err := l.compositor.AddAnimation(l.scale, action, KeyScale); err != nil {
		common.Logger().Warn("implicit action rejected", "key", KeyScale, "err", err)
	}
}

func (l *scaleLayer) Scale() float64 {
	return l.scale.Model()
}

func (l *scaleLayer) PresentationScale() float64 {
	if l.presentation != nil && l.IsAnimating() {
		return l.presentation.Scale
	}
	return l.scale.Value()
}

func (l *scaleLayer) Presentation() *Presentation {
	return l.presentation
}

func (l *scaleLayer) AddAnimation(anim compositor.Animation, key string) error {
	if l.compositor == nil {
		return ErrDetached
	}
	if err := l.compositor.AddAnimation(l.scale, anim, key); err != nil {
		return fmt.Errorf("layer: add animation %q: %w", key, err)
	}
	return nil
}

func (l *scaleLayer) RemoveAnimation(key string) bool {
	removed := l.scale.RemoveAnimation(key)
	l.dropIdlePresentation()
	return removed
}

func (l *scaleLayer) RemoveAllAnimations() {
	l.scale.RemoveAll()
	l.dropIdlePresentation()
}

func (l *scaleLayer) AnimationKeys() []string {
	return l.scale.AnimationKeys()
}

func (l *scaleLayer) IsAnimating() bool {
	return l.scale.State() == compositor.PropertyAnimating
}

func (l *scaleLayer) State() compositor.PropertyState {
	return l.scale.State()
}

func (l *scaleLayer) NeedsDisplayForKey(key string) bool {
	return key == KeyScale
}

func (l *scaleLayer) ActionForKey(key string) compositor.Animation {
	if key != KeyScale {
		return nil
	}
	return &compositor.BasicAnimation{
		KeyPath: KeyScale,
		From:    l.scale.DisplayedValue(),
		To:      l.scale.Model(),
	}
}

func (l *scaleLayer) SetNeedsDisplay() {
	l.needsDisplay = true
}

func (l *scaleLayer) SetBounds(width, height int) error {
	l.state.Width = width
	l.state.Height = height
	l.needsDisplay = true
	return l.renderer.Resize(width, height)
}

func (l *scaleLayer) Bounds() (int, int) {
	return l.state.Width, l.state.Height
}

func (l *scaleLayer) Stats() Stats {
	return l.stats
}

func (l *scaleLayer) Release() {
	if l.released {
		return
	}
	l.released = true
	if l.compositor != nil {
		l.compositor.RemoveLayer(l)
	}
	l.scale.RemoveAll()
	l.presentation = nil
	if l.renderer != nil {
		l.renderer.Release()
	}
}

// dropIdlePresentation discards the snapshot once a removal leaves nothing attached.
func (l *scaleLayer) dropIdlePresentation() {
	if !l.IsAnimating() {
		l.presentation = nil
	}
}

func (l *scaleLayer) propertyChanged(keyPath string) {
	if l.NeedsDisplayForKey(keyPath) {
		l.needsDisplay = true
	}
}
