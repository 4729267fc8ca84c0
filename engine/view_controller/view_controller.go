package view_controller

import (
	"fmt"
	"time"

	"github.com/Carmen-Shannon/oxy-scale/common"
	"github.com/Carmen-Shannon/oxy-scale/engine/compositor"
	"github.com/Carmen-Shannon/oxy-scale/engine/layer"
)

const (
	// KeyframesAnimationKey is the key the Keyframes! animation is attached under.
	KeyframesAnimationKey = "keyframes"

	// ButtonMargin is the distance of the buttons from the bottom-right corner and from each other.
	ButtonMargin = 20

	defaultButtonWidth  = 140
	defaultButtonHeight = 44
)

// ButtonID identifies one of the controller's buttons.
type ButtonID int

const (
	ButtonExpand ButtonID = iota
	ButtonKeyframes
)

// Button is a labelled hit area in window coordinates.
type Button struct {
	ID      ButtonID
	Label   string
	Key     uint32
	Bounds  common.Rect
	Enabled bool
}

// KeyframeValue is one keyframe, either a fixed scale or the model scale at the time the animation starts.
type KeyframeValue struct {
	Current bool
	Value   float64
}

// Current is the keyframe standing for the scale in effect when Keyframes! is pressed.
var Current = KeyframeValue{Current: true}

// Fixed returns a keyframe with a fixed scale.
func Fixed(v float64) KeyframeValue {
	return KeyframeValue{Value: v}
}

// DefaultKeyframes returns the keyframe values [s0, -1, 1.9, -1.9, s0].
func DefaultKeyframes() []KeyframeValue {
	return []KeyframeValue{Current, Fixed(-1), Fixed(1.9), Fixed(-1.9), Current}
}

// DefaultKeyTimes returns the key times [0, 0.2, 0.5, 0.8, 1].
func DefaultKeyTimes() []float64 {
	return []float64{0, 0.2, 0.5, 0.8, 1}
}

// ViewController binds the Expand! and Keyframes! buttons to a scale layer. Both buttons are disabled
// from the moment either starts an animation until its transaction completes; presses in between are
// ignored.
type ViewController interface {
	// Expand toggles the layer between the base and expanded scale in an explicit transaction.
	//
	// Returns:
	//   - bool: false if the press was ignored because the buttons are disabled
	Expand() bool

	// Keyframes runs the keyframe animation. The model is set to the final keyframe with actions
	// disabled, so the layer settles on that value.
	//
	// Returns:
	//   - bool: false if the press was ignored or the animation was rejected
	Keyframes() bool

	// HandleKey presses the button bound to a key code.
	//
	// Parameters:
	//   - keyCode: the virtual key code
	//
	// Returns:
	//   - bool: true if a button was pressed
	HandleKey(keyCode uint32) bool

	// HandleClick presses the button under a point.
	//
	// Parameters:
	//   - x, y: the click position in window pixels
	//
	// Returns:
	//   - bool: true if a button was pressed
	HandleClick(x, y int) bool

	// Layout anchors the buttons to the bottom-right corner of a view of the given size.
	//
	// Parameters:
	//   - width, height: the view size in pixels
	Layout(width, height int)

	// Buttons returns a copy of the buttons.
	//
	// Returns:
	//   - []Button: the Expand! and Keyframes! buttons
	Buttons() []Button

	// Enabled reports whether presses are accepted.
	Enabled() bool

	// Status describes the scale and the button state, for the window title.
	//
	// Returns:
	//   - string: the status line
	Status() string
}

var _ ViewController = &viewController{}

type viewController struct {
	layer      layer.ScaleLayer
	compositor compositor.Compositor

	baseScale     float64
	expandedScale float64
	duration      time.Duration
	timing        compositor.TimingFunction

	keyframeValues   []KeyframeValue
	keyTimes         []float64
	keyframeTimings  []compositor.TimingFunction
	keyframeDuration time.Duration

	buttonWidth   int
	buttonHeight  int
	buttons       [2]Button
	enabled       bool
	onStateChange func(enabled bool)
}

// NewViewController creates a controller for l, driven by c.
//
// Parameters:
//   - l: the layer to animate
//   - c: the compositor running the layer
//   - opts: functional options for scales, transaction settings and keyframes
//
// Returns:
//   - ViewController: the controller, with both buttons enabled
//   - error: compositor.ErrInvalidAnimation if the keyframes can never be evaluated
func NewViewController(l layer.ScaleLayer, c compositor.Compositor, opts ...ViewControllerBuilderOption) (ViewController, error) {
	vc := &viewController{
		layer:            l,
		compositor:       c,
		baseScale:        1,
		expandedScale:    1.9,
		duration:         2 * time.Second,
		timing:           compositor.Linear,
		keyframeValues:   DefaultKeyframes(),
		keyTimes:         DefaultKeyTimes(),
		keyframeDuration: 3 * time.Second,
		buttonWidth:      defaultButtonWidth,
		buttonHeight:     defaultButtonHeight,
		enabled:          true,
	}
	for _, opt := range opts {
		opt(vc)
	}

	if err := vc.keyframeAnimation(vc.baseScale).Validate(); err != nil {
		return nil, err
	}

	vc.buttons[ButtonExpand] = Button{ID: ButtonExpand, Label: "Expand!", Key: common.KeyE, Enabled: true}
	vc.buttons[ButtonKeyframes] = Button{ID: ButtonKeyframes, Label: "Keyframes!", Key: common.KeyK, Enabled: true}
	w, h := l.Bounds()
	vc.Layout(w, h)
	return vc, nil
}

func (vc *viewController) Expand() bool {
	if !vc.enabled {
		common.Logger().Debug("button ignored while animating", "button", "expand")
		return false
	}

	target := vc.expandedScale
	if vc.layer.Scale() == vc.expandedScale {
		target = vc.baseScale
	}

	vc.setEnabled(false)
	vc.compositor.Begin()
	vc.compositor.SetAnimationDuration(vc.duration)
	vc.compositor.SetTimingFunction(vc.timing)
	vc.compositor.SetCompletion(vc.animationFinished)
	vc.layer.SetScale(target)
	if err := vc.compositor.Commit(); err != nil {
		common.Logger().Warn("expand transaction", "err", err)
	}
	return true
}

func (vc *viewController) Keyframes() bool {
	if !vc.enabled {
		common.Logger().Debug("button ignored while animating", "button", "keyframes")
		return false
	}

	anim := vc.keyframeAnimation(vc.layer.Scale())

	vc.setEnabled(false)
	vc.compositor.Begin()
	vc.compositor.SetDisableActions(true)
	vc.compositor.SetCompletion(vc.animationFinished)
	vc.layer.SetScale(anim.FinalValue())
	err := vc.layer.AddAnimation(anim, KeyframesAnimationKey)
	if cerr := vc.compositor.Commit(); cerr != nil {
		common.Logger().Warn("keyframes transaction", "err", cerr)
	}
	if err != nil {
		common.Logger().Warn("keyframe animation rejected", "err", err)
		return false
	}
	return true
}

func (vc *viewController) HandleKey(keyCode uint32) bool {
	for _, b := range vc.buttons {
		if b.Key == keyCode {
			return vc.press(b.ID)
		}
	}
	return false
}

func (vc *viewController) HandleClick(x, y int) bool {
	for _, b := range vc.buttons {
		if b.Bounds.Contains(x, y) {
			return vc.press(b.ID)
		}
	}
	return false
}

func (vc *viewController) Layout(width, height int) {
	expand := common.Rect{
		X:      width - ButtonMargin - vc.buttonWidth,
		Y:      height - ButtonMargin - vc.buttonHeight,
		Width:  vc.buttonWidth,
		Height: vc.buttonHeight,
	}
	keyframes := expand
	keyframes.Y = expand.Y - ButtonMargin - vc.buttonHeight

	vc.buttons[ButtonExpand].Bounds = expand
	vc.buttons[ButtonKeyframes].Bounds = keyframes
}

func (vc *viewController) Buttons() []Button {
	return append([]Button(nil), vc.buttons[:]...)
}

func (vc *viewController) Enabled() bool {
	return vc.enabled
}

func (vc *viewController) Status() string {
	state := "ready"
	if !vc.enabled {
		state = "animating"
	}
	return fmt.Sprintf("scale %.2f [%s] | E: %s | K: %s",
		vc.layer.PresentationScale(), state, vc.buttons[ButtonExpand].Label, vc.buttons[ButtonKeyframes].Label)
}

func (vc *viewController) press(id ButtonID) bool {
	switch id {
	case ButtonExpand:
		return vc.Expand()
	case ButtonKeyframes:
		return vc.Keyframes()
	}
	return false
}

func (vc *viewController) keyframeAnimation(current float64) *compositor.KeyframeAnimation {
	values := make([]float64, len(vc.keyframeValues))
	for i, kv := range vc.keyframeValues {
		values[i] = kv.Value
		if kv.Current {
			values[i] = current
		}
	}
	return &compositor.KeyframeAnimation{
		KeyPath:         layer.KeyScale,
		Values:          values,
		KeyTimes:        vc.keyTimes,
		TimingFunctions: vc.keyframeTimings,
		Duration:        vc.keyframeDuration,
	}
}

func (vc *viewController) animationFinished() {
	vc.setEnabled(true)
}

func (vc *viewController) setEnabled(enabled bool) {
	if vc.enabled == enabled {
		return
	}
	vc.enabled = enabled
	for i := range vc.buttons {
		vc.buttons[i].Enabled = enabled
	}
	if vc.onStateChange != nil {
		vc.onStateChange(enabled)
	}
}
