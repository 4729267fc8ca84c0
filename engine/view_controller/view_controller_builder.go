package view_controller

import (
	"time"

	"github.com/Carmen-Shannon/oxy-scale/engine/compositor"
)

// ViewControllerBuilderOption is a functional option applied to a view controller during construction via NewViewController.
type ViewControllerBuilderOption func(*viewController)

// WithScales sets the two scales the Expand! button toggles between.
//
// Parameters:
//   - base: the resting scale, 1 if not set
//   - expanded: the expanded scale, 1.9 if not set
//
// Returns:
//   - ViewControllerBuilderOption: a function that applies the scales to a view controller
func WithScales(base, expanded float64) ViewControllerBuilderOption {
	return func(vc *viewController) {
		vc.baseScale = base
		vc.expandedScale = expanded
	}
}

// WithTransaction sets the duration and timing function of the Expand! transaction.
//
// Parameters:
//   - d: the animation duration
//   - tf: the timing function
//
// Returns:
//   - ViewControllerBuilderOption: a function that applies the transaction settings to a view controller
func WithTransaction(d time.Duration, tf compositor.TimingFunction) ViewControllerBuilderOption {
	return func(vc *viewController) {
		vc.duration = d
		vc.timing = tf
	}
}

// WithKeyframes replaces the Keyframes! animation.
//
// Parameters:
//   - values: the keyframe values, where Current stands for the model scale when the button is pressed
//   - keyTimes: one fraction per value, or nil for even spacing
//   - timings: per-segment easing, one shared easing, or none for linear
//   - d: the animation duration
//
// Returns:
//   - ViewControllerBuilderOption: a function that applies the keyframes to a view controller
func WithKeyframes(values []KeyframeValue, keyTimes []float64, timings []compositor.TimingFunction, d time.Duration) ViewControllerBuilderOption {
	return func(vc *viewController) {
		vc.keyframeValues = values
		vc.keyTimes = keyTimes
		vc.keyframeTimings = timings
		vc.keyframeDuration = d
	}
}

// WithButtonSize sets the size of each button in pixels.
//
// Parameters:
//   - width, height: the button size
//
// Returns:
//   - ViewControllerBuilderOption: a function that applies the button size to a view controller
func WithButtonSize(width, height int) ViewControllerBuilderOption {
	return func(vc *viewController) {
		if width > 0 && height > 0 {
			vc.buttonWidth = width
			vc.buttonHeight = height
		}
	}
}

// WithStateChangeCallback sets a function called whenever the buttons are enabled or disabled.
//
// Parameters:
//   - fn: the callback, receiving the new enabled state
//
// Returns:
//   - ViewControllerBuilderOption: a function that applies the callback to a view controller
func WithStateChangeCallback(fn func(enabled bool)) ViewControllerBuilderOption {
	return func(vc *viewController) {
		vc.onStateChange = fn
	}
}
