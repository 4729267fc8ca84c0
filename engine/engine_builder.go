package engine

import (
	"github.com/Carmen-Shannon/oxy-scale/engine/compositor"
	"github.com/Carmen-Shannon/oxy-scale/engine/layer"
	"github.com/Carmen-Shannon/oxy-scale/engine/view_controller"
	"github.com/Carmen-Shannon/oxy-scale/engine/window"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithProfiling enables or disables performance profiling output.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithTickRate sets the compositor tick rate in ticks per second.
// Values <= 0 will be treated as the default (60Hz).
//
// Parameters:
//   - fps: target ticks per second (default 60)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithTickRate(fps float64) EngineBuilderOption {
	return func(e *engine) {
		e.tickRate = tickInterval(fps)
	}
}

// WithWindow sets the window whose message loop drives the engine.
//
// Parameters:
//   - w: a created Window instance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

// WithCompositor sets the compositor ticked each frame.
//
// Parameters:
//   - c: the compositor
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithCompositor(c compositor.Compositor) EngineBuilderOption {
	return func(e *engine) {
		e.compositor = c
	}
}

// WithLayer sets the layer resized with the window and released on shutdown.
//
// Parameters:
//   - l: the layer
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithLayer(l layer.ScaleLayer) EngineBuilderOption {
	return func(e *engine) {
		e.layer = l
	}
}

// WithViewController routes key presses and clicks to a view controller and shows its status in the title.
//
// Parameters:
//   - vc: the view controller
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithViewController(vc view_controller.ViewController) EngineBuilderOption {
	return func(e *engine) {
		e.viewController = vc
	}
}

// WithTitle sets the title prefix shown before the view controller status.
//
// Parameters:
//   - title: the title prefix
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithTitle(title string) EngineBuilderOption {
	return func(e *engine) {
		e.title = title
	}
}
