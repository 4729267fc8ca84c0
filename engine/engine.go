package engine

import (
	"errors"
	"time"

	"github.com/Carmen-Shannon/oxy-scale/common"
	"github.com/Carmen-Shannon/oxy-scale/engine/compositor"
	"github.com/Carmen-Shannon/oxy-scale/engine/layer"
	"github.com/Carmen-Shannon/oxy-scale/engine/profiler"
	"github.com/Carmen-Shannon/oxy-scale/engine/view_controller"
	"github.com/Carmen-Shannon/oxy-scale/engine/window"
)

// ErrIncompleteEngine is returned by NewEngine when the window, compositor or layer is missing.
var ErrIncompleteEngine = errors.New("engine: window, compositor and layer are required")

// engine implements the Engine interface.
// Everything runs on the thread that calls Run: the window message loop drives compositor ticks
// through the update callback, so frames are never drawn concurrently.
type engine struct {
	window         window.Window
	compositor     compositor.Compositor
	layer          layer.ScaleLayer
	viewController view_controller.ViewController

	profiler         *profiler.Profiler
	profilingEnabled bool

	tickRate     time.Duration
	lastTick     time.Time
	tickCallback func(deltaTime float32)

	title    string
	quitting bool
	now      func() time.Time
}

// Engine is the main entry point for the application.
// It wires window input to the view controller and ticks the compositor at a fixed rate.
type Engine interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Compositor returns the compositor ticked by the engine.
	//
	// Returns:
	//   - compositor.Compositor: the compositor
	Compositor() compositor.Compositor

	// Layer returns the layer drawn by the engine.
	//
	// Returns:
	//   - layer.ScaleLayer: the layer
	Layer() layer.ScaleLayer

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetTickRate sets the compositor tick rate in ticks per second.
	//
	// Parameters:
	//   - fps: target ticks per second (defaults to 60 if <= 0)
	SetTickRate(fps float64)

	// SetTickCallback registers a function called after each compositor tick.
	//
	// Parameters:
	//   - callback: function receiving the delta time in seconds
	SetTickCallback(callback func(deltaTime float32))

	// Run runs the message loop until the window closes, then releases the layer and closes the window.
	//
	// Returns:
	//   - error: error if the window fails to close
	Run() error

	// Quit stops the message loop after the current iteration.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()
}

// NewEngine creates a new Engine from its components.
//
// Parameters:
//   - options: functional options providing the window, compositor, layer and view controller
//
// Returns:
//   - Engine: the newly created engine
//   - error: ErrIncompleteEngine if a required component is missing
func NewEngine(options ...EngineBuilderOption) (Engine, error) {
	e := &engine{
		profiler: profiler.NewProfiler(time.Second),
		tickRate: time.Second / 60,
		title:    "oxy-scale",
		now:      time.Now,
	}
	for _, opt := range options {
		opt(e)
	}
	if e.window == nil || e.compositor == nil || e.layer == nil {
		return nil, ErrIncompleteEngine
	}

	e.window.SetPollInterval(e.tickRate)
	e.window.SetUpdateCallback(e.update)
	e.window.SetResizeCallback(func(width, height int) {
		if err := e.layer.SetBounds(width, height); err != nil {
			common.Logger().Warn("resize failed", "width", width, "height", height, "err", err)
		}
		if e.viewController != nil {
			e.viewController.Layout(width, height)
		}
	})
	if e.viewController != nil {
		e.window.SetKeyDownCallback(func(keyCode uint32) {
			e.viewController.HandleKey(keyCode)
		})
		e.window.SetClickCallback(func(x, y int) {
			e.viewController.HandleClick(x, y)
		})
	}

	return e, nil
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Compositor() compositor.Compositor {
	return e.compositor
}

func (e *engine) Layer() layer.ScaleLayer {
	return e.layer
}

func (e *engine) Run() error {
	common.Logger().Info("engine running", "tickRate", e.tickRate)
	e.window.ProcessMessages()

	stats := e.layer.Stats()
	common.Logger().Info("engine stopped", "drawn", stats.Drawn, "skipped", stats.Skipped)
	e.layer.Release()
	return e.window.Close()
}

func (e *engine) Quit() {
	if e.quitting {
		return
	}
	e.quitting = true
	e.window.RequestClose()
}

func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

func (e *engine) SetTickRate(fps float64) {
	e.tickRate = tickInterval(fps)
	e.window.SetPollInterval(e.tickRate)
}

func (e *engine) SetTickCallback(callback func(deltaTime float32)) {
	e.tickCallback = callback
}

// update runs once per message loop iteration and ticks the compositor when a tick is due.
func (e *engine) update() {
	now := e.now()
	if !e.lastTick.IsZero() && now.Sub(e.lastTick) < e.tickRate {
		return
	}
	var dt float32
	if !e.lastTick.IsZero() {
		dt = float32(now.Sub(e.lastTick).Seconds())
	}
	e.lastTick = now

	e.compositor.Tick()

	if e.tickCallback != nil {
		e.tickCallback(dt)
	}
	if e.viewController != nil {
		e.window.SetTitle(e.title + " | " + e.viewController.Status())
	}
	if e.profilingEnabled && e.profiler != nil {
		stats := e.layer.Stats()
		e.profiler.Tick(stats.Drawn, stats.Skipped)
	}
}

func tickInterval(fps float64) time.Duration {
	if fps <= 0 {
		fps = 60
	}
	return time.Duration(float64(time.Second) / fps)
}
