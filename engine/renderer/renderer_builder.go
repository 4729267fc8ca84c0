package renderer

import (
	"time"

	"github.com/cogentcore/webgpu/wgpu"
)

// RendererBuilderOption is a functional option applied to a renderer during construction via NewRenderer.
type RendererBuilderOption func(*renderer)

// WithBackend supplies the backend instead of creating a wgpu device from the surface.
//
// Parameters:
//   - b: the backend to drive
//
// Returns:
//   - RendererBuilderOption: a function that applies the backend option to a renderer
func WithBackend(b RendererBackend) RendererBuilderOption {
	return func(r *renderer) {
		r.backend = b
	}
}

// WithPresentMode sets the surface present mode which controls how frames are delivered to the display.
//
// Parameters:
//   - mode: the PresentMode to use (VSync or Uncapped)
//
// Returns:
//   - RendererBuilderOption: a function that applies the present mode option to a renderer
func WithPresentMode(mode PresentMode) RendererBuilderOption {
	return func(r *renderer) {
		r.pendingPresentMode = &mode
	}
}

// WithForceSoftwareRenderer forces WGPU to use a CPU/software fallback adapter instead of
// hardware GPU acceleration. This requires a software Vulkan ICD to be installed on the system
// (e.g. SwiftShader or lavapipe).
//
// Parameters:
//   - force: true to force the software fallback adapter, false to use hardware (default)
//
// Returns:
//   - RendererBuilderOption: a function that applies the force software renderer option to a renderer
func WithForceSoftwareRenderer(force bool) RendererBuilderOption {
	return func(r *renderer) {
		r.forceFallbackAdapter = force
	}
}

// WithDrawableTimeout bounds how long NextDrawable keeps retrying. Zero means a single attempt.
//
// Parameters:
//   - d: the retry bound
//
// Returns:
//   - RendererBuilderOption: a function that applies the timeout to a renderer
func WithDrawableTimeout(d time.Duration) RendererBuilderOption {
	return func(r *renderer) {
		r.drawableTimeout = max(d, 0)
	}
}

// WithDrawableRetryInterval sets the pause between drawable acquisition attempts.
//
// Parameters:
//   - d: the pause between attempts
//
// Returns:
//   - RendererBuilderOption: a function that applies the retry interval to a renderer
func WithDrawableRetryInterval(d time.Duration) RendererBuilderOption {
	return func(r *renderer) {
		if d > 0 {
			r.drawableRetryInterval = d
		}
	}
}

// WithClearColor overrides the opaque white the frame is cleared to.
//
// Parameters:
//   - c: the clear color
//
// Returns:
//   - RendererBuilderOption: a function that applies the clear color to a renderer
func WithClearColor(c wgpu.Color) RendererBuilderOption {
	return func(r *renderer) {
		r.clearColor = c
	}
}
