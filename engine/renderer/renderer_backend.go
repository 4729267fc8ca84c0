package renderer

import (
	"github.com/Carmen-Shannon/oxy-scale/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-scale/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately. May tear.
	PresentModeUncapped
)

// ParsePresentMode maps the config names "vsync" and "uncapped" to a PresentMode.
//
// Parameters:
//   - name: the config value
//
// Returns:
//   - PresentMode: the parsed mode
//   - bool: false if the name is unknown
func ParsePresentMode(name string) (PresentMode, bool) {
	switch name {
	case "vsync", "":
		return PresentModeVSync, true
	case "uncapped":
		return PresentModeUncapped, true
	default:
		return PresentModeVSync, false
	}
}

// Drawable is one acquired swapchain image. It must be either presented or discarded exactly once.
type Drawable struct {
	texture *wgpu.Texture
	view    *wgpu.TextureView
}

// RendererBackend is the GPU API the Renderer drives. A frame is always
// AcquireDrawable, BeginPass, Draw, EndPass, then Present (or Discard on failure).
type RendererBackend interface {
	// ConfigureSurface (re)configures the swapchain for a surface size.
	//
	// Parameters:
	//   - width: the surface width in pixels
	//   - height: the surface height in pixels
	//
	// Returns:
	//   - error: an error if the surface has no usable format
	ConfigureSurface(width, height int) error

	// SetPresentMode sets the present mode used on the next ConfigureSurface.
	//
	// Parameters:
	//   - mode: the PresentMode to use
	SetPresentMode(mode PresentMode)

	// RegisterRenderPipeline compiles the pipeline's shaders and creates its GPU render pipeline.
	//
	// Parameters:
	//   - p: the pipeline description
	//
	// Returns:
	//   - error: an error if any GPU object could not be created
	RegisterRenderPipeline(p pipeline.Pipeline) error

	// InitMeshBuffers uploads vertex data once and stores the vertex buffer on the provider.
	//
	// Parameters:
	//   - provider: the provider that receives the vertex buffer
	//   - vertexData: the packed vertex bytes
	//   - vertexCount: the number of vertices in vertexData
	//
	// Returns:
	//   - error: an error if the buffer could not be created
	InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData []byte, vertexCount int) error

	// InitBindGroup creates the uniform buffers and bind group described by descriptor.
	//
	// Parameters:
	//   - provider: the provider that receives the buffers and bind group
	//   - descriptor: the bind group layout, with MinBindingSize set on each buffer entry
	//
	// Returns:
	//   - error: an error if a buffer, layout or bind group could not be created
	InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor) error

	// WriteBuffers queues uniform writes ahead of the next submission.
	//
	// Parameters:
	//   - writes: the staged buffer writes
	WriteBuffers(writes []bind_group_provider.BufferWrite)

	// AcquireDrawable makes one attempt at acquiring the next swapchain image.
	//
	// Returns:
	//   - *Drawable: the drawable
	//   - error: ErrDrawableUnavailable if no image is available right now
	AcquireDrawable() (*Drawable, error)

	// BeginPass creates the frame's command encoder and begins a render pass that clears the drawable.
	//
	// Parameters:
	//   - d: the drawable to render into
	//   - clear: the clear color
	//
	// Returns:
	//   - error: ErrCommandEncoding if the encoder could not be created
	BeginPass(d *Drawable, clear wgpu.Color) error

	// Draw encodes one non-indexed draw in the open pass.
	//
	// Parameters:
	//   - p: the registered pipeline to bind
	//   - mesh: the provider holding the vertex buffer
	//   - bindGroups: providers whose bind groups are set at their slice index
	//   - vertexCount: the number of vertices to draw
	Draw(p pipeline.Pipeline, mesh bind_group_provider.BindGroupProvider, bindGroups []bind_group_provider.BindGroupProvider, vertexCount uint32)

	// EndPass ends the pass, finishes the command buffer and submits it to the queue.
	//
	// Returns:
	//   - error: ErrCommandEncoding if the command buffer could not be finished
	EndPass() error

	// Present presents the drawable and releases it.
	//
	// Parameters:
	//   - d: the drawable submitted by EndPass
	Present(d *Drawable)

	// Discard releases a drawable without presenting it, abandoning any open pass.
	//
	// Parameters:
	//   - d: the drawable to drop
	Discard(d *Drawable)

	// Release frees the device, surface and every object the backend created itself.
	Release()
}
