package renderer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-scale/common"
	"github.com/Carmen-Shannon/oxy-scale/engine/renderer/assets"
	"github.com/Carmen-Shannon/oxy-scale/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-scale/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-scale/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

const (
	// TrianglePipelineKey labels the one render pipeline the renderer owns.
	TrianglePipelineKey = "triangle"

	// uniformGroup and uniformVarName locate the uniform block in the triangle shader.
	uniformGroup   = 0
	uniformVarName = "uniforms"

	defaultDrawableTimeout       = 100 * time.Millisecond
	defaultDrawableRetryInterval = 2 * time.Millisecond
)

// SurfaceSource is anything the renderer can create a presentation surface for, typically a window.
type SurfaceSource interface {
	// SurfaceDescriptor returns the platform surface descriptor for wgpu.
	SurfaceDescriptor() *wgpu.SurfaceDescriptor
	// Width returns the surface width in pixels.
	Width() int
	// Height returns the surface height in pixels.
	Height() int
}

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	backend  RendererBackend
	pipeline pipeline.Pipeline
	mesh     bind_group_provider.BindGroupProvider
	uniform  bind_group_provider.BindGroupProvider
	binding  int

	scale    float64
	uniforms Uniforms

	clearColor            wgpu.Color
	drawableTimeout       time.Duration
	drawableRetryInterval time.Duration
	frames                uint64

	// pre-creation config collected from builder options
	forceFallbackAdapter bool
	pendingPresentMode   *PresentMode
}

// Renderer draws the scaled triangle. It owns its pipeline and buffers for its whole lifetime.
// Calls must come from a single frame thread.
type Renderer interface {
	// Scale returns the scale the next Draw will use.
	//
	// Returns:
	//   - float64: the current scale
	Scale() float64

	// SetScale stores the scale used by the next Draw. It does not draw.
	//
	// Parameters:
	//   - s: the uniform XY scale
	SetScale(s float64)

	// NextDrawable acquires the next drawable, retrying until the configured timeout elapses.
	//
	// Parameters:
	//   - ctx: cancels the retry loop early
	//
	// Returns:
	//   - *Drawable: the acquired drawable
	//   - error: ErrFrameSkipped wrapping ErrDrawableUnavailable if nothing was acquired
	NextDrawable(ctx context.Context) (*Drawable, error)

	// Draw renders one frame into d: it rebuilds the model-view matrix from the current scale,
	// uploads the uniforms, clears to the clear color, issues one 3-vertex draw, submits and presents.
	//
	// Parameters:
	//   - d: a drawable from NextDrawable
	//
	// Returns:
	//   - error: ErrFrameSkipped wrapping the cause if the frame could not be encoded
	Draw(d *Drawable) error

	// Render acquires a drawable and draws into it.
	//
	// Parameters:
	//   - ctx: bounds the drawable acquisition
	//
	// Returns:
	//   - error: ErrFrameSkipped wrapping the cause if the frame was dropped
	Render(ctx context.Context) error

	// Resize reconfigures the surface for a new size.
	//
	// Parameters:
	//   - width: the new width in pixels
	//   - height: the new height in pixels
	//
	// Returns:
	//   - error: an error if the surface could not be reconfigured
	Resize(width, height int) error

	// FrameCount returns how many frames have been presented.
	//
	// Returns:
	//   - uint64: the number of presented frames
	FrameCount() uint64

	// Uniforms returns a copy of the uniform block most recently uploaded.
	//
	// Returns:
	//   - Uniforms: the last uploaded uniforms
	Uniforms() Uniforms

	// Release frees the pipeline, the buffers and the backend.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates the device, compiles the triangle pipeline and uploads the vertex buffer.
//
// Parameters:
//   - surface: the surface source to present into
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: the initialized renderer
//   - error: ErrInitialization wrapping the cause if any GPU object could not be created
func NewRenderer(surface SurfaceSource, options ...RendererBuilderOption) (Renderer, error) {
	r := &renderer{
		mu:                    &sync.Mutex{},
		scale:                 1,
		uniforms:              NewUniforms(),
		clearColor:            wgpu.Color{R: 1, G: 1, B: 1, A: 1},
		drawableTimeout:       defaultDrawableTimeout,
		drawableRetryInterval: defaultDrawableRetryInterval,
	}
	for _, opt := range options {
		opt(r)
	}

	if r.backend == nil {
		b, err := newWGPURendererBackend(surface.SurfaceDescriptor(), r.forceFallbackAdapter)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInitialization, err)
		}
		r.backend = b
	}
	if r.pendingPresentMode != nil {
		r.backend.SetPresentMode(*r.pendingPresentMode)
	}

	if err := r.init(surface.Width(), surface.Height()); err != nil {
		r.Release()
		return nil, fmt.Errorf("%w: %w", ErrInitialization, err)
	}
	return r, nil
}

func (r *renderer) init(width, height int) error {
	if err := r.backend.ConfigureSurface(width, height); err != nil {
		return fmt.Errorf("configure surface: %w", err)
	}

	vs, err := shader.NewShader(TrianglePipelineKey+"_vs", shader.ShaderTypeVertex, assets.TriangleWGSL)
	if err != nil {
		return err
	}
	fs, err := shader.NewShader(TrianglePipelineKey+"_fs", shader.ShaderTypeFragment, assets.TriangleWGSL)
	if err != nil {
		return err
	}
	binding, ok := vs.BindGroupFromVarName(uniformGroup, uniformVarName)
	if !ok {
		return fmt.Errorf("shader declares no %q uniform in group %d", uniformVarName, uniformGroup)
	}
	r.binding = binding

	r.pipeline, err = pipeline.NewPipeline(TrianglePipelineKey,
		pipeline.WithVertexShader(vs),
		pipeline.WithFragmentShader(fs),
	)
	if err != nil {
		return err
	}
	if err := r.backend.RegisterRenderPipeline(r.pipeline); err != nil {
		return err
	}

	r.mesh = bind_group_provider.NewBindGroupProvider("Triangle Mesh",
		bind_group_provider.WithVertexCount(len(TriangleVertices)),
	)
	if err := r.backend.InitMeshBuffers(r.mesh, MarshalVertices(TriangleVertices), len(TriangleVertices)); err != nil {
		return err
	}

	r.uniform = bind_group_provider.NewBindGroupProvider("Triangle Uniforms")
	layouts := MergeBindGroupLayouts(vs.BindGroupLayoutDescriptors(), fs.BindGroupLayoutDescriptors())
	if err := r.backend.InitBindGroup(r.uniform, layouts[uniformGroup]); err != nil {
		return err
	}
	return nil
}

func (r *renderer) Scale() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.scale
}

func (r *renderer) SetScale(s float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scale = s
}

func (r *renderer) NextDrawable(ctx context.Context) (*Drawable, error) {
	deadline := time.Now().Add(r.drawableTimeout)
	attempts := 0
	for {
		attempts++
		d, err := r.backend.AcquireDrawable()
		if err == nil {
			if attempts > 1 {
				common.Logger().Debug("drawable acquired after retry", "attempts", attempts)
			}
			return d, nil
		}
		if !errors.Is(err, ErrDrawableUnavailable) {
			err = fmt.Errorf("%w: %w", ErrDrawableUnavailable, err)
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil, fmt.Errorf("%w: after %d attempts: %w", ErrFrameSkipped, attempts, err)
		}
		timer := time.NewTimer(min(r.drawableRetryInterval, remaining))
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, fmt.Errorf("%w: %w: %w", ErrFrameSkipped, err, ctx.Err())
		case <-timer.C:
		}
	}
}

func (r *renderer) Draw(d *Drawable) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if d == nil {
		return fmt.Errorf("%w: %w", ErrFrameSkipped, ErrDrawableUnavailable)
	}

	r.uniforms.ModelViewMatrix = common.ScaleMatrix(r.scale)
	r.backend.WriteBuffers([]bind_group_provider.BufferWrite{{
		Provider: r.uniform,
		Binding:  r.binding,
		Offset:   0,
		Data:     r.uniforms.Marshal(),
	}})

	if err := r.backend.BeginPass(d, r.clearColor); err != nil {
		r.backend.Discard(d)
		return fmt.Errorf("%w: %w", ErrFrameSkipped, err)
	}
	r.backend.Draw(r.pipeline, r.mesh, []bind_group_provider.BindGroupProvider{r.uniform}, uint32(r.mesh.VertexCount()))
	if err := r.backend.EndPass(); err != nil {
		r.backend.Discard(d)
		return fmt.Errorf("%w: %w", ErrFrameSkipped, err)
	}
	r.backend.Present(d)
	r.frames++
	return nil
}

func (r *renderer) Render(ctx context.Context) error {
	d, err := r.NextDrawable(ctx)
	if err != nil {
		return err
	}
	return r.Draw(d)
}

func (r *renderer) Resize(width, height int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.backend.ConfigureSurface(width, height)
}

func (r *renderer) FrameCount() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}

func (r *renderer) Uniforms() Uniforms {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.uniforms
}

func (r *renderer) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.uniform != nil {
		r.uniform.Release()
		r.uniform = nil
	}
	if r.mesh != nil {
		r.mesh.Release()
		r.mesh = nil
	}
	if r.pipeline != nil {
		r.pipeline.Release()
		r.pipeline = nil
	}
	if r.backend != nil {
		r.backend.Release()
		r.backend = nil
	}
}
