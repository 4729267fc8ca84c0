package renderer

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-scale/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-scale/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

type drawCall struct {
	pipelineKey string
	vertexCount uint32
	bindGroups  int
}

// fakeBackend records every call the renderer makes instead of touching a GPU.
type fakeBackend struct {
	calls       []string
	writes      []bind_group_provider.BufferWrite
	draws       []drawCall
	clears      []wgpu.Color
	sizes       [][2]int
	presentMode PresentMode
	released    bool

	layout wgpu.BindGroupLayoutDescriptor

	acquireFailures int
	acquireAttempts int
	beginErr        error
	endErr          error
	registerErr     error
}

var _ RendererBackend = &fakeBackend{}

func (f *fakeBackend) ConfigureSurface(width, height int) error {
	f.sizes = append(f.sizes, [2]int{width, height})
	return nil
}

func (f *fakeBackend) SetPresentMode(mode PresentMode) {
	f.presentMode = mode
}

func (f *fakeBackend) RegisterRenderPipeline(p pipeline.Pipeline) error {
	f.calls = append(f.calls, "register")
	return f.registerErr
}

func (f *fakeBackend) InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData []byte, vertexCount int) error {
	f.calls = append(f.calls, "mesh")
	provider.SetVertexCount(vertexCount)
	return nil
}

func (f *fakeBackend) InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor) error {
	f.calls = append(f.calls, "bindgroup")
	f.layout = descriptor
	return nil
}

func (f *fakeBackend) WriteBuffers(writes []bind_group_provider.BufferWrite) {
	f.calls = append(f.calls, "write")
	f.writes = append(f.writes, writes...)
}

func (f *fakeBackend) AcquireDrawable() (*Drawable, error) {
	f.acquireAttempts++
	if f.acquireFailures < 0 || f.acquireAttempts <= f.acquireFailures {
		return nil, fmt.Errorf("%w: surface timeout", ErrDrawableUnavailable)
	}
	return &Drawable{}, nil
}

func (f *fakeBackend) BeginPass(d *Drawable, clear wgpu.Color) error {
	f.calls = append(f.calls, "begin")
	f.clears = append(f.clears, clear)
	return f.beginErr
}

func (f *fakeBackend) Draw(p pipeline.Pipeline, mesh bind_group_provider.BindGroupProvider, bindGroups []bind_group_provider.BindGroupProvider, vertexCount uint32) {
	f.calls = append(f.calls, "draw")
	f.draws = append(f.draws, drawCall{pipelineKey: p.PipelineKey(), vertexCount: vertexCount, bindGroups: len(bindGroups)})
}

func (f *fakeBackend) EndPass() error {
	f.calls = append(f.calls, "end")
	return f.endErr
}

func (f *fakeBackend) Present(d *Drawable) {
	f.calls = append(f.calls, "present")
}

func (f *fakeBackend) Discard(d *Drawable) {
	f.calls = append(f.calls, "discard")
}

func (f *fakeBackend) Release() {
	f.released = true
}

// frameCalls returns the calls made after initialization.
func (f *fakeBackend) frameCalls() []string {
	for i, c := range f.calls {
		if c == "bindgroup" {
			return f.calls[i+1:]
		}
	}
	return f.calls
}

type fakeSurface struct{}

func (fakeSurface) SurfaceDescriptor() *wgpu.SurfaceDescriptor { return nil }
func (fakeSurface) Width() int                                 { return 800 }
func (fakeSurface) Height() int                                { return 600 }

var errEncoder = errors.New("encoder lost")
