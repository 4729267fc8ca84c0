package pipeline

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-scale/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// ErrIncompletePipeline is returned by NewPipeline when a vertex or fragment stage is missing.
var ErrIncompletePipeline = errors.New("pipeline: vertex and fragment shaders are required")

// pipeline is the implementation of the Pipeline interface.
type pipeline struct {
	pipelineKey string

	vertexShader, fragmentShader shader.Shader

	// renderPipeline is nil until the backend registers this pipeline.
	renderPipeline *wgpu.RenderPipeline

	// colorFormat is the single color target format; TextureFormatUndefined means the surface format.
	colorFormat wgpu.TextureFormat
	cullMode    wgpu.CullMode
	topology    wgpu.PrimitiveTopology
	frontFace   wgpu.FrontFace
	writeMask   wgpu.ColorWriteMask
}

// Pipeline describes one render pipeline: a vertex and fragment stage writing a single color target
// with no depth attachment and no blending.
type Pipeline interface {
	// PipelineKey returns the unique key of this pipeline, used as GPU object label.
	//
	// Returns:
	//   - string: the pipeline key
	PipelineKey() string

	// Shader retrieves the shader for a stage.
	//
	// Parameters:
	//   - shaderType: the stage to retrieve
	//
	// Returns:
	//   - shader.Shader: the stage's shader, or nil for an unknown stage
	Shader(shaderType shader.ShaderType) shader.Shader

	// RenderPipeline returns the GPU pipeline, or nil until a backend has registered this pipeline.
	//
	// Returns:
	//   - *wgpu.RenderPipeline: the compiled pipeline
	RenderPipeline() *wgpu.RenderPipeline

	// ColorFormat returns the configured color target format. TextureFormatUndefined means the backend
	// uses its surface format.
	//
	// Returns:
	//   - wgpu.TextureFormat: the color target format
	ColorFormat() wgpu.TextureFormat

	// CullMode returns the face culling mode.
	//
	// Returns:
	//   - wgpu.CullMode: the cull mode
	CullMode() wgpu.CullMode

	// Topology returns the primitive topology.
	//
	// Returns:
	//   - wgpu.PrimitiveTopology: the topology
	Topology() wgpu.PrimitiveTopology

	// FrontFace returns the winding order treated as front-facing.
	//
	// Returns:
	//   - wgpu.FrontFace: the front face winding
	FrontFace() wgpu.FrontFace

	// WriteMask returns the color write mask.
	//
	// Returns:
	//   - wgpu.ColorWriteMask: the write mask
	WriteMask() wgpu.ColorWriteMask

	// SetRenderPipeline stores the GPU pipeline created by the backend.
	//
	// Parameters:
	//   - rp: the compiled pipeline
	SetRenderPipeline(rp *wgpu.RenderPipeline)

	// Release releases the GPU pipeline if one was registered.
	Release()
}

var _ Pipeline = &pipeline{}

// NewPipeline creates a render pipeline description. The GPU object is created later by the backend.
//
// Parameters:
//   - pipelineKey: the unique key for this pipeline
//   - opts: a variadic list of PipelineBuilderOption functions to configure the pipeline
//
// Returns:
//   - Pipeline: the configured pipeline
//   - error: ErrIncompletePipeline if either stage is missing
func NewPipeline(pipelineKey string, opts ...PipelineBuilderOption) (Pipeline, error) {
	p := &pipeline{
		pipelineKey: pipelineKey,
		colorFormat: wgpu.TextureFormatUndefined,
		cullMode:    wgpu.CullModeNone,
		topology:    wgpu.PrimitiveTopologyTriangleList,
		frontFace:   wgpu.FrontFaceCCW,
		writeMask:   wgpu.ColorWriteMaskAll,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.vertexShader == nil || p.fragmentShader == nil {
		return nil, fmt.Errorf("%w: %s", ErrIncompletePipeline, pipelineKey)
	}
	return p, nil
}

func (p *pipeline) PipelineKey() string {
	return p.pipelineKey
}

func (p *pipeline) Shader(shaderType shader.ShaderType) shader.Shader {
	switch shaderType {
	case shader.ShaderTypeVertex:
		return p.vertexShader
	case shader.ShaderTypeFragment:
		return p.fragmentShader
	default:
		return nil
	}
}

func (p *pipeline) RenderPipeline() *wgpu.RenderPipeline {
	return p.renderPipeline
}

func (p *pipeline) ColorFormat() wgpu.TextureFormat {
	return p.colorFormat
}

func (p *pipeline) CullMode() wgpu.CullMode {
	return p.cullMode
}

func (p *pipeline) Topology() wgpu.PrimitiveTopology {
	return p.topology
}

func (p *pipeline) FrontFace() wgpu.FrontFace {
	return p.frontFace
}

func (p *pipeline) WriteMask() wgpu.ColorWriteMask {
	return p.writeMask
}

func (p *pipeline) SetRenderPipeline(rp *wgpu.RenderPipeline) {
	p.renderPipeline = rp
}

func (p *pipeline) Release() {
	if p.renderPipeline != nil {
		p.renderPipeline.Release()
		p.renderPipeline = nil
	}
}
