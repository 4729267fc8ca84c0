package pipeline

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-scale/engine/renderer/assets"
	"github.com/Carmen-Shannon/oxy-scale/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func triangleShaders(t *testing.T) (shader.Shader, shader.Shader) {
	t.Helper()
	vs, err := shader.NewShader("vs", shader.ShaderTypeVertex, assets.TriangleWGSL)
	require.NoError(t, err)
	fs, err := shader.NewShader("fs", shader.ShaderTypeFragment, assets.TriangleWGSL)
	require.NoError(t, err)
	return vs, fs
}

func TestNewPipelineDefaults(t *testing.T) {
	vs, fs := triangleShaders(t)

	p, err := NewPipeline("triangle", WithVertexShader(vs), WithFragmentShader(fs))
	require.NoError(t, err)

	assert.Equal(t, "triangle", p.PipelineKey())
	assert.Same(t, vs, p.Shader(shader.ShaderTypeVertex))
	assert.Same(t, fs, p.Shader(shader.ShaderTypeFragment))
	assert.Equal(t, wgpu.PrimitiveTopologyTriangleList, p.Topology())
	assert.Equal(t, wgpu.CullModeNone, p.CullMode())
	assert.Equal(t, wgpu.TextureFormatUndefined, p.ColorFormat())
	assert.Nil(t, p.RenderPipeline())
	assert.NotPanics(t, p.Release)
}

func TestNewPipelineOptions(t *testing.T) {
	vs, fs := triangleShaders(t)

	p, err := NewPipeline("triangle",
		WithVertexShader(vs),
		WithFragmentShader(fs),
		WithColorFormat(wgpu.TextureFormatBGRA8Unorm),
		WithCullMode(wgpu.CullModeBack),
		WithTopology(wgpu.PrimitiveTopologyLineList),
	)
	require.NoError(t, err)

	assert.Equal(t, wgpu.TextureFormatBGRA8Unorm, p.ColorFormat())
	assert.Equal(t, wgpu.CullModeBack, p.CullMode())
	assert.Equal(t, wgpu.PrimitiveTopologyLineList, p.Topology())
}

func TestNewPipelineRequiresBothStages(t *testing.T) {
	vs, _ := triangleShaders(t)

	_, err := NewPipeline("half", WithVertexShader(vs))
	assert.ErrorIs(t, err, ErrIncompletePipeline)
}
