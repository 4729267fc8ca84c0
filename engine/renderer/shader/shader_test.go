package shader

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-scale/engine/renderer/assets"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewShaderParsesTriangleVertexStage(t *testing.T) {
	s, err := NewShader("triangle_vs", ShaderTypeVertex, assets.TriangleWGSL)
	require.NoError(t, err)

	assert.Equal(t, "vertex_shader", s.EntryPoint())
	assert.Equal(t, ShaderTypeVertex, s.ShaderType())

	layouts := s.VertexLayouts()
	require.Len(t, layouts, 1)
	assert.Equal(t, uint64(12), layouts[0].ArrayStride)
	require.Len(t, layouts[0].Attributes, 1)
	assert.Equal(t, wgpu.VertexFormatFloat32x3, layouts[0].Attributes[0].Format)
	assert.Equal(t, uint32(0), layouts[0].Attributes[0].ShaderLocation)

	desc := s.BindGroupLayoutDescriptor(0)
	require.Len(t, desc.Entries, 1)
	entry := desc.Entries[0]
	assert.Equal(t, uint32(0), entry.Binding)
	assert.Equal(t, wgpu.BufferBindingTypeUniform, entry.Buffer.Type)
	assert.Equal(t, uint64(128), entry.Buffer.MinBindingSize)
	assert.Equal(t, wgpu.ShaderStageVertex, entry.Visibility)

	binding, ok := s.BindGroupFromVarName(0, "uniforms")
	assert.True(t, ok)
	assert.Equal(t, 0, binding)
	_, ok = s.BindGroupFromVarName(0, "missing")
	assert.False(t, ok)
}

func TestNewShaderParsesTriangleFragmentStage(t *testing.T) {
	s, err := NewShader("triangle_fs", ShaderTypeFragment, assets.TriangleWGSL)
	require.NoError(t, err)

	assert.Equal(t, "fragment_shader", s.EntryPoint())
	assert.Empty(t, s.VertexLayouts())
	assert.Equal(t, wgpu.ShaderStageFragment, s.BindGroupLayoutDescriptor(0).Entries[0].Visibility)
}

func TestNewShaderMissingEntryPoint(t *testing.T) {
	_, err := NewShader("bad", ShaderTypeFragment, "@vertex fn vs() -> @builtin(position) vec4f { return vec4f(); }")
	assert.ErrorIs(t, err, ErrMissingEntryPoint)
}

func TestCommentedDeclarationsAreIgnored(t *testing.T) {
	src := `
// @group(0) @binding(3) var<uniform> ghost: f32;
/* @group(1) @binding(0) var<uniform> hidden: vec4f; */
@group(0) @binding(1) var<uniform> tint: vec4f;
@vertex fn vs() -> @builtin(position) vec4f { return tint; }
`
	s, err := NewShader("commented", ShaderTypeVertex, src)
	require.NoError(t, err)

	groups := s.BindGroupLayoutDescriptors()
	require.Len(t, groups, 1)
	require.Len(t, groups[0].Entries, 1)
	assert.Equal(t, uint32(1), groups[0].Entries[0].Binding)
	assert.Equal(t, uint64(16), groups[0].Entries[0].Buffer.MinBindingSize)
}

func TestStructLayoutRules(t *testing.T) {
	structs := parseStructBlocks(`
struct Outer { inner: Inner, scale: f32, }
struct Inner { a: vec3f, b: f32, }
struct Padded { x: f32, v: vec3f, }
`)
	sizes := computeStructSizes(structs)

	assert.Equal(t, typeLayout{16, 16}, sizes["Inner"])
	assert.Equal(t, typeLayout{32, 16}, sizes["Outer"])
	assert.Equal(t, typeLayout{32, 16}, sizes["Padded"])

	arr, ok := resolveTypeLayout("array<vec3f, 4>", sizes)
	assert.True(t, ok)
	assert.Equal(t, uint64(64), arr.size)

	_, ok = resolveTypeLayout("array<f32>", sizes)
	assert.False(t, ok)
}
