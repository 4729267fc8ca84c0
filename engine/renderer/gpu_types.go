package renderer

import (
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

// Vertex is one triangle corner as laid out in the vertex buffer (12 bytes, vec3<f32> at location 0).
type Vertex struct {
	Position [3]float32
}

// TriangleVertices are the three fixed corners of the rendered triangle in clip space.
var TriangleVertices = []Vertex{
	{Position: [3]float32{0, 0, 0}},
	{Position: [3]float32{0.5, 0, 0}},
	{Position: [3]float32{0, 0.5, 0}},
}

// MarshalVertices packs vertices into a little-endian byte buffer for GPU upload.
//
// Parameters:
//   - vertices: the vertices to pack
//
// Returns:
//   - []byte: 12 bytes per vertex
func MarshalVertices(vertices []Vertex) []byte {
	stride := int(unsafe.Sizeof(Vertex{}))
	buf := make([]byte, stride*len(vertices))
	for i, v := range vertices {
		for j := range 3 {
			binary.LittleEndian.PutUint32(buf[i*stride+j*4:], math.Float32bits(v.Position[j]))
		}
	}
	return buf
}

// Uniforms is the GPU-aligned uniform block bound at group 0 binding 0. Both matrices are
// column-major mat4x4<f32>. Size: 128 bytes.
type Uniforms struct {
	ProjectionMatrix mgl32.Mat4 // offset  0
	ModelViewMatrix  mgl32.Mat4 // offset 64
}

// NewUniforms returns uniforms with an identity projection and an unscaled model-view.
//
// Returns:
//   - Uniforms: the initial uniform block
func NewUniforms() Uniforms {
	return Uniforms{
		ProjectionMatrix: mgl32.Ident4(),
		ModelViewMatrix:  mgl32.Ident4(),
	}
}

// Size returns the size of the uniform block in bytes.
//
// Returns:
//   - int: the struct size in bytes (128)
func (u *Uniforms) Size() int {
	return int(unsafe.Sizeof(*u))
}

// Marshal serializes the uniform block into a little-endian byte buffer.
//
// Returns:
//   - []byte: the serialized byte buffer
func (u *Uniforms) Marshal() []byte {
	buf := make([]byte, u.Size())
	for i := range 16 {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(u.ProjectionMatrix[i]))
		binary.LittleEndian.PutUint32(buf[64+i*4:], math.Float32bits(u.ModelViewMatrix[i]))
	}
	return buf
}
