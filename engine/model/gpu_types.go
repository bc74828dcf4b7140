package model

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"
)

// GPUVertexSource is the canonical WGSL definition of the VertexInput struct for the scene quad.
// Matches GPUVertex layout exactly (20 bytes, tightly packed vertex attributes).
//
//go:embed assets/vertex.wgsl
var GPUVertexSource string

// GPUVertex is the interleaved vertex layout of the scene quad: a 2D clip-space position
// followed by an RGB color. Vertex attributes are not subject to uniform alignment, so the
// struct is tightly packed.
// Size: 20 bytes.
type GPUVertex struct {
	Position [2]float32 // offset 0: clip-space position (vec2<f32>)
	Color    [3]float32 // offset 8: per-vertex color (vec3<f32>)
}

// Size returns the size of the GPUVertex struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (20)
func (g *GPUVertex) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUVertex struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 20-byte little-endian buffer
func (g *GPUVertex) Marshal() []byte {
	buf := make([]byte, g.Size())
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(g.Position[0]))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(g.Position[1]))
	binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(g.Color[0]))
	binary.LittleEndian.PutUint32(buf[12:16], math.Float32bits(g.Color[1]))
	binary.LittleEndian.PutUint32(buf[16:20], math.Float32bits(g.Color[2]))
	return buf
}

// MarshalVertices concatenates the serialized form of each vertex.
//
// Parameters:
//   - vertices: the vertices to serialize
//
// Returns:
//   - []byte: the interleaved vertex buffer contents
func MarshalVertices(vertices []GPUVertex) []byte {
	if len(vertices) == 0 {
		return nil
	}
	out := make([]byte, 0, len(vertices)*vertices[0].Size())
	for i := range vertices {
		out = append(out, vertices[i].Marshal()...)
	}
	return out
}

// MarshalIndices serializes 16-bit indices as little-endian bytes.
// The result is padded to a multiple of 4 bytes as required for GPU buffer writes.
//
// Parameters:
//   - indices: the indices to serialize
//
// Returns:
//   - []byte: the index buffer contents
func MarshalIndices(indices []uint16) []byte {
	size := len(indices) * 2
	size = (size + 3) &^ 3
	buf := make([]byte, size)
	for i, idx := range indices {
		binary.LittleEndian.PutUint16(buf[i*2:], idx)
	}
	return buf
}
