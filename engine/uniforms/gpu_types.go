package uniforms

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"
)

// GPUFrameUniformsSource is the canonical WGSL definition of the FrameUniforms struct.
// Matches GPUFrameUniforms layout exactly (24 bytes, WGSL uniform aligned).
//
//go:embed assets/frame_uniforms.wgsl
var GPUFrameUniformsSource string

// GPUFrameUniforms is the GPU-aligned representation of the per-frame uniform buffer.
// Matches the WGSL FrameUniforms struct layout exactly (see GPUFrameUniformsSource).
// Size: 24 bytes (vec2<f32> members are 8-byte aligned).
type GPUFrameUniforms struct {
	Time       float32    // offset  0: scaled elapsed time (f32)
	_pad       float32    // offset  4: padding so Cursor is 8-byte aligned
	Cursor     [2]float32 // offset  8: pointer position in normalized device coordinates (vec2<f32>)
	Resolution [2]float32 // offset 16: surface size in pixels (vec2<f32>)
}

// Size returns the size of the GPUFrameUniforms struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (24)
func (g *GPUFrameUniforms) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUFrameUniforms struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: the serialized byte buffer
func (g *GPUFrameUniforms) Marshal() []byte {
	buf := make([]byte, g.Size())
	binary.LittleEndian.PutUint32(buf[0:], math.Float32bits(g.Time))
	binary.LittleEndian.PutUint32(buf[4:], 0) // _pad
	binary.LittleEndian.PutUint32(buf[8:], math.Float32bits(g.Cursor[0]))
	binary.LittleEndian.PutUint32(buf[12:], math.Float32bits(g.Cursor[1]))
	binary.LittleEndian.PutUint32(buf[16:], math.Float32bits(g.Resolution[0]))
	binary.LittleEndian.PutUint32(buf[20:], math.Float32bits(g.Resolution[1]))
	return buf
}
