package uniforms

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGPUFrameUniformsMarshal(t *testing.T) {
	u := GPUFrameUniforms{
		Time:       2,
		Cursor:     [2]float32{-1, 1},
		Resolution: [2]float32{512, 256},
	}

	buf := u.Marshal()
	require.Len(t, buf, 24)
	assert.Equal(t, 24, u.Size())

	read := func(off int) float32 {
		return math.Float32frombits(binary.LittleEndian.Uint32(buf[off:]))
	}
	assert.Equal(t, float32(2), read(0))
	assert.Equal(t, float32(0), read(4))
	assert.Equal(t, float32(-1), read(8))
	assert.Equal(t, float32(1), read(12))
	assert.Equal(t, float32(512), read(16))
	assert.Equal(t, float32(256), read(20))
}

func TestGPUFrameUniformsSourceDeclaresStruct(t *testing.T) {
	assert.Contains(t, GPUFrameUniformsSource, "struct FrameUniforms")
	assert.Contains(t, GPUFrameUniformsSource, "cursor: vec2<f32>")
}
