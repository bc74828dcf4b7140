package shader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testVertexSource = `//@sunwave:include vertex

struct VertexOutput {
    @builtin(position) position: vec4<f32>,
    @location(0) color: vec3<f32>,
};

@vertex
fn vs_main(input: VertexInput) -> VertexOutput {
    var result: VertexOutput;
    result.position = vec4<f32>(input.position, 0.0, 1.0);
    result.color = input.color;
    return result;
}
`

const testFragmentSource = `//@sunwave:include frame_uniforms
//@sunwave:group 0 0 storage_uniform frame frame_uniforms

@fragment
fn fs_main(@builtin(position) position: vec4<f32>) -> @location(0) vec4<f32> {
    let uv = position.xy / frame.resolution;
    return vec4<f32>(uv, sin(frame.time), 1.0);
}
`

func TestNewShaderVertex(t *testing.T) {
	s, err := NewShader("quad_vs", ShaderTypeVertex, testVertexSource)
	require.NoError(t, err)

	assert.Equal(t, "quad_vs", s.Key())
	assert.Equal(t, "vs_main", s.EntryPoint())
	assert.Equal(t, ShaderTypeVertex, s.ShaderType())
	assert.Contains(t, s.Source(), "struct VertexInput")
	require.NotNil(t, s.Module())
	assert.Equal(t, "quad_vs", s.Module().Label)
	assert.Equal(t, s.Source(), s.Module().WGSLDescriptor.Code)

	layout := s.VertexLayout(0)
	require.Len(t, layout, 1)
	assert.Equal(t, uint64(20), layout[0].ArrayStride)
	assert.Empty(t, s.BindGroupLayoutDescriptors())
	assert.Empty(t, s.Declarations())
}

func TestNewShaderFragment(t *testing.T) {
	s, err := NewShader("sun_fs", ShaderTypeFragment, testFragmentSource)
	require.NoError(t, err)

	assert.Equal(t, "fs_main", s.EntryPoint())
	assert.Empty(t, s.VertexLayouts())

	desc := s.BindGroupLayoutDescriptor(0)
	require.Len(t, desc.Entries, 1)
	assert.Equal(t, uint64(24), desc.Entries[0].Buffer.MinBindingSize)
	assert.Equal(t, wgpu.ShaderStageFragment, desc.Entries[0].Visibility)

	assert.Equal(t, "frame", s.BindGroupVarName(0, 0))
	assert.Empty(t, s.BindGroupVarName(3, 0))
	binding, ok := s.BindGroupFromVarName(0, "frame")
	assert.True(t, ok)
	assert.Equal(t, 0, binding)
	_, ok = s.BindGroupFromVarName(0, "missing")
	assert.False(t, ok)

	require.Len(t, s.Declarations(), 1)
}

func TestNewShaderErrors(t *testing.T) {
	_, err := NewShader("bad", ShaderTypeFragment, "//@sunwave:include nothing\n")
	assert.ErrorIs(t, err, ErrInvalidShader)

	_, err = NewShader("broken", ShaderTypeFragment, "@fragment fn fs_main( -> {")
	assert.ErrorIs(t, err, ErrInvalidShader)

	_, err = NewShader("wrong_stage", ShaderTypeVertex, testFragmentSource)
	assert.ErrorIs(t, err, ErrMissingEntryPoint)
}

func TestNewShaderFromPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quad.wgsl")
	require.NoError(t, os.WriteFile(path, []byte(testVertexSource), 0o644))

	s, err := NewShaderFromPath("quad_vs", ShaderTypeVertex, path)
	require.NoError(t, err)
	assert.Equal(t, "vs_main", s.EntryPoint())

	_, err = NewShaderFromPath("missing", ShaderTypeVertex, filepath.Join(t.TempDir(), "nope.wgsl"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidShader)
}

func TestValidate(t *testing.T) {
	spirv, err := Validate("@fragment fn fs_main() -> @location(0) vec4<f32> { return vec4<f32>(1.0); }")
	require.NoError(t, err)
	assert.NotEmpty(t, spirv)

	_, err = Validate("fn broken( {")
	assert.ErrorIs(t, err, ErrInvalidShader)
}

func TestShaderTypeString(t *testing.T) {
	assert.Equal(t, "vertex", ShaderTypeVertex.String())
	assert.Equal(t, "fragment", ShaderTypeFragment.String())
	assert.Equal(t, "ShaderType(9)", ShaderType(9).String())
}
