package pipeline

import (
	"testing"

	"github.com/Carmen-Shannon/sunwave/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uniformEntry(binding uint32, stage wgpu.ShaderStage) wgpu.BindGroupLayoutEntry {
	e := wgpu.BindGroupLayoutEntry{Binding: binding, Visibility: stage}
	e.Buffer.Type = wgpu.BufferBindingTypeUniform
	e.Buffer.MinBindingSize = 16
	return e
}

func TestNewPipelineDefaults(t *testing.T) {
	p := NewPipeline("sun")

	assert.Equal(t, "sun", p.PipelineKey())
	assert.True(t, p.DepthTestEnabled())
	assert.True(t, p.DepthWriteEnabled())
	assert.False(t, p.BlendEnabled())
	assert.Equal(t, wgpu.CullModeNone, p.CullMode())
	assert.Equal(t, wgpu.PrimitiveTopologyTriangleList, p.Topology())
	assert.Equal(t, wgpu.FrontFaceCCW, p.FrontFace())
	assert.Equal(t, wgpu.ColorWriteMaskAll, p.WriteMask())
	assert.NotNil(t, p.BlendState())
	assert.Nil(t, p.RenderPipeline())
	assert.Nil(t, p.Shader(shader.ShaderTypeVertex))
	assert.Empty(t, p.BindGroupLayoutDescriptors())
}

func TestNewPipelineOptions(t *testing.T) {
	blend := &wgpu.BlendState{}
	p := NewPipeline("sun",
		WithDepth(false, false),
		WithBlendEnabled(true),
		WithBlendState(blend),
		WithCullMode(wgpu.CullModeBack),
		WithTopology(wgpu.PrimitiveTopologyLineList),
		WithFrontFace(wgpu.FrontFaceCW),
		WithWriteMask(wgpu.ColorWriteMaskRed),
	)

	assert.False(t, p.DepthTestEnabled())
	assert.False(t, p.DepthWriteEnabled())
	assert.True(t, p.BlendEnabled())
	assert.Same(t, blend, p.BlendState())
	assert.Equal(t, wgpu.CullModeBack, p.CullMode())
	assert.Equal(t, wgpu.PrimitiveTopologyLineList, p.Topology())
	assert.Equal(t, wgpu.FrontFaceCW, p.FrontFace())
	assert.Equal(t, wgpu.ColorWriteMaskRed, p.WriteMask())
}

func TestPipelineShadersAndLayouts(t *testing.T) {
	vs, err := shader.NewShader("vs", shader.ShaderTypeVertex, `//@sunwave:include vertex
@vertex
fn vs_main(input: VertexInput) -> @builtin(position) vec4<f32> {
    return vec4<f32>(input.position, 0.0, 1.0);
}
`)
	require.NoError(t, err)
	fs, err := shader.NewShader("fs", shader.ShaderTypeFragment, `//@sunwave:include frame_uniforms
//@sunwave:group 0 0 storage_uniform frame frame_uniforms
@fragment
fn fs_main() -> @location(0) vec4<f32> {
    return vec4<f32>(frame.time, 0.0, 0.0, 1.0);
}
`)
	require.NoError(t, err)

	p := NewPipeline("sun", WithShaders(vs, fs))
	assert.Same(t, vs, p.Shader(shader.ShaderTypeVertex))
	assert.Same(t, fs, p.Shader(shader.ShaderTypeFragment))

	layouts := p.BindGroupLayoutDescriptors()
	require.Len(t, layouts, 1)
	require.Len(t, layouts[0].Entries, 1)
	assert.Equal(t, uint64(24), layouts[0].Entries[0].Buffer.MinBindingSize)
	assert.Equal(t, wgpu.ShaderStageFragment, layouts[0].Entries[0].Visibility)
}

func TestMergeBindGroupLayouts(t *testing.T) {
	vertex := map[int]wgpu.BindGroupLayoutDescriptor{
		0: {Entries: []wgpu.BindGroupLayoutEntry{uniformEntry(0, wgpu.ShaderStageVertex)}},
		1: {Entries: []wgpu.BindGroupLayoutEntry{uniformEntry(0, wgpu.ShaderStageVertex)}},
	}
	fragment := map[int]wgpu.BindGroupLayoutDescriptor{
		0: {Entries: []wgpu.BindGroupLayoutEntry{
			uniformEntry(2, wgpu.ShaderStageFragment),
			uniformEntry(0, wgpu.ShaderStageFragment),
		}},
		3: {Entries: []wgpu.BindGroupLayoutEntry{uniformEntry(1, wgpu.ShaderStageFragment)}},
	}

	merged := mergeBindGroupLayouts(vertex, fragment)
	require.Len(t, merged, 3)

	g0 := merged[0].Entries
	require.Len(t, g0, 2)
	assert.Equal(t, uint32(0), g0[0].Binding)
	assert.Equal(t, wgpu.ShaderStageVertex|wgpu.ShaderStageFragment, g0[0].Visibility)
	assert.Equal(t, uint32(2), g0[1].Binding)
	assert.Equal(t, wgpu.ShaderStageFragment, g0[1].Visibility)

	assert.Equal(t, wgpu.ShaderStageVertex, merged[1].Entries[0].Visibility)
	assert.Equal(t, uint32(1), merged[3].Entries[0].Binding)

	assert.Equal(t, wgpu.ShaderStageVertex, vertex[0].Entries[0].Visibility, "inputs are not mutated")
}
