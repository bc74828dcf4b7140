package pipeline

import (
	"github.com/Carmen-Shannon/sunwave/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// PipelineBuilderOption configures a pipeline inside NewPipeline.
type PipelineBuilderOption func(*pipeline)

// WithShaders attaches the two stages the pipeline links. Either may be nil while the
// pipeline is being assembled, but RegisterPipelines rejects a pipeline missing a stage.
//
// Parameters:
//   - vertex: the stage providing the vertex entry point and buffer layouts
//   - fragment: the stage providing the fragment entry point
//
// Returns:
//   - PipelineBuilderOption: the option to pass to NewPipeline
func WithShaders(vertex, fragment shader.Shader) PipelineBuilderOption {
	return func(p *pipeline) {
		p.vertexShader = vertex
		p.fragmentShader = fragment
	}
}

// WithDepth controls the depth attachment. A full-screen pass that never overlaps itself
// disables both.
//
// Parameters:
//   - test: compare fragments against the depth buffer
//   - write: store fragment depth
//
// Returns:
//   - PipelineBuilderOption: the option to pass to NewPipeline
func WithDepth(test, write bool) PipelineBuilderOption {
	return func(p *pipeline) {
		p.depthTestEnabled = test
		p.depthWriteEnabled = write
	}
}

// WithBlendEnabled turns on the blend state for the color target.
func WithBlendEnabled(enabled bool) PipelineBuilderOption {
	return func(p *pipeline) {
		p.blendEnabled = enabled
	}
}

// WithBlendState replaces the default alpha blend. Ignored unless blending is enabled.
func WithBlendState(blendState *wgpu.BlendState) PipelineBuilderOption {
	return func(p *pipeline) {
		p.blendState = blendState
	}
}

// WithCullMode sets which faces are culled.
func WithCullMode(mode wgpu.CullMode) PipelineBuilderOption {
	return func(p *pipeline) {
		p.cullMode = mode
	}
}

func WithTopology(topology wgpu.PrimitiveTopology) PipelineBuilderOption {
	return func(p *pipeline) {
		p.topology = topology
	}
}

func WithFrontFace(frontFace wgpu.FrontFace) PipelineBuilderOption {
	return func(p *pipeline) {
		p.frontFace = frontFace
	}
}

// WithWriteMask limits which color channels the pass writes.
func WithWriteMask(writeMask wgpu.ColorWriteMask) PipelineBuilderOption {
	return func(p *pipeline) {
		p.writeMask = writeMask
	}
}
