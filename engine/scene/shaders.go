package scene

import (
	_ "embed"
	"fmt"

	"github.com/Carmen-Shannon/sunwave/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/sunwave/engine/renderer/shader"
)

// SunVertexSource is the bundled vertex stage: passes the quad position through to clip space.
//
//go:embed assets/sun_vertex.wgsl
var SunVertexSource string

// SunFragmentSource is the bundled fragment stage drawing the sun and the triangle.
//
//go:embed assets/sun_fragment.wgsl
var SunFragmentSource string

// DefaultPipelineKey is the pipeline key used for the bundled shaders.
const DefaultPipelineKey = "sun"

// BuildSunPipeline compiles both shader stages and assembles the render pipeline used by a SunScene.
// The full viewport quad covers every pixel exactly once, so depth testing and culling are off.
//
// Parameters:
//   - key: the pipeline key; shader keys are derived from it
//   - vertexSource: WGSL source of the vertex stage
//   - fragmentSource: WGSL source of the fragment stage
//
// Returns:
//   - pipeline.Pipeline: the pipeline, not yet registered with a renderer
//   - error: the first shader error, wrapping shader.ErrInvalidShader or shader.ErrMissingEntryPoint
func BuildSunPipeline(key, vertexSource, fragmentSource string) (pipeline.Pipeline, error) {
	vs, err := shader.NewShader(key+".vertex", shader.ShaderTypeVertex, vertexSource)
	if err != nil {
		return nil, fmt.Errorf("vertex stage: %w", err)
	}
	fs, err := shader.NewShader(key+".fragment", shader.ShaderTypeFragment, fragmentSource)
	if err != nil {
		return nil, fmt.Errorf("fragment stage: %w", err)
	}

	return pipeline.NewPipeline(key,
		pipeline.WithShaders(vs, fs),
		pipeline.WithDepth(false, false),
	), nil
}
