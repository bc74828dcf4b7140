package scene

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/sunwave/engine/frame_driver"
	"github.com/Carmen-Shannon/sunwave/engine/model"
	"github.com/Carmen-Shannon/sunwave/engine/renderer"
	"github.com/Carmen-Shannon/sunwave/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/sunwave/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/sunwave/engine/renderer/shader"
	"github.com/Carmen-Shannon/sunwave/engine/uniforms"
	"go.uber.org/zap"
)

const (
	// DefaultTimeScale converts the frame timestamp in milliseconds to the shader's time uniform.
	DefaultTimeScale = 1.0 / 5000.0

	// frameUniformsVar is the WGSL variable the fragment stage binds the frame uniforms to.
	frameUniformsVar = "frame"
	frameGroup       = 0
)

// ErrMissingFrameUniforms is returned by NewSunScene when the fragment stage does not declare
// the frame uniform binding in group 0.
var ErrMissingFrameUniforms = errors.New("scene: fragment shader does not bind frame uniforms")

// sunScene is the implementation of the SunScene interface.
type sunScene struct {
	r      renderer.Renderer
	state  State
	logger *zap.Logger

	pipeline      pipeline.Pipeline
	mesh          model.Model
	frameProvider bind_group_provider.BindGroupProvider
	frameBinding  int

	timeScale float64
	frames    uint64
	dropped   uint64
	onFrame   func(timestamp float64, drawn bool)
}

// SunScene renders the sun and triangle once per Advance. It is the Advancer a frame driver runs.
type SunScene interface {
	frame_driver.Advancer

	// PipelineKey returns the key of the pipeline the scene draws with.
	PipelineKey() string

	// Uniforms computes the frame uniforms for a timestamp from the current cursor and surface size.
	//
	// Parameters:
	//   - timestamp: the frame time in milliseconds
	//
	// Returns:
	//   - uniforms.GPUFrameUniforms: time = timestamp * time scale, cursor, resolution
	Uniforms(timestamp float64) uniforms.GPUFrameUniforms

	// Frames returns the number of frames presented.
	Frames() uint64

	// Dropped returns the number of frames skipped because of a surface or draw error.
	Dropped() uint64

	// Release removes the scene's pipeline from the renderer and frees its GPU buffers.
	// The scene must not be advanced afterwards.
	Release()
}

var _ SunScene = &sunScene{}

// NewSunScene builds the pipeline (bundled shaders unless WithPipeline is given), registers it,
// and uploads the quad mesh and the frame uniform buffer.
//
// Parameters:
//   - r: the renderer to draw with; its surface must already be configured
//   - state: the cursor source
//   - options: functional options applied to the scene
//
// Returns:
//   - SunScene: the scene, ready to be passed to a frame driver
//   - error: a shader, registration or buffer error
func NewSunScene(r renderer.Renderer, state State, options ...SunSceneBuilderOption) (SunScene, error) {
	s := &sunScene{
		r:         r,
		state:     state,
		logger:    zap.NewNop(),
		timeScale: DefaultTimeScale,
	}
	for _, opt := range options {
		opt(s)
	}

	if s.pipeline == nil {
		p, err := BuildSunPipeline(DefaultPipelineKey, SunVertexSource, SunFragmentSource)
		if err != nil {
			return nil, err
		}
		s.pipeline = p
	}
	s.mesh = model.NewModel(model.WithName(s.pipeline.PipelineKey()))

	fragment := s.pipeline.Shader(shader.ShaderTypeFragment)
	if fragment == nil {
		return nil, renderer.ErrIncompletePipeline
	}
	binding, ok := fragment.BindGroupFromVarName(frameGroup, frameUniformsVar)
	if !ok {
		return nil, ErrMissingFrameUniforms
	}
	s.frameBinding = binding

	if err := r.RegisterPipelines(s.pipeline); err != nil {
		return nil, err
	}

	if err := r.InitMeshBuffers(s.mesh.MeshProvider(), s.mesh.VertexData(), s.mesh.IndexData(), s.mesh.IndexCount()); err != nil {
		r.RemovePipeline(s.pipeline.PipelineKey())
		return nil, fmt.Errorf("scene: upload mesh: %w", err)
	}

	s.frameProvider = bind_group_provider.NewBindGroupProvider(s.pipeline.PipelineKey() + " frame uniforms")
	layouts := s.pipeline.BindGroupLayoutDescriptors()
	if err := r.InitBindGroup(s.frameProvider, layouts[frameGroup]); err != nil {
		s.Release()
		return nil, fmt.Errorf("scene: frame uniforms: %w", err)
	}

	s.logger.Debug("scene ready",
		zap.String("pipeline", s.pipeline.PipelineKey()),
		zap.Int("indices", s.mesh.IndexCount()),
		zap.Float64("time_scale", s.timeScale))
	return s, nil
}

func (s *sunScene) PipelineKey() string {
	return s.pipeline.PipelineKey()
}

func (s *sunScene) Uniforms(timestamp float64) uniforms.GPUFrameUniforms {
	w, h := s.r.Size()
	return uniforms.GPUFrameUniforms{
		Time:       float32(timestamp * s.timeScale),
		Cursor:     s.state.Cursor(),
		Resolution: [2]float32{float32(w), float32(h)},
	}
}

func (s *sunScene) Advance(timestamp float64) {
	drawn := s.draw(timestamp)
	if drawn {
		s.frames++
	} else {
		s.dropped++
	}
	if s.onFrame != nil {
		s.onFrame(timestamp, drawn)
	}
}

func (s *sunScene) draw(timestamp float64) bool {
	if w, h := s.r.Size(); w <= 0 || h <= 0 {
		return false
	}

	u := s.Uniforms(timestamp)
	s.r.WriteBuffers([]bind_group_provider.BufferWrite{
		{Provider: s.frameProvider, Binding: s.frameBinding, Data: u.Marshal()},
	})

	if err := s.r.BeginFrame(); err != nil {
		if errors.Is(err, renderer.ErrSurfaceAcquire) {
			w, h := s.r.Size()
			if rerr := s.r.Resize(w, h); rerr != nil {
				s.logger.Warn("surface reconfigure failed", zap.Error(rerr))
			}
			return false
		}
		s.logger.Warn("begin frame failed", zap.Error(err))
		return false
	}

	drawErr := s.r.DrawCall(s.pipeline.PipelineKey(), s.mesh.MeshProvider(), 1,
		[]bind_group_provider.BindGroupProvider{s.frameProvider})
	if drawErr != nil {
		s.logger.Warn("draw failed", zap.String("pipeline", s.pipeline.PipelineKey()), zap.Error(drawErr))
	}

	// the pass is closed and presented even after a failed draw so the next BeginFrame succeeds
	if err := s.r.EndFrame(); err != nil {
		s.logger.Warn("end frame failed", zap.Error(err))
		return false
	}
	s.r.Present()
	return drawErr == nil
}

func (s *sunScene) Frames() uint64 {
	return s.frames
}

func (s *sunScene) Dropped() uint64 {
	return s.dropped
}

func (s *sunScene) Release() {
	s.r.RemovePipeline(s.pipeline.PipelineKey())
	if s.frameProvider != nil {
		s.frameProvider.Release()
	}
	s.mesh.MeshProvider().Release()
}
