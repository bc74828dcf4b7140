package scene

import (
	"github.com/Carmen-Shannon/sunwave/engine/renderer/pipeline"
	"go.uber.org/zap"
)

// SunSceneBuilderOption is a functional option for configuring a SunScene.
// Use the With* functions to create options.
type SunSceneBuilderOption func(s *sunScene)

// WithPipeline draws with an already built pipeline instead of the bundled shaders.
// Hot reload uses it to swap in freshly compiled shaders under a new key.
//
// Parameters:
//   - p: a pipeline with vertex and fragment shaders, see BuildSunPipeline
//
// Returns:
//   - SunSceneBuilderOption: option function to apply
func WithPipeline(p pipeline.Pipeline) SunSceneBuilderOption {
	return func(s *sunScene) {
		s.pipeline = p
	}
}

// WithTimeScale sets the factor applied to the millisecond timestamp to get the time uniform.
// Non-positive values are ignored.
//
// Parameters:
//   - scale: the time scale, DefaultTimeScale when unset
//
// Returns:
//   - SunSceneBuilderOption: option function to apply
func WithTimeScale(scale float64) SunSceneBuilderOption {
	return func(s *sunScene) {
		if scale > 0 {
			s.timeScale = scale
		}
	}
}

// WithLogger sets the logger used for frame errors.
func WithLogger(logger *zap.Logger) SunSceneBuilderOption {
	return func(s *sunScene) {
		if logger != nil {
			s.logger = logger.Named("scene")
		}
	}
}

// WithFrameHook registers a function called after every Advance with the frame timestamp and
// whether the frame reached the screen.
func WithFrameHook(hook func(timestamp float64, drawn bool)) SunSceneBuilderOption {
	return func(s *sunScene) {
		s.onFrame = hook
	}
}
