package renderer

import (
	"errors"

	"github.com/Carmen-Shannon/sunwave/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/sunwave/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

// RendererBackendType identifies the GPU backend implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeWGPU selects the WebGPU-based rendering backend.
	BackendTypeWGPU RendererBackendType = iota
)

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, pacing the frame
	// loop to the monitor's refresh rate. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped
)

// MSAASampleCount controls the number of samples used for multisample anti-aliasing (MSAA).
// WebGPU guarantees support for 1 (off) and 4.
type MSAASampleCount uint32

const (
	// MSAAOff disables multisample anti-aliasing (sample count 1).
	MSAAOff MSAASampleCount = 1

	// MSAA4x enables 4x multisample anti-aliasing. This is the default.
	MSAA4x MSAASampleCount = 4
)

var (
	// ErrSurfaceAcquire is returned by BeginFrame when the swapchain texture cannot be acquired,
	// typically because the surface is lost or outdated. Reconfiguring the surface with Resize
	// and skipping the frame recovers.
	ErrSurfaceAcquire = errors.New("renderer: failed to acquire surface texture")

	// ErrFrameInFlight is returned by BeginFrame when the previous frame has not been presented.
	ErrFrameInFlight = errors.New("renderer: previous frame not yet presented")

	// ErrNoFrame is returned by DrawCall and EndFrame when no frame has been begun.
	ErrNoFrame = errors.New("renderer: no frame in progress")

	// ErrPipelineNotFound is returned when a pipeline key has not been registered.
	ErrPipelineNotFound = errors.New("renderer: pipeline not found")

	// ErrMissingBuffers is returned when a draw references a mesh or bind group whose GPU
	// resources have not been initialised.
	ErrMissingBuffers = errors.New("renderer: missing gpu buffers")

	// ErrIncompletePipeline is returned when registering a pipeline without both shader stages.
	ErrIncompletePipeline = errors.New("renderer: pipeline requires vertex and fragment shaders")
)

// RendererBackend is the GPU API specific half of the Renderer. The Renderer validates
// arguments and owns the pipeline cache; the backend owns every GPU object.
type RendererBackend interface {
	// ConfigureSurface (re)configures the swapchain and the attachments sized to it.
	// Must be called whenever the surface size changes or the surface is lost.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	//
	// Returns:
	//   - error: an error if an attachment texture could not be created
	ConfigureSurface(width, height int) error

	// SetPresentMode records the present mode applied by the next ConfigureSurface.
	SetPresentMode(mode PresentMode)

	// RegisterRenderPipeline creates the shader modules, pipeline layout, and render pipeline
	// for p and stores the result on p via SetRenderPipeline.
	RegisterRenderPipeline(p pipeline.Pipeline) error

	// ReleasePipeline frees the GPU render pipeline held by p.
	ReleasePipeline(p pipeline.Pipeline)

	// InitMeshBuffers uploads vertex and index data into new GPU buffers stored on provider.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the created buffers on
	//   - vertexData: the raw vertex data bytes to upload to the GPU
	//   - indexData: the raw index data bytes, already padded to a multiple of 4
	//   - indexCount: the number of indices, used for draw calls
	//
	// Returns:
	//   - error: an error if a buffer could not be created
	InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int) error

	// InitBindGroup creates one buffer per layout entry, sized to its MinBindingSize, then the
	// bind group layout and bind group, all stored on provider.
	InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor) error

	// WriteBuffers queues every write. Writes targeting a binding without a buffer are skipped.
	WriteBuffers(writes []bind_group_provider.BufferWrite)

	// BeginFrame acquires the swapchain texture and begins the main render pass.
	BeginFrame() error

	// DrawCall encodes one indexed draw inside the current render pass.
	DrawCall(p pipeline.Pipeline, meshProvider bind_group_provider.BindGroupProvider, instanceCount uint32, bindGroups []bind_group_provider.BindGroupProvider) error

	// EndFrame ends the render pass and submits the command buffer.
	EndFrame() error

	// Present presents the acquired surface texture and releases it.
	Present()

	// Release frees every GPU object the backend owns.
	Release()
}
