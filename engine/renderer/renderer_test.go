package renderer

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/sunwave/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/sunwave/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	configured  [][2]int
	presentMode PresentMode
	registered  []string
	released    []string
	writes      int
	draws       int
	registerErr error
	configErr   error
	backendFree bool
}

var _ RendererBackend = &fakeBackend{}

func (f *fakeBackend) ConfigureSurface(w, h int) error {
	if f.configErr != nil {
		return f.configErr
	}
	f.configured = append(f.configured, [2]int{w, h})
	return nil
}
func (f *fakeBackend) SetPresentMode(mode PresentMode) { f.presentMode = mode }
func (f *fakeBackend) RegisterRenderPipeline(p pipeline.Pipeline) error {
	if f.registerErr != nil {
		return f.registerErr
	}
	f.registered = append(f.registered, p.PipelineKey())
	return nil
}
func (f *fakeBackend) ReleasePipeline(p pipeline.Pipeline) {
	f.released = append(f.released, p.PipelineKey())
}
func (f *fakeBackend) InitMeshBuffers(bind_group_provider.BindGroupProvider, []byte, []byte, int) error {
	return nil
}
func (f *fakeBackend) InitBindGroup(bind_group_provider.BindGroupProvider, wgpu.BindGroupLayoutDescriptor) error {
	return nil
}
func (f *fakeBackend) WriteBuffers(writes []bind_group_provider.BufferWrite) { f.writes += len(writes) }
func (f *fakeBackend) BeginFrame() error                                     { return nil }
func (f *fakeBackend) DrawCall(pipeline.Pipeline, bind_group_provider.BindGroupProvider, uint32, []bind_group_provider.BindGroupProvider) error {
	f.draws++
	return nil
}
func (f *fakeBackend) EndFrame() error { return nil }
func (f *fakeBackend) Present()        {}
func (f *fakeBackend) Release()        { f.backendFree = true }

func newTestRenderer(options ...RendererBuilderOption) (*renderer, *fakeBackend) {
	r := newRenderer(BackendTypeWGPU, options...)
	fb := &fakeBackend{}
	r.backend = fb
	return r, fb
}

func meshProvider() bind_group_provider.BindGroupProvider {
	mesh := bind_group_provider.NewBindGroupProvider("quad", bind_group_provider.WithIndexFormat(wgpu.IndexFormatUint16))
	mesh.SetMesh(&wgpu.Buffer{}, &wgpu.Buffer{}, 6)
	return mesh
}

func TestNewRendererDefaults(t *testing.T) {
	r, _ := newTestRenderer()

	assert.Equal(t, PresentModeVSync, r.presentMode)
	assert.Equal(t, MSAA4x, r.msaa)
	assert.Equal(t, wgpu.Color{A: 1}, r.clearColor)
	assert.False(t, r.forceFallbackAdapter)
	assert.NotNil(t, r.logger)
}

func TestRendererOptions(t *testing.T) {
	r, _ := newTestRenderer(
		WithPresentMode(PresentModeUncapped),
		WithMSAA(MSAAOff),
		WithClearColor(wgpu.Color{R: 0.1, A: 1}),
		WithForceSoftwareRenderer(true),
		WithLogger(nil),
	)

	assert.Equal(t, PresentModeUncapped, r.presentMode)
	assert.Equal(t, MSAAOff, r.msaa)
	assert.Equal(t, 0.1, r.clearColor.R)
	assert.True(t, r.forceFallbackAdapter)
	assert.NotNil(t, r.logger)
}

func TestRendererResize(t *testing.T) {
	r, fb := newTestRenderer()

	require.NoError(t, r.Resize(800, 600))
	require.NoError(t, r.Resize(0, 600))

	w, h := r.Size()
	assert.Equal(t, 0, w)
	assert.Equal(t, 600, h)
	assert.Equal(t, [][2]int{{800, 600}}, fb.configured, "zero sized surfaces are not configured")

	fb.configErr = errors.New("boom")
	err := r.Resize(1024, 768)
	assert.ErrorIs(t, err, fb.configErr)
}

func TestRendererRegisterPipelines(t *testing.T) {
	r, fb := newTestRenderer()

	require.NoError(t, r.RegisterPipelines(pipeline.NewPipeline("a"), pipeline.NewPipeline("b")))
	require.NoError(t, r.RegisterPipelines(pipeline.NewPipeline("a")))

	assert.Equal(t, []string{"a", "b"}, fb.registered)
	assert.NotNil(t, r.Pipeline("a"))
	assert.Nil(t, r.Pipeline("c"))

	fb.registerErr = ErrIncompletePipeline
	err := r.RegisterPipelines(pipeline.NewPipeline("c"))
	assert.ErrorIs(t, err, ErrIncompletePipeline)
	assert.Nil(t, r.Pipeline("c"))
}

func TestRendererRemovePipeline(t *testing.T) {
	r, fb := newTestRenderer()
	require.NoError(t, r.RegisterPipelines(pipeline.NewPipeline("a")))

	r.RemovePipeline("a")
	r.RemovePipeline("missing")

	assert.Nil(t, r.Pipeline("a"))
	assert.Equal(t, []string{"a"}, fb.released)
}

func TestRendererDrawCall(t *testing.T) {
	r, fb := newTestRenderer()
	require.NoError(t, r.RegisterPipelines(pipeline.NewPipeline("sun")))

	err := r.DrawCall("moon", meshProvider(), 1, nil)
	assert.ErrorIs(t, err, ErrPipelineNotFound)

	err = r.DrawCall("sun", bind_group_provider.NewBindGroupProvider("empty"), 1, nil)
	assert.ErrorIs(t, err, ErrMissingBuffers)

	err = r.DrawCall("sun", meshProvider(), 1, []bind_group_provider.BindGroupProvider{
		bind_group_provider.NewBindGroupProvider("frame"),
	})
	assert.ErrorIs(t, err, ErrMissingBuffers)

	require.NoError(t, r.DrawCall("sun", meshProvider(), 1, nil))
	assert.Equal(t, 1, fb.draws)
}

func TestRendererWriteBuffersAndRelease(t *testing.T) {
	r, fb := newTestRenderer()
	require.NoError(t, r.RegisterPipelines(pipeline.NewPipeline("sun")))

	frame := bind_group_provider.NewBindGroupProvider("frame")
	r.WriteBuffers([]bind_group_provider.BufferWrite{{Provider: frame, Binding: 0, Data: make([]byte, 24)}})
	assert.Equal(t, 1, fb.writes)

	r.SetPresentMode(PresentModeUncapped)
	assert.Equal(t, PresentModeUncapped, fb.presentMode)

	r.Release()
	assert.True(t, fb.backendFree)
	assert.Equal(t, []string{"sun"}, fb.released)
	assert.Nil(t, r.Pipeline("sun"))
}
