package bind_group_provider

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// bindGroupProvider is the unexported implementation of BindGroupProvider.
type bindGroupProvider struct {
	label string

	// Populated by the Renderer, never by the caller.
	bindGroup       *wgpu.BindGroup
	bindGroupLayout *wgpu.BindGroupLayout
	buffers         map[int]*wgpu.Buffer

	vertexBuffer *wgpu.Buffer
	indexBuffer  *wgpu.Buffer
	indexCount   int
	indexFormat  wgpu.IndexFormat
}

// BindGroupProvider owns the GPU objects behind either one bind group or one mesh.
//
// A uniform provider is filled by Renderer.InitBindGroup and updated each frame through
// Renderer.WriteBuffers. A mesh provider is filled by Renderer.InitMeshBuffers and handed to
// Renderer.DrawCall. Both are freed with Release.
type BindGroupProvider interface {
	// Label prefixes the debug label of every GPU object created for the provider.
	Label() string

	// BindGroup returns the bind group, or nil before InitBindGroup.
	BindGroup() *wgpu.BindGroup

	// BindGroupLayout returns the layout the bind group was created from, or nil before InitBindGroup.
	BindGroupLayout() *wgpu.BindGroupLayout

	// Buffer returns the buffer at a binding index, or nil.
	//
	// Parameters:
	//   - binding: the @binding index inside the group
	//
	// Returns:
	//   - *wgpu.Buffer: the buffer or nil
	Buffer(binding int) *wgpu.Buffer

	// Buffers returns every uniform or storage buffer keyed by binding index.
	Buffers() map[int]*wgpu.Buffer

	// VertexBuffer returns the mesh vertex buffer, nil for uniform providers.
	VertexBuffer() *wgpu.Buffer

	// IndexBuffer returns the mesh index buffer, nil for uniform providers.
	IndexBuffer() *wgpu.Buffer

	// IndexCount returns how many indices DrawCall draws.
	IndexCount() int

	// IndexFormat returns the index element type, fixed at construction. Defaults to Uint32.
	IndexFormat() wgpu.IndexFormat

	SetBindGroup(bg *wgpu.BindGroup)
	SetBindGroupLayout(bgl *wgpu.BindGroupLayout)
	SetBuffer(binding int, buf *wgpu.Buffer)

	// SetMesh stores the buffers created by InitMeshBuffers.
	//
	// Parameters:
	//   - vertex: the vertex buffer
	//   - index: the index buffer, read with IndexFormat
	//   - indexCount: the number of indices to draw
	SetMesh(vertex, index *wgpu.Buffer, indexCount int)

	// Release frees every GPU object and resets the provider to its unfilled state.
	// The label and index format survive, so the provider can be filled again.
	Release()
}

var _ BindGroupProvider = &bindGroupProvider{}

// NewBindGroupProvider creates an unfilled BindGroupProvider.
//
// Parameters:
//   - label: the debug label prefix for GPU objects
//   - options: functional options applied to the provider
//
// Returns:
//   - BindGroupProvider: the new provider
func NewBindGroupProvider(label string, options ...BindGroupProviderOption) BindGroupProvider {
	p := &bindGroupProvider{
		label:       label,
		buffers:     make(map[int]*wgpu.Buffer),
		indexFormat: wgpu.IndexFormatUint32,
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

func (p *bindGroupProvider) Label() string                          { return p.label }
func (p *bindGroupProvider) BindGroup() *wgpu.BindGroup             { return p.bindGroup }
func (p *bindGroupProvider) BindGroupLayout() *wgpu.BindGroupLayout { return p.bindGroupLayout }
func (p *bindGroupProvider) Buffer(binding int) *wgpu.Buffer        { return p.buffers[binding] }
func (p *bindGroupProvider) Buffers() map[int]*wgpu.Buffer          { return p.buffers }
func (p *bindGroupProvider) VertexBuffer() *wgpu.Buffer             { return p.vertexBuffer }
func (p *bindGroupProvider) IndexBuffer() *wgpu.Buffer              { return p.indexBuffer }
func (p *bindGroupProvider) IndexCount() int                        { return p.indexCount }
func (p *bindGroupProvider) IndexFormat() wgpu.IndexFormat          { return p.indexFormat }

func (p *bindGroupProvider) SetBindGroup(bg *wgpu.BindGroup) {
	p.bindGroup = bg
}

func (p *bindGroupProvider) SetBindGroupLayout(bgl *wgpu.BindGroupLayout) {
	p.bindGroupLayout = bgl
}

func (p *bindGroupProvider) SetBuffer(binding int, buf *wgpu.Buffer) {
	p.buffers[binding] = buf
}

func (p *bindGroupProvider) SetMesh(vertex, index *wgpu.Buffer, indexCount int) {
	p.vertexBuffer = vertex
	p.indexBuffer = index
	p.indexCount = indexCount
}

func (p *bindGroupProvider) Release() {
	for binding, buf := range p.buffers {
		releaseBuffer(buf)
		delete(p.buffers, binding)
	}
	if p.bindGroup != nil {
		p.bindGroup.Release()
		p.bindGroup = nil
	}
	if p.bindGroupLayout != nil {
		p.bindGroupLayout.Release()
		p.bindGroupLayout = nil
	}
	releaseBuffer(p.vertexBuffer)
	releaseBuffer(p.indexBuffer)
	p.SetMesh(nil, nil, 0)
}

func releaseBuffer(buf *wgpu.Buffer) {
	if buf != nil {
		buf.Release()
	}
}
