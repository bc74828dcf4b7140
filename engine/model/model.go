package model

import (
	"github.com/Carmen-Shannon/sunwave/engine/renderer/bind_group_provider"
	"github.com/cogentcore/webgpu/wgpu"
)

// QuadIndices are the two counter-clockwise triangles covering the full viewport quad.
var QuadIndices = []uint16{0, 1, 2, 0, 2, 3}

// QuadVertices returns the four corners of the full viewport quad in clip space, each with its color.
//
// Returns:
//   - []GPUVertex: bottom-left, bottom-right, top-right, top-left
func QuadVertices() []GPUVertex {
	return []GPUVertex{
		{Position: [2]float32{-1, -1}, Color: [3]float32{1, 0, 0}},
		{Position: [2]float32{1, -1}, Color: [3]float32{0, 1, 0}},
		{Position: [2]float32{1, 1}, Color: [3]float32{0, 0, 1}},
		{Position: [2]float32{-1, 1}, Color: [3]float32{1, 1, 1}},
	}
}

// model is the implementation of the Model interface.
// It holds the CPU-side mesh data and the provider that owns the uploaded GPU buffers.
type model struct {
	name         string
	vertices     []GPUVertex
	indices      []uint16
	meshProvider bind_group_provider.BindGroupProvider
}

// Model is a static indexed mesh. The vertex and index data never change after construction;
// the renderer uploads them once into the model's mesh provider.
type Model interface {
	// Name returns the model identifier, used to label GPU buffers.
	Name() string

	// Vertices returns the model's vertices.
	Vertices() []GPUVertex

	// Indices returns the model's 16-bit triangle indices.
	Indices() []uint16

	// VertexData returns the serialized interleaved vertex buffer.
	//
	// Returns:
	//   - []byte: the vertex buffer contents
	VertexData() []byte

	// IndexData returns the serialized 16-bit index buffer.
	//
	// Returns:
	//   - []byte: the index buffer contents
	IndexData() []byte

	// IndexCount returns the number of indices to draw.
	IndexCount() int

	// IndexFormat returns the GPU index format of IndexData, always wgpu.IndexFormatUint16.
	IndexFormat() wgpu.IndexFormat

	// MeshProvider returns the provider that holds the model's vertex and index buffers once uploaded.
	MeshProvider() bind_group_provider.BindGroupProvider
}

var _ Model = &model{}

// NewModel creates a Model from the provided options.
// Without WithVertices/WithIndices the model is the full viewport quad.
//
// Parameters:
//   - options: functional options applied to the model
//
// Returns:
//   - Model: the new model
func NewModel(options ...ModelBuilderOption) Model {
	m := &model{
		name:     "quad",
		vertices: QuadVertices(),
		indices:  QuadIndices,
	}
	for _, opt := range options {
		opt(m)
	}
	m.meshProvider = bind_group_provider.NewBindGroupProvider(m.name+" mesh",
		bind_group_provider.WithIndexFormat(wgpu.IndexFormatUint16),
	)
	return m
}

func (m *model) Name() string {
	return m.name
}

func (m *model) Vertices() []GPUVertex {
	return m.vertices
}

func (m *model) Indices() []uint16 {
	return m.indices
}

func (m *model) VertexData() []byte {
	return MarshalVertices(m.vertices)
}

func (m *model) IndexData() []byte {
	return MarshalIndices(m.indices)
}

func (m *model) IndexCount() int {
	return len(m.indices)
}

func (m *model) IndexFormat() wgpu.IndexFormat {
	return wgpu.IndexFormatUint16
}

func (m *model) MeshProvider() bind_group_provider.BindGroupProvider {
	return m.meshProvider
}
