package bind_group_provider

import "github.com/cogentcore/webgpu/wgpu"

// BindGroupProviderOption configures a provider inside NewBindGroupProvider.
type BindGroupProviderOption func(*bindGroupProvider)

// WithIndexFormat sets the element type of the mesh index buffer. The quad uses
// wgpu.IndexFormatUint16.
func WithIndexFormat(format wgpu.IndexFormat) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.indexFormat = format
	}
}
