package bind_group_provider

// BufferWrite is one queued upload: Data is copied into the buffer at Binding on Provider,
// starting Offset bytes in.
type BufferWrite struct {
	Provider BindGroupProvider
	Binding  int
	Offset   uint64
	Data     []byte
}
