package compress

// NoOpCodec passes payloads through untouched. Useful when the snapshot is
// short-lived or the storage layer compresses on its own.
//
// Both directions return the input slice as-is, sharing its backing memory;
// callers must not mutate the input while the result is in use.
type NoOpCodec struct{}

var _ Codec = (*NoOpCodec)(nil)

// NewNoOpCodec creates a pass-through codec.
func NewNoOpCodec() NoOpCodec {
	return NoOpCodec{}
}

// Compress returns data unchanged.
func (NoOpCodec) Compress(data []byte) ([]byte, error) {
	return data, nil
}

// Decompress returns data unchanged.
func (NoOpCodec) Decompress(data []byte) ([]byte, error) {
	return data, nil
}
