package compress

import "github.com/arloliu/bcs/format"

// NoOpCompressor stores payloads as-is. It is the default for small envelopes, where
// a compression frame costs more than it saves.
type NoOpCompressor struct{}

var _ Codec = (*NoOpCompressor)(nil)

// NewNoOpCompressor creates a new no-operation compressor that bypasses data.
func NewNoOpCompressor() NoOpCompressor {
	return NoOpCompressor{}
}

// Type returns format.CompressionNone.
func (c NoOpCompressor) Type() format.CompressionType {
	return format.CompressionNone
}

// Compress returns data unchanged.
//
// Note: The returned slice shares the same underlying memory as the input.
func (c NoOpCompressor) Compress(data []byte) ([]byte, error) {
	return data, nil
}

// Decompress returns data unchanged after checking that it has the expected size.
func (c NoOpCompressor) Decompress(data []byte, size int) ([]byte, error) {
	return checkSize(c, data, size)
}
