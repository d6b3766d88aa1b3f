package compress

import (
	"fmt"

	"github.com/arloliu/bcs/errs"
	"github.com/arloliu/bcs/format"
)

// Compressor compresses envelope payloads.
type Compressor interface {
	// Compress compresses data and returns the compressed result.
	//
	// Memory management:
	//   - Returned slice is owned by the caller (the no-op codec returns data itself)
	//   - Input slice is not modified
	Compress(data []byte) ([]byte, error)
}

// Decompressor restores payloads produced by the matching Compressor.
type Decompressor interface {
	// Decompress decompresses data whose original length is known to be size.
	//
	// The size bound is checked before and after decoding, so a payload that claims a
	// small size cannot expand into a large allocation. Any disagreement between size
	// and the actual output fails with errs.ErrCorruptPayload.
	Decompress(data []byte, size int) ([]byte, error)
}

// Codec combines both compression and decompression capabilities.
type Codec interface {
	Compressor
	Decompressor

	// Type returns the identifier written into envelope headers.
	Type() format.CompressionType
}

// CompressionStats summarizes one compression run.
type CompressionStats struct {
	// Algorithm identifies the compression algorithm used
	Algorithm format.CompressionType

	// OriginalSize is the size of input data before compression
	OriginalSize int64

	// CompressedSize is the size of data after compression
	CompressedSize int64
}

// Stats describes compressing original into compressed with codec c.
func Stats(c Codec, original, compressed []byte) CompressionStats {
	return CompressionStats{
		Algorithm:      c.Type(),
		OriginalSize:   int64(len(original)),
		CompressedSize: int64(len(compressed)),
	}
}

// CompressionRatio returns the compression ratio (compressed size / original size).
//
// Returns:
//   - float64: Compression ratio (0.0 if original size is zero)
func (s CompressionStats) CompressionRatio() float64 {
	if s.OriginalSize == 0 {
		return 0.0
	}

	return float64(s.CompressedSize) / float64(s.OriginalSize)
}

// SpaceSavings returns the space savings as a percentage. It is negative when the
// codec expanded the input.
func (s CompressionStats) SpaceSavings() float64 {
	if s.OriginalSize == 0 {
		return 0.0
	}

	return (1.0 - s.CompressionRatio()) * 100.0
}

var builtinCodecs = map[format.CompressionType]Codec{
	format.CompressionNone: NewNoOpCompressor(),
	format.CompressionZstd: NewZstdCompressor(),
	format.CompressionS2:   NewS2Compressor(),
	format.CompressionLZ4:  NewLZ4Compressor(),
}

// GetCodec retrieves the built-in Codec for the specified compression type. Unknown
// types fail with errs.ErrUnsupportedCompression.
func GetCodec(compressionType format.CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("%w: 0x%02x", errs.ErrUnsupportedCompression, uint8(compressionType))
}

// checkSize verifies a decompressed result against the expected size.
func checkSize(c Codec, out []byte, size int) ([]byte, error) {
	if len(out) != size {
		return nil, fmt.Errorf("%w: %s produced %d bytes, want %d", errs.ErrCorruptPayload, c.Type(), len(out), size)
	}

	return out, nil
}

// emptyInput handles the zero-length cases shared by every codec: empty input
// compresses to empty output, and empty output must have been declared as such.
func emptyInput(c Codec, data []byte, size int) (handled bool, err error) {
	if len(data) != 0 {
		return false, nil
	}

	if size != 0 {
		return true, fmt.Errorf("%w: empty %s payload, want %d bytes", errs.ErrCorruptPayload, c.Type(), size)
	}

	return true, nil
}
