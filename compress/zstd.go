package compress

import (
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"

	"github.com/arloliu/bcs/errs"
	"github.com/arloliu/bcs/format"
)

// ZstdCompressor provides Zstandard compression. It gives the best ratio of the
// built-in codecs and suits large envelopes sent over constrained links.
//
// Builds with cgo use the reference C implementation through gozstd; other builds use
// the pure Go implementation. Both produce standard frames and can read each other's
// output.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new Zstd compressor with default settings.
//
// Example:
//
//	compressor := NewZstdCompressor()
//	compressed, err := compressor.Compress(data)
//	if err != nil {
//		return err
//	}
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}

// Type returns format.CompressionZstd.
func (c ZstdCompressor) Type() format.CompressionType {
	return format.CompressionZstd
}

// checkZstdHeader rejects frames that do not declare a content size equal to size
// before any decoder allocates output for them.
func checkZstdHeader(data []byte, size int) error {
	var h zstd.Header
	if err := h.Decode(data); err != nil {
		return fmt.Errorf("%w: zstd header: %w", errs.ErrCorruptPayload, err)
	}

	if !h.HasFCS {
		return fmt.Errorf("%w: zstd frame has no content size", errs.ErrCorruptPayload)
	}

	if h.FrameContentSize != uint64(size) { //nolint:gosec
		return fmt.Errorf("%w: zstd frame holds %d bytes, want %d", errs.ErrCorruptPayload, h.FrameContentSize, size)
	}

	return nil
}

// readZstd reads exactly size bytes from a zstd stream. Decoding stops one byte past
// size, so frames appended after the first cannot grow the output.
func readZstd(r io.Reader, size int) ([]byte, error) {
	out := make([]byte, size)
	if _, err := io.ReadFull(r, out); err != nil {
		return nil, fmt.Errorf("%w: zstd: %w", errs.ErrCorruptPayload, err)
	}

	var extra [1]byte
	_, err := io.ReadFull(r, extra[:])
	switch {
	case errors.Is(err, io.EOF):
		return out, nil
	case err == nil:
		return nil, fmt.Errorf("%w: zstd stream holds more than %d bytes", errs.ErrCorruptPayload, size)
	default:
		return nil, fmt.Errorf("%w: zstd: %w", errs.ErrCorruptPayload, err)
	}
}
