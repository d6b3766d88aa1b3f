package compress

import (
	"fmt"

	"github.com/klauspost/compress/s2"

	"github.com/arloliu/bcs/errs"
	"github.com/arloliu/bcs/format"
)

// S2Compressor uses the S2 block format.
type S2Compressor struct{}

var _ Codec = (*S2Compressor)(nil)

// NewS2Compressor creates a new S2 compressor.
func NewS2Compressor() S2Compressor {
	return S2Compressor{}
}

// Type returns format.CompressionS2.
func (c S2Compressor) Type() format.CompressionType {
	return format.CompressionS2
}

// Compress compresses the input data using S2 compression.
func (c S2Compressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return s2.Encode(nil, data), nil
}

// Decompress decompresses an S2 block. The length stored in the block header is
// checked against size before any output is allocated.
func (c S2Compressor) Decompress(data []byte, size int) ([]byte, error) {
	if handled, err := emptyInput(c, data, size); handled {
		return nil, err
	}

	n, err := s2.DecodedLen(data)
	if err != nil {
		return nil, fmt.Errorf("%w: s2: %w", errs.ErrCorruptPayload, err)
	}

	if n != size {
		return nil, fmt.Errorf("%w: s2 block holds %d bytes, want %d", errs.ErrCorruptPayload, n, size)
	}

	out, err := s2.Decode(make([]byte, size), data)
	if err != nil {
		return nil, fmt.Errorf("%w: s2: %w", errs.ErrCorruptPayload, err)
	}

	return checkSize(c, out, size)
}
