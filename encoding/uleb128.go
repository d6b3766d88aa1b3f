package encoding

import (
	"github.com/arloliu/bcs/errs"
)

// Maximum encoded sizes of ULEB128 values by target width.
const (
	MaxUvarintLen32 = 5
	MaxUvarintLen64 = 10
)

// AppendUvarint appends the minimal ULEB128 encoding of v to buf.
func AppendUvarint(buf []byte, v uint64) []byte {
	for v >= 0x80 {
		buf = append(buf, byte(v)|0x80)
		v >>= 7
	}

	return append(buf, byte(v))
}

// UvarintSize returns the number of bytes AppendUvarint writes for v.
func UvarintSize(v uint64) int {
	n := 1
	for v >= 0x80 {
		v >>= 7
		n++
	}

	return n
}

// ReadUvarint decodes a canonical ULEB128 value of at most bits bits (32 or 64)
// from the front of data and returns the value and the number of bytes consumed.
//
// The returned error is one of errs.ErrTruncatedInput, errs.ErrVarintOverflow or
// errs.ErrNonCanonicalVarint; callers attach the offset.
func ReadUvarint(data []byte, bits uint) (uint64, int, error) {
	var (
		value uint64
		shift uint
	)

	for i := 0; ; i++ {
		if i >= len(data) {
			return 0, i, errs.ErrTruncatedInput
		}

		if shift >= bits {
			return 0, i, errs.ErrVarintOverflow
		}

		b := data[i]
		payload := uint64(b & 0x7f)

		// The final group may only carry the bits still available in the target width.
		if remaining := bits - shift; remaining < 7 && payload>>remaining != 0 {
			return 0, i, errs.ErrVarintOverflow
		}

		value |= payload << shift

		if b&0x80 == 0 {
			// A zero terminal byte after a continuation means a shorter encoding exists.
			if b == 0 && i > 0 {
				return 0, i, errs.ErrNonCanonicalVarint
			}

			return value, i + 1, nil
		}

		shift += 7
	}
}
