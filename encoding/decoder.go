package encoding

import (
	"unicode/utf8"

	"github.com/arloliu/bcs/endian"
	"github.com/arloliu/bcs/errs"
	"github.com/arloliu/bcs/internal/options"
)

// DefaultMaxDepth is the default limit on nested containers, matching the BCS
// container depth limit.
const DefaultMaxDepth = 500

// DecoderConfig holds decode limits.
type DecoderConfig struct {
	maxSequenceLength int
	maxDepth          int
}

// DecoderOption configures a Decoder.
type DecoderOption = options.Option[*DecoderConfig]

// WithMaxSequenceLength bounds the length prefix of any vector or string. Lengths
// beyond it fail with errs.ErrLengthLimitExceeded before anything is allocated.
// Non-positive values keep the default of MaxSequenceLength.
func WithMaxSequenceLength(n int) DecoderOption {
	return options.NoError(func(c *DecoderConfig) {
		if n > 0 {
			c.maxSequenceLength = n
		}
	})
}

// WithMaxDepth bounds container nesting tracked through Enter and Leave.
// Non-positive values keep the default of DefaultMaxDepth.
func WithMaxDepth(n int) DecoderOption {
	return options.NoError(func(c *DecoderConfig) {
		if n > 0 {
			c.maxDepth = n
		}
	})
}

// Decoder is a cursor over an immutable byte buffer. Each Peel method reads one value
// at the cursor and advances it.
//
// The first failure is terminal: it is recorded and returned again by every later
// call, including Finish.
//
// Note: The Decoder is NOT thread-safe and is NOT reusable.
type Decoder struct {
	data   []byte
	pos    int
	depth  int
	err    error
	engine endian.EndianEngine
	cfg    DecoderConfig
}

// NewDecoder creates a Decoder positioned at the start of data. It never fails, even
// for empty input; errors surface on individual peels.
func NewDecoder(data []byte, opts ...DecoderOption) *Decoder {
	d := &Decoder{
		data:   data,
		engine: endian.Engine(),
		cfg: DecoderConfig{
			maxSequenceLength: MaxSequenceLength,
			maxDepth:          DefaultMaxDepth,
		},
	}

	// Decoder options are infallible.
	_ = options.Apply(&d.cfg, opts...)

	return d
}

// Position returns the cursor offset.
func (d *Decoder) Position() int {
	return d.pos
}

// Remaining returns the number of unconsumed bytes.
func (d *Decoder) Remaining() int {
	return len(d.data) - d.pos
}

// Len returns the total buffer length.
func (d *Decoder) Len() int {
	return len(d.data)
}

// Err returns the terminal error, if any.
func (d *Decoder) Err() error {
	return d.err
}

// Finish checks that every byte was consumed. A decode is only successful when
// Finish returns nil.
func (d *Decoder) Finish() error {
	if d.err != nil {
		return d.err
	}

	if d.pos != len(d.data) {
		return d.fail(errs.ErrTrailingBytes, d.pos, "%d unconsumed bytes", len(d.data)-d.pos)
	}

	return nil
}

// Enter marks the start of a nested container. Recursive bindings call Enter before
// peeling a nested value and Leave after.
func (d *Decoder) Enter() error {
	if d.err != nil {
		return d.err
	}

	d.depth++
	if d.depth > d.cfg.maxDepth {
		return d.fail(errs.ErrDepthLimitExceeded, d.pos, "depth %d exceeds %d", d.depth, d.cfg.maxDepth)
	}

	return nil
}

// Leave marks the end of a nested container opened with Enter.
func (d *Decoder) Leave() {
	if d.depth > 0 {
		d.depth--
	}
}

func (d *Decoder) fail(kind error, offset int, format string, args ...any) error {
	d.err = errs.NewDecodeError(kind, offset, format, args...)
	return d.err
}

// take advances the cursor by n bytes and returns them without copying.
func (d *Decoder) take(n int, what string) ([]byte, error) {
	if d.err != nil {
		return nil, d.err
	}

	if n < 0 {
		return nil, d.fail(errs.ErrTruncatedInput, d.pos, "%s with negative length %d", what, n)
	}

	if n > len(d.data)-d.pos {
		return nil, d.fail(errs.ErrTruncatedInput, d.pos, "%s needs %d bytes, %d remain", what, n, len(d.data)-d.pos)
	}

	b := d.data[d.pos : d.pos+n]
	d.pos += n

	return b, nil
}

// PeelBool reads a bool, accepting only 0x00 and 0x01.
func (d *Decoder) PeelBool() (bool, error) {
	start := d.pos

	b, err := d.take(1, "bool")
	if err != nil {
		return false, err
	}

	switch b[0] {
	case 0x00:
		return false, nil
	case 0x01:
		return true, nil
	default:
		return false, d.fail(errs.ErrInvalidBoolTag, start, "got 0x%02x", b[0])
	}
}

// PeelU8 reads a u8.
func (d *Decoder) PeelU8() (uint8, error) {
	b, err := d.take(1, "u8")
	if err != nil {
		return 0, err
	}

	return b[0], nil
}

// PeelU16 reads a little-endian u16.
func (d *Decoder) PeelU16() (uint16, error) {
	b, err := d.take(2, "u16")
	if err != nil {
		return 0, err
	}

	return d.engine.Uint16(b), nil
}

// PeelU32 reads a little-endian u32.
func (d *Decoder) PeelU32() (uint32, error) {
	b, err := d.take(4, "u32")
	if err != nil {
		return 0, err
	}

	return d.engine.Uint32(b), nil
}

// PeelU64 reads a little-endian u64.
func (d *Decoder) PeelU64() (uint64, error) {
	b, err := d.take(8, "u64")
	if err != nil {
		return 0, err
	}

	return d.engine.Uint64(b), nil
}

// PeelU128 reads a little-endian u128.
func (d *Decoder) PeelU128() (U128, error) {
	b, err := d.take(endian.Uint128Size, "u128")
	if err != nil {
		return U128{}, err
	}

	lo, hi := endian.Uint128(b)

	return U128{Lo: lo, Hi: hi}, nil
}

// PeelU256 reads a little-endian u256.
func (d *Decoder) PeelU256() (U256, error) {
	b, err := d.take(endian.Uint256Size, "u256")
	if err != nil {
		return U256{}, err
	}

	return U256(endian.Uint256(b)), nil
}

// PeelAddress reads 32 raw address bytes.
func (d *Decoder) PeelAddress() (Address, error) {
	var addr Address

	b, err := d.take(AddressLength, "address")
	if err != nil {
		return addr, err
	}
	copy(addr[:], b)

	return addr, nil
}

// PeelFixedBytes reads exactly n bytes with no length prefix and returns a copy.
func (d *Decoder) PeelFixedBytes(n int) ([]byte, error) {
	b, err := d.take(n, "fixed bytes")
	if err != nil {
		return nil, err
	}

	out := make([]byte, n)
	copy(out, b)

	return out, nil
}

// PeelUvarint reads a canonical ULEB128 value that must fit in 64 bits.
func (d *Decoder) PeelUvarint() (uint64, error) {
	return d.peelUvarint(64)
}

func (d *Decoder) peelUvarint(bits uint) (uint64, error) {
	if d.err != nil {
		return 0, d.err
	}

	start := d.pos

	v, n, err := ReadUvarint(d.data[d.pos:], bits)
	if err != nil {
		return 0, d.fail(err, start, "uleb128 (u%d)", bits)
	}
	d.pos += n

	return v, nil
}

// PeelLength reads a vector or string length prefix, assuming every element occupies
// at least one byte.
func (d *Decoder) PeelLength() (int, error) {
	return d.PeelLengthFor(1)
}

// PeelLengthFor reads a length prefix for elements of at least minElemSize bytes.
//
// Lengths above the configured maximum fail with errs.ErrLengthLimitExceeded, and
// lengths that cannot fit in the remaining input fail immediately with
// errs.ErrTruncatedInput, so callers may allocate the returned length up front.
func (d *Decoder) PeelLengthFor(minElemSize int) (int, error) {
	start := d.pos

	v, err := d.peelUvarint(64)
	if err != nil {
		return 0, err
	}

	if v > uint64(d.cfg.maxSequenceLength) {
		return 0, d.fail(errs.ErrLengthLimitExceeded, start, "length %d exceeds maximum %d", v, d.cfg.maxSequenceLength)
	}

	if minElemSize < 1 {
		minElemSize = 1
	}

	if remaining := d.Remaining(); v > uint64(remaining/minElemSize) {
		return 0, d.fail(errs.ErrTruncatedInput, start, "length %d exceeds %d remaining bytes", v, remaining)
	}

	return int(v), nil
}

// PeelVariantIndex reads an enum variant index and checks it against the number of
// variants the target type declares.
func (d *Decoder) PeelVariantIndex(count int) (uint32, error) {
	start := d.pos

	v, err := d.peelUvarint(32)
	if err != nil {
		return 0, err
	}

	if count <= 0 || v >= uint64(count) {
		return 0, d.fail(errs.ErrUnknownVariantIndex, start, "index %d, type has %d variants", v, count)
	}

	return uint32(v), nil
}

// PeelOptionTag reads an option tag: false for none, true for some.
func (d *Decoder) PeelOptionTag() (bool, error) {
	start := d.pos

	b, err := d.take(1, "option tag")
	if err != nil {
		return false, err
	}

	switch b[0] {
	case 0x00:
		return false, nil
	case 0x01:
		return true, nil
	default:
		return false, d.fail(errs.ErrInvalidOptionTag, start, "got 0x%02x", b[0])
	}
}

// PeelBytes reads a vector<u8> and returns a copy of its contents.
func (d *Decoder) PeelBytes() ([]byte, error) {
	n, err := d.PeelLength()
	if err != nil {
		return nil, err
	}

	return d.PeelFixedBytes(n)
}

// PeelString reads a length-prefixed UTF-8 string.
func (d *Decoder) PeelString() (string, error) {
	start := d.pos

	n, err := d.PeelLength()
	if err != nil {
		return "", err
	}

	b, err := d.take(n, "string")
	if err != nil {
		return "", err
	}

	if !utf8.Valid(b) {
		return "", d.fail(errs.ErrInvalidUTF8, start, "string of %d bytes", n)
	}

	return string(b), nil
}
