package encoding

import (
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/arloliu/bcs/endian"
	"github.com/arloliu/bcs/errs"
	"github.com/arloliu/bcs/internal/options"
	"github.com/arloliu/bcs/internal/pool"
)

// MaxSequenceLength is the largest vector or string length BCS allows (2^31 - 1).
const MaxSequenceLength = math.MaxInt32

// Encoder appends canonical BCS encodings to a pooled, growing buffer.
//
// Scalar writes cannot fail. Length-prefixed writes fail only when the length exceeds
// MaxSequenceLength, which is a programming error in the caller.
//
// Note: The Encoder is NOT thread-safe.
type Encoder struct {
	buf    *pool.ByteBuffer
	engine endian.EndianEngine
	frame  bool
}

// EncoderConfig holds encoder settings.
type EncoderConfig struct {
	frameBuffer bool
}

// EncoderOption configures an Encoder.
type EncoderOption = options.Option[*EncoderConfig]

// WithFrameBuffer draws the encoder's buffer from the pool sized for large payloads,
// such as envelope frames, instead of the small-value pool.
func WithFrameBuffer() EncoderOption {
	return options.NoError(func(c *EncoderConfig) {
		c.frameBuffer = true
	})
}

// NewEncoder creates an Encoder backed by a pooled buffer.
// Call Release when done to return the buffer.
func NewEncoder(opts ...EncoderOption) *Encoder {
	var cfg EncoderConfig
	// Encoder options are infallible.
	_ = options.Apply(&cfg, opts...)

	e := &Encoder{engine: endian.Engine(), frame: cfg.frameBuffer}
	if cfg.frameBuffer {
		e.buf = pool.GetFrameBuffer()
	} else {
		e.buf = pool.GetEncoderBuffer()
	}

	return e
}

// WriteBool writes 0x01 for true and 0x00 for false.
func (e *Encoder) WriteBool(v bool) {
	if v {
		e.buf.B = append(e.buf.B, 0x01)
	} else {
		e.buf.B = append(e.buf.B, 0x00)
	}
}

// WriteU8 writes a single byte.
func (e *Encoder) WriteU8(v uint8) {
	e.buf.B = append(e.buf.B, v)
}

// WriteU16 writes v as 2 little-endian bytes.
func (e *Encoder) WriteU16(v uint16) {
	e.buf.B = e.engine.AppendUint16(e.buf.B, v)
}

// WriteU32 writes v as 4 little-endian bytes.
func (e *Encoder) WriteU32(v uint32) {
	e.buf.B = e.engine.AppendUint32(e.buf.B, v)
}

// WriteU64 writes v as 8 little-endian bytes.
func (e *Encoder) WriteU64(v uint64) {
	e.buf.B = e.engine.AppendUint64(e.buf.B, v)
}

// WriteU128 writes v as 16 little-endian bytes.
func (e *Encoder) WriteU128(v U128) {
	e.buf.B = endian.AppendUint128(e.buf.B, v.Lo, v.Hi)
}

// WriteU256 writes v as 32 little-endian bytes.
func (e *Encoder) WriteU256(v U256) {
	e.buf.B = endian.AppendUint256(e.buf.B, v)
}

// WriteAddress writes the 32 raw address bytes.
func (e *Encoder) WriteAddress(addr Address) {
	e.buf.MustWrite(addr[:])
}

// WriteFixedBytes writes b as-is, with no length prefix. Use it for fixed-size
// arrays whose length is part of the schema.
func (e *Encoder) WriteFixedBytes(b []byte) {
	e.buf.MustWrite(b)
}

// WriteUvarint writes v in minimal ULEB128 form.
func (e *Encoder) WriteUvarint(v uint64) {
	e.buf.B = AppendUvarint(e.buf.B, v)
}

// WriteLength writes a vector or string length prefix.
func (e *Encoder) WriteLength(n int) error {
	if n < 0 || n > MaxSequenceLength {
		return fmt.Errorf("%w: length %d exceeds maximum %d", errs.ErrSequenceTooLong, n, MaxSequenceLength)
	}

	e.WriteUvarint(uint64(n))

	return nil
}

// WriteVariantIndex writes an enum variant index.
func (e *Encoder) WriteVariantIndex(idx uint32) {
	e.WriteUvarint(uint64(idx))
}

// WriteOptionTag writes the option tag; the caller writes the payload after it when
// present is true.
func (e *Encoder) WriteOptionTag(present bool) {
	e.WriteBool(present)
}

// WriteBytes writes b as vector<u8>: a length prefix followed by the raw bytes.
func (e *Encoder) WriteBytes(b []byte) error {
	if err := e.WriteLength(len(b)); err != nil {
		return err
	}

	e.buf.MustWrite(b)

	return nil
}

// WriteString writes s as its UTF-8 bytes with a length prefix. s must be valid UTF-8.
func (e *Encoder) WriteString(s string) error {
	if !utf8.ValidString(s) {
		return fmt.Errorf("write string: %w", errs.ErrInvalidUTF8)
	}

	if err := e.WriteLength(len(s)); err != nil {
		return err
	}

	e.buf.B = append(e.buf.B, s...)

	return nil
}

// Bytes returns the encoded data.
//
// The returned slice shares the underlying buffer with the encoder and is only valid
// until the next write, Reset or Release. Use Detach for an independent copy.
func (e *Encoder) Bytes() []byte {
	return e.buf.Bytes()
}

// Detach returns a copy of the encoded data that outlives the encoder.
func (e *Encoder) Detach() []byte {
	return e.buf.Detach()
}

// Len returns the number of bytes written so far.
func (e *Encoder) Len() int {
	return e.buf.Len()
}

// Reset discards the written data, keeping the buffer for reuse.
func (e *Encoder) Reset() {
	e.buf.Reset()
}

// Release returns the buffer to the pool. The encoder must not be used afterwards.
func (e *Encoder) Release() {
	if e.buf == nil {
		return
	}

	if e.frame {
		pool.PutFrameBuffer(e.buf)
	} else {
		pool.PutEncoderBuffer(e.buf)
	}
	e.buf = nil
}
