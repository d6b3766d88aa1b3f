package pool

import (
	"sync"
)

// Buffer size classes for encoder scratch space.
//
// Most canonical payloads (transactions, object records, envelopes) are well under a
// kilobyte, so encoder buffers start small. Buffers that grew past the threshold are
// dropped on Put instead of being retained by the pool.
const (
	EncoderBufferDefaultSize  = 256       // 256B
	EncoderBufferMaxThreshold = 64 * 1024 // 64KiB
	FrameBufferDefaultSize    = 4 * 1024  // 4KiB
	FrameBufferMaxThreshold   = 1 << 20   // 1MiB
)

// ByteBuffer is an append-only byte slice with amortized growth.
type ByteBuffer struct {
	// B is the underlying byte slice.
	B []byte
}

// NewByteBuffer creates a new ByteBuffer with the specified initial capacity.
func NewByteBuffer(defaultSize int) *ByteBuffer {
	return &ByteBuffer{
		B: make([]byte, 0, defaultSize),
	}
}

// Bytes returns the underlying byte slice.
func (bb *ByteBuffer) Bytes() []byte {
	return bb.B
}

// Reset empties the buffer but keeps the allocated memory.
func (bb *ByteBuffer) Reset() {
	bb.B = bb.B[:0]
}

// Len returns the number of bytes written.
func (bb *ByteBuffer) Len() int {
	return len(bb.B)
}

// Cap returns the capacity of the buffer.
func (bb *ByteBuffer) Cap() int {
	return cap(bb.B)
}

// MustWrite appends data to the buffer.
func (bb *ByteBuffer) MustWrite(data []byte) {
	bb.B = append(bb.B, data...)
}

// WriteByte appends a single byte. It never fails.
func (bb *ByteBuffer) WriteByte(c byte) error {
	bb.B = append(bb.B, c)
	return nil
}

// WriteString appends the bytes of s.
func (bb *ByteBuffer) WriteString(s string) (int, error) {
	bb.B = append(bb.B, s...)
	return len(s), nil
}

// Write appends the contents of data to the buffer, growing it as needed.
func (bb *ByteBuffer) Write(data []byte) (int, error) {
	bb.B = append(bb.B, data...)
	return len(data), nil
}

// Grow ensures the buffer can hold requiredBytes more bytes without reallocating.
//
// Small buffers grow by at least EncoderBufferDefaultSize; buffers larger than
// four times that grow by 25% of their capacity.
func (bb *ByteBuffer) Grow(requiredBytes int) {
	available := cap(bb.B) - len(bb.B)
	if available >= requiredBytes {
		return
	}

	growBy := EncoderBufferDefaultSize
	if cap(bb.B) > 4*EncoderBufferDefaultSize {
		growBy = cap(bb.B) / 4
	}

	if growBy < requiredBytes {
		growBy = requiredBytes
	}

	newBuf := make([]byte, len(bb.B), len(bb.B)+growBy)
	copy(newBuf, bb.B)
	bb.B = newBuf
}

// Detach returns a copy of the written bytes that does not alias the buffer.
func (bb *ByteBuffer) Detach() []byte {
	out := make([]byte, len(bb.B))
	copy(out, bb.B)

	return out
}

// ByteBufferPool is a sync.Pool of ByteBuffers that refuses to retain buffers
// larger than maxThreshold.
type ByteBufferPool struct {
	pool         sync.Pool
	maxThreshold int
}

// NewByteBufferPool creates a pool whose buffers start with defaultSize capacity.
// A maxThreshold of zero disables the size check.
func NewByteBufferPool(defaultSize int, maxThreshold int) *ByteBufferPool {
	return &ByteBufferPool{
		pool: sync.Pool{
			New: func() any {
				return NewByteBuffer(defaultSize)
			},
		},
		maxThreshold: maxThreshold,
	}
}

// Get retrieves an empty ByteBuffer from the pool.
func (bbp *ByteBufferPool) Get() *ByteBuffer {
	bb, _ := bbp.pool.Get().(*ByteBuffer)
	return bb
}

// Put returns bb to the pool. Nil and oversized buffers are dropped.
func (bbp *ByteBufferPool) Put(bb *ByteBuffer) {
	if bb == nil {
		return
	}

	if bbp.maxThreshold > 0 && cap(bb.B) > bbp.maxThreshold {
		return
	}

	bb.Reset()
	bbp.pool.Put(bb)
}

var (
	encoderPool = NewByteBufferPool(EncoderBufferDefaultSize, EncoderBufferMaxThreshold)
	framePool   = NewByteBufferPool(FrameBufferDefaultSize, FrameBufferMaxThreshold)
)

// GetEncoderBuffer retrieves a buffer from the encoder pool.
func GetEncoderBuffer() *ByteBuffer {
	return encoderPool.Get()
}

// PutEncoderBuffer returns a buffer to the encoder pool.
func PutEncoderBuffer(bb *ByteBuffer) {
	encoderPool.Put(bb)
}

// GetFrameBuffer retrieves a buffer from the envelope frame pool.
func GetFrameBuffer() *ByteBuffer {
	return framePool.Get()
}

// PutFrameBuffer returns a buffer to the envelope frame pool.
func PutFrameBuffer(bb *ByteBuffer) {
	framePool.Put(bb)
}
