package pool

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewByteBuffer(t *testing.T) {
	bb := NewByteBuffer(64)

	require.NotNil(t, bb)
	assert.Equal(t, 0, bb.Len(), "new buffer should have zero length")
	assert.Equal(t, 64, bb.Cap(), "new buffer should have specified capacity")
}

func TestByteBuffer_Writes(t *testing.T) {
	bb := NewByteBuffer(EncoderBufferDefaultSize)

	bb.MustWrite([]byte{0x01})
	require.NoError(t, bb.WriteByte(0x02))
	n, err := bb.Write([]byte{0x03, 0x04})
	require.NoError(t, err)
	require.Equal(t, 2, n)
	n, err = bb.WriteString("ab")
	require.NoError(t, err)
	require.Equal(t, 2, n)

	assert.Equal(t, []byte{0x01, 0x02, 0x03, 0x04, 'a', 'b'}, bb.Bytes())
}

func TestByteBuffer_Reset(t *testing.T) {
	bb := NewByteBuffer(EncoderBufferDefaultSize)
	bb.MustWrite([]byte("some data"))
	originalCap := bb.Cap()

	bb.Reset()

	assert.Equal(t, 0, bb.Len(), "Reset should clear the buffer length")
	assert.Equal(t, originalCap, bb.Cap(), "Reset should preserve capacity")
}

func TestByteBuffer_Grow(t *testing.T) {
	t.Run("sufficient capacity", func(t *testing.T) {
		bb := NewByteBuffer(100)
		bb.Grow(50)
		assert.Equal(t, 100, bb.Cap())
	})

	t.Run("small buffer grows by default size", func(t *testing.T) {
		bb := NewByteBuffer(10)
		bb.MustWrite(make([]byte, 10))
		bb.Grow(1)
		assert.Equal(t, 10+EncoderBufferDefaultSize, bb.Cap())
	})

	t.Run("large buffer grows by a quarter", func(t *testing.T) {
		size := 8 * EncoderBufferDefaultSize
		bb := NewByteBuffer(size)
		bb.MustWrite(make([]byte, size))
		bb.Grow(1)
		assert.Equal(t, size+size/4, bb.Cap())
	})

	t.Run("required bytes beyond growth step", func(t *testing.T) {
		bb := NewByteBuffer(0)
		bb.Grow(10 * EncoderBufferDefaultSize)
		assert.GreaterOrEqual(t, bb.Cap(), 10*EncoderBufferDefaultSize)
	})

	t.Run("preserves data", func(t *testing.T) {
		bb := NewByteBuffer(4)
		bb.MustWrite([]byte{1, 2, 3, 4})
		bb.Grow(1000)
		assert.Equal(t, []byte{1, 2, 3, 4}, bb.Bytes())
	})
}

func TestByteBuffer_Detach(t *testing.T) {
	bb := NewByteBuffer(8)
	bb.MustWrite([]byte{1, 2, 3})

	out := bb.Detach()
	bb.Reset()
	bb.MustWrite([]byte{9, 9, 9})

	assert.Equal(t, []byte{1, 2, 3}, out)
}

func TestByteBufferPool_MaxThreshold(t *testing.T) {
	p := NewByteBufferPool(16, 32)

	bb := p.Get()
	require.NotNil(t, bb)
	bb.MustWrite(make([]byte, 64))
	p.Put(bb) // dropped, too large

	again := p.Get()
	require.NotNil(t, again)
	assert.Equal(t, 0, again.Len())
	assert.LessOrEqual(t, again.Cap(), 32)
}

func TestByteBufferPool_PutNil(t *testing.T) {
	require.NotPanics(t, func() { PutEncoderBuffer(nil) })
	require.NotPanics(t, func() { PutFrameBuffer(nil) })
}

func TestDefaultPools_ResetOnReuse(t *testing.T) {
	bb := GetEncoderBuffer()
	bb.MustWrite([]byte("leftover"))
	PutEncoderBuffer(bb)

	next := GetEncoderBuffer()
	assert.Equal(t, 0, next.Len())
	PutEncoderBuffer(next)

	frame := GetFrameBuffer()
	assert.Equal(t, 0, frame.Len())
	assert.GreaterOrEqual(t, frame.Cap(), 0)
	PutFrameBuffer(frame)
}

func TestPool_ConcurrentAccess(t *testing.T) {
	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for range 100 {
				bb := GetEncoderBuffer()
				bb.MustWrite([]byte{byte(id)})
				assert.Equal(t, 1, bb.Len())
				PutEncoderBuffer(bb)
			}
		}(i)
	}
	wg.Wait()
}

func BenchmarkPool_GetWritePut(b *testing.B) {
	payload := make([]byte, 128)

	b.ReportAllocs()
	for b.Loop() {
		bb := GetEncoderBuffer()
		bb.MustWrite(payload)
		PutEncoderBuffer(bb)
	}
}
