package encoding

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/bcs/errs"
)

func TestAppendUvarint(t *testing.T) {
	testCases := []struct {
		name     string
		value    uint64
		expected []byte
	}{
		{"zero", 0, []byte{0x00}},
		{"one", 1, []byte{0x01}},
		{"max one byte", 127, []byte{0x7f}},
		{"min two bytes", 128, []byte{0x80, 0x01}},
		{"300", 300, []byte{0xac, 0x02}},
		{"max two bytes", 16383, []byte{0xff, 0x7f}},
		{"min three bytes", 16384, []byte{0x80, 0x80, 0x01}},
		{"max u32", math.MaxUint32, []byte{0xff, 0xff, 0xff, 0xff, 0x0f}},
		{"max u64", math.MaxUint64, []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x01}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			buf := AppendUvarint(nil, tc.value)
			require.Equal(t, tc.expected, buf)
			require.Equal(t, len(tc.expected), UvarintSize(tc.value))

			v, n, err := ReadUvarint(buf, 64)
			require.NoError(t, err)
			require.Equal(t, tc.value, v)
			require.Equal(t, len(buf), n)
		})
	}
}

func TestReadUvarint_StopsAtTerminalByte(t *testing.T) {
	v, n, err := ReadUvarint([]byte{0xac, 0x02, 0xff, 0xff}, 64)
	require.NoError(t, err)
	require.Equal(t, uint64(300), v)
	require.Equal(t, 2, n)
}

func TestReadUvarint_Rejects(t *testing.T) {
	testCases := []struct {
		name string
		data []byte
		bits uint
		kind error
	}{
		{"empty", nil, 64, errs.ErrTruncatedInput},
		{"dangling continuation", []byte{0x80}, 64, errs.ErrTruncatedInput},
		{"dangling after payload", []byte{0xff, 0xff}, 32, errs.ErrTruncatedInput},
		{"padded zero", []byte{0x80, 0x00}, 64, errs.ErrNonCanonicalVarint},
		{"padded one", []byte{0x81, 0x00}, 64, errs.ErrNonCanonicalVarint},
		{"padded three bytes", []byte{0xff, 0x80, 0x00}, 64, errs.ErrNonCanonicalVarint},
		{"padded u32 width", []byte{0x80, 0x80, 0x80, 0x80, 0x00}, 32, errs.ErrNonCanonicalVarint},
		{"u32 high bits", []byte{0xff, 0xff, 0xff, 0xff, 0x1f}, 32, errs.ErrVarintOverflow},
		{"u32 too many bytes", []byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x01}, 32, errs.ErrVarintOverflow},
		{"u64 high bits", []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x02}, 64, errs.ErrVarintOverflow},
		{"u64 eleven bytes", []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x01}, 64, errs.ErrVarintOverflow},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := ReadUvarint(tc.data, tc.bits)
			require.ErrorIs(t, err, tc.kind)
		})
	}
}

func TestReadUvarint_WidthBoundaries(t *testing.T) {
	v, n, err := ReadUvarint([]byte{0xff, 0xff, 0xff, 0xff, 0x0f}, 32)
	require.NoError(t, err)
	require.Equal(t, uint64(math.MaxUint32), v)
	require.Equal(t, MaxUvarintLen32, n)

	v, n, err = ReadUvarint(AppendUvarint(nil, math.MaxUint64), 64)
	require.NoError(t, err)
	require.Equal(t, uint64(math.MaxUint64), v)
	require.Equal(t, MaxUvarintLen64, n)
}

func TestUvarint_RoundTripPowersOfTwo(t *testing.T) {
	for shift := range 64 {
		for _, v := range []uint64{1<<shift - 1, 1 << shift, 1<<shift + 1} {
			buf := AppendUvarint(nil, v)
			got, n, err := ReadUvarint(buf, 64)
			require.NoError(t, err, "value %d", v)
			require.Equal(t, v, got)
			require.Equal(t, len(buf), n)
			if len(buf) > 1 {
				require.NotZero(t, buf[len(buf)-1], "value %d has a padded encoding", v)
			}
		}
	}
}
