// Package endian provides the byte order used by the BCS wire format.
//
// BCS fixes little-endian for every integer width, independent of the host. This
// package extends Go's encoding/binary ByteOrder and AppendByteOrder with the 128-bit
// and 256-bit widths BCS also carries.
//
// # Basic Usage
//
//	import "github.com/arloliu/bcs/endian"
//
//	engine := endian.Engine()
//	buf = engine.AppendUint64(buf, 7)
//	buf = endian.AppendUint128(buf, lo, hi)
//
// # Wide integers
//
// 128-bit and 256-bit values are passed as 64-bit limbs ordered least significant
// first. The wire form is the limbs written in that order, each little-endian, which is
// the same as the little-endian encoding of the whole integer.
//
// # Thread Safety
//
// All functions in this package are stateless and safe for concurrent use.
package endian

import (
	"encoding/binary"
)

// EndianEngine combines ByteOrder and AppendByteOrder interfaces from encoding/binary
// into a single interface for convenient byte order operations.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// Sizes in bytes of the wide integer encodings.
const (
	Uint128Size = 16
	Uint256Size = 32
)

// Engine returns the little-endian engine used for every BCS integer.
func Engine() EndianEngine {
	return binary.LittleEndian
}

// AppendUint128 appends the 16-byte little-endian encoding of hi:lo to buf.
func AppendUint128(buf []byte, lo, hi uint64) []byte {
	buf = binary.LittleEndian.AppendUint64(buf, lo)
	return binary.LittleEndian.AppendUint64(buf, hi)
}

// PutUint128 writes hi:lo into b, which must be at least 16 bytes long.
func PutUint128(b []byte, lo, hi uint64) {
	_ = b[15] // bounds check hint
	binary.LittleEndian.PutUint64(b[0:8], lo)
	binary.LittleEndian.PutUint64(b[8:16], hi)
}

// Uint128 reads a 128-bit integer from the first 16 bytes of b.
func Uint128(b []byte) (lo, hi uint64) {
	_ = b[15] // bounds check hint
	return binary.LittleEndian.Uint64(b[0:8]), binary.LittleEndian.Uint64(b[8:16])
}

// AppendUint256 appends the 32-byte little-endian encoding of limbs to buf.
// limbs[0] is the least significant limb.
func AppendUint256(buf []byte, limbs [4]uint64) []byte {
	for _, limb := range limbs {
		buf = binary.LittleEndian.AppendUint64(buf, limb)
	}

	return buf
}

// PutUint256 writes limbs into b, which must be at least 32 bytes long.
func PutUint256(b []byte, limbs [4]uint64) {
	_ = b[31] // bounds check hint
	for i, limb := range limbs {
		binary.LittleEndian.PutUint64(b[i*8:], limb)
	}
}

// Uint256 reads a 256-bit integer from the first 32 bytes of b.
func Uint256(b []byte) [4]uint64 {
	_ = b[31] // bounds check hint

	var limbs [4]uint64
	for i := range limbs {
		limbs[i] = binary.LittleEndian.Uint64(b[i*8:])
	}

	return limbs
}
