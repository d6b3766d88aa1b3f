package encoding

import (
	"encoding/binary"
	"fmt"
	"math/big"
	"math/bits"

	"github.com/arloliu/bcs/errs"
)

// U128 is an unsigned 128-bit integer stored as two 64-bit halves.
type U128 struct {
	Lo uint64
	Hi uint64
}

// U128From64 widens v to 128 bits.
func U128From64(v uint64) U128 {
	return U128{Lo: v}
}

// U128FromBig converts b to a U128, failing with errs.ErrIntegerOutOfRange when b is
// negative or needs more than 128 bits.
func U128FromBig(b *big.Int) (U128, error) {
	if b == nil || b.Sign() < 0 || b.BitLen() > 128 {
		return U128{}, fmt.Errorf("%w: %v does not fit in u128", errs.ErrIntegerOutOfRange, b)
	}

	words := fillWords(b, 2)

	return U128{Lo: words[0], Hi: words[1]}, nil
}

// ParseU128 parses a base-10 string into a U128.
func ParseU128(s string) (U128, error) {
	b, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return U128{}, fmt.Errorf("%w: %q is not a decimal integer", errs.ErrIntegerOutOfRange, s)
	}

	return U128FromBig(b)
}

// Big returns u as a new big.Int.
func (u U128) Big() *big.Int {
	return wordsToBig([]uint64{u.Lo, u.Hi})
}

// String returns the base-10 representation of u.
func (u U128) String() string {
	if u.Hi == 0 {
		return fmt.Sprintf("%d", u.Lo)
	}

	return u.Big().String()
}

// IsUint64 reports whether u fits in 64 bits.
func (u U128) IsUint64() bool {
	return u.Hi == 0
}

// Cmp compares u and v and returns -1, 0 or +1.
func (u U128) Cmp(v U128) int {
	switch {
	case u.Hi != v.Hi:
		return cmpUint64(u.Hi, v.Hi)
	default:
		return cmpUint64(u.Lo, v.Lo)
	}
}

// Add returns u+v and whether the addition overflowed.
func (u U128) Add(v U128) (U128, bool) {
	lo, carry := bits.Add64(u.Lo, v.Lo, 0)
	hi, carry := bits.Add64(u.Hi, v.Hi, carry)

	return U128{Lo: lo, Hi: hi}, carry != 0
}

func cmpUint64(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// fillWords returns the n least significant 64-bit words of a non-negative b.
func fillWords(b *big.Int, n int) []uint64 {
	words := make([]uint64, n)
	buf := b.FillBytes(make([]byte, n*8)) // big-endian

	for i := range n {
		words[i] = binary.BigEndian.Uint64(buf[(n-1-i)*8:])
	}

	return words
}

// wordsToBig converts little-endian-ordered 64-bit words into a big.Int.
func wordsToBig(words []uint64) *big.Int {
	buf := make([]byte, len(words)*8)
	for i, w := range words {
		binary.BigEndian.PutUint64(buf[(len(words)-1-i)*8:], w)
	}

	return new(big.Int).SetBytes(buf)
}
