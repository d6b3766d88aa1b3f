package encoding

import (
	"fmt"
	"math/big"

	"github.com/arloliu/bcs/errs"
)

// U256 is an unsigned 256-bit integer stored as four 64-bit limbs, least
// significant first.
type U256 [4]uint64

// U256From64 widens v to 256 bits.
func U256From64(v uint64) U256 {
	return U256{v}
}

// U256FromBig converts b to a U256, failing with errs.ErrIntegerOutOfRange when b is
// negative or needs more than 256 bits.
func U256FromBig(b *big.Int) (U256, error) {
	if b == nil || b.Sign() < 0 || b.BitLen() > 256 {
		return U256{}, fmt.Errorf("%w: %v does not fit in u256", errs.ErrIntegerOutOfRange, b)
	}

	var u U256
	copy(u[:], fillWords(b, 4))

	return u, nil
}

// ParseU256 parses a base-10 string into a U256.
func ParseU256(s string) (U256, error) {
	b, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return U256{}, fmt.Errorf("%w: %q is not a decimal integer", errs.ErrIntegerOutOfRange, s)
	}

	return U256FromBig(b)
}

// Big returns u as a new big.Int.
func (u U256) Big() *big.Int {
	return wordsToBig(u[:])
}

// String returns the base-10 representation of u.
func (u U256) String() string {
	return u.Big().String()
}

// Cmp compares u and v and returns -1, 0 or +1.
func (u U256) Cmp(v U256) int {
	for i := 3; i >= 0; i-- {
		if u[i] != v[i] {
			return cmpUint64(u[i], v[i])
		}
	}

	return 0
}
