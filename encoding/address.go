package encoding

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// AddressLength is the size of an Address on the wire.
const AddressLength = 32

// Address is a 32-byte account or object identifier, encoded as raw bytes.
type Address [AddressLength]byte

// ParseAddress parses a hex address with an optional 0x prefix. Short forms such as
// "0x2" are left-padded with zeros.
func ParseAddress(s string) (Address, error) {
	var addr Address

	h := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if h == "" || len(h) > AddressLength*2 {
		return addr, fmt.Errorf("invalid address %q: want 1 to %d hex digits", s, AddressLength*2)
	}

	if len(h)%2 == 1 {
		h = "0" + h
	}

	raw, err := hex.DecodeString(h)
	if err != nil {
		return addr, fmt.Errorf("invalid address %q: %w", s, err)
	}

	copy(addr[AddressLength-len(raw):], raw)

	return addr, nil
}

// MustParseAddress is like ParseAddress but panics on error. Intended for constants
// and tests.
func MustParseAddress(s string) Address {
	addr, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}

	return addr
}

// String returns the 0x-prefixed, 64-digit lowercase hex form of a.
func (a Address) String() string {
	return "0x" + hex.EncodeToString(a[:])
}

// MarshalText implements encoding.TextMarshaler.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Address) UnmarshalText(text []byte) error {
	parsed, err := ParseAddress(string(text))
	if err != nil {
		return err
	}
	*a = parsed

	return nil
}
