// Package digest computes content hashes over canonical BCS encodings.
//
// Because every value has exactly one BCS encoding, hashing the encoding yields a
// stable identifier for the value itself. Two schemes are provided:
//
//   - Blake2b-256, optionally prefixed with a 3-byte intent (scope, version, app id)
//     that keeps digests of different message kinds apart.
//   - BLAKE3 in keyed mode, with a 32-byte ASCII domain key.
package digest

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/zeebo/blake3"
	"golang.org/x/crypto/blake2b"

	"github.com/arloliu/bcs/encoding"
	"github.com/arloliu/bcs/schema"
)

// Size is the length of a digest in bytes.
const Size = 32

// Digest is a 32-byte hash.
type Digest [Size]byte

// String returns the lowercase hex form of d.
func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// ParseDigest parses 64 hex digits, with or without a 0x prefix.
func ParseDigest(s string) (Digest, error) {
	var d Digest

	decoded, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return d, fmt.Errorf("parse digest: %w", err)
	}

	if len(decoded) != Size {
		return d, fmt.Errorf("parse digest: %d bytes, want %d", len(decoded), Size)
	}
	copy(d[:], decoded)

	return d, nil
}

// Intent prefixes the encoding before hashing: scope, version and app id.
type Intent [3]byte

// Well-known intents.
var (
	TransactionIntent     = Intent{0, 0, 0}
	PersonalMessageIntent = Intent{3, 0, 0}
)

// ParseIntent parses the "scope,version,app" form, e.g. "0,0,0".
func ParseIntent(s string) (Intent, error) {
	var intent Intent

	parts := strings.Split(s, ",")
	if len(parts) != len(intent) {
		return intent, fmt.Errorf("parse intent %q: want 3 comma-separated bytes", s)
	}

	for i, p := range parts {
		n, err := strconv.ParseUint(strings.TrimSpace(p), 10, 8)
		if err != nil {
			return intent, fmt.Errorf("parse intent %q: %w", s, err)
		}
		intent[i] = byte(n)
	}

	return intent, nil
}

// Blake2b256 returns the Blake2b-256 hash of data.
func Blake2b256(data []byte) Digest {
	return blake2b.Sum256(data)
}

// WithIntent returns Blake2b-256 over intent || data.
func WithIntent(intent Intent, data []byte) Digest {
	// New256 only fails for keys longer than 64 bytes.
	h, _ := blake2b.New256(nil)
	h.Write(intent[:])
	h.Write(data)

	var d Digest
	h.Sum(d[:0])

	return d
}

// DomainKey is a BLAKE3 key made of an ASCII domain name, zero-padded to 32 bytes.
type DomainKey [32]byte

// NewDomainKey builds a DomainKey from a printable ASCII name of at most 32 bytes.
func NewDomainKey(domain string) (DomainKey, error) {
	var key DomainKey

	if domain == "" || len(domain) > len(key) {
		return key, fmt.Errorf("domain key %q: length must be 1..%d", domain, len(key))
	}

	for i := range len(domain) {
		if domain[i] < 0x20 || domain[i] > 0x7e {
			return key, fmt.Errorf("domain key %q: byte %d is not printable ASCII", domain, i)
		}
	}
	copy(key[:], domain)

	return key, nil
}

// MustDomainKey is like NewDomainKey but panics on error. It is intended for
// package-level key definitions.
func MustDomainKey(domain string) DomainKey {
	key, err := NewDomainKey(domain)
	if err != nil {
		panic(err)
	}

	return key
}

// Keyed returns the BLAKE3 keyed hash of data under key.
func Keyed(key DomainKey, data []byte) Digest {
	// NewKeyed only fails for keys that are not 32 bytes.
	h, _ := blake3.NewKeyed(key[:])
	_, _ = h.Write(data)

	var d Digest
	h.Sum(d[:0])

	return d
}

// Of encodes m and returns the intent-prefixed Blake2b-256 of its encoding.
func Of(m encoding.Marshaler, intent Intent) (Digest, error) {
	data, err := encoding.Marshal(m)
	if err != nil {
		return Digest{}, err
	}

	return WithIntent(intent, data), nil
}

// OfValue encodes v under t and returns the intent-prefixed Blake2b-256 of its
// encoding.
func OfValue(v schema.Value, t *schema.Type, intent Intent) (Digest, error) {
	data, err := schema.Encode(v, t)
	if err != nil {
		return Digest{}, err
	}

	return WithIntent(intent, data), nil
}
