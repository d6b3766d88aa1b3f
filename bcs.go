// Package bcs provides Binary Canonical Serialization: a deterministic binary format in
// which every value has exactly one valid encoding.
//
// The wire rules are small and strict:
//
//   - Fixed-width unsigned integers (u8 to u256) are little-endian.
//   - Bools are a single 0x00 or 0x01 byte; any other byte is rejected.
//   - Addresses are 32 raw bytes.
//   - Vectors and strings carry a minimal ULEB128 length prefix.
//   - Options are a 0x00/0x01 tag followed by the value when present.
//   - Structs are the concatenation of their fields, with no framing.
//   - Enums are a minimal ULEB128 variant index followed by the variant's fields.
//
// Decoding rejects anything the encoder would not produce, including non-minimal
// varints and unconsumed trailing bytes, and reports the failing error kind with the
// byte offset of the failed read.
//
// # Basic Usage
//
// Types known at compile time implement encoding.Marshaler and encoding.Unmarshaler:
//
//	type Coin struct {
//	    ID      encoding.Address
//	    Balance uint64
//	}
//
//	func (c *Coin) MarshalBCS(e *encoding.Encoder) error {
//	    e.WriteAddress(c.ID)
//	    e.WriteU64(c.Balance)
//	    return nil
//	}
//
//	func (c *Coin) UnmarshalBCS(d *encoding.Decoder) error {
//	    var err error
//	    if c.ID, err = d.PeelAddress(); err != nil {
//	        return err
//	    }
//	    c.Balance, err = d.PeelU64()
//	    return err
//	}
//
//	data, err := bcs.Marshal(&coin)
//	err = bcs.Unmarshal(data, &coin)
//
// Layouts known only at runtime use the schema package:
//
//	reg, _ := schema.LoadRegistry(defs)
//	coinType, _ := reg.Resolve("Coin")
//	data, err := bcs.Encode(value, coinType)
//	value, err := bcs.Decode(data, coinType)
//
// # Package Structure
//
// This package provides convenient top-level wrappers. For fine-grained control use
// the underlying packages directly:
//
//   - encoding: Encoder, Decoder and the Marshaler/Unmarshaler binding
//   - schema: runtime types, values, YAML mapping
//   - digest: Blake2b-256 and BLAKE3 hashes over canonical encodings
//   - envelope: checksummed, optionally compressed frames
//   - golden: literal regression vectors
//   - errs: error kinds and DecodeError
package bcs

import (
	"github.com/arloliu/bcs/digest"
	"github.com/arloliu/bcs/encoding"
	"github.com/arloliu/bcs/envelope"
	"github.com/arloliu/bcs/schema"
)

// Marshal returns the canonical encoding of m.
func Marshal(m encoding.Marshaler) ([]byte, error) {
	return encoding.Marshal(m)
}

// Unmarshal decodes data into u. Every byte of data must be consumed.
//
// Available options:
//   - encoding.WithMaxSequenceLength(n)
//   - encoding.WithMaxDepth(n)
func Unmarshal(data []byte, u encoding.Unmarshaler, opts ...encoding.DecoderOption) error {
	return encoding.Unmarshal(data, u, opts...)
}

// Encode returns the canonical encoding of v under t.
func Encode(v schema.Value, t *schema.Type) ([]byte, error) {
	return schema.Encode(v, t)
}

// Decode decodes data as a value of type t. Every byte of data must be consumed.
func Decode(data []byte, t *schema.Type, opts ...encoding.DecoderOption) (schema.Value, error) {
	return schema.Decode(data, t, opts...)
}

// Digest returns the transaction-intent Blake2b-256 digest of m's encoding.
//
// Example:
//
//	d, err := bcs.Digest(&tx)
//	fmt.Println(d) // 64 hex digits
func Digest(m encoding.Marshaler) (digest.Digest, error) {
	return digest.Of(m, digest.TransactionIntent)
}

// Seal encodes m and frames the encoding in an envelope.
//
// Available options:
//   - envelope.WithCompression(format.CompressionNone|Zstd|S2|LZ4)
//   - envelope.WithMaxPayloadSize(n)
func Seal(m encoding.Marshaler, opts ...envelope.Option) ([]byte, error) {
	return envelope.SealValue(m, opts...)
}

// Open verifies an envelope produced by Seal and decodes its payload into u.
func Open(frame []byte, u encoding.Unmarshaler, opts ...envelope.Option) error {
	return envelope.OpenValue(frame, u, opts...)
}
