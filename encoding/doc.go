// Package encoding implements the BCS (Binary Canonical Serialization) wire format:
// an append-only Encoder and a cursor-based Decoder that "peels" one value at a time.
//
// # Wire Format
//
//   - Fixed-width unsigned integers (u8, u16, u32, u64, u128, u256): little-endian,
//     exactly 1/2/4/8/16/32 bytes.
//   - bool: one byte, 0x00 or 0x01. Any other byte is rejected on decode.
//   - address: 32 raw bytes, no length prefix.
//   - vector<T>: ULEB128 length followed by each element.
//   - option<T>: tag byte 0x00 (none) or 0x01 (some), then T if present.
//   - struct: the fields in declaration order, no framing of any kind.
//   - enum: ULEB128 variant index followed by the variant's fields.
//
// ULEB128 values must use the minimal number of bytes; the decoder rejects padded
// encodings with errs.ErrNonCanonicalVarint so every value has exactly one encoding.
//
// # Encoding
//
//	enc := encoding.NewEncoder()
//	defer enc.Release()
//
//	enc.WriteAddress(coin.ID)
//	enc.WriteU64(coin.Balance)
//	data := enc.Detach()
//
// # Decoding
//
// The caller peels fields in declaration order and must call Finish, which fails with
// errs.ErrTrailingBytes if any input remains:
//
//	dec := encoding.NewDecoder(data)
//	id, err := dec.PeelAddress()
//	...
//	balance, err := dec.PeelU64()
//	...
//	if err := dec.Finish(); err != nil {
//	    return err
//	}
//
// Every decode failure is an *errs.DecodeError naming the kind and the byte offset.
//
// # Type Bindings
//
// Application types implement Marshaler and Unmarshaler, writing and peeling their
// fields in the same order. Marshal and Unmarshal wrap a binding with the encoder
// lifecycle and the trailing-bytes check:
//
//	func (c *Coin) MarshalBCS(e *encoding.Encoder) error {
//	    e.WriteAddress(c.ID)
//	    e.WriteU64(c.Balance)
//	    return nil
//	}
//
//	func (c *Coin) UnmarshalBCS(d *encoding.Decoder) (err error) {
//	    if c.ID, err = d.PeelAddress(); err != nil {
//	        return err
//	    }
//	    c.Balance, err = d.PeelU64()
//	    return err
//	}
//
// Field order is part of a type's wire identity: reordering or renaming-with-reorder is
// a breaking change. Enum variants must only ever be appended.
//
// # Thread Safety
//
// Encoder and Decoder are NOT safe for concurrent use. Independent instances may be
// used from different goroutines freely.
package encoding
