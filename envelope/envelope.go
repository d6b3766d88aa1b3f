// Package envelope frames BCS payloads for storage and transport.
//
// An envelope is itself BCS encoded:
//
//	magic       u32      0x45534342 ("BCSE" in little-endian byte order)
//	version     u8       1
//	compression u8       format.CompressionType
//	checksum    u64      xxHash64 of the uncompressed payload
//	size        uleb128  uncompressed payload length
//	payload     vector<u8>
//
// Open checks every field before trusting it: the size is bounded before the payload
// is decompressed, the decompressed length must match it, and the checksum must match
// the result.
package envelope

import (
	"fmt"

	"github.com/arloliu/bcs/compress"
	"github.com/arloliu/bcs/encoding"
	"github.com/arloliu/bcs/errs"
	"github.com/arloliu/bcs/format"
	"github.com/arloliu/bcs/internal/hash"
)

const (
	// Magic identifies an envelope frame.
	Magic uint32 = 0x45534342
	// Version is the frame layout version written by Seal.
	Version uint8 = 1
)

// Header describes a frame without its payload.
type Header struct {
	Version        uint8
	Compression    format.CompressionType
	Checksum       uint64
	Size           uint64 // uncompressed payload length
	CompressedSize int
}

type frame struct {
	Header
	payload []byte
}

func (f *frame) MarshalBCS(e *encoding.Encoder) error {
	e.WriteU32(Magic)
	e.WriteU8(f.Version)
	e.WriteU8(uint8(f.Compression))
	e.WriteU64(f.Checksum)
	e.WriteUvarint(f.Size)

	return e.WriteBytes(f.payload)
}

func (f *frame) UnmarshalBCS(d *encoding.Decoder) error {
	magic, err := d.PeelU32()
	if err != nil {
		return err
	}

	if magic != Magic {
		return fmt.Errorf("%w: bad magic 0x%08x", errs.ErrInvalidEnvelope, magic)
	}

	if f.Version, err = d.PeelU8(); err != nil {
		return err
	}

	ct, err := d.PeelU8()
	if err != nil {
		return err
	}
	f.Compression = format.CompressionType(ct)

	if f.Checksum, err = d.PeelU64(); err != nil {
		return err
	}

	if f.Size, err = d.PeelUvarint(); err != nil {
		return err
	}

	if f.payload, err = d.PeelBytes(); err != nil {
		return err
	}
	f.CompressedSize = len(f.payload)

	return nil
}

// Seal compresses payload with the configured codec and frames it.
func Seal(payload []byte, opts ...Option) ([]byte, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}

	if len(payload) > cfg.maxPayloadSize {
		return nil, fmt.Errorf("%w: payload of %d bytes exceeds %d", errs.ErrInvalidEnvelope, len(payload), cfg.maxPayloadSize)
	}

	codec, err := compress.GetCodec(cfg.compression)
	if err != nil {
		return nil, err
	}

	compressed, err := codec.Compress(payload)
	if err != nil {
		return nil, fmt.Errorf("seal: %s: %w", cfg.compression, err)
	}

	f := frame{
		Header: Header{
			Version:     Version,
			Compression: cfg.compression,
			Checksum:    hash.Checksum(payload),
			Size:        uint64(len(payload)),
		},
		payload: compressed,
	}

	e := encoding.NewEncoder(encoding.WithFrameBuffer())
	defer e.Release()

	if err := f.MarshalBCS(e); err != nil {
		return nil, err
	}

	return e.Detach(), nil
}

// ReadHeader decodes and validates the frame layout without decompressing the
// payload.
func ReadHeader(data []byte, opts ...Option) (Header, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return Header{}, err
	}

	f, err := readFrame(data, cfg)
	if err != nil {
		return Header{}, err
	}

	return f.Header, nil
}

func readFrame(data []byte, cfg Config) (*frame, error) {
	var f frame

	// The compressed payload is never larger than the uncompressed bound plus codec
	// framing, so the length limit rejects oversized frames before allocation.
	limit := encoding.WithMaxSequenceLength(compressedBound(cfg.maxPayloadSize))
	if err := encoding.Unmarshal(data, &f, limit); err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrInvalidEnvelope, err)
	}

	if f.Version != Version {
		return nil, fmt.Errorf("%w: unsupported version %d", errs.ErrInvalidEnvelope, f.Version)
	}

	if !f.Compression.IsValid() {
		return nil, fmt.Errorf("%w: 0x%02x", errs.ErrUnsupportedCompression, uint8(f.Compression))
	}

	if f.Size > uint64(cfg.maxPayloadSize) {
		return nil, fmt.Errorf("%w: payload of %d bytes exceeds %d", errs.ErrInvalidEnvelope, f.Size, cfg.maxPayloadSize)
	}

	return &f, nil
}

// compressedBound returns a generous upper bound on the compressed size of n bytes
// for any built-in codec.
func compressedBound(n int) int {
	return min(n+n/128+1024, encoding.MaxSequenceLength)
}

// Open validates a frame and returns its uncompressed payload.
func Open(data []byte, opts ...Option) ([]byte, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}

	f, err := readFrame(data, cfg)
	if err != nil {
		return nil, err
	}

	codec, err := compress.GetCodec(f.Compression)
	if err != nil {
		return nil, err
	}

	payload, err := codec.Decompress(f.payload, int(f.Size)) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrInvalidEnvelope, err)
	}

	if sum := hash.Checksum(payload); sum != f.Checksum {
		return nil, fmt.Errorf("%w: got 0x%016x, frame says 0x%016x", errs.ErrChecksumMismatch, sum, f.Checksum)
	}

	if len(payload) == 0 {
		return []byte{}, nil
	}

	return payload, nil
}

// SealValue encodes m and seals the encoding.
func SealValue(m encoding.Marshaler, opts ...Option) ([]byte, error) {
	payload, err := encoding.Marshal(m)
	if err != nil {
		return nil, err
	}

	return Seal(payload, opts...)
}

// OpenValue opens a frame and decodes its payload into u. The payload must be
// consumed exactly.
func OpenValue(data []byte, u encoding.Unmarshaler, opts ...Option) error {
	payload, err := Open(data, opts...)
	if err != nil {
		return err
	}

	return encoding.Unmarshal(payload, u)
}
