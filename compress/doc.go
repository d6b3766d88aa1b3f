// Package compress provides the payload codecs used by envelopes.
//
// BCS encodings are dense but often repetitive (addresses, zero-padded integers), so
// large payloads benefit from a general-purpose compressor before they are framed.
// The package supports:
//   - None: No compression (fastest, largest)
//   - Zstd: Excellent compression ratio, moderate speed
//   - S2: Balanced compression and speed
//   - LZ4: Fast decompression, moderate compression
//
// # Architecture
//
//	type Compressor interface {
//	    Compress(data []byte) ([]byte, error)
//	}
//
//	type Decompressor interface {
//	    Decompress(data []byte, size int) ([]byte, error)
//	}
//
// Decompress takes the original payload size, which the envelope header records.
// Codecs use it to size their output exactly and to refuse inputs that would expand
// past it, so a small hostile frame cannot force a large allocation. A size mismatch
// fails with errs.ErrCorruptPayload.
//
// Use GetCodec to look up a codec by the format.CompressionType stored on the wire:
//
//	codec, err := compress.GetCodec(format.CompressionZstd)
//	compressed, err := codec.Compress(payload)
//	original, err := codec.Decompress(compressed, len(payload))
//
// # Zstd Backends
//
// Builds with cgo enabled use github.com/valyala/gozstd; builds without cgo use the pure
// Go github.com/klauspost/compress/zstd. Frame headers are validated with the pure Go
// parser in both cases.
//
// # Thread Safety
//
// All codec implementations are thread-safe and can be safely shared across goroutines.
// Internal encoders and decoders are pooled.
package compress
