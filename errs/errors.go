// Package errs defines the error values reported by the bcs packages.
//
// Decode failures are reported as *DecodeError, which names the failing kind and the
// byte offset of the read that failed. The kind is one of the sentinel values below and
// can be matched with errors.Is:
//
//	_, err := schema.Decode(data, typ)
//	if errors.Is(err, errs.ErrNonCanonicalVarint) {
//	    // reject the payload
//	}
//
// Encode-side errors (out-of-range integers, values that do not match their schema)
// are caller programming errors and are reported with the Encode sentinels, wrapped with
// context via fmt.Errorf.
package errs

import (
	"errors"
	"fmt"
)

// Decode kinds. All are terminal: a decoder never recovers from one.
var (
	ErrTruncatedInput      = errors.New("truncated input")
	ErrInvalidBoolTag      = errors.New("invalid bool tag")
	ErrInvalidOptionTag    = errors.New("invalid option tag")
	ErrNonCanonicalVarint  = errors.New("non-canonical varint")
	ErrVarintOverflow      = errors.New("varint overflow")
	ErrUnknownVariantIndex = errors.New("unknown variant index")
	ErrTrailingBytes       = errors.New("trailing bytes")
	ErrLengthLimitExceeded = errors.New("sequence length limit exceeded")
	ErrDepthLimitExceeded  = errors.New("container depth limit exceeded")
	ErrInvalidUTF8         = errors.New("invalid utf-8 string")
)

// Encode kinds.
var (
	ErrIntegerOutOfRange = errors.New("integer out of range")
	ErrSchemaMismatch    = errors.New("value does not match schema")
	ErrInvalidSchema     = errors.New("invalid schema")
	ErrSequenceTooLong   = errors.New("sequence too long")
)

// Envelope kinds.
var (
	ErrInvalidEnvelope        = errors.New("invalid envelope")
	ErrChecksumMismatch       = errors.New("envelope checksum mismatch")
	ErrUnsupportedCompression = errors.New("unsupported compression")
	ErrCorruptPayload         = errors.New("corrupt compressed payload")
)

// DecodeError describes a failed read at a specific byte offset.
type DecodeError struct {
	Kind   error  // one of the decode sentinels
	Offset int    // byte offset at which the failing read started
	Detail string // optional human-readable context
}

// NewDecodeError creates a DecodeError for kind at offset with a formatted detail.
func NewDecodeError(kind error, offset int, format string, args ...any) *DecodeError {
	e := &DecodeError{Kind: kind, Offset: offset}
	if format != "" {
		e.Detail = fmt.Sprintf(format, args...)
	}

	return e
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("bcs: %v at offset %d", e.Kind, e.Offset)
	}

	return fmt.Sprintf("bcs: %v at offset %d: %s", e.Kind, e.Offset, e.Detail)
}

// Unwrap returns the decode kind so errors.Is matches the sentinel.
func (e *DecodeError) Unwrap() error {
	return e.Kind
}

// OffsetOf returns the byte offset carried by the first DecodeError in err's chain.
func OffsetOf(err error) (int, bool) {
	var de *DecodeError
	if errors.As(err, &de) {
		return de.Offset, true
	}

	return 0, false
}

// KindOf returns the decode kind carried by the first DecodeError in err's chain,
// or nil if err is not a decode failure.
func KindOf(err error) error {
	var de *DecodeError
	if errors.As(err, &de) {
		return de.Kind
	}

	return nil
}

var kindsByName = map[string]error{
	"TruncatedInput":      ErrTruncatedInput,
	"InvalidBoolTag":      ErrInvalidBoolTag,
	"InvalidOptionTag":    ErrInvalidOptionTag,
	"NonCanonicalVarint":  ErrNonCanonicalVarint,
	"VarintOverflow":      ErrVarintOverflow,
	"UnknownVariantIndex": ErrUnknownVariantIndex,
	"TrailingBytes":       ErrTrailingBytes,
	"LengthLimitExceeded": ErrLengthLimitExceeded,
	"DepthLimitExceeded":  ErrDepthLimitExceeded,
	"InvalidUTF8":         ErrInvalidUTF8,
}

// KindByName maps the CamelCase name of a decode kind (as used in golden vector
// files) to its sentinel. It returns nil for unknown names.
func KindByName(name string) error {
	return kindsByName[name]
}
