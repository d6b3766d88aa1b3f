package schema

import (
	"fmt"

	"github.com/arloliu/bcs/encoding"
	"github.com/arloliu/bcs/errs"
)

// Encode returns the canonical encoding of v under t.
//
// t must be valid (see Type.Validate); invalid types fail with errs.ErrInvalidSchema.
// Values that do not match t, such as a wrong kind, a struct with a missing field or a
// variant index out of range, fail with errs.ErrSchemaMismatch and the path of the
// offending member. Values nested deeper than encoding.DefaultMaxDepth structs and
// enums fail with errs.ErrDepthLimitExceeded, since no decoder with the default limit
// would accept them.
func Encode(v Value, t *Type) ([]byte, error) {
	e := encoding.NewEncoder()
	defer e.Release()

	if err := EncodeTo(e, v, t); err != nil {
		return nil, err
	}

	return e.Detach(), nil
}

// EncodeTo appends the encoding of v under t to e. On error, e may hold a partial
// encoding.
func EncodeTo(e *encoding.Encoder, v Value, t *Type) error {
	if err := t.Validate(); err != nil {
		return err
	}

	enc := valueEncoder{e: e, maxDepth: encoding.DefaultMaxDepth}

	return enc.encode(v, t, t.String())
}

func mismatch(path string, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", errs.ErrSchemaMismatch, path, fmt.Sprintf(format, args...))
}

// valueEncoder writes values and counts struct and enum nesting the same way the
// decoder does.
type valueEncoder struct {
	e        *encoding.Encoder
	depth    int
	maxDepth int
}

func (enc *valueEncoder) enter(path string) error {
	enc.depth++
	if enc.depth > enc.maxDepth {
		return fmt.Errorf("%w: %s: depth %d exceeds %d", errs.ErrDepthLimitExceeded, path, enc.depth, enc.maxDepth)
	}

	return nil
}

func (enc *valueEncoder) leave() {
	enc.depth--
}

func (enc *valueEncoder) encode(v Value, t *Type, path string) error {
	if v.kind != t.Kind {
		return mismatch(path, "expected %s, got %s", t, v.kind)
	}

	e := enc.e

	switch t.Kind {
	case KindBool:
		e.WriteBool(v.AsBool())
	case KindU8:
		e.WriteU8(uint8(v.num)) //nolint:gosec
	case KindU16:
		e.WriteU16(uint16(v.num)) //nolint:gosec
	case KindU32:
		e.WriteU32(uint32(v.num)) //nolint:gosec
	case KindU64:
		e.WriteU64(v.num)
	case KindU128:
		e.WriteU128(v.AsU128())
	case KindU256:
		e.WriteU256(v.wide)
	case KindAddress:
		e.WriteAddress(v.addr)
	case KindString:
		if err := e.WriteString(v.str); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	case KindVector:
		if err := e.WriteLength(len(v.items)); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}

		for i, item := range v.items {
			if err := enc.encode(item, t.Elem, fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
	case KindOption:
		e.WriteOptionTag(v.IsSome())

		if v.IsSome() {
			return enc.encode(v.items[0], t.Elem, path+"?")
		}
	case KindStruct:
		if err := enc.enter(path); err != nil {
			return err
		}
		defer enc.leave()

		return enc.encodeFields(v.items, t.Fields, path)
	case KindEnum:
		if v.num >= uint64(len(t.Variants)) {
			return mismatch(path, "variant index %d, type has %d variants", v.num, len(t.Variants))
		}

		if err := enc.enter(path); err != nil {
			return err
		}
		defer enc.leave()

		variant := t.Variants[v.num]
		e.WriteVariantIndex(uint32(v.num)) //nolint:gosec

		return enc.encodeFields(v.items, variant.Fields, path+"::"+variant.Name)
	default:
		return fmt.Errorf("%w: %s: unknown kind %s", errs.ErrInvalidSchema, path, t.Kind)
	}

	return nil
}

func (enc *valueEncoder) encodeFields(items []Value, fields []Field, path string) error {
	if len(items) != len(fields) {
		return mismatch(path, "expected %d fields, got %d", len(fields), len(items))
	}

	for i, f := range fields {
		if err := enc.encode(items[i], f.Type, path+"."+f.Name); err != nil {
			return err
		}
	}

	return nil
}

// Decode decodes data as a value of t and requires the input to be consumed exactly.
//
// t must be valid (see Type.Validate). Structs and enums count toward the decoder's
// depth limit, which bounds recursion through self-referential types.
func Decode(data []byte, t *Type, opts ...encoding.DecoderOption) (Value, error) {
	d := encoding.NewDecoder(data, opts...)

	v, err := DecodeFrom(d, t)
	if err != nil {
		return Value{}, err
	}

	if err := d.Finish(); err != nil {
		return Value{}, err
	}

	return v, nil
}

// DecodeFrom peels one value of t from d. Trailing input is left for the caller.
func DecodeFrom(d *encoding.Decoder, t *Type) (Value, error) {
	if err := t.Validate(); err != nil {
		return Value{}, err
	}

	return decodeValue(d, t)
}

func decodeValue(d *encoding.Decoder, t *Type) (Value, error) {
	switch t.Kind {
	case KindBool:
		b, err := d.PeelBool()
		return Bool(b), err
	case KindU8:
		n, err := d.PeelU8()
		return U8(n), err
	case KindU16:
		n, err := d.PeelU16()
		return U16(n), err
	case KindU32:
		n, err := d.PeelU32()
		return U32(n), err
	case KindU64:
		n, err := d.PeelU64()
		return U64(n), err
	case KindU128:
		n, err := d.PeelU128()
		return U128(n), err
	case KindU256:
		n, err := d.PeelU256()
		return U256(n), err
	case KindAddress:
		a, err := d.PeelAddress()
		return Address(a), err
	case KindString:
		s, err := d.PeelString()
		return String(s), err
	case KindVector:
		return decodeVector(d, t)
	case KindOption:
		present, err := d.PeelOptionTag()
		if err != nil || !present {
			return None(), err
		}

		inner, err := decodeValue(d, t.Elem)
		if err != nil {
			return Value{}, err
		}

		return Some(inner), nil
	case KindStruct:
		if err := d.Enter(); err != nil {
			return Value{}, err
		}
		defer d.Leave()

		items, err := decodeFields(d, t.Fields)
		if err != nil {
			return Value{}, err
		}

		return Value{kind: KindStruct, items: items}, nil
	case KindEnum:
		if err := d.Enter(); err != nil {
			return Value{}, err
		}
		defer d.Leave()

		idx, err := d.PeelVariantIndex(len(t.Variants))
		if err != nil {
			return Value{}, err
		}

		items, err := decodeFields(d, t.Variants[idx].Fields)
		if err != nil {
			return Value{}, err
		}

		return Value{kind: KindEnum, num: uint64(idx), items: items}, nil
	default:
		return Value{}, fmt.Errorf("%w: unknown kind %s", errs.ErrInvalidSchema, t.Kind)
	}
}

func decodeVector(d *encoding.Decoder, t *Type) (Value, error) {
	n, err := d.PeelLengthFor(t.Elem.minWireSize(make(map[*Type]bool)))
	if err != nil {
		return Value{}, err
	}

	if n == 0 {
		return Vector(), nil
	}

	items := make([]Value, n)
	for i := range items {
		if items[i], err = decodeValue(d, t.Elem); err != nil {
			return Value{}, err
		}
	}

	return Value{kind: KindVector, items: items}, nil
}

func decodeFields(d *encoding.Decoder, fields []Field) ([]Value, error) {
	if len(fields) == 0 {
		return nil, nil
	}

	items := make([]Value, len(fields))
	for i, f := range fields {
		var err error
		if items[i], err = decodeValue(d, f.Type); err != nil {
			return nil, err
		}
	}

	return items, nil
}
