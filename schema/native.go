package schema

import (
	"fmt"

	"github.com/arloliu/bcs/errs"
)

// ToNative converts v, typed by t, into plain Go values suitable for generic
// serializers such as CBOR or JSON:
//
//   - bool and u8..u64 become bool and uint64
//   - u128 and u256 become *big.Int
//   - addresses become "0x"-prefixed hex strings
//   - vector<u8> becomes []byte, other vectors []any
//   - options become nil or their payload
//   - structs become map[string]any keyed by field name
//   - enums become a single-key map from variant name to its fields, or the bare
//     variant name when it has no fields
func ToNative(v Value, t *Type) (any, error) {
	return toNative(v, t, t.String())
}

func toNative(v Value, t *Type, path string) (any, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: %s: missing type", errs.ErrInvalidSchema, path)
	}

	if v.kind != t.Kind {
		return nil, mismatch(path, "expected %s, got %s", t, v.kind)
	}

	switch t.Kind {
	case KindBool:
		return v.AsBool(), nil
	case KindU8, KindU16, KindU32, KindU64:
		return v.num, nil
	case KindU128:
		return v.AsU128().Big(), nil
	case KindU256:
		return v.wide.Big(), nil
	case KindAddress:
		return v.addr.String(), nil
	case KindString:
		return v.str, nil
	case KindVector:
		if t.Elem != nil && t.Elem.Kind == KindU8 {
			if b, ok := v.AsBytes(); ok {
				return b, nil
			}
		}

		out := make([]any, len(v.items))
		for i, item := range v.items {
			var err error
			if out[i], err = toNative(item, t.Elem, fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return nil, err
			}
		}

		return out, nil
	case KindOption:
		if !v.IsSome() {
			return nil, nil
		}

		return toNative(v.items[0], t.Elem, path+"?")
	case KindStruct:
		return fieldsToNative(v.items, t.Fields, path)
	case KindEnum:
		if v.num >= uint64(len(t.Variants)) {
			return nil, mismatch(path, "variant index %d, type has %d variants", v.num, len(t.Variants))
		}

		variant := t.Variants[v.num]
		if len(variant.Fields) == 0 {
			return variant.Name, nil
		}

		fields, err := fieldsToNative(v.items, variant.Fields, path+"::"+variant.Name)
		if err != nil {
			return nil, err
		}

		return map[string]any{variant.Name: fields}, nil
	default:
		return nil, fmt.Errorf("%w: %s: unknown kind %s", errs.ErrInvalidSchema, path, t.Kind)
	}
}

func fieldsToNative(items []Value, fields []Field, path string) (map[string]any, error) {
	if len(items) != len(fields) {
		return nil, mismatch(path, "expected %d fields, got %d", len(fields), len(items))
	}

	out := make(map[string]any, len(fields))
	for i, f := range fields {
		var err error
		if out[f.Name], err = toNative(items[i], f.Type, path+"."+f.Name); err != nil {
			return nil, err
		}
	}

	return out, nil
}
