package schema

import (
	"fmt"

	"github.com/arloliu/bcs/encoding"
	"github.com/arloliu/bcs/errs"
)

// Kind identifies the shape of a Type or Value.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindBool
	KindU8
	KindU16
	KindU32
	KindU64
	KindU128
	KindU256
	KindAddress
	KindString
	KindVector
	KindOption
	KindStruct
	KindEnum
)

var kindNames = [...]string{
	KindInvalid: "invalid",
	KindBool:    "bool",
	KindU8:      "u8",
	KindU16:     "u16",
	KindU32:     "u32",
	KindU64:     "u64",
	KindU128:    "u128",
	KindU256:    "u256",
	KindAddress: "address",
	KindString:  "string",
	KindVector:  "vector",
	KindOption:  "option",
	KindStruct:  "struct",
	KindEnum:    "enum",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}

	return fmt.Sprintf("Kind(%d)", k)
}

// Field is a named, typed member of a struct or enum variant.
type Field struct {
	Name string
	Type *Type
}

// Variant is one arm of an enum. Its index is its position in Type.Variants.
type Variant struct {
	Name   string
	Fields []Field
}

// Type describes the wire shape of a value. Struct and enum types are usually named
// and may refer to themselves through vector or option fields.
type Type struct {
	Kind     Kind
	Name     string    // struct and enum only
	Elem     *Type     // vector and option only
	Fields   []Field   // struct only
	Variants []Variant // enum only
}

// Primitive types.
var (
	BoolType    = &Type{Kind: KindBool}
	U8Type      = &Type{Kind: KindU8}
	U16Type     = &Type{Kind: KindU16}
	U32Type     = &Type{Kind: KindU32}
	U64Type     = &Type{Kind: KindU64}
	U128Type    = &Type{Kind: KindU128}
	U256Type    = &Type{Kind: KindU256}
	AddressType = &Type{Kind: KindAddress}
	StringType  = &Type{Kind: KindString}
)

// VectorOf returns the type vector<elem>.
func VectorOf(elem *Type) *Type {
	return &Type{Kind: KindVector, Elem: elem}
}

// OptionOf returns the type option<elem>.
func OptionOf(elem *Type) *Type {
	return &Type{Kind: KindOption, Elem: elem}
}

// StructOf returns a struct type whose fields are encoded in the given order.
func StructOf(name string, fields ...Field) *Type {
	return &Type{Kind: KindStruct, Name: name, Fields: fields}
}

// EnumOf returns an enum type. Variant indexes follow the argument order.
func EnumOf(name string, variants ...Variant) *Type {
	return &Type{Kind: KindEnum, Name: name, Variants: variants}
}

// NewField is shorthand for Field{Name: name, Type: t}.
func NewField(name string, t *Type) Field {
	return Field{Name: name, Type: t}
}

// NewVariant is shorthand for Variant{Name: name, Fields: fields}.
func NewVariant(name string, fields ...Field) Variant {
	return Variant{Name: name, Fields: fields}
}

// String returns the type expression of t, e.g. "vector<option<u64>>". Named types
// print their name.
func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}

	switch t.Kind {
	case KindVector, KindOption:
		return fmt.Sprintf("%s<%s>", t.Kind, t.Elem)
	case KindStruct, KindEnum:
		if t.Name != "" {
			return t.Name
		}

		return t.Kind.String()
	default:
		return t.Kind.String()
	}
}

// VariantIndex returns the index of the named variant of an enum type.
func (t *Type) VariantIndex(name string) (int, bool) {
	for i, v := range t.Variants {
		if v.Name == name {
			return i, true
		}
	}

	return -1, false
}

// Validate checks that t is well formed: element types are present, structs have at
// least one field, enums at least one variant, and member names are non-empty and
// unique. Recursive types are supported.
func (t *Type) Validate() error {
	return t.validate(make(map[*Type]bool), t.String())
}

func (t *Type) validate(seen map[*Type]bool, path string) error {
	if t == nil {
		return fmt.Errorf("%w: %s: missing type", errs.ErrInvalidSchema, path)
	}

	if seen[t] {
		return nil
	}
	seen[t] = true

	switch t.Kind {
	case KindBool, KindU8, KindU16, KindU32, KindU64, KindU128, KindU256, KindAddress, KindString:
		return nil
	case KindVector, KindOption:
		return t.Elem.validate(seen, path+"<>")
	case KindStruct:
		if len(t.Fields) == 0 {
			return fmt.Errorf("%w: %s: struct has no fields", errs.ErrInvalidSchema, path)
		}

		return validateFields(seen, path, t.Fields)
	case KindEnum:
		if len(t.Variants) == 0 {
			return fmt.Errorf("%w: %s: enum has no variants", errs.ErrInvalidSchema, path)
		}

		names := make(map[string]bool, len(t.Variants))
		for _, v := range t.Variants {
			if v.Name == "" || names[v.Name] {
				return fmt.Errorf("%w: %s: empty or duplicate variant name %q", errs.ErrInvalidSchema, path, v.Name)
			}
			names[v.Name] = true

			if err := validateFields(seen, path+"::"+v.Name, v.Fields); err != nil {
				return err
			}
		}

		return nil
	default:
		return fmt.Errorf("%w: %s: unknown kind %s", errs.ErrInvalidSchema, path, t.Kind)
	}
}

func validateFields(seen map[*Type]bool, path string, fields []Field) error {
	names := make(map[string]bool, len(fields))
	for _, f := range fields {
		if f.Name == "" || names[f.Name] {
			return fmt.Errorf("%w: %s: empty or duplicate field name %q", errs.ErrInvalidSchema, path, f.Name)
		}
		names[f.Name] = true

		if err := f.Type.validate(seen, path+"."+f.Name); err != nil {
			return err
		}
	}

	return nil
}

// minWireSize returns a lower bound on the encoded size of any value of t. It is
// used to reject impossible vector lengths before allocating.
func (t *Type) minWireSize(visiting map[*Type]bool) int {
	if t == nil {
		return 1
	}

	switch t.Kind {
	case KindU16:
		return 2
	case KindU32:
		return 4
	case KindU64:
		return 8
	case KindU128:
		return 16
	case KindU256:
		return 32
	case KindAddress:
		return encoding.AddressLength
	case KindStruct:
		if visiting[t] {
			return 1
		}
		visiting[t] = true
		defer delete(visiting, t)

		size := 0
		for _, f := range t.Fields {
			size += f.Type.minWireSize(visiting)
		}

		return max(size, 1)
	default:
		// bool, u8, string, vector, option and enum all need at least one byte.
		return 1
	}
}
