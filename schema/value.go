package schema

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/arloliu/bcs/encoding"
)

// Value is an immutable BCS value: a tagged union over the kinds of Type.
//
// Values do not carry their schema. Composite values hold their members in wire
// order; struct fields and variant payloads are matched to names by the Type they are
// encoded or decoded with.
type Value struct {
	kind  Kind
	num   uint64 // bool, u8..u64, variant index
	wide  encoding.U256
	addr  encoding.Address
	str   string
	items []Value // vector elements, option payload, struct fields, variant payload
}

// Bool returns a bool value.
func Bool(b bool) Value {
	v := Value{kind: KindBool}
	if b {
		v.num = 1
	}

	return v
}

// U8 returns a u8 value.
func U8(n uint8) Value { return Value{kind: KindU8, num: uint64(n)} }

// U16 returns a u16 value.
func U16(n uint16) Value { return Value{kind: KindU16, num: uint64(n)} }

// U32 returns a u32 value.
func U32(n uint32) Value { return Value{kind: KindU32, num: uint64(n)} }

// U64 returns a u64 value.
func U64(n uint64) Value { return Value{kind: KindU64, num: n} }

// U128 returns a u128 value.
func U128(n encoding.U128) Value {
	return Value{kind: KindU128, wide: encoding.U256{n.Lo, n.Hi}}
}

// U256 returns a u256 value.
func U256(n encoding.U256) Value { return Value{kind: KindU256, wide: n} }

// Address returns an address value.
func Address(a encoding.Address) Value { return Value{kind: KindAddress, addr: a} }

// String returns a string value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Vector returns a vector value holding items in order.
func Vector(items ...Value) Value {
	return Value{kind: KindVector, items: cloneValues(items)}
}

// Bytes returns a vector<u8> value.
func Bytes(b []byte) Value {
	items := make([]Value, len(b))
	for i, c := range b {
		items[i] = U8(c)
	}

	return Value{kind: KindVector, items: items}
}

// None returns an empty option value.
func None() Value { return Value{kind: KindOption} }

// Some returns a present option value.
func Some(v Value) Value { return Value{kind: KindOption, items: []Value{v}} }

// Struct returns a struct value whose fields are given in declaration order.
func Struct(fields ...Value) Value {
	return Value{kind: KindStruct, items: cloneValues(fields)}
}

// EnumValue returns an enum value selecting variant index with the given payload.
func EnumValue(index uint32, payload ...Value) Value {
	return Value{kind: KindEnum, num: uint64(index), items: cloneValues(payload)}
}

func cloneValues(in []Value) []Value {
	if len(in) == 0 {
		return nil
	}

	out := make([]Value, len(in))
	copy(out, in)

	return out
}

// Kind returns the kind of v. The zero Value has KindInvalid.
func (v Value) Kind() Kind { return v.kind }

// AsBool returns the bool payload.
func (v Value) AsBool() bool { return v.num == 1 }

// AsUint64 returns the payload of a u8, u16, u32 or u64 value.
func (v Value) AsUint64() uint64 { return v.num }

// AsU128 returns the payload of a u128 value.
func (v Value) AsU128() encoding.U128 { return encoding.U128{Lo: v.wide[0], Hi: v.wide[1]} }

// AsU256 returns the payload of a u256 value.
func (v Value) AsU256() encoding.U256 { return v.wide }

// AsAddress returns the payload of an address value.
func (v Value) AsAddress() encoding.Address { return v.addr }

// AsString returns the payload of a string value.
func (v Value) AsString() string { return v.str }

// Len returns the number of members: vector elements, struct fields, variant payload
// fields, or 0/1 for an option.
func (v Value) Len() int { return len(v.items) }

// Index returns the i-th member.
func (v Value) Index(i int) Value { return v.items[i] }

// IsSome reports whether an option value is present.
func (v Value) IsSome() bool { return v.kind == KindOption && len(v.items) == 1 }

// VariantIndex returns the variant index of an enum value.
func (v Value) VariantIndex() uint32 { return uint32(v.num) } //nolint:gosec

// AsBytes returns the contents of a vector<u8> value. ok is false if any element is
// not a u8.
func (v Value) AsBytes() (b []byte, ok bool) {
	if v.kind != KindVector {
		return nil, false
	}

	b = make([]byte, len(v.items))
	for i, item := range v.items {
		if item.kind != KindU8 {
			return nil, false
		}
		b[i] = byte(item.num)
	}

	return b, true
}

// Equal reports whether v and o are the same logical value.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind || v.num != o.num || v.wide != o.wide || v.addr != o.addr || v.str != o.str {
		return false
	}

	if len(v.items) != len(o.items) {
		return false
	}

	for i := range v.items {
		if !v.items[i].Equal(o.items[i]) {
			return false
		}
	}

	return true
}

// String formats v for debugging, e.g. "{0x…02, 7u64}" or "some([1u8, 2u8])".
func (v Value) String() string {
	var b strings.Builder
	v.format(&b)

	return b.String()
}

func (v Value) format(b *strings.Builder) {
	switch v.kind {
	case KindBool:
		b.WriteString(strconv.FormatBool(v.AsBool()))
	case KindU8, KindU16, KindU32, KindU64:
		b.WriteString(strconv.FormatUint(v.num, 10))
		b.WriteString(v.kind.String())
	case KindU128:
		b.WriteString(v.AsU128().String())
		b.WriteString("u128")
	case KindU256:
		b.WriteString(v.wide.String())
		b.WriteString("u256")
	case KindAddress:
		b.WriteString("0x")
		b.WriteString(hex.EncodeToString(v.addr[:]))
	case KindString:
		b.WriteString(strconv.Quote(v.str))
	case KindVector:
		b.WriteByte('[')
		formatItems(b, v.items)
		b.WriteByte(']')
	case KindOption:
		if !v.IsSome() {
			b.WriteString("none")
			return
		}
		b.WriteString("some(")
		v.items[0].format(b)
		b.WriteByte(')')
	case KindStruct:
		b.WriteByte('{')
		formatItems(b, v.items)
		b.WriteByte('}')
	case KindEnum:
		fmt.Fprintf(b, "#%d", v.num)
		if len(v.items) > 0 {
			b.WriteByte('{')
			formatItems(b, v.items)
			b.WriteByte('}')
		}
	default:
		b.WriteString("<invalid>")
	}
}

func formatItems(b *strings.Builder, items []Value) {
	for i, item := range items {
		if i > 0 {
			b.WriteString(", ")
		}
		item.format(b)
	}
}
