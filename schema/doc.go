// Package schema encodes and decodes BCS data whose layout is only known at runtime.
//
// A Type describes a layout: primitives, vector<T>, option<T>, and named structs and
// enums that may refer to themselves. Types are built in code with StructOf, EnumOf,
// VectorOf and OptionOf, or loaded from YAML definitions into a Registry:
//
//	reg, err := schema.LoadRegistry(defs)
//	coin, err := reg.Resolve("vector<Coin>")
//
// A Value is an immutable tagged union matching a Type. Encode and Decode apply the
// same wire rules as the encoding package, including canonical varints, exhaustive
// decoding and the depth limit, which also bounds recursion through self-referential
// types.
//
// Values convert to and from YAML with ParseValue, FormatValue, ValueFromNode and
// ValueToNode, and to plain Go values with ToNative.
package schema
