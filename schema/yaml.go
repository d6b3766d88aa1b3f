package schema

import (
	"encoding/hex"
	"errors"
	"fmt"
	"maps"
	"math/big"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/arloliu/bcs/encoding"
	"github.com/arloliu/bcs/errs"
)

// ParseValue parses a YAML document into a value of t. See ValueFromNode for the
// accepted forms.
func ParseValue(data []byte, t *Type) (Value, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Value{}, fmt.Errorf("%w: %w", errs.ErrSchemaMismatch, err)
	}

	if doc.Kind != yaml.DocumentNode || len(doc.Content) != 1 {
		return Value{}, fmt.Errorf("%w: expected a single YAML document", errs.ErrSchemaMismatch)
	}

	return ValueFromNode(doc.Content[0], t)
}

// FormatValue renders v, typed by t, as a YAML document.
func FormatValue(v Value, t *Type) ([]byte, error) {
	node, err := ValueToNode(v, t)
	if err != nil {
		return nil, err
	}

	return yaml.Marshal(node)
}

// ValueFromNode converts a YAML node into a value of t.
//
// Integers are YAML integers; u128 and u256 may also be quoted decimal strings.
// Addresses are hex strings. A vector<u8> may be written as a "0x" hex string or a
// sequence. An absent option is null. Structs are mappings that name every field. An
// enum is either the bare name of a variant without fields or a single-key mapping
// from the variant name to its fields.
func ValueFromNode(node *yaml.Node, t *Type) (Value, error) {
	return fromNode(node, t, t.String())
}

func nodeMismatch(node *yaml.Node, path string, format string, args ...any) error {
	return fmt.Errorf("%w: line %d: %s: %s", errs.ErrSchemaMismatch, node.Line, path, fmt.Sprintf(format, args...))
}

func fromNode(node *yaml.Node, t *Type, path string) (Value, error) {
	if t == nil {
		return Value{}, fmt.Errorf("%w: %s: missing type", errs.ErrInvalidSchema, path)
	}

	if node.Kind == yaml.AliasNode {
		node = node.Alias
	}

	switch t.Kind {
	case KindBool:
		var b bool
		if node.Kind != yaml.ScalarNode || node.Decode(&b) != nil {
			return Value{}, nodeMismatch(node, path, "expected bool, got %q", node.Value)
		}

		return Bool(b), nil
	case KindU8, KindU16, KindU32, KindU64:
		n, err := parseUint(node, path, t.Kind)
		if err != nil {
			return Value{}, err
		}

		return Value{kind: t.Kind, num: n}, nil
	case KindU128:
		b, err := parseBig(node, path)
		if err != nil {
			return Value{}, err
		}

		n, err := encoding.U128FromBig(b)
		if err != nil {
			return Value{}, fmt.Errorf("line %d: %s: %w", node.Line, path, err)
		}

		return U128(n), nil
	case KindU256:
		b, err := parseBig(node, path)
		if err != nil {
			return Value{}, err
		}

		n, err := encoding.U256FromBig(b)
		if err != nil {
			return Value{}, fmt.Errorf("line %d: %s: %w", node.Line, path, err)
		}

		return U256(n), nil
	case KindAddress:
		if node.Kind != yaml.ScalarNode {
			return Value{}, nodeMismatch(node, path, "expected address")
		}

		a, err := encoding.ParseAddress(node.Value)
		if err != nil {
			return Value{}, nodeMismatch(node, path, "%v", err)
		}

		return Address(a), nil
	case KindString:
		if node.Kind != yaml.ScalarNode {
			return Value{}, nodeMismatch(node, path, "expected string")
		}

		return String(node.Value), nil
	case KindVector:
		return vectorFromNode(node, t, path)
	case KindOption:
		if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
			return None(), nil
		}

		inner, err := fromNode(node, t.Elem, path+"?")
		if err != nil {
			return Value{}, err
		}

		return Some(inner), nil
	case KindStruct:
		items, err := fieldsFromNode(node, t.Fields, path)
		if err != nil {
			return Value{}, err
		}

		return Value{kind: KindStruct, items: items}, nil
	case KindEnum:
		return enumFromNode(node, t, path)
	default:
		return Value{}, fmt.Errorf("%w: %s: unknown kind %s", errs.ErrInvalidSchema, path, t.Kind)
	}
}

func parseUint(node *yaml.Node, path string, kind Kind) (uint64, error) {
	if node.Kind != yaml.ScalarNode {
		return 0, nodeMismatch(node, path, "expected %s", kind)
	}

	bits := map[Kind]int{KindU8: 8, KindU16: 16, KindU32: 32, KindU64: 64}[kind]

	n, err := strconv.ParseUint(strings.ReplaceAll(node.Value, "_", ""), 0, bits)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return 0, fmt.Errorf("%w: line %d: %s: %s does not fit in %s", errs.ErrIntegerOutOfRange, node.Line, path, node.Value, kind)
		}

		return 0, nodeMismatch(node, path, "expected %s, got %q", kind, node.Value)
	}

	return n, nil
}

func parseBig(node *yaml.Node, path string) (*big.Int, error) {
	if node.Kind != yaml.ScalarNode {
		return nil, nodeMismatch(node, path, "expected integer")
	}

	b, ok := new(big.Int).SetString(node.Value, 0)
	if !ok {
		return nil, nodeMismatch(node, path, "expected integer, got %q", node.Value)
	}

	return b, nil
}

func vectorFromNode(node *yaml.Node, t *Type, path string) (Value, error) {
	if t.Elem != nil && t.Elem.Kind == KindU8 && node.Kind == yaml.ScalarNode && node.Tag != "!!null" {
		s := node.Value
		if !strings.HasPrefix(s, "0x") {
			return Value{}, nodeMismatch(node, path, "byte vectors must be a sequence or a 0x hex string")
		}

		b, err := hex.DecodeString(s[2:])
		if err != nil {
			return Value{}, nodeMismatch(node, path, "invalid hex: %v", err)
		}

		return Bytes(b), nil
	}

	if node.Kind != yaml.SequenceNode {
		return Value{}, nodeMismatch(node, path, "expected sequence for %s", t)
	}

	if len(node.Content) == 0 {
		return Vector(), nil
	}

	items := make([]Value, len(node.Content))
	for i, child := range node.Content {
		var err error
		if items[i], err = fromNode(child, t.Elem, fmt.Sprintf("%s[%d]", path, i)); err != nil {
			return Value{}, err
		}
	}

	return Value{kind: KindVector, items: items}, nil
}

func fieldsFromNode(node *yaml.Node, fields []Field, path string) ([]Value, error) {
	if len(fields) == 0 {
		if !isEmptyNode(node) {
			return nil, nodeMismatch(node, path, "expected no fields")
		}

		return nil, nil
	}

	if node.Kind != yaml.MappingNode {
		return nil, nodeMismatch(node, path, "expected mapping")
	}

	byName := make(map[string]*yaml.Node, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		byName[node.Content[i].Value] = node.Content[i+1]
	}

	items := make([]Value, len(fields))
	for i, f := range fields {
		child, ok := byName[f.Name]
		if !ok {
			return nil, nodeMismatch(node, path, "missing field %q", f.Name)
		}
		delete(byName, f.Name)

		var err error
		if items[i], err = fromNode(child, f.Type, path+"."+f.Name); err != nil {
			return nil, err
		}
	}

	if len(byName) > 0 {
		return nil, nodeMismatch(node, path, "unknown field %q", slices.Sorted(maps.Keys(byName))[0])
	}

	return items, nil
}

func enumFromNode(node *yaml.Node, t *Type, path string) (Value, error) {
	var name string
	var payload *yaml.Node

	switch {
	case node.Kind == yaml.ScalarNode:
		name = node.Value
	case node.Kind == yaml.MappingNode && len(node.Content) == 2:
		name, payload = node.Content[0].Value, node.Content[1]
	default:
		return Value{}, nodeMismatch(node, path, "expected variant name or single-key mapping")
	}

	idx, ok := t.VariantIndex(name)
	if !ok {
		return Value{}, nodeMismatch(node, path, "unknown variant %q of %s", name, t)
	}

	variant := t.Variants[idx]
	if payload == nil {
		if len(variant.Fields) > 0 {
			return Value{}, nodeMismatch(node, path, "variant %s needs fields", name)
		}

		return EnumValue(uint32(idx)), nil //nolint:gosec
	}

	items, err := fieldsFromNode(payload, variant.Fields, path+"::"+name)
	if err != nil {
		return Value{}, err
	}

	return Value{kind: KindEnum, num: uint64(idx), items: items}, nil
}

// ValueToNode renders v, typed by t, as a YAML node in the form ValueFromNode
// accepts.
func ValueToNode(v Value, t *Type) (*yaml.Node, error) {
	return toNode(v, t, t.String())
}

func scalar(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}

func toNode(v Value, t *Type, path string) (*yaml.Node, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: %s: missing type", errs.ErrInvalidSchema, path)
	}

	if v.kind != t.Kind {
		return nil, mismatch(path, "expected %s, got %s", t, v.kind)
	}

	switch t.Kind {
	case KindBool:
		return scalar("!!bool", strconv.FormatBool(v.AsBool())), nil
	case KindU8, KindU16, KindU32, KindU64:
		return scalar("!!int", strconv.FormatUint(v.num, 10)), nil
	case KindU128:
		return scalar("!!int", v.AsU128().String()), nil
	case KindU256:
		return scalar("!!int", v.wide.String()), nil
	case KindAddress:
		return scalar("!!str", v.addr.String()), nil
	case KindString:
		return scalar("!!str", v.str), nil
	case KindVector:
		if t.Elem != nil && t.Elem.Kind == KindU8 {
			if b, ok := v.AsBytes(); ok {
				return scalar("!!str", "0x"+hex.EncodeToString(b)), nil
			}
		}

		seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for i, item := range v.items {
			child, err := toNode(item, t.Elem, fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return nil, err
			}
			seq.Content = append(seq.Content, child)
		}

		return seq, nil
	case KindOption:
		if !v.IsSome() {
			return scalar("!!null", "null"), nil
		}

		return toNode(v.items[0], t.Elem, path+"?")
	case KindStruct:
		return fieldsToNode(v.items, t.Fields, path)
	case KindEnum:
		if v.num >= uint64(len(t.Variants)) {
			return nil, mismatch(path, "variant index %d, type has %d variants", v.num, len(t.Variants))
		}

		variant := t.Variants[v.num]
		if len(variant.Fields) == 0 {
			if len(v.items) != 0 {
				return nil, mismatch(path, "variant %s has no fields, got %d", variant.Name, len(v.items))
			}

			return scalar("!!str", variant.Name), nil
		}

		payload, err := fieldsToNode(v.items, variant.Fields, path+"::"+variant.Name)
		if err != nil {
			return nil, err
		}

		return &yaml.Node{
			Kind:    yaml.MappingNode,
			Tag:     "!!map",
			Content: []*yaml.Node{scalar("!!str", variant.Name), payload},
		}, nil
	default:
		return nil, fmt.Errorf("%w: %s: unknown kind %s", errs.ErrInvalidSchema, path, t.Kind)
	}
}

func fieldsToNode(items []Value, fields []Field, path string) (*yaml.Node, error) {
	if len(items) != len(fields) {
		return nil, mismatch(path, "expected %d fields, got %d", len(fields), len(items))
	}

	m := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for i, f := range fields {
		child, err := toNode(items[i], f.Type, path+"."+f.Name)
		if err != nil {
			return nil, err
		}
		m.Content = append(m.Content, scalar("!!str", f.Name), child)
	}

	return m, nil
}
