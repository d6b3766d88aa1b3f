package schema

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/arloliu/bcs/errs"
)

var primitiveTypes = map[string]*Type{
	"bool":    BoolType,
	"u8":      U8Type,
	"u16":     U16Type,
	"u32":     U32Type,
	"u64":     U64Type,
	"u128":    U128Type,
	"u256":    U256Type,
	"address": AddressType,
	"string":  StringType,
}

// Registry holds named struct and enum types so that type expressions and other
// definitions can refer to them.
//
// A Registry is safe for concurrent reads once it is fully populated.
type Registry struct {
	types map[string]*Type
	order []string
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{types: make(map[string]*Type)}
}

// Register adds a named struct or enum type. The name must not collide with a
// primitive or an already registered type.
func (r *Registry) Register(t *Type) error {
	if t == nil || (t.Kind != KindStruct && t.Kind != KindEnum) {
		return fmt.Errorf("%w: only struct and enum types can be registered, got %s", errs.ErrInvalidSchema, t)
	}

	if err := r.reserve(t.Name); err != nil {
		return err
	}

	r.types[t.Name] = t
	r.order = append(r.order, t.Name)

	return nil
}

func (r *Registry) reserve(name string) error {
	if name == "" {
		return fmt.Errorf("%w: registered type has no name", errs.ErrInvalidSchema)
	}

	if _, ok := primitiveTypes[name]; ok {
		return fmt.Errorf("%w: %q is a primitive type name", errs.ErrInvalidSchema, name)
	}

	if _, ok := r.types[name]; ok {
		return fmt.Errorf("%w: type %q is already registered", errs.ErrInvalidSchema, name)
	}

	return nil
}

// Lookup returns the named type.
func (r *Registry) Lookup(name string) (*Type, bool) {
	t, ok := r.types[name]
	return t, ok
}

// Names returns the registered type names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)

	return out
}

// Resolve is shorthand for ParseType(expr, r).
func (r *Registry) Resolve(expr string) (*Type, error) {
	return ParseType(expr, r)
}

// ParseType parses a type expression such as "u64", "vector<option<address>>" or a
// registered name like "Coin". reg may be nil when no named types are needed.
func ParseType(expr string, reg *Registry) (*Type, error) {
	s := strings.TrimSpace(expr)

	if t, ok := primitiveTypes[s]; ok {
		return t, nil
	}

	for _, generic := range []struct {
		prefix string
		wrap   func(*Type) *Type
	}{
		{"vector<", VectorOf},
		{"option<", OptionOf},
	} {
		if !strings.HasPrefix(s, generic.prefix) {
			continue
		}

		if !strings.HasSuffix(s, ">") {
			return nil, fmt.Errorf("%w: unterminated type expression %q", errs.ErrInvalidSchema, expr)
		}

		inner, err := ParseType(s[len(generic.prefix):len(s)-1], reg)
		if err != nil {
			return nil, err
		}

		return generic.wrap(inner), nil
	}

	if reg != nil {
		if t, ok := reg.Lookup(s); ok {
			return t, nil
		}
	}

	return nil, fmt.Errorf("%w: unknown type %q", errs.ErrInvalidSchema, expr)
}

// LoadRegistry parses YAML type definitions into a Registry.
//
// The document is a mapping from type name to definition. Members are listed as
// mappings, so their order in the document is their order on the wire:
//
//	Coin:
//	  struct:
//	    id: address
//	    balance: u64
//	Command:
//	  enum:
//	    Transfer: {to: address, amount: u64}
//	    Burn: {}
//	    Memo: {text: string}
//
// Definitions may refer to each other, and to themselves, in any order. Every type is
// validated before the registry is returned.
func LoadRegistry(data []byte) (*Registry, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrInvalidSchema, err)
	}

	if doc.Kind == 0 {
		return NewRegistry(), nil
	}

	if doc.Kind != yaml.DocumentNode || len(doc.Content) != 1 {
		return nil, fmt.Errorf("%w: expected a single YAML document", errs.ErrInvalidSchema)
	}

	return LoadRegistryNode(doc.Content[0])
}

// LoadRegistryNode builds a Registry from an already parsed YAML mapping node. See
// LoadRegistry for the layout.
func LoadRegistryNode(node *yaml.Node) (*Registry, error) {
	r := NewRegistry()

	if node == nil || (node.Kind == yaml.ScalarNode && node.Tag == "!!null") {
		return r, nil
	}

	if node.Kind != yaml.MappingNode {
		return nil, nodeError(node, "type definitions must be a mapping")
	}

	// First pass declares every name so definitions can refer forward.
	bodies := make([]*yaml.Node, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		nameNode, def := node.Content[i], node.Content[i+1]

		kind, body, err := definitionKind(def)
		if err != nil {
			return nil, err
		}

		if err := r.Register(&Type{Kind: kind, Name: nameNode.Value}); err != nil {
			return nil, fmt.Errorf("line %d: %w", nameNode.Line, err)
		}
		bodies = append(bodies, body)
	}

	for i, name := range r.order {
		t := r.types[name]

		var err error
		switch t.Kind {
		case KindStruct:
			t.Fields, err = r.parseFields(bodies[i])
		case KindEnum:
			t.Variants, err = r.parseVariants(bodies[i])
		}
		if err != nil {
			return nil, fmt.Errorf("type %s: %w", name, err)
		}
	}

	for _, name := range r.order {
		if err := r.types[name].Validate(); err != nil {
			return nil, err
		}
	}

	return r, nil
}

func definitionKind(def *yaml.Node) (Kind, *yaml.Node, error) {
	if def.Kind != yaml.MappingNode || len(def.Content) != 2 {
		return KindInvalid, nil, nodeError(def, "definition must be a single 'struct' or 'enum' key")
	}

	switch def.Content[0].Value {
	case "struct":
		return KindStruct, def.Content[1], nil
	case "enum":
		return KindEnum, def.Content[1], nil
	default:
		return KindInvalid, nil, nodeError(def.Content[0], "unknown definition kind %q", def.Content[0].Value)
	}
}

func (r *Registry) parseFields(node *yaml.Node) ([]Field, error) {
	if isEmptyNode(node) {
		return nil, nil
	}

	if node.Kind != yaml.MappingNode {
		return nil, nodeError(node, "fields must be a mapping of name to type")
	}

	fields := make([]Field, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		nameNode, typeNode := node.Content[i], node.Content[i+1]
		if typeNode.Kind != yaml.ScalarNode {
			return nil, nodeError(typeNode, "field %q: type must be a type expression", nameNode.Value)
		}

		t, err := ParseType(typeNode.Value, r)
		if err != nil {
			return nil, fmt.Errorf("line %d: field %q: %w", typeNode.Line, nameNode.Value, err)
		}

		fields = append(fields, Field{Name: nameNode.Value, Type: t})
	}

	return fields, nil
}

func (r *Registry) parseVariants(node *yaml.Node) ([]Variant, error) {
	if node.Kind != yaml.MappingNode {
		return nil, nodeError(node, "variants must be a mapping of name to fields")
	}

	variants := make([]Variant, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		fields, err := r.parseFields(node.Content[i+1])
		if err != nil {
			return nil, fmt.Errorf("variant %s: %w", node.Content[i].Value, err)
		}

		variants = append(variants, Variant{Name: node.Content[i].Value, Fields: fields})
	}

	return variants, nil
}

func isEmptyNode(node *yaml.Node) bool {
	switch node.Kind {
	case yaml.ScalarNode:
		return node.Tag == "!!null"
	case yaml.MappingNode, yaml.SequenceNode:
		return len(node.Content) == 0
	default:
		return false
	}
}

func nodeError(node *yaml.Node, format string, args ...any) error {
	return fmt.Errorf("%w: line %d: %s", errs.ErrInvalidSchema, node.Line, fmt.Sprintf(format, args...))
}
