// Package golden loads and checks literal BCS byte vectors.
//
// A golden file is YAML with three sections:
//
//	types:
//	  Coin:
//	    struct: {id: address, balance: u64}
//	vectors:
//	  - name: some seven
//	    type: option<u64>
//	    value: 7
//	    hex: "01 0700000000000000"
//	rejects:
//	  - name: non-canonical length
//	    type: vector<u8>
//	    hex: "8000"
//	    error: NonCanonicalVarint
//
// Each vector must encode to exactly its bytes, and its bytes must decode back to the
// value and re-encode identically. Each reject must fail to decode with the named
// error kind (see errs.KindByName). Hex strings may contain whitespace and an optional
// 0x prefix.
package golden

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/arloliu/bcs/encoding"
	"github.com/arloliu/bcs/errs"
	"github.com/arloliu/bcs/schema"
)

// ErrMismatch reports a vector whose encoding or decoding disagrees with the file.
var ErrMismatch = errors.New("golden vector mismatch")

// Vector is a value together with its canonical encoding.
type Vector struct {
	Name     string
	TypeExpr string
	Type     *schema.Type
	Value    schema.Value
	Bytes    []byte
}

// Reject is an input that must fail to decode with a specific error kind.
type Reject struct {
	Name     string
	TypeExpr string
	Type     *schema.Type
	Bytes    []byte
	KindName string
	Kind     error
}

// Suite is a loaded golden file.
type Suite struct {
	Registry *schema.Registry
	Vectors  []Vector
	Rejects  []Reject
}

// Result is the outcome of checking one vector or reject. Err is nil when the check
// passed.
type Result struct {
	Name   string
	Reject bool
	Err    error
}

// Passed reports whether the check succeeded.
func (r Result) Passed() bool {
	return r.Err == nil
}

type vectorDoc struct {
	Name  string    `yaml:"name"`
	Type  string    `yaml:"type"`
	Value yaml.Node `yaml:"value"`
	Hex   string    `yaml:"hex"`
}

type rejectDoc struct {
	Name  string `yaml:"name"`
	Type  string `yaml:"type"`
	Hex   string `yaml:"hex"`
	Error string `yaml:"error"`
}

type fileDoc struct {
	Types   yaml.Node   `yaml:"types"`
	Vectors []vectorDoc `yaml:"vectors"`
	Rejects []rejectDoc `yaml:"rejects"`
}

// LoadFile reads and parses the golden file at path.
func LoadFile(path string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	suite, err := Load(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return suite, nil
}

// Load parses a golden file. Every type expression, value and hex string is resolved
// up front, so a Suite that loads without error can always be verified.
func Load(data []byte) (*Suite, error) {
	var doc fileDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse golden file: %w", err)
	}

	var typesNode *yaml.Node
	if doc.Types.Kind != 0 {
		typesNode = &doc.Types
	}

	reg, err := schema.LoadRegistryNode(typesNode)
	if err != nil {
		return nil, fmt.Errorf("types: %w", err)
	}

	suite := &Suite{
		Registry: reg,
		Vectors:  make([]Vector, 0, len(doc.Vectors)),
		Rejects:  make([]Reject, 0, len(doc.Rejects)),
	}

	for i := range doc.Vectors {
		vec, err := loadVector(reg, &doc.Vectors[i])
		if err != nil {
			return nil, fmt.Errorf("vector %d (%s): %w", i, doc.Vectors[i].Name, err)
		}
		suite.Vectors = append(suite.Vectors, vec)
	}

	for i := range doc.Rejects {
		rej, err := loadReject(reg, &doc.Rejects[i])
		if err != nil {
			return nil, fmt.Errorf("reject %d (%s): %w", i, doc.Rejects[i].Name, err)
		}
		suite.Rejects = append(suite.Rejects, rej)
	}

	return suite, nil
}

func loadVector(reg *schema.Registry, doc *vectorDoc) (Vector, error) {
	if doc.Name == "" {
		return Vector{}, errors.New("missing name")
	}

	t, err := reg.Resolve(doc.Type)
	if err != nil {
		return Vector{}, err
	}

	if doc.Value.Kind == 0 {
		return Vector{}, errors.New("missing value")
	}

	v, err := schema.ValueFromNode(&doc.Value, t)
	if err != nil {
		return Vector{}, err
	}

	raw, err := ParseHex(doc.Hex)
	if err != nil {
		return Vector{}, err
	}

	return Vector{Name: doc.Name, TypeExpr: doc.Type, Type: t, Value: v, Bytes: raw}, nil
}

func loadReject(reg *schema.Registry, doc *rejectDoc) (Reject, error) {
	if doc.Name == "" {
		return Reject{}, errors.New("missing name")
	}

	t, err := reg.Resolve(doc.Type)
	if err != nil {
		return Reject{}, err
	}

	raw, err := ParseHex(doc.Hex)
	if err != nil {
		return Reject{}, err
	}

	kind := errs.KindByName(doc.Error)
	if kind == nil {
		return Reject{}, fmt.Errorf("unknown error kind %q", doc.Error)
	}

	return Reject{Name: doc.Name, TypeExpr: doc.Type, Type: t, Bytes: raw, KindName: doc.Error, Kind: kind}, nil
}

// ParseHex decodes a hex string that may carry a 0x prefix and whitespace between
// digits.
func ParseHex(s string) ([]byte, error) {
	s = strings.Join(strings.Fields(s), "")
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")

	raw, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid hex: %w", err)
	}

	return raw, nil
}

// Verify checks every vector and reject in the suite, in file order. Decoder options
// apply to every decode.
func (s *Suite) Verify(opts ...encoding.DecoderOption) []Result {
	results := make([]Result, 0, len(s.Vectors)+len(s.Rejects))

	for i := range s.Vectors {
		results = append(results, Result{Name: s.Vectors[i].Name, Err: s.Vectors[i].Check(opts...)})
	}

	for i := range s.Rejects {
		results = append(results, Result{Name: s.Rejects[i].Name, Reject: true, Err: s.Rejects[i].Check(opts...)})
	}

	return results
}

// Check encodes the vector's value and decodes its bytes, comparing both directions.
func (v *Vector) Check(opts ...encoding.DecoderOption) error {
	encoded, err := schema.Encode(v.Value, v.Type)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}

	if string(encoded) != string(v.Bytes) {
		return fmt.Errorf("%w: encoded %x, want %x", ErrMismatch, encoded, v.Bytes)
	}

	decoded, err := schema.Decode(v.Bytes, v.Type, opts...)
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}

	if !decoded.Equal(v.Value) {
		return fmt.Errorf("%w: decoded %s, want %s", ErrMismatch, decoded, v.Value)
	}

	again, err := schema.Encode(decoded, v.Type)
	if err != nil {
		return fmt.Errorf("re-encode: %w", err)
	}

	if string(again) != string(v.Bytes) {
		return fmt.Errorf("%w: re-encoded %x, want %x", ErrMismatch, again, v.Bytes)
	}

	return nil
}

// Check decodes the reject's bytes and expects the named failure.
func (r *Reject) Check(opts ...encoding.DecoderOption) error {
	v, err := schema.Decode(r.Bytes, r.Type, opts...)
	if err == nil {
		return fmt.Errorf("%w: decoded %s, want %s", ErrMismatch, v, r.KindName)
	}

	if !errors.Is(err, r.Kind) {
		return fmt.Errorf("%w: got %w, want %s", ErrMismatch, err, r.KindName)
	}

	return nil
}

// Failures returns the results that did not pass.
func Failures(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed() {
			failed = append(failed, r)
		}
	}

	return failed
}
