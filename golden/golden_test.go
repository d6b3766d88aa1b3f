package golden

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/bcs/encoding"
	"github.com/arloliu/bcs/errs"
	"github.com/arloliu/bcs/schema"
)

var goldenPath = filepath.Join("..", "testdata", "golden.yaml")

func TestLoadFile_VerifiesAll(t *testing.T) {
	suite, err := LoadFile(goldenPath)
	require.NoError(t, err)
	require.NotEmpty(t, suite.Vectors)
	require.NotEmpty(t, suite.Rejects)

	results := suite.Verify()
	require.Len(t, results, len(suite.Vectors)+len(suite.Rejects))

	for _, r := range results {
		require.NoError(t, r.Err, r.Name)
	}
	require.Empty(t, Failures(results))
}

func TestLoadFile_RequiredVectors(t *testing.T) {
	suite, err := LoadFile(goldenPath)
	require.NoError(t, err)

	byName := make(map[string]Vector, len(suite.Vectors))
	for _, v := range suite.Vectors {
		byName[v.Name] = v
	}

	require.Equal(t, []byte{0x00}, byName["zero u8"].Bytes)
	require.Equal(t, []byte{0x01}, byName["bool true"].Bytes)
	require.Equal(t, []byte{0x00}, byName["empty byte vector"].Bytes)
	require.Equal(t, []byte{0x03, 0x01, 0x02, 0x03}, byName["byte vector"].Bytes)
	require.Equal(t, []byte{0x00}, byName["option none"].Bytes)
	require.Equal(t, []byte{0x01, 0x07, 0, 0, 0, 0, 0, 0, 0}, byName["option some"].Bytes)
	require.Len(t, byName["transaction"].Bytes, 172)

	rejects := make(map[string]Reject, len(suite.Rejects))
	for _, r := range suite.Rejects {
		rejects[r.Name] = r
	}

	require.Equal(t, []byte{0x80, 0x00}, rejects["non-canonical vector length"].Bytes)
	require.Equal(t, errs.ErrNonCanonicalVarint, rejects["non-canonical vector length"].Kind)
	require.Equal(t, []byte{0x01, 0xFF}, rejects["trailing byte after bool"].Bytes)
	require.Equal(t, errs.ErrTrailingBytes, rejects["trailing byte after bool"].Kind)
}

func TestVerify_DetectsMismatch(t *testing.T) {
	suite, err := Load([]byte(`
vectors:
  - name: wrong bytes
    type: u16
    value: 1
    hex: "0100 00"
  - name: wrong value
    type: bool
    value: true
    hex: "00"
rejects:
  - name: actually valid
    type: bool
    hex: "01"
    error: InvalidBoolTag
  - name: wrong kind
    type: bool
    hex: "02"
    error: TrailingBytes
`))
	require.NoError(t, err)

	results := suite.Verify()
	require.Len(t, results, 4)

	for _, r := range results {
		require.False(t, r.Passed(), r.Name)
		require.ErrorIs(t, r.Err, ErrMismatch, r.Name)
	}
	require.Len(t, Failures(results), 4)

	require.False(t, results[0].Reject)
	require.True(t, results[2].Reject)
	require.ErrorIs(t, results[3].Err, errs.ErrInvalidBoolTag)
}

func TestVerify_DecoderOptions(t *testing.T) {
	suite, err := Load([]byte(`
types:
  Node:
    struct:
      value: u8
      children: vector<Node>
vectors:
  - name: depth two
    type: Node
    value: {value: 1, children: [{value: 2, children: []}]}
    hex: "01 01 02 00"
`))
	require.NoError(t, err)

	require.Empty(t, Failures(suite.Verify()))

	results := suite.Verify(encoding.WithMaxDepth(1))
	require.ErrorIs(t, results[0].Err, errs.ErrDepthLimitExceeded)
}

func TestLoad_Errors(t *testing.T) {
	cases := []struct {
		name string
		doc  string
	}{
		{"not yaml", "vectors: [\n"},
		{"bad types", "types: {A: {union: {}}}"},
		{"unknown type", "vectors: [{name: a, type: Missing, value: 1, hex: '00'}]"},
		{"missing value", "vectors: [{name: a, type: u8, hex: '00'}]"},
		{"missing name", "vectors: [{type: u8, value: 1, hex: '01'}]"},
		{"bad value", "vectors: [{name: a, type: u8, value: 300, hex: '00'}]"},
		{"bad hex", "vectors: [{name: a, type: u8, value: 1, hex: 'zz'}]"},
		{"odd hex", "rejects: [{name: a, type: u8, hex: '0', error: TruncatedInput}]"},
		{"unknown error kind", "rejects: [{name: a, type: u8, hex: '', error: Oops}]"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load([]byte(tc.doc))
			require.Error(t, err)
		})
	}

	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestLoad_Empty(t *testing.T) {
	suite, err := Load(nil)
	require.NoError(t, err)
	require.Empty(t, suite.Verify())
	require.Empty(t, suite.Registry.Names())
}

func TestParseHex(t *testing.T) {
	raw, err := ParseHex("0x01 02\n\t0A")
	require.NoError(t, err)
	require.Equal(t, []byte{0x01, 0x02, 0x0A}, raw)

	raw, err = ParseHex("")
	require.NoError(t, err)
	require.Empty(t, raw)
}

func TestVector_CheckWithRegistryTypes(t *testing.T) {
	suite, err := LoadFile(goldenPath)
	require.NoError(t, err)

	tx, ok := suite.Registry.Lookup("Tx")
	require.True(t, ok)

	for _, v := range suite.Vectors {
		if v.Name != "transaction" {
			continue
		}

		require.Same(t, tx, v.Type)
		encoded, err := schema.Encode(v.Value, tx)
		require.NoError(t, err)
		require.Equal(t, v.Bytes, encoded)
	}
}
