package schema

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/bcs/encoding"
	"github.com/arloliu/bcs/errs"
)

func TestEncode_Primitives(t *testing.T) {
	cases := []struct {
		name     string
		value    Value
		typ      *Type
		expected []byte
	}{
		{"bool", Bool(true), BoolType, []byte{0x01}},
		{"u8", U8(0xab), U8Type, []byte{0xab}},
		{"u16", U16(0x1234), U16Type, []byte{0x34, 0x12}},
		{"u32", U32(0x12345678), U32Type, []byte{0x78, 0x56, 0x34, 0x12}},
		{"u64", U64(1), U64Type, []byte{0x01, 0, 0, 0, 0, 0, 0, 0}},
		{"string", String("abc"), StringType, []byte{0x03, 'a', 'b', 'c'}},
		{"bytes", Bytes([]byte{0xde, 0xad}), VectorOf(U8Type), []byte{0x02, 0xde, 0xad}},
		{"none", None(), OptionOf(U8Type), []byte{0x00}},
		{"some", Some(U8(7)), OptionOf(U8Type), []byte{0x01, 0x07}},
		{"empty vector", Vector(), VectorOf(U64Type), []byte{0x00}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			data, err := Encode(tc.value, tc.typ)
			require.NoError(t, err)
			require.Equal(t, tc.expected, data)

			decoded, err := Decode(data, tc.typ)
			require.NoError(t, err)
			requireValueEqual(t, tc.value, decoded)
		})
	}
}

func TestEncode_WideIntegers(t *testing.T) {
	u128, err := encoding.ParseU128("340282366920938463463374607431768211455")
	require.NoError(t, err)

	data, err := Encode(U128(u128), U128Type)
	require.NoError(t, err)
	require.Equal(t, bytes.Repeat([]byte{0xff}, 16), data)

	data, err = Encode(U256(encoding.U256From64(1)), U256Type)
	require.NoError(t, err)
	require.Len(t, data, 32)
	require.Equal(t, byte(0x01), data[0])
}

func TestEncode_StructAndEnum(t *testing.T) {
	reg := testRegistry(t)

	data, err := Encode(coinValue("0x2", 7), mustType(t, reg, "Coin"))
	require.NoError(t, err)

	expected := make([]byte, 40)
	expected[31] = 0x02
	expected[32] = 0x07
	require.Equal(t, expected, data)

	cmd := mustType(t, reg, "Command")

	data, err = Encode(EnumValue(1), cmd)
	require.NoError(t, err)
	require.Equal(t, []byte{0x01}, data)

	data, err = Encode(EnumValue(2, String("hi")), cmd)
	require.NoError(t, err)
	require.Equal(t, []byte{0x02, 0x02, 'h', 'i'}, data)
}

func TestEncode_Mismatch(t *testing.T) {
	reg := testRegistry(t)
	coin := mustType(t, reg, "Coin")

	cases := map[string]struct {
		value    Value
		typ      *Type
		contains string
	}{
		"wrong kind":          {U64(1), U32Type, "expected u32, got u64"},
		"missing field":       {Struct(Address(encoding.Address{})), coin, "expected 2 fields, got 1"},
		"wrong field kind":    {Struct(Address(encoding.Address{}), U32(1)), coin, "Coin.balance"},
		"bad element":         {Vector(U8(1), U16(2)), VectorOf(U8Type), "vector<u8>[1]"},
		"variant range":       {EnumValue(3), mustType(t, reg, "Command"), "variant index 3"},
		"variant payload":     {EnumValue(0), mustType(t, reg, "Command"), "Command::Transfer"},
		"option payload kind": {Some(U8(1)), OptionOf(BoolType), "option<bool>?"},
		"zero value":          {Value{}, BoolType, "got invalid"},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Encode(tc.value, tc.typ)
			require.ErrorIs(t, err, errs.ErrSchemaMismatch)
			require.Contains(t, err.Error(), tc.contains)
		})
	}
}

func TestEncode_InvalidUTF8(t *testing.T) {
	_, err := Encode(String("\xff"), StringType)
	require.ErrorIs(t, err, errs.ErrInvalidUTF8)
}

func TestDecode_TxRoundTrip(t *testing.T) {
	reg := testRegistry(t)
	tx := mustType(t, reg, "Tx")

	v, err := ParseValue([]byte(testTxYAML), tx)
	require.NoError(t, err)

	data, err := Encode(v, tx)
	require.NoError(t, err)
	require.Len(t, data, 172)

	decoded, err := Decode(data, tx)
	require.NoError(t, err)
	requireValueEqual(t, v, decoded)

	again, err := Encode(decoded, tx)
	require.NoError(t, err)
	require.Equal(t, data, again)
}

func TestDecode_Errors(t *testing.T) {
	reg := testRegistry(t)

	cases := []struct {
		name   string
		typ    *Type
		data   []byte
		kind   error
		offset int
	}{
		{"trailing", BoolType, []byte{0x01, 0xff}, errs.ErrTrailingBytes, 1},
		{"bad bool", BoolType, []byte{0x02}, errs.ErrInvalidBoolTag, 0},
		{"bad option", OptionOf(U8Type), []byte{0x02}, errs.ErrInvalidOptionTag, 0},
		{"unknown variant", mustType(t, reg, "Command"), []byte{0x03}, errs.ErrUnknownVariantIndex, 0},
		{"non-canonical length", VectorOf(U8Type), []byte{0x80, 0x00}, errs.ErrNonCanonicalVarint, 0},
		{"short struct", mustType(t, reg, "Coin"), make([]byte, 39), errs.ErrTruncatedInput, 32},
		{"impossible length", VectorOf(U64Type), append([]byte{0x02}, make([]byte, 8)...), errs.ErrTruncatedInput, 0},
		{"empty input", U8Type, nil, errs.ErrTruncatedInput, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode(tc.data, tc.typ)
			requireDecodeError(t, err, tc.kind, tc.offset)
		})
	}
}

func TestDecode_LengthLimit(t *testing.T) {
	data, err := Encode(Bytes(make([]byte, 10)), VectorOf(U8Type))
	require.NoError(t, err)

	_, err = Decode(data, VectorOf(U8Type), encoding.WithMaxSequenceLength(9))
	requireDecodeError(t, err, errs.ErrLengthLimitExceeded, 0)

	_, err = Decode(data, VectorOf(U8Type), encoding.WithMaxSequenceLength(10))
	require.NoError(t, err)
}

// nodeChain encodes a chain of n Nodes, each the only child of the previous one.
func nodeChain(n int) []byte {
	var data []byte
	for range n - 1 {
		data = append(data, 0x07, 0x01)
	}

	return append(data, 0x07, 0x00)
}

func TestDecode_RecursiveDepth(t *testing.T) {
	reg := testRegistry(t)
	node := mustType(t, reg, "Node")

	v, err := Decode(nodeChain(3), node, encoding.WithMaxDepth(3))
	require.NoError(t, err)
	require.Equal(t, 1, v.Index(1).Len())

	_, err = Decode(nodeChain(4), node, encoding.WithMaxDepth(3))
	requireDecodeError(t, err, errs.ErrDepthLimitExceeded, 6)

	_, err = Decode(nodeChain(encoding.DefaultMaxDepth+1), node)
	require.ErrorIs(t, err, errs.ErrDepthLimitExceeded)
}

// nodeValue builds a chain of n Nodes matching nodeChain(n).
func nodeValue(n int) Value {
	v := Struct(U8(7), Vector())
	for range n - 1 {
		v = Struct(U8(7), Vector(v))
	}

	return v
}

func TestEncode_RecursiveDepth(t *testing.T) {
	reg := testRegistry(t)
	node := mustType(t, reg, "Node")

	data, err := Encode(nodeValue(encoding.DefaultMaxDepth), node)
	require.NoError(t, err)
	require.Equal(t, nodeChain(encoding.DefaultMaxDepth), data)

	_, err = Decode(data, node)
	require.NoError(t, err)

	_, err = Encode(nodeValue(encoding.DefaultMaxDepth+1), node)
	require.ErrorIs(t, err, errs.ErrDepthLimitExceeded)
	require.NotErrorIs(t, err, errs.ErrSchemaMismatch)
}

func TestEncodeDecode_InvalidType(t *testing.T) {
	empty := &Type{Kind: KindStruct, Name: "Empty"}
	cases := map[string]*Type{
		"nil type":             nil,
		"nested empty struct":  VectorOf(empty),
		"option without elem":  {Kind: KindOption},
		"enum without variant": {Kind: KindEnum, Name: "Never"},
	}

	for name, typ := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Encode(Vector(), typ)
			require.ErrorIs(t, err, errs.ErrInvalidSchema)

			_, err = Decode([]byte{0x01, 0x00}, typ)
			require.ErrorIs(t, err, errs.ErrInvalidSchema)

			_, err = DecodeFrom(encoding.NewDecoder([]byte{0x01}), typ)
			require.ErrorIs(t, err, errs.ErrInvalidSchema)
		})
	}
}

func TestDecode_TruncationSensitivity(t *testing.T) {
	reg := testRegistry(t)
	tx := mustType(t, reg, "Tx")

	v, err := ParseValue([]byte(testTxYAML), tx)
	require.NoError(t, err)

	data, err := Encode(v, tx)
	require.NoError(t, err)

	for cut := range len(data) {
		_, err := Decode(data[:cut], tx)
		require.ErrorIs(t, err, errs.ErrTruncatedInput, "prefix of %d bytes", cut)
	}
}

func TestDecodeFrom_LeavesTrailingInput(t *testing.T) {
	d := encoding.NewDecoder([]byte{0x01, 0x02})

	v, err := DecodeFrom(d, U8Type)
	require.NoError(t, err)
	require.Equal(t, uint64(1), v.AsUint64())
	require.Equal(t, 1, d.Remaining())
}

func TestEncodeTo_Appends(t *testing.T) {
	e := encoding.NewEncoder()
	defer e.Release()

	e.WriteU8(0xaa)
	require.NoError(t, EncodeTo(e, U16(1), U16Type))
	require.Equal(t, []byte{0xaa, 0x01, 0x00}, e.Bytes())
}
