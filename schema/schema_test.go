package schema

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/bcs/encoding"
	"github.com/arloliu/bcs/errs"
)

const testTypesYAML = `
Tx:
  struct:
    sender: address
    coins: vector<Coin>
    commands: vector<Command>
    gas_budget: option<u64>
    sponsored: bool
Coin:
  struct:
    id: address
    balance: u64
Command:
  enum:
    Transfer: {to: address, amount: u64}
    Burn: {}
    Memo: {text: string}
Node:
  struct:
    value: u8
    children: vector<Node>
`

const testTxYAML = `
sender: "0xa11ce"
coins:
  - {id: "0x1", balance: 100}
  - {id: "0x2", balance: 250}
commands:
  - Transfer: {to: "0xb0b", amount: 300}
  - Burn
  - Memo: {text: rent}
gas_budget: 2000000
sponsored: true
`

func testRegistry(t *testing.T) *Registry {
	t.Helper()

	reg, err := LoadRegistry([]byte(testTypesYAML))
	require.NoError(t, err)

	return reg
}

func mustType(t *testing.T, reg *Registry, expr string) *Type {
	t.Helper()

	typ, err := ParseType(expr, reg)
	require.NoError(t, err)

	return typ
}

func coinValue(id string, balance uint64) Value {
	return Struct(Address(encoding.MustParseAddress(id)), U64(balance))
}

func requireDecodeError(t *testing.T, err error, kind error, offset int) {
	t.Helper()

	require.ErrorIs(t, err, kind)

	var de *errs.DecodeError
	require.True(t, errors.As(err, &de), "expected *errs.DecodeError, got %T", err)
	require.Equal(t, offset, de.Offset)
}

func requireValueEqual(t *testing.T, expected, actual Value) {
	t.Helper()
	require.True(t, expected.Equal(actual), "expected %s, got %s", expected, actual)
}
