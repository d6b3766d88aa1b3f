package encoding

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/bcs/errs"
)

type coin struct {
	ID      Address
	Balance uint64
}

func (c coin) MarshalBCS(e *Encoder) error {
	e.WriteAddress(c.ID)
	e.WriteU64(c.Balance)

	return nil
}

func (c *coin) UnmarshalBCS(d *Decoder) (err error) {
	if c.ID, err = d.PeelAddress(); err != nil {
		return err
	}
	c.Balance, err = d.PeelU64()

	return err
}

// Variant indexes of command. New variants are appended.
const (
	commandTransfer uint32 = iota
	commandBurn
	commandMemo
	commandCount
)

type command struct {
	Variant uint32
	To      Address // transfer
	Amount  uint64  // transfer
	Memo    string  // memo
}

func (c command) MarshalBCS(e *Encoder) error {
	e.WriteVariantIndex(c.Variant)

	switch c.Variant {
	case commandTransfer:
		e.WriteAddress(c.To)
		e.WriteU64(c.Amount)
	case commandBurn:
	case commandMemo:
		return e.WriteString(c.Memo)
	}

	return nil
}

func (c *command) UnmarshalBCS(d *Decoder) (err error) {
	if c.Variant, err = d.PeelVariantIndex(int(commandCount)); err != nil {
		return err
	}

	switch c.Variant {
	case commandTransfer:
		if c.To, err = d.PeelAddress(); err != nil {
			return err
		}
		c.Amount, err = d.PeelU64()
	case commandMemo:
		c.Memo, err = d.PeelString()
	}

	return err
}

type transferTx struct {
	Sender    Address
	Coins     []coin
	Commands  []command
	GasBudget *uint64
	Sponsored bool
}

func (tx *transferTx) MarshalBCS(e *Encoder) error {
	e.WriteAddress(tx.Sender)

	if err := EncodeVector(e, tx.Coins, func(e *Encoder, c coin) error { return c.MarshalBCS(e) }); err != nil {
		return err
	}

	if err := EncodeVector(e, tx.Commands, func(e *Encoder, c command) error { return c.MarshalBCS(e) }); err != nil {
		return err
	}

	if err := EncodeOption(e, tx.GasBudget, func(e *Encoder, v uint64) error { e.WriteU64(v); return nil }); err != nil {
		return err
	}

	e.WriteBool(tx.Sponsored)

	return nil
}

func (tx *transferTx) UnmarshalBCS(d *Decoder) (err error) {
	if tx.Sender, err = d.PeelAddress(); err != nil {
		return err
	}

	tx.Coins, err = PeelVector(d, func(d *Decoder) (c coin, err error) {
		err = PeelNested(d, &c)
		return c, err
	})
	if err != nil {
		return err
	}

	tx.Commands, err = PeelVector(d, func(d *Decoder) (c command, err error) {
		err = PeelNested(d, &c)
		return c, err
	})
	if err != nil {
		return err
	}

	if tx.GasBudget, err = PeelOption(d, (*Decoder).PeelU64); err != nil {
		return err
	}

	tx.Sponsored, err = d.PeelBool()

	return err
}

func sampleTx() *transferTx {
	budget := uint64(2_000_000)

	return &transferTx{
		Sender: MustParseAddress("0xa11ce"),
		Coins: []coin{
			{ID: MustParseAddress("0x1"), Balance: 100},
			{ID: MustParseAddress("0x2"), Balance: 250},
		},
		Commands: []command{
			{Variant: commandTransfer, To: MustParseAddress("0xb0b"), Amount: 300},
			{Variant: commandBurn},
			{Variant: commandMemo, Memo: "rent"},
		},
		GasBudget: &budget,
		Sponsored: true,
	}
}

func TestMarshal_CoinLayout(t *testing.T) {
	data, err := Marshal(coin{ID: MustParseAddress("0x2"), Balance: 7})
	require.NoError(t, err)

	expected := make([]byte, 40)
	expected[31] = 0x02
	expected[32] = 0x07
	require.Equal(t, expected, data)
}

func TestMarshalUnmarshal_RoundTrip(t *testing.T) {
	tx := sampleTx()

	data, err := Marshal(tx)
	require.NoError(t, err)

	var decoded transferTx
	require.NoError(t, Unmarshal(data, &decoded))
	require.Equal(t, tx, &decoded)

	again, err := Marshal(&decoded)
	require.NoError(t, err)
	require.Equal(t, data, again)
}

func TestMarshal_VariantLayout(t *testing.T) {
	data, err := Marshal(command{Variant: commandBurn})
	require.NoError(t, err)
	require.Equal(t, []byte{0x01}, data)

	data, err = Marshal(command{Variant: commandMemo, Memo: "hi"})
	require.NoError(t, err)
	require.Equal(t, []byte{0x02, 0x02, 'h', 'i'}, data)
}

func TestUnmarshal_UnknownVariant(t *testing.T) {
	var c command
	err := Unmarshal([]byte{0x03}, &c)
	requireDecodeError(t, err, errs.ErrUnknownVariantIndex, 0)
}

func TestUnmarshal_NoneOption(t *testing.T) {
	tx := sampleTx()
	tx.GasBudget = nil

	data, err := Marshal(tx)
	require.NoError(t, err)

	var decoded transferTx
	require.NoError(t, Unmarshal(data, &decoded))
	require.Nil(t, decoded.GasBudget)
}

// shortCoin peels one field fewer than coin encodes.
type shortCoin struct{ ID Address }

func (c *shortCoin) UnmarshalBCS(d *Decoder) (err error) {
	c.ID, err = d.PeelAddress()
	return err
}

// longCoin peels one field more than coin encodes.
type longCoin struct {
	coin
	Extra uint8
}

func (c *longCoin) UnmarshalBCS(d *Decoder) (err error) {
	if err = c.coin.UnmarshalBCS(d); err != nil {
		return err
	}
	c.Extra, err = d.PeelU8()

	return err
}

func TestUnmarshal_BindingMustBeExhaustive(t *testing.T) {
	data, err := Marshal(coin{Balance: 1})
	require.NoError(t, err)

	requireDecodeError(t, Unmarshal(data, &shortCoin{}), errs.ErrTrailingBytes, AddressLength)
	requireDecodeError(t, Unmarshal(data, &longCoin{}), errs.ErrTruncatedInput, len(data))
}

func TestUnmarshal_TruncationSensitivity(t *testing.T) {
	encodings := map[string]Marshaler{
		"coin":    coin{ID: MustParseAddress("0x3"), Balance: 9},
		"command": command{Variant: commandMemo, Memo: "memo"},
		"tx":      sampleTx(),
	}

	targets := map[string]func() Unmarshaler{
		"coin":    func() Unmarshaler { return &coin{} },
		"command": func() Unmarshaler { return &command{} },
		"tx":      func() Unmarshaler { return &transferTx{} },
	}

	for name, m := range encodings {
		t.Run(name, func(t *testing.T) {
			data, err := Marshal(m)
			require.NoError(t, err)

			for cut := range len(data) {
				err := Unmarshal(data[:cut], targets[name]())
				require.ErrorIs(t, err, errs.ErrTruncatedInput, "prefix of %d/%d bytes", cut, len(data))
			}

			require.NoError(t, Unmarshal(data, targets[name]()))
		})
	}
}

func TestUnmarshal_NestingDepth(t *testing.T) {
	data, err := Marshal(sampleTx())
	require.NoError(t, err)

	var tx transferTx
	err = Unmarshal(data, &tx, WithMaxDepth(1))
	require.NoError(t, err, "elements nest one level deep")

	// A decoder that is already one level deep cannot enter another level.
	d := NewDecoder(data, WithMaxDepth(1))
	require.NoError(t, d.Enter())
	require.ErrorIs(t, tx.UnmarshalBCS(d), errs.ErrDepthLimitExceeded)
}
