package encoding

// Marshaler is implemented by types that write their fields, in declaration order,
// to an Encoder.
type Marshaler interface {
	MarshalBCS(e *Encoder) error
}

// Unmarshaler is implemented by types that peel their fields, in declaration order,
// from a Decoder.
type Unmarshaler interface {
	UnmarshalBCS(d *Decoder) error
}

// Marshal encodes m into a new byte slice.
func Marshal(m Marshaler) ([]byte, error) {
	e := NewEncoder()
	defer e.Release()

	if err := m.MarshalBCS(e); err != nil {
		return nil, err
	}

	return e.Detach(), nil
}

// Unmarshal decodes data into u and requires the whole input to be consumed.
//
// A binding that peels fewer fields than were encoded fails with
// errs.ErrTrailingBytes; one that peels more fails with errs.ErrTruncatedInput.
func Unmarshal(data []byte, u Unmarshaler, opts ...DecoderOption) error {
	d := NewDecoder(data, opts...)

	if err := u.UnmarshalBCS(d); err != nil {
		return err
	}

	return d.Finish()
}

// EncodeVector writes items as vector<T>, encoding each element with fn.
func EncodeVector[T any](e *Encoder, items []T, fn func(*Encoder, T) error) error {
	if err := e.WriteLength(len(items)); err != nil {
		return err
	}

	for _, item := range items {
		if err := fn(e, item); err != nil {
			return err
		}
	}

	return nil
}

// PeelVector reads a vector<T>, decoding each element with fn.
func PeelVector[T any](d *Decoder, fn func(*Decoder) (T, error)) ([]T, error) {
	n, err := d.PeelLength()
	if err != nil {
		return nil, err
	}

	items := make([]T, 0, n)
	for range n {
		item, err := fn(d)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, nil
}

// EncodeOption writes v as option<T>: none when v is nil.
func EncodeOption[T any](e *Encoder, v *T, fn func(*Encoder, T) error) error {
	if v == nil {
		e.WriteOptionTag(false)
		return nil
	}

	e.WriteOptionTag(true)

	return fn(e, *v)
}

// PeelOption reads an option<T>, returning nil for none.
func PeelOption[T any](d *Decoder, fn func(*Decoder) (T, error)) (*T, error) {
	present, err := d.PeelOptionTag()
	if err != nil || !present {
		return nil, err
	}

	v, err := fn(d)
	if err != nil {
		return nil, err
	}

	return &v, nil
}

// PeelNested decodes a nested Unmarshaler value with depth tracking.
func PeelNested(d *Decoder, u Unmarshaler) error {
	if err := d.Enter(); err != nil {
		return err
	}
	defer d.Leave()

	return u.UnmarshalBCS(d)
}
