package envelope

import (
	"fmt"

	"github.com/arloliu/bcs/errs"
	"github.com/arloliu/bcs/format"
	"github.com/arloliu/bcs/internal/options"
)

// DefaultMaxPayloadSize bounds the uncompressed payload of an envelope (64 MiB).
const DefaultMaxPayloadSize = 64 << 20

// Config holds Seal and Open settings.
type Config struct {
	compression    format.CompressionType
	maxPayloadSize int
}

// Option configures Seal and Open.
type Option = options.Option[*Config]

func defaultConfig() Config {
	return Config{
		compression:    format.CompressionNone,
		maxPayloadSize: DefaultMaxPayloadSize,
	}
}

func newConfig(opts ...Option) (Config, error) {
	cfg := defaultConfig()
	if err := options.Apply(&cfg, opts...); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// Validate implements options.Validator.
func (c *Config) Validate() error {
	if !c.compression.IsValid() {
		return fmt.Errorf("%w: %s", errs.ErrUnsupportedCompression, c.compression)
	}

	return nil
}

// WithCompression selects the codec Seal applies to the payload. Open ignores it and
// uses the codec recorded in the frame. Defaults to format.CompressionNone.
func WithCompression(ct format.CompressionType) Option {
	return options.New(func(c *Config) error {
		if !ct.IsValid() {
			return fmt.Errorf("%w: 0x%02x", errs.ErrUnsupportedCompression, uint8(ct))
		}
		c.compression = ct

		return nil
	})
}

// WithMaxPayloadSize bounds the uncompressed payload size accepted by Seal and Open.
// Defaults to DefaultMaxPayloadSize.
func WithMaxPayloadSize(n int) Option {
	return options.New(func(c *Config) error {
		if n <= 0 {
			return fmt.Errorf("max payload size must be positive, got %d", n)
		}
		c.maxPayloadSize = n

		return nil
	})
}
