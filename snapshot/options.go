package snapshot

import (
	"fmt"

	"github.com/cosmostat/lensfit/compress"
	"github.com/cosmostat/lensfit/endian"
	"github.com/cosmostat/lensfit/errs"
	"github.com/cosmostat/lensfit/format"
	"github.com/cosmostat/lensfit/internal/options"
)

// config collects the Encode options.
type config struct {
	engine      endian.EndianEngine
	bigEndian   bool
	compression format.CompressionType
}

// Option configures Encode.
type Option = options.Option[*config]

func defaultConfig() *config {
	return &config{
		engine:      endian.GetLittleEndianEngine(),
		compression: format.CompressionNone,
	}
}

// WithLittleEndian encodes multi-byte fields little-endian. This is the
// default.
func WithLittleEndian() Option {
	return options.NoError(func(cfg *config) {
		cfg.engine = endian.GetLittleEndianEngine()
		cfg.bigEndian = false
	})
}

// WithBigEndian encodes multi-byte fields big-endian.
func WithBigEndian() Option {
	return options.NoError(func(cfg *config) {
		cfg.engine = endian.GetBigEndianEngine()
		cfg.bigEndian = true
	})
}

// WithCompression selects the payload codec. The default stores the payload
// uncompressed.
func WithCompression(compression format.CompressionType) Option {
	return options.New(func(cfg *config) error {
		if _, err := compress.GetCodec(compression); err != nil {
			return fmt.Errorf("%w: %s", errs.ErrInvalidCompression, compression)
		}
		cfg.compression = compression

		return nil
	})
}
