package compress

import (
	"fmt"

	"github.com/cosmostat/lensfit/format"
)

// Compressor compresses a snapshot payload.
//
// The returned slice is newly allocated and owned by the caller; the input
// slice is never modified.
type Compressor interface {
	Compress(data []byte) ([]byte, error)
}

// Decompressor restores a payload produced by the matching Compressor.
//
// It validates the compressed framing and returns an error on corrupted or
// incompatible input. The returned slice is owned by the caller.
type Decompressor interface {
	Decompress(data []byte) ([]byte, error)
}

// Codec combines compression and decompression for one algorithm.
type Codec interface {
	Compressor
	Decompressor
}

var builtinCodecs = map[format.CompressionType]Codec{
	format.CompressionNone: NewNoOpCodec(),
	format.CompressionZstd: NewZstdCodec(),
	format.CompressionS2:   NewS2Codec(),
	format.CompressionLZ4:  NewLZ4Codec(),
}

// GetCodec returns the built-in Codec for the given compression tag.
func GetCodec(compression format.CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[compression]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("unsupported compression type: %s", compression)
}
