package snapshot

import (
	"fmt"
	"math"

	"github.com/cosmostat/lensfit/analysis"
	"github.com/cosmostat/lensfit/compress"
	"github.com/cosmostat/lensfit/errs"
	"github.com/cosmostat/lensfit/format"
	"github.com/cosmostat/lensfit/internal/hash"
	"github.com/cosmostat/lensfit/internal/options"
)

// headerFixedSize is the endianness-independent prefix: magic, version,
// flags, compression and a reserved byte.
const headerFixedSize = 8

// flagBigEndian marks a snapshot whose multi-byte fields are big-endian.
const flagBigEndian uint8 = 0x1

// Encode serializes a training set. The analysis must hold at least one
// model; dimensionalities are recorded in the header so Decode can rebuild
// the set without guessing.
func Encode(a *analysis.Analysis, opts ...Option) ([]byte, error) {
	if a == nil || a.Models() == 0 {
		return nil, fmt.Errorf("%w: nothing to snapshot", errs.ErrNotEnoughModels)
	}

	cfg := defaultConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	models := a.Models()
	nparams := a.ParameterCount()
	featSize := a.FeatureSize()
	shape := a.FeatureShape()

	// Raw payload: parameter records then feature records, row-major.
	raw := make([]byte, 0, 8*models*(nparams+featSize))
	for _, row := range a.ParameterSet() {
		for _, v := range row {
			raw = cfg.engine.AppendUint64(raw, math.Float64bits(v))
		}
	}
	for _, row := range a.FeatureSet() {
		for _, v := range row {
			raw = cfg.engine.AppendUint64(raw, math.Float64bits(v))
		}
	}
	checksum := hash.Sum(raw)

	codec, err := compress.GetCodec(cfg.compression)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", errs.ErrInvalidCompression, cfg.compression)
	}
	payload, err := codec.Compress(raw)
	if err != nil {
		return nil, err
	}
	compression := cfg.compression
	if len(payload) == 0 && len(raw) > 0 {
		// LZ4 block compression reports incompressible input as an empty
		// block; such payloads are stored uncompressed instead.
		payload = raw
		compression = format.CompressionNone
	}

	var flags uint8
	if cfg.bigEndian {
		flags |= flagBigEndian
	}

	buf := make([]byte, 0, headerFixedSize+4*(4+len(shape))+12+len(payload))
	buf = append(buf, format.SnapshotMagic...)
	buf = append(buf, format.SnapshotVersion, flags, uint8(compression), 0)

	buf = cfg.engine.AppendUint32(buf, uint32(models))
	buf = cfg.engine.AppendUint32(buf, uint32(nparams))
	buf = cfg.engine.AppendUint32(buf, uint32(featSize))
	buf = cfg.engine.AppendUint32(buf, uint32(len(shape)))
	for _, dim := range shape {
		buf = cfg.engine.AppendUint32(buf, uint32(dim))
	}

	buf = cfg.engine.AppendUint64(buf, checksum)
	buf = cfg.engine.AppendUint32(buf, uint32(len(payload)))
	buf = append(buf, payload...)

	return buf, nil
}
