package snapshot

import (
	"bytes"
	"fmt"
	"math"

	"github.com/cosmostat/lensfit/analysis"
	"github.com/cosmostat/lensfit/compress"
	"github.com/cosmostat/lensfit/endian"
	"github.com/cosmostat/lensfit/errs"
	"github.com/cosmostat/lensfit/format"
	"github.com/cosmostat/lensfit/internal/hash"
)

// fieldReader walks the engine-ordered fields after the fixed prefix.
type fieldReader struct {
	data   []byte
	off    int
	engine endian.EndianEngine
}

func (r *fieldReader) uint32() (uint32, error) {
	if r.off+4 > len(r.data) {
		return 0, fmt.Errorf("%w: header field at offset %d", errs.ErrInvalidHeaderSize, r.off)
	}
	v := r.engine.Uint32(r.data[r.off:])
	r.off += 4

	return v, nil
}

func (r *fieldReader) uint64() (uint64, error) {
	if r.off+8 > len(r.data) {
		return 0, fmt.Errorf("%w: header field at offset %d", errs.ErrInvalidHeaderSize, r.off)
	}
	v := r.engine.Uint64(r.data[r.off:])
	r.off += 8

	return v, nil
}

// Decode rebuilds a training set from an Encode snapshot. It validates the
// magic, version, compression tag and payload checksum before touching the
// records.
func Decode(data []byte) (*analysis.Analysis, error) {
	if len(data) < headerFixedSize {
		return nil, fmt.Errorf("%w: %d bytes", errs.ErrInvalidHeaderSize, len(data))
	}
	if !bytes.Equal(data[:4], []byte(format.SnapshotMagic)) {
		return nil, fmt.Errorf("%w: %q", errs.ErrInvalidMagicNumber, data[:4])
	}
	if version := data[4]; version != format.SnapshotVersion {
		return nil, fmt.Errorf("%w: unsupported snapshot version %d", errs.ErrInvalidHeaderSize, version)
	}

	engine := endian.GetLittleEndianEngine()
	if data[5]&flagBigEndian != 0 {
		engine = endian.GetBigEndianEngine()
	}

	compression := format.CompressionType(data[6])
	codec, err := compress.GetCodec(compression)
	if err != nil {
		return nil, fmt.Errorf("%w: tag 0x%x", errs.ErrInvalidCompression, data[6])
	}

	r := &fieldReader{data: data, off: headerFixedSize, engine: engine}
	models, err := r.uint32()
	if err != nil {
		return nil, err
	}
	nparams, err := r.uint32()
	if err != nil {
		return nil, err
	}
	featSize, err := r.uint32()
	if err != nil {
		return nil, err
	}
	rank, err := r.uint32()
	if err != nil {
		return nil, err
	}
	shape := make([]int, rank)
	for i := range shape {
		dim, err := r.uint32()
		if err != nil {
			return nil, err
		}
		shape[i] = int(dim)
	}

	checksum, err := r.uint64()
	if err != nil {
		return nil, err
	}
	payloadLen, err := r.uint32()
	if err != nil {
		return nil, err
	}
	if r.off+int(payloadLen) > len(data) {
		return nil, fmt.Errorf("%w: header claims %d payload bytes, %d available",
			errs.ErrPayloadTruncated, payloadLen, len(data)-r.off)
	}

	raw, err := codec.Decompress(data[r.off : r.off+int(payloadLen)])
	if err != nil {
		return nil, fmt.Errorf("%w: %s", errs.ErrPayloadTruncated, err)
	}
	if hash.Sum(raw) != checksum {
		return nil, fmt.Errorf("%w: snapshot payload corrupted", errs.ErrChecksumMismatch)
	}

	want := 8 * int(models) * int(nparams+featSize)
	if len(raw) != want {
		return nil, fmt.Errorf("%w: payload holds %d bytes, header implies %d",
			errs.ErrPayloadTruncated, len(raw), want)
	}

	readRow := func(off, n int) []float64 {
		row := make([]float64, n)
		for i := range row {
			row[i] = math.Float64frombits(engine.Uint64(raw[off+8*i:]))
		}

		return row
	}

	a := analysis.New()
	featOffset := 8 * int(models) * int(nparams)
	for i := 0; i < int(models); i++ {
		params := readRow(8*i*int(nparams), int(nparams))
		feature := readRow(featOffset+8*i*int(featSize), int(featSize))
		if err := a.AddModel(params, feature); err != nil {
			return nil, err
		}
	}
	if err := a.SetFeatureShape(shape...); err != nil {
		return nil, err
	}

	return a, nil
}
