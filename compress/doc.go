// Package compress provides the payload codecs used by lensfit snapshots.
//
// A snapshot payload is a single contiguous block of float64 data (parameter
// and feature records); the codecs here trade compression ratio against
// encode speed:
//
//   - None: no processing, for hot local round trips
//   - Zstd: best ratio, for archival of large training sets
//   - S2: fast with a moderate ratio
//   - LZ4: fastest block compression
//
// Codecs are stateless values and safe for concurrent use.
package compress
