// Package snapshot serializes a training set to a compact binary form.
//
// Assembling a training set is expensive (one simulation per model); a
// snapshot lets an assembled set be written once and reloaded instantly.
// The layout is a fixed header followed by a compressed payload:
//
//	magic "LFS1" | version | flags | compression | reserved
//	models | nparams | featureSize | shape rank | shape dims...
//	payload checksum (xxhash64) | payload length | payload
//
// The magic is endianness-independent; every other multi-byte field is
// written by the engine selected at encode time and recorded in the flags
// byte, so a snapshot written on a big-endian producer decodes anywhere.
// The payload holds the parameter records followed by the feature records,
// row-major float64, compressed with the codec named in the header. The
// checksum covers the uncompressed payload.
package snapshot
