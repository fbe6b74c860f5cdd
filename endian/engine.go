// Package endian provides the byte-order engine used by snapshot encoding.
//
// It combines the ByteOrder and AppendByteOrder interfaces from
// encoding/binary so a single value can both read fixed-width fields and
// append them to a growing buffer. binary.LittleEndian and binary.BigEndian
// satisfy the interface directly; the returned engines are stateless and
// safe for concurrent use.
package endian

import "encoding/binary"

// EndianEngine reads and appends fixed-width integers in a specific byte order.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// GetLittleEndianEngine returns the little-endian engine, the lensfit default.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the big-endian engine, for interoperability with
// big-endian producers.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}
