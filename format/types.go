package format

// CompressionType tags the codec applied to a snapshot payload.
type CompressionType uint8

const (
	CompressionNone CompressionType = 0x1 // CompressionNone stores the payload as-is.
	CompressionZstd CompressionType = 0x2 // CompressionZstd applies Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 applies S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 applies LZ4 block compression.
)

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

// Snapshot framing constants shared by the snapshot encoder and decoder.
const (
	// SnapshotMagic marks the first four bytes of every snapshot ("LFS1").
	SnapshotMagic = "LFS1"

	// SnapshotVersion is the current snapshot layout version.
	SnapshotVersion uint8 = 1
)
