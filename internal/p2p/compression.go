package p2p

import (
	"errors"

	"github.com/pierrec/lz4"
)

// MinCompressibleSize is the minimum message size worth compressing.
// Messages smaller than this are sent uncompressed. Adapted from the
// teacher's rippled-derived threshold.
const MinCompressibleSize = 70

var (
	// ErrDecompressionFailed is returned when decompression fails.
	ErrDecompressionFailed = errors.New("p2p: decompression failed")
	// ErrCompressionFailed is returned when compression fails.
	ErrCompressionFailed = errors.New("p2p: compression failed")
)

// CompressLZ4 compresses data using LZ4, used for the large SYNC_SNAP_RES
// payload (spec.md §4.6 step 4: snapshot transfer). Returns (nil, nil)
// when compression wouldn't save space.
func CompressLZ4(data []byte) ([]byte, error) {
	if len(data) < MinCompressibleSize {
		return nil, nil
	}

	maxSize := lz4.CompressBlockBound(len(data))
	compressed := make([]byte, maxSize)

	n, err := lz4.CompressBlock(data, compressed, nil)
	if err != nil {
		return nil, err
	}
	if n == 0 || n >= len(data) {
		return nil, nil
	}
	return compressed[:n], nil
}

// DecompressLZ4 decompresses an LZ4 block to its known uncompressed size.
func DecompressLZ4(compressed []byte, uncompressedSize int) ([]byte, error) {
	if uncompressedSize <= 0 {
		return nil, ErrDecompressionFailed
	}
	decompressed := make([]byte, uncompressedSize)
	n, err := lz4.UncompressBlock(compressed, decompressed)
	if err != nil {
		return nil, err
	}
	if n != uncompressedSize {
		return nil, ErrDecompressionFailed
	}
	return decompressed, nil
}

// EncodeSnapshotMessage builds a SyncSnapResMsg, compressing the payload
// when it is large enough to be worthwhile.
func EncodeSnapshotMessage(raw []byte) SyncSnapResMsg {
	compressed, err := CompressLZ4(raw)
	if err != nil || compressed == nil {
		return SyncSnapResMsg{Snapshot: raw}
	}
	return SyncSnapResMsg{Compressed: compressed, RawSize: len(raw)}
}

// DecodeSnapshotMessage recovers the raw snapshot JSON from a message,
// decompressing it first if it was sent compressed.
func DecodeSnapshotMessage(msg SyncSnapResMsg) ([]byte, error) {
	if msg.Compressed != nil {
		return DecompressLZ4(msg.Compressed, msg.RawSize)
	}
	return msg.Snapshot, nil
}
