// Package rbtree provides a red-black tree of ordered keys built on a node arena,
// with in-memory LZ4 hibernation of the arena's link columns.
package rbtree

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/pierrec/lz4/v4"
)

// ErrCorruptColumn is returned when a hibernated column cannot be restored.
var ErrCorruptColumn = errors.New("corrupt hibernated column")

// uint32ByteSize is the number of bytes in a uint32.
const uint32ByteSize = 4

// The first byte of a packed column tells how the rest is stored.
const (
	blockRaw byte = iota
	blockLZ4
)

// CompressUInt32Slice packs a slice of uint32-s with LZ4.
// Input that LZ4 cannot shrink is stored verbatim.
func CompressUInt32Slice(data []uint32) ([]byte, error) {
	raw := make([]byte, len(data)*uint32ByteSize)
	for idx, value := range data {
		binary.LittleEndian.PutUint32(raw[idx*uint32ByteSize:], value)
	}

	packed := make([]byte, 1+lz4.CompressBlockBound(len(raw)))

	written, err := lz4.CompressBlock(raw, packed[1:], nil)
	if err != nil {
		return nil, fmt.Errorf("lz4 compress: %w", err)
	}

	if written == 0 || written >= len(raw) {
		return append([]byte{blockRaw}, raw...), nil
	}

	packed[0] = blockLZ4

	return packed[:written+1], nil
}

// DecompressUInt32Slice restores a slice packed by CompressUInt32Slice.
// `result` must be preallocated with the original length.
func DecompressUInt32Slice(data []byte, result []uint32) error {
	if len(data) == 0 {
		return fmt.Errorf("%w: empty block", ErrCorruptColumn)
	}

	raw := make([]byte, len(result)*uint32ByteSize)

	switch data[0] {
	case blockRaw:
		if len(data)-1 != len(raw) {
			return fmt.Errorf("%w: %d bytes instead of %d", ErrCorruptColumn, len(data)-1, len(raw))
		}

		copy(raw, data[1:])
	case blockLZ4:
		read, err := lz4.UncompressBlock(data[1:], raw)
		if err != nil {
			return fmt.Errorf("lz4 decompress: %w", err)
		}

		if read != len(raw) {
			return fmt.Errorf("%w: %d bytes instead of %d", ErrCorruptColumn, read, len(raw))
		}
	default:
		return fmt.Errorf("%w: unknown block kind %d", ErrCorruptColumn, data[0])
	}

	for idx := range result {
		result[idx] = binary.LittleEndian.Uint32(raw[idx*uint32ByteSize:])
	}

	return nil
}
