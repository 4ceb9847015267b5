// Package compress implements block compression for frame packing.
package compress

import "encoding/binary"

// Method is compression codec.
type Method byte

// Possible methods.
const (
	None Method = iota
	LZ4
	LZ4HC
)

func (m Method) String() string {
	switch m {
	case None:
		return "none"
	case LZ4:
		return "lz4"
	case LZ4HC:
		return "lz4hc"
	default:
		return "unknown"
	}
}

// MethodValues returns all methods.
func MethodValues() []Method {
	return []Method{None, LZ4, LZ4HC}
}

// Level of LZ4HC compression.
type Level uint32

const (
	CompressionLevelLZ4HCDefault Level = 9
	CompressionLevelLZ4HCMax     Level = 12
)

const (
	blockPrefixSize = 4
	maxBlockSize    = 4 << 20 // 4MB, largest frame block
)

var bin = binary.LittleEndian
