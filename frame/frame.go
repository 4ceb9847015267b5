// Package frame implements LZ4 frame header and block size words.
package frame

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/OneOfOne/xxhash"
	"github.com/go-faster/errors"
)

// Magic number that starts every frame.
const Magic uint32 = 0x184D2204

const (
	// EndMark is the block size word of empty block that ends frame.
	EndMark uint32 = 0
	// Uncompressed is set in block size word of stored block.
	Uncompressed uint32 = 0x80000000
	// SizeMask extracts block length from block size word.
	SizeMask uint32 = 0x7FFFFFFF

	// DefaultAlign is the alignment of complete frame on storage.
	DefaultAlign = 4096
)

// FLG bits.
const (
	flagVersion         byte = 0x40
	flagBlockIndep      byte = 0x20
	flagBlockChecksum   byte = 0x10
	flagContentSize     byte = 0x08
	flagContentChecksum byte = 0x04
	flagReserved        byte = 0x02
	flagDictID          byte = 0x01
	versionMask         byte = 0xC0
)

const (
	magicSize = 4
	// FLG, BD and HC.
	descriptorSize  = 3
	contentSizeSize = 8

	minHeaderSize = magicSize + descriptorSize
	maxHeaderSize = minHeaderSize + contentSizeSize
)

var bin = binary.LittleEndian

// BlockSize is maximum uncompressed block size, as encoded in BD byte.
type BlockSize byte

// Block sizes defined by format.
const (
	Block64KB BlockSize = 4 + iota
	Block256KB
	Block1MB
	Block4MB
)

// IsValid reports whether b is defined by format.
func (b BlockSize) IsValid() bool { return b >= Block64KB && b <= Block4MB }

// Bytes returns block size in bytes.
func (b BlockSize) Bytes() int { return 1 << (8 + 2*uint(b)) }

// KB returns block size in kilobytes.
func (b BlockSize) KB() uint32 { return uint32(b.Bytes() / 1024) }

func (b BlockSize) String() string {
	switch b {
	case Block64KB:
		return "64KB"
	case Block256KB:
		return "256KB"
	case Block1MB:
		return "1MB"
	case Block4MB:
		return "4MB"
	default:
		return fmt.Sprintf("BlockSize(%d)", byte(b))
	}
}

// BlockSizeOf returns BlockSize for size in kilobytes.
func BlockSizeOf(kb int) (BlockSize, error) {
	for b := Block64KB; b <= Block4MB; b++ {
		if int(b.KB()) == kb {
			return b, nil
		}
	}
	return 0, errors.Errorf("unsupported block size %dKB", kb)
}

// Descriptor of frame.
type Descriptor struct {
	BlockSize BlockSize
	// ContentSize is uncompressed size of frame, zero if not present.
	ContentSize uint64
}

// HeaderSize returns encoded header size.
func (d Descriptor) HeaderSize() int {
	if d.ContentSize > 0 {
		return maxHeaderSize
	}
	return minHeaderSize
}

func (d Descriptor) flags() byte {
	flg := flagVersion | flagBlockIndep
	if d.ContentSize > 0 {
		flg |= flagContentSize
	}
	return flg
}

// checksum computes HC byte over descriptor bytes, from FLG up to HC.
func checksum(desc []byte) byte {
	return byte(xxhash.Checksum32(desc) >> 8)
}

// AppendHeader appends frame header to buf.
func AppendHeader(buf []byte, d Descriptor) []byte {
	var b [maxHeaderSize]byte
	bin.PutUint32(b[:], Magic)
	b[4] = d.flags()
	b[5] = byte(d.BlockSize) << 4
	n := 6
	if d.ContentSize > 0 {
		bin.PutUint64(b[n:], d.ContentSize)
		n += contentSizeSize
	}
	b[n] = checksum(b[magicSize:n])
	return append(buf, b[:n+1]...)
}

// ParseHeader decodes frame header from b, returning number of bytes
// consumed.
func ParseHeader(b []byte) (Descriptor, int, error) {
	if len(b) < minHeaderSize {
		return Descriptor{}, 0, io.ErrUnexpectedEOF
	}
	if m := bin.Uint32(b); m != Magic {
		return Descriptor{}, 0, errors.Errorf("bad magic 0x%08x", m)
	}
	flg, bd := b[4], b[5]
	if flg&versionMask != flagVersion {
		return Descriptor{}, 0, errors.Errorf("unsupported version %d", flg>>6)
	}
	if flg&flagReserved != 0 || bd&0x8F != 0 {
		return Descriptor{}, 0, errors.New("reserved bits set")
	}
	if flg&flagBlockIndep == 0 {
		return Descriptor{}, 0, errors.New("linked blocks not supported")
	}
	if flg&(flagBlockChecksum|flagContentChecksum|flagDictID) != 0 {
		return Descriptor{}, 0, errors.Errorf("unsupported flags 0x%02x", flg)
	}
	d := Descriptor{BlockSize: BlockSize(bd >> 4)}
	if !d.BlockSize.IsValid() {
		return Descriptor{}, 0, errors.Errorf("bad block size %d", bd>>4)
	}
	n := 6
	if flg&flagContentSize != 0 {
		if len(b) < maxHeaderSize {
			return Descriptor{}, 0, io.ErrUnexpectedEOF
		}
		d.ContentSize = bin.Uint64(b[n:])
		n += contentSizeSize
	}
	if hc := checksum(b[magicSize:n]); hc != b[n] {
		return Descriptor{}, 0, errors.Errorf("header checksum mismatch: 0x%02x != 0x%02x", b[n], hc)
	}
	return d, n + 1, nil
}

// ReadHeader reads and decodes frame header from r.
func ReadHeader(r io.Reader) (Descriptor, error) {
	var b [maxHeaderSize]byte
	if _, err := io.ReadFull(r, b[:minHeaderSize]); err != nil {
		return Descriptor{}, errors.Wrap(err, "read")
	}
	if b[4]&flagContentSize != 0 {
		if _, err := io.ReadFull(r, b[minHeaderSize:]); err != nil {
			return Descriptor{}, errors.Wrap(err, "read content size")
		}
	}
	d, _, err := ParseHeader(b[:])
	return d, err
}

// Pad returns number of zero bytes that align n to multiple of align.
//
// Zero or negative align disables padding.
func Pad(n, align int) int {
	if align <= 0 {
		return 0
	}
	if r := n % align; r != 0 {
		return align - r
	}
	return 0
}
