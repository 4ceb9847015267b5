package pipe

import "context"

// Job describes single pipeline invocation.
//
// Regions are plain byte slices addressed in lines; a line that runs past
// the end of region reads as zero bytes.
type Job struct {
	Header     []byte // header or residue of previous output
	Original   []byte // uncompressed input, source of stored blocks
	Compressed []byte // compressed blocks, one per stride

	CompressedSizes []uint32
	OriginalSizes   []uint32

	HeaderSize  uint32 // bytes in block 0
	Offset      uint32 // byte offset of block 0 in Header, line aligned
	BlockSizeKB uint32 // nominal uncompressed block size

	Tail       bool // append empty block marker
	MarkStored bool // set Stored bit on lengths of stored blocks
}

// Blocks returns number of payload blocks.
func (j *Job) Blocks() uint32 { return uint32(len(j.CompressedSizes)) }

// stride returns distance between blocks in lines.
func (j *Job) stride() uint32 { return j.BlockSizeKB * 1024 / LineSize }

// IsStored reports whether payload block i (zero-based) was stored.
func (j *Job) IsStored(i int) bool {
	return j.CompressedSizes[i] == j.OriginalSizes[i]
}

func loadLine(region []byte, idx uint32) Line {
	var l Line
	off := int(idx) * LineSize
	if off < len(region) {
		copy(l[:], region[off:])
	}
	return l
}

// readBlocks streams header and every block from memory as lines.
func readBlocks(ctx context.Context, j *Job, out chan<- Line, outSize chan<- uint32, s *Stats) error {
	var (
		buf    [BurstSize]Line
		stride = j.stride()
		base   = j.Offset / LineSize
	)
	for b := uint32(0); b <= j.Blocks(); b++ {
		var (
			region []byte
			start  uint32
			size   uint32
		)
		switch {
		case b == 0:
			region, start, size = j.Header, base, j.HeaderSize
		case j.IsStored(int(b - 1)):
			region, start, size = j.Original, stride*(b-1), j.CompressedSizes[b-1]
		default:
			region, start, size = j.Compressed, stride*(b-1), j.CompressedSizes[b-1]
		}
		length := size
		if b > 0 && j.MarkStored && j.IsStored(int(b-1)) {
			length |= Stored
		}
		if err := send(ctx, outSize, length); err != nil {
			return err
		}

		n := lines(size)
		for i := uint32(0); i < n; i += BurstSize {
			chunk := uint32(BurstSize)
			if i+chunk > n {
				chunk = n - i
			}
			for k := uint32(0); k < chunk; k++ {
				buf[k] = loadLine(region, start+i+k)
			}
			for k := uint32(0); k < chunk; k++ {
				if err := send(ctx, out, buf[k]); err != nil {
					return err
				}
			}
			s.LinesRead.Add(uint64(chunk))
		}
	}
	return send(ctx, outSize, end)
}
