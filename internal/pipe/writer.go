package pipe

import "context"

// writeLines stores lines into dst sequentially, returning number of lines.
//
// Bytes of line that fall past the end of dst are dropped.
func writeLines(ctx context.Context, dst []byte, in <-chan Line, inSize <-chan uint32, s *Stats) (uint32, error) {
	var idx uint32
	for {
		size, err := recv(ctx, inSize)
		if err != nil {
			return idx, err
		}
		if size == end {
			return idx, nil
		}
		for i := uint32(0); i < size; i++ {
			l, err := recv(ctx, in)
			if err != nil {
				return idx, err
			}
			off := int(idx+i) * LineSize
			if off >= len(dst) {
				panic("writer: line past end of destination")
			}
			copy(dst[off:], l[:])
		}
		idx += size
		s.LinesWritten.Add(uint64(size))
	}
}
