package pipe

import "context"

// downsize splits lines into words.
//
// Lengths are byte counts and are forwarded unchanged. The loop is driven
// by block count, so zero-length blocks pass through.
func downsize(ctx context.Context, blocks uint32, in <-chan Line, inSize <-chan uint32, out chan<- uint64, outSize chan<- uint32, s *Stats) error {
	const factor = LineSize / WordSize

	var line Line
	for b := uint32(0); b <= blocks; b++ {
		size, err := recv(ctx, inSize)
		if err != nil {
			return err
		}
		if err := send(ctx, outSize, size); err != nil {
			return err
		}
		n := words(size & SizeMask)
		for i := uint32(0); i < n; i++ {
			idx := i % factor
			if idx == 0 {
				if line, err = recv(ctx, in); err != nil {
					return err
				}
			}
			if err := send(ctx, out, bin.Uint64(line[idx*WordSize:])); err != nil {
				return err
			}
		}
		s.WordsIn.Add(uint64(n))
	}
	if err := expectEnd(ctx, "downsizer", inSize); err != nil {
		return err
	}
	return send(ctx, outSize, end)
}
