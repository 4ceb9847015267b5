package pipe

import "context"

// pack serializes header and blocks into continuous stream of words.
//
// Block 0 is copied verbatim, every other block gets 4-byte little-endian
// length prefix. Each step announces exact number of words it flushes and
// announcement is skipped when step flushes nothing, so zero never appears
// before end of stream. Length stream of packer may thus carry fewer than
// blocks+1 values before the end.
//
// Returns number of logical bytes in stream: header, prefixes and payload.
// Tail marker is not counted.
func pack(ctx context.Context, blocks uint32, tail bool, in <-chan uint64, inSize <-chan uint32, out chan<- uint64, outSize chan<- uint32, s *Stats) (uint32, error) {
	var (
		c     wordCarry
		total uint32
	)
	flush := func() error {
		if !c.full() {
			return nil
		}
		s.WordsOut.Inc()
		return send(ctx, out, c.shift())
	}
	putPrefix := func(v uint32) error {
		for i := 0; i < prefixSize; i++ {
			c.put(uint64(v>>(8*i)), 1)
			if err := flush(); err != nil {
				return err
			}
		}
		return nil
	}

	for b := uint32(0); b <= blocks; b++ {
		length, err := recv(ctx, inSize)
		if err != nil {
			return 0, err
		}
		size := length & SizeMask

		step := c.n + size
		if b != 0 {
			step += prefixSize
		}
		total += step - c.n
		if n := step / WordSize; n > 0 {
			if err := send(ctx, outSize, n); err != nil {
				return 0, err
			}
		}

		if b != 0 {
			if err := putPrefix(length); err != nil {
				return 0, err
			}
		}
		for i := uint32(0); i < size; i += WordSize {
			k := uint32(WordSize)
			if i+k > size {
				k = size - i
			}
			w, err := recv(ctx, in)
			if err != nil {
				return 0, err
			}
			c.put(w, k)
			if err := flush(); err != nil {
				return 0, err
			}
		}
		s.Blocks.Inc()
	}
	if err := expectEnd(ctx, "packer", inSize); err != nil {
		return 0, err
	}

	if tail {
		// Empty block is the end mark of frame. Not flushed here, drain
		// below announces it.
		c.put(0, prefixSize)
	}
	if c.n > 0 {
		if err := send(ctx, outSize, words(c.n)); err != nil {
			return 0, err
		}
		for c.n > 0 {
			s.WordsOut.Inc()
			if err := send(ctx, out, c.shift()); err != nil {
				return 0, err
			}
		}
	}
	return total, send(ctx, outSize, end)
}
