package pipe

import "context"

// upsize joins words into lines, carrying partial line across blocks.
//
// Lengths are word counts on input and line counts on output.
func upsize(ctx context.Context, in <-chan uint64, inSize <-chan uint32, out chan<- Line, outSize chan<- uint32) error {
	var c lineCarry
	for {
		size, err := recv(ctx, inSize)
		if err != nil {
			return err
		}
		if size == end {
			break
		}
		if n := (size*WordSize + c.n) / LineSize; n > 0 {
			if err := send(ctx, outSize, n); err != nil {
				return err
			}
		}
		for i := uint32(0); i < size; i++ {
			w, err := recv(ctx, in)
			if err != nil {
				return err
			}
			c.put(w)
			if c.full() {
				if err := send(ctx, out, c.shift()); err != nil {
					return err
				}
			}
		}
	}
	if c.n > 0 {
		if err := send(ctx, outSize, 1); err != nil {
			return err
		}
		if err := send(ctx, out, c.shift()); err != nil {
			return err
		}
	}
	return send(ctx, outSize, end)
}
