package pipe

import (
	"context"

	"github.com/go-faster/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Result of Run.
type Result struct {
	Size  uint32 // logical bytes: header, prefixes and payload
	Lines uint32 // lines written to destination
}

// Run packs job into dst.
//
// Job must be valid and dst must hold all produced lines, see Bound.
// Only context cancellation is reported as error, protocol violations
// panic.
func Run(ctx context.Context, j *Job, dst []byte, s *Stats, lg *zap.Logger) (Result, error) {
	if s == nil {
		s = new(Stats)
	}
	if lg == nil {
		lg = zap.NewNop()
	}
	if err := ctx.Err(); err != nil {
		return Result{}, errors.Wrap(err, "context")
	}
	var (
		blocks = j.Blocks()

		memLines = make(chan Line, Depth)
		memSize  = make(chan uint32, Depth)
		inWords  = make(chan uint64, Depth)
		inSize   = make(chan uint32, Depth)
		outWords = make(chan uint64, Depth)
		outSize  = make(chan uint32, Depth)
		upLines  = make(chan Line, Depth)
		upSize   = make(chan uint32, Depth)

		res Result
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := readBlocks(ctx, j, memLines, memSize, s); err != nil {
			return errors.Wrap(err, "reader")
		}
		return nil
	})
	g.Go(func() error {
		if err := downsize(ctx, blocks, memLines, memSize, inWords, inSize, s); err != nil {
			return errors.Wrap(err, "downsizer")
		}
		return nil
	})
	g.Go(func() error {
		n, err := pack(ctx, blocks, j.Tail, inWords, inSize, outWords, outSize, s)
		if err != nil {
			return errors.Wrap(err, "packer")
		}
		res.Size = n
		return nil
	})
	g.Go(func() error {
		if err := upsize(ctx, outWords, outSize, upLines, upSize); err != nil {
			return errors.Wrap(err, "upsizer")
		}
		return nil
	})
	g.Go(func() error {
		n, err := writeLines(ctx, dst, upLines, upSize, s)
		if err != nil {
			return errors.Wrap(err, "writer")
		}
		res.Lines = n
		return nil
	})
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	if ce := lg.Check(zap.DebugLevel, "Packed"); ce != nil {
		ce.Write(
			zap.Uint32("blocks", blocks),
			zap.Uint32("size", res.Size),
			zap.Uint32("lines", res.Lines),
			zap.Uint64("words", s.WordsOut.Load()),
		)
	}
	return res, nil
}

// Written returns number of bytes job produces, tail marker included.
func (j *Job) Written() uint64 {
	n := uint64(j.HeaderSize)
	for _, v := range j.CompressedSizes {
		n += prefixSize + uint64(v&SizeMask)
	}
	if j.Tail {
		n += prefixSize
	}
	return n
}

// Bound returns destination size in bytes needed for job, rounded up to
// whole lines.
func (j *Job) Bound() int {
	n := j.Written()
	if n == 0 {
		return 0
	}
	return int((n-1)/LineSize+1) * LineSize
}
