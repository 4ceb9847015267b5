// Binary lz4-pack compresses files into aligned LZ4 frames.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-faster/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/go-faster/lz4pack"
	"github.com/go-faster/lz4pack/frame"
	"github.com/go-faster/lz4pack/internal/cmd/app"
)

type arguments struct {
	Decompress bool
	BlockKB    int
	Method     string
	Level      uint
	Align      int
	Chunk      int
	Input      string
	Output     string
}

// ctxReader stops reading on context cancellation.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

func run(ctx context.Context, lg *zap.Logger, arg arguments) (re error) {
	in, err := os.Open(arg.Input)
	if err != nil {
		return errors.Wrap(err, "open input")
	}
	defer func() {
		re = multierr.Append(re, in.Close())
	}()
	out, err := os.Create(arg.Output)
	if err != nil {
		return errors.Wrap(err, "create output")
	}
	defer func() {
		re = multierr.Append(re, out.Close())
	}()

	start := time.Now()
	var read, written int64
	if arg.Decompress {
		r := lz4pack.NewReader(in)
		n, err := io.Copy(out, ctxReader{ctx: ctx, r: r})
		if err != nil {
			return errors.Wrap(err, "decompress")
		}
		written = n
		if st, err := in.Stat(); err == nil {
			read = st.Size()
		}
		lg.Debug("Frame",
			zap.Stringer("block_size", r.Descriptor().BlockSize),
			zap.Uint64("content_size", r.Descriptor().ContentSize),
		)
	} else {
		c, ok := lz4pack.ParseCompression(arg.Method)
		if !ok {
			return errors.Errorf("unknown method %q", arg.Method)
		}
		bs, err := frame.BlockSizeOf(arg.BlockKB)
		if err != nil {
			return errors.Wrap(err, "block size")
		}
		opt := lz4pack.Options{
			Logger:      lg.Named("pack"),
			Compression: c,
			Level:       uint32(arg.Level),
			BlockSize:   bs,
			ChunkSize:   arg.Chunk,
			Align:       arg.Align,
			Stats:       new(lz4pack.Stats),
		}
		if st, err := in.Stat(); err == nil && st.Mode().IsRegular() {
			opt.ContentSize = uint64(st.Size())
		}
		w, err := lz4pack.NewWriter(out, opt)
		if err != nil {
			return errors.Wrap(err, "writer")
		}
		n, err := io.Copy(w, ctxReader{ctx: ctx, r: in})
		if err != nil {
			return errors.Wrap(err, "compress")
		}
		if err := w.Close(); err != nil {
			return errors.Wrap(err, "close")
		}
		read, written = n, w.Written()
		lg.Debug("Stats",
			zap.Uint64("blocks", opt.Stats.Blocks.Load()),
			zap.Uint64("lines_read", opt.Stats.LinesRead.Load()),
			zap.Uint64("lines_written", opt.Stats.LinesWritten.Load()),
		)
	}

	duration := time.Since(start)
	ratio := 0.0
	if read > 0 {
		ratio = float64(written) / float64(read)
	}
	fmt.Printf("%s -> %s (%.2f) in %s, %s/sec\n",
		humanize.Bytes(uint64(read)),
		humanize.Bytes(uint64(written)),
		ratio,
		duration.Round(time.Millisecond),
		humanize.Bytes(uint64(float64(read)/duration.Seconds())),
	)

	return nil
}

func main() {
	app.Run(func(ctx context.Context, lg *zap.Logger) error {
		var arg arguments
		flag.BoolVar(&arg.Decompress, "d", false, "decompress")
		flag.IntVar(&arg.BlockKB, "b", 64, "block size in KB: 64, 256, 1024 or 4096")
		flag.StringVar(&arg.Method, "m", lz4pack.CompressionLZ4.String(), "compression method: lz4, lz4hc or none")
		flag.UintVar(&arg.Level, "l", 0, "lz4hc compression level")
		flag.IntVar(&arg.Align, "align", frame.DefaultAlign, "output alignment in bytes, 0 to disable")
		flag.IntVar(&arg.Chunk, "chunk", 0, "chunk size in bytes")
		flag.Parse()
		if flag.NArg() != 2 {
			return errors.New("usage: lz4-pack [flags] <input> <output>")
		}
		arg.Input, arg.Output = flag.Arg(0), flag.Arg(1)

		return run(ctx, lg, arg)
	})
}
