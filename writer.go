package lz4pack

import (
	"bytes"
	"context"
	"io"

	"github.com/go-faster/errors"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/go-faster/lz4pack/frame"
	"github.com/go-faster/lz4pack/internal/compress"
	"github.com/go-faster/lz4pack/internal/pipe"
	"github.com/go-faster/lz4pack/otelpack"
)

// Writer writes single LZ4 frame to underlying writer.
//
// Input is buffered and packed in chunks of Options.ChunkSize bytes. Only
// multiples of Options.Align are written until Close, the unaligned rest
// of each chunk becomes the first block of the next one.
type Writer struct {
	w   io.Writer
	opt Options
	lg  *zap.Logger

	enc    *compress.Writer
	method compress.Method
	blocks compress.Blocks

	chunk []byte

	// Block 0 of next chunk: head[headOff:headOff+headSize].
	head     []byte
	headOff  int
	headSize int
	out      []byte

	written int64
	chunks  int
	closed  bool
}

// NewWriter initializes and returns new Writer.
func NewWriter(w io.Writer, opt Options) (*Writer, error) {
	opt.setDefaults()
	if !opt.BlockSize.IsValid() {
		return nil, errors.Errorf("invalid block size %s", opt.BlockSize)
	}
	if opt.Align < 0 || opt.Align%pipe.LineSize != 0 {
		return nil, errors.Errorf("align %d is not multiple of %d", opt.Align, pipe.LineSize)
	}
	m := opt.Compression.method()
	header := frame.AppendHeader(nil, frame.Descriptor{
		BlockSize:   opt.BlockSize,
		ContentSize: opt.ContentSize,
	})
	return &Writer{
		w:        w,
		opt:      opt,
		lg:       opt.Logger,
		enc:      compress.NewWriterWithMethods(compress.Level(opt.Level), m),
		method:   m,
		chunk:    make([]byte, 0, opt.ChunkSize),
		head:     header,
		headSize: len(header),
	}, nil
}

// Written returns number of bytes written to underlying writer.
func (w *Writer) Written() int64 { return w.written }

// Write implements io.Writer.
func (w *Writer) Write(p []byte) (int, error) {
	return w.write(context.Background(), p)
}

func (w *Writer) write(ctx context.Context, p []byte) (int, error) {
	if w.closed {
		return 0, errors.New("write to closed writer")
	}
	var n int
	for len(p) > 0 {
		free := w.opt.ChunkSize - len(w.chunk)
		if free > len(p) {
			free = len(p)
		}
		w.chunk = append(w.chunk, p[:free]...)
		p = p[free:]
		n += free

		if len(w.chunk) == w.opt.ChunkSize {
			if err := w.flush(ctx, false); err != nil {
				return n, errors.Wrap(err, "flush")
			}
		}
	}
	return n, nil
}

// Close writes buffered input, end mark and alignment padding.
//
// Underlying writer is not closed.
func (w *Writer) Close() error {
	return w.close(context.Background())
}

func (w *Writer) close(ctx context.Context) error {
	if w.closed {
		return nil
	}
	if err := w.flush(ctx, true); err != nil {
		return errors.Wrap(err, "flush")
	}
	w.closed = true
	return nil
}

// flush packs buffered chunk and writes aligned part of result.
func (w *Writer) flush(ctx context.Context, last bool) error {
	bs := w.opt.BlockSize
	if err := w.enc.Compress(w.method, bs.Bytes(), w.chunk, &w.blocks); err != nil {
		return errors.Wrap(err, "compress")
	}
	in := Input{
		Header:     w.head,
		HeaderSize: uint32(w.headSize),
		Offset:     uint32(w.headOff),

		Original:        w.chunk,
		Compressed:      w.blocks.Data,
		CompressedSizes: w.blocks.Compressed,
		OriginalSizes:   w.blocks.Original,
		BlockSizeKB:     bs.KB(),

		Tail:       last,
		MarkStored: true,
	}
	if bound := PackBound(in); cap(w.out) < bound {
		w.out = make([]byte, bound)
	} else {
		w.out = w.out[:bound]
	}

	res, err := Pack(ctx, w.out, in, w.opt)
	if err != nil {
		return errors.Wrap(err, "pack")
	}

	n := res.Written
	aligned := n
	if w.opt.Align > 0 && !last {
		aligned -= n % w.opt.Align
	}
	data := w.out[:aligned]
	if last {
		data = append(data, make([]byte, frame.Pad(n, w.opt.Align))...)
	}
	if _, err := w.w.Write(data); err != nil {
		return errors.Wrap(err, "write")
	}
	w.written += int64(len(data))
	w.chunks++

	if ce := w.lg.Check(zap.DebugLevel, "Chunk"); ce != nil {
		ce.Write(
			zap.Int("chunk", w.chunks),
			zap.Int("input", len(w.chunk)),
			zap.Int("blocks", len(w.blocks.Compressed)),
			zap.Int("stored", w.blocks.Stored()),
			zap.Int("output", n),
			zap.Int("flushed", len(data)),
			zap.Bool("last", last),
		)
	}

	// Residue of output is block 0 of next chunk, so output buffer of
	// this chunk can not be destination of the next one.
	w.head, w.out = w.out, w.head
	w.headOff, w.headSize = aligned, n-aligned
	if w.headSize == 0 {
		w.headOff = 0
	}
	w.chunk = w.chunk[:0]

	return nil
}

// Compress returns data compressed into single LZ4 frame with content
// size.
func Compress(ctx context.Context, data []byte, opt Options) (_ []byte, rerr error) {
	opt.setDefaults()
	opt.ContentSize = uint64(len(data))

	ctx, span := opt.tracer().Start(ctx, "Compress",
		trace.WithAttributes(
			otelpack.Size(int64(len(data))),
			otelpack.BlockSize(opt.BlockSize.String()),
		),
	)
	defer func() {
		if rerr != nil {
			span.RecordError(rerr)
			span.SetStatus(codes.Error, rerr.Error())
		}
		span.End()
	}()

	var buf bytes.Buffer
	w, err := NewWriter(&buf, opt)
	if err != nil {
		return nil, errors.Wrap(err, "writer")
	}
	if _, err := w.write(ctx, data); err != nil {
		return nil, errors.Wrap(err, "write")
	}
	if err := w.close(ctx); err != nil {
		return nil, errors.Wrap(err, "close")
	}
	span.SetAttributes(otelpack.Written(w.Written()))

	return buf.Bytes(), nil
}
