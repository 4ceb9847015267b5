package lz4pack

import (
	"context"

	"github.com/go-faster/errors"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/go-faster/lz4pack/internal/pipe"
	"github.com/go-faster/lz4pack/otelpack"
)

// Input of Pack.
//
// Block 0 is HeaderSize bytes of Header starting at Offset. Payload block
// i is CompressedSizes[i] bytes at offset i*BlockSizeKB*1024 of Original
// if it was stored (compressed size equals original size) and of
// Compressed otherwise.
type Input struct {
	Header     []byte
	HeaderSize uint32
	// Offset into Header, multiple of 64.
	Offset uint32

	Original   []byte
	Compressed []byte

	CompressedSizes []uint32
	OriginalSizes   []uint32
	BlockSizeKB     uint32

	// Tail appends empty block that ends frame.
	Tail bool
	// MarkStored sets uncompressed bit in size prefix of stored blocks.
	MarkStored bool
}

func (in Input) job() *pipe.Job {
	return &pipe.Job{
		Header:          in.Header,
		Original:        in.Original,
		Compressed:      in.Compressed,
		CompressedSizes: in.CompressedSizes,
		OriginalSizes:   in.OriginalSizes,
		HeaderSize:      in.HeaderSize,
		Offset:          in.Offset,
		BlockSizeKB:     in.BlockSizeKB,
		Tail:            in.Tail,
		MarkStored:      in.MarkStored,
	}
}

// Result of Pack.
type Result struct {
	// Size is the number of bytes of header, block size prefixes and
	// block payloads. Tail marker is not included.
	Size uint32
	// Written is the number of meaningful bytes in destination.
	Written int
	// Lines of 64 bytes written to destination.
	Lines int
}

// PackBound returns destination size required to Pack in.
func PackBound(in Input) int { return in.job().Bound() }

// Pack lays out header and blocks of in into dst:
//
//	[header][size][block]...[size][block][0 0 0 0]
//
// where size is 4-byte little-endian compressed size of following block
// and zero size is appended only with Tail.
//
// Destination must be at least PackBound(in) bytes long to hold padding of
// the last line, otherwise padding is truncated.
func Pack(ctx context.Context, dst []byte, in Input, opt Options) (res Result, rerr error) {
	opt.setDefaults()

	j := in.job()
	if err := j.Validate(dst); err != nil {
		return Result{}, errors.Wrap(err, "validate")
	}

	var stored int
	for i := range in.CompressedSizes {
		if j.IsStored(i) {
			stored++
		}
	}
	ctx, span := opt.tracer().Start(ctx, "Pack",
		trace.WithAttributes(
			otelpack.Blocks(len(in.CompressedSizes)),
			otelpack.Stored(stored),
			otelpack.HeaderSize(int(in.HeaderSize)),
		),
	)
	defer func() {
		if rerr != nil {
			span.RecordError(rerr)
			span.SetStatus(codes.Error, rerr.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}
		span.End()
	}()

	r, err := pipe.Run(ctx, j, dst, opt.Stats, opt.Logger)
	if err != nil {
		return Result{}, errors.Wrap(err, "run")
	}
	res = Result{
		Size:    r.Size,
		Written: int(j.Written()),
		Lines:   int(r.Lines),
	}
	span.SetAttributes(
		otelpack.Size(int64(res.Size)),
		otelpack.Written(int64(res.Written)),
	)

	return res, nil
}
