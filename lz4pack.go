// Package lz4pack packs independently compressed blocks into LZ4 frames.
//
// Packing runs as a pipeline of concurrent stages connected by bounded
// channels, see Pack. Writer and Compress build complete frames on top of
// it.
package lz4pack

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/go-faster/lz4pack/frame"
	"github.com/go-faster/lz4pack/internal/compress"
	"github.com/go-faster/lz4pack/internal/pipe"
	"github.com/go-faster/lz4pack/otelpack"
)

// Compression of blocks.
type Compression byte

const (
	// CompressionLZ4 is fast LZ4 compression.
	CompressionLZ4 Compression = iota
	// CompressionLZ4HC is high compression LZ4. Slow, better ratio.
	CompressionLZ4HC
	// CompressionDisabled stores every block as is.
	CompressionDisabled
)

func (c Compression) String() string { return c.method().String() }

func (c Compression) method() compress.Method {
	switch c {
	case CompressionLZ4HC:
		return compress.LZ4HC
	case CompressionDisabled:
		return compress.None
	default:
		return compress.LZ4
	}
}

// ParseCompression parses compression name: "lz4", "lz4hc" or "none".
func ParseCompression(s string) (Compression, bool) {
	for _, c := range []Compression{CompressionLZ4, CompressionLZ4HC, CompressionDisabled} {
		if c.String() == s {
			return c, true
		}
	}
	return 0, false
}

// Stats are transfer counters of pipeline stages.
//
// Safe to read while packing is in progress.
type Stats = pipe.Stats

// Options for Pack, Writer and Compress.
type Options struct {
	Logger *zap.Logger

	// Compression of blocks, used by Writer.
	Compression Compression
	// Level of LZ4HC compression, zero is default.
	Level uint32
	// BlockSize is the maximum uncompressed block size, 64KB by default.
	BlockSize frame.BlockSize
	// ChunkSize is the amount of input packed in one pipeline run,
	// rounded up to block size. Default is 4MB.
	ChunkSize int
	// Align is the alignment of output in bytes, must be multiple of 64.
	// Output is flushed in multiples of Align and final frame is padded
	// with zeroes up to Align. Zero disables alignment.
	Align int
	// ContentSize to put in frame header, zero to omit.
	ContentSize uint64

	// Stats receives transfer counters, optional.
	Stats *Stats

	// Enables OpenTelemetry tracing.
	OpenTelemetryInstrumentation bool
	TracerProvider               trace.TracerProvider
}

const defaultChunkSize = 4 << 20

func (o *Options) setDefaults() {
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.BlockSize == 0 {
		o.BlockSize = frame.Block64KB
	}
	if o.ChunkSize <= 0 {
		o.ChunkSize = defaultChunkSize
	}
	if bs := o.BlockSize.Bytes(); o.BlockSize.IsValid() && o.ChunkSize%bs != 0 {
		o.ChunkSize += bs - o.ChunkSize%bs
	}
	if o.Stats == nil {
		o.Stats = new(Stats)
	}
	if o.TracerProvider == nil {
		o.TracerProvider = otel.GetTracerProvider()
	}
}

func (o *Options) tracer() trace.Tracer {
	tp := o.TracerProvider
	if !o.OpenTelemetryInstrumentation {
		tp = trace.NewNoopTracerProvider()
	}
	return tp.Tracer(otelpack.Name,
		trace.WithInstrumentationVersion(otelpack.SemVersion()),
	)
}
