package lz4pack

import (
	"bytes"
	"context"
	"io"
	"math/rand"
	"os"
	"strings"
	"testing"

	"github.com/pierrec/lz4/v4"
	"github.com/stretchr/testify/require"
	tracesdk "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/go-faster/lz4pack/frame"
	"github.com/go-faster/lz4pack/internal/gold"
)

func decode(t testing.TB, data []byte) []byte {
	t.Helper()

	out, err := io.ReadAll(NewReader(bytes.NewReader(data)))
	require.NoError(t, err)
	return out
}

func TestCompress(t *testing.T) {
	r := rand.New(rand.NewSource(10))
	inputs := []struct {
		Name string
		Data []byte
	}{
		{Name: "Empty"},
		{Name: "Byte", Data: []byte{1}},
		{Name: "Text", Data: compressible(r, 300_000)},
		{Name: "Random", Data: randBytes(r, 130_000)},
	}
	for _, c := range []Compression{CompressionLZ4, CompressionLZ4HC, CompressionDisabled} {
		for _, bs := range []frame.BlockSize{frame.Block64KB, frame.Block256KB} {
			for _, in := range inputs {
				t.Run(c.String()+"/"+bs.String()+"/"+in.Name, func(t *testing.T) {
					opt := Options{
						Compression: c,
						BlockSize:   bs,
					}
					out, err := Compress(context.Background(), in.Data, opt)
					require.NoError(t, err)
					require.True(t, bytes.Equal(in.Data, decode(t, out)))

					d, _, err := frame.ParseHeader(out)
					require.NoError(t, err)
					require.Equal(t, frame.Descriptor{
						BlockSize:   bs,
						ContentSize: uint64(len(in.Data)),
					}, d)

					got, err := io.ReadAll(lz4.NewReader(bytes.NewReader(out)))
					require.NoError(t, err)
					require.True(t, bytes.Equal(in.Data, got))
				})
			}
		}
	}
}

func TestCompress_golden(t *testing.T) {
	data := []byte(strings.Repeat("lz4pack golden\n", 10))
	out, err := Compress(context.Background(), data, Options{
		Compression: CompressionDisabled,
		Align:       64,
	})
	require.NoError(t, err)
	gold.Bytes(t, out, "stored.lz4")
}

func TestCompress_tracing(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := tracesdk.NewTracerProvider(tracesdk.WithSyncer(exporter))
	_, err := Compress(context.Background(), compressible(rand.New(rand.NewSource(11)), 1000), Options{
		OpenTelemetryInstrumentation: true,
		TracerProvider:               tp,
	})
	require.NoError(t, err)

	spans := exporter.GetSpans()
	require.Len(t, spans, 2)
	// Child ends first.
	pack, root := spans[0], spans[1]
	require.Equal(t, "Pack", pack.Name)
	require.Equal(t, "Compress", root.Name)
	require.Equal(t, root.SpanContext.SpanID(), pack.Parent.SpanID())
}

func TestWriter(t *testing.T) {
	r := rand.New(rand.NewSource(12))
	data := append(compressible(r, 500_000), randBytes(r, 200_000)...)

	for _, align := range []int{0, 64, 4096} {
		for _, chunk := range []int{1, 64 * 1024, 200_000, 1 << 20} {
			var (
				buf   bytes.Buffer
				stats Stats
			)
			w, err := NewWriter(&buf, Options{
				ChunkSize: chunk,
				Align:     align,
				Stats:     &stats,
			})
			require.NoError(t, err)

			// Random write sizes.
			for p := data; len(p) > 0; {
				n := r.Intn(100_000) + 1
				if n > len(p) {
					n = len(p)
				}
				written, err := w.Write(p[:n])
				require.NoError(t, err)
				require.Equal(t, n, written)
				p = p[n:]

				if align > 0 {
					require.Zero(t, buf.Len()%align, "only aligned prefix is flushed")
				}
			}
			require.NoError(t, w.Close())
			require.NoError(t, w.Close(), "second close is no-op")

			_, err = w.Write([]byte{1})
			require.Error(t, err)

			out := buf.Bytes()
			require.Equal(t, int64(len(out)), w.Written())
			if align > 0 {
				require.Zero(t, len(out)%align)
			}
			require.True(t, bytes.Equal(data, decode(t, out)))
			require.NotZero(t, stats.Blocks.Load())
		}
	}
}

func TestWriter_padding(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, Options{Align: frame.DefaultAlign})
	require.NoError(t, err)
	_, err = w.Write([]byte("hello"))
	require.NoError(t, err)
	require.Zero(t, buf.Len(), "buffered")
	require.NoError(t, w.Close())

	out := buf.Bytes()
	require.Len(t, out, frame.DefaultAlign)
	// Header, block of 5 bytes and end mark.
	size := 7 + 4 + 5 + 4
	require.Equal(t, []byte{0, 0, 0, 0}, out[size-4:size])
	for _, v := range out[size:] {
		require.Zero(t, v)
	}
	require.Equal(t, []byte("hello"), decode(t, out))
}

func TestNewWriter_errors(t *testing.T) {
	for _, opt := range []Options{
		{Align: 100},
		{Align: -64},
		{BlockSize: 3},
	} {
		_, err := NewWriter(io.Discard, opt)
		require.Error(t, err)
	}
}

func TestCompress_badOptions(t *testing.T) {
	_, err := Compress(context.Background(), []byte("data"), Options{Align: 100})
	require.Error(t, err)
	require.Contains(t, err.Error(), "writer: align 100")
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, os.ErrClosed }

func TestWriter_writeError(t *testing.T) {
	w, err := NewWriter(failWriter{}, Options{})
	require.NoError(t, err)
	require.ErrorIs(t, w.Close(), os.ErrClosed)
}

func BenchmarkCompress(b *testing.B) {
	data := compressible(rand.New(rand.NewSource(1)), 8<<20)
	ctx := context.Background()

	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := Compress(ctx, data, Options{}); err != nil {
			b.Fatal(err)
		}
	}
}
