package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestRun(t *testing.T) {
	var (
		dir    = t.TempDir()
		input  = filepath.Join(dir, "input")
		packed = filepath.Join(dir, "input.lz4")
		output = filepath.Join(dir, "output")
		data   = bytes.Repeat([]byte("lz4-pack round trip\n"), 10_000)
		ctx    = context.Background()
		lg     = zaptest.NewLogger(t)
	)
	require.NoError(t, os.WriteFile(input, data, 0o600))

	for _, method := range []string{"lz4", "lz4hc", "none"} {
		t.Run(method, func(t *testing.T) {
			require.NoError(t, run(ctx, lg, arguments{
				BlockKB: 64,
				Method:  method,
				Align:   4096,
				Input:   input,
				Output:  packed,
			}))
			st, err := os.Stat(packed)
			require.NoError(t, err)
			require.Zero(t, st.Size()%4096)

			require.NoError(t, run(ctx, lg, arguments{
				Decompress: true,
				Input:      packed,
				Output:     output,
			}))
			got, err := os.ReadFile(output)
			require.NoError(t, err)
			require.Equal(t, data, got)
		})
	}
	t.Run("BadMethod", func(t *testing.T) {
		require.Error(t, run(ctx, lg, arguments{
			BlockKB: 64,
			Method:  "zstd",
			Input:   input,
			Output:  packed,
		}))
	})
	t.Run("BadBlockSize", func(t *testing.T) {
		require.Error(t, run(ctx, lg, arguments{
			BlockKB: 100,
			Method:  "lz4",
			Input:   input,
			Output:  packed,
		}))
	})
}
