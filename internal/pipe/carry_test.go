package pipe

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWordCarry(t *testing.T) {
	t.Run("Bytes", func(t *testing.T) {
		var (
			c   wordCarry
			out []uint64
		)
		for i := 1; i <= 12; i++ {
			c.put(uint64(i), 1)
			if c.full() {
				out = append(out, c.shift())
			}
		}
		require.Equal(t, []uint64{0x0807060504030201}, out)
		require.Equal(t, uint32(4), c.n)
		require.Equal(t, uint64(0x0c0b0a09), c.shift())
		require.Zero(t, c.n)
	})
	t.Run("Straddle", func(t *testing.T) {
		var c wordCarry
		c.put(0xAABBCC, 3)
		c.put(0x1122334455667788, 8)
		require.True(t, c.full())
		require.Equal(t, uint64(0x44556677_88AABBCC), c.shift())
		require.Equal(t, uint32(3), c.n)
		require.Equal(t, uint64(0x112233), c.shift())
	})
	t.Run("Mask", func(t *testing.T) {
		var c wordCarry
		c.put(0xFFFFFFFFFFFFFFFF, 2)
		c.put(0x01, 1)
		require.Equal(t, uint32(3), c.n)
		require.Equal(t, uint64(0x01FFFF), c.lo)
		require.Zero(t, c.hi)
	})
	t.Run("Full", func(t *testing.T) {
		var c wordCarry
		c.put(1, 8)
		require.Panics(t, func() { c.put(1, 1) })
	})
}

func TestLineCarry(t *testing.T) {
	var (
		c   lineCarry
		out []Line
	)
	for i := 0; i < 10; i++ {
		c.put(uint64(i) * 0x0101010101010101)
		if c.full() {
			out = append(out, c.shift())
		}
	}
	require.Len(t, out, 1)
	for i := 0; i < LineSize; i++ {
		require.Equal(t, byte(i/WordSize), out[0][i])
	}
	require.Equal(t, uint32(2*WordSize), c.n)
	last := c.shift()
	require.Equal(t, byte(8), last[0])
	require.Equal(t, byte(9), last[WordSize])
	require.Zero(t, last[2*WordSize])
	require.Zero(t, c.n)
}
