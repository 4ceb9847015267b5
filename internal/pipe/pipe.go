// Package pipe implements the dataflow pipeline that packs blocks into
// container stream.
//
// Five stages run concurrently and talk only through bounded channels:
//
//	readBlocks -> downsize -> pack -> upsize -> writeLines
//
// Every data channel is paired with a length channel. A length is always
// sent before the data it describes, and the stream of lengths is
// terminated by a single zero. Lengths from reader and downsizer describe
// blocks, one per block; lengths from packer on describe bursts and zero
// bursts are never announced.
package pipe

import (
	"context"
	"encoding/binary"
	"fmt"

	"go.uber.org/atomic"
)

const (
	// LineSize is the memory line width in bytes (512 bits).
	LineSize = 64
	// WordSize is the processing word width in bytes (64 bits).
	WordSize = 8
	// BurstSize is the number of lines read from memory in one burst.
	BurstSize = 16
	// Depth of every channel in pipeline.
	Depth = 2 * BurstSize

	// Stored marks length of block that was not compressed.
	Stored uint32 = 0x80000000
	// SizeMask extracts byte count from length value.
	SizeMask uint32 = 0x7FFFFFFF

	// prefixSize is the length of block size prefix.
	prefixSize = 4
	// end of length stream.
	end = 0
)

var bin = binary.LittleEndian

// Line is a single memory line.
type Line [LineSize]byte

// lines returns number of lines that hold n bytes.
func lines(n uint32) uint32 {
	if n == 0 {
		return 0
	}
	return (n-1)/LineSize + 1
}

// words returns number of processing words that hold n bytes.
func words(n uint32) uint32 {
	if n == 0 {
		return 0
	}
	return (n-1)/WordSize + 1
}

// Stats of single pipeline run.
//
// Counters are safe to read while pipeline is running.
type Stats struct {
	LinesRead    atomic.Uint64 // lines read from source regions
	WordsIn      atomic.Uint64 // words produced by downsizer
	WordsOut     atomic.Uint64 // words produced by packer
	LinesWritten atomic.Uint64 // lines written to destination
	Blocks       atomic.Uint64 // blocks processed by packer, header included
}

func send[T any](ctx context.Context, ch chan<- T, v T) error {
	select {
	case ch <- v:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func recv[T any](ctx context.Context, ch <-chan T) (T, error) {
	select {
	case v := <-ch:
		return v, nil
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// expectEnd reads length that must be end of stream.
func expectEnd(ctx context.Context, stage string, ch <-chan uint32) error {
	v, err := recv(ctx, ch)
	if err != nil {
		return err
	}
	if v != end {
		panic(fmt.Sprintf("%s: protocol violation: got length %d, expected end of stream", stage, v))
	}
	return nil
}
