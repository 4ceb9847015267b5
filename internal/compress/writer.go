package compress

import (
	"github.com/go-faster/errors"
	"github.com/pierrec/lz4/v4"
)

// Blocks is a chunk of input compressed block by block.
//
// Compressed block i is stored in Data at offset i*blockSize, so every
// block has its own slot of nominal block size. A block whose compressed
// size equals its original size was stored: its slot is left untouched
// and its bytes are taken from the original input.
type Blocks struct {
	Data       []byte
	Compressed []uint32
	Original   []uint32
}

// Stored reports number of stored blocks.
func (b *Blocks) Stored() int {
	var n int
	for i, v := range b.Compressed {
		if v == b.Original[i] {
			n++
		}
	}
	return n
}

// Writer compresses blocks.
type Writer struct {
	buf []byte

	lz4   *lz4.Compressor
	lz4hc *lz4.CompressorHC
}

// Compress splits input into blocks of blockSize and compresses each of
// them into b.
func (w *Writer) Compress(m Method, blockSize int, input []byte, b *Blocks) error {
	if blockSize <= 0 || blockSize > maxBlockSize {
		return errors.Errorf("block size should be %d < %d <= %d", 0, blockSize, maxBlockSize)
	}
	n := (len(input) + blockSize - 1) / blockSize
	b.Data = append(b.Data[:0], make([]byte, n*blockSize)...)
	b.Compressed = b.Compressed[:0]
	b.Original = b.Original[:0]

	bound := lz4.CompressBlockBound(blockSize)
	if cap(w.buf) < bound {
		w.buf = make([]byte, bound)
	}
	for i := 0; i < n; i++ {
		start := i * blockSize
		end := start + blockSize
		if end > len(input) {
			end = len(input)
		}
		src := input[start:end]

		size, err := w.block(m, src, w.buf[:bound])
		if err != nil {
			return errors.Wrapf(err, "block %d", i)
		}
		if size == 0 || size >= len(src) {
			// Incompressible, store as is.
			size = len(src)
		} else {
			copy(b.Data[start:], w.buf[:size])
		}
		b.Compressed = append(b.Compressed, uint32(size))
		b.Original = append(b.Original, uint32(len(src)))
	}

	return nil
}

// block compresses src into dst, returning zero if src was not compressed.
func (w *Writer) block(m Method, src, dst []byte) (int, error) {
	switch m {
	case LZ4:
		if w.lz4 == nil {
			return 0, errors.Errorf("writer was not configured to accept method: %v", m)
		}
		return w.lz4.CompressBlock(src, dst)
	case LZ4HC:
		if w.lz4hc == nil {
			return 0, errors.Errorf("writer was not configured to accept method: %v", m)
		}
		return w.lz4hc.CompressBlock(src, dst)
	case None:
		return 0, nil
	default:
		return 0, errors.Errorf("unsupported compression method: %v", m)
	}
}

// NewWriterWithMethods creates a new Writer with the specified compression
// level that supports only the specified methods.
func NewWriterWithMethods(l Level, m ...Method) *Writer {
	w := &Writer{}
	for _, method := range m {
		switch method {
		case LZ4:
			w.lz4 = &lz4.Compressor{}
		case LZ4HC:
			level := l
			if level == 0 {
				level = CompressionLevelLZ4HCDefault
			} else if level > CompressionLevelLZ4HCMax {
				level = CompressionLevelLZ4HCMax
			}
			w.lz4hc = &lz4.CompressorHC{Level: lz4.CompressionLevel(1 << (8 + level))}
		case None:
			// Nothing to do.
		default:
			panic(errors.Errorf("unsupported compression method: %v", method))
		}
	}
	return w
}

// NewWriterWithLevel creates a new Writer with the specified compression
// level that supports all methods.
func NewWriterWithLevel(l Level) *Writer {
	return NewWriterWithMethods(l, MethodValues()...)
}

// NewWriter creates a new Writer with compression level 0 that supports
// all methods.
func NewWriter() *Writer {
	return NewWriterWithLevel(0)
}
