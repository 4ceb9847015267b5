package compress

import (
	"io"

	"github.com/go-faster/errors"
	"github.com/pierrec/lz4/v4"

	"github.com/go-faster/lz4pack/frame"
)

// Reader decompresses single frame.
//
// Anything after end mark, like alignment padding, is not read.
type Reader struct {
	reader io.Reader
	desc   frame.Descriptor
	data   []byte
	pos    int
	raw    []byte
	prefix [blockPrefixSize]byte
	total  uint64

	started bool
	done    bool
}

// Descriptor returns frame descriptor, valid after first Read.
func (c *Reader) Descriptor() frame.Descriptor { return c.desc }

// readBlock reads next block into raw and decompresses into data.
func (c *Reader) readBlock() error {
	c.pos = 0
	c.data = c.data[:0]

	if !c.started {
		d, err := frame.ReadHeader(c.reader)
		if err != nil {
			return errors.Wrap(err, "header")
		}
		c.desc = d
		c.started = true
	}

	if _, err := io.ReadFull(c.reader, c.prefix[:]); err != nil {
		return errors.Wrap(err, "block size")
	}
	word := bin.Uint32(c.prefix[:])
	if word == frame.EndMark {
		c.done = true
		if c.desc.ContentSize > 0 && c.total != c.desc.ContentSize {
			return errors.Errorf("content size mismatch: got %d, expected %d", c.total, c.desc.ContentSize)
		}
		return nil
	}

	var (
		size    = int(word & frame.SizeMask)
		maxSize = c.desc.BlockSize.Bytes()
	)
	if size > maxSize {
		return errors.Errorf("block size should be %d < %d <= %d", 0, size, maxSize)
	}
	if word&frame.Uncompressed != 0 {
		c.data = append(c.data[:0], make([]byte, size)...)
		if _, err := io.ReadFull(c.reader, c.data); err != nil {
			return errors.Wrap(err, "read stored")
		}
	} else {
		c.raw = append(c.raw[:0], make([]byte, size)...)
		if _, err := io.ReadFull(c.reader, c.raw); err != nil {
			return errors.Wrap(err, "read raw")
		}
		c.data = append(c.data[:0], make([]byte, maxSize)...)
		n, err := lz4.UncompressBlock(c.raw, c.data)
		if err != nil {
			return errors.Wrap(err, "lz4")
		}
		c.data = c.data[:n]
	}
	c.total += uint64(len(c.data))

	return nil
}

// Read implements io.Reader.
func (c *Reader) Read(p []byte) (n int, err error) {
	for c.pos >= len(c.data) {
		if c.done {
			return 0, io.EOF
		}
		if err := c.readBlock(); err != nil {
			return 0, errors.Wrap(err, "read next block")
		}
	}
	n = copy(p, c.data[c.pos:])
	c.pos += n
	return n, nil
}

// NewReader returns new frame Reader.
func NewReader(r io.Reader) *Reader {
	return &Reader{
		reader: r,
	}
}
