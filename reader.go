package lz4pack

import (
	"io"

	"github.com/go-faster/lz4pack/frame"
	"github.com/go-faster/lz4pack/internal/compress"
)

// Reader decompresses single frame written by Writer.
//
// Reading stops at end mark, so alignment padding is left unread.
type Reader struct {
	r *compress.Reader
}

// NewReader returns new Reader of frame from r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: compress.NewReader(r)}
}

// Read implements io.Reader.
func (r *Reader) Read(p []byte) (int, error) { return r.r.Read(p) }

// Descriptor of frame, valid after first Read.
func (r *Reader) Descriptor() frame.Descriptor { return r.r.Descriptor() }
