package pipe

// wordCarry is a two-word shift register.
//
// Bytes are appended at offset n; once n reaches WordSize the low word
// is emitted and the register is shifted right by one word. All bits at
// and above offset n are zero.
type wordCarry struct {
	lo, hi uint64
	n      uint32 // occupancy in bytes
}

// put appends k low bytes of v, 1 <= k <= WordSize.
//
// Occupancy must be less than WordSize before call.
func (c *wordCarry) put(v uint64, k uint32) {
	if c.n >= WordSize {
		panic("carry: put on full register")
	}
	if k < WordSize {
		v &= 1<<(k*8) - 1
	}
	s := c.n * 8
	c.lo |= v << s
	if s > 0 {
		c.hi |= v >> (64 - s)
	}
	c.n += k
}

// full reports whether low word is ready.
func (c *wordCarry) full() bool { return c.n >= WordSize }

// shift drops low word, returning it.
func (c *wordCarry) shift() uint64 {
	v := c.lo
	c.lo, c.hi = c.hi, 0
	if c.n >= WordSize {
		c.n -= WordSize
	} else {
		c.n = 0
	}
	return v
}

var zeroLine Line

// lineCarry is a two-line shift register used to widen words into lines.
type lineCarry struct {
	buf [2 * LineSize]byte
	n   uint32
}

// put appends word at current offset.
func (c *lineCarry) put(v uint64) {
	if c.n > LineSize {
		panic("carry: put on full register")
	}
	bin.PutUint64(c.buf[c.n:], v)
	c.n += WordSize
}

func (c *lineCarry) full() bool { return c.n >= LineSize }

// shift drops low line, returning it.
func (c *lineCarry) shift() Line {
	var l Line
	copy(l[:], c.buf[:LineSize])
	copy(c.buf[:LineSize], c.buf[LineSize:])
	copy(c.buf[LineSize:], zeroLine[:])
	if c.n >= LineSize {
		c.n -= LineSize
	} else {
		c.n = 0
	}
	return l
}
