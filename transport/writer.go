package transport

import (
	"bufio"
	"io"
	"strconv"
	"sync"
)

// Delimiters of the raw ascii format.
const (
	BarDelim   = ';'
	FrameDelim = '\n'
)

// Writer prints frames as text. With a positive ascii range every value is
// scaled to an integer in [0, range] and joined by BarDelim, otherwise values
// are printed as %6.3f floats separated by spaces.
type Writer struct {
	mu  sync.Mutex
	w   *bufio.Writer
	c   io.Closer
	rng int
	buf []byte
}

// NewWriter wraps w. If w is an io.Closer, Close closes it.
func NewWriter(w io.Writer, asciiRange int) *Writer {
	wr := &Writer{
		w:   bufio.NewWriter(w),
		rng: asciiRange,
	}

	if c, ok := w.(io.Closer); ok {
		wr.c = c
	}

	return wr
}

// Write prints one frame and flushes it.
func (wr *Writer) Write(values []float64) error {
	wr.mu.Lock()
	defer wr.mu.Unlock()

	wr.buf = wr.format(wr.buf[:0], values)

	if _, err := wr.w.Write(wr.buf); err != nil {
		return err
	}

	return wr.w.Flush()
}

func (wr *Writer) format(dst []byte, values []float64) []byte {
	if wr.rng <= 0 {
		for i, v := range values {
			if i > 0 {
				dst = append(dst, ' ')
			}
			dst = appendFloat(dst, v)
		}
		return append(dst, FrameDelim)
	}

	for _, v := range values {
		n := int(v * float64(wr.rng))
		switch {
		case n < 0:
			n = 0
		case n > wr.rng:
			n = wr.rng
		}

		dst = strconv.AppendInt(dst, int64(n), 10)
		dst = append(dst, BarDelim)
	}

	return append(dst, FrameDelim)
}

// appendFloat matches fmt's %6.3f.
func appendFloat(dst []byte, v float64) []byte {
	start := len(dst)
	dst = strconv.AppendFloat(dst, v, 'f', 3, 64)

	for pad := 6 - (len(dst) - start); pad > 0; pad-- {
		dst = append(dst, 0)
		copy(dst[start+1:], dst[start:])
		dst[start] = ' '
	}

	return dst
}

// Close flushes and closes the underlying writer.
func (wr *Writer) Close() error {
	wr.mu.Lock()
	defer wr.mu.Unlock()

	err := wr.w.Flush()

	if wr.c != nil {
		if cerr := wr.c.Close(); err == nil {
			err = cerr
		}
	}

	return err
}
