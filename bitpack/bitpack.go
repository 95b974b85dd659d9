// Package bitpack turns prefix-code bitstreams into byte buffers and back.
// Bits are packed most significant first and the final byte is zero padded;
// an explicit significant-bit count, not a sentinel, tells the reader where
// the padding starts.
package bitpack

import (
	"bytes"
	"fmt"
	"io"

	"github.com/icza/bitio"
)

// Writer accumulates an MSB-first bitstream in memory.
type Writer struct {
	buf  bytes.Buffer
	bw   *bitio.Writer
	bits uint64
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer {
	w := &Writer{}
	w.bw = bitio.NewWriter(&w.buf)
	return w
}

// WriteBits appends the n lowest bits of bits, most significant first.
// bits must not have bits set above position n-1.
func (w *Writer) WriteBits(bits uint64, n uint8) {
	w.bw.TryWriteBits(bits, n)
	w.bits += uint64(n)
}

// BitCount returns the number of bits written so far.
func (w *Writer) BitCount() uint64 { return w.bits }

// Bytes zero-pads the final byte and returns the packed buffer together with
// the exact count of significant bits. The Writer must not be used afterwards.
func (w *Writer) Bytes() ([]byte, uint64, error) {
	if w.bw.TryError != nil {
		return nil, 0, w.bw.TryError
	}
	if err := w.bw.Close(); err != nil {
		return nil, 0, err
	}
	return w.buf.Bytes(), w.bits, nil
}

// Reader yields the significant bits of a packed buffer one at a time and
// reports io.EOF once bitCount bits have been read, so padding in the final
// byte is never observable.
type Reader struct {
	br        *bitio.Reader
	remaining uint64
}

// NewReader returns a Reader over the first bitCount bits of p.
func NewReader(p []byte, bitCount uint64) (*Reader, error) {
	if bitCount > uint64(len(p))*8 {
		return nil, fmt.Errorf("bitpack: %d bits do not fit in %d bytes", bitCount, len(p))
	}
	return &Reader{br: bitio.NewReader(bytes.NewReader(p)), remaining: bitCount}, nil
}

// ReadBit returns the next significant bit, or io.EOF when all have been
// consumed.
func (r *Reader) ReadBit() (bool, error) {
	if r.remaining == 0 {
		return false, io.EOF
	}
	b, err := r.br.ReadBool()
	if err != nil {
		return false, err
	}
	r.remaining--
	return b, nil
}

// Remaining reports how many significant bits are left to read.
func (r *Reader) Remaining() uint64 { return r.remaining }
