package bitpack

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterPacksMSBFirst(t *testing.T) {
	w := NewWriter()
	w.WriteBits(0b101, 3)
	w.WriteBits(0b1, 1)
	assert.Equal(t, uint64(4), w.BitCount())

	p, n, err := w.Bytes()
	require.NoError(t, err)
	assert.Equal(t, uint64(4), n)
	assert.Equal(t, []byte{0b1011_0000}, p)
}

func TestWriterPadsFinalByte(t *testing.T) {
	w := NewWriter()
	w.WriteBits(0b1111_0001, 8)
	w.WriteBits(0, 1)

	p, n, err := w.Bytes()
	require.NoError(t, err)
	assert.Equal(t, uint64(9), n)
	assert.Equal(t, []byte{0xf1, 0x00}, p)
}

func TestEmptyWriter(t *testing.T) {
	p, n, err := NewWriter().Bytes()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), n)
	assert.Empty(t, p)
}

func TestReaderStopsAtBitCount(t *testing.T) {
	// 9 significant bits out of 16; the 7 padding bits are set to ones to
	// prove they are never surfaced.
	r, err := NewReader([]byte{0xf1, 0xff}, 9)
	require.NoError(t, err)

	want := []bool{true, true, true, true, false, false, false, true, true}
	for i, expect := range want {
		assert.Equal(t, uint64(len(want)-i), r.Remaining())
		bit, err := r.ReadBit()
		require.NoError(t, err)
		assert.Equal(t, expect, bit, "bit %d", i)
	}

	_, err = r.ReadBit()
	require.ErrorIs(t, err, io.EOF)
	assert.Equal(t, uint64(0), r.Remaining())
}

func TestReaderRejectsOversizedBitCount(t *testing.T) {
	_, err := NewReader([]byte{0xff}, 9)
	require.Error(t, err)
}

func TestRoundTrip(t *testing.T) {
	w := NewWriter()
	codes := []struct {
		bits uint64
		n    uint8
	}{
		{0b0, 1}, {0b10, 2}, {0b110011, 6}, {0b1, 1}, {0b11111111111, 11},
	}
	var flat []bool
	for _, c := range codes {
		w.WriteBits(c.bits, c.n)
		for i := int(c.n) - 1; i >= 0; i-- {
			flat = append(flat, c.bits>>uint(i)&1 == 1)
		}
	}

	p, n, err := w.Bytes()
	require.NoError(t, err)
	require.Equal(t, uint64(len(flat)), n)
	require.Len(t, p, (len(flat)+7)/8)

	r, err := NewReader(p, n)
	require.NoError(t, err)
	for i, expect := range flat {
		bit, err := r.ReadBit()
		require.NoError(t, err)
		assert.Equal(t, expect, bit, "bit %d", i)
	}
	_, err = r.ReadBit()
	require.ErrorIs(t, err, io.EOF)
}
