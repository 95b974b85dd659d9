// Package container defines the versioned binary layout that carries a
// compressed payload together with the frequency table needed to decode it.
//
// Layout (multi-byte integers are unsigned varints, encoding/binary style):
//
//	[version:     1 byte]  currently 0x01
//	[entry_count: uvarint] number of (symbol, count) pairs, > 0
//	entry_count × { [symbol: 1 byte] [count: uvarint, > 0] }
//	[bit_count:   uvarint] significant bits in the payload
//	[payload:     ceil(bit_count/8) bytes, to the end of the buffer]
//
// Symbols appear in strictly ascending order. Every length is explicit;
// nothing is delimited by a marker value, since any byte value can occur
// legitimately inside counts or payload.
package container

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/bits-and-blooms/bitset"

	"github.com/ovrld/huff/huffman"
)

// Version is the only container revision this package reads or writes.
const Version = 0x01

// ErrCorruptHeader reports a buffer that fails structural validation: a bad
// version tag, lengths inconsistent with the remaining buffer, or an empty
// or malformed frequency table.
var ErrCorruptHeader = errors.New("container: corrupt header")

// Serialize encodes the frequency table and packed payload. bitCount is the
// number of significant bits in payload and must account for exactly
// len(payload) bytes.
func Serialize(ft *huffman.FrequencyTable, bitCount uint64, payload []byte) ([]byte, error) {
	if ft.Distinct() == 0 {
		return nil, errors.New("container: empty frequency table")
	}
	if want := bytesForBits(bitCount); want != uint64(len(payload)) {
		return nil, fmt.Errorf("container: %d bits require %d payload bytes, got %d", bitCount, want, len(payload))
	}

	syms := ft.Symbols()
	out := make([]byte, 0, 1+binary.MaxVarintLen64*(len(syms)+2)+len(syms)+len(payload))
	out = append(out, Version)
	out = binary.AppendUvarint(out, uint64(len(syms)))
	for _, s := range syms {
		out = append(out, s)
		out = binary.AppendUvarint(out, ft.Count(s))
	}
	out = binary.AppendUvarint(out, bitCount)
	out = append(out, payload...)
	return out, nil
}

// Parse is the exact inverse of Serialize. The returned payload aliases data.
func Parse(data []byte) (*huffman.FrequencyTable, uint64, []byte, error) {
	if len(data) == 0 {
		return nil, 0, nil, fmt.Errorf("%w: empty buffer", ErrCorruptHeader)
	}
	if data[0] != Version {
		return nil, 0, nil, fmt.Errorf("%w: unknown version %#x", ErrCorruptHeader, data[0])
	}

	rest := data[1:]
	entries, rest, err := readUvarint(rest, "entry count")
	if err != nil {
		return nil, 0, nil, err
	}
	if entries == 0 {
		return nil, 0, nil, fmt.Errorf("%w: empty frequency table", ErrCorruptHeader)
	}
	if entries > 256 {
		return nil, 0, nil, fmt.Errorf("%w: %d entries for a byte alphabet", ErrCorruptHeader, entries)
	}

	ft := &huffman.FrequencyTable{}
	seen := bitset.New(256)
	for i := uint64(0); i < entries; i++ {
		if len(rest) == 0 {
			return nil, 0, nil, fmt.Errorf("%w: truncated at entry %d of %d", ErrCorruptHeader, i, entries)
		}
		sym := rest[0]
		rest = rest[1:]

		var count uint64
		count, rest, err = readUvarint(rest, "count")
		if err != nil {
			return nil, 0, nil, err
		}
		if count == 0 {
			return nil, 0, nil, fmt.Errorf("%w: zero count for symbol %#x", ErrCorruptHeader, sym)
		}
		if seen.Test(uint(sym)) {
			return nil, 0, nil, fmt.Errorf("%w: duplicate symbol %#x", ErrCorruptHeader, sym)
		}
		// strictly ascending order: no already-seen symbol may be above sym
		if higher, ok := seen.NextSet(uint(sym)); ok {
			return nil, 0, nil, fmt.Errorf("%w: symbol %#x out of order after %#x", ErrCorruptHeader, sym, higher)
		}
		seen.Set(uint(sym))

		if err := ft.Set(sym, count); err != nil {
			return nil, 0, nil, fmt.Errorf("%w: %v", ErrCorruptHeader, err)
		}
	}

	bitCount, rest, err := readUvarint(rest, "bit count")
	if err != nil {
		return nil, 0, nil, err
	}
	if bitCount > uint64(len(rest))*8 || bytesForBits(bitCount) != uint64(len(rest)) {
		return nil, 0, nil, fmt.Errorf("%w: %d bits inconsistent with %d payload bytes", ErrCorruptHeader, bitCount, len(rest))
	}
	return ft, bitCount, rest, nil
}

func readUvarint(p []byte, field string) (uint64, []byte, error) {
	v, n := binary.Uvarint(p)
	if n <= 0 {
		return 0, nil, fmt.Errorf("%w: bad %s", ErrCorruptHeader, field)
	}
	return v, p[n:], nil
}

func bytesForBits(n uint64) uint64 { return (n + 7) / 8 }
