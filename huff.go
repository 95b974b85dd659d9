// Package huff implements a lossless Huffman entropy coder over byte
// streams. Compress analyzes the whole input up front, derives a
// deterministic prefix code and packs the encoded bits together with the
// frequency table into a self-describing container; Decompress rebuilds the
// identical tree from the stored table and reverses the process exactly.
//
// The tree itself is never persisted. Only the frequency table is, because
// it is smaller and tree construction is deterministic (see huffman.NewTree).
//
// Calls are independent and hold no shared state; Compress and Decompress
// may be invoked concurrently on different inputs.
package huff

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/ovrld/huff/bitpack"
	"github.com/ovrld/huff/container"
	"github.com/ovrld/huff/huffman"
)

// Option configures a single Compress or Decompress call.
type Option func(*config)

type config struct {
	log zerolog.Logger
}

// WithLogger makes the call emit a debug event with elapsed time and sizes
// at each pipeline milestone. The default logger discards everything;
// logging is never required for correctness.
func WithLogger(log zerolog.Logger) Option {
	return func(c *config) { c.log = log }
}

func newConfig(opts []Option) config {
	c := config{log: zerolog.Nop()}
	for _, o := range opts {
		o(&c)
	}
	return c
}

// Compress encodes data into a self-describing container.
func Compress(data []byte, opts ...Option) ([]byte, error) {
	cfg := newConfig(opts)
	if len(data) == 0 {
		return nil, ErrEmptyInput
	}

	start := time.Now()
	ft := huffman.CountFrequencies(data)
	cfg.log.Debug().Dur("took", time.Since(start)).Int("distinct", ft.Distinct()).Msg("frequencies counted")

	mark := time.Now()
	root, err := huffman.NewTree(ft)
	if err != nil {
		return nil, err
	}
	cfg.log.Debug().Dur("took", time.Since(mark)).Msg("tree built")

	mark = time.Now()
	codes, err := huffman.NewCodeTable(root)
	if err != nil {
		return nil, err
	}
	cfg.log.Debug().Dur("took", time.Since(mark)).Msg("codes generated")

	mark = time.Now()
	bw := bitpack.NewWriter()
	for _, b := range data {
		c := codes[b]
		bw.WriteBits(c.Bits, c.Len)
	}
	payload, bitCount, err := bw.Bytes()
	if err != nil {
		return nil, err
	}
	cfg.log.Debug().Dur("took", time.Since(mark)).Uint64("bits", bitCount).Msg("payload packed")

	out, err := container.Serialize(ft, bitCount, payload)
	if err != nil {
		return nil, err
	}
	cfg.log.Debug().
		Dur("took", time.Since(start)).
		Int("in", len(data)).
		Int("out", len(out)).
		Msg("container sealed")
	return out, nil
}

// Decompress recovers the exact byte stream Compress was given.
func Decompress(data []byte, opts ...Option) ([]byte, error) {
	cfg := newConfig(opts)

	start := time.Now()
	ft, bitCount, payload, err := container.Parse(data)
	if err != nil {
		return nil, err
	}
	cfg.log.Debug().Dur("took", time.Since(start)).Uint64("bits", bitCount).Msg("container parsed")

	mark := time.Now()
	root, err := huffman.NewTree(ft)
	if err != nil {
		return nil, err
	}
	cfg.log.Debug().Dur("took", time.Since(mark)).Msg("tree rebuilt")

	mark = time.Now()
	out, err := decode(root, ft.Total(), payload, bitCount)
	if err != nil {
		return nil, err
	}
	cfg.log.Debug().Dur("took", time.Since(mark)).Int("out", len(out)).Msg("payload decoded")
	return out, nil
}

// decode walks the significant bits down the tree, emitting a symbol at
// every leaf. The code is prefix-free, so there is at most one valid decode
// at each position and no backtracking is needed.
func decode(root *huffman.Node, total uint64, payload []byte, bitCount uint64) ([]byte, error) {
	br, err := bitpack.NewReader(payload, bitCount)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	// Every code is at least one bit long, so a table whose counts sum past
	// the bit count can never decode. Rejecting it here also keeps the
	// attacker-controlled total from sizing the allocation below.
	if total > bitCount {
		return nil, fmt.Errorf("%w: %d symbols cannot fit in %d bits", ErrDecode, total, bitCount)
	}

	out := make([]byte, 0, total)
	n := root
	for {
		bit, err := br.ReadBit()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDecode, err)
		}
		if bit {
			n = n.Right
		} else {
			n = n.Left
		}
		if n == nil {
			return nil, fmt.Errorf("%w: no code at bit offset %d", ErrDecode, bitCount-br.Remaining())
		}
		if n.Leaf() {
			out = append(out, n.Symbol)
			n = root
		}
	}
	if n != root {
		return nil, fmt.Errorf("%w: stream ends mid-code", ErrDecode)
	}
	if uint64(len(out)) != total {
		return nil, fmt.Errorf("%w: decoded %d symbols, frequency table promises %d", ErrDecode, len(out), total)
	}
	return out, nil
}
