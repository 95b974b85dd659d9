package huff

import "errors"

var (
	// ErrEmptyInput is returned by Compress when there is nothing to encode.
	// An empty container has no valid frequency table, so compressing zero
	// bytes is defined as an error rather than a no-op.
	ErrEmptyInput = errors.New("huff: empty input")

	// ErrDecode is returned by Decompress when the payload bits do not
	// resolve to a complete, valid sequence of codes for the stored
	// frequency table.
	ErrDecode = errors.New("huff: corrupt payload")
)
