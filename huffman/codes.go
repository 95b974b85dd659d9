package huffman

import "fmt"

// maxCodeLen bounds code lengths to what fits in a uint64. Reaching depth k
// takes on the order of fib(k) input symbols, so 64 is unreachable for any
// input that fits in memory.
const maxCodeLen = 64

// Code is one prefix code: the Len low bits of Bits, most significant bit
// first. Len is zero for symbols absent from the input.
type Code struct {
	Bits uint64
	Len  uint8
}

// CodeTable maps every byte value to its prefix code.
type CodeTable [256]Code

// NewCodeTable derives the code table from root: descending to a left child
// appends a 0 bit, to a right child a 1. The resulting codes are exactly the
// root-to-leaf paths and therefore prefix-free. Fails if root is a bare leaf
// (a one-symbol tree must arrive wrapped, see NewTree).
func NewCodeTable(root *Node) (CodeTable, error) {
	var ct CodeTable
	if root == nil || root.Leaf() {
		return ct, fmt.Errorf("%w: root must be an internal node", ErrInvalidTree)
	}

	type frame struct {
		n    *Node
		code Code
	}
	stack := make([]frame, 0, maxCodeLen)
	stack = append(stack, frame{root, Code{}})
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if f.n.Leaf() {
			ct[f.n.Symbol] = f.code
			continue
		}
		if f.code.Len == maxCodeLen {
			return CodeTable{}, fmt.Errorf("%w: code longer than %d bits", ErrInvalidTree, maxCodeLen)
		}
		if f.n.Right != nil {
			stack = append(stack, frame{f.n.Right, Code{f.code.Bits<<1 | 1, f.code.Len + 1}})
		}
		if f.n.Left != nil {
			stack = append(stack, frame{f.n.Left, Code{f.code.Bits << 1, f.code.Len + 1}})
		}
	}
	return ct, nil
}
