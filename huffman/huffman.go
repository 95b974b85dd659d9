// Package huffman builds deterministic Huffman trees and prefix-code tables
// from byte frequency tables. Determinism is part of the contract: the same
// frequency table always yields the identical tree, so a decoder can rebuild
// the encoder's tree from the persisted table alone.
package huffman

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput reports a frequency table no tree can be built from.
	ErrInvalidInput = errors.New("huffman: invalid input")

	// ErrInvalidTree reports a malformed tree handed to the code generator.
	// Hitting it indicates a bug in the caller, not bad user data.
	ErrInvalidTree = errors.New("huffman: invalid tree")
)

// FrequencyTable counts how often each byte value occurs in an input.
type FrequencyTable struct {
	counts   [256]uint64
	distinct int
	total    uint64
}

// CountFrequencies tallies the symbols of data in a single pass.
func CountFrequencies(data []byte) *FrequencyTable {
	var ft FrequencyTable
	for _, b := range data {
		if ft.counts[b] == 0 {
			ft.distinct++
		}
		ft.counts[b]++
	}
	ft.total = uint64(len(data))
	return &ft
}

// Set records the count for sym. It is meant for reconstructing a table from
// a parsed container and rejects zero counts and already-present symbols.
func (ft *FrequencyTable) Set(sym byte, count uint64) error {
	if count == 0 {
		return fmt.Errorf("%w: zero count for symbol %#x", ErrInvalidInput, sym)
	}
	if ft.counts[sym] != 0 {
		return fmt.Errorf("%w: duplicate symbol %#x", ErrInvalidInput, sym)
	}
	ft.counts[sym] = count
	ft.distinct++
	ft.total += count
	return nil
}

// Count returns the number of occurrences recorded for sym.
func (ft *FrequencyTable) Count(sym byte) uint64 { return ft.counts[sym] }

// Distinct returns the number of symbols with a nonzero count.
func (ft *FrequencyTable) Distinct() int { return ft.distinct }

// Total returns the sum of all counts, i.e. the input length.
func (ft *FrequencyTable) Total() uint64 { return ft.total }

// Symbols returns the distinct symbols in ascending order.
func (ft *FrequencyTable) Symbols() []byte {
	out := make([]byte, 0, ft.distinct)
	for s := 0; s < 256; s++ {
		if ft.counts[s] != 0 {
			out = append(out, byte(s))
		}
	}
	return out
}

// Node is a vertex of a Huffman tree: a leaf when both children are nil,
// otherwise an internal node owning exactly two subtrees.
type Node struct {
	Left, Right *Node
	Symbol      byte // meaningful only on leaves

	weight uint64
	seq    int
}

// Leaf reports whether n carries a symbol rather than children.
func (n *Node) Leaf() bool { return n.Left == nil && n.Right == nil }

// NewTree builds the Huffman tree for ft by repeatedly merging the two
// lightest nodes. Every node carries a sequence number assigned at creation
// (leaves in ascending symbol order, merged nodes in merge order) and equal
// weights are broken toward the lower sequence number, so two runs over the
// same table produce the identical tree on any platform. Changing this rule
// changes the container format.
func NewTree(ft *FrequencyTable) (*Node, error) {
	if ft.distinct == 0 {
		return nil, fmt.Errorf("%w: empty frequency table", ErrInvalidInput)
	}

	seq := 0
	nodes := make(minHeap, 0, ft.distinct)
	for s := 0; s < 256; s++ {
		if c := ft.counts[s]; c != 0 {
			nodes = append(nodes, &Node{Symbol: byte(s), weight: c, seq: seq})
			seq++
		}
	}
	nodes.heapify()

	for len(nodes) > 1 {
		a := nodes[0]
		nodes.popHead()
		b := nodes[0]
		nodes.popHead()

		nodes.push(&Node{Left: a, Right: b, weight: a.weight + b.weight, seq: seq})
		seq++
	}

	root := nodes[0]
	if root.Leaf() {
		// One-symbol alphabet: the merge loop never ran. Wrap the lone leaf
		// so it still gets a non-empty code ("0"); a zero-length code cannot
		// be prefix-decoded.
		root = &Node{Left: root, weight: root.weight, seq: seq}
	}
	return root, nil
}

// minHeap is a min-heap of tree nodes ordered by (weight, seq).
//
// The code mirrors container/heap but replaces interfaces with the concrete
// node type to avoid boxing in the merge loop.
type minHeap []*Node

func (h minHeap) less(i, j int) bool {
	return h[i].weight < h[j].weight || (h[i].weight == h[j].weight && h[i].seq < h[j].seq)
}
func (h minHeap) swap(i, j int) { h[i], h[j] = h[j], h[i] }

// heapify establishes the heap invariant over the whole slice in O(n).
func (h *minHeap) heapify() {
	n := len(*h)
	for i := n/2 - 1; i >= 0; i-- {
		h.down(i, n)
	}
}

// push adds x to the heap in O(log n).
func (h *minHeap) push(x *Node) {
	*h = append(*h, x)
	h.up(len(*h) - 1)
}

// popHead removes the minimum element in O(log n).
func (h *minHeap) popHead() {
	n := len(*h) - 1
	h.swap(0, n)
	h.down(0, n)
	*h = (*h)[0:n]
}

func (h *minHeap) up(j int) {
	for {
		i := (j - 1) / 2 // parent
		if i == j || !h.less(j, i) {
			break
		}
		h.swap(i, j)
		j = i
	}
}

func (h *minHeap) down(i0, n int) bool {
	i := i0
	for {
		j1 := 2*i + 1
		if j1 >= n || j1 < 0 { // j1 < 0 after int overflow
			break
		}
		j := j1 // left child
		if j2 := j1 + 1; j2 < n && h.less(j2, j1) {
			j = j2 // = 2*i + 2  // right child
		}
		if !h.less(j, i) {
			break
		}
		h.swap(i, j)
		i = j
	}
	return i > i0
}
