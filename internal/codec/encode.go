// Package codec implements the breadth-first, level-by-level bit-stream
// encoding and decoding of a quadtree body (everything after the Q1
// header).
package codec

import (
	"bytes"
	"io"

	"github.com/qtreeimg/qtc/internal/bitio"
	"github.com/qtreeimg/qtc/internal/pool"
	"github.com/qtreeimg/qtc/internal/quadtree"
)

// ProgressFunc receives the number of passes completed so far (1 after the
// first pass) and the total number of passes (tree.Levels + 1).
type ProgressFunc func(pass, total int)

// Result carries an encoded body plus the exact bit count it occupies,
// needed to compute the header's compression-rate comment before the body
// itself is written out.
type Result struct {
	Body         []byte
	TotalBits    uint64
	NodesWritten int
}

// Encode serializes tree breadth-first, one level at a time: for target
// level 0..tree.Levels, the tree is walked from the root and every node
// whose depth equals the target level is written, pruning into subtrees
// that were already collapsed to uniform at a shallower level.
//
// The body is built in a pooled buffer so the caller can learn its exact
// size (TotalBits, rounded up to whole bytes) before writing the Q1 header
// that precedes it, mirroring the two-pass sizing original_source performs
// with a temporary file.
func Encode(tree *quadtree.Tree, progress ProgressFunc) (Result, error) {
	estimate := estimateBodySize(tree)
	scratch := pool.Get(estimate)
	defer pool.Put(scratch)
	buf := bytes.NewBuffer(scratch[:0])
	bw := bitio.NewWriter(buf)

	total := tree.Levels + 1
	nodesWritten := 0
	for level := 0; level <= tree.Levels; level++ {
		encodeLevel(bw, tree.Root, 0, level, tree.Levels, false, &nodesWritten)
		if progress != nil {
			progress(level+1, total)
		}
	}
	if err := bw.Flush(); err != nil {
		return Result{}, err
	}
	if err := bw.Err(); err != nil {
		return Result{}, err
	}

	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())
	return Result{Body: out, TotalBits: bw.TotalBits(), NodesWritten: nodesWritten}, nil
}

// WriteBody copies an already-built body to w. It is split from Encode so
// callers can write the Q1 header (which needs TotalBits) before the body.
func WriteBody(w io.Writer, body []byte) error {
	_, err := w.Write(body)
	return err
}

// estimateBodySize guesses a buffer size for the pool: worst case every
// node carries a full byte plus a few status bits.
func estimateBodySize(tree *quadtree.Tree) int {
	nodes := 1
	atLevel := 1
	for i := 0; i < tree.Levels; i++ {
		atLevel *= 4
		nodes += atLevel
	}
	return nodes + nodes/4 + 64
}

// encodeLevel writes node if currentLevel == targetLevel, otherwise
// recurses into its children (unless node is uniform, in which case its
// subtree was already fully determined at a shallower level).
//
// interpolated is true exactly when node is the fourth (bottom-left) child
// of its immediate parent in quadrant-visitation order; such nodes omit
// their mean from the stream since the decoder reconstructs it.
func encodeLevel(bw *bitio.Writer, node *quadtree.Node, currentLevel, targetLevel, maxLevel int, interpolated bool, nodesWritten *int) {
	if node == nil {
		return
	}
	if currentLevel == targetLevel {
		writeNode(bw, node, currentLevel, maxLevel, interpolated)
		*nodesWritten++
		return
	}
	if node.U {
		return
	}
	for i, q := range quadtree.Order {
		encodeLevel(bw, node.Children[q], currentLevel+1, targetLevel, maxLevel, i == 3, nodesWritten)
	}
}

// writeNode emits one node's wire representation: its mean (unless
// interpolated), then, unless it is a true leaf at the deepest level, its
// 2-bit residual and, if that residual is zero, its uniformity bit.
func writeNode(bw *bitio.Writer, node *quadtree.Node, currentLevel, maxLevel int, interpolated bool) {
	isLeaf := node.E == 0 && node.U && currentLevel == maxLevel

	if !interpolated {
		bw.WriteBits(uint32(node.M), 8)
	}
	if isLeaf {
		return
	}

	bw.WriteBits(uint32(node.E), 2)
	if node.E == 0 {
		bw.WriteBit(boolToBit(node.U))
	}
}

func boolToBit(b bool) int {
	if b {
		return 1
	}
	return 0
}
