package codec

import (
	"errors"
	"fmt"
	"io"

	"github.com/qtreeimg/qtc/internal/bitio"
	"github.com/qtreeimg/qtc/internal/quadtree"
)

// ErrCorrupt is returned when the bit stream ends before a complete tree
// has been read, or when a parent required for fourth-mean reconstruction
// is missing.
var ErrCorrupt = errors.New("codec: corrupt or truncated stream")

// Decode reads a breadth-first, level-by-level body from r and reconstructs
// the tree it encodes. levels must come from the already-parsed Q1 header.
func Decode(r io.Reader, levels int, progress ProgressFunc) (*quadtree.Tree, error) {
	tree, err := quadtree.NewTree(1 << uint(levels))
	if err != nil {
		return nil, err
	}

	br := bitio.NewReader(r)
	total := levels + 1

	root, err := decodeNode(br, 0, levels, nil, 0)
	if err != nil {
		return nil, err
	}
	tree.Root = root
	if progress != nil {
		progress(1, total)
	}

	prevLevel := []*quadtree.Node{root}
	for level := 1; level <= levels; level++ {
		var current []*quadtree.Node
		for _, parent := range prevLevel {
			if parent == nil || parent.U {
				continue
			}
			for i, q := range quadtree.Order {
				child, err := decodeNode(br, level, levels, parent, i)
				if err != nil {
					return nil, err
				}
				parent.Children[q] = child
				current = append(current, child)
			}
		}
		prevLevel = current
		if progress != nil {
			progress(level+1, total)
		}
	}

	return tree, nil
}

// decodeNode reads one node at the given level. childIndex is this node's
// position (0..3) among its parent's children in quadrant order; index 3
// (the bottom-left slot) has its mean reconstructed from parent instead of
// read from the stream.
func decodeNode(br *bitio.Reader, level, maxLevel int, parent *quadtree.Node, childIndex int) (*quadtree.Node, error) {
	n := &quadtree.Node{}

	if childIndex < 3 {
		m, err := br.ReadBits(8)
		if err != nil {
			return nil, fmt.Errorf("codec: reading mean at level %d: %w", level, ErrCorrupt)
		}
		n.M = m
	} else {
		if parent == nil || parent.Children[quadtree.TL] == nil ||
			parent.Children[quadtree.TR] == nil || parent.Children[quadtree.BR] == nil {
			return nil, fmt.Errorf("codec: missing parent for fourth-mean at level %d: %w", level, ErrCorrupt)
		}
		n.M = quadtree.FourthMean(parent.M, parent.E,
			parent.Children[quadtree.TL].M, parent.Children[quadtree.TR].M, parent.Children[quadtree.BR].M)
	}

	if level < maxLevel {
		e, err := br.ReadBits(2)
		if err != nil {
			return nil, fmt.Errorf("codec: reading residual at level %d: %w", level, ErrCorrupt)
		}
		n.E = e
		if n.E == 0 {
			u, err := br.ReadBit()
			if err != nil {
				return nil, fmt.Errorf("codec: reading uniformity bit at level %d: %w", level, ErrCorrupt)
			}
			n.U = u != 0
		}
	} else {
		n.E = 0
		n.U = true
	}

	return n, nil
}
