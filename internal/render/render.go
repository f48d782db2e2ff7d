// Package render reconstructs a pixel raster from a quadtree and draws its
// segmentation boundaries over a blank canvas.
package render

import (
	"github.com/qtreeimg/qtc/internal/quadtree"
)

// Pixels extracts a side*side row-major raster from tree, filling each
// leaf or uniform node's block with its mean value.
func Pixels(tree *quadtree.Tree) []byte {
	pixels := make([]byte, tree.Side*tree.Side)
	extract(tree.Root, pixels, 0, 0, tree.Side, tree.Side)
	return pixels
}

func extract(node *quadtree.Node, pixels []byte, row, col, size, total int) {
	if node == nil {
		return
	}
	if node.U || size == 1 {
		for i := row; i < row+size && i < total; i++ {
			for j := col; j < col+size && j < total; j++ {
				pixels[i*total+j] = node.M
			}
		}
		return
	}

	half := size / 2
	for _, q := range quadtree.Order {
		r, c := row, col
		switch q {
		case quadtree.TR:
			c += half
		case quadtree.BR:
			r += half
			c += half
		case quadtree.BL:
			r += half
		}
		extract(node.Children[q], pixels, r, c, half, total)
	}
}
