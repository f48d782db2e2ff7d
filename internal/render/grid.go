package render

import "github.com/qtreeimg/qtc/internal/quadtree"

// GridColor is the mid-gray value used for segmentation boundary lines.
const GridColor = 128

// Grid renders tree's segmentation boundaries onto a blank side*side
// canvas: a horizontal and a vertical line through the midpoint of every
// non-leaf node's block, plus
// a one-pixel border around the whole image.
func Grid(tree *quadtree.Tree) []byte {
	pixels := make([]byte, tree.Side*tree.Side)
	drawNodeGrid(pixels, tree.Side, tree.Root, 0, 0, tree.Side)

	drawHorizontal(pixels, tree.Side, 0, 0, tree.Side)
	drawHorizontal(pixels, tree.Side, 0, tree.Side-1, tree.Side)
	drawVertical(pixels, tree.Side, 0, 0, tree.Side)
	drawVertical(pixels, tree.Side, tree.Side-1, 0, tree.Side)

	return pixels
}

func drawNodeGrid(pixels []byte, size int, node *quadtree.Node, x, y, nodeSize int) {
	if node == nil || nodeSize <= 1 || node.IsLeaf() {
		return
	}

	half := nodeSize / 2
	drawHorizontal(pixels, size, x, y+half, nodeSize)
	drawVertical(pixels, size, x+half, y, nodeSize)

	for _, q := range quadtree.Order {
		child := node.Children[q]
		if child == nil {
			continue
		}
		cx, cy := x, y
		switch q {
		case quadtree.TR:
			cx += half
		case quadtree.BL:
			cy += half
		case quadtree.BR:
			cx += half
			cy += half
		}
		drawNodeGrid(pixels, size, child, cx, cy, half)
	}
}

func drawHorizontal(pixels []byte, size, x, y, width int) {
	if y < 0 || y >= size {
		return
	}
	for i := 0; i < width && x+i < size; i++ {
		pixels[y*size+x+i] = GridColor
	}
}

func drawVertical(pixels []byte, size, x, y, height int) {
	if x < 0 || x >= size {
		return
	}
	for i := 0; i < height && y+i < size; i++ {
		pixels[(y+i)*size+x] = GridColor
	}
}
