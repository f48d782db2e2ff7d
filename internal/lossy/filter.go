// Package lossy implements the variance-threshold pruning pass that trades
// image fidelity for a smaller encoded tree.
package lossy

import (
	"errors"
	"math"
	"sort"

	"github.com/qtreeimg/qtc/internal/quadtree"
)

// ErrInvalidAlpha is returned when alpha does not satisfy alpha > 1.0, the
// only range in which the filter can relax its threshold as it recurses.
var ErrInvalidAlpha = errors.New("lossy: alpha must be greater than 1.0")

// Stats summarizes the distribution of node variances collected before
// filtering begins.
type Stats struct {
	Median float64
	Max    float64
}

// Apply recomputes every node's local variance, then recursively promotes
// subtrees to uniform leaves wherever their variance falls under a
// threshold that relaxes by a factor of alpha per level of recursion. It
// mutates tree in place and returns the variance statistics computed
// before filtering.
func Apply(tree *quadtree.Tree, alpha float64) (Stats, error) {
	if alpha <= 1.0 {
		return Stats{}, ErrInvalidAlpha
	}

	stats := VarianceStats(tree)
	if stats.Max == 0 {
		return stats, nil
	}

	initialThreshold := stats.Median / stats.Max
	filterNode(tree.Root, initialThreshold, alpha)
	return stats, nil
}

// VarianceStats walks tree post-order, setting each node's V field, and
// returns the median and maximum among strictly positive variances. Leaves
// always have variance 0.
func VarianceStats(tree *quadtree.Tree) Stats {
	var variances []float64
	computeVariance(tree.Root, &variances)
	if len(variances) == 0 {
		return Stats{}
	}
	sort.Float64s(variances)
	return Stats{
		Median: variances[len(variances)/2],
		Max:    variances[len(variances)-1],
	}
}

func computeVariance(node *quadtree.Node, out *[]float64) {
	if node == nil {
		return
	}
	for _, q := range quadtree.Order {
		computeVariance(node.Children[q], out)
	}
	node.V = localVariance(node)
	if node.V > 0 {
		*out = append(*out, node.V)
	}
}

// localVariance computes mu = sum(vk^2 + (m-mk)^2) over present children,
// then v = sqrt(mu/4). A leaf's variance is always 0.
func localVariance(node *quadtree.Node) float64 {
	if node.IsLeaf() {
		return 0
	}
	var mu float64
	for _, q := range quadtree.Order {
		c := node.Children[q]
		if c == nil {
			continue
		}
		diff := float64(node.M) - float64(c.M)
		mu += c.V*c.V + diff*diff
	}
	return math.Sqrt(mu / 4.0)
}

// filterNode recomputes node's variance against its children's current
// (pre-recursion) variances, recurses into each child with a relaxed
// threshold, and collapses node to uniform if its variance is within
// threshold and every child ended up uniform. It reports whether node is
// uniform after filtering.
func filterNode(node *quadtree.Node, threshold, alpha float64) bool {
	if node == nil || node.IsLeaf() {
		return true
	}

	node.V = localVariance(node)

	allUniform := true
	for _, q := range quadtree.Order {
		c := node.Children[q]
		if c == nil {
			continue
		}
		if !filterNode(c, threshold*alpha, alpha) {
			allUniform = false
		}
	}

	if node.V <= threshold && allUniform {
		node.U = true
		node.E = 0
		node.Children = [4]*quadtree.Node{}
		return true
	}

	node.U = isUniformBlock(node)
	return node.U
}

// isUniformBlock reports whether node could still be treated as uniform
// without collapsing it: zero residual, every present child already
// uniform, and all present children sharing one mean.
func isUniformBlock(node *quadtree.Node) bool {
	if node.E != 0 {
		return false
	}
	var mean uint8
	seen := false
	for _, q := range quadtree.Order {
		c := node.Children[q]
		if c == nil {
			continue
		}
		if !c.U {
			return false
		}
		if !seen {
			mean = c.M
			seen = true
		} else if c.M != mean {
			return false
		}
	}
	return true
}
