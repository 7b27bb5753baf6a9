// Package layout assigns drawing coordinates to the nodes of an rbtree set.
//
// Columns follow the in-order position of a node, rows follow its depth, so
// the drawing never overlaps and a parent always sits between its subtrees.
package layout

import (
	"golang.org/x/exp/constraints"

	"github.com/Sumatoshi-tech/rbset/pkg/rbtree"
)

// Options controls the spacing of the grid.
type Options struct {
	LevelGap   float64
	SiblingGap float64
	Margin     float64
}

// PlacedNode is a tree node with its position. ID refers back to the set node.
type PlacedNode[K any] struct {
	Key   K             `json:"key"   yaml:"key"`
	ID    rbtree.NodeID `json:"id"    yaml:"id"`
	Depth int           `json:"depth" yaml:"depth"`
	X     float64       `json:"x"     yaml:"x"`
	Y     float64       `json:"y"     yaml:"y"`
	Red   bool          `json:"red"   yaml:"red"`
}

// Edge links a parent to one of its children.
type Edge struct {
	Parent rbtree.NodeID `json:"parent" yaml:"parent"`
	Child  rbtree.NodeID `json:"child"  yaml:"child"`
}

// Layout is the drawing of a whole set.
type Layout[K any] struct {
	Nodes  []PlacedNode[K] `json:"nodes"  yaml:"nodes"`
	Edges  []Edge          `json:"edges"  yaml:"edges"`
	Width  float64         `json:"width"  yaml:"width"`
	Height float64         `json:"height" yaml:"height"`

	index map[rbtree.NodeID]int
}

// Compute places every node of set. Nodes come out in key order.
func Compute[K constraints.Ordered](set *rbtree.OrderedKeySet[K], opts Options) *Layout[K] {
	result := &Layout[K]{
		Nodes: make([]PlacedNode[K], 0, set.Len()),
		Edges: make([]Edge, 0, max(set.Len()-1, 0)),
		index: make(map[rbtree.NodeID]int, set.Len()),
	}

	maxDepth := 0

	set.Walk(func(view rbtree.NodeView[K], depth int) bool {
		column := len(result.Nodes)

		result.index[view.ID] = column
		result.Nodes = append(result.Nodes, PlacedNode[K]{
			Key:   view.Key,
			ID:    view.ID,
			Depth: depth,
			X:     opts.Margin + float64(column)*opts.SiblingGap,
			Y:     opts.Margin + float64(depth)*opts.LevelGap,
			Red:   view.IsRed(),
		})

		if view.Parent != rbtree.Sentinel {
			result.Edges = append(result.Edges, Edge{Parent: view.Parent, Child: view.ID})
		}

		maxDepth = max(maxDepth, depth)

		return true
	})

	if len(result.Nodes) == 0 {
		return result
	}

	result.Width = 2*opts.Margin + float64(len(result.Nodes)-1)*opts.SiblingGap
	result.Height = 2*opts.Margin + float64(maxDepth)*opts.LevelGap

	return result
}

// Lookup returns the placed node with the given id.
func (layout *Layout[K]) Lookup(id rbtree.NodeID) (PlacedNode[K], bool) {
	column, ok := layout.index[id]
	if !ok {
		return PlacedNode[K]{}, false
	}

	return layout.Nodes[column], true
}

// Root returns the placed root, false for an empty layout.
func (layout *Layout[K]) Root() (PlacedNode[K], bool) {
	for _, placed := range layout.Nodes {
		if placed.Depth == 0 {
			return placed, true
		}
	}

	return PlacedNode[K]{}, false
}
