package rbtree

import (
	"cmp"
	"errors"
	"fmt"

	"golang.org/x/exp/constraints"
)

// Invariant violations reported by Validate.
var (
	ErrSentinelColor = errors.New("sentinel is not black")
	ErrRedRoot       = errors.New("root is red")
	ErrRedRed        = errors.New("red node has a red child")
	ErrBlackHeight   = errors.New("black heights differ")
	ErrOrder         = errors.New("keys are out of order")
	ErrParentLink    = errors.New("broken parent link")
	ErrSize          = errors.New("size counter mismatch")
)

// Validate checks every red-black and search-tree invariant and returns all the
// violations found, joined. A nil result means the tree is well-formed.
func (set *OrderedKeySet[K]) Validate() error {
	alloc := set.storage()

	var errs []error

	if alloc[Sentinel].color != Black {
		errs = append(errs, ErrSentinelColor)
	}

	if set.root == Sentinel {
		if set.size != 0 {
			errs = append(errs, fmt.Errorf("%w: empty tree, size %d", ErrSize, set.size))
		}

		return errors.Join(errs...)
	}

	if alloc[set.root].color != Black {
		errs = append(errs, ErrRedRoot)
	}

	if alloc[set.root].parent != noParent {
		errs = append(errs, fmt.Errorf("%w: root %d has parent %d", ErrParentLink, set.root, alloc[set.root].parent))
	}

	checker := validator[K]{alloc: alloc}
	checker.blackHeight(set.root)
	errs = append(errs, checker.errs...)

	if checker.count != set.size {
		errs = append(errs, fmt.Errorf("%w: counted %d, size %d", ErrSize, checker.count, set.size))
	}

	// The in-order walk must be strictly ascending since duplicates are rejected.
	var (
		prev    K
		hasPrev bool
	)

	for cursor := set.Minimum(set.root); cursor != Sentinel; cursor = doNext(cursor, alloc) {
		if hasPrev && !cmp.Less(prev, alloc[cursor].key) {
			errs = append(errs, fmt.Errorf("%w: %v is followed by %v", ErrOrder, prev, alloc[cursor].key))

			break
		}

		prev, hasPrev = alloc[cursor].key, true
	}

	return errors.Join(errs...)
}

type validator[K constraints.Ordered] struct {
	alloc []node[K]
	errs  []error
	count int
}

// blackHeight returns the number of black nodes on any path from nodeIdx down to the sentinel,
// the sentinel included, recording the violations met on the way.
func (checker *validator[K]) blackHeight(nodeIdx NodeID) int {
	if nodeIdx == Sentinel {
		return 1
	}

	checker.count++
	nd := checker.alloc[nodeIdx]

	for _, child := range [2]NodeID{nd.left, nd.right} {
		if child == Sentinel {
			continue
		}

		if checker.alloc[child].parent != nodeIdx {
			checker.errs = append(checker.errs, fmt.Errorf("%w: %d points to %d instead of %d",
				ErrParentLink, child, checker.alloc[child].parent, nodeIdx))
		}

		if nd.color == Red && checker.alloc[child].color == Red {
			checker.errs = append(checker.errs, fmt.Errorf("%w: %d and %d", ErrRedRed, nodeIdx, child))
		}
	}

	left := checker.blackHeight(nd.left)
	right := checker.blackHeight(nd.right)

	if left != right {
		checker.errs = append(checker.errs, fmt.Errorf("%w: node %d has %d on the left and %d on the right",
			ErrBlackHeight, nodeIdx, left, right))
	}

	if nd.color == Black {
		return left + 1
	}

	return left
}

// Height returns the number of nodes on the longest root-to-leaf path. An empty set has height 0.
func (set *OrderedKeySet[K]) Height() int {
	height := 0

	set.Walk(func(view NodeView[K], depth int) bool {
		if view.Left == Sentinel && view.Right == Sentinel {
			height = max(height, depth+1)
		}

		return true
	})

	return height
}

// BlackHeight returns the number of black nodes from the root down to the leftmost sentinel,
// the sentinel excluded. An empty set has black height 0.
func (set *OrderedKeySet[K]) BlackHeight() int {
	alloc := set.storage()
	height := 0

	for cursor := set.root; cursor != Sentinel; cursor = alloc[cursor].left {
		if alloc[cursor].color == Black {
			height++
		}
	}

	return height
}
