package rbtree

// NodeView is a read-only copy of one node, handed out to drawing and reporting code.
// Parent is Sentinel for the root; Left and Right are Sentinel for absent children.
type NodeView[K any] struct {
	ID     NodeID
	Parent NodeID
	Left   NodeID
	Right  NodeID
	Key    K
	Color  Color
}

// IsRed reports whether the node is red.
func (view NodeView[K]) IsRed() bool {
	return view.Color == Red
}

// Node returns the view of nodeIdx. The second result is false for the sentinel
// and for slots that do not belong to a live node.
func (set *OrderedKeySet[K]) Node(nodeIdx NodeID) (NodeView[K], bool) {
	alloc := set.storage()

	if nodeIdx == Sentinel || nodeIdx == noParent || int(nodeIdx) >= len(alloc) {
		return NodeView[K]{}, false
	}

	nd := alloc[nodeIdx]

	// Released slots are zeroed, which leaves them without a parent.
	if nd.parent == Sentinel && nodeIdx != set.root {
		return NodeView[K]{}, false
	}

	return set.view(nodeIdx), true
}

func (set *OrderedKeySet[K]) view(nodeIdx NodeID) NodeView[K] {
	nd := set.storage()[nodeIdx]

	parent := nd.parent
	if parent == noParent {
		parent = Sentinel
	}

	return NodeView[K]{
		ID:     nodeIdx,
		Parent: parent,
		Left:   nd.left,
		Right:  nd.right,
		Key:    nd.key,
		Color:  nd.color,
	}
}

// Walk visits the nodes in key order together with their depth, the root being at depth 0.
// It stops early when fn returns false.
func (set *OrderedKeySet[K]) Walk(fn func(view NodeView[K], depth int) bool) {
	alloc := set.storage()

	type frame struct {
		id    NodeID
		depth int
	}

	stack := make([]frame, 0, treeHeightHint(set.size))
	cursor, depth := set.root, 0

	for cursor != Sentinel || len(stack) > 0 {
		for cursor != Sentinel {
			stack = append(stack, frame{id: cursor, depth: depth})
			cursor = alloc[cursor].left
			depth++
		}

		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !fn(set.view(top.id), top.depth) {
			return
		}

		cursor, depth = alloc[top.id].right, top.depth+1
	}
}
