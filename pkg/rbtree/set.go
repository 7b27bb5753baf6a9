package rbtree

import (
	"cmp"
	"iter"

	"golang.org/x/exp/constraints"
)

// Color of a node. The zero value is Red.
type Color bool

const (
	Red   Color = false
	Black Color = true
)

// String returns "RED" or "BLACK".
func (c Color) String() string {
	if c == Black {
		return "BLACK"
	}

	return "RED"
}

type node[K constraints.Ordered] struct {
	key                 K
	parent, left, right NodeID
	color               Color
}

// OrderedKeySet is a red-black tree holding unique keys in ascending order.
//
// Keys are compared with cmp.Compare, so a floating-point NaN sorts before
// every other value and equals any other NaN.
// Inserting a key that is already present leaves the set untouched.
// The set is not safe for concurrent use; callers sharing it across
// goroutines must serialize access themselves. Every method except Len
// and Root panics while the allocator is hibernated; call Boot first.
type OrderedKeySet[K constraints.Ordered] struct {
	// Nodes allocator.
	allocator *Allocator[K]

	// Root of the tree, Sentinel when empty.
	root NodeID

	// Number of nodes under root, including the root.
	size int
}

// New creates an empty set backed by its own allocator.
func New[K constraints.Ordered]() *OrderedKeySet[K] {
	return NewWithAllocator(NewAllocator[K]())
}

// NewWithAllocator creates an empty set drawing nodes from allocator.
// Several sets may share one allocator as long as they are used from a single goroutine.
func NewWithAllocator[K constraints.Ordered](allocator *Allocator[K]) *OrderedKeySet[K] {
	return &OrderedKeySet[K]{allocator: allocator, root: Sentinel, size: 0}
}

func (set *OrderedKeySet[K]) storage() []node[K] {
	if set.allocator.storage == nil {
		panic("hibernated allocators cannot be used")
	}

	return set.allocator.storage
}

// Allocator returns the bound nodes allocator.
func (set *OrderedKeySet[K]) Allocator() *Allocator[K] {
	return set.allocator
}

// Len returns the number of keys in the set.
func (set *OrderedKeySet[K]) Len() int {
	return set.size
}

// Root returns the root node, or Sentinel for an empty set.
func (set *OrderedKeySet[K]) Root() NodeID {
	return set.root
}

// Insert adds key to the set. Returns false if the key was already present.
func (set *OrderedKeySet[K]) Insert(key K) bool {
	alloc := set.storage()
	parent := noParent

	for cursor := set.root; cursor != Sentinel; {
		parent = cursor

		switch cmp.Compare(key, alloc[cursor].key) {
		case -1:
			cursor = alloc[cursor].left
		case 0:
			return false
		default:
			cursor = alloc[cursor].right
		}
	}

	nodeIdx := set.allocator.malloc()
	alloc = set.storage()
	alloc[nodeIdx] = node[K]{key: key, parent: parent, left: Sentinel, right: Sentinel, color: Red}
	set.size++

	if parent == noParent {
		set.root = nodeIdx
		alloc[nodeIdx].color = Black

		return true
	}

	if cmp.Less(key, alloc[parent].key) {
		alloc[parent].left = nodeIdx
	} else {
		alloc[parent].right = nodeIdx
	}

	// A child of the black root cannot break anything.
	if alloc[parent].parent == noParent {
		return true
	}

	set.insertFixup(nodeIdx)

	return true
}

func (set *OrderedKeySet[K]) insertFixup(nodeIdx NodeID) {
	alloc := set.storage()

	for nodeIdx != set.root && alloc[alloc[nodeIdx].parent].color == Red {
		parent := alloc[nodeIdx].parent
		grandparent := alloc[parent].parent

		if parent == alloc[grandparent].left {
			uncle := alloc[grandparent].right

			// Case 1: parent and uncle are both red.
			if alloc[uncle].color == Red {
				alloc[parent].color = Black
				alloc[uncle].color = Black
				alloc[grandparent].color = Red
				nodeIdx = grandparent

				continue
			}

			// Case 2: inner grandchild, rotate it outside.
			if nodeIdx == alloc[parent].right {
				nodeIdx = parent
				set.rotateLeft(nodeIdx)
				parent = alloc[nodeIdx].parent
			}

			// Case 3: outer grandchild.
			alloc[parent].color = Black
			alloc[grandparent].color = Red
			set.rotateRight(grandparent)
		} else {
			uncle := alloc[grandparent].left

			if alloc[uncle].color == Red {
				alloc[parent].color = Black
				alloc[uncle].color = Black
				alloc[grandparent].color = Red
				nodeIdx = grandparent

				continue
			}

			if nodeIdx == alloc[parent].left {
				nodeIdx = parent
				set.rotateRight(nodeIdx)
				parent = alloc[nodeIdx].parent
			}

			alloc[parent].color = Black
			alloc[grandparent].color = Red
			set.rotateLeft(grandparent)
		}
	}

	alloc[set.root].color = Black
}

// Remove deletes key from the set. Returns false if the key was not present.
func (set *OrderedKeySet[K]) Remove(key K) bool {
	alloc := set.storage()
	target := Sentinel

	for cursor := set.root; cursor != Sentinel; {
		order := cmp.Compare(alloc[cursor].key, key)
		if order == 0 {
			target = cursor
		}

		if order <= 0 {
			cursor = alloc[cursor].right
		} else {
			cursor = alloc[cursor].left
		}
	}

	if target == Sentinel {
		return false
	}

	set.doDelete(target)
	set.allocator.free(target)
	set.size--

	return true
}

// Unlink target from the tree. The slot itself is released by the caller.
func (set *OrderedKeySet[K]) doDelete(target NodeID) {
	alloc := set.storage()
	removedColor := alloc[target].color

	// child takes the freed slot; childParent is tracked apart so that
	// the sentinel never gets a parent link written into it.
	var child, childParent NodeID

	switch {
	case alloc[target].left == Sentinel:
		child = alloc[target].right
		childParent = alloc[target].parent
		set.transplant(target, child)
	case alloc[target].right == Sentinel:
		child = alloc[target].left
		childParent = alloc[target].parent
		set.transplant(target, child)
	default:
		successor := set.Minimum(alloc[target].right)
		removedColor = alloc[successor].color
		child = alloc[successor].right

		if alloc[successor].parent == target {
			childParent = successor
		} else {
			childParent = alloc[successor].parent
			set.transplant(successor, child)
			alloc[successor].right = alloc[target].right
			alloc[alloc[successor].right].parent = successor
		}

		set.transplant(target, successor)
		alloc[successor].left = alloc[target].left
		alloc[alloc[successor].left].parent = successor
		alloc[successor].color = alloc[target].color
	}

	if removedColor == Black {
		set.removeFixup(child, childParent)
	}
}

//nolint:gocognit // mirror-symmetric red-black deletion cases.
func (set *OrderedKeySet[K]) removeFixup(nodeIdx, parent NodeID) {
	alloc := set.storage()

	for nodeIdx != set.root && alloc[nodeIdx].color == Black {
		if nodeIdx == alloc[parent].left {
			sibling := alloc[parent].right

			// Case 1: red sibling, turn it into a black one.
			if alloc[sibling].color == Red {
				alloc[sibling].color = Black
				alloc[parent].color = Red
				set.rotateLeft(parent)
				sibling = alloc[parent].right
			}

			// Case 2: both nephews black, push the deficit up.
			if alloc[alloc[sibling].left].color == Black && alloc[alloc[sibling].right].color == Black {
				alloc[sibling].color = Red
				nodeIdx = parent
				parent = alloc[nodeIdx].parent

				continue
			}

			// Case 3: far nephew black, near nephew red.
			if alloc[alloc[sibling].right].color == Black {
				alloc[alloc[sibling].left].color = Black
				alloc[sibling].color = Red
				set.rotateRight(sibling)
				sibling = alloc[parent].right
			}

			// Case 4: far nephew red.
			alloc[sibling].color = alloc[parent].color
			alloc[parent].color = Black
			alloc[alloc[sibling].right].color = Black
			set.rotateLeft(parent)
			nodeIdx = set.root
		} else {
			sibling := alloc[parent].left

			if alloc[sibling].color == Red {
				alloc[sibling].color = Black
				alloc[parent].color = Red
				set.rotateRight(parent)
				sibling = alloc[parent].left
			}

			if alloc[alloc[sibling].left].color == Black && alloc[alloc[sibling].right].color == Black {
				alloc[sibling].color = Red
				nodeIdx = parent
				parent = alloc[nodeIdx].parent

				continue
			}

			if alloc[alloc[sibling].left].color == Black {
				alloc[alloc[sibling].right].color = Black
				alloc[sibling].color = Red
				set.rotateLeft(sibling)
				sibling = alloc[parent].left
			}

			alloc[sibling].color = alloc[parent].color
			alloc[parent].color = Black
			alloc[alloc[sibling].left].color = Black
			set.rotateRight(parent)
			nodeIdx = set.root
		}
	}

	if nodeIdx != Sentinel {
		alloc[nodeIdx].color = Black
	}
}

// Put newn where oldn was. newn may be the sentinel.
func (set *OrderedKeySet[K]) transplant(oldn, newn NodeID) {
	alloc := set.storage()
	parent := alloc[oldn].parent

	switch {
	case parent == noParent:
		set.root = newn
	case oldn == alloc[parent].left:
		alloc[parent].left = newn
	default:
		alloc[parent].right = newn
	}

	if newn != Sentinel {
		alloc[newn].parent = parent
	}
}

// Contains reports whether key is in the set.
func (set *OrderedKeySet[K]) Contains(key K) bool {
	return set.find(key) != Sentinel
}

func (set *OrderedKeySet[K]) find(key K) NodeID {
	alloc := set.storage()
	cursor := set.root

	for cursor != Sentinel {
		switch cmp.Compare(key, alloc[cursor].key) {
		case -1:
			cursor = alloc[cursor].left
		case 0:
			return cursor
		default:
			cursor = alloc[cursor].right
		}
	}

	return cursor
}

// Minimum returns the leftmost node of the subtree rooted at nodeIdx.
// The sentinel yields the sentinel.
func (set *OrderedKeySet[K]) Minimum(nodeIdx NodeID) NodeID {
	alloc := set.storage()

	if nodeIdx == Sentinel {
		return Sentinel
	}

	for alloc[nodeIdx].left != Sentinel {
		nodeIdx = alloc[nodeIdx].left
	}

	return nodeIdx
}

// Maximum returns the rightmost node of the subtree rooted at nodeIdx.
// The sentinel yields the sentinel.
func (set *OrderedKeySet[K]) Maximum(nodeIdx NodeID) NodeID {
	alloc := set.storage()

	if nodeIdx == Sentinel {
		return Sentinel
	}

	for alloc[nodeIdx].right != Sentinel {
		nodeIdx = alloc[nodeIdx].right
	}

	return nodeIdx
}

// Min returns the smallest key. The second result is false for an empty set.
func (set *OrderedKeySet[K]) Min() (K, bool) {
	return set.keyOf(set.Minimum(set.root))
}

// Max returns the largest key. The second result is false for an empty set.
func (set *OrderedKeySet[K]) Max() (K, bool) {
	return set.keyOf(set.Maximum(set.root))
}

func (set *OrderedKeySet[K]) keyOf(nodeIdx NodeID) (K, bool) {
	if nodeIdx == Sentinel {
		var zero K

		return zero, false
	}

	return set.storage()[nodeIdx].key, true
}

// Keys returns every key in ascending order. Each call walks the tree afresh.
func (set *OrderedKeySet[K]) Keys() []K {
	alloc := set.storage()
	keys := make([]K, 0, set.size)
	stack := make([]NodeID, 0, treeHeightHint(set.size))

	for cursor := set.root; cursor != Sentinel || len(stack) > 0; {
		for cursor != Sentinel {
			stack = append(stack, cursor)
			cursor = alloc[cursor].left
		}

		cursor = stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		keys = append(keys, alloc[cursor].key)
		cursor = alloc[cursor].right
	}

	return keys
}

// All yields the keys in ascending order.
// The set must not be modified while the sequence is being consumed.
func (set *OrderedKeySet[K]) All() iter.Seq[K] {
	return func(yield func(K) bool) {
		alloc := set.storage()

		for cursor := set.Minimum(set.root); cursor != Sentinel; cursor = doNext(cursor, alloc) {
			if !yield(alloc[cursor].key) {
				return
			}
		}
	}
}

// Backward yields the keys in descending order.
// The set must not be modified while the sequence is being consumed.
func (set *OrderedKeySet[K]) Backward() iter.Seq[K] {
	return func(yield func(K) bool) {
		alloc := set.storage()

		for cursor := set.Maximum(set.root); cursor != Sentinel; cursor = doPrev(cursor, alloc) {
			if !yield(alloc[cursor].key) {
				return
			}
		}
	}
}

// Clone performs a deep copy of the set into allocator. A nil allocator gets a fresh one.
func (set *OrderedKeySet[K]) Clone(allocator *Allocator[K]) *OrderedKeySet[K] {
	if allocator == nil {
		allocator = NewAllocator[K]()
	}

	clone := NewWithAllocator(allocator)
	if set.root == Sentinel {
		return clone
	}

	origin := set.storage()
	nodeMap := map[NodeID]NodeID{Sentinel: Sentinel, noParent: noParent}

	for cursor := set.Minimum(set.root); cursor != Sentinel; cursor = doNext(cursor, origin) {
		nodeMap[cursor] = allocator.malloc()
	}

	cloneStorage := allocator.storage

	for originIdx, cloneIdx := range nodeMap {
		if originIdx == Sentinel || originIdx == noParent {
			continue
		}

		originNode := origin[originIdx]
		cloneStorage[cloneIdx] = node[K]{
			key:    originNode.key,
			parent: nodeMap[originNode.parent],
			left:   nodeMap[originNode.left],
			right:  nodeMap[originNode.right],
			color:  originNode.color,
		}
	}

	clone.root = nodeMap[set.root]
	clone.size = set.size

	return clone
}

// Clear removes all the keys and hands their nodes back to the allocator.
func (set *OrderedKeySet[K]) Clear() {
	alloc := set.storage()
	nodes := make([]NodeID, 0, set.size)

	for cursor := set.Minimum(set.root); cursor != Sentinel; cursor = doNext(cursor, alloc) {
		nodes = append(nodes, cursor)
	}

	for _, nodeIdx := range nodes {
		set.allocator.free(nodeIdx)
	}

	set.root = Sentinel
	set.size = 0
}

func doAssert(condition bool) {
	if !condition {
		panic("rbtree internal assertion failed")
	}
}

// treeHeightHint is an upper bound of a red-black tree height holding size keys.
func treeHeightHint(size int) int {
	height := 0
	for ; size > 0; size >>= 1 {
		height++
	}

	return 2*height + 1
}

func isLeftChild[K constraints.Ordered](nodeIdx NodeID, alloc []node[K]) bool {
	return nodeIdx == alloc[alloc[nodeIdx].parent].left
}

func isRightChild[K constraints.Ordered](nodeIdx NodeID, alloc []node[K]) bool {
	return nodeIdx == alloc[alloc[nodeIdx].parent].right
}

// Return the minimum node that's larger than N, or the sentinel.
func doNext[K constraints.Ordered](nodeIdx NodeID, alloc []node[K]) NodeID {
	if alloc[nodeIdx].right != Sentinel {
		cursor := alloc[nodeIdx].right

		for alloc[cursor].left != Sentinel {
			cursor = alloc[cursor].left
		}

		return cursor
	}

	for alloc[nodeIdx].parent != noParent {
		if isLeftChild(nodeIdx, alloc) {
			return alloc[nodeIdx].parent
		}

		nodeIdx = alloc[nodeIdx].parent
	}

	return Sentinel
}

// Return the maximum node that's smaller than N, or the sentinel.
func doPrev[K constraints.Ordered](nodeIdx NodeID, alloc []node[K]) NodeID {
	if alloc[nodeIdx].left != Sentinel {
		cursor := alloc[nodeIdx].left

		for alloc[cursor].right != Sentinel {
			cursor = alloc[cursor].right
		}

		return cursor
	}

	for alloc[nodeIdx].parent != noParent {
		if isRightChild(nodeIdx, alloc) {
			return alloc[nodeIdx].parent
		}

		nodeIdx = alloc[nodeIdx].parent
	}

	return Sentinel
}

// rotateDirection performs a tree rotation in the specified direction.
// isLeft=true performs left rotation, isLeft=false performs right rotation.
//
// Left rotation:
//
//	  X              Y
//	A   Y    =>    X   C
//	  B C        A B
//
// Right rotation:
//
//	    Y            X
//	  X   C  =>    A   Y
//	A B              B C
//
//nolint:dupword // ASCII art diagrams contain intentional repeated letters.
func (set *OrderedKeySet[K]) rotateDirection(pivot NodeID, isLeft bool) {
	alloc := set.storage()

	var child NodeID
	if isLeft {
		child = alloc[pivot].right
	} else {
		child = alloc[pivot].left
	}

	doAssert(child != Sentinel)

	// Move the inner subtree.
	var innerSubtree NodeID
	if isLeft {
		innerSubtree = alloc[child].left
		alloc[pivot].right = innerSubtree
	} else {
		innerSubtree = alloc[child].right
		alloc[pivot].left = innerSubtree
	}

	if innerSubtree != Sentinel {
		alloc[innerSubtree].parent = pivot
	}

	// Update parent links.
	grandparent := alloc[pivot].parent
	alloc[child].parent = grandparent

	switch {
	case grandparent == noParent:
		set.root = child
	case pivot == alloc[grandparent].left:
		alloc[grandparent].left = child
	default:
		alloc[grandparent].right = child
	}

	if isLeft {
		alloc[child].left = pivot
	} else {
		alloc[child].right = pivot
	}

	alloc[pivot].parent = child
}

func (set *OrderedKeySet[K]) rotateLeft(nodeIdx NodeID) {
	set.rotateDirection(nodeIdx, true)
}

func (set *OrderedKeySet[K]) rotateRight(nodeIdx NodeID) {
	set.rotateDirection(nodeIdx, false)
}
