package rbtree

import (
	"fmt"
	"io"
	"strings"
)

const (
	dumpRightBranch = "└─(R)────"
	dumpLeftBranch  = "├─(L)────"
	dumpRightIndent = "     "
	dumpLeftIndent  = " │ "
)

// Dump writes the tree sideways, one node per line, the root first and each left
// subtree before the right one:
//
//	 └─(R)──── 20 (BLACK)
//	      ├─(L)──── 7 (RED)
//	      ...
//
// label renders a node; nil prints "key (COLOR)".
func (set *OrderedKeySet[K]) Dump(writer io.Writer, label func(view NodeView[K]) string) error {
	if label == nil {
		label = DefaultLabel[K]
	}

	return set.dumpNode(writer, set.root, "", true, label)
}

// DefaultLabel renders a node as "key (COLOR)".
func DefaultLabel[K any](view NodeView[K]) string {
	return fmt.Sprintf("%v (%s)", view.Key, view.Color)
}

func (set *OrderedKeySet[K]) dumpNode(
	writer io.Writer, nodeIdx NodeID, indent string, last bool, label func(view NodeView[K]) string,
) error {
	if nodeIdx == Sentinel {
		return nil
	}

	branch, childIndent := dumpLeftBranch, indent+dumpLeftIndent
	if last {
		branch, childIndent = dumpRightBranch, indent+dumpRightIndent
	}

	line := strings.Join([]string{indent, branch, label(set.view(nodeIdx))}, " ")

	_, err := fmt.Fprintln(writer, line)
	if err != nil {
		return fmt.Errorf("dump node %d: %w", nodeIdx, err)
	}

	alloc := set.storage()

	err = set.dumpNode(writer, alloc[nodeIdx].left, childIndent, false, label)
	if err != nil {
		return err
	}

	return set.dumpNode(writer, alloc[nodeIdx].right, childIndent, true, label)
}
