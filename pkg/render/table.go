package render

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/Sumatoshi-tech/rbset/pkg/layout"
	"github.com/Sumatoshi-tech/rbset/pkg/rbtree"
)

// WriteTable lists the placed nodes in key order, one row each.
func WriteTable[K any](writer io.Writer, placed *layout.Layout[K]) error {
	parents := make(map[rbtree.NodeID]rbtree.NodeID, len(placed.Edges))
	for _, edge := range placed.Edges {
		parents[edge.Child] = edge.Parent
	}

	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(table.Row{"Key", "Color", "Parent", "Depth", "X", "Y"})

	for _, node := range placed.Nodes {
		parent := "-"
		if parentID, ok := parents[node.ID]; ok {
			if parentNode, found := placed.Lookup(parentID); found {
				parent = fmt.Sprint(parentNode.Key)
			}
		}

		color := rbtree.Black
		if node.Red {
			color = rbtree.Red
		}

		tbl.AppendRow(table.Row{node.Key, color.String(), parent, node.Depth, node.X, node.Y})
	}

	tbl.AppendFooter(table.Row{fmt.Sprintf("Total: %d nodes", len(placed.Nodes))})

	_, err := fmt.Fprintln(writer, tbl.Render())
	if err != nil {
		return fmt.Errorf("write table: %w", err)
	}

	return nil
}
