package render

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"golang.org/x/exp/constraints"

	"github.com/Sumatoshi-tech/rbset/pkg/rbtree"
)

const (
	chartWidth      = "100%"
	chartHeight     = "700px"
	chartSeriesName = "tree"
)

// WriteChart renders the set as an interactive top-down tree chart in an HTML page.
// Nodes are named "key (R)" or "key (B)".
func WriteChart[K constraints.Ordered](writer io.Writer, set *rbtree.OrderedKeySet[K], title string) error {
	tree := charts.NewTree()
	tree.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: fmt.Sprintf("%d keys, height %d", set.Len(), set.Height()),
			Left:     "center",
		}),
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: chartHeight}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)

	var data []opts.TreeData
	if root := chartNode(set, set.Root()); root != nil {
		data = append(data, *root)
	}

	tree.AddSeries(chartSeriesName, data,
		charts.WithTreeOpts(opts.TreeChart{
			Layout:           "orthogonal",
			Orient:           "TB",
			InitialTreeDepth: -1,
			Roam:             opts.Bool(true),
			Label:            &opts.Label{Show: opts.Bool(true), Position: "top"},
		}),
	)

	err := tree.Render(writer)
	if err != nil {
		return fmt.Errorf("render tree chart: %w", err)
	}

	return nil
}

// ChartLabel renders a node the way WriteChart names it.
func ChartLabel[K any](view rbtree.NodeView[K]) string {
	if view.IsRed() {
		return fmt.Sprintf("%v (R)", view.Key)
	}

	return fmt.Sprintf("%v (B)", view.Key)
}

func chartNode[K constraints.Ordered](set *rbtree.OrderedKeySet[K], nodeIdx rbtree.NodeID) *opts.TreeData {
	view, ok := set.Node(nodeIdx)
	if !ok {
		return nil
	}

	result := &opts.TreeData{Name: ChartLabel(view)}

	for _, child := range [2]rbtree.NodeID{view.Left, view.Right} {
		if childData := chartNode(set, child); childData != nil {
			result.Children = append(result.Children, childData)
		}
	}

	return result
}
