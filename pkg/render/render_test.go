package render_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/rbset/pkg/layout"
	"github.com/Sumatoshi-tech/rbset/pkg/rbtree"
	"github.com/Sumatoshi-tech/rbset/pkg/render"
)

var testStyle = render.Style{
	Styles:        ".point circle { fill: white; }",
	NodeRadius:    20,
	NodeLineWidth: 2,
	LineWidth:     1.5,
	FontSize:      14,
}

func testSet(keys ...int) *rbtree.OrderedKeySet[int] {
	set := rbtree.New[int]()
	for _, key := range keys {
		set.Insert(key)
	}

	return set
}

func testLayout(set *rbtree.OrderedKeySet[int]) *layout.Layout[int] {
	return layout.Compute(set, layout.Options{LevelGap: 70, SiblingGap: 50, Margin: 30})
}

func TestWriteSVG(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, render.WriteSVG(&buf, testLayout(testSet(2, 1, 3)), testStyle))

	svg := buf.String()
	assert.True(t, strings.HasPrefix(svg,
		`<svg version="1.1" xmlns="http://www.w3.org/2000/svg" width="160" height="130">`))
	assert.True(t, strings.HasSuffix(strings.TrimSpace(svg), "</svg>"))
	assert.Contains(t, svg, "<style>\n.point circle { fill: white; }\n</style>")
	assert.Contains(t, svg, `<g class="point black" transform="translate(80,30)">`+
		`<circle r="20" stroke-width="2"></circle>`+
		`<text class="pointIndex" text-anchor="middle" y="4.9" font-size="14">2</text></g>`)
	assert.Contains(t, svg, `<g class="point red" transform="translate(30,100)">`)
	assert.Contains(t, svg, `<line class="edge" x1="80" y1="30" x2="30" y2="100" stroke-width="1.5"></line>`)
	assert.Equal(t, 3, strings.Count(svg, "<circle"))
	assert.Equal(t, 2, strings.Count(svg, "<line"))

	// Lines come before circles.
	assert.Less(t, strings.LastIndex(svg, "<line"), strings.Index(svg, "<g "))
}

func TestWriteSVGEscapesKeys(t *testing.T) {
	t.Parallel()

	set := rbtree.New[string]()
	set.Insert("a<b")

	placed := layout.Compute(set, layout.Options{LevelGap: 70, SiblingGap: 50, Margin: 30})

	var buf bytes.Buffer
	require.NoError(t, render.WriteSVG(&buf, placed, testStyle))
	assert.Contains(t, buf.String(), "a&lt;b")
}

func TestWriteSVGDanglingEdge(t *testing.T) {
	t.Parallel()

	placed := testLayout(testSet(2, 1, 3))
	placed.Edges = append(placed.Edges, layout.Edge{Parent: 99, Child: 98})

	var buf bytes.Buffer
	require.ErrorIs(t, render.WriteSVG(&buf, placed, testStyle), render.ErrDanglingEdge)
}

func TestWriteChart(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, render.WriteChart(&buf, testSet(10, 20, 25, 30, 7, 5, 4, 3, 1), "Demo tree"))

	html := buf.String()
	assert.Contains(t, html, "<html")
	assert.Contains(t, html, "Demo tree")
	assert.Contains(t, html, "7 (B)")
	assert.Contains(t, html, "20 (R)")
	assert.Contains(t, html, "orthogonal")
}

func TestWriteChartEmpty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, render.WriteChart(&buf, rbtree.New[int](), "Empty"))
	assert.Contains(t, buf.String(), "Empty")
}

func TestChartLabel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "5 (R)", render.ChartLabel(rbtree.NodeView[int]{Key: 5, Color: rbtree.Red}))
	assert.Equal(t, "x (B)", render.ChartLabel(rbtree.NodeView[string]{Key: "x", Color: rbtree.Black}))
}

func TestWriteTable(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, render.WriteTable(&buf, testLayout(testSet(2, 1, 3))))

	out := buf.String()
	assert.Contains(t, out, "KEY")
	assert.Contains(t, out, "BLACK")
	assert.Contains(t, out, "RED")
	assert.Contains(t, strings.ToUpper(out), "TOTAL: 3 NODES")

	lines := strings.Split(out, "\n")

	var keyRows []string

	for _, line := range lines {
		if strings.Contains(line, "RED") || strings.Contains(line, "BLACK") {
			keyRows = append(keyRows, line)
		}
	}

	require.Len(t, keyRows, 3)
	assert.Contains(t, keyRows[0], " 1 ")
	assert.Contains(t, keyRows[0], " 2 ")
	assert.Contains(t, keyRows[1], " - ")
}
