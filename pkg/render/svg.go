// Package render draws computed tree layouts as SVG, HTML charts and text tables.
package render

import (
	"embed"
	"fmt"
	"io"
	"math"
	"strconv"
	"sync"
	"text/template"

	"github.com/Sumatoshi-tech/rbset/pkg/layout"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var (
	templates     *template.Template
	templatesOnce sync.Once
	errTemplates  error
)

// textBaselineRatio moves the key text down so it looks centered in the circle.
const textBaselineRatio = 0.35

// Style holds the SVG drawing parameters.
type Style struct {
	// Styles is the CSS written into the <style> element.
	Styles        string
	NodeRadius    float64
	NodeLineWidth float64
	LineWidth     float64
	FontSize      float64
}

// funcMap provides template function helpers.
var funcMap = template.FuncMap{
	"num": func(value float64) string {
		return strconv.FormatFloat(value, 'f', -1, 64)
	},
}

func getTemplates() (*template.Template, error) {
	templatesOnce.Do(func() {
		var parseErr error

		templates, parseErr = template.New("").Funcs(funcMap).ParseFS(templateFS, "templates/*.tmpl")
		if parseErr != nil {
			errTemplates = fmt.Errorf("parsing templates: %w", parseErr)
		}
	})

	return templates, errTemplates
}

type svgNode struct {
	Label string
	Class string
	X, Y  float64
}

type svgEdge struct {
	X1, Y1, X2, Y2 float64
}

type svgData struct {
	Styles        string
	Nodes         []svgNode
	Edges         []svgEdge
	Width         float64
	Height        float64
	Radius        float64
	NodeLineWidth float64
	LineWidth     float64
	FontSize      float64
	TextOffset    float64
}

// WriteSVG writes the layout as a standalone SVG document.
// Nodes are drawn after the edges so the lines end under the circles.
func WriteSVG[K any](writer io.Writer, placed *layout.Layout[K], style Style) error {
	tmpl, err := getTemplates()
	if err != nil {
		return err
	}

	data := svgData{
		Styles:        style.Styles,
		Nodes:         make([]svgNode, 0, len(placed.Nodes)),
		Edges:         make([]svgEdge, 0, len(placed.Edges)),
		Width:         placed.Width,
		Height:        placed.Height,
		Radius:        style.NodeRadius,
		NodeLineWidth: style.NodeLineWidth,
		LineWidth:     style.LineWidth,
		FontSize:      style.FontSize,
		TextOffset:    math.Round(style.FontSize*textBaselineRatio*10) / 10,
	}

	for _, edge := range placed.Edges {
		parent, parentOK := placed.Lookup(edge.Parent)
		child, childOK := placed.Lookup(edge.Child)

		if !parentOK || !childOK {
			return fmt.Errorf("%w: %d -> %d", ErrDanglingEdge, edge.Parent, edge.Child)
		}

		data.Edges = append(data.Edges, svgEdge{X1: parent.X, Y1: parent.Y, X2: child.X, Y2: child.Y})
	}

	for _, node := range placed.Nodes {
		data.Nodes = append(data.Nodes, svgNode{
			Label: fmt.Sprint(node.Key),
			Class: colorClass(node.Red),
			X:     node.X,
			Y:     node.Y,
		})
	}

	err = tmpl.ExecuteTemplate(writer, "tree", data)
	if err != nil {
		return fmt.Errorf("executing template tree: %w", err)
	}

	return nil
}

func colorClass(red bool) string {
	if red {
		return "red"
	}

	return "black"
}
