package commands

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"golang.org/x/exp/constraints"

	"github.com/Sumatoshi-tech/rbset/pkg/config"
	"github.com/Sumatoshi-tech/rbset/pkg/layout"
	"github.com/Sumatoshi-tech/rbset/pkg/rbtree"
	"github.com/Sumatoshi-tech/rbset/pkg/render"
)

// Drawing formats.
const (
	FormatSVG   = "svg"
	FormatHTML  = "html"
	FormatTable = "table"
)

// ErrUnknownFormat is returned for an unsupported --format.
var ErrUnknownFormat = errors.New("unknown format")

const defaultChartTitle = "Red-black tree"

func newDrawCommand(app *App) *cobra.Command {
	var format, output, title string

	cmd := &cobra.Command{
		Use:   "draw <file|->",
		Short: "Draw the tree as SVG, an interactive HTML chart or a table",
		Long: `Draw the tree built from the input keys.

Formats:
  svg    standalone SVG picture, styled by the drawing section of the config
  html   interactive tree chart
  table  node coordinates as a text table`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			switch format {
			case FormatSVG, FormatHTML, FormatTable:
			default:
				return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
			}

			tokens, err := app.readTokens(args[0])
			if err != nil {
				return err
			}

			return app.withKeys(tokens, keyHandlers{
				ints: func(set *rbtree.OrderedKeySet[int]) error {
					return app.withOutput(output, func(writer io.Writer) error {
						return drawSet(writer, set, app.Config.Drawing, format, title)
					})
				},
				strings: func(set *rbtree.OrderedKeySet[string]) error {
					return app.withOutput(output, func(writer io.Writer) error {
						return drawSet(writer, set, app.Config.Drawing, format, title)
					})
				},
			})
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", FormatSVG, "output format: svg, html, table")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVar(&title, "title", defaultChartTitle, "chart title for the html format")

	return cmd
}

func drawSet[K constraints.Ordered](
	writer io.Writer, set *rbtree.OrderedKeySet[K], drawing config.DrawingConfig, format, title string,
) error {
	switch format {
	case FormatHTML:
		return render.WriteChart(writer, set, title)
	case FormatTable:
		return render.WriteTable(writer, layout.Compute(set, layoutOptions(drawing)))
	default:
		return render.WriteSVG(writer, layout.Compute(set, layoutOptions(drawing)), svgStyle(drawing))
	}
}

func layoutOptions(drawing config.DrawingConfig) layout.Options {
	return layout.Options{
		LevelGap:   drawing.LevelGap,
		SiblingGap: drawing.SiblingGap,
		Margin:     drawing.Margin,
	}
}

func svgStyle(drawing config.DrawingConfig) render.Style {
	return render.Style{
		Styles:        drawing.Styles,
		NodeRadius:    drawing.NodeRadius,
		NodeLineWidth: drawing.NodeLineWidth,
		LineWidth:     drawing.LineWidth,
		FontSize:      drawing.FontSize,
	}
}
