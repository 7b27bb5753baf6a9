package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"golang.org/x/exp/constraints"
	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/rbset/pkg/layout"
	"github.com/Sumatoshi-tech/rbset/pkg/rbtree"
)

// Export formats.
const (
	FormatYAML = "yaml"
	FormatJSON = "json"
)

func newExportCommand(app *App) *cobra.Command {
	var format, output string

	cmd := &cobra.Command{
		Use:   "export <file|->",
		Short: "Export the computed tree layout as YAML or JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if format != FormatYAML && format != FormatJSON {
				return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
			}

			tokens, err := app.readTokens(args[0])
			if err != nil {
				return err
			}

			return app.withKeys(tokens, keyHandlers{
				ints: func(set *rbtree.OrderedKeySet[int]) error {
					return app.withOutput(output, func(writer io.Writer) error {
						return exportLayout(writer, layout.Compute(set, layoutOptions(app.Config.Drawing)), format)
					})
				},
				strings: func(set *rbtree.OrderedKeySet[string]) error {
					return app.withOutput(output, func(writer io.Writer) error {
						return exportLayout(writer, layout.Compute(set, layoutOptions(app.Config.Drawing)), format)
					})
				},
			})
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", FormatYAML, "output format: yaml, json")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")

	return cmd
}

func exportLayout[K constraints.Ordered](writer io.Writer, placed *layout.Layout[K], format string) error {
	if format == FormatJSON {
		encoder := json.NewEncoder(writer)
		encoder.SetIndent("", "  ")

		err := encoder.Encode(placed)
		if err != nil {
			return fmt.Errorf("encode json: %w", err)
		}

		return nil
	}

	encoder := yaml.NewEncoder(writer)
	encoder.SetIndent(2)

	err := encoder.Encode(placed)
	if err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}

	err = encoder.Close()
	if err != nil {
		return fmt.Errorf("close yaml encoder: %w", err)
	}

	return nil
}
