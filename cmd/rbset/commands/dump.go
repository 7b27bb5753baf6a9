package commands

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/exp/constraints"

	"github.com/Sumatoshi-tech/rbset/pkg/rbtree"
)

func newDumpCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "dump <file|->",
		Short: "Print the tree structure sideways, one node per line",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			tokens, err := app.readTokens(args[0])
			if err != nil {
				return err
			}

			return app.withKeys(tokens, keyHandlers{
				ints:    func(set *rbtree.OrderedKeySet[int]) error { return dumpSet(app, set) },
				strings: func(set *rbtree.OrderedKeySet[string]) error { return dumpSet(app, set) },
			})
		},
	}
}

func dumpSet[K constraints.Ordered](app *App, set *rbtree.OrderedKeySet[K]) error {
	return set.Dump(app.stdout, coloredLabel[K])
}

func coloredLabel[K any](view rbtree.NodeView[K]) string {
	label := rbtree.DefaultLabel(view)
	if view.IsRed() {
		return color.New(color.FgRed).Sprint(label)
	}

	return color.New(color.Bold).Sprint(label)
}
