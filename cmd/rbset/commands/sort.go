package commands

import (
	"fmt"
	"iter"

	"github.com/spf13/cobra"
	"golang.org/x/exp/constraints"

	"github.com/Sumatoshi-tech/rbset/pkg/rbtree"
)

func newSortCommand(app *App) *cobra.Command {
	var reverse bool

	cmd := &cobra.Command{
		Use:   "sort <file|->",
		Short: "Print the unique keys in ascending order",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			tokens, err := app.readTokens(args[0])
			if err != nil {
				return err
			}

			return app.withKeys(tokens, keyHandlers{
				ints:    func(set *rbtree.OrderedKeySet[int]) error { return printKeys(app, set, reverse) },
				strings: func(set *rbtree.OrderedKeySet[string]) error { return printKeys(app, set, reverse) },
			})
		},
	}

	cmd.Flags().BoolVarP(&reverse, "reverse", "r", false, "print in descending order")

	return cmd
}

func printKeys[K constraints.Ordered](app *App, set *rbtree.OrderedKeySet[K], reverse bool) error {
	var keys iter.Seq[K]
	if reverse {
		keys = set.Backward()
	} else {
		keys = set.All()
	}

	for key := range keys {
		_, err := fmt.Fprintln(app.stdout, key)
		if err != nil {
			return fmt.Errorf("write key: %w", err)
		}
	}

	return nil
}
