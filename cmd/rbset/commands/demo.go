package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/rbset/pkg/rbtree"
)

// The demo inserts these keys one by one, then removes demoRemovals.
var (
	demoKeys     = []int{10, 20, 25, 30, 7, 5, 4, 3, 1}
	demoRemovals = []int{20, 7, 1}
)

func newDemoCommand(app *App) *cobra.Command {
	var steps bool

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Insert and remove a fixed key sequence, printing the tree",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runDemo(app, steps)
		},
	}

	cmd.Flags().BoolVar(&steps, "steps", false, "print the tree after every insertion and removal")

	return cmd
}

func runDemo(app *App, steps bool) error {
	set := rbtree.New[int]()
	out := app.stdout

	for _, key := range demoKeys {
		set.Insert(key)

		err := demoStep(app, set, steps, "insert", key)
		if err != nil {
			return err
		}
	}

	fmt.Fprintf(out, "Tree after inserting %v:\n", demoKeys)

	err := dumpSet(app, set)
	if err != nil {
		return err
	}

	root, _ := set.Node(set.Root())
	fmt.Fprintf(out, "Root: %v (%s)\nKeys: %v\n", root.Key, root.Color, set.Keys())

	for _, key := range demoRemovals {
		set.Remove(key)

		err = demoStep(app, set, steps, "remove", key)
		if err != nil {
			return err
		}
	}

	fmt.Fprintf(out, "\nTree after removing %v:\n", demoRemovals)

	err = dumpSet(app, set)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Keys: %v\n", set.Keys())

	return nil
}

func demoStep(app *App, set *rbtree.OrderedKeySet[int], steps bool, op string, key int) error {
	err := set.Validate()
	if err != nil {
		return reportInvalid(app, fmt.Errorf("after %s %d: %w", op, key, err))
	}

	app.Logger.Debug("demo step", "op", op, "key", key, "len", set.Len(), "height", set.Height())

	if !steps {
		return nil
	}

	fmt.Fprintf(app.stdout, "\n%s %d:\n", op, key)

	return dumpSet(app, set)
}
