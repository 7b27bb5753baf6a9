package commands

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/exp/constraints"

	"github.com/Sumatoshi-tech/rbset/pkg/rbtree"
)

// ErrInvalidTree is returned by check when an invariant does not hold.
var ErrInvalidTree = errors.New("red-black invariants violated")

// ErrMembership is returned by check when a removed key is still found, or a kept one is lost.
var ErrMembership = errors.New("membership mismatch")

func newCheckCommand(app *App) *cobra.Command {
	var remove []string

	cmd := &cobra.Command{
		Use:   "check <file|->",
		Short: "Build the tree, optionally remove keys, and verify the red-black invariants",
		Long: `Build the tree from the input keys, remove the --remove keys one by one
and verify every red-black invariant after each step.

Examples:
  rbset check keys.txt
  rbset check --remove 20,7 keys.txt
  seq 1 1000 | rbset check -`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			tokens, err := app.readTokens(args[0])
			if err != nil {
				return err
			}

			return app.withKeys(tokens, keyHandlers{
				ints: func(set *rbtree.OrderedKeySet[int]) error {
					return runCheck(app, set, remove, strconv.Atoi)
				},
				strings: func(set *rbtree.OrderedKeySet[string]) error {
					return runCheck(app, set, remove, parseString)
				},
			})
		},
	}

	cmd.Flags().StringSliceVar(&remove, "remove", nil, "keys to remove before the final check")

	return cmd
}

func runCheck[K constraints.Ordered](
	app *App, set *rbtree.OrderedKeySet[K], remove []string, parse func(string) (K, error),
) error {
	err := set.Validate()
	if err != nil {
		return reportInvalid(app, err)
	}

	victims, err := parseKeys(remove, parse)
	if err != nil {
		return err
	}

	kept := make(map[K]struct{}, set.Len())
	for key := range set.All() {
		kept[key] = struct{}{}
	}

	for _, key := range victims {
		removed := set.Remove(key)
		app.Logger.Debug("remove", "key", key, "removed", removed)

		delete(kept, key)

		err = set.Validate()
		if err != nil {
			return reportInvalid(app, fmt.Errorf("after removing %v: %w", key, err))
		}

		if set.Contains(key) {
			return reportInvalid(app, fmt.Errorf("%w: %v is still present", ErrMembership, key))
		}
	}

	for key := range kept {
		if !set.Contains(key) {
			return reportInvalid(app, fmt.Errorf("%w: %v is lost", ErrMembership, key))
		}
	}

	app.Logger.Info("tree is valid", "keys", set.Len(), "removed", len(victims))

	ok := color.New(color.FgGreen, color.Bold)
	_, err = ok.Fprintf(app.stdout, "OK: %d keys, height %d, black height %d\n",
		set.Len(), set.Height(), set.BlackHeight())
	if err != nil {
		return fmt.Errorf("write result: %w", err)
	}

	return nil
}

func reportInvalid(app *App, err error) error {
	app.Logger.Error("tree is invalid", "error", err)

	bad := color.New(color.FgRed, color.Bold)
	_, _ = bad.Fprintf(app.stdout, "INVALID: %v\n", err)

	return fmt.Errorf("%w: %w", ErrInvalidTree, err)
}
