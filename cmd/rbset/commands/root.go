package commands

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/rbset/pkg/observability"
)

// NewRootCommand assembles the rbset command tree bound to the given streams.
func NewRootCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	app := NewApp(stdin, stdout, stderr)

	rootCmd := &cobra.Command{
		Use:   "rbset",
		Short: "rbset - red-black ordered key sets",
		Long: `rbset builds red-black trees from whitespace separated keys and
checks, prints, draws or measures them.

Keys are read from a file, or from standard input when the file is "-".`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			mode := observability.ModeCLI
			if cmd.Name() == "demo" {
				mode = observability.ModeDemo
			}

			return app.setup(mode)
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			return app.teardown()
		},
	}

	rootCmd.SetIn(stdin)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	app.bindFlags(rootCmd)

	rootCmd.AddCommand(
		newSortCommand(app),
		newCheckCommand(app),
		newDumpCommand(app),
		newDrawCommand(app),
		newExportCommand(app),
		newStatsCommand(app),
		newDemoCommand(app),
		newConfigCommand(app),
		newVersionCommand(app),
	)

	return rootCmd
}
