package commands

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/rbset/pkg/config"
)

// ErrConfigExists is returned by config init when the target file exists and --force is not set.
var ErrConfigExists = errors.New("config file already exists")

func newConfigCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the rbset configuration",
	}

	cmd.AddCommand(newConfigInitCommand(app), newConfigShowCommand(app))

	return cmd
}

func newConfigInitCommand(app *App) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write the default configuration as YAML (to stdout without a path)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if len(args) == 0 {
				return config.Default().WriteYAML(app.stdout)
			}

			path := args[0]

			if !force {
				_, statErr := os.Stat(path)
				if statErr == nil {
					return fmt.Errorf("%w: %s (use --force to overwrite)", ErrConfigExists, path)
				}
			}

			return app.withOutput(path, func(writer io.Writer) error {
				return config.Default().WriteYAML(writer)
			})
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	return cmd
}

func newConfigShowCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration, file and environment overrides applied",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return app.Config.WriteYAML(app.stdout)
		},
	}
}
