package commands

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"golang.org/x/exp/constraints"

	"github.com/Sumatoshi-tech/rbset/pkg/rbtree"
	"github.com/Sumatoshi-tech/rbset/pkg/safeconv"
)

func newStatsCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "stats <file|->",
		Short: "Show tree shape and node arena statistics",
		Long: `Show the tree shape and the node arena footprint. The arena is hibernated
once to measure its compressed size, then booted and validated again.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			tokens, err := app.readTokens(args[0])
			if err != nil {
				return err
			}

			return app.withKeys(tokens, keyHandlers{
				ints:    func(set *rbtree.OrderedKeySet[int]) error { return printStats(app, set) },
				strings: func(set *rbtree.OrderedKeySet[string]) error { return printStats(app, set) },
			})
		},
	}
}

// treeStats is what printStats reports.
type treeStats struct {
	Len            int
	Height         int
	BlackHeight    int
	ArenaSize      int
	ArenaUsed      int
	StorageBytes   int
	HibernateBytes int
	Hibernated     bool
	HibernateTime  time.Duration
	BootTime       time.Duration
}

func collectStats[K constraints.Ordered](set *rbtree.OrderedKeySet[K]) (treeStats, error) {
	allocator := set.Allocator()
	stats := treeStats{
		Len:          set.Len(),
		Height:       set.Height(),
		BlackHeight:  set.BlackHeight(),
		ArenaSize:    allocator.Size(),
		ArenaUsed:    allocator.Used(),
		StorageBytes: allocator.StorageBytes(),
	}

	start := time.Now()

	err := allocator.Hibernate()
	if err != nil {
		return stats, fmt.Errorf("stats: %w", err)
	}

	stats.HibernateTime = time.Since(start)

	if !allocator.Hibernated() {
		return stats, nil
	}

	stats.Hibernated = true
	stats.HibernateBytes = allocator.HibernatedBytes()
	start = time.Now()

	err = allocator.Boot()
	if err != nil {
		return stats, fmt.Errorf("stats: %w", err)
	}

	stats.BootTime = time.Since(start)

	err = set.Validate()
	if err != nil {
		return stats, fmt.Errorf("stats: tree damaged by hibernation: %w", err)
	}

	return stats, nil
}

func printStats[K constraints.Ordered](app *App, set *rbtree.OrderedKeySet[K]) error {
	stats, err := collectStats(set)
	if err != nil {
		return err
	}

	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(table.Row{"Metric", "Value"})
	tbl.AppendRow(table.Row{"keys", humanize.Comma(int64(stats.Len))})
	tbl.AppendRow(table.Row{"height", stats.Height})
	tbl.AppendRow(table.Row{"black height", stats.BlackHeight})
	tbl.AppendRow(table.Row{"arena slots", humanize.Comma(int64(stats.ArenaSize))})
	tbl.AppendRow(table.Row{"arena used", humanize.Comma(int64(stats.ArenaUsed))})
	tbl.AppendRow(table.Row{"arena memory", humanize.IBytes(safeconv.MustIntToUint64(stats.StorageBytes))})

	if stats.Hibernated {
		tbl.AppendRow(table.Row{"links hibernated", humanize.IBytes(safeconv.MustIntToUint64(stats.HibernateBytes))})
		tbl.AppendRow(table.Row{"hibernate time", stats.HibernateTime.Round(time.Microsecond)})
		tbl.AppendRow(table.Row{"boot time", stats.BootTime.Round(time.Microsecond)})
	} else {
		tbl.AppendRow(table.Row{"links hibernated", fmt.Sprintf("skipped, under %s slots",
			humanize.Comma(int64(set.Allocator().HibernationThreshold)))})
	}

	app.Logger.Debug("stats collected", "keys", stats.Len, "height", stats.Height, "hibernated", stats.Hibernated)

	_, err = fmt.Fprintln(app.stdout, tbl.Render())
	if err != nil {
		return fmt.Errorf("write stats: %w", err)
	}

	return nil
}
