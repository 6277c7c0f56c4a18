package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"mclogs/internal/playtime"
)

func newPlaytimeCommand(ctx *commandContext) *cobra.Command {
	var sel dirSelection
	var limit int
	var fullPaths bool
	var chunk int

	cmd := &cobra.Command{
		Use:   "playtime [dir...]",
		Short: "Total the time spent in game across log folders",
		Long: "Measure each dated log from its first timestamp to its last and sum the results.\n" +
			"Without arguments the folders from the config file are used, falling back to the launcher's default.",
		RunE: func(cmd *cobra.Command, args []string) error {
			dirs, err := ctx.resolveDirs(args, sel)
			if err != nil {
				return err
			}
			return countPlaytime(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), ctx, dirs, playtimeRun{
				limit:     limit,
				chunk:     chunk,
				fullPaths: fullPaths || len(dirs) > 1,
			})
		},
	}

	sel.register(cmd)
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Examine at most this many files per folder (0 = all)")
	cmd.Flags().BoolVar(&fullPaths, "full-paths", false, "Show full file paths instead of names")
	cmd.Flags().IntVar(&chunk, "chunk", 0, "Override the backward scan chunk size in bytes")
	return cmd
}

type playtimeRun struct {
	limit     int
	chunk     int
	fullPaths bool
}

func countPlaytime(ctx context.Context, out, errOut io.Writer, cc *commandContext, dirs []string, run playtimeRun) error {
	logger, err := cc.ensureLogger(errOut)
	if err != nil {
		return err
	}
	calc := playtime.Calculator{
		Scan:   cc.scanOptions(run.chunk),
		Files:  cc.logOptions(),
		Limit:  run.limit,
		Logger: logger,
	}
	report, err := calc.CountAll(ctx, dirs)
	if err != nil {
		return err
	}
	renderPlaytime(out, report, run.fullPaths, shouldColorize(out))
	return nil
}

func renderPlaytime(out io.Writer, report playtime.Report, fullPaths, colorize bool) {
	if len(report.Entries) == 0 {
		fmt.Fprintln(out, renderStatusLine(statusInfo, "No chat logs found", colorize))
	} else {
		rows := make([][]string, 0, len(report.Entries))
		for _, entry := range report.Entries {
			name := entry.Name
			if fullPaths {
				name = entry.Path
			}
			rows = append(rows, []string{name, playtime.FormatDuration(entry.Duration)})
		}
		fmt.Fprintln(out, renderTable(
			[]string{"Log", "Playtime"},
			rows,
			[]string{"Total", playtime.FormatDuration(report.Total)},
			[]columnAlignment{alignLeft, alignRight},
		))
	}

	for _, name := range report.Corrupt {
		fmt.Fprintln(out, renderStatusLine(statusWarn, name+" may be corrupted -- skipped", colorize))
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Total playtime:", playtime.FormatDuration(report.Total))
}
