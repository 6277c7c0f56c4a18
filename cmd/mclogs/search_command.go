package main

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/spf13/cobra"

	"mclogs/internal/config"
	"mclogs/internal/search"
)

func newSearchCommand(ctx *commandContext) *cobra.Command {
	var sel dirSelection
	var limit int
	var output string

	cmd := &cobra.Command{
		Use:   "search PATTERN [dir...]",
		Short: "Print log lines matching a case-insensitive pattern",
		Long: "Search every dated log line by line. When PATTERN has a capture group only the\n" +
			"first group is printed, otherwise the whole line.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			re, err := search.Compile(args[0])
			if err != nil {
				return err
			}
			dirs, err := ctx.resolveDirs(args[1:], sel)
			if err != nil {
				return err
			}

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			run := searchRun{limit: cfg.Search.Limit, output: cfg.Search.Output}
			if cmd.Flags().Changed("limit") {
				run.limit = limit
			}
			if cmd.Flags().Changed("output") {
				run.output, err = config.ExpandPath(strings.TrimSpace(output))
				if err != nil {
					return err
				}
			}
			return runSearch(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), ctx, re, dirs, run)
		},
	}

	sel.register(cmd)
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Stop after this many matches (0 = unlimited)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write matches to this file instead of stdout")
	return cmd
}

type searchRun struct {
	limit  int
	output string
}

func runSearch(ctx context.Context, out, errOut io.Writer, cc *commandContext, re *regexp.Regexp, dirs []string, run searchRun) (err error) {
	logger, err := cc.ensureLogger(errOut)
	if err != nil {
		return err
	}
	searcher := search.Searcher{
		Pattern: re,
		Limit:   run.limit,
		Files:   cc.logOptions(),
		Logger:  logger,
	}

	if run.output == "" {
		_, err := searcher.Run(ctx, dirs, out)
		return err
	}

	sink, err := search.OpenOutput(run.output)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := sink.Close(); err == nil {
			err = cerr
		}
	}()
	n, err := searcher.Run(ctx, dirs, sink)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, renderStatusLine(statusOK, fmt.Sprintf("Wrote %d matches to %s", n, sink.Path()), shouldColorize(out)))
	return nil
}
