package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"mclogs/internal/config"
	"mclogs/internal/logfiles"
	"mclogs/internal/reverse"
)

func newLastCommand(ctx *commandContext) *cobra.Command {
	var literal string
	var pattern string
	var skip int
	var trim int
	var chunk int

	cmd := &cobra.Command{
		Use:   "last FILE",
		Short: "Print the tail of a log after its last delimiter",
		Long: "Scan FILE backward and print the text after the last occurrence of a delimiter.\n" +
			"Without --delimiter or --pattern the last non-empty line is printed.\n" +
			"--skip passes over that many trailing occurrences first; --trim moves the cut\n" +
			"relative to the occurrence (defaults to the delimiter length for --delimiter).",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if literal != "" && pattern != "" {
				return errors.New("use either --delimiter or --pattern, not both")
			}
			path, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}
			log, err := logfiles.Open(path, ctx.logOptions())
			if err != nil {
				return err
			}
			defer log.Close()

			opts := ctx.scanOptions(chunk)
			out := cmd.OutOrStdout()

			if literal == "" && pattern == "" {
				cfg, err := ctx.ensureConfig()
				if err != nil {
					return err
				}
				line, found, err := reverse.LastLine(log, cfg.Scan.Terminator, opts.ChunkSize)
				if err != nil {
					return err
				}
				if !found {
					return fmt.Errorf("%s has no non-empty line", log.Name())
				}
				if cfg.Scan.Terminator == "\n" {
					line = strings.TrimSuffix(line, "\r")
				}
				fmt.Fprintln(out, log.Decode([]byte(line)))
				return nil
			}

			var delim reverse.Delimiter
			if literal != "" {
				delim = reverse.Literal(unescape(literal))
				opts.Trim = delim.MaxLen()
			} else {
				delim, err = reverse.CompilePattern(pattern)
				if err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("trim") {
				opts.Trim = trim
			}
			opts.Skip = skip

			match, found, err := reverse.ScanBackward(log, delim, opts)
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("%s: %s occurs fewer than %d times", log.Name(), delim, skip+1)
			}
			fmt.Fprint(out, log.Decode(match.Text))
			if n := len(match.Text); n == 0 || match.Text[n-1] != '\n' {
				fmt.Fprintln(out)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&literal, "delimiter", "d", "", `Literal delimiter (\n, \r and \t are unescaped)`)
	cmd.Flags().StringVarP(&pattern, "pattern", "p", "", "Regular expression delimiter")
	cmd.Flags().IntVar(&skip, "skip", 0, "Trailing occurrences to pass over")
	cmd.Flags().IntVar(&trim, "trim", 0, "Offset of the cut relative to the occurrence")
	cmd.Flags().IntVar(&chunk, "chunk", 0, "Override the backward scan chunk size in bytes")
	return cmd
}
