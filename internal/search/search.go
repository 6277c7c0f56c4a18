package search

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"regexp"

	"mclogs/internal/logfiles"
	"mclogs/internal/logging"
)

// Compile builds a case-insensitive search pattern.
func Compile(expr string) (*regexp.Regexp, error) {
	re, err := regexp.Compile("(?i)" + expr)
	if err != nil {
		return nil, fmt.Errorf("compile search pattern: %w", err)
	}
	return re, nil
}

// Searcher looks for Pattern in every log of a set of directories.
type Searcher struct {
	Pattern *regexp.Regexp
	// Limit stops the search after this many matches. Zero or less means no limit.
	Limit  int
	Files  logfiles.Options
	Logger *slog.Logger
}

// Run writes one line per match to w and returns the number of matches.
// Directories are searched in order, logs in file name order.
func (s Searcher) Run(ctx context.Context, dirs []string, w io.Writer) (int, error) {
	if s.Pattern == nil {
		return 0, errors.New("search: nil pattern")
	}
	logger := logging.NewComponentLogger(s.Logger, "search")

	matches := 0
	for _, dir := range dirs {
		done, err := s.searchDir(ctx, dir, w, &matches, logging.WithContext(logging.WithDir(ctx, dir), logger))
		if err != nil {
			return matches, err
		}
		if done {
			break
		}
	}
	logger.Debug("search finished", logging.Int("matches", matches), logging.Int("dirs", len(dirs)))
	return matches, nil
}

// searchDir reports done once the limit is reached.
func (s Searcher) searchDir(ctx context.Context, dir string, w io.Writer, matches *int, logger *slog.Logger) (bool, error) {
	for log, err := range logfiles.Walk(dir, s.Files) {
		if err := ctx.Err(); err != nil {
			return true, err
		}
		if err != nil {
			if errors.Is(err, logfiles.ErrDirectory) {
				return true, fmt.Errorf("search %s: %w", dir, err)
			}
			logging.WarnWithContext(logger, "log may be corrupted, skipping", "corrupt_log", logging.Error(err))
			continue
		}

		done, err := s.searchLog(log, w, matches)
		if err != nil {
			var werr writeError
			if errors.As(err, &werr) {
				return true, werr.err
			}
			logging.WarnWithContext(logger, "log could not be read to the end", "unreadable_log",
				logging.String(logging.FieldFile, log.Name()),
				logging.Error(err),
			)
			continue
		}
		if done {
			return true, nil
		}
	}
	return false, nil
}

type writeError struct{ err error }

func (e writeError) Error() string { return e.err.Error() }

func (s Searcher) searchLog(log *logfiles.Log, w io.Writer, matches *int) (bool, error) {
	for {
		line, err := log.ReadLine()
		if errors.Is(err, io.EOF) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		out, ok := s.extract(line)
		if !ok {
			continue
		}
		if _, err := io.WriteString(w, out+"\n"); err != nil {
			return true, writeError{fmt.Errorf("write search result: %w", err)}
		}
		*matches++
		if s.Limit > 0 && *matches >= s.Limit {
			return true, nil
		}
	}
}

// extract returns the first capture group when the pattern has any, otherwise
// the whole line. A match in which the first group took no part is not a
// result.
func (s Searcher) extract(line string) (string, bool) {
	if s.Pattern.NumSubexp() == 0 {
		return line, s.Pattern.MatchString(line)
	}
	loc := s.Pattern.FindStringSubmatchIndex(line)
	if loc == nil || loc[2] < 0 {
		return "", false
	}
	return line[loc[2]:loc[3]], true
}
