package playtime

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"time"

	"mclogs/internal/logfiles"
	"mclogs/internal/logging"
	"mclogs/internal/reverse"
)

// lastTimestamp finds the final bracketed clock reading in a log. Clock
// times typed into chat carry no brackets and are passed over.
var lastTimestamp = reverse.Pattern(regexp.MustCompile(`\[\d{2}:\d{2}:\d{2}\]`))

// Entry is the measured session of one log file.
type Entry struct {
	Name     string
	Path     string
	Start    time.Duration
	End      time.Duration
	Duration time.Duration
}

// Report aggregates a batch of measured logs.
type Report struct {
	Entries []Entry
	Total   time.Duration
	// Skipped counts files that were not recognized as chat logs.
	Skipped int
	// Corrupt names files that could not be read.
	Corrupt []string
}

// Merge folds other into r.
func (r *Report) Merge(other Report) {
	r.Entries = append(r.Entries, other.Entries...)
	r.Total += other.Total
	r.Skipped += other.Skipped
	r.Corrupt = append(r.Corrupt, other.Corrupt...)
}

func (r *Report) add(entry Entry) {
	r.Entries = append(r.Entries, entry)
	r.Total += entry.Duration
}

// Calculator measures the logs of one or more directories.
type Calculator struct {
	// Scan supplies the chunk size for the backward search; Skip and Trim are
	// fixed by the calculator.
	Scan  reverse.Options
	Files logfiles.Options
	// Limit caps the number of files examined per directory. Zero or less
	// means no limit.
	Limit  int
	Logger *slog.Logger
}

// Count measures every log in dir. A directory that cannot be listed and a
// scanner contract violation abort the count; problems with single files do
// not.
func (c Calculator) Count(ctx context.Context, dir string) (Report, error) {
	logger := logging.WithContext(logging.WithDir(ctx, dir), logging.NewComponentLogger(c.Logger, "playtime"))

	var report Report
	examined := 0
	for log, err := range logfiles.Walk(dir, c.Files) {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if c.Limit > 0 && examined >= c.Limit {
			break
		}
		if err != nil {
			if errors.Is(err, logfiles.ErrDirectory) {
				return report, err
			}
			examined++
			c.reportCorrupt(logger, &report, err, "")
			continue
		}
		examined++

		entry, err := c.measure(log)
		switch {
		case err == nil:
			report.add(entry)
			logger.Debug("session measured",
				logging.String(logging.FieldFile, log.Name()),
				logging.Duration("duration", entry.Duration),
			)
		case errors.Is(err, reverse.ErrContract):
			return report, err
		case errors.Is(err, ErrMalformedEntry):
			report.Skipped++
			logger.Debug("not a chat log",
				logging.String(logging.FieldFile, log.Name()),
				logging.Error(err),
			)
		default:
			c.reportCorrupt(logger, &report, err, log.Name())
		}
	}
	return report, nil
}

// CountAll runs Count for each directory in order and merges the reports.
func (c Calculator) CountAll(ctx context.Context, dirs []string) (Report, error) {
	var total Report
	for _, dir := range dirs {
		report, err := c.Count(ctx, dir)
		total.Merge(report)
		if err != nil {
			return total, fmt.Errorf("count %s: %w", dir, err)
		}
	}
	return total, nil
}

func (c Calculator) measure(log *logfiles.Log) (Entry, error) {
	first, err := log.ReadLine()
	if errors.Is(err, io.EOF) {
		return Entry{}, fmt.Errorf("%w: empty log", ErrMalformedEntry)
	}
	if err != nil {
		return Entry{}, err
	}
	start, err := ParseTimestamp(first)
	if err != nil {
		return Entry{}, err
	}

	opts := c.Scan
	opts.Skip = 0
	opts.Trim = 0
	match, found, err := reverse.ScanBackward(log, lastTimestamp, opts)
	if err != nil {
		return Entry{}, err
	}
	if !found {
		return Entry{}, fmt.Errorf("%w: no closing timestamp", ErrMalformedEntry)
	}
	end, err := ParseTimestamp(log.Decode(match.Text))
	if err != nil {
		return Entry{}, err
	}

	return Entry{
		Name:     log.Name(),
		Path:     log.Path(),
		Start:    start,
		End:      end,
		Duration: Elapsed(start, end),
	}, nil
}

func (c Calculator) reportCorrupt(logger *slog.Logger, report *Report, err error, name string) {
	if name == "" {
		name = corruptName(err)
	}
	report.Corrupt = append(report.Corrupt, name)
	logging.WarnWithContext(logger, "log may be corrupted, skipping", "corrupt_log",
		logging.String(logging.FieldFile, name),
		logging.Error(err),
	)
}

// corruptName recovers a file name from an open failure.
func corruptName(err error) string {
	var named *logfiles.OpenError
	if errors.As(err, &named) {
		return named.Name
	}
	return "unknown"
}
